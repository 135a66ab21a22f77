// Package styles turns a color token mapping into a stylesheet.
//
// A mapping groups tokens by category (background, text, border or any
// custom key). Each (category, token) pair becomes one custom property in a
// :root block and one utility class reading that property:
//
//	:root {
//	  --background-base: #FFFFFF;
//	}
//
//	.bg-base {
//	  background-color: var(--background-base);
//	}
//
// Underscores in category and token names become hyphens. Values are copied
// verbatim and never parsed as colors.
package styles
