package styles

import (
	"strings"
)

// Rule is the class prefix and CSS property applied to a category
type Rule struct {
	Prefix   string
	Property string
}

// RuleFor maps a category key to its utility-class rule. Unknown categories
// get a prefix derived from the key and the background-color property.
func RuleFor(category string) Rule {
	switch category {
	case "background":
		return Rule{Prefix: "bg-", Property: "background-color"}
	case "text":
		return Rule{Prefix: "c-", Property: "color"}
	case "border":
		return Rule{Prefix: "b--", Property: "border-color"}
	default:
		return Rule{Prefix: Normalize(category) + "-", Property: "background-color"}
	}
}

// Normalize replaces every underscore with a hyphen
func Normalize(name string) string {
	return strings.ReplaceAll(name, "_", "-")
}

// VariableName returns the custom property name for a category token
func VariableName(category, token string) string {
	return "--" + Normalize(category) + "-" + Normalize(token)
}

// Stats summarizes a rendered stylesheet
type Stats struct {
	Variables int
	Classes   int
}

// Render builds the stylesheet for a mapping. A nil or empty mapping
// renders as two newlines.
func Render(m *ColorTokenMapping) string {
	css, _ := RenderWithStats(m)
	return css
}

// RenderWithStats is Render plus the number of emitted declarations.
func RenderWithStats(m *ColorTokenMapping) (string, Stats) {
	var vars, classes []string

	if m != nil {
		for _, cat := range m.Categories {
			rule := RuleFor(cat.Key)
			for _, tok := range cat.Tokens {
				variable := VariableName(cat.Key, tok.Name)
				vars = append(vars, "  "+variable+": "+tok.Value+";")
				classes = append(classes,
					"."+rule.Prefix+Normalize(tok.Name)+" {\n  "+rule.Property+": var("+variable+");\n}\n")
			}
		}
	}

	var root string
	if len(vars) > 0 {
		root = ":root {\n" + strings.Join(vars, "\n") + "\n}"
	}

	var sb strings.Builder
	sb.WriteString(root)
	sb.WriteString("\n\n")
	sb.WriteString(strings.Join(classes, "\n"))

	return sb.String(), Stats{Variables: len(vars), Classes: len(classes)}
}
