// Package main is the entry point for the stylesheet server.
//
// The server fetches color tokens from the style-data GraphQL service on
// every request and answers with a generated CSS stylesheet of custom
// properties and utility classes.
//
// Configuration:
//   - Environment variables (see internal/infrastructure/config)
//   - CLI flags (override env vars)
//
// Usage:
//
//	# Against the style-data service
//	./server -port 8000 -upstream https://styles.internal/graphql
//
//	# Local tokens file, colored debug logs
//	./server -tokens ./tokens.yaml -dev
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
