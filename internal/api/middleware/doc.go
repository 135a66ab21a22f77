// Package middleware provides the Gin middleware stack of the stylesheet host.
//
// Features:
//   - CORS for cross-origin stylesheet loads (gin-contrib/cors)
//   - Per-IP rate limiting with idle client eviction
package middleware
