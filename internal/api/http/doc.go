// Package http provides the Gin handlers of the stylesheet service.
//
// Endpoints:
//   - Stylesheet: GET /styles.css (path configurable), text/css, always 200
//   - Health: GET /health
//
// Example Usage:
//
//	h := http.NewStylesHandler(client, logger, metrics)
//	router.GET("/styles.css", h.Generate)
package http
