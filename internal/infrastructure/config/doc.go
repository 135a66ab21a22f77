// Package config provides 12-factor configuration for the stylesheet service.
//
// Configuration is loaded from environment variables with defaults.
// CLI flags can override the listen port and upstream URL.
//
// Configuration Sections:
//   - Server: listen address, stylesheet route, shutdown timeout
//   - Upstream: style-data service URL, token, timeout, client rate limit
//   - Logging: log level and output format
//   - RateLimit: per-IP rate limiting
//   - CORS: allowed origins for the stylesheet route
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Printf("Serving %s on %s:%s\n", cfg.Server.StylesPath, cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, STYLES_PATH, SHUTDOWN_TIMEOUT
//   - STYLES_UPSTREAM_URL, STYLES_UPSTREAM_TOKEN, STYLES_UPSTREAM_TIMEOUT,
//     STYLES_UPSTREAM_RPS, STYLES_TOKENS_FILE
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
//   - CORS_ALLOW_ORIGINS
package config
