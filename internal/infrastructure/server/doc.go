// Package server assembles the stylesheet HTTP host: Gin engine, middleware
// stack, style-data source and graceful shutdown.
package server
