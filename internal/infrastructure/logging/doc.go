// Package logging provides structured logging using uber/zap.
//
// Two modes:
//   - Production: JSON output for machine parsing
//   - Development: colored console output
//
// Example Usage:
//
//	logger := logging.NewOrNop(logging.DefaultConfig())
//	logger.Info("Server starting", zap.String("port", "8000"))
//	logger.Error("failed to fetch styles", zap.Error(err))
package logging
