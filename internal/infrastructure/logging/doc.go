// Package logging provides structured logging for arexxd.
//
// This package wraps Go's standard log/slog package to provide
// consistent, structured logging across the daemon.
//
// # Features
//
//   - JSON output for production (machine-parsable)
//   - Text output for development (human-readable)
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//   - Thread-safe for concurrent use
//
// # Usage
//
//	logger := logging.New(cfg.Logging, "1.0.0")
//	logger.Info("sink ready", "sink", "livequery", "port", 4711)
//	logger.Error("delivery failed", "sink", "mqtt", "error", err)
//
// Never log broker credentials or database passwords.
package logging
