// Package logging provides structured logging for the lot planner.
//
// It wraps log/slog so that every record carries the service name and the
// build version.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("starting server", "port", 8080)
//	session.SetLogger(logger.With("component", "session"))
package logging
