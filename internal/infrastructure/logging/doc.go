// Package logging provides structured logging for Sensor Monitor Core.
//
// It wraps log/slog so every component logs with the same default fields
// (service, version) and the same level filtering.
//
// Configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("api server started", "address", addr)
//
// Never log bearer tokens or the JWT secret. Log the principal name instead.
package logging
