// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production). Sync runs log every decision the reconciler
// makes, so the encoder and level are configurable: console output for
// interactive use, json for log shipping.
//
// # Run correlation
//
// WithRunID attaches a unique run_id field to the logger so that all lines
// belonging to one reconciliation pass can be correlated.
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log = logger.WithRunID(log)
//	log.Info("sync started")
package logger
