// Package logger provides structured logging for the application.
//
// It builds on log/slog: Setup creates a JSON (or text) logger with a
// configurable level, every record is enriched with the active
// OpenTelemetry trace and span ids, and loggers travel through
// context.Context so request-scoped attributes reach the stores.
package logger
