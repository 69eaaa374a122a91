// Package logger configures the application's structured JSON logging on
// log/slog and carries loggers through request contexts.
package logger
