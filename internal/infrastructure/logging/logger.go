// Package logging provides structured logging for the rent check
// services.
//
// The default text format is a colorized console style:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value
// Setting format to "json" switches to slog's JSON handler, which is
// what the daemon should use when logs are shipped somewhere.
package logging

import (
	"log/slog"
	"os"

	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/config"
)

// NewLogger creates a structured logger based on config.
func NewLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = NewConsoleHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

// NewLoggerWithSystem creates a logger scoped to a subsystem, e.g.
// "check", "bank", "daemon". The system name shows up as a bracketed
// prefix in console output.
func NewLoggerWithSystem(cfg config.LoggingConfig, system string) *slog.Logger {
	return NewLogger(cfg).With("system", system)
}
