// Package logging builds the structured logger used across the CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps a level name to a slog level.
// It reports false for unknown names.
func ParseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	}
	return slog.LevelWarn, false
}

// New creates a text logger writing to w. debug forces the debug level.
// An unknown level name falls back to warn and is reported once.
func New(w io.Writer, level string, debug bool) *slog.Logger {
	lvl, ok := ParseLevel(level)
	if debug {
		lvl = slog.LevelDebug
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
	if !ok && level != "" {
		logger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "warn")
	}
	return logger
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
