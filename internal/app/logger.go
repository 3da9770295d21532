package app

import (
	"io"
	"log/slog"
)

// newLogger builds the session logger from the parsed CLI settings. It never
// touches the slog global: the logger travels through ctxlog, so two App
// instances in one process stay isolated.
func newLogger(level, format string, outW io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(outW, opts))
	}
	return slog.New(slog.NewTextHandler(outW, opts))
}

// parseLevel maps the CLI level string to a slog.Level, defaulting to info.
// The CLI layer already rejected unknown strings.
func parseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
