package app

import (
	"io"
	"log/slog"
)

// newLogger builds the logger an App emits diagnostics through. It writes to
// the given writer only and never touches the process-global default, so
// machine output on the primary writer stays clean. Unknown levels fall back
// to info.
func newLogger(level, format string, w io.Writer) *slog.Logger {
	lvl := slog.LevelInfo
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: lvl}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
