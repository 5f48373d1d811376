// Package logging creates the application's logger.
package logging

import (
	"io"
	"log/slog"
)

// New returns a logger writing to w. Format "text" selects slog's text handler. Anything else logs JSON.
func New(w io.Writer, format string, debug bool) *slog.Logger {
	opts := slog.HandlerOptions{Level: slog.LevelInfo}
	if debug {
		opts.Level = slog.LevelDebug
	}
	var h slog.Handler
	switch format {
	case "text":
		h = slog.NewTextHandler(w, &opts)
	default:
		h = slog.NewJSONHandler(w, &opts)
	}
	return slog.New(h)
}
