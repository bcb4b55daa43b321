package logger

import (
	"io"
	"log/slog"
	"os"
)

// New returns a structured JSON logger using slog, writing to stdout.
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter returns a JSON logger writing to w. The service name is attached to every record.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}
	handler := slog.NewJSONHandler(w, opts)
	return slog.New(handler).With("service", "medssi-sandbox")
}
