// File: internal/logger/logger.go
package logger

import (
	"io"
	"log/slog"
	"os"
)

// Builds the process logger on stderr, keeping stdout for command output.
// level is usually a *slog.LevelVar so --debug can raise verbosity after flag parsing
func NewLogger(level slog.Leveler) *slog.Logger {
	return New(os.Stderr, level)
}

func New(w io.Writer, level slog.Leveler) *slog.Logger {
	if level == nil {
		level = slog.LevelInfo
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	})

	logger := slog.New(handler)

	slog.SetDefault(logger)
	return logger
}
