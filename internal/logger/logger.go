// Package logger builds the process-wide zerolog logger from parsed
// configuration.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// New creates a zerolog logger writing to w at the given level. format
// selects structured JSON output or a human-readable console rendering.
// Unknown levels fall back to info.
func New(w io.Writer, level, format string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	if format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger().Level(lvl)
}

// NewDefault creates the standard production logger on stdout.
func NewDefault(level, format string) zerolog.Logger {
	return New(os.Stdout, level, format)
}
