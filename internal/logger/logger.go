// Package logger configures the structured logger used across the module.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New creates the default console logger. The level comes from
// REALGOAL_LOG_LEVEL (debug, info, warn, error), defaulting to info.
func New() zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(levelFromEnv()).With().Timestamp().Logger()
}

// NewWithWriter creates a logger writing JSON lines to w, for tests and
// log capture.
func NewWithWriter(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}

func levelFromEnv() zerolog.Level {
	switch strings.ToLower(os.Getenv("REALGOAL_LOG_LEVEL")) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
