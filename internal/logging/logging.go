// Package logging builds the leveled loggers handed to every component.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
)

// ParseLevel maps a LOG_LEVEL value to a log level. TRACE is folded into
// DEBUG; unknown values fall back to INFO.
func ParseLevel(s string) log.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "ERROR":
		return log.ErrorLevel
	case "WARN", "WARNING":
		return log.WarnLevel
	case "DEBUG", "TRACE":
		return log.DebugLevel
	default:
		return log.InfoLevel
	}
}

// New creates a timestamped logger writing to out at the given level
func New(level string, out io.Writer) *log.Logger {
	if out == nil {
		out = os.Stderr
	}
	return log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Level:           ParseLevel(level),
	})
}

// NewDefault creates a stderr logger from the LOG_LEVEL environment variable
func NewDefault() *log.Logger {
	return New(os.Getenv("LOG_LEVEL"), os.Stderr)
}

// Discard returns a logger that drops everything, for tests
func Discard() *log.Logger {
	return log.New(io.Discard)
}
