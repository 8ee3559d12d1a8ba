package config

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// NewLogger builds the process logger. Output goes to stderr by
// convention in main; servers that multiplex stdout (MCP over stdio)
// must not log there.
func NewLogger(w io.Writer, level, prefix string) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           parseLevel(level),
		Prefix:          prefix,
		TimeFormat:      time.RFC3339,
		ReportTimestamp: true,
	})
}

func parseLevel(level string) log.Level {
	switch strings.ToLower(level) {
	case "debug":
		return log.DebugLevel
	case "info":
		return log.InfoLevel
	case "warn", "warning":
		return log.WarnLevel
	case "error":
		return log.ErrorLevel
	default:
		return log.InfoLevel
	}
}
