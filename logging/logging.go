package logging

import (
	"io"
	"log/slog"
	"strings"
)

// ComponentKey is the attribute naming the subsystem that emitted a record.
const ComponentKey = "component"

// LoggerConfig holds configuration for the logger.
type LoggerConfig struct {
	Level string `yaml:"level"`
}

// NewLogger creates a new slog.Logger with JSON handler and the specified output.
// The level is parsed from the config; defaults to INFO if invalid or empty.
func NewLogger(config LoggerConfig, w io.Writer) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   false,
		Level:       ParseLevel(config.Level),
		ReplaceAttr: nil,
	})

	return slog.New(handler)
}

// ForComponent scopes logger to a named component.
// A nil logger yields one that discards everything, so libraries can log unconditionally.
func ForComponent(logger *slog.Logger, component string) *slog.Logger {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return logger.With(slog.String(ComponentKey, component))
}

// ParseLevel converts a level name to a slog.Level, case-insensitively.
// Unknown names map to INFO.
func ParseLevel(level string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
