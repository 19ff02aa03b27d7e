// Package logging builds the slog loggers used by the planner and the CLI.
package logging

import (
	"io"
	"log/slog"
	"strings"
)

const (
	LevelDebug   = "debug"
	LevelInfo    = "info"
	LevelWarn    = "warn"
	LevelWarning = "warning"
	LevelError   = "error"

	FormatJSON = "json"
	FormatText = "text"

	DefaultServiceName = "factoryplan"
	DefaultVersion     = "dev"
)

// Config represents logger configuration
type Config struct {
	Level       string // "debug", "info", "warn", "error"
	Format      string // "json", "text"
	ServiceName string
	Version     string
	AddSource   bool
}

// DefaultConfig returns the defaults used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Level:       LevelInfo,
		Format:      FormatText,
		ServiceName: DefaultServiceName,
		Version:     DefaultVersion,
	}
}

// LogLevel converts the configured level to slog.Level. Unknown values map to info.
func (c Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelInfo:
		return slog.LevelInfo
	case LevelWarn, LevelWarning:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// IsJSON returns true if format is JSON
func (c Config) IsJSON() bool {
	return strings.ToLower(c.Format) == FormatJSON
}

// BaseAttributes returns the attributes attached to every record
func (c Config) BaseAttributes() []slog.Attr {
	return []slog.Attr{
		slog.String("service", c.ServiceName),
		slog.String("version", c.Version),
	}
}

// New creates a logger writing to w
func New(config Config, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     config.LogLevel(),
		AddSource: config.AddSource,
	}

	var handler slog.Handler
	if config.IsJSON() {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler.WithAttrs(config.BaseAttributes()))
}

// Init creates a logger writing to w and installs it as the slog default
func Init(config Config, w io.Writer) *slog.Logger {
	logger := New(config, w)
	slog.SetDefault(logger)
	return logger
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
