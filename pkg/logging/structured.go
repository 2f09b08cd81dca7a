// Package logging provides shared logging utilities for maturinctl.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LogFormat specifies the output format for structured logging.
type LogFormat string

const (
	// FormatJSON outputs logs as JSON objects (machine-readable).
	FormatJSON LogFormat = "json"
	// FormatText outputs logs as human-readable key=value text.
	FormatText LogFormat = "text"
)

// Config holds configuration for structured logging.
type Config struct {
	// Level sets the minimum log level.
	Level slog.Level
	// Format sets the output format.
	Format LogFormat
	// Output sets the writer for log output (default: os.Stderr).
	Output io.Writer
	// Component identifies the logging component (e.g., "dispatch", "installer").
	Component string
	// Redact scrubs secrets from messages and attributes.
	Redact bool
}

// DefaultConfig returns the configuration used for stderr diagnostics:
// warnings and errors only, as text, with secrets redacted.
func DefaultConfig() Config {
	return Config{
		Level:  slog.LevelWarn,
		Format: FormatText,
		Output: os.Stderr,
		Redact: true,
	}
}

// NewStructuredLogger creates a new structured logger with the given configuration.
func NewStructuredLogger(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level: cfg.Level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.String("ts", a.Value.Time().Format(time.RFC3339Nano))
			}
			return a
		},
	}

	var handler slog.Handler
	if cfg.Format == FormatText {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	if cfg.Redact {
		handler = NewRedactingHandler(handler)
	}

	logger := slog.New(handler)
	if cfg.Component != "" {
		logger = WithComponent(logger, cfg.Component)
	}
	return logger
}

// Options selects the diagnostic log for one CLI invocation.
type Options struct {
	Debug  bool
	Format string
	// File, when set, receives a rotated JSON log at debug level instead
	// of stderr.
	File string
}

// Open builds the run logger described by opts and tags it with a fresh
// trace id. The returned function closes the log file, if any.
func Open(opts Options) (*slog.Logger, func() error, error) {
	cfg := DefaultConfig()
	format, err := ParseFormat(opts.Format)
	if err != nil {
		return nil, nil, err
	}
	cfg.Format = format
	if opts.Debug {
		cfg.Level = slog.LevelDebug
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		w, err := NewFileWriter(FileConfig{Path: opts.File})
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		cfg.Output = w
		cfg.Format = FormatJSON
		cfg.Level = slog.LevelDebug
		closeFn = w.Close
	}

	return WithTraceID(NewStructuredLogger(cfg), uuid.NewString()), closeFn, nil
}

// WithTraceID returns a new logger with the given trace ID.
func WithTraceID(logger *slog.Logger, traceID string) *slog.Logger {
	return logger.With(slog.String("trace_id", traceID))
}

// WithComponent returns a new logger with the given component name.
func WithComponent(logger *slog.Logger, component string) *slog.Logger {
	return logger.With(slog.String("component", component))
}

// ParseFormat converts a --log-format value to a LogFormat. An empty value
// selects text.
func ParseFormat(format string) (LogFormat, error) {
	switch strings.ToLower(format) {
	case "", "text", "pretty":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want text or json)", format)
	}
}
