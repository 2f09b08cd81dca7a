package logging

import "log/slog"

// NewDiscardLogger returns a logger that discards all output.
// Library types start with it until a logger is injected.
func NewDiscardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
