package logging

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
)

// Patterns that match sensitive values in log output. The first capture group
// keeps the prefix (e.g. "--password=") and only the value is replaced.
var defaultRedactPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(Authorization:\s*)\S+(\s+\S+)?`),
	regexp.MustCompile(`(?i)(Bearer\s+)\S+`),
	regexp.MustCompile(`(?i)((?:password|passwd|secret|api[_-]?key|token|credentials?|auth[_-]?token)\s*[=:]\s*)\S+`),
	regexp.MustCompile(`(pypi-)[A-Za-z0-9_-]{16,}`),
	regexp.MustCompile(`((?:^|\s)(?:--password|--token|-p)\s+)\S+`),
}

// secretFlags take their secret as the following argument, as in
// "maturin publish --password hunter2".
var secretFlags = map[string]bool{
	"--password": true,
	"--token":    true,
	"-p":         true,
}

const redacted = "[REDACTED]"

// RedactingHandler is a slog.Handler that scrubs secrets from the message and
// every attribute before forwarding records to an inner handler.
type RedactingHandler struct {
	inner    slog.Handler
	patterns []*regexp.Regexp
}

// NewRedactingHandler wraps an inner handler with secret redaction.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{
		inner:    inner,
		patterns: defaultRedactPatterns,
	}
}

// Enabled delegates to the inner handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts sensitive values in the record before forwarding.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, h.redactAttr(a))
		return true
	})

	out := slog.NewRecord(r.Time, r.Level, h.redactString(r.Message), r.PC)
	out.AddAttrs(attrs...)

	return h.inner.Handle(ctx, out)
}

// WithAttrs returns a new handler with redacted persistent attributes.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = h.redactAttr(a)
	}
	return &RedactingHandler{
		inner:    h.inner.WithAttrs(out),
		patterns: h.patterns,
	}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{
		inner:    h.inner.WithGroup(name),
		patterns: h.patterns,
	}
}

func (h *RedactingHandler) redactAttr(a slog.Attr) slog.Attr {
	switch a.Value.Kind() {
	case slog.KindString:
		return slog.String(a.Key, h.redactString(a.Value.String()))
	case slog.KindGroup:
		attrs := a.Value.Group()
		out := make([]any, len(attrs))
		for i, ga := range attrs {
			out[i] = h.redactAttr(ga)
		}
		return slog.Group(a.Key, out...)
	case slog.KindAny:
		return h.redactAnyAttr(a)
	default:
		return a
	}
}

// redactAnyAttr handles argument lists, env maps, and errors.
func (h *RedactingHandler) redactAnyAttr(a slog.Attr) slog.Attr {
	switch val := a.Value.Any().(type) {
	case []string:
		return slog.Any(a.Key, h.redactArgs(val))
	case map[string]string:
		return slog.Any(a.Key, RedactEnv(val))
	case error:
		return slog.String(a.Key, h.redactString(val.Error()))
	case fmt.Stringer:
		return slog.String(a.Key, h.redactString(val.String()))
	default:
		return a
	}
}

func (h *RedactingHandler) redactArgs(args []string) []string {
	out := make([]string, len(args))
	for i, s := range args {
		if i > 0 && secretFlags[args[i-1]] {
			out[i] = redacted
			continue
		}
		out[i] = h.redactString(s)
	}
	return out
}

func (h *RedactingHandler) redactString(s string) string {
	for _, p := range h.patterns {
		s = p.ReplaceAllString(s, "${1}"+redacted)
	}
	return s
}

// RedactString applies the default redaction patterns to a string.
// Use this for output that does not go through slog, such as echoed scripts.
func RedactString(s string) string {
	for _, p := range defaultRedactPatterns {
		s = p.ReplaceAllString(s, "${1}"+redacted)
	}
	return s
}

// RedactEnv returns a copy of the env map with sensitive values redacted.
func RedactEnv(env map[string]string) map[string]string {
	if env == nil {
		return nil
	}
	out := make(map[string]string, len(env))
	for k, v := range env {
		if isSensitiveKey(k) {
			out[k] = redacted
		} else {
			out[k] = v
		}
	}
	return out
}

var sensitiveKeyPattern = regexp.MustCompile(`(?i)(password|passwd|secret|token|credential|auth|api[_-]?key)`)

func isSensitiveKey(key string) bool {
	return sensitiveKeyPattern.MatchString(strings.ToLower(key))
}
