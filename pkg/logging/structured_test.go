package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEntry(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(data, &entry), "log line: %s", data)
	return entry
}

func TestNewStructuredLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})
	logger.Info("installing", "tag", "v0.12.6")

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "installing", entry["msg"])
	assert.Equal(t, "v0.12.6", entry["tag"])
	assert.Contains(t, entry, "ts")
	assert.NotContains(t, entry, "time")
}

func TestNewStructuredLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(Config{Level: slog.LevelInfo, Format: FormatText, Output: &buf})
	logger.Info("pulling", "image", "quay.io/pypa/manylinux2014_x86_64")

	assert.Contains(t, buf.String(), "msg=pulling")
	assert.Contains(t, buf.String(), "image=quay.io/pypa/manylinux2014_x86_64")
}

func TestNewStructuredLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(Config{Level: slog.LevelWarn, Format: FormatJSON, Output: &buf})
	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("shown")
	assert.Equal(t, "shown", decodeEntry(t, buf.Bytes())["msg"])
}

func TestNewStructuredLogger_Component(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf, Component: "dispatch"})
	logger.Info("dispatching")

	assert.Equal(t, "dispatch", decodeEntry(t, buf.Bytes())["component"])
}

func TestNewStructuredLogger_Redacts(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf, Redact: true})
	logger.Info("publishing", "args", []string{"publish", "--password", "hunter2"})

	assert.NotContains(t, buf.String(), "hunter2")
}

func TestWithTraceIDAndComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewStructuredLogger(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: &buf})
	logger = WithComponent(WithTraceID(logger, "trace-123"), "installer")
	logger.Info("found")

	entry := decodeEntry(t, buf.Bytes())
	assert.Equal(t, "trace-123", entry["trace_id"])
	assert.Equal(t, "installer", entry["component"])
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, slog.LevelWarn, cfg.Level)
	assert.Equal(t, FormatText, cfg.Format)
	assert.True(t, cfg.Redact)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input string
		want  LogFormat
	}{
		{"", FormatText},
		{"text", FormatText},
		{"TEXT", FormatText},
		{"pretty", FormatText},
		{"json", FormatJSON},
		{"JSON", FormatJSON},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, `unknown log format "xml"`)
}

func TestOpen_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "maturinctl.log")
	logger, closeLog, err := Open(Options{Format: "text", File: path})
	require.NoError(t, err)

	logger.Debug("checking target", "target", "aarch64-unknown-linux-gnu")
	require.NoError(t, closeLog())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	entry := decodeEntry(t, bytes.TrimSpace(data))
	assert.Equal(t, "checking target", entry["msg"], "file log is JSON at debug level")
	assert.NotEmpty(t, entry["trace_id"])
}

func TestOpen_BadFormat(t *testing.T) {
	_, _, err := Open(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestNewDiscardLogger(t *testing.T) {
	logger := NewDiscardLogger()
	assert.False(t, logger.Enabled(t.Context(), slog.LevelError))
	logger.Error("dropped")
}
