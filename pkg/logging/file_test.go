package logging

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileWriter_CreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")

	w, err := NewFileWriter(FileConfig{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger := NewStructuredLogger(Config{Level: slog.LevelInfo, Format: FormatJSON, Output: w})
	logger.Info("dispatch finished", "mode", "container")
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "dispatch finished") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}
