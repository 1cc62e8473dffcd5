package logging

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewWithoutFileSink(t *testing.T) {
	logger, err := New("debug", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("hello")
}

func TestNewWithFileSink(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.log")

	logger, err := New("info", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Infow("build finished", "retries", 1)
	_ = logger.Desugar().Sync()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected log file at %s: %v", path, err)
	}
}
