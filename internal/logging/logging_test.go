package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "driftmesh.log")
	l, err := NewFileLogger("driftmesh", path)
	if err != nil {
		t.Fatal(err)
	}
	l.Infow("frame failed", "frame", 7)
	l.Debugw("hidden")
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if !strings.Contains(out, "INFO") || !strings.Contains(out, "driftmesh") || !strings.Contains(out, "frame failed") {
		t.Errorf("unexpected log line %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if strings.Contains(out, "\x1b[") {
		t.Errorf("file log carries colour codes: %q", out)
	}
}

func TestFileLoggerBadPath(t *testing.T) {
	if _, err := NewFileLogger("x", filepath.Join(t.TempDir(), "missing", "dir", "log")); err == nil {
		t.Error("expected error for unwritable path")
	}
}

func TestLevels(t *testing.T) {
	if NewLogger("a").Desugar().Core().Enabled(-1) {
		t.Error("info logger has debug enabled")
	}
	if !NewDebugLogger("a").Desugar().Core().Enabled(-1) {
		t.Error("debug logger has debug disabled")
	}
	NewNopLogger().Infow("discarded")
	NewTestLogger(t).Debugw("through testing.T")
}
