package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// readEntries decodes every JSON line of the log file in dir.
func readEntries(t *testing.T, dir string) []map[string]any {
	t.Helper()

	content, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	var entries []map[string]any
	for i, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("line %d is not JSON: %v\n%s", i, err, line)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNewLogger_CreatesDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "eisen")

	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	logger.Info("workspace opened")
	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	if got := readEntries(t, dir); len(got) != 1 || got[0]["msg"] != "workspace opened" {
		t.Errorf("entries = %v", got)
	}
}

func TestNewLogger_AppendsAcrossRuns(t *testing.T) {
	dir := t.TempDir()

	for _, msg := range []string{"first run", "second run"} {
		logger, err := NewLogger(dir, LevelInfo)
		if err != nil {
			t.Fatalf("NewLogger() error = %v", err)
		}
		logger.Info(msg)
		_ = logger.Close()
	}

	got := readEntries(t, dir)
	if len(got) != 2 || got[0]["msg"] != "first run" || got[1]["msg"] != "second run" {
		t.Errorf("entries = %v, want both runs in order", got)
	}
}

func TestNewLogger_EmptyDirUsesStderr(t *testing.T) {
	logger, err := NewLogger("", LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}
	if logger.file != nil {
		t.Error("no file should be opened without a data directory")
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{LevelDebug, []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{LevelInfo, []string{"INFO", "WARN", "ERROR"}},
		{"warning", []string{"WARN", "ERROR"}},
		{LevelError, []string{"ERROR"}},
		{"bogus", []string{"INFO", "WARN", "ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := NewWriterLogger(&buf, tt.level)
			logger.Debug("write scheduled")
			logger.Info("workspace opened")
			logger.Warn("write failed, in-memory state kept")
			logger.Error("failed to encode value")

			var got []string
			for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
				var entry struct{ Level string }
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("not JSON: %s", line)
				}
				got = append(got, entry.Level)
			}
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("levels = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStoreAndKeyAttributes(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	logger.WithStore("tasks").Debug("task added", "id", "id-1")
	logger.WithKey("task_manager.tasks.v1").Warn("write failed, in-memory state kept", "backend", "file")
	logger.WithStore("categories").WithKey("task_manager.categories.v1").Info("loaded")
	logger.With().Info("no attributes")
	_ = logger.Close()

	got := readEntries(t, dir)
	if len(got) != 4 {
		t.Fatalf("entries = %d, want 4", len(got))
	}

	tests := []struct {
		store, key string
		extra      map[string]any
	}{
		{store: "tasks", extra: map[string]any{"id": "id-1"}},
		{key: "task_manager.tasks.v1", extra: map[string]any{"backend": "file"}},
		{store: "categories", key: "task_manager.categories.v1"},
		{},
	}
	for i, tt := range tests {
		entry := got[i]
		if s, _ := entry["store"].(string); s != tt.store {
			t.Errorf("entry %d store = %q, want %q", i, s, tt.store)
		}
		if k, _ := entry["key"].(string); k != tt.key {
			t.Errorf("entry %d key = %q, want %q", i, k, tt.key)
		}
		for name, want := range tt.extra {
			if entry[name] != want {
				t.Errorf("entry %d %s = %v, want %v", i, name, entry[name], want)
			}
		}
	}
}

func TestClose(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	child := logger.WithStore("tasks")
	if err := child.Close(); err != nil {
		t.Fatalf("child Close() error = %v", err)
	}
	child.Info("after child close")

	if err := logger.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}

	if got := readEntries(t, dir); len(got) != 1 || got[0]["msg"] != "after child close" {
		t.Errorf("entries = %v", got)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.WithStore("tasks").Error("discarded")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestConcurrentWrites(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatalf("NewLogger() error = %v", err)
	}

	var wg sync.WaitGroup
	for _, store := range []string{"tasks", "categories", "writer"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			l := logger.WithStore(store)
			for i := range 100 {
				l.Info("event", "n", i)
			}
		}()
	}
	wg.Wait()
	_ = logger.Close()

	if got := readEntries(t, dir); len(got) != 300 {
		t.Errorf("entries = %d, want 300", len(got))
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]string{
		"DEBUG":   LevelDebug,
		"debug":   LevelDebug,
		"Info":    LevelInfo,
		"warn":    LevelWarn,
		"WARNING": LevelWarn,
		"error":   LevelError,
		"":        LevelInfo,
		"verbose": LevelInfo,
	}
	for input, want := range tests {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %q, want %q", input, got, want)
		}
	}

	levels := ValidLevels()
	if strings.Join(levels, ",") != "DEBUG,INFO,WARN,ERROR" {
		t.Errorf("ValidLevels() = %v", levels)
	}
	for _, l := range levels {
		if ParseLevel(l) != l {
			t.Errorf("ParseLevel(%q) should round-trip", l)
		}
	}
}
