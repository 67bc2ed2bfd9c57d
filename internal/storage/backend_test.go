package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func testBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	if _, err := b.Get(ctx, KeyTasks); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get on empty backend: err = %v, want ErrNotFound", err)
	}

	if err := b.Set(ctx, KeyTasks, []byte(`[1]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := b.Set(ctx, KeyTasks, []byte(`[1,2]`)); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	got, err := b.Get(ctx, KeyTasks)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != `[1,2]` {
		t.Errorf("Get() = %s, want [1,2]", got)
	}

	if _, err := b.Get(ctx, KeyCategories); !errors.Is(err, ErrNotFound) {
		t.Errorf("other keys should stay absent, err = %v", err)
	}
}

func TestMemoryBackend(t *testing.T) {
	testBackendContract(t, NewMemoryBackend())
}

func TestFileBackend(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	testBackendContract(t, b)

	if _, err := os.Stat(b.Path(KeyTasks) + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file should be removed after atomic rename")
	}
}

func TestFileBackend_InvalidKey(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}
	for _, key := range []string{"", "..", "a/b", `a\b`} {
		if err := b.Set(context.Background(), key, []byte("x")); err == nil {
			t.Errorf("Set(%q) should fail", key)
		}
	}
}

func TestFileBackend_EmptyDir(t *testing.T) {
	if _, err := NewFileBackend(""); err == nil {
		t.Error("NewFileBackend(\"\") should fail")
	}
}

func TestFileBackend_Watch(t *testing.T) {
	b, err := NewFileBackend(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileBackend: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changed := make(chan string, 8)
	done := make(chan error, 1)
	go func() {
		done <- b.Watch(ctx, func(key string) { changed <- key })
	}()

	// Give the watcher time to register the directory.
	time.Sleep(50 * time.Millisecond)

	if err := b.Set(context.Background(), KeyCategories, []byte(`["Work"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}

	select {
	case key := <-changed:
		if key != KeyCategories {
			t.Errorf("Watch reported %q, want %q", key, KeyCategories)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("Watch did not report the change")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v after cancel", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestSQLiteBackend(t *testing.T) {
	b, err := NewSQLiteBackend(filepath.Join(t.TempDir(), "nested", sqliteFileName))
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	defer b.Close()

	testBackendContract(t, b)
}

func TestSQLiteBackend_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), sqliteFileName)

	b, err := NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("NewSQLiteBackend: %v", err)
	}
	if err := b.Set(context.Background(), KeyCategories, []byte(`["Work"]`)); err != nil {
		t.Fatalf("Set: %v", err)
	}
	_ = b.Close()

	b, err = NewSQLiteBackend(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer b.Close()

	got, err := b.Get(context.Background(), KeyCategories)
	if err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
	if string(got) != `["Work"]` {
		t.Errorf("Get() = %s", got)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	for _, name := range ValidBackends() {
		t.Run(name, func(t *testing.T) {
			b, err := Open(name, dir)
			if err != nil {
				t.Fatalf("Open(%q): %v", name, err)
			}
			defer b.Close()
			if b.Name() != name {
				t.Errorf("Name() = %q, want %q", b.Name(), name)
			}
		})
	}

	if _, err := Open("postgres", dir); err == nil {
		t.Error("Open with unknown backend should fail")
	}
}
