package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/fsnotify/fsnotify"
)

const fileExt = ".json"

// watchSettle is how long Watch waits after the last filesystem event for
// a key before reporting it. Editors and the atomic rename both produce
// several events per logical write.
const watchSettle = 50 * time.Millisecond

// FileBackend stores each key as {dir}/{key}.json.
type FileBackend struct {
	dir string
}

// NewFileBackend creates a FileBackend rooted at dir, creating it if needed.
func NewFileBackend(dir string) (*FileBackend, error) {
	if dir == "" {
		return nil, errors.ErrBackendUnavailable
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.NewStorageError("open", "", err).WithBackend(BackendFile)
	}
	return &FileBackend{dir: dir}, nil
}

// Name implements Backend.
func (b *FileBackend) Name() string { return BackendFile }

// Dir returns the directory holding the key files.
func (b *FileBackend) Dir() string { return b.dir }

// Path returns the file path used for key.
func (b *FileBackend) Path(key string) string {
	return filepath.Join(b.dir, key+fileExt)
}

func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, `/\`) && key != "." && key != ".."
}

// Get implements Backend. A file lock is held during the read.
func (b *FileBackend) Get(ctx context.Context, key string) ([]byte, error) {
	if !validKey(key) {
		return nil, errors.NewValidationError("invalid storage key").WithField("key").WithValue(key)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fl := NewFileLock(b.dir)
	if err := fl.Lock(); err != nil {
		return nil, errors.NewStorageError("read", key, err).WithBackend(BackendFile)
	}
	defer func() { _ = fl.Unlock() }()

	data, err := os.ReadFile(b.Path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, errors.NewStorageError("read", key, err).WithBackend(BackendFile)
	}
	return data, nil
}

// Set implements Backend. The write is atomic: data is written to a
// temporary file first, then renamed into place, all under the file lock.
func (b *FileBackend) Set(ctx context.Context, key string, value []byte) error {
	if !validKey(key) {
		return errors.NewValidationError("invalid storage key").WithField("key").WithValue(key)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	fl := NewFileLock(b.dir)
	if err := fl.Lock(); err != nil {
		return errors.NewStorageError("write", key, err).WithBackend(BackendFile).WithRetryable(true)
	}
	defer func() { _ = fl.Unlock() }()

	target := b.Path(key)
	tmp := target + ".tmp"

	if err := os.WriteFile(tmp, value, 0644); err != nil {
		return errors.NewStorageError("write", key, fmt.Errorf("write temp file: %w", err)).
			WithBackend(BackendFile).
			WithRetryable(true)
	}

	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp) // best-effort cleanup
		return errors.NewStorageError("write", key, fmt.Errorf("rename temp file: %w", err)).
			WithBackend(BackendFile).
			WithRetryable(true)
	}
	return nil
}

// Close implements Backend.
func (b *FileBackend) Close() error { return nil }

// Watch reports keys whose files change on disk until ctx is canceled.
// onChange is called from Watch's goroutine, once per settled burst of
// events for a key. Temporary files written by Set are ignored; the rename
// that publishes them is reported under the final key.
func (b *FileBackend) Watch(ctx context.Context, onChange func(key string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory; fsnotify loses track of files replaced by rename.
	if err := watcher.Add(b.dir); err != nil {
		return fmt.Errorf("watch %s: %w", b.dir, err)
	}

	settle := time.NewTimer(watchSettle)
	if !settle.Stop() {
		<-settle.C
	}
	dirty := make(map[string]bool)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !strings.HasSuffix(name, fileExt) {
				continue
			}
			dirty[strings.TrimSuffix(name, fileExt)] = true
			settle.Reset(watchSettle)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", b.dir, err)

		case <-settle.C:
			for key := range dirty {
				onChange(key)
			}
			clear(dirty)
		}
	}
}
