package storage

import (
	"context"
	"path/filepath"

	"github.com/Iron-Ham/eisen/internal/errors"
)

// Persisted keys. The version suffix changes when the layout of the
// stored value changes incompatibly.
const (
	KeyTasks      = "task_manager.tasks.v1"
	KeyCategories = "task_manager.categories.v1"
)

// Backend names accepted by Open.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// ErrNotFound is returned by Backend.Get for keys that were never written.
var ErrNotFound = errors.ErrKeyNotFound

// Backend is a durable key-value store for serialized values.
type Backend interface {
	// Name identifies the backend in logs and errors.
	Name() string
	// Get returns the stored bytes for key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set replaces the stored bytes for key.
	Set(ctx context.Context, key string, value []byte) error
	// Close releases any resources held by the backend.
	Close() error
}

// ValidBackends returns the backend names accepted by Open.
func ValidBackends() []string {
	return []string{BackendFile, BackendSQLite, BackendMemory}
}

// Open constructs the named backend rooted at dataDir.
func Open(name, dataDir string) (Backend, error) {
	switch name {
	case BackendFile:
		return NewFileBackend(dataDir)
	case BackendSQLite:
		return NewSQLiteBackend(filepath.Join(dataDir, sqliteFileName))
	case BackendMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, errors.NewValidationError("unknown storage backend").
			WithField("storage.backend").
			WithValue(name)
	}
}
