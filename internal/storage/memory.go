package storage

import (
	"context"
	"sync"
)

// MemoryBackend is a map-backed Backend. Failures can be injected to
// exercise the degraded paths of Read and Writer.
type MemoryBackend struct {
	mu       sync.Mutex
	data     map[string][]byte
	writes   map[string]int
	readErr  error
	writeErr error
}

// NewMemoryBackend creates an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		data:   make(map[string][]byte),
		writes: make(map[string]int),
	}
}

// Name implements Backend.
func (b *MemoryBackend) Name() string { return BackendMemory }

// Get implements Backend.
func (b *MemoryBackend) Get(ctx context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readErr != nil {
		return nil, b.readErr
	}
	v, ok := b.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set implements Backend.
func (b *MemoryBackend) Set(ctx context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeErr != nil {
		return b.writeErr
	}
	b.data[key] = append([]byte(nil), value...)
	b.writes[key]++
	return nil
}

// Close implements Backend.
func (b *MemoryBackend) Close() error { return nil }

// Put stores raw bytes without counting a write. Tests use it to seed
// corrupt or legacy values.
func (b *MemoryBackend) Put(key string, value []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data[key] = append([]byte(nil), value...)
}

// Writes returns how many successful Set calls key has received.
func (b *MemoryBackend) Writes(key string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes[key]
}

// FailReads makes every Get return err until called again with nil.
func (b *MemoryBackend) FailReads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readErr = err
}

// FailWrites makes every Set return err until called again with nil.
func (b *MemoryBackend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}
