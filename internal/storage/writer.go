package storage

import (
	"context"
	"encoding/json"
	"slices"
	"sync"
	"time"

	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/event"
	"github.com/Iron-Ham/eisen/internal/logging"
)

// DefaultDelay is the quiet period used by the task and category stores.
const DefaultDelay = 300 * time.Millisecond

// Option configures a Writer.
type Option func(*Writer)

// WithBus publishes write outcome events on bus.
func WithBus(bus *event.Bus) Option {
	return func(w *Writer) {
		w.bus = bus
	}
}

// WithLogger sets the logger for the writer.
func WithLogger(logger *logging.Logger) Option {
	return func(w *Writer) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithWriteTimeout bounds each backend write. Zero means no bound.
func WithWriteTimeout(d time.Duration) Option {
	return func(w *Writer) {
		w.writeTimeout = d
	}
}

// pendingWrite is the latest value scheduled for a key that has not been
// written yet.
type pendingWrite struct {
	value any
	timer *time.Timer
	seq   uint64
	calls int
}

// Writer coalesces scheduled writes per key. Each Schedule call for a key
// cancels and replaces the pending write for that key, so a burst of calls
// inside the quiet window results in one backend write carrying the value
// of the last call.
type Writer struct {
	backend      Backend
	bus          *event.Bus
	logger       *logging.Logger
	writeTimeout time.Duration

	mu      sync.Mutex
	pending map[string]*pendingWrite
	seq     uint64
	closed  bool
	running sync.WaitGroup

	writeMu sync.Mutex        // serializes backend writes
	written map[string]uint64 // key -> seq of the newest value written
}

// NewWriter creates a Writer over backend. A nil backend makes every
// Schedule a no-op, mirroring an execution context with no storage.
func NewWriter(backend Backend, opts ...Option) *Writer {
	w := &Writer{
		backend: backend,
		logger:  logging.NopLogger(),
		pending: make(map[string]*pendingWrite),
		written: make(map[string]uint64),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Schedule serializes value under key once delay has passed without
// another Schedule for the same key. It never blocks on the backend and
// never reports failure; see WriteFailedEvent.
//
// value is encoded when the timer fires, so it must not be mutated after
// being handed over. Store snapshots are immutable and satisfy this.
func (w *Writer) Schedule(key string, value any, delay time.Duration) {
	if w.backend == nil {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		w.logger.WithKey(key).Debug("write scheduled after close, dropped")
		return
	}

	w.seq++
	seq := w.seq

	p, ok := w.pending[key]
	if ok {
		p.timer.Stop()
		p.calls++
	} else {
		p = &pendingWrite{calls: 1}
		w.pending[key] = p
	}
	p.value = value
	p.seq = seq
	p.timer = time.AfterFunc(delay, func() { w.fire(key, seq) })
}

// fire runs on the timer goroutine. A timer that was superseded after it
// had already fired finds a newer seq and returns.
func (w *Writer) fire(key string, seq uint64) {
	w.mu.Lock()
	p, ok := w.pending[key]
	if !ok || p.seq != seq || w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.pending, key)
	w.running.Add(1)
	w.mu.Unlock()

	defer w.running.Done()
	_ = w.write(context.Background(), key, p)
}

// write encodes and stores one pending value. Writes older than the
// newest value already written for the key are skipped.
func (w *Writer) write(ctx context.Context, key string, p *pendingWrite) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	log := w.logger.WithKey(key)

	if p.seq < w.written[key] {
		log.Debug("stale write skipped", "seq", p.seq)
		return nil
	}

	data, err := json.Marshal(p.value)
	if err != nil {
		err = errors.NewStorageError("encode", key, err).WithBackend(w.backend.Name())
		log.Error("failed to encode value", "error", err.Error())
		w.publish(event.NewWriteFailedEvent(key, err))
		return err
	}

	if w.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.writeTimeout)
		defer cancel()
	}

	if err := w.backend.Set(ctx, key, data); err != nil {
		log.Warn("write failed, in-memory state kept",
			"backend", w.backend.Name(),
			"severity", errors.GetSeverity(err).String(),
			"retryable", errors.IsRetryable(err),
			"error", err.Error())
		w.publish(event.NewWriteFailedEvent(key, err))
		return err
	}

	w.written[key] = p.seq
	log.Debug("write completed", "bytes", len(data), "coalesced", p.calls)
	w.publish(event.NewWriteCompletedEvent(key, len(data), p.calls))
	return nil
}

func (w *Writer) publish(e event.Event) {
	if w.bus != nil {
		w.bus.Publish(e)
	}
}

// Pending returns the keys with a scheduled write that has not fired yet,
// sorted.
func (w *Writer) Pending() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	keys := make([]string, 0, len(w.pending))
	for k := range w.pending {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// Flush writes every pending value now instead of waiting for its timer.
// It returns the joined write errors; the values are dropped either way.
func (w *Writer) Flush(ctx context.Context) error {
	w.mu.Lock()
	batch := w.takePending()
	w.mu.Unlock()

	return w.writeBatch(ctx, batch)
}

// Close flushes pending writes, waits for in-flight timer writes and
// rejects further Schedule calls.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	batch := w.takePending()
	w.mu.Unlock()

	err := w.writeBatch(ctx, batch)
	w.running.Wait()
	return err
}

// takePending stops every timer and empties the pending map.
// Must be called while w.mu is held.
func (w *Writer) takePending() map[string]*pendingWrite {
	batch := w.pending
	for _, p := range batch {
		p.timer.Stop()
	}
	w.pending = make(map[string]*pendingWrite)
	return batch
}

func (w *Writer) writeBatch(ctx context.Context, batch map[string]*pendingWrite) error {
	keys := make([]string, 0, len(batch))
	for k := range batch {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var errs []error
	for _, key := range keys {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if err := w.write(ctx, key, batch[key]); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
