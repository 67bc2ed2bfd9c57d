// Package workspace wires the task and category stores to a storage
// backend for one eisen process.
//
// A Workspace is constructed once per command or TUI session and passed to
// everything that needs state. Open loads the persisted collections, and
// every later store mutation is persisted through a debounced Writer. The
// stores never know about storage; a bus subscription forwards their
// change events to the writer.
package workspace

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Iron-Ham/eisen/internal/category"
	"github.com/Iron-Ham/eisen/internal/config"
	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/event"
	"github.com/Iron-Ham/eisen/internal/logging"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/storage"
	"github.com/Iron-Ham/eisen/internal/task"
)

// ErrWatchUnsupported is returned by Watch for backends that cannot report
// external changes.
var ErrWatchUnsupported = errors.New("backend does not support watching")

// Option configures Open.
type Option func(*options)

type options struct {
	backend  storage.Backend
	logger   *logging.Logger
	now      func() time.Time
	newID    func() string
	readOnly bool
	command  string
}

// WithBackend uses backend instead of opening the configured one. The
// caller keeps ownership; Close does not close it and no writer lock is
// taken.
func WithBackend(backend storage.Backend) Option {
	return func(o *options) { o.backend = backend }
}

// WithLogger sets the logger shared by the stores, writer and bus.
func WithLogger(logger *logging.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithClock sets the time source for task creation and urgency.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the task id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// ReadOnly opens the workspace without persisting mutations or taking the
// writer lock. Used by viewers such as watch that reload external changes.
func ReadOnly() Option {
	return func(o *options) { o.readOnly = true }
}

// WithCommand names the command recorded in the writer lock.
func WithCommand(name string) Option {
	return func(o *options) { o.command = name }
}

// Workspace owns the live state of one eisen process.
type Workspace struct {
	Config     *config.Config
	Bus        *event.Bus
	Logger     *logging.Logger
	Backend    storage.Backend
	Writer     *storage.Writer
	Tasks      *task.Store
	Categories *category.Store
	Selection  *task.Selection
	View       *matrix.View

	dir         string
	now         func() time.Time
	delay       time.Duration
	readOnly    bool
	ownsBackend bool
	lock        *Lock
	subs        []string

	mu          sync.Mutex // guards the versions below and orders Schedule calls
	tasksVer    uint64
	catsVer     uint64
	closeOnce   sync.Once
	closeResult error
}

// Open loads persisted state for cfg and returns a ready Workspace. A nil
// cfg uses config.Default().
//
// Missing or corrupt stored values fall back to an empty task list and the
// configured default categories. Task categories are re-normalized on load.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Workspace, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	o := options{
		logger:  logging.NopLogger(),
		now:     time.Now,
		command: "eisen",
	}
	for _, opt := range opts {
		opt(&o)
	}

	w := &Workspace{
		Config:   cfg,
		Logger:   o.logger,
		dir:      cfg.Storage.ResolveDir(),
		now:      o.now,
		delay:    cfg.Storage.Debounce(),
		readOnly: o.readOnly,
	}

	w.Backend = o.backend
	if w.Backend == nil {
		backend, err := storage.Open(cfg.Storage.Backend, w.dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
		}
		w.Backend = backend
		w.ownsBackend = true
	}

	if w.ownsBackend && !w.readOnly && w.Backend.Name() != storage.BackendMemory {
		lock, err := AcquireLock(w.dir, o.command, w.Logger)
		if err != nil {
			_ = w.Backend.Close()
			return nil, err
		}
		w.lock = lock
	}

	w.Bus = event.NewBus(w.Logger)
	w.Writer = storage.NewWriter(w.Backend,
		storage.WithBus(w.Bus),
		storage.WithLogger(w.Logger),
		storage.WithWriteTimeout(cfg.Storage.WriteTimeout()),
	)

	tasks, cats := w.load(ctx)

	storeOpts := []task.Option{
		task.WithBus(w.Bus),
		task.WithLogger(w.Logger),
		task.WithClock(o.now),
	}
	if o.newID != nil {
		storeOpts = append(storeOpts, task.WithIDGenerator(o.newID))
	}
	w.Tasks = task.NewStore(tasks, storeOpts...)
	w.Categories = category.NewStore(cats, w.Bus)
	w.Selection = task.NewSelection(w.Bus)
	w.View = matrix.NewView(w.Tasks, w.Selection, w.MatrixOptions(), o.now)

	if !w.readOnly {
		w.subs = append(w.subs,
			w.Bus.Subscribe(task.TypeChanged, w.persistTasks),
			w.Bus.Subscribe(category.TypeChanged, w.persistCategories),
		)
	}

	w.Logger.Info("workspace opened",
		"backend", w.Backend.Name(),
		"dir", w.dir,
		"tasks", len(tasks),
		"categories", len(cats),
		"read_only", w.readOnly)
	return w, nil
}

// load reads both persisted collections, falling back per key.
func (w *Workspace) load(ctx context.Context) ([]task.Task, []string) {
	defaults := w.Config.Categories.Defaults
	if len(defaults) == 0 {
		defaults = category.DefaultCategories()
	}

	tasks := storage.Read[[]task.Task](ctx, w.Backend, storage.KeyTasks, nil, w.Logger)
	cats := storage.Read(ctx, w.Backend, storage.KeyCategories, defaults, w.Logger)
	return task.NormalizeCategories(tasks), cats
}

// Dir returns the resolved data directory.
func (w *Workspace) Dir() string { return w.dir }

// IsReadOnly reports whether mutations are persisted.
func (w *Workspace) IsReadOnly() bool { return w.readOnly }

// Now returns the workspace clock.
func (w *Workspace) Now() time.Time { return w.now() }

// MatrixOptions returns the classification options from the config.
func (w *Workspace) MatrixOptions() matrix.Options {
	return matrix.Options{
		UrgentWindow: w.Config.Matrix.UrgentWindow(),
		Grace:        w.Config.Matrix.Grace(),
	}
}

// persistTasks schedules the snapshot carried by a task change. Events are
// published after the store unlocks, so two mutations racing on different
// goroutines can deliver out of order; an older version never replaces a
// newer one.
func (w *Workspace) persistTasks(e event.Event) {
	ev, ok := e.(task.ChangedEvent)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if ev.Version <= w.tasksVer {
		return
	}
	w.tasksVer = ev.Version
	w.Writer.Schedule(storage.KeyTasks, ev.Tasks, w.delay)
}

func (w *Workspace) persistCategories(e event.Event) {
	ev, ok := e.(category.ChangedEvent)
	if !ok {
		return
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if ev.Version <= w.catsVer {
		return
	}
	w.catsVer = ev.Version
	w.Writer.Schedule(storage.KeyCategories, ev.Categories, w.delay)
}

// Reload re-reads both collections from the backend and replaces the
// in-memory state. Each store publishes one change event.
func (w *Workspace) Reload(ctx context.Context) {
	tasks, cats := w.load(ctx)
	w.Tasks.ReplaceAll(tasks)
	w.Categories.Replace(cats)
	w.Logger.Debug("workspace reloaded", "tasks", len(tasks), "categories", len(cats))
}

// Watch reloads the workspace whenever another process rewrites a
// persisted key, then calls onChange. It blocks until ctx is canceled.
// Only the file backend supports watching.
func (w *Workspace) Watch(ctx context.Context, onChange func()) error {
	fb, ok := w.Backend.(*storage.FileBackend)
	if !ok {
		return fmt.Errorf("%w: %s", ErrWatchUnsupported, w.Backend.Name())
	}
	return fb.Watch(ctx, func(key string) {
		if key != storage.KeyTasks && key != storage.KeyCategories {
			return
		}
		w.Logger.Debug("external change detected", "key", key)
		w.Reload(ctx)
		if onChange != nil {
			onChange()
		}
	})
}

// Flush writes pending changes now.
func (w *Workspace) Flush(ctx context.Context) error {
	return w.Writer.Flush(ctx)
}

// Close flushes pending writes, stops persisting and releases the backend
// and writer lock. Safe to call multiple times.
func (w *Workspace) Close(ctx context.Context) error {
	w.closeOnce.Do(func() {
		var errs []error
		if err := w.Writer.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush: %w", err))
		}
		for _, id := range w.subs {
			w.Bus.Unsubscribe(id)
		}
		if w.ownsBackend {
			if err := w.Backend.Close(); err != nil {
				errs = append(errs, fmt.Errorf("close backend: %w", err))
			}
		}
		if err := w.lock.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release lock: %w", err))
		}
		w.closeResult = errors.Join(errs...)
		w.Logger.Debug("workspace closed")
	})
	return w.closeResult
}
