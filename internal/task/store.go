package task

import (
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/Iron-Ham/eisen/internal/category"
	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/event"
	"github.com/Iron-Ham/eisen/internal/logging"
	"github.com/google/uuid"
)

// TypeChanged is published after every mutating Store call.
const TypeChanged = "tasks.changed"

// Operation names carried by ChangedEvent.
const (
	OpAdd     = "add"
	OpUpdate  = "update"
	OpDelete  = "delete"
	OpToggle  = "toggle"
	OpReplace = "replace"
)

// ChangedEvent carries the task collection after a mutation. Tasks is a
// copy taken under the store's lock and may be retained by subscribers.
type ChangedEvent struct {
	event.Base
	Op      string
	ID      string // affected task, empty for OpReplace
	Tasks   []Task
	Version uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator sets the id source used by Add.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithBus publishes ChangedEvent on bus.
func WithBus(bus *event.Bus) Option {
	return func(s *Store) {
		s.bus = bus
	}
}

// WithLogger sets the logger for the store.
func WithLogger(logger *logging.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger.WithStore("tasks")
		}
	}
}

// Store is the authoritative in-memory task collection.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	tasks   []Task // newest first, replaced on every mutation
	version uint64

	now    func() time.Time
	newID  func() string
	bus    *event.Bus
	logger *logging.Logger
}

// NewStore creates a Store holding a copy of initial. Categories in
// initial are used as given; see NormalizeCategories.
func NewStore(initial []Task, opts ...Option) *Store {
	s := &Store{
		tasks:  cloneTasks(initial),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logging.NopLogger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Tasks returns a copy of the current tasks, newest first.
func (s *Store) Tasks() []Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks)
}

// Snapshot returns the current tasks together with the version they
// belong to.
func (s *Store) Snapshot() ([]Task, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneTasks(s.tasks), s.version
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Version returns a counter that increases by one on every mutating call.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Add creates a task from draft, assigning a fresh id and the current
// time, and prepends it to the collection.
func (s *Store) Add(draft Draft) Task {
	s.mu.Lock()
	t := Task{
		ID:          s.newID(),
		Title:       draft.Title,
		Description: draft.Description,
		IsComplete:  draft.IsComplete,
		DueDate:     cloneTime(draft.DueDate),
		Priority:    draft.Priority,
		Category:    category.Normalize(draft.Category),
		CreatedAt:   s.now(),
	}
	next := make([]Task, 0, len(s.tasks)+1)
	next = append(next, t)
	s.tasks = append(next, s.tasks...)
	ev := s.commit(OpAdd, t.ID)
	s.mu.Unlock()

	s.logger.Debug("task added", "id", t.ID, "category", t.Category)
	s.publish(ev)
	return cloneTask(t)
}

// UpdateTask merges patch into the task with the given id. A category in
// the patch is normalized first. Unknown ids are ignored.
func (s *Store) UpdateTask(id string, patch Patch) {
	if patch.Category != nil {
		normalized := category.Normalize(*patch.Category)
		patch.Category = &normalized
	}

	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		next := slices.Clone(s.tasks)
		next[idx] = patch.apply(next[idx])
		s.tasks = next
	}
	ev := s.commit(OpUpdate, id)
	s.mu.Unlock()

	s.publish(ev)
}

// DeleteTask removes the task with the given id. Unknown ids are ignored.
func (s *Store) DeleteTask(id string) {
	s.mu.Lock()
	if idx := s.indexOf(id); idx >= 0 {
		next := make([]Task, 0, len(s.tasks)-1)
		next = append(next, s.tasks[:idx]...)
		s.tasks = append(next, s.tasks[idx+1:]...)
	}
	ev := s.commit(OpDelete, id)
	s.mu.Unlock()

	s.publish(ev)
}

// GetByID returns the task with the given id.
func (s *Store) GetByID(id string) (Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(id); idx >= 0 {
		return cloneTask(s.tasks[idx]), true
	}
	return Task{}, false
}

// ToggleComplete flips IsComplete on the task with the given id and
// returns the task as it was before the flip. The change is visible
// immediately; persisting it happens later and its failure does not undo
// the flip. The boolean is false when the id is unknown.
func (s *Store) ToggleComplete(id string) (Task, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	var previous Task
	if idx >= 0 {
		previous = cloneTask(s.tasks[idx])
		next := slices.Clone(s.tasks)
		next[idx].IsComplete = !previous.IsComplete
		s.tasks = next
	}
	ev := s.commit(OpToggle, id)
	s.mu.Unlock()

	s.publish(ev)
	return previous, idx >= 0
}

// ReplaceAll replaces the whole collection with a copy of tasks, stored
// exactly as given.
func (s *Store) ReplaceAll(tasks []Task) {
	s.mu.Lock()
	s.tasks = cloneTasks(tasks)
	ev := s.commit(OpReplace, "")
	s.mu.Unlock()

	s.logger.Info("tasks replaced", "count", len(tasks))
	s.publish(ev)
}

// Resolve finds a task by exact id or, failing that, by unique id prefix.
func (s *Store) Resolve(ref string) (Task, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, errors.NewValidationError("cannot be empty").WithField("id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.indexOf(ref); idx >= 0 {
		return cloneTask(s.tasks[idx]), nil
	}

	var matches []Task
	for _, t := range s.tasks {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return Task{}, errors.NewNotFoundError("task", ref).WithCause(errors.ErrTaskNotFound)
	case 1:
		return cloneTask(matches[0]), nil
	default:
		return Task{}, errors.Wrapf(errors.ErrAmbiguousID, "%q matches %d tasks", ref, len(matches))
	}
}

// indexOf must be called while s.mu is held.
func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t Task) bool { return t.ID == id })
}

// commit bumps the version and builds the event for the current state.
// Must be called while s.mu is held.
func (s *Store) commit(op, id string) ChangedEvent {
	s.version++
	return ChangedEvent{
		Base:    event.NewBase(TypeChanged),
		Op:      op,
		ID:      id,
		Tasks:   cloneTasks(s.tasks),
		Version: s.version,
	}
}

func (s *Store) publish(ev ChangedEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func cloneTask(t Task) Task {
	t.DueDate = cloneTime(t.DueDate)
	return t
}

func cloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = cloneTask(t)
	}
	return out
}
