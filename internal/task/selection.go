package task

import (
	"sync"

	"github.com/Iron-Ham/eisen/internal/event"
)

// TypeSelectionChanged is published after every Selection.Set or Clear.
const TypeSelectionChanged = "selection.changed"

// SelectionChangedEvent carries the new filter value.
type SelectionChangedEvent struct {
	event.Base
	Category string
	Set      bool
	Version  uint64
}

// Selection is the active category filter. The zero value is unset and
// publishes nothing.
type Selection struct {
	mu       sync.Mutex
	category string
	set      bool
	version  uint64
	bus      *event.Bus
}

// NewSelection creates an unset Selection publishing on bus.
func NewSelection(bus *event.Bus) *Selection {
	return &Selection{bus: bus}
}

// Get returns the selected category and whether one is set.
func (s *Selection) Get() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category, s.set
}

// Snapshot returns the selection together with its version.
func (s *Selection) Snapshot() (category string, set bool, version uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.category, s.set, s.version
}

// Version returns a counter that increases on every Set or Clear.
func (s *Selection) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// Set selects category. The value is compared exactly against task
// categories, so callers should pass a normalized label.
func (s *Selection) Set(category string) {
	s.update(category, true)
}

// Clear removes the filter.
func (s *Selection) Clear() {
	s.update("", false)
}

func (s *Selection) update(category string, set bool) {
	s.mu.Lock()
	s.category = category
	s.set = set
	s.version++
	ev := SelectionChangedEvent{
		Base:     event.NewBase(TypeSelectionChanged),
		Category: category,
		Set:      set,
		Version:  s.version,
	}
	s.mu.Unlock()

	if s.bus != nil {
		s.bus.Publish(ev)
	}
}
