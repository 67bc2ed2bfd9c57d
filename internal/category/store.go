package category

import (
	"slices"
	"sync"

	"github.com/Iron-Ham/eisen/internal/event"
)

// TypeChanged is published after every mutating Store call.
const TypeChanged = "categories.changed"

// ChangedEvent carries the category list after a mutation. Categories is
// an immutable snapshot and may be retained by subscribers.
type ChangedEvent struct {
	event.Base
	Categories []string
	Version    uint64
}

// DefaultCategories returns the seed list used when nothing is stored.
func DefaultCategories() []string {
	return []string{"Work", "Personal Projects", "Freelance Jobs"}
}

// Store holds the insertion-ordered list of known category labels.
// All methods are safe for concurrent use.
//
// Labels are stored as given; callers normalize user input with Normalize
// before calling Add. The list is used for populating pickers and is not
// checked against the categories tasks actually carry.
type Store struct {
	mu         sync.Mutex
	categories []string
	version    uint64
	bus        *event.Bus
}

// NewStore creates a Store seeded with initial. Exact duplicates in
// initial are dropped, keeping the first occurrence. bus may be nil.
func NewStore(initial []string, bus *event.Bus) *Store {
	return &Store{
		categories: dedupe(initial),
		bus:        bus,
	}
}

// List returns a snapshot of the category labels in insertion order.
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.categories
}

// Contains reports whether label is known.
func (s *Store) Contains(label string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.categories, label)
}

// Add appends label if it is not already present. It reports whether the
// list changed. Subscribers are notified either way.
func (s *Store) Add(label string) bool {
	s.mu.Lock()
	added := !slices.Contains(s.categories, label)
	if added {
		next := make([]string, len(s.categories), len(s.categories)+1)
		copy(next, s.categories)
		s.categories = append(next, label)
	}
	ev := s.commit()
	s.mu.Unlock()

	s.publish(ev)
	return added
}

// Remove deletes label if present and reports whether the list changed.
func (s *Store) Remove(label string) bool {
	s.mu.Lock()
	idx := slices.Index(s.categories, label)
	if idx >= 0 {
		next := make([]string, 0, len(s.categories)-1)
		next = append(next, s.categories[:idx]...)
		s.categories = append(next, s.categories[idx+1:]...)
	}
	ev := s.commit()
	s.mu.Unlock()

	s.publish(ev)
	return idx >= 0
}

// Replace swaps the whole list, dropping exact duplicates.
func (s *Store) Replace(labels []string) {
	s.mu.Lock()
	s.categories = dedupe(labels)
	ev := s.commit()
	s.mu.Unlock()

	s.publish(ev)
}

// Version returns a counter that increases by one on every mutating call.
func (s *Store) Version() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version
}

// commit must be called while s.mu is held.
func (s *Store) commit() ChangedEvent {
	s.version++
	return ChangedEvent{
		Base:       event.NewBase(TypeChanged),
		Categories: s.categories,
		Version:    s.version,
	}
}

func (s *Store) publish(ev ChangedEvent) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func dedupe(labels []string) []string {
	out := make([]string, 0, len(labels))
	for _, l := range labels {
		if !slices.Contains(out, l) {
			out = append(out, l)
		}
	}
	return out
}
