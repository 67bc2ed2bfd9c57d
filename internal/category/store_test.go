package category

import (
	"slices"
	"sync"
	"testing"

	"github.com/Iron-Ham/eisen/internal/event"
)

func collect(bus *event.Bus) (*[]ChangedEvent, *sync.Mutex) {
	var (
		mu     sync.Mutex
		events []ChangedEvent
	)
	bus.Subscribe(TypeChanged, func(e event.Event) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e.(ChangedEvent))
	})
	return &events, &mu
}

func TestNewStore_DropsDuplicates(t *testing.T) {
	s := NewStore([]string{"Work", "Errands", "Work"}, nil)
	if got := s.List(); !slices.Equal(got, []string{"Work", "Errands"}) {
		t.Errorf("List() = %v", got)
	}
}

func TestStore_Add(t *testing.T) {
	bus := event.NewBus()
	events, mu := collect(bus)
	s := NewStore(DefaultCategories(), bus)

	if !s.Add("Errands") {
		t.Error("Add(new) should report a change")
	}
	if s.Add("Errands") {
		t.Error("Add(duplicate) should not report a change")
	}
	if s.Add("Work") {
		t.Error("Add(existing default) should not report a change")
	}

	want := []string{"Work", "Personal Projects", "Freelance Jobs", "Errands"}
	if got := s.List(); !slices.Equal(got, want) {
		t.Errorf("List() = %v, want %v", got, want)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 3 {
		t.Fatalf("expected one event per call, got %d", len(*events))
	}
	if last := (*events)[2].Categories; !slices.Equal(last, want) {
		t.Errorf("event snapshot = %v, want %v", last, want)
	}
	if (*events)[2].Version != 3 || s.Version() != 3 {
		t.Errorf("version = %d, want 3", s.Version())
	}
}

func TestStore_Remove(t *testing.T) {
	s := NewStore(DefaultCategories(), nil)

	if !s.Remove("Personal Projects") {
		t.Error("Remove(existing) should report a change")
	}
	if s.Remove("Personal Projects") {
		t.Error("Remove(missing) should not report a change")
	}
	if s.Contains("Personal Projects") {
		t.Error("removed label still present")
	}
	if got := s.List(); !slices.Equal(got, []string{"Work", "Freelance Jobs"}) {
		t.Errorf("List() = %v", got)
	}
}

func TestStore_SnapshotsAreImmutable(t *testing.T) {
	s := NewStore([]string{"A", "B", "C"}, nil)
	before := s.List()

	s.Add("D")
	s.Remove("A")
	s.Replace([]string{"Z"})

	if !slices.Equal(before, []string{"A", "B", "C"}) {
		t.Errorf("earlier snapshot changed to %v", before)
	}
}

func TestStore_Replace(t *testing.T) {
	bus := event.NewBus()
	events, mu := collect(bus)
	s := NewStore(DefaultCategories(), bus)

	s.Replace([]string{"X", "Y", "X"})
	if got := s.List(); !slices.Equal(got, []string{"X", "Y"}) {
		t.Errorf("List() = %v", got)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(*events) != 1 {
		t.Errorf("Replace should publish once, got %d", len(*events))
	}
}
