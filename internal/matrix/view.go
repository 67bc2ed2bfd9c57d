package matrix

import (
	"sync"
	"time"

	"github.com/Iron-Ham/eisen/internal/task"
)

// View derives quadrants and completion from a live Store and Selection.
// The filtered task list and completion percentage are recomputed only
// when the store or selection version changes. Safe for concurrent use.
type View struct {
	store *task.Store
	sel   *task.Selection
	opts  Options
	now   func() time.Time

	mu       sync.Mutex
	cached   bool
	version  uint64
	selVer   uint64
	selected Selected
	filtered []task.Task
	percent  int
	computes int // number of cache misses, for tests
}

// NewView creates a View. sel may be nil, meaning no filter. now defaults
// to time.Now.
func NewView(store *task.Store, sel *task.Selection, opts Options, now func() time.Time) *View {
	if now == nil {
		now = time.Now
	}
	return &View{store: store, sel: sel, opts: opts, now: now}
}

func (v *View) refresh() {
	tasks, version := v.store.Snapshot()
	var selected Selected
	var selVer uint64
	if v.sel != nil {
		selected.Category, selected.Set, selVer = v.sel.Snapshot()
	}

	if v.cached && version == v.version && selVer == v.selVer && selected == v.selected {
		return
	}

	v.filtered = Filter(tasks, selected)
	v.percent = CompletionOf(v.filtered)
	v.version = version
	v.selVer = selVer
	v.selected = selected
	v.cached = true
	v.computes++
}

// Filtered returns the tasks passing the current selection.
func (v *View) Filtered() []task.Task {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return v.filtered
}

// Selected returns the filter the view is currently applying.
func (v *View) Selected() Selected {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return v.selected
}

// Completion returns the completion percentage of the filtered tasks.
func (v *View) Completion() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.refresh()
	return v.percent
}

// Quadrants buckets the filtered tasks at the current time.
func (v *View) Quadrants() Quadrants {
	v.mu.Lock()
	v.refresh()
	filtered := v.filtered
	v.mu.Unlock()

	return Bucket(filtered, v.now(), v.opts)
}
