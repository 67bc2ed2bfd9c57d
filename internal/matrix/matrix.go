package matrix

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/task"
)

// Quadrant identifies one cell of the matrix.
type Quadrant int

// Quadrants in display order: left to right, top to bottom.
const (
	ImportantUrgent Quadrant = iota
	ImportantNotUrgent
	NotImportantUrgent
	NotImportantNotUrgent
)

// AllQuadrants returns the four quadrants in display order.
func AllQuadrants() []Quadrant {
	return []Quadrant{ImportantUrgent, ImportantNotUrgent, NotImportantUrgent, NotImportantNotUrgent}
}

// String returns the quadrant's key as used in exports.
func (q Quadrant) String() string {
	switch q {
	case ImportantUrgent:
		return "importantUrgent"
	case ImportantNotUrgent:
		return "importantNotUrgent"
	case NotImportantUrgent:
		return "notImportantUrgent"
	case NotImportantNotUrgent:
		return "notImportantNotUrgent"
	default:
		return "unknown"
	}
}

// Title returns a human-readable heading.
func (q Quadrant) Title() string {
	switch q {
	case ImportantUrgent:
		return "Do first"
	case ImportantNotUrgent:
		return "Schedule"
	case NotImportantUrgent:
		return "Delegate"
	case NotImportantNotUrgent:
		return "Eliminate"
	default:
		return "Unknown"
	}
}

// Subtitle describes the quadrant's axes.
func (q Quadrant) Subtitle() string {
	switch q {
	case ImportantUrgent:
		return "Important · Urgent"
	case ImportantNotUrgent:
		return "Important · Not urgent"
	case NotImportantUrgent:
		return "Not important · Urgent"
	case NotImportantNotUrgent:
		return "Not important · Not urgent"
	default:
		return ""
	}
}

// ParseQuadrant accepts a quadrant key, its title or q1 through q4 in
// display order, case-insensitively.
func ParseQuadrant(s string) (Quadrant, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	for i, q := range AllQuadrants() {
		if key == strings.ToLower(q.String()) || key == strings.ToLower(q.Title()) || key == fmt.Sprintf("q%d", i+1) {
			return q, true
		}
	}
	return 0, false
}

// Options tunes the urgency predicate.
type Options struct {
	UrgentWindow time.Duration // how far ahead a due date counts as urgent
	Grace        time.Duration // how far behind now a due date still counts
}

// DefaultOptions returns a 48 hour window with a 5 minute grace period.
func DefaultOptions() Options {
	return Options{
		UrgentWindow: task.DefaultUrgentWindow,
		Grace:        task.DefaultGrace,
	}
}

// Selected is a category filter. The zero value selects every task.
type Selected struct {
	Category string
	Set      bool
}

// All selects every task.
func All() Selected { return Selected{} }

// Only selects tasks whose category equals category exactly.
func Only(category string) Selected { return Selected{Category: category, Set: true} }

// Matches reports whether t passes the filter.
func (s Selected) Matches(t task.Task) bool {
	return !s.Set || t.Category == s.Category
}

// Filter returns the tasks passing sel, preserving order. The input slice
// is returned as is when no filter is set.
func Filter(tasks []task.Task, sel Selected) []task.Task {
	if !sel.Set {
		return tasks
	}
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if sel.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// IsUrgent reports whether t has a due date inside the urgency window.
func IsUrgent(t task.Task, now time.Time, opts Options) bool {
	return t.DueDate != nil && task.IsWithinHours(*t.DueDate, now, opts.UrgentWindow, opts.Grace)
}

// IsOverdue reports whether t is incomplete and due before now minus the
// grace period.
func IsOverdue(t task.Task, now time.Time, opts Options) bool {
	return !t.IsComplete && t.DueDate != nil && t.DueDate.Before(now.Add(-opts.Grace))
}

// QuadrantOf returns the quadrant t occupies at now.
func QuadrantOf(t task.Task, now time.Time, opts Options) Quadrant {
	important := task.IsImportant(t.Priority)
	urgent := IsUrgent(t, now, opts)
	switch {
	case important && urgent:
		return ImportantUrgent
	case important:
		return ImportantNotUrgent
	case urgent:
		return NotImportantUrgent
	default:
		return NotImportantNotUrgent
	}
}

// Quadrants holds the four buckets of a classification.
type Quadrants struct {
	ImportantUrgent       []task.Task `json:"importantUrgent" yaml:"importantUrgent"`
	ImportantNotUrgent    []task.Task `json:"importantNotUrgent" yaml:"importantNotUrgent"`
	NotImportantUrgent    []task.Task `json:"notImportantUrgent" yaml:"notImportantUrgent"`
	NotImportantNotUrgent []task.Task `json:"notImportantNotUrgent" yaml:"notImportantNotUrgent"`
}

// Get returns the bucket for q.
func (qs Quadrants) Get(q Quadrant) []task.Task {
	switch q {
	case ImportantUrgent:
		return qs.ImportantUrgent
	case ImportantNotUrgent:
		return qs.ImportantNotUrgent
	case NotImportantUrgent:
		return qs.NotImportantUrgent
	case NotImportantNotUrgent:
		return qs.NotImportantNotUrgent
	default:
		return nil
	}
}

func (qs *Quadrants) add(q Quadrant, t task.Task) {
	switch q {
	case ImportantUrgent:
		qs.ImportantUrgent = append(qs.ImportantUrgent, t)
	case ImportantNotUrgent:
		qs.ImportantNotUrgent = append(qs.ImportantNotUrgent, t)
	case NotImportantUrgent:
		qs.NotImportantUrgent = append(qs.NotImportantUrgent, t)
	default:
		qs.NotImportantNotUrgent = append(qs.NotImportantNotUrgent, t)
	}
}

// Len returns the total number of tasks across all buckets.
func (qs Quadrants) Len() int {
	return len(qs.ImportantUrgent) + len(qs.ImportantNotUrgent) +
		len(qs.NotImportantUrgent) + len(qs.NotImportantNotUrgent)
}

// Bucket classifies already-filtered tasks. Each bucket is sorted by due
// date ascending; tasks without a due date come last and ties keep their
// input order.
func Bucket(tasks []task.Task, now time.Time, opts Options) Quadrants {
	var qs Quadrants
	for _, t := range tasks {
		qs.add(QuadrantOf(t, now, opts), t)
	}
	for _, b := range []*[]task.Task{
		&qs.ImportantUrgent, &qs.ImportantNotUrgent,
		&qs.NotImportantUrgent, &qs.NotImportantNotUrgent,
	} {
		slices.SortStableFunc(*b, byDueDate)
	}
	return qs
}

// Classify filters tasks by sel and buckets the result at now.
func Classify(tasks []task.Task, sel Selected, now time.Time, opts Options) Quadrants {
	return Bucket(Filter(tasks, sel), now, opts)
}

// byDueDate orders tasks without a due date after all others.
func byDueDate(a, b task.Task) int {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return 0
	case a.DueDate == nil:
		return 1
	case b.DueDate == nil:
		return -1
	default:
		return a.DueDate.Compare(*b.DueDate)
	}
}

// Percent returns round(100*part/total), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(part) / float64(total)))
}

// CompletionOf returns the completion percentage of already-filtered tasks.
func CompletionOf(tasks []task.Task) int {
	done := 0
	for _, t := range tasks {
		if t.IsComplete {
			done++
		}
	}
	return Percent(done, len(tasks))
}

// Completion returns the percentage of tasks passing sel that are
// complete, rounded to the nearest integer. An empty selection yields 0.
func Completion(tasks []task.Task, sel Selected) int {
	return CompletionOf(Filter(tasks, sel))
}
