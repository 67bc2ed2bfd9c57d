package task

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/category"
	"github.com/Iron-Ham/eisen/internal/errors"
)

// Priority is a task's importance level.
type Priority string

// Priority values. Only PriorityHigh counts as important.
const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities returns every valid priority, highest first.
func Priorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

// ParsePriority parses s case-insensitively. "h", "m" and "l" are accepted
// as shorthands.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h":
		return PriorityHigh, nil
	case "medium", "med", "m":
		return PriorityMedium, nil
	case "low", "l":
		return PriorityLow, nil
	default:
		return "", errors.NewValidationError("unknown priority").
			WithField("priority").
			WithValue(s)
	}
}

// Task is a unit of work. ID and CreatedAt are assigned by Store.Add and
// never change afterwards.
type Task struct {
	ID          string     `json:"id" yaml:"id"`
	Title       string     `json:"title" yaml:"title"`
	Description string     `json:"description,omitempty" yaml:"description,omitempty"`
	IsComplete  bool       `json:"isComplete" yaml:"isComplete"`
	DueDate     *time.Time `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	Priority    Priority   `json:"priority" yaml:"priority"`
	Category    string     `json:"category" yaml:"category"`
	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
}

// HasDueDate reports whether the task has a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil
}

// dueLayouts are accepted when decoding dueDate and createdAt. Values
// written by browser date-time inputs carry no zone and are read as local
// time.
var dueLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func parseTimestamp(s string) (time.Time, bool) {
	for _, layout := range dueLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// UnmarshalJSON decodes a task, tolerating timestamps without a zone.
// A dueDate that cannot be parsed is dropped rather than failing the
// whole collection.
func (t *Task) UnmarshalJSON(data []byte) error {
	type plain Task
	var raw struct {
		plain
		DueDate   *string `json:"dueDate"`
		CreatedAt string  `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*t = Task(raw.plain)
	t.DueDate = nil
	if raw.DueDate != nil && *raw.DueDate != "" {
		if due, ok := parseTimestamp(*raw.DueDate); ok {
			t.DueDate = &due
		}
	}
	if raw.CreatedAt != "" {
		if created, ok := parseTimestamp(raw.CreatedAt); ok {
			t.CreatedAt = created
		}
	}
	return nil
}

// Draft is the caller-supplied part of a new task.
type Draft struct {
	Title       string
	Description string
	IsComplete  bool
	DueDate     *time.Time
	Priority    Priority
	Category    string
}

// Validate rejects drafts the UI layers must not submit. Store.Add does not
// call it.
func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return errors.NewValidationError("cannot be empty").WithField("title")
	}
	if category.Normalize(d.Category) == "" {
		return errors.NewValidationError("cannot be empty").WithField("category")
	}
	if _, err := ParsePriority(string(d.Priority)); err != nil {
		return err
	}
	return nil
}

// Patch is a partial update. Nil fields are left unchanged. ID and
// CreatedAt cannot be patched.
type Patch struct {
	Title        *string
	Description  *string
	IsComplete   *bool
	DueDate      *time.Time
	ClearDueDate bool // removes the due date; wins over DueDate
	Priority     *Priority
	Category     *string
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.IsComplete == nil &&
		p.DueDate == nil && !p.ClearDueDate && p.Priority == nil && p.Category == nil
}

// apply returns t with the patch merged in. Category must already be
// normalized.
func (p Patch) apply(t Task) Task {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.IsComplete != nil {
		t.IsComplete = *p.IsComplete
	}
	switch {
	case p.ClearDueDate:
		t.DueDate = nil
	case p.DueDate != nil:
		t.DueDate = cloneTime(p.DueDate)
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.Category != nil {
		t.Category = *p.Category
	}
	return t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// NormalizeCategories returns a copy of tasks with every category passed
// through category.Normalize. It is applied to persisted tasks at load so
// changes to the canonical table heal stored data.
func NormalizeCategories(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		t.Category = category.Normalize(t.Category)
		out[i] = t
	}
	return out
}
