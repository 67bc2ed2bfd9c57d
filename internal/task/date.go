package task

import (
	"strconv"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/errors"
)

// Urgency defaults. A task is urgent when its due date falls inside
// [now-DefaultGrace, now+DefaultUrgentWindow].
const (
	DefaultUrgentWindow = 48 * time.Hour
	DefaultGrace        = 5 * time.Minute
)

// IsWithinHours reports whether due lies no more than window after now and
// no more than grace before it. The grace period keeps a task from leaving
// the urgent quadrant at the instant it becomes due.
func IsWithinHours(due, now time.Time, window, grace time.Duration) bool {
	return due.Sub(now) <= window && !due.Before(now.Add(-grace))
}

// IsImportant reports whether p counts as important. Only High does.
func IsImportant(p Priority) bool {
	return p == PriorityHigh
}

// FormatShortDate renders a due date for list and matrix views.
func FormatShortDate(due *time.Time) string {
	if due == nil {
		return "No due date"
	}
	return due.Local().Format("Jan 2, 03:04 PM")
}

var absoluteLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDue parses a due date typed by a user. Empty input means no due
// date. Accepted forms are RFC 3339, "2006-01-02 15:04", "2006-01-02"
// (midnight local time), "today", "tomorrow" and offsets from now such as
// "+36h", "+90m" or "+2d".
func ParseDue(input string, now time.Time) (*time.Time, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return nil, nil
	}

	switch strings.ToLower(s) {
	case "now":
		return &now, nil
	case "today":
		t := endOfDay(now)
		return &t, nil
	case "tomorrow":
		t := endOfDay(now.AddDate(0, 0, 1))
		return &t, nil
	}

	if strings.HasPrefix(s, "+") {
		d, err := parseOffset(s[1:])
		if err != nil {
			return nil, errors.NewValidationError("invalid relative due date").
				WithField("due").
				WithValue(input)
		}
		t := now.Add(d)
		return &t, nil
	}

	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, s, now.Location()); err == nil {
			return &t, nil
		}
	}
	return nil, errors.NewValidationError("unrecognized due date").
		WithField("due").
		WithValue(input)
}

// parseOffset extends time.ParseDuration with a whole-day "d" unit.
func parseOffset(s string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(s, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil || n < 0 {
			return 0, errors.ErrInvalidInput
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, errors.ErrInvalidInput
	}
	return d, nil
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 0, 0, t.Location())
}
