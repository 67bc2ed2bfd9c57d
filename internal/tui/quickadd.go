package tui

import (
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/category"
	"github.com/Iron-Ham/eisen/internal/errors"
	"github.com/Iron-Ham/eisen/internal/task"
)

// parseQuickAdd builds a draft from one line of input. Words are the title
// except for markers:
//
//	#category   category; underscores and dashes become spaces
//	!priority   high, medium, low or h, m, l
//	^due        anything task.ParseDue accepts, e.g. ^tomorrow or ^+3h
//
// Fields without a marker keep their value from defaults.
func parseQuickAdd(input string, now time.Time, defaults task.Draft) (task.Draft, error) {
	draft := defaults
	var title []string

	for _, word := range strings.Fields(input) {
		switch {
		case len(word) > 1 && word[0] == '#':
			draft.Category = category.Normalize(strings.NewReplacer("_", " ", "-", " ").Replace(word[1:]))
		case len(word) > 1 && word[0] == '!':
			p, err := task.ParsePriority(word[1:])
			if err != nil {
				return task.Draft{}, err
			}
			draft.Priority = p
		case len(word) > 1 && word[0] == '^':
			due, err := task.ParseDue(word[1:], now)
			if err != nil {
				return task.Draft{}, err
			}
			draft.DueDate = due
		default:
			title = append(title, word)
		}
	}

	draft.Title = strings.Join(title, " ")
	if draft.Title == "" {
		return task.Draft{}, errors.NewValidationError("cannot be empty").WithField("title")
	}
	if err := draft.Validate(); err != nil {
		return task.Draft{}, err
	}
	return draft, nil
}
