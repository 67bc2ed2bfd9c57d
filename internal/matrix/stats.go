package matrix

import (
	"cmp"
	"slices"
	"time"

	"github.com/Iron-Ham/eisen/internal/task"
)

// CategoryStat summarizes the tasks of one category.
type CategoryStat struct {
	Category  string `json:"category" yaml:"category"`
	Total     int    `json:"total" yaml:"total"`
	Completed int    `json:"completed" yaml:"completed"`
	Percent   int    `json:"percent" yaml:"percent"`
}

// Breakdown returns per-category completion, largest category first and
// ties broken by name.
func Breakdown(tasks []task.Task) []CategoryStat {
	index := make(map[string]int)
	var stats []CategoryStat
	for _, t := range tasks {
		i, ok := index[t.Category]
		if !ok {
			i = len(stats)
			index[t.Category] = i
			stats = append(stats, CategoryStat{Category: t.Category})
		}
		stats[i].Total++
		if t.IsComplete {
			stats[i].Completed++
		}
	}
	for i := range stats {
		stats[i].Percent = Percent(stats[i].Completed, stats[i].Total)
	}
	slices.SortFunc(stats, func(a, b CategoryStat) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category, b.Category)
	})
	return stats
}

// Summary aggregates a classification for reporting.
type Summary struct {
	Total      int            `json:"total" yaml:"total"`
	Completed  int            `json:"completed" yaml:"completed"`
	Completion int            `json:"completion" yaml:"completion"`
	Overdue    int            `json:"overdue" yaml:"overdue"`
	Quadrants  map[string]int `json:"quadrants" yaml:"quadrants"`
	Categories []CategoryStat `json:"categories" yaml:"categories"`
}

// Summarize computes a Summary of tasks passing sel at now.
func Summarize(tasks []task.Task, sel Selected, now time.Time, opts Options) Summary {
	filtered := Filter(tasks, sel)
	qs := Bucket(filtered, now, opts)

	s := Summary{
		Total:      len(filtered),
		Completion: CompletionOf(filtered),
		Quadrants:  make(map[string]int, 4),
		Categories: Breakdown(filtered),
	}
	for _, q := range AllQuadrants() {
		s.Quadrants[q.String()] = len(qs.Get(q))
	}
	for _, t := range filtered {
		if t.IsComplete {
			s.Completed++
		}
		if IsOverdue(t, now, opts) {
			s.Overdue++
		}
	}
	return s
}
