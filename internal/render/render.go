// Package render draws tasks, the Eisenhower matrix and statistics as
// styled terminal text. It is shared by the CLI commands and the TUI.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/util"
	"github.com/charmbracelet/lipgloss"
)

// minBoxWidth keeps quadrant boxes readable on narrow terminals; below it
// the quadrants are stacked vertically.
const minBoxWidth = 30

// Column widths for task listings.
const (
	checkWidth    = 4
	priorityWidth = 8
	categoryWidth = 20
	dueWidth      = 18
)

// Renderer draws workspace state at a fixed point in time.
type Renderer struct {
	Theme *Theme
	Width int
	Now   time.Time
	Opts  matrix.Options

	// ShowCompleted includes completed tasks in quadrant boxes.
	ShowCompleted bool
	// Cursor highlights one task in the matrix. Nil highlights nothing.
	Cursor *Cursor
}

// Cursor addresses a task by its position among the visible tasks of a
// quadrant.
type Cursor struct {
	Quadrant matrix.Quadrant
	Index    int
}

// New creates a Renderer. A nil theme uses the default theme and a
// non-positive width uses DefaultWidth.
func New(theme *Theme, width int, now time.Time, opts matrix.Options) *Renderer {
	if theme == nil {
		theme = ThemeFor(ThemeDefault)
	}
	if width <= 0 {
		width = DefaultWidth
	}
	return &Renderer{
		Theme:         theme,
		Width:         width,
		Now:           now,
		Opts:          opts,
		ShowCompleted: true,
	}
}

func checkbox(t task.Task) string {
	if t.IsComplete {
		return "[x]"
	}
	return "[ ]"
}

func (r *Renderer) title(t task.Task, width int) string {
	s := util.Truncate(t.Title, width)
	if t.IsComplete {
		return r.Theme.Done.Render(s)
	}
	return s
}

func (r *Renderer) due(t task.Task) string {
	label := task.FormatShortDate(t.DueDate)
	switch {
	case matrix.IsOverdue(t, r.Now, r.Opts):
		return r.Theme.Overdue.Render(label + " !")
	case t.DueDate == nil:
		return r.Theme.Muted.Render(label)
	default:
		return label
	}
}

// TaskLine renders one task as a single row of the list layout.
func (r *Renderer) TaskLine(t task.Task) string {
	fixed := checkWidth + util.ShortIDLen + 2 + priorityWidth + categoryWidth + dueWidth
	titleWidth := max(10, r.Width-fixed)

	var b strings.Builder
	b.WriteString(util.PadRight(checkbox(t), checkWidth))
	b.WriteString(util.PadRight(r.Theme.Muted.Render(util.ShortID(t.ID)), util.ShortIDLen+2))
	b.WriteString(util.PadRight(r.title(t, titleWidth-1), titleWidth))
	b.WriteString(util.PadRight(r.Theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority)), priorityWidth))
	b.WriteString(util.PadRight(util.Truncate(t.Category, categoryWidth-1), categoryWidth))
	b.WriteString(r.due(t))
	return strings.TrimRight(b.String(), " ")
}

// List renders tasks one per line in the given order.
func (r *Renderer) List(tasks []task.Task) string {
	if len(tasks) == 0 {
		return r.Theme.Muted.Render("No tasks")
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = r.TaskLine(t)
	}
	return strings.Join(lines, "\n")
}

// Detail renders every field of t.
func (r *Renderer) Detail(t task.Task) string {
	q := matrix.QuadrantOf(t, r.Now, r.Opts)
	status := "open"
	if t.IsComplete {
		status = "complete"
	}

	rows := [][2]string{
		{"ID", t.ID},
		{"Title", t.Title},
		{"Status", status},
		{"Priority", r.Theme.PriorityStyle(string(t.Priority)).Render(string(t.Priority))},
		{"Category", t.Category},
		{"Due", r.due(t)},
		{"Quadrant", r.Theme.QuadrantTitle(q).Render(q.Title()) + " " + r.Theme.Subtitle.Render("("+q.Subtitle()+")")},
		{"Created", t.CreatedAt.Local().Format("Jan 2 2006, 03:04 PM")},
	}
	if t.Description != "" {
		rows = append(rows, [2]string{"Description", t.Description})
	}

	var b strings.Builder
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(r.Theme.Key.Render(util.PadRight(row[0]+":", 13)))
		b.WriteString(row[1])
	}
	return b.String()
}

// Header renders the matrix heading with the active filter and completion.
func (r *Renderer) Header(sel matrix.Selected, completion int) string {
	scope := "All categories"
	if sel.Set {
		scope = sel.Category
	}
	return fmt.Sprintf("%s  %s  %s %3d%%",
		r.Theme.Title.Render("Eisenhower Matrix"),
		r.Theme.Subtitle.Render(scope),
		util.ProgressBar(completion, 20),
		completion)
}

func (r *Renderer) quadrantBox(q matrix.Quadrant, tasks []task.Task, width, height int) string {
	inner := max(10, width-4) // border and padding

	focused := r.Cursor != nil && r.Cursor.Quadrant == q
	heading := r.Theme.QuadrantTitle(q).Render(q.Title())
	if focused {
		heading = "> " + heading
	}
	lines := []string{
		heading + " " + r.Theme.Muted.Render(fmt.Sprintf("(%d)", len(tasks))),
		r.Theme.Subtitle.Render(q.Subtitle()),
		"",
	}
	visible := r.Visible(tasks)
	for i, t := range visible {
		line := r.compactLine(t, inner)
		if focused && r.Cursor.Index == i {
			line = r.Theme.Selected.Render(util.PadRight(line, inner))
		}
		lines = append(lines, line)
	}
	if len(visible) == 0 {
		lines = append(lines, r.Theme.Muted.Render("Nothing here"))
	}

	style := r.Theme.QuadrantBox(q).Width(width - 2)
	if height > 0 {
		style = style.Height(height)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// compactLine renders a task inside a quadrant box.
func (r *Renderer) compactLine(t task.Task, width int) string {
	prefix := checkbox(t) + " "
	suffix := ""
	if t.DueDate != nil {
		suffix = "  " + r.due(t)
	}
	titleWidth := width - lipgloss.Width(prefix) - lipgloss.Width(suffix)
	if titleWidth < 8 {
		suffix = ""
		titleWidth = width - lipgloss.Width(prefix)
	}
	return prefix + r.title(t, titleWidth) + suffix
}

// Matrix renders the four quadrants as a 2x2 grid, or stacked when the
// terminal is too narrow for two columns.
func (r *Renderer) Matrix(qs matrix.Quadrants, sel matrix.Selected, completion int) string {
	header := r.Header(sel, completion)

	colWidth := r.Width / 2
	if colWidth < minBoxWidth {
		parts := []string{header}
		for _, q := range matrix.AllQuadrants() {
			parts = append(parts, r.quadrantBox(q, qs.Get(q), r.Width, 0))
		}
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	row := func(a, b matrix.Quadrant) string {
		height := max(r.boxLines(qs.Get(a)), r.boxLines(qs.Get(b)))
		return lipgloss.JoinHorizontal(lipgloss.Top,
			r.quadrantBox(a, qs.Get(a), colWidth, height),
			r.quadrantBox(b, qs.Get(b), colWidth, height))
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		header,
		row(matrix.ImportantUrgent, matrix.ImportantNotUrgent),
		row(matrix.NotImportantUrgent, matrix.NotImportantNotUrgent))
}

// Visible returns the tasks of a quadrant that are drawn, in order.
func (r *Renderer) Visible(tasks []task.Task) []task.Task {
	if r.ShowCompleted {
		return tasks
	}
	out := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if !t.IsComplete {
			out = append(out, t)
		}
	}
	return out
}

// boxLines counts the content lines a quadrant box needs.
func (r *Renderer) boxLines(tasks []task.Task) int {
	return 3 + max(1, len(r.Visible(tasks)))
}

// Stats renders a summary with per-quadrant and per-category rows.
func (r *Renderer) Stats(s matrix.Summary) string {
	var b strings.Builder
	b.WriteString(r.Theme.Title.Render("Summary"))
	fmt.Fprintf(&b, "\n  %d tasks, %d complete, %d overdue\n", s.Total, s.Completed, s.Overdue)
	fmt.Fprintf(&b, "  %s %3d%%\n\n", util.ProgressBar(s.Completion, 20), s.Completion)

	b.WriteString(r.Theme.Title.Render("Quadrants"))
	for _, q := range matrix.AllQuadrants() {
		fmt.Fprintf(&b, "\n  %s %d",
			util.PadRight(r.Theme.QuadrantTitle(q).Render(q.Title()), 12),
			s.Quadrants[q.String()])
	}

	if len(s.Categories) > 0 {
		b.WriteString("\n\n")
		b.WriteString(r.Theme.Title.Render("Categories"))
		for _, c := range s.Categories {
			fmt.Fprintf(&b, "\n  %s %s %3d%% %s",
				util.PadRight(util.Truncate(c.Category, categoryWidth-1), categoryWidth),
				util.ProgressBar(c.Percent, 10),
				c.Percent,
				r.Theme.Muted.Render(fmt.Sprintf("(%d/%d)", c.Completed, c.Total)))
		}
	}
	return b.String()
}

// Categories renders the category list with the number of tasks carrying
// each label. The selected category, if any, is highlighted.
func (r *Renderer) Categories(list []string, counts map[string]int, sel matrix.Selected) string {
	if len(list) == 0 {
		return r.Theme.Muted.Render("No categories")
	}
	lines := make([]string, len(list))
	for i, c := range list {
		label := util.PadRight(c, categoryWidth)
		if sel.Set && sel.Category == c {
			label = r.Theme.Selected.Render(label)
		}
		lines[i] = label + r.Theme.Muted.Render(fmt.Sprintf("%d", counts[c]))
	}
	return strings.Join(lines, "\n")
}
