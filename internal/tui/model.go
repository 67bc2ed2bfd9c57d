package tui

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/render"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/workspace"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type inputMode int

const (
	modeNormal inputMode = iota
	modeAdd
)

// Messages

type tickMsg time.Time

// changedMsg reports a change made outside Update, such as a reload.
type changedMsg struct{}

type writeFailedMsg struct {
	key string
	err string
}

type writeCompletedMsg struct {
	key string
}

// Model is the bubbletea model for the matrix screen. All state except the
// cursor lives in the workspace; View reads it fresh on every frame.
type Model struct {
	ws     *workspace.Workspace
	theme  *render.Theme
	keys   keyMap
	help   help.Model
	input  textinput.Model
	mode   inputMode
	expand bool

	refresh       time.Duration
	showCompleted bool

	width  int
	height int

	focus  matrix.Quadrant
	cursor [4]int // per quadrant, index into the visible tasks

	status    string
	statusErr bool
	quitting  bool
}

// NewModel creates the model for ws, reading TUI settings from its config.
func NewModel(ws *workspace.Workspace) Model {
	ti := textinput.New()
	ti.Placeholder = "Title #category !high ^tomorrow"
	ti.CharLimit = 200
	ti.Prompt = "add> "

	cfg := ws.Config.TUI
	return Model{
		ws:            ws,
		theme:         render.ThemeFor(cfg.Theme),
		keys:          defaultKeyMap(),
		help:          help.New(),
		input:         ti,
		refresh:       cfg.RefreshInterval(),
		showCompleted: cfg.ShowCompleted,
		width:         render.DefaultWidth,
	}
}

func (m Model) tick() tea.Cmd {
	if m.refresh <= 0 {
		return nil
	}
	return tea.Tick(m.refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

// renderer builds a renderer for the current frame.
func (m Model) renderer() *render.Renderer {
	r := render.New(m.theme, m.width, m.ws.Now(), m.ws.MatrixOptions())
	r.ShowCompleted = m.showCompleted
	r.Cursor = &render.Cursor{Quadrant: m.focus, Index: m.cursor[m.focus]}
	return r
}

// visible returns the tasks drawn in q right now.
func (m Model) visible(q matrix.Quadrant) []task.Task {
	return m.renderer().Visible(m.ws.View.Quadrants().Get(q))
}

// selected returns the task under the cursor.
func (m Model) selected() (task.Task, bool) {
	tasks := m.visible(m.focus)
	i := m.cursor[m.focus]
	if i < 0 || i >= len(tasks) {
		return task.Task{}, false
	}
	return tasks[i], true
}

// clamp keeps every cursor inside its quadrant after tasks move.
func (m *Model) clamp() {
	for _, q := range matrix.AllQuadrants() {
		n := len(m.visible(q))
		m.cursor[q] = max(0, min(m.cursor[q], n-1))
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(err error) {
	m.status = err.Error()
	m.statusErr = true
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		// Urgency depends on the clock; redraw and keep cursors valid.
		m.clamp()
		return m, m.tick()

	case changedMsg:
		m.clamp()
		return m, nil

	case writeFailedMsg:
		m.status = fmt.Sprintf("save failed (%s): %s", msg.key, msg.err)
		m.statusErr = true
		return m, nil

	case writeCompletedMsg:
		if !m.statusErr {
			m.setStatus("saved")
		}
		return m, nil

	case tea.KeyMsg:
		if m.mode == modeAdd {
			return m.updateAdd(msg)
		}
		return m.updateNormal(msg)
	}
	return m, nil
}

func (m Model) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.expand = !m.expand
		m.help.ShowAll = m.expand

	case key.Matches(msg, m.keys.Up):
		if m.cursor[m.focus] > 0 {
			m.cursor[m.focus]--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor[m.focus] < len(m.visible(m.focus))-1 {
			m.cursor[m.focus]++
		}

	case key.Matches(msg, m.keys.Next):
		m.focus = (m.focus + 1) % 4

	case key.Matches(msg, m.keys.Prev):
		m.focus = (m.focus + 3) % 4

	case key.Matches(msg, m.keys.Toggle):
		t, ok := m.selected()
		if !ok {
			break
		}
		if prev, found := m.ws.Tasks.ToggleComplete(t.ID); found {
			if prev.IsComplete {
				m.setStatus("reopened: " + t.Title)
			} else {
				m.setStatus("done: " + t.Title)
			}
		}
		m.clamp()

	case key.Matches(msg, m.keys.Delete):
		t, ok := m.selected()
		if !ok {
			break
		}
		m.ws.Tasks.DeleteTask(t.ID)
		m.setStatus("deleted: " + t.Title)
		m.clamp()

	case key.Matches(msg, m.keys.Add):
		m.mode = modeAdd
		m.input.Reset()
		m.status = ""
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Filter):
		m.cycleCategory()
		m.clamp()

	case key.Matches(msg, m.keys.AllCats):
		m.ws.Selection.Clear()
		m.setStatus("showing all categories")
		m.clamp()

	case key.Matches(msg, m.keys.Completed):
		m.showCompleted = !m.showCompleted
		m.clamp()
	}
	return m, nil
}

// cycleCategory advances the selection through the category list and
// back to no filter after the last one.
func (m *Model) cycleCategory() {
	cats := m.ws.Categories.List()
	current, set := m.ws.Selection.Get()

	next := 0
	if set {
		next = slices.Index(cats, current) + 1
	}
	if next >= len(cats) {
		m.ws.Selection.Clear()
		m.setStatus("showing all categories")
		return
	}
	m.ws.Selection.Set(cats[next])
	m.setStatus("category: " + cats[next])
}

// addDefaults derives the fields of a quick-added task from the focused
// quadrant and the current category filter.
func (m Model) addDefaults() task.Draft {
	d := task.Draft{Priority: task.PriorityLow}
	switch m.focus {
	case matrix.ImportantUrgent, matrix.ImportantNotUrgent:
		d.Priority = task.PriorityHigh
	}
	switch m.focus {
	case matrix.ImportantUrgent, matrix.NotImportantUrgent:
		due := m.ws.Now().Add(24 * time.Hour)
		d.DueDate = &due
	}

	if c, ok := m.ws.Selection.Get(); ok {
		d.Category = c
	} else if cats := m.ws.Categories.List(); len(cats) > 0 {
		d.Category = cats[0]
	}
	return d
}

func (m Model) updateAdd(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = modeNormal
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		draft, err := parseQuickAdd(m.input.Value(), m.ws.Now(), m.addDefaults())
		if err != nil {
			m.setError(err)
			return m, nil
		}
		added := m.ws.Tasks.Add(draft)
		if !m.ws.Categories.Contains(added.Category) {
			m.ws.Categories.Add(added.Category)
		}
		m.mode = modeNormal
		m.input.Blur()
		m.setStatus("added: " + added.Title)

		// Move the cursor to the new task.
		m.focus = matrix.QuadrantOf(added, m.ws.Now(), m.ws.MatrixOptions())
		m.cursor[m.focus] = slices.IndexFunc(m.visible(m.focus), func(t task.Task) bool {
			return t.ID == added.ID
		})
		m.clamp()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	sel := m.ws.View.Selected()
	var b strings.Builder
	b.WriteString(m.renderer().Matrix(m.ws.View.Quadrants(), sel, m.ws.View.Completion()))
	b.WriteString("\n")

	if m.mode == modeAdd {
		b.WriteString(m.input.View())
		b.WriteString("\n")
	}
	if m.status != "" {
		style := m.theme.Muted
		if m.statusErr {
			style = m.theme.Overdue
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
