package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/Iron-Ham/eisen/internal/config"
	"github.com/Iron-Ham/eisen/internal/matrix"
	"github.com/Iron-Ham/eisen/internal/storage"
	"github.com/Iron-Ham/eisen/internal/task"
	"github.com/Iron-Ham/eisen/internal/testutil"
	"github.com/Iron-Ham/eisen/internal/workspace"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

func newTestModel(t *testing.T, drafts ...task.Draft) (Model, *workspace.Workspace) {
	t.Helper()

	cfg := config.Default()
	cfg.Storage.Backend = storage.BackendMemory
	cfg.Storage.DebounceMs = int(time.Hour / time.Millisecond)
	cfg.TUI.RefreshSeconds = 0
	cfg.TUI.Theme = "mono"

	clock := testutil.NewClock()
	ws, err := workspace.Open(context.Background(), cfg,
		workspace.WithBackend(storage.NewMemoryBackend()),
		workspace.WithClock(clock.Now),
		workspace.WithIDGenerator(testutil.SequentialIDs()),
	)
	if err != nil {
		t.Fatalf("workspace.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = ws.Close(context.Background()) })

	for _, d := range drafts {
		ws.Tasks.Add(d)
	}
	m := NewModel(ws)
	m.width = 120
	return m, ws
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		return tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		updated, _ := m.Update(keyMsg(k))
		m = updated.(Model)
	}
	return m
}

func dueIn(d time.Duration) *time.Time {
	due := testutil.Epoch.Add(d)
	return &due
}

func urgentHigh(title string) task.Draft {
	return task.Draft{Title: title, Priority: task.PriorityHigh, Category: "Work", DueDate: dueIn(time.Hour)}
}

func TestModel_FocusCycles(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, "tab")
	if m.focus != matrix.ImportantNotUrgent {
		t.Errorf("focus after tab = %v, want %v", m.focus, matrix.ImportantNotUrgent)
	}
	m = press(t, m, "shift+tab", "shift+tab")
	if m.focus != matrix.NotImportantNotUrgent {
		t.Errorf("focus after two shift+tab = %v, want %v", m.focus, matrix.NotImportantNotUrgent)
	}
	m = press(t, m, "l")
	if m.focus != matrix.ImportantUrgent {
		t.Errorf("focus should wrap to %v, got %v", matrix.ImportantUrgent, m.focus)
	}
}

func TestModel_CursorStaysInBounds(t *testing.T) {
	m, _ := newTestModel(t, urgentHigh("one"), urgentHigh("two"))

	m = press(t, m, "down", "down", "down", "j")
	if m.cursor[matrix.ImportantUrgent] != 1 {
		t.Errorf("cursor = %d, want 1", m.cursor[matrix.ImportantUrgent])
	}
	m = press(t, m, "k", "k", "k")
	if m.cursor[matrix.ImportantUrgent] != 0 {
		t.Errorf("cursor = %d, want 0", m.cursor[matrix.ImportantUrgent])
	}
}

func TestModel_Toggle(t *testing.T) {
	m, ws := newTestModel(t, urgentHigh("File taxes"))

	m = press(t, m, " ")
	got, _ := ws.Tasks.GetByID("id-1")
	if !got.IsComplete {
		t.Fatal("space should complete the selected task")
	}
	if m.status != "done: File taxes" || m.statusErr {
		t.Errorf("status = %q", m.status)
	}

	m = press(t, m, "x")
	got, _ = ws.Tasks.GetByID("id-1")
	if got.IsComplete {
		t.Error("x should reopen a completed task")
	}
	if m.status != "reopened: File taxes" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_ToggleEmptyQuadrant(t *testing.T) {
	m, ws := newTestModel(t, urgentHigh("File taxes"))

	m = press(t, m, "tab", " ")
	if got, _ := ws.Tasks.GetByID("id-1"); got.IsComplete {
		t.Error("toggle in an empty quadrant changed another task")
	}
	if m.status != "" {
		t.Errorf("status = %q, want none", m.status)
	}
}

func TestModel_Delete(t *testing.T) {
	m, ws := newTestModel(t, urgentHigh("one"), urgentHigh("two"))

	m = press(t, m, "down", "d")
	if ws.Tasks.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", ws.Tasks.Len())
	}
	if m.cursor[matrix.ImportantUrgent] != 0 {
		t.Errorf("cursor should clamp after delete, got %d", m.cursor[matrix.ImportantUrgent])
	}
}

func TestModel_HideCompleted(t *testing.T) {
	m, _ := newTestModel(t, urgentHigh("one"), urgentHigh("two"))

	m = press(t, m, " ", "H")
	if m.showCompleted {
		t.Fatal("H should hide completed tasks")
	}
	if n := len(m.visible(matrix.ImportantUrgent)); n != 1 {
		t.Errorf("visible tasks = %d, want 1", n)
	}
	if strings.Contains(ansi.Strip(m.View()), "[x]") {
		t.Error("View() still draws a completed task")
	}
}

func TestModel_QuickAdd(t *testing.T) {
	m, ws := newTestModel(t)

	m = press(t, m, "tab", "a")
	if m.mode != modeAdd {
		t.Fatal("a should open the add prompt")
	}
	m.input.SetValue("Write essay #side_gig")
	m = press(t, m, "enter")

	if m.mode != modeNormal {
		t.Error("enter should close the add prompt")
	}
	tasks := ws.Tasks.Tasks()
	if len(tasks) != 1 {
		t.Fatalf("Tasks() = %d, want 1", len(tasks))
	}
	got := tasks[0]
	if got.Priority != task.PriorityHigh || got.DueDate != nil || got.Category != "Side Gig" {
		t.Errorf("added task = %+v", got)
	}
	if !ws.Categories.Contains("Side Gig") {
		t.Error("new category should be added to the category list")
	}
	if m.focus != matrix.ImportantNotUrgent {
		t.Errorf("focus = %v, want the new task's quadrant", m.focus)
	}
}

func TestModel_QuickAddDefaultsFromQuadrant(t *testing.T) {
	m, ws := newTestModel(t)

	m = press(t, m, "shift+tab", "shift+tab", "a")
	if m.focus != matrix.NotImportantUrgent {
		t.Fatalf("focus = %v", m.focus)
	}
	m.input.SetValue("Reply to landlord")
	m = press(t, m, "enter")

	got := ws.Tasks.Tasks()[0]
	if got.Priority != task.PriorityLow || got.DueDate == nil {
		t.Errorf("added task = %+v, want low priority with a due date", got)
	}
	if got.Category != ws.Categories.List()[0] {
		t.Errorf("Category = %q, want the first category", got.Category)
	}
	if m.focus != matrix.NotImportantUrgent {
		t.Errorf("focus = %v, want %v", m.focus, matrix.NotImportantUrgent)
	}
}

func TestModel_QuickAddInvalid(t *testing.T) {
	m, ws := newTestModel(t)

	m = press(t, m, "a", "enter")
	if m.mode != modeAdd || !m.statusErr {
		t.Errorf("empty input should keep the prompt open with an error, mode=%v status=%q", m.mode, m.status)
	}
	if ws.Tasks.Len() != 0 {
		t.Error("invalid input added a task")
	}

	m = press(t, m, "esc")
	if m.mode != modeNormal {
		t.Error("esc should close the add prompt")
	}
}

func TestModel_CycleCategory(t *testing.T) {
	m, ws := newTestModel(t)
	cats := ws.Categories.List()

	for _, want := range cats {
		m = press(t, m, "c")
		if got, ok := ws.Selection.Get(); !ok || got != want {
			t.Fatalf("selection = %q, %v; want %q", got, ok, want)
		}
	}
	m = press(t, m, "c")
	if _, ok := ws.Selection.Get(); ok {
		t.Error("cycling past the last category should clear the selection")
	}

	m = press(t, m, "c", "C")
	if _, ok := ws.Selection.Get(); ok {
		t.Error("C should clear the selection")
	}
	if m.status != "showing all categories" {
		t.Errorf("status = %q", m.status)
	}
}

func TestModel_WriteMessages(t *testing.T) {
	m, _ := newTestModel(t)

	updated, _ := m.Update(writeCompletedMsg{key: storage.KeyTasks})
	m = updated.(Model)
	if m.status != "saved" {
		t.Errorf("status = %q, want saved", m.status)
	}

	updated, _ = m.Update(writeFailedMsg{key: storage.KeyTasks, err: "disk full"})
	m = updated.(Model)
	if !m.statusErr || !strings.Contains(ansi.Strip(m.View()), "disk full") {
		t.Errorf("write failure not shown, status = %q", m.status)
	}

	updated, _ = m.Update(writeCompletedMsg{key: storage.KeyTasks})
	m = updated.(Model)
	if !m.statusErr {
		t.Error("a later success should not hide the failure")
	}
}

func TestModel_Quit(t *testing.T) {
	m, _ := newTestModel(t)

	updated, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
	if updated.(Model).View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestModel_View(t *testing.T) {
	m, _ := newTestModel(t, urgentHigh("File taxes"))

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	m = updated.(Model)
	got := ansi.Strip(m.View())
	for _, want := range []string{"Eisenhower Matrix", "File taxes", "> " + matrix.ImportantUrgent.Title(), "quit"} {
		if !strings.Contains(got, want) {
			t.Errorf("View() missing %q:\n%s", want, got)
		}
	}
}
