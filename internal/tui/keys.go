package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the normal-mode bindings. It implements help.KeyMap.
type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Toggle    key.Binding
	Delete    key.Binding
	Add       key.Binding
	Filter    key.Binding
	AllCats   key.Binding
	Completed key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Next:      key.NewBinding(key.WithKeys("tab", "right", "l"), key.WithHelp("tab/l", "next quadrant")),
		Prev:      key.NewBinding(key.WithKeys("shift+tab", "left", "h"), key.WithHelp("S-tab/h", "prev quadrant")),
		Toggle:    key.NewBinding(key.WithKeys(" ", "x", "enter"), key.WithHelp("space/x", "toggle done")),
		Delete:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Add:       key.NewBinding(key.WithKeys("a", "n"), key.WithHelp("a", "add task")),
		Filter:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "next category")),
		AllCats:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "all categories")),
		Completed: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide/show done")),
		Help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Filter, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Toggle, k.Delete, k.Add},
		{k.Filter, k.AllCats, k.Completed},
		{k.Help, k.Quit},
	}
}
