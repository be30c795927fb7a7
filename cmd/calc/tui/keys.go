package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is the full set of bindings. Digits, the point and the binary
// operators are matched directly in handleKey and only listed here for
// the help view.
type keyMap struct {
	Digits     key.Binding
	Operators  key.Binding
	Compute    key.Binding
	Delete     key.Binding
	Clear      key.Binding
	Negate     key.Binding
	Percent    key.Binding
	Sqrt       key.Binding
	Square     key.Binding
	Reciprocal key.Binding

	MemoryAdd      key.Binding
	MemorySubtract key.Binding
	MemoryRecall   key.Binding
	MemoryClear    key.Binding

	Copy         key.Binding
	Export       key.Binding
	ClearHistory key.Binding
	Theme        key.Binding
	Focus        key.Binding
	Up           key.Binding
	Down         key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Digits:     key.NewBinding(key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "."), key.WithHelp("0-9 .", "digits")),
		Operators:  key.NewBinding(key.WithKeys("+", "-", "*", "/", "x"), key.WithHelp("+-*/", "operator")),
		Compute:    key.NewBinding(key.WithKeys("enter", "="), key.WithHelp("=", "compute")),
		Delete:     key.NewBinding(key.WithKeys("backspace"), key.WithHelp("⌫", "delete")),
		Clear:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear")),
		Negate:     key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "±")),
		Percent:    key.NewBinding(key.WithKeys("%"), key.WithHelp("%", "percent")),
		Sqrt:       key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "√x")),
		Square:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "x²")),
		Reciprocal: key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "1/x")),

		MemoryAdd:      key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "M+")),
		MemorySubtract: key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "M-")),
		MemoryRecall:   key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "MR")),
		MemoryClear:    key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "MC")),

		Copy:         key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
		Export:       key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "export")),
		ClearHistory: key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "clear history")),
		Theme:        key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "theme")),
		Focus:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "history")),
		Up:           key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑", "newer")),
		Down:         key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓", "older")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Compute, k.Clear, k.Focus, k.Theme, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Digits, k.Operators, k.Compute, k.Delete, k.Clear},
		{k.Negate, k.Percent, k.Sqrt, k.Square, k.Reciprocal},
		{k.MemoryAdd, k.MemorySubtract, k.MemoryRecall, k.MemoryClear},
		{k.Copy, k.Export, k.ClearHistory, k.Theme, k.Focus, k.Help, k.Quit},
	}
}
