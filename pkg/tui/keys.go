package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings of both views.
type KeyMap struct {
	// Navigation
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	Left  key.Binding
	Right key.Binding

	// Browser
	Parent       key.Binding
	ToggleHidden key.Binding

	// Editor, detached
	Copy key.Binding
	Back key.Binding

	// Editor, attached
	LineUp      key.Binding
	LineDown    key.Binding
	CursorLeft  key.Binding
	CursorRight key.Binding
	Delete      key.Binding
	Detach      key.Binding

	// General
	Help      key.Binding
	Quit      key.Binding
	Interrupt key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open/toggle/edit"),
		),
		Left: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "collapse"),
		),
		Right: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "expand"),
		),
		Parent: key.NewBinding(
			key.WithKeys("backspace", "h"),
			key.WithHelp("⌫/h", "parent dir"),
		),
		ToggleHidden: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "hidden files"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy value"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "save & back"),
		),
		LineUp: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "line up"),
		),
		LineDown: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "line down"),
		),
		CursorLeft: key.NewBinding(
			key.WithKeys("left"),
			key.WithHelp("←", "cursor left"),
		),
		CursorRight: key.NewBinding(
			key.WithKeys("right"),
			key.WithHelp("→", "cursor right"),
		),
		Delete: key.NewBinding(
			key.WithKeys("backspace"),
			key.WithHelp("⌫", "delete"),
		),
		Detach: key.NewBinding(
			key.WithKeys("enter", "esc"),
			key.WithHelp("enter/esc", "done"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+q", "q"),
			key.WithHelp("q", "quit"),
		),
		Interrupt: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "abort"),
		),
	}
}

// HelpKeys adapts a set of bindings to help.KeyMap.
type HelpKeys struct {
	short []key.Binding
	full  [][]key.Binding
}

func (h HelpKeys) ShortHelp() []key.Binding  { return h.short }
func (h HelpKeys) FullHelp() [][]key.Binding { return h.full }

// BrowserHelp returns the bindings shown under the directory browser.
func (k KeyMap) BrowserHelp() HelpKeys {
	return HelpKeys{
		short: []key.Binding{k.Up, k.Down, k.Enter, k.Parent, k.Quit, k.Help},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Enter},
			{k.Parent, k.ToggleHidden},
			{k.Help, k.Quit, k.Interrupt},
		},
	}
}

// EditorHelp returns the bindings shown under the metadata editor.
func (k KeyMap) EditorHelp(attached bool) HelpKeys {
	if attached {
		return HelpKeys{
			short: []key.Binding{k.CursorLeft, k.CursorRight, k.LineUp, k.LineDown, k.Delete, k.Detach},
			full: [][]key.Binding{
				{k.CursorLeft, k.CursorRight, k.LineUp, k.LineDown},
				{k.Delete, k.Detach, k.Interrupt},
			},
		}
	}
	return HelpKeys{
		short: []key.Binding{k.Up, k.Down, k.Enter, k.Copy, k.Quit, k.Help},
		full: [][]key.Binding{
			{k.Up, k.Down, k.Enter},
			{k.Left, k.Right, k.Copy},
			{k.Back, k.Quit, k.Interrupt, k.Help},
		},
	}
}
