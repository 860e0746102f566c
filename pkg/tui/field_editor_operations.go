package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// FieldEditorResult describes what a key did to an attached editor.
type FieldEditorResult struct {
	Handled bool
	Changed bool
	Detach  bool
	Err     error
}

// HandleFieldEditorInput applies a key press to an attached editor.
// Printable keys insert even when they are bound elsewhere, so only
// non-printable keys are matched against bindings.
func HandleFieldEditorInput(e *FieldEditorState, keys KeyMap, msg tea.KeyMsg) FieldEditorResult {
	if !e.IsAttached() {
		return FieldEditorResult{}
	}

	switch msg.Type {
	case tea.KeyRunes:
		var res FieldEditorResult
		res.Handled = true
		for _, r := range msg.Runes {
			changed, err := e.Insert(r)
			res.Changed = res.Changed || changed
			if err != nil {
				res.Err = err
			}
		}
		return res
	case tea.KeySpace:
		changed, err := e.Insert(' ')
		return FieldEditorResult{Handled: true, Changed: changed, Err: err}
	}

	switch {
	case key.Matches(msg, keys.Detach):
		return FieldEditorResult{Handled: true, Detach: true}
	case key.Matches(msg, keys.Delete):
		changed, err := e.Delete()
		return FieldEditorResult{Handled: true, Changed: changed, Err: err}
	case key.Matches(msg, keys.CursorLeft):
		e.MoveCursor(CursorLeft)
	case key.Matches(msg, keys.CursorRight):
		e.MoveCursor(CursorRight)
	case key.Matches(msg, keys.LineUp):
		e.MoveCursor(CursorLineUp)
	case key.Matches(msg, keys.LineDown):
		e.MoveCursor(CursorLineDown)
	default:
		// Unbound keys are ignored while editing.
		return FieldEditorResult{Handled: true}
	}
	return FieldEditorResult{Handled: true}
}
