package tui

import (
	"strings"

	"github.com/muesli/reflow/wrap"
)

// InputRenderer renders a field value hard-wrapped at a fixed column width,
// the same width the field editor uses for line moves.
type InputRenderer struct {
	Width int
}

// NewInputRenderer creates a new input renderer
func NewInputRenderer(width int) *InputRenderer {
	if width < 1 {
		width = 1
	}
	return &InputRenderer{Width: width}
}

// RenderValue returns the wrapped lines of text. With showCursor the rune at
// cursorPos is highlighted; a cursor past the end is drawn as a block.
func (ir *InputRenderer) RenderValue(text string, cursorPos int, showCursor bool) []string {
	runes := []rune(text)

	// Ensure cursor position is valid
	if cursorPos < 0 {
		cursorPos = 0
	}
	if cursorPos > len(runes) {
		cursorPos = len(runes)
	}

	var content strings.Builder
	for i, r := range runes {
		if showCursor && i == cursorPos {
			if r == '\n' {
				content.WriteString(CursorStyle.Render(" "))
				content.WriteRune(r)
				continue
			}
			content.WriteString(CursorStyle.Render(string(r)))
			continue
		}
		content.WriteRune(r)
	}
	if showCursor && cursorPos == len(runes) {
		content.WriteString(CursorStyle.Render(" "))
	}

	w := wrap.NewWriter(ir.Width)
	w.PreserveSpace = true
	w.KeepNewlines = true
	_, _ = w.Write([]byte(content.String()))

	lines := strings.Split(w.String(), "\n")
	for i, line := range lines {
		lines[i] = FieldValueStyle.Render(line)
	}
	return lines
}
