package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/metoxid/metoxid-cli/pkg/metadata"
	"github.com/metoxid/metoxid-cli/pkg/utils"
)

const valueIndent = "    "

func (m *MetadataEditorModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	listHeight := m.listHeight()
	lines := m.renderRows(listHeight)
	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.width, strings.ToUpper(m.store.Format()), m.store.Path()))
	b.WriteString("\n")
	b.WriteString(ContentPaddingStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(ContentPaddingStyle.Render(m.footer()))
	return b.String()
}

// renderRows paints rows from the offset until height lines are used. Lines
// of a row that do not fit are dropped.
func (m *MetadataEditorModel) renderRows(height int) []string {
	if m.list.RowCount() == 0 {
		return []string{EmptyStyle.Render("No metadata")}
	}

	width := m.contentWidth()
	var lines []string
	for i := m.scroll.Offset; i < m.list.RowCount() && len(lines) < height; i++ {
		ref, _ := m.list.ResolveRow(i)
		selected := i == m.scroll.Selected

		if ref.Kind == RowHeader {
			lines = append(lines, renderCategoryHeader(m.list.Category(ref.Category), selected, width))
			continue
		}

		f := m.list.Field(ref)
		if !selected {
			lines = append(lines, renderFieldRow(f, width))
			continue
		}

		lines = append(lines, m.renderSelectedFieldName(ref, f, width))
		lines = append(lines, m.visibleValueLines(ref, height-len(lines))...)
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return lines
}

func renderCategoryHeader(c *metadata.Category, selected bool, width int) string {
	marker := ">"
	if c.Expanded {
		marker = "v"
	}
	text := fmt.Sprintf("%s %s (%d)", marker, c.Name, c.Len())

	style := CategoryStyle
	if selected {
		style = SelectedStyle
	}
	return style.Width(width).Align(lipgloss.Center).Render(text)
}

func renderFieldRow(f *metadata.Field, width int) string {
	name := "  " + f.Name + ": "
	nameWidth := lipgloss.Width(name)
	if nameWidth >= width {
		return FieldNameStyle.Render(utils.Truncate(name, width, "…"))
	}

	value := utils.SingleLine(f.String())
	value = utils.Truncate(value, width-nameWidth, "…")
	return FieldNameStyle.Render(name) + FieldValueStyle.Render(value)
}

func (m *MetadataEditorModel) renderSelectedFieldName(ref RowRef, f *metadata.Field, width int) string {
	text := "> " + f.Name + ":"
	switch {
	case m.editor.IsEditing(ref.Category, ref.Field):
		text += " [editing]"
	case !f.Editable():
		text += " (read-only)"
	case f.Err() != nil:
		text += " (invalid)"
	}
	text = utils.Truncate(text, width, "…")
	return SelectedStyle.Width(width).Render(text)
}

// visibleValueLines returns at most avail wrapped value lines of the
// selected field, scrolled so the cursor line stays visible.
func (m *MetadataEditorModel) visibleValueLines(ref RowRef, avail int) []string {
	if avail <= 0 {
		return nil
	}
	valueLines := m.selectedValueLines()

	start := 0
	if len(valueLines) > avail && m.editor.IsEditing(ref.Category, ref.Field) {
		line := cursorLine(m.editor.Value(), m.editor.CursorPos(), m.valueWidth())
		start = clampInt(line-avail+1, 0, len(valueLines)-avail)
	}
	end := min(start+avail, len(valueLines))

	out := make([]string, 0, end-start)
	for _, l := range valueLines[start:end] {
		out = append(out, valueIndent+l)
	}
	return out
}

// cursorLine returns the wrapped line holding the cursor, wrapping the same
// way InputRenderer does.
func cursorLine(text string, cursorPos, width int) int {
	line, col := 0, 0
	for i, r := range []rune(text) {
		if r != '\n' && col == width {
			line++
			col = 0
		}
		if i == cursorPos {
			return line
		}
		if r == '\n' {
			line++
			col = 0
			continue
		}
		col++
	}
	if col == width {
		line++
	}
	return line
}
