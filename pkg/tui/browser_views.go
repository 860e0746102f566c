package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/metoxid/metoxid-cli/pkg/models"
	"github.com/metoxid/metoxid-cli/pkg/utils"
)

func (m *DirectoryBrowserModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	contentWidth := m.contentWidth()
	listHeight := m.listHeight()

	var lines []string
	if len(m.entries) == 0 {
		lines = append(lines, EmptyStyle.Render("Empty directory"))
	}

	end := min(m.scroll.Offset+m.scroll.VisibleRows(), len(m.entries))
	for i := m.scroll.Offset; i < end; i++ {
		lines = append(lines, renderEntry(m.entries[i], i == m.scroll.Selected, contentWidth))
	}
	for len(lines) < listHeight {
		lines = append(lines, "")
	}

	var b strings.Builder
	b.WriteString(renderHeader(m.width, "browse", m.dir))
	b.WriteString("\n")
	b.WriteString(ContentPaddingStyle.Render(strings.Join(lines[:listHeight], "\n")))
	b.WriteString("\n")
	b.WriteString(ContentPaddingStyle.Render(m.footer()))
	return b.String()
}

func renderEntry(e models.Entry, selected bool, width int) string {
	name := e.Name
	if e.IsDir && !e.IsParent {
		name += "/"
	}

	var size string
	if !e.IsDir {
		size = utils.FormatSize(e.Size)
	}

	prefix := "  "
	if selected {
		prefix = "> "
	}

	nameWidth := width - lipgloss.Width(prefix) - lipgloss.Width(size) - 1
	if nameWidth < 1 {
		nameWidth = 1
		size = ""
	}
	name = utils.Truncate(name, nameWidth, "…")
	gap := max(width-lipgloss.Width(prefix)-lipgloss.Width(name)-lipgloss.Width(size), 1)
	row := prefix + name + strings.Repeat(" ", gap) + size

	switch {
	case selected:
		return SelectedStyle.Width(width).Render(row)
	case e.IsDir:
		return DirStyle.Render(row)
	default:
		return NormalStyle.Render(row)
	}
}
