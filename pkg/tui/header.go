package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/metoxid/metoxid-cli/pkg/utils"
)

const appName = "metoxid"

// headerHeight is the number of lines renderHeader produces.
const headerHeight = 2

func renderHeader(width int, title, path string) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("205")). // Pink/magenta color
		Bold(true)

	titleStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorNormal)).
		Bold(true)

	pathStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorDim))

	// Header padding style (matching content padding)
	headerPadding := lipgloss.NewStyle().
		PaddingLeft(1).
		PaddingRight(1).
		Width(width)

	left := logoStyle.Render(appName)
	if title != "" {
		left = lipgloss.JoinHorizontal(lipgloss.Top, left, " ", titleStyle.Render(title))
	}

	// Calculate available width for the path (accounting for padding)
	contentWidth := width - 2
	avail := contentWidth - lipgloss.Width(left) - 1
	var right string
	if avail > 0 && path != "" {
		right = pathStyle.Render(utils.Truncate(path, avail, "…"))
	}

	gap := contentWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, left, repeatStr(" ", gap), right)

	rule := lipgloss.NewStyle().
		Foreground(lipgloss.Color(ColorInactive)).
		Render(repeatStr("─", max(contentWidth, 0)))

	return headerPadding.Render(line + "\n" + rule)
}

func repeatStr(s string, count int) string {
	result := ""
	for i := 0; i < count; i++ {
		result += s
	}
	return result
}

// renderFooter renders help or a prompt so that no line is wider than
// width, keeping the height the layout reserved for it.
func renderFooter(s string, width int) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = utils.Truncate(l, width, "…")
	}
	return strings.Join(lines, "\n")
}
