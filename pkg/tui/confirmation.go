package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/metoxid/metoxid-cli/pkg/utils"
)

var (
	confirmYes = key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "yes"))
	confirmNo  = key.NewBinding(key.WithKeys("n", "N", "esc"), key.WithHelp("n", "no"))
)

// Prompt is the content of a yes/no question shown in a view's footer.
type Prompt struct {
	Message string
	Details []string
}

// ConfirmationModel asks a yes/no question and runs the matching callback.
// While it is active every key goes to it.
type ConfirmationModel struct {
	prompt    *Prompt
	onConfirm func() tea.Cmd
	onCancel  func() tea.Cmd
}

func NewConfirmation() *ConfirmationModel {
	return &ConfirmationModel{}
}

// Show activates the prompt. Either callback may be nil.
func (m *ConfirmationModel) Show(p Prompt, onConfirm, onCancel func() tea.Cmd) {
	m.prompt = &p
	m.onConfirm = onConfirm
	m.onCancel = onCancel
}

func (m *ConfirmationModel) Hide() {
	m.prompt = nil
}

func (m *ConfirmationModel) Active() bool {
	return m.prompt != nil
}

// Update answers the prompt on y or n/esc and swallows other keys.
func (m *ConfirmationModel) Update(msg tea.KeyMsg) tea.Cmd {
	if m.prompt == nil {
		return nil
	}

	var answer func() tea.Cmd
	switch {
	case key.Matches(msg, confirmYes):
		answer = m.onConfirm
	case key.Matches(msg, confirmNo):
		answer = m.onCancel
	default:
		return nil
	}

	m.Hide()
	if answer == nil {
		return nil
	}
	return answer()
}

// ViewWithWidth renders the details, one per line, above the centered
// question.
func (m *ConfirmationModel) ViewWithWidth(width int) string {
	if m.prompt == nil {
		return ""
	}

	lines := make([]string, 0, len(m.prompt.Details)+1)
	for _, d := range m.prompt.Details {
		line := "  • " + d
		if width > 0 {
			line = utils.Truncate(line, width, "…")
		}
		lines = append(lines, WarningStyle.Render(line))
	}

	question := m.prompt.Message + " " + answerOptions()
	if width > 0 && lipgloss.Width(question) < width {
		question = lipgloss.PlaceHorizontal(width, lipgloss.Center, question)
	}
	return strings.Join(append(lines, question), "\n")
}

func answerOptions() string {
	yes := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorDanger)).Bold(true).Render("[y]es")
	no := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorSuccess)).Bold(true).Render("[n]o")
	return yes + " / " + no
}
