package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

func TestConfirmation(t *testing.T) {
	tests := []struct {
		name          string
		key           tea.KeyMsg
		wantConfirmed bool
		wantCancelled bool
		wantActive    bool
	}{
		{"y confirms", runeKey("y"), true, false, false},
		{"Y confirms", runeKey("Y"), true, false, false},
		{"n cancels", runeKey("n"), false, true, false},
		{"esc cancels", keyEsc, false, true, false},
		{"other keys are swallowed", runeKey("x"), false, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var confirmed, cancelled bool
			c := NewConfirmation()
			c.Show(Prompt{Message: "Save anyway?"},
				func() tea.Cmd { confirmed = true; return nil },
				func() tea.Cmd { cancelled = true; return nil },
			)

			c.Update(tt.key)

			if confirmed != tt.wantConfirmed {
				t.Errorf("confirmed = %v, want %v", confirmed, tt.wantConfirmed)
			}
			if cancelled != tt.wantCancelled {
				t.Errorf("cancelled = %v, want %v", cancelled, tt.wantCancelled)
			}
			if c.Active() != tt.wantActive {
				t.Errorf("Active() = %v, want %v", c.Active(), tt.wantActive)
			}
		})
	}
}

func TestConfirmationInactive(t *testing.T) {
	c := NewConfirmation()
	if cmd := c.Update(runeKey("y")); cmd != nil {
		t.Error("an inactive confirmation should ignore keys")
	}
	if c.ViewWithWidth(80) != "" {
		t.Error("an inactive confirmation should render nothing")
	}
}

func TestConfirmationView(t *testing.T) {
	c := NewConfirmation()
	c.Show(Prompt{
		Message: "Save anyway?",
		Details: []string{"Exif/Exif.Image.Orientation", "IPTC/Iptc.Application2.Urgency"},
	}, nil, nil)

	lines := strings.Split(stripANSI(c.ViewWithWidth(60)), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), lines)
	}
	if !strings.HasPrefix(lines[0], "  • Exif/Exif.Image.Orientation") {
		t.Errorf("first detail = %q", lines[0])
	}
	if !strings.Contains(lines[2], "Save anyway? [y]es / [n]o") {
		t.Errorf("question = %q", lines[2])
	}

	narrow := strings.Split(stripANSI(c.ViewWithWidth(12)), "\n")
	if got := lipgloss.Width(narrow[1]); got > 12 {
		t.Errorf("detail is %d cells wide in a 12 cell footer", got)
	}

	// Answering with no callbacks just closes the prompt
	if cmd := c.Update(runeKey("y")); cmd != nil {
		t.Error("expected no command without a confirm callback")
	}
	if c.Active() {
		t.Error("prompt should close after an answer")
	}
}
