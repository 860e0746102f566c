package tui

import (
	"strings"
	"testing"

	"github.com/muesli/reflow/ansi"
)

func plainLines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = stripANSI(l)
	}
	return out
}

func stripANSI(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inSeq = true
		case inSeq:
			if ansi.IsTerminator(r) {
				inSeq = false
			}
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestInputRenderer_RenderValue(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		width      int
		cursorPos  int
		showCursor bool
		expected   []string
	}{
		{
			name:     "fits on one line",
			text:     "hello",
			width:    10,
			expected: []string{"hello"},
		},
		{
			name:     "hard wraps at width",
			text:     "abcdefgh",
			width:    3,
			expected: []string{"abc", "def", "gh"},
		},
		{
			name:     "keeps newlines",
			text:     "ab\ncd",
			width:    10,
			expected: []string{"ab", "cd"},
		},
		{
			name:     "preserves spaces",
			text:     "a  b",
			width:    10,
			expected: []string{"a  b"},
		},
		{
			name:       "cursor at end adds a cell",
			text:       "abc",
			width:      3,
			cursorPos:  3,
			showCursor: true,
			expected:   []string{"abc", " "},
		},
		{
			name:       "cursor inside keeps text",
			text:       "abc",
			width:      10,
			cursorPos:  1,
			showCursor: true,
			expected:   []string{"abc"},
		},
		{
			name:     "empty value",
			text:     "",
			width:    5,
			expected: []string{""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewInputRenderer(tt.width)
			got := plainLines(r.RenderValue(tt.text, tt.cursorPos, tt.showCursor))

			if len(got) != len(tt.expected) {
				t.Fatalf("got %d lines %q, want %q", len(got), got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("line %d = %q, want %q", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestInputRenderer_MinimumWidth(t *testing.T) {
	r := NewInputRenderer(0)
	if r.Width != 1 {
		t.Errorf("Width = %d, want 1", r.Width)
	}
	got := plainLines(r.RenderValue("ab", 0, false))
	if len(got) != 2 {
		t.Errorf("expected one rune per line, got %q", got)
	}
}

func TestCursorLineMatchesRenderer(t *testing.T) {
	tests := []struct {
		text   string
		width  int
		cursor int
		line   int
	}{
		{"abcdefgh", 3, 0, 0},
		{"abcdefgh", 3, 3, 1},
		{"abcdefgh", 3, 8, 2},
		{"abcdef", 3, 6, 2},
		{"ab\ncd", 10, 3, 1},
		{"ab\ncd", 10, 2, 0},
	}

	for _, tt := range tests {
		if got := cursorLine(tt.text, tt.cursor, tt.width); got != tt.line {
			t.Errorf("cursorLine(%q, %d, %d) = %d, want %d", tt.text, tt.cursor, tt.width, got, tt.line)
		}
	}
}
