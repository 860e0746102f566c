package utils

import (
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// FormatSize formats a byte count for display, in binary units
func FormatSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// SingleLine folds a multi-line value onto one line for list rows and tables
func SingleLine(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\r' || r == '\t' {
			return ' '
		}
		return r
	}, s)
}

// Truncate cuts s to width cells, ending it with tail. Strings that already
// fit are returned unchanged.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	if ansi.PrintableRuneWidth(s) <= width {
		return s
	}
	if ansi.PrintableRuneWidth(tail) >= width {
		return truncate.String(s, uint(width))
	}
	return truncate.StringWithTail(s, uint(width), tail)
}
