package utils

import "testing"

func TestFormatSize(t *testing.T) {
	tests := []struct {
		input    int64
		expected string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KiB"},
		{1536, "1.5 KiB"},
		{5 * 1024 * 1024, "5.0 MiB"},
		{3 * 1024 * 1024 * 1024, "3.0 GiB"},
	}

	for _, tt := range tests {
		if got := FormatSize(tt.input); got != tt.expected {
			t.Errorf("FormatSize(%d) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestSingleLine(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"plain", "plain"},
		{"two\nlines", "two lines"},
		{"crlf\r\nline", "crlf line"},
		{"tab\there", "tab here"},
	}

	for _, tt := range tests {
		if got := SingleLine(tt.input); got != tt.expected {
			t.Errorf("SingleLine(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		input    string
		width    int
		tail     string
		expected string
	}{
		{"exactly10!", 10, "...", "exactly10!"},
		{"this is too long", 10, "...", "this is..."},
		{"abcdef", 6, "…", "abcdef"},
		{"abcdefg", 6, "…", "abcde…"},
		{"abcdef", 3, "...", "abc"},
		{"abc", 0, "...", ""},
		{"日本語", 6, "…", "日本語"},
	}

	for _, tt := range tests {
		if got := Truncate(tt.input, tt.width, tt.tail); got != tt.expected {
			t.Errorf("Truncate(%q, %d, %q) = %q, expected %q", tt.input, tt.width, tt.tail, got, tt.expected)
		}
	}
}
