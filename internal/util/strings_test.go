package util

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxWidth int
		expected string
	}{
		{name: "short string unchanged", input: "Pay rent", maxWidth: 10, expected: "Pay rent"},
		{name: "exact width unchanged", input: "hello", maxWidth: 5, expected: "hello"},
		{name: "long string truncated", input: "hello world", maxWidth: 8, expected: "hello..."},
		{name: "maxWidth of 3 returns ellipsis", input: "hello", maxWidth: 3, expected: "..."},
		{name: "negative maxWidth returns ellipsis", input: "hello", maxWidth: -5, expected: "..."},
		{name: "empty string unchanged", input: "", maxWidth: 10, expected: ""},
		{name: "maxWidth of 4 shows one char plus ellipsis", input: "hello", maxWidth: 4, expected: "h..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Truncate(tt.input, tt.maxWidth)
			if got != tt.expected {
				t.Errorf("Truncate(%q, %d) = %q, want %q", tt.input, tt.maxWidth, got, tt.expected)
			}
		})
	}
}

func TestTruncate_Styled(t *testing.T) {
	red := lipgloss.NewStyle().Foreground(lipgloss.Color("9"))

	short := red.Render("hi")
	if got := Truncate(short, 10); got != short {
		t.Errorf("styled string was modified when it fits: %q", got)
	}

	long := red.Render("Prepare quarterly report")
	if w := lipgloss.Width(Truncate(long, 10)); w > 10 {
		t.Errorf("truncated width = %d, want <= 10", w)
	}
}

func TestTruncate_WideCharacters(t *testing.T) {
	got := Truncate("日本語テキスト", 8)
	if w := lipgloss.Width(got); w > 8 {
		t.Errorf("width = %d, want <= 8 (%q)", w, got)
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate() = %q, want trailing ellipsis", got)
	}
}

func TestShortID(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"3f2b9c1e-7a44-4d7e-9f0c-0c1f2e3d4a5b", "3f2b9c1e"},
		{"id-1", "id-1"},
		{"12345678", "12345678"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ShortID(tt.id); got != tt.want {
			t.Errorf("ShortID(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := PadRight("ab", 5); got != "ab   " {
		t.Errorf("PadRight() = %q", got)
	}
	if got := PadRight("abcdef", 3); got != "abcdef" {
		t.Errorf("PadRight() should not truncate, got %q", got)
	}

	styled := lipgloss.NewStyle().Bold(true).Render("ab")
	if w := lipgloss.Width(PadRight(styled, 6)); w != 6 {
		t.Errorf("styled PadRight width = %d, want 6", w)
	}
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name    string
		percent int
		width   int
		want    string
	}{
		{"empty", 0, 4, "░░░░"},
		{"half", 50, 4, "██░░"},
		{"full", 100, 4, "████"},
		{"over range clamps", 150, 4, "████"},
		{"under range clamps", -10, 4, "░░░░"},
		{"rounds down", 99, 4, "███░"},
		{"zero width", 50, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ProgressBar(tt.percent, tt.width); got != tt.want {
				t.Errorf("ProgressBar(%d, %d) = %q, want %q", tt.percent, tt.width, got, tt.want)
			}
		})
	}
}
