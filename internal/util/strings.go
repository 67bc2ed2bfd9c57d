// Package util provides text helpers shared by the CLI renderer and the TUI.
package util

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// ShortIDLen is the number of id characters shown in listings.
const ShortIDLen = 8

// Truncate shortens s to maxWidth visual columns, adding "..." if
// truncated. ANSI escape codes and wide characters are accounted for, so
// styled task titles can be passed directly.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 3 {
		return "..."
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, "...")
}

// ShortID returns the leading ShortIDLen characters of id. Any unique
// prefix resolves back to the task, so listings print this form.
func ShortID(id string) string {
	runes := []rune(id)
	if len(runes) <= ShortIDLen {
		return id
	}
	return string(runes[:ShortIDLen])
}

// PadRight pads s with spaces to width visual columns. Strings already at
// or beyond width are returned unchanged.
func PadRight(s string, width int) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	return s + strings.Repeat(" ", gap)
}

// ProgressBar draws percent (clamped to 0..100) as a bar width cells wide.
func ProgressBar(percent, width int) string {
	if width <= 0 {
		return ""
	}
	percent = max(0, min(100, percent))
	filled := percent * width / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}
