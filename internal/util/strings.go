// Package util provides string helpers shared by the CLI and the TUI.
package util

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

const ellipsis = "..."

// TruncateLabel shortens a plain device or universe label to maxWidth
// terminal columns, adding "..." if truncated. Wide runes count as two
// columns.
func TruncateLabel(s string, maxWidth int) string {
	if maxWidth <= len(ellipsis) {
		if runewidth.StringWidth(s) <= maxWidth && maxWidth > 0 {
			return s
		}
		return ellipsis[:max(maxWidth, 0)]
	}
	return runewidth.Truncate(s, maxWidth, ellipsis)
}

// PadLabel truncates s to width columns and pads it with spaces to exactly
// width columns.
func PadLabel(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return runewidth.FillRight(TruncateLabel(s, width), width)
}

// TruncateANSI truncates a string to maxWidth visual columns, adding "..." if truncated.
// Escape codes are preserved, so it is safe on output that was already styled.
func TruncateANSI(s string, maxWidth int) string {
	if maxWidth <= len(ellipsis) {
		return ellipsis
	}
	if lipgloss.Width(s) <= maxWidth {
		return s
	}
	// ansi.Truncate includes the tail in the final width calculation
	return ansi.Truncate(s, maxWidth, ellipsis)
}
