// Package components holds the small ANSI-aware text pieces drawn around a
// ring: the time readout, a bar fallback and padding helpers.
package components

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// VisibleLen returns the width of s in terminal cells, ignoring escape
// sequences.
func VisibleLen(s string) int {
	return ansi.StringWidth(s)
}

// Truncate cuts s to at most width cells, keeping escape sequences before
// the cut. tail, if any, counts toward width.
func Truncate(s string, width int, tail string) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, tail)
}

// PadCenter centres s within width. Odd padding puts the extra space on
// the right. Wider strings are returned unchanged.
func PadCenter(s string, width int) string {
	vis := VisibleLen(s)
	if vis >= width {
		return s
	}
	left := (width - vis) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-vis-left)
}

// Fit truncates or centre-pads s to exactly width cells.
func Fit(s string, width int) string {
	if VisibleLen(s) > width {
		return Truncate(s, width, "…")
	}
	return PadCenter(s, width)
}
