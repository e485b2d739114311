package components

import (
	"math"
	"strings"
)

// Block characters for sub-cell precision (8 levels per cell).
var barBlocks = [9]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// ProgressBar draws fraction (clamped to [0, 1]) as a width-cell bar with
// eighth-cell precision. It stands in for the ring where images are off.
func ProgressBar(fraction float64, width int) string {
	if width <= 0 {
		return ""
	}
	if math.IsNaN(fraction) || fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}

	eighths := int(math.Round(fraction * float64(width*8)))
	full, part := eighths/8, eighths%8

	var b strings.Builder
	b.Grow(width * 3)
	b.WriteString(strings.Repeat(string(barBlocks[8]), full))
	if full < width {
		b.WriteRune(barBlocks[part])
		b.WriteString(strings.Repeat(" ", width-full-1))
	}
	return b.String()
}
