package terminal

import (
	"os"
	"strconv"

	"github.com/charmbracelet/x/term"
)

// Default cell pixel size, used when the terminal does not report pixels.
const (
	DefaultCellW = 8
	DefaultCellH = 16
)

// Size holds terminal dimensions in cells and, when known, pixels.
type Size struct {
	Cols  int
	Rows  int
	CellW int // pixels per cell, 0 if unknown
	CellH int
}

// CellPixels returns the cell pixel size, falling back to the defaults.
func (s Size) CellPixels() (w, h int) {
	w, h = s.CellW, s.CellH
	if w <= 0 {
		w = DefaultCellW
	}
	if h <= 0 {
		h = DefaultCellH
	}
	return w, h
}

// GetSize returns the dimensions of the terminal attached to f. It tries
// TIOCGWINSZ (which also reports pixels), then the portable size query, then
// COLUMNS/LINES, then 80x24.
func GetSize(f *os.File) Size {
	if f != nil {
		if s, ok := sizeFromIoctl(f.Fd()); ok {
			return s
		}
		if cols, rows, err := term.GetSize(f.Fd()); err == nil && cols > 0 && rows > 0 {
			return Size{Cols: cols, Rows: rows}
		}
	}
	return Size{
		Cols: envInt("COLUMNS", 80),
		Rows: envInt("LINES", 24),
	}
}

// envInt reads a positive integer from the environment.
func envInt(name string, fallback int) int {
	n, err := strconv.Atoi(os.Getenv(name))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
