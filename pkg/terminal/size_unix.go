//go:build unix

package terminal

import "golang.org/x/sys/unix"

// sizeFromIoctl queries TIOCGWINSZ on fd.
func sizeFromIoctl(fd uintptr) (Size, bool) {
	ws, err := unix.IoctlGetWinsize(int(fd), unix.TIOCGWINSZ)
	if err != nil || ws.Col == 0 || ws.Row == 0 {
		return Size{}, false
	}
	s := Size{Cols: int(ws.Col), Rows: int(ws.Row)}
	if ws.Xpixel > 0 {
		s.CellW = int(ws.Xpixel) / s.Cols
	}
	if ws.Ypixel > 0 {
		s.CellH = int(ws.Ypixel) / s.Rows
	}
	return s, true
}
