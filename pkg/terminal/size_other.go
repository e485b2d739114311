//go:build !unix

package terminal

func sizeFromIoctl(uintptr) (Size, bool) {
	return Size{}, false
}
