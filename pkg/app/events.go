// Package app hosts countdown rings in a bubbletea program. Frames are
// delivered through the bubbletea update loop by TeaDriver, so widgets are
// only ever touched from the program's goroutine.
package app

import (
	"time"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
)

// FrameEvent is one frame for one subscription.
type FrameEvent struct {
	Sub  driver.Subscription
	Time time.Time
}

// FocusEvent moves focus to the ring at Index.
type FocusEvent struct {
	Index int
}

// ThemeChangeEvent switches the active theme by name.
type ThemeChangeEvent struct {
	Theme string
}
