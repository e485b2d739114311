package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultFPS is the frame rate used when none is configured.
const DefaultFPS = 60

type loopEntry struct {
	sub Subscription
	fn  Callback
}

// Loop is a ticker-backed driver. Frames are delivered on the goroutine that
// calls Run (or Step), one frame at a time, in registration order.
type Loop struct {
	mu      sync.Mutex
	entries []loopEntry
	period  time.Duration
	logger  *slog.Logger
}

// NewLoop creates a loop driver that fires fps frames per second. A
// non-positive fps selects DefaultFPS. A nil logger discards output.
func NewLoop(fps int, logger *slog.Logger) *Loop {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loop{
		period: time.Second / time.Duration(fps),
		logger: logger,
	}
}

// Period returns the time between frames.
func (l *Loop) Period() time.Duration {
	return l.period
}

// Register adds fn to the frame list.
func (l *Loop) Register(fn Callback) Subscription {
	sub := NewSubscription()
	l.mu.Lock()
	l.entries = append(l.entries, loopEntry{sub: sub, fn: fn})
	l.mu.Unlock()
	l.logger.Debug("frame subscription registered", "sub", sub)
	return sub
}

// Unregister removes sub from the frame list. It is a no-op for unknown or
// zero subscriptions.
func (l *Loop) Unregister(sub Subscription) {
	if !sub.Valid() {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, e := range l.entries {
		if e.sub == sub {
			l.entries = append(l.entries[:i:i], l.entries[i+1:]...)
			l.logger.Debug("frame subscription released", "sub", sub)
			return
		}
	}
}

// Active returns the number of live subscriptions.
func (l *Loop) Active() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Step delivers a single frame synchronously. Callbacks registered or
// released during the frame take effect on the next one.
func (l *Loop) Step() {
	l.mu.Lock()
	snapshot := make([]loopEntry, len(l.entries))
	copy(snapshot, l.entries)
	l.mu.Unlock()

	for _, e := range snapshot {
		e.fn(e.sub)
	}
}

// Run delivers frames until ctx is cancelled. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			l.Step()
		}
	}
}
