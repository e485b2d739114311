package app

import (
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
)

// TeaDriver is a driver.Driver that schedules frames as bubbletea ticks.
// Each live subscription has at most one tick in flight; Dispatch delivers
// it and re-arms. Ticks for released subscriptions are dropped and not
// re-armed. TeaDriver is not safe for concurrent use; it belongs to the
// model's Update loop.
type TeaDriver struct {
	period    time.Duration
	callbacks map[driver.Subscription]driver.Callback
	armed     map[driver.Subscription]bool
	order     []driver.Subscription
	logger    *slog.Logger
}

// NewTeaDriver creates a driver ticking at fps frames per second. Non-positive
// fps uses driver.DefaultFPS.
func NewTeaDriver(fps int, logger *slog.Logger) *TeaDriver {
	if fps <= 0 {
		fps = driver.DefaultFPS
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TeaDriver{
		period:    time.Second / time.Duration(fps),
		callbacks: make(map[driver.Subscription]driver.Callback),
		armed:     make(map[driver.Subscription]bool),
		logger:    logger,
	}
}

// Period returns the time between frames.
func (d *TeaDriver) Period() time.Duration {
	return d.period
}

// Register implements driver.Driver. The subscription does not tick until
// Arm is called.
func (d *TeaDriver) Register(fn driver.Callback) driver.Subscription {
	sub := driver.NewSubscription()
	d.callbacks[sub] = fn
	d.order = append(d.order, sub)
	return sub
}

// Unregister implements driver.Driver. Unknown subscriptions are ignored.
func (d *TeaDriver) Unregister(sub driver.Subscription) {
	if _, ok := d.callbacks[sub]; !ok {
		return
	}
	delete(d.callbacks, sub)
	delete(d.armed, sub)
	for i, s := range d.order {
		if s == sub {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
}

// Active returns the number of live subscriptions.
func (d *TeaDriver) Active() int {
	return len(d.callbacks)
}

// Live reports whether sub is registered.
func (d *TeaDriver) Live(sub driver.Subscription) bool {
	_, ok := d.callbacks[sub]
	return ok
}

// Arm returns ticks for every live subscription that has none in flight,
// in registration order, or nil when there are none.
func (d *TeaDriver) Arm() tea.Cmd {
	var cmds []tea.Cmd
	for _, sub := range d.order {
		if !d.armed[sub] {
			cmds = append(cmds, d.tick(sub))
		}
	}
	return tea.Batch(cmds...)
}

// Dispatch delivers ev to its callback and returns the next tick. It
// returns nil, without calling anything, when ev.Sub is no longer live.
func (d *TeaDriver) Dispatch(ev FrameEvent) tea.Cmd {
	fn, ok := d.callbacks[ev.Sub]
	if !ok {
		d.logger.Debug("frame for released subscription dropped", "sub", ev.Sub)
		return nil
	}
	d.armed[ev.Sub] = false
	fn(ev.Sub)
	if !d.Live(ev.Sub) {
		return nil
	}
	return d.tick(ev.Sub)
}

func (d *TeaDriver) tick(sub driver.Subscription) tea.Cmd {
	d.armed[sub] = true
	return tea.Tick(d.period, func(t time.Time) tea.Msg {
		return FrameEvent{Sub: sub, Time: t}
	})
}
