// Package drivertest provides a frame driver for tests that fires only when
// told to.
package drivertest

import "gitlab.com/tinyland/lab/countdown-ring/pkg/driver"

// Manual is a driver that only fires when told to. It keeps every callback
// it has ever seen so tests can deliver frames on released subscriptions.
type Manual struct {
	callbacks map[driver.Subscription]driver.Callback
	live      map[driver.Subscription]bool
	order     []driver.Subscription

	Registrations   int
	Unregistrations int
}

// NewManual creates an empty manual driver.
func NewManual() *Manual {
	return &Manual{
		callbacks: make(map[driver.Subscription]driver.Callback),
		live:      make(map[driver.Subscription]bool),
	}
}

// Register records fn and returns a new subscription.
func (m *Manual) Register(fn driver.Callback) driver.Subscription {
	sub := driver.NewSubscription()
	m.callbacks[sub] = fn
	m.live[sub] = true
	m.order = append(m.order, sub)
	m.Registrations++
	return sub
}

// Unregister marks sub as released. Unknown subscriptions are ignored.
func (m *Manual) Unregister(sub driver.Subscription) {
	if !m.live[sub] {
		return
	}
	delete(m.live, sub)
	for i, s := range m.order {
		if s == sub {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	m.Unregistrations++
}

// Active returns the number of live subscriptions.
func (m *Manual) Active() int {
	return len(m.live)
}

// Fire invokes the callback registered under sub, whether or not it is
// still live. It reports whether a callback was found.
func (m *Manual) Fire(sub driver.Subscription) bool {
	fn, ok := m.callbacks[sub]
	if !ok {
		return false
	}
	fn(sub)
	return true
}

// FireAll invokes every live callback once, in registration order.
// Subscriptions released during the pass still fire this time.
func (m *Manual) FireAll() {
	subs := append([]driver.Subscription(nil), m.order...)
	for _, sub := range subs {
		m.callbacks[sub](sub)
	}
}
