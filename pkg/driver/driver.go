// Package driver defines the frame driver contract used by countdown widgets.
//
// A driver invokes registered callbacks once per display refresh. Every
// registration yields a Subscription whose ID is passed back to the callback
// on each frame, so the receiver can tell a live subscription from a stale
// one that fires after it was released.
package driver

import (
	"github.com/google/uuid"
)

// Subscription identifies one registration with a Driver. The zero value
// means "not registered".
type Subscription struct {
	ID uuid.UUID
}

// NewSubscription returns a subscription with a fresh random ID.
func NewSubscription() Subscription {
	return Subscription{ID: uuid.New()}
}

// Valid reports whether s refers to a registration.
func (s Subscription) Valid() bool {
	return s.ID != uuid.Nil
}

// String returns the subscription ID, or "none" for the zero value.
func (s Subscription) String() string {
	if !s.Valid() {
		return "none"
	}
	return s.ID.String()
}

// Callback is invoked once per frame with the subscription that fired it.
type Callback func(Subscription)

// Driver delivers per-frame callbacks.
type Driver interface {
	// Register adds fn and returns its subscription. Each call creates a
	// new subscription.
	Register(fn Callback) Subscription

	// Unregister removes the subscription. Unknown or zero subscriptions
	// are ignored.
	Unregister(sub Subscription)
}
