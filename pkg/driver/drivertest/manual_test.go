package drivertest

import (
	"testing"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/driver"
)

func TestManualFireReleasedSubscription(t *testing.T) {
	m := NewManual()
	calls := 0
	sub := m.Register(func(driver.Subscription) { calls++ })
	m.Unregister(sub)
	m.Unregister(sub)

	if m.Unregistrations != 1 {
		t.Errorf("expected 1 unregistration, got %d", m.Unregistrations)
	}
	if !m.Fire(sub) {
		t.Error("expected Fire to find the released callback")
	}
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
}

func TestManualFireAllInRegistrationOrder(t *testing.T) {
	m := NewManual()
	var order []int
	for i := 1; i <= 5; i++ {
		m.Register(func(driver.Subscription) { order = append(order, i) })
	}
	third := m.order[2]
	m.Unregister(third)

	for range 10 {
		order = order[:0]
		m.FireAll()
		want := []int{1, 2, 4, 5}
		if len(order) != len(want) {
			t.Fatalf("expected %v, got %v", want, order)
		}
		for i := range want {
			if order[i] != want[i] {
				t.Fatalf("expected %v, got %v", want, order)
			}
		}
	}
}

func TestManualImplementsDriver(t *testing.T) {
	var _ driver.Driver = NewManual()
}
