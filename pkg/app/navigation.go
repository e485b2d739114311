package app

// CycleFocusForward moves focus to the next ring, wrapping after the last.
func (m *Model) CycleFocusForward() {
	if len(m.rings) == 0 {
		return
	}
	m.focused = (m.focused + 1) % len(m.rings)
	m.followFocus()
}

// CycleFocusBackward moves focus to the previous ring, wrapping before the
// first.
func (m *Model) CycleFocusBackward() {
	if len(m.rings) == 0 {
		return
	}
	m.focused = (m.focused - 1 + len(m.rings)) % len(m.rings)
	m.followFocus()
}

// FocusRing focuses the ring at i. Out-of-range indexes are ignored.
func (m *Model) FocusRing(i int) {
	if i < 0 || i >= len(m.rings) {
		return
	}
	m.focused = i
	m.followFocus()
}

// ToggleExpand toggles the focused ring between its box and the full
// screen. If another ring is expanded, expansion moves to the focused one.
func (m *Model) ToggleExpand() {
	if len(m.rings) == 0 {
		return
	}
	if m.expanded == m.focused {
		m.expanded = -1
	} else {
		m.expanded = m.focused
	}
}

// Focused returns the index of the focused ring.
func (m *Model) Focused() int { return m.focused }

// Expanded returns the index of the expanded ring, or -1.
func (m *Model) Expanded() int { return m.expanded }

// followFocus keeps an expanded view on the focused ring.
func (m *Model) followFocus() {
	if m.expanded >= 0 {
		m.expanded = m.focused
	}
}
