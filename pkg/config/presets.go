package config

import (
	"sort"
	"time"
)

// Preset returns the rings of a named preset and whether the name is known.
func Preset(name string) ([]RingConfig, bool) {
	fn, ok := presets[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// PresetNames returns the known preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

var presets = map[string]func() []RingConfig{
	"single":   singlePreset,
	"pomodoro": pomodoroPreset,
	"clock":    clockPreset,
	"breath":   breathPreset,
}

// singlePreset is one ring at the default interval.
func singlePreset() []RingConfig {
	return []RingConfig{DefaultRing()}
}

// pomodoroPreset pairs a work block with a short break.
//
//	[focus 25m] [break 5m]
func pomodoroPreset() []RingConfig {
	return []RingConfig{
		ring("focus", 25*time.Minute),
		ring("break", 5*time.Minute),
	}
}

// clockPreset shows the seconds, minutes and hours of the wall clock. Base
// times sit on the Unix epoch so every ring wraps on the boundary.
//
//	[seconds 1m] [minutes 1h] [hours 12h]
func clockPreset() []RingConfig {
	epoch := time.Unix(0, 0).UTC()
	rings := []RingConfig{
		ring("seconds", time.Minute),
		ring("minutes", time.Hour),
		ring("hours", 12*time.Hour),
	}
	for i := range rings {
		rings[i].BaseTime = epoch
	}
	return rings
}

// breathPreset paces box breathing.
//
//	[inhale/hold/exhale/hold 16s] [phase 4s]
func breathPreset() []RingConfig {
	return []RingConfig{
		ring("cycle", 16*time.Second),
		ring("phase", 4*time.Second),
	}
}

func ring(name string, d time.Duration) RingConfig {
	r := DefaultRing()
	r.Name = name
	r.Interval = Duration{d}
	return r
}
