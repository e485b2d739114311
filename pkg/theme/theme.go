// Package theme provides the colour palettes used to paint countdown rings
// and the chrome around them.
package theme

import (
	"sort"
	"strings"
	"sync"
)

// Theme is a named palette. Every colour is a "#rrggbb" hex string.
type Theme struct {
	Name string

	// Base colors
	Background string
	Foreground string
	Dim        string
	Accent     string

	// Chrome
	Border      string // unfocused ring border
	BorderFocus string // focused ring border
	Title       string

	// Ring
	RingFill   string // wedge interior
	RingStroke string // wedge outline
	RingTrack  string // full disc drawn under the wedge

	// Readout and help line
	Readout  string
	HelpKey  string
	HelpDesc string
}

var (
	mu       sync.RWMutex
	registry = map[string]Theme{}
)

func init() {
	thRegisterBuiltins()
}

// Get returns a named theme, falling back to "default" if not found.
func Get(name string) Theme {
	mu.RLock()
	defer mu.RUnlock()
	if t, ok := registry[strings.ToLower(name)]; ok {
		return t
	}
	return registry["default"]
}

// Lookup returns a named theme and whether it exists.
func Lookup(name string) (Theme, bool) {
	mu.RLock()
	defer mu.RUnlock()
	t, ok := registry[strings.ToLower(name)]
	return t, ok
}

// Names returns all available theme names sorted alphabetically.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds or replaces a theme under its lowercase name.
func Register(t Theme) {
	mu.Lock()
	defer mu.Unlock()
	registry[strings.ToLower(t.Name)] = t
}
