package theme

import (
	"fmt"
	"os"
	"regexp"

	"github.com/BurntSushi/toml"
)

// thTOMLTheme is the TOML-serializable representation of a Theme.
type thTOMLTheme struct {
	Name   string       `toml:"name"`
	Base   thTOMLBase   `toml:"base"`
	Widget thTOMLWidget `toml:"widget"`
	Ring   thTOMLRing   `toml:"ring"`
	Text   thTOMLText   `toml:"text"`
}

type thTOMLBase struct {
	Background string `toml:"background"`
	Foreground string `toml:"foreground"`
	Dim        string `toml:"dim"`
	Accent     string `toml:"accent"`
}

type thTOMLWidget struct {
	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`
	Title       string `toml:"title"`
}

type thTOMLRing struct {
	Fill   string `toml:"fill"`
	Stroke string `toml:"stroke"`
	Track  string `toml:"track"`
}

type thTOMLText struct {
	Readout  string `toml:"readout"`
	HelpKey  string `toml:"help_key"`
	HelpDesc string `toml:"help_desc"`
}

var thHexColorRegex = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// LoadFromTOML parses a TOML theme definition from raw bytes. Colours left
// out of the file are taken from the default theme.
func LoadFromTOML(data []byte) (Theme, error) {
	var tt thTOMLTheme
	if err := toml.Unmarshal(data, &tt); err != nil {
		return Theme{}, fmt.Errorf("theme: parse TOML: %w", err)
	}
	if tt.Name == "" {
		return Theme{}, fmt.Errorf("theme: missing required field %q", "name")
	}

	t := thDefaultTheme()
	t.Name = tt.Name
	thOverlay(&t.Background, tt.Base.Background)
	thOverlay(&t.Foreground, tt.Base.Foreground)
	thOverlay(&t.Dim, tt.Base.Dim)
	thOverlay(&t.Accent, tt.Base.Accent)
	thOverlay(&t.Border, tt.Widget.Border)
	thOverlay(&t.BorderFocus, tt.Widget.BorderFocus)
	thOverlay(&t.Title, tt.Widget.Title)
	thOverlay(&t.RingFill, tt.Ring.Fill)
	thOverlay(&t.RingStroke, tt.Ring.Stroke)
	thOverlay(&t.RingTrack, tt.Ring.Track)
	thOverlay(&t.Readout, tt.Text.Readout)
	thOverlay(&t.HelpKey, tt.Text.HelpKey)
	thOverlay(&t.HelpDesc, tt.Text.HelpDesc)

	if err := thValidateTheme(t); err != nil {
		return Theme{}, err
	}
	return t, nil
}

// LoadFile reads a TOML theme file and registers it.
func LoadFile(path string) (Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: read %s: %w", path, err)
	}
	t, err := LoadFromTOML(data)
	if err != nil {
		return Theme{}, err
	}
	Register(t)
	return t, nil
}

func thOverlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// thValidateTheme checks that every colour field is a valid hex colour.
func thValidateTheme(t Theme) error {
	colorFields := []struct {
		name, value string
	}{
		{"background", t.Background},
		{"foreground", t.Foreground},
		{"dim", t.Dim},
		{"accent", t.Accent},
		{"border", t.Border},
		{"border_focus", t.BorderFocus},
		{"title", t.Title},
		{"ring.fill", t.RingFill},
		{"ring.stroke", t.RingStroke},
		{"ring.track", t.RingTrack},
		{"readout", t.Readout},
		{"help_key", t.HelpKey},
		{"help_desc", t.HelpDesc},
	}
	for _, f := range colorFields {
		if !thHexColorRegex.MatchString(f.value) {
			return fmt.Errorf("theme: field %q has invalid hex color %q", f.name, f.value)
		}
	}
	return nil
}
