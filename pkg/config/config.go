// Package config loads countdown-ring settings from TOML or YAML files and
// the environment.
package config

import (
	"time"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
)

// Config is the top-level configuration.
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Display DisplayConfig `toml:"display" yaml:"display"`
	Rings   []RingConfig  `toml:"rings" yaml:"rings"`

	// IntervalOverride, when non-zero, replaces the interval of every ring
	// once Normalize has expanded the preset. COUNTDOWN_INTERVAL and the
	// -interval flag both set it; the flag wins.
	IntervalOverride time.Duration `toml:"-" yaml:"-"`
}

// GeneralConfig holds process-wide settings.
type GeneralConfig struct {
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	FPS         int    `toml:"fps" yaml:"fps"`
	Supersample int    `toml:"supersample" yaml:"supersample"`
	CacheSizeMB int    `toml:"cache_size_mb" yaml:"cache_size_mb"`
	Preset      string `toml:"preset" yaml:"preset"` // used when no rings are listed
}

// DisplayConfig controls how rings are drawn.
type DisplayConfig struct {
	Theme       string `toml:"theme" yaml:"theme"`
	ThemeFile   string `toml:"theme_file" yaml:"theme_file"`
	Protocol    string `toml:"protocol" yaml:"protocol"` // auto, halfblocks, kitty, iterm2, sixel, none
	ShowReadout bool   `toml:"show_readout" yaml:"show_readout"`
	ShowTrack   bool   `toml:"show_track" yaml:"show_track"`
}

// RingConfig describes one countdown ring.
type RingConfig struct {
	Name     string    `toml:"name" yaml:"name"`
	Interval Duration  `toml:"interval" yaml:"interval"`
	BaseTime time.Time `toml:"base_time" yaml:"base_time"` // zero means start of process

	// RadiusRatio is the ring radius as a fraction of half the box side.
	RadiusRatio float64 `toml:"radius_ratio" yaml:"radius_ratio"`
	// StrokeWidth is in ring units, where the ring box is UnitSize wide.
	StrokeWidth float64 `toml:"stroke_width" yaml:"stroke_width"`

	Fill   string `toml:"fill" yaml:"fill"`     // hex; empty takes the theme colour
	Stroke string `toml:"stroke" yaml:"stroke"` // hex; empty takes the theme colour, "none" disables
}

// Defaults applied by DefaultConfig and Normalize.
const (
	DefaultFPS         = 30
	MaxFPS             = 240
	DefaultSupersample = 2
	MaxSupersample     = 8
	DefaultCacheSizeMB = 8
	DefaultRadiusRatio = 0.9
	DefaultPreset      = "pomodoro"
)

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		General: GeneralConfig{
			LogLevel:    "info",
			FPS:         DefaultFPS,
			Supersample: DefaultSupersample,
			CacheSizeMB: DefaultCacheSizeMB,
			Preset:      DefaultPreset,
		},
		Display: DisplayConfig{
			Theme:       "default",
			Protocol:    "auto",
			ShowReadout: true,
			ShowTrack:   true,
		},
	}
}

// DefaultRing returns a single ring with the default interval.
func DefaultRing() RingConfig {
	return RingConfig{
		Name:        "countdown",
		Interval:    Duration{countdown.DefaultInterval},
		RadiusRatio: DefaultRadiusRatio,
		StrokeWidth: 1.5,
	}
}
