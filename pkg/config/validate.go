package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/terminal"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// Validation errors. Interval failures wrap countdown.ErrInvalidInterval.
var (
	ErrInvalidFPS         = errors.New("fps out of range")
	ErrInvalidSupersample = errors.New("supersample out of range")
	ErrUnknownPreset      = errors.New("unknown preset")
	ErrInvalidColor       = errors.New("invalid colour")
	ErrInvalidLogLevel    = errors.New("invalid log level")
)

// Normalize fills unset values with defaults and clamps out-of-range
// geometry, logging each clamp at warn level. An empty ring list is filled
// from the preset, then IntervalOverride is applied to every ring. A nil
// logger discards warnings.
func (c *Config) Normalize(logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if c.General.FPS == 0 {
		c.General.FPS = DefaultFPS
	}
	if c.General.Supersample == 0 {
		c.General.Supersample = DefaultSupersample
	}
	if c.General.CacheSizeMB <= 0 {
		c.General.CacheSizeMB = DefaultCacheSizeMB
	}
	if c.Display.Theme == "" {
		c.Display.Theme = "default"
	}

	if len(c.Rings) == 0 {
		name := c.General.Preset
		if name == "" {
			name = DefaultPreset
		}
		rings, ok := Preset(name)
		if !ok {
			return fmt.Errorf("%w %q (known: %s)", ErrUnknownPreset, name, strings.Join(PresetNames(), ", "))
		}
		c.Rings = rings
	}
	if c.IntervalOverride != 0 {
		for i := range c.Rings {
			c.Rings[i].Interval.Duration = c.IntervalOverride
		}
	}

	for i := range c.Rings {
		r := &c.Rings[i]
		if r.Name == "" {
			r.Name = fmt.Sprintf("ring %d", i+1)
		}
		if r.Interval.Duration == 0 {
			r.Interval.Duration = countdown.DefaultInterval
		}
		switch {
		case r.RadiusRatio == 0:
			r.RadiusRatio = DefaultRadiusRatio
		case r.RadiusRatio < 0:
			logger.Warn("negative radius clamped to 0", "ring", r.Name, "radius_ratio", r.RadiusRatio)
			r.RadiusRatio = 0
		case r.RadiusRatio > 1:
			logger.Warn("radius clamped to box", "ring", r.Name, "radius_ratio", r.RadiusRatio)
			r.RadiusRatio = 1
		}
		if r.StrokeWidth < 0 {
			logger.Warn("negative stroke width clamped to 0", "ring", r.Name, "stroke_width", r.StrokeWidth)
			r.StrokeWidth = 0
		}
	}
	return nil
}

// Validate reports the first invalid setting. Call Normalize first; zero
// intervals left unset are rejected here.
func (c *Config) Validate() error {
	if _, err := ParseLogLevel(c.General.LogLevel); err != nil {
		return err
	}
	if c.General.FPS < 1 || c.General.FPS > MaxFPS {
		return fmt.Errorf("general.fps: %w: %d not in [1, %d]", ErrInvalidFPS, c.General.FPS, MaxFPS)
	}
	if c.General.Supersample < 1 || c.General.Supersample > MaxSupersample {
		return fmt.Errorf("general.supersample: %w: %d not in [1, %d]", ErrInvalidSupersample, c.General.Supersample, MaxSupersample)
	}
	if _, err := terminal.ParseProtocol(c.Display.Protocol); err != nil {
		return fmt.Errorf("display.protocol: %w", err)
	}
	for i, r := range c.Rings {
		if r.Interval.Duration <= 0 {
			return fmt.Errorf("rings[%d] %q: %w: got %v", i, r.Name, countdown.ErrInvalidInterval, r.Interval.Duration)
		}
		if err := validColor(r.Fill, false); err != nil {
			return fmt.Errorf("rings[%d] %q fill: %w", i, r.Name, err)
		}
		if err := validColor(r.Stroke, true); err != nil {
			return fmt.Errorf("rings[%d] %q stroke: %w", i, r.Name, err)
		}
	}
	return nil
}

// ParseLogLevel maps a config level name to a slog level. Empty means info.
func ParseLogLevel(s string) (slog.Level, error) {
	if s == "" {
		return slog.LevelInfo, nil
	}
	var l slog.Level
	if err := l.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("general.log_level: %w %q", ErrInvalidLogLevel, s)
	}
	return l, nil
}

func validColor(s string, allowNone bool) error {
	if s == "" || (allowNone && strings.EqualFold(s, "none")) {
		return nil
	}
	if _, err := theme.ParseHex(s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return nil
}
