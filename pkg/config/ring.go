package config

import (
	"fmt"
	"image/color"
	"strings"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// UnitSize is the side of the square a ring is laid out in. Rings are
// painted at this logical size and scaled to the output pixels.
const UnitSize = 100.0

// WidgetConfig converts r into a widget configuration. Colours left empty
// come from th.
func (r RingConfig) WidgetConfig(th theme.Theme) (countdown.Config, error) {
	fill, err := pickColor(r.Fill, th.RingFill)
	if err != nil {
		return countdown.Config{}, fmt.Errorf("ring %q fill: %w", r.Name, err)
	}
	var stroke color.Color
	if !strings.EqualFold(r.Stroke, "none") {
		c, err := pickColor(r.Stroke, th.RingStroke)
		if err != nil {
			return countdown.Config{}, fmt.Errorf("ring %q stroke: %w", r.Name, err)
		}
		stroke = c
	}
	return countdown.Config{
		FillColor:   fill,
		StrokeColor: stroke,
		StrokeWidth: r.StrokeWidth,
		Radius:      r.RadiusRatio * UnitSize / 2,
		Interval:    r.Interval.Duration,
		BaseTime:    r.BaseTime,
	}, nil
}

func pickColor(v, fallback string) (color.Color, error) {
	if v == "" {
		v = fallback
	}
	c, err := theme.ParseHex(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidColor, err)
	}
	return c, nil
}
