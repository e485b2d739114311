package raster

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"

	"github.com/disintegration/imaging"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
	"gitlab.com/tinyland/lab/countdown-ring/pkg/theme"
)

// SavePNG writes img to path. The format follows the file extension.
func SavePNG(path string, img image.Image) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return imaging.Encode(w, img, imaging.PNG)
}

// SVG returns a standalone SVG document drawing shape in a width x height
// viewport.
func SVG(shape countdown.Shape, width, height int, opts Options) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %s %s">`,
		width, height, svgNum(shape.Width, width), svgNum(shape.Height, height))
	b.WriteByte('\n')

	if opts.Background != nil {
		fmt.Fprintf(&b, `  <rect width="100%%" height="100%%" fill="%s"%s/>`, theme.Hex(opts.Background), svgOpacity("fill", opts.Background))
		b.WriteByte('\n')
	}
	if opts.Track != nil {
		if arc, ok := arcOf(shape.Path); ok && arc.Radius > 0 {
			fmt.Fprintf(&b, `  <circle cx="%g" cy="%g" r="%g" fill="%s"%s/>`,
				arc.Center.X, arc.Center.Y, arc.Radius, theme.Hex(opts.Track), svgOpacity("fill", opts.Track))
			b.WriteByte('\n')
		}
	}

	fill, stroke := "none", "none"
	var extra string
	if shape.Fill != nil {
		fill = theme.Hex(shape.Fill)
		extra += svgOpacity("fill", shape.Fill)
	}
	if shape.Stroke != nil && shape.StrokeWidth > 0 {
		stroke = theme.Hex(shape.Stroke)
		extra += fmt.Sprintf(` stroke-width="%g" stroke-linejoin="round"`, shape.StrokeWidth)
		extra += svgOpacity("stroke", shape.Stroke)
	}
	fmt.Fprintf(&b, `  <path d="%s" fill="%s" stroke="%s"%s/>`, shape.Path.SVG(), fill, stroke, extra)
	b.WriteString("\n</svg>\n")
	return b.String()
}

// svgNum returns the shape dimension v, or fallback when the shape was never
// painted.
func svgNum(v float64, fallback int) string {
	if v <= 0 {
		return fmt.Sprintf("%d", fallback)
	}
	return fmt.Sprintf("%g", v)
}

// svgOpacity returns an opacity attribute for translucent colours.
func svgOpacity(attr string, c color.Color) string {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	if n.A == 0xff {
		return ""
	}
	return fmt.Sprintf(` %s-opacity="%.3g"`, attr, float64(n.A)/255)
}
