// Package raster turns countdown shapes into pixels. Fills are scan
// converted with golang.org/x/image/vector; strokes are expanded into filled
// outlines first, so both go through the same anti-aliased rasterizer.
package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
)

// DefaultTolerance is the maximum distance, in output pixels, between a
// flattened arc and the true circle.
const DefaultTolerance = 0.2

// circleSegments is the polygon resolution used for round stroke joins.
const circleSegments = 16

// Options controls how a shape is rasterized.
type Options struct {
	Background  color.Color // nil leaves the image transparent
	Track       color.Color // full disc under the wedge; nil disables
	Supersample int         // render at N times the size, then downscale
	Tolerance   float64
}

// Rasterize draws shape into a new width x height image. The shape's
// coordinates are scaled from its paint bounds to the image size.
func Rasterize(shape countdown.Shape, width, height int, opts Options) *image.NRGBA {
	if width <= 0 || height <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}
	ss := opts.Supersample
	if ss < 1 {
		ss = 1
	}
	tol := opts.Tolerance
	if tol <= 0 {
		tol = DefaultTolerance
	}

	w, h := width*ss, height*ss
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	if opts.Background != nil {
		draw.Draw(dst, dst.Bounds(), image.NewUniform(opts.Background), image.Point{}, draw.Src)
	}

	sx, sy := float64(ss), float64(ss)
	if shape.Width > 0 && shape.Height > 0 {
		sx = float64(w) / shape.Width
		sy = float64(h) / shape.Height
	}
	scale := func(p countdown.Point) countdown.Point {
		return countdown.Point{X: p.X * sx, Y: p.Y * sy}
	}

	// Tolerance is given in output pixels; flatten in shape space.
	flatTol := tol / math.Max(sx/float64(ss), sy/float64(ss))
	contours := shape.Path.Flatten(flatTol)
	for i, c := range contours {
		for j, p := range c {
			contours[i][j] = scale(p)
		}
	}

	if opts.Track != nil {
		if arc, ok := arcOf(shape.Path); ok && arc.Radius > 0 {
			c := scale(arc.Center)
			disc := ellipse(c, arc.Radius*sx, arc.Radius*sy, arcSegments(arc.Radius*math.Max(sx, sy), tol*float64(ss)))
			fillPolygons(dst, [][]countdown.Point{disc}, opts.Track)
		}
	}

	if shape.Fill != nil {
		fillPolygons(dst, contours, shape.Fill)
	}

	if shape.Stroke != nil && shape.StrokeWidth > 0 {
		hw := shape.StrokeWidth * math.Max(sx, sy) / 2
		fillPolygons(dst, StrokeOutline(contours, hw), shape.Stroke)
	}

	if ss == 1 {
		return dst
	}
	return imaging.Resize(dst, width, height, imaging.Lanczos)
}

// StrokeOutline expands closed polylines into filled polygons covering a
// stroke of half-width hw: one quad per edge and a round join per vertex.
// Every polygon is wound the same way so overlaps do not cancel.
func StrokeOutline(contours [][]countdown.Point, hw float64) [][]countdown.Point {
	if hw <= 0 {
		return nil
	}
	var out [][]countdown.Point
	for _, c := range contours {
		n := len(c)
		for i := 0; i < n; i++ {
			p, q := c[i], c[(i+1)%n]
			dx, dy := q.X-p.X, q.Y-p.Y
			l := math.Hypot(dx, dy)
			if l == 0 {
				continue
			}
			nx, ny := -dy/l*hw, dx/l*hw
			quad := []countdown.Point{
				{X: p.X + nx, Y: p.Y + ny},
				{X: q.X + nx, Y: q.Y + ny},
				{X: q.X - nx, Y: q.Y - ny},
				{X: p.X - nx, Y: p.Y - ny},
			}
			out = append(out, orient(quad))
		}
		for _, p := range c {
			out = append(out, ellipse(p, hw, hw, circleSegments))
		}
	}
	return out
}

// fillPolygons rasterizes polys with the non-zero rule and composites them
// over dst in colour c.
func fillPolygons(dst *image.NRGBA, polys [][]countdown.Point, c color.Color) {
	b := dst.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	drawn := false
	for _, poly := range polys {
		if len(poly) < 3 {
			continue
		}
		z.MoveTo(float32(poly[0].X), float32(poly[0].Y))
		for _, p := range poly[1:] {
			z.LineTo(float32(p.X), float32(p.Y))
		}
		z.ClosePath()
		drawn = true
	}
	if !drawn {
		return
	}
	z.Draw(dst, b, image.NewUniform(c), image.Point{})
}

// ellipse returns an n-gon approximating an axis-aligned ellipse, wound
// positively.
func ellipse(c countdown.Point, rx, ry float64, n int) []countdown.Point {
	if n < 3 {
		n = 3
	}
	pts := make([]countdown.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = countdown.Point{X: c.X + rx*math.Cos(a), Y: c.Y + ry*math.Sin(a)}
	}
	return pts
}

// arcSegments returns a polygon resolution for a full circle of radius r
// within tolerance tol.
func arcSegments(r, tol float64) int {
	if r <= tol {
		return 8
	}
	n := int(math.Ceil(2 * math.Pi / (2 * math.Acos(1-tol/r))))
	if n < 8 {
		n = 8
	}
	return n
}

// orient reverses poly if its signed area is negative.
func orient(poly []countdown.Point) []countdown.Point {
	if signedArea(poly) >= 0 {
		return poly
	}
	for i, j := 0, len(poly)-1; i < j; i, j = i+1, j-1 {
		poly[i], poly[j] = poly[j], poly[i]
	}
	return poly
}

func signedArea(poly []countdown.Point) float64 {
	var a float64
	for i := range poly {
		p, q := poly[i], poly[(i+1)%len(poly)]
		a += p.X*q.Y - q.X*p.Y
	}
	return a / 2
}

// arcOf returns the first arc segment of p.
func arcOf(p countdown.Path) (countdown.Segment, bool) {
	for _, s := range p.Segments {
		if s.Kind == countdown.SegArc {
			return s, true
		}
	}
	return countdown.Segment{}, false
}
