package raster

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tinyland/lab/countdown-ring/pkg/countdown"
)

var (
	green = color.NRGBA{R: 0x4e, G: 0xc9, B: 0x70, A: 0xff}
	white = color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	gray  = color.NRGBA{R: 0x2a, G: 0x2a, B: 0x2a, A: 0xff}
)

func wedge(angle float64, size int) countdown.Shape {
	s := float64(size)
	return countdown.Shape{
		Angle:  angle,
		Path:   countdown.BuildWedgePath(angle, countdown.Point{X: s / 2, Y: s / 2}, s*0.45),
		Fill:   green,
		Width:  s,
		Height: s,
	}
}

func alphaAt(img *image.NRGBA, x, y int) uint8 {
	return img.NRGBAAt(x, y).A
}

func TestRasterizeHalfCycleFillsTopLeftQuadrant(t *testing.T) {
	img := Rasterize(wedge(180, 64), 64, 64, Options{})

	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatalf("expected 64x64 image, got %v", img.Bounds())
	}
	if a := alphaAt(img, 20, 20); a != 0xff {
		t.Errorf("expected top-left quadrant filled, alpha %d", a)
	}
	for _, p := range []image.Point{{44, 20}, {20, 44}, {44, 44}} {
		if a := alphaAt(img, p.X, p.Y); a != 0 {
			t.Errorf("expected %v empty, alpha %d", p, a)
		}
	}
}

func TestRasterizeStartOfCycleLeavesTopRightEmpty(t *testing.T) {
	img := Rasterize(wedge(0, 64), 64, 64, Options{})

	if a := alphaAt(img, 44, 20); a != 0 {
		t.Errorf("expected top-right quadrant empty, alpha %d", a)
	}
	for _, p := range []image.Point{{20, 20}, {20, 44}, {44, 44}} {
		if a := alphaAt(img, p.X, p.Y); a != 0xff {
			t.Errorf("expected %v filled, alpha %d", p, a)
		}
	}
	if c := img.NRGBAAt(20, 44); c != green {
		t.Errorf("expected fill colour %v, got %v", green, c)
	}
}

func TestRasterizeOutsideCircleEmpty(t *testing.T) {
	img := Rasterize(wedge(0, 64), 64, 64, Options{})
	for _, p := range []image.Point{{1, 1}, {62, 62}, {1, 62}} {
		if a := alphaAt(img, p.X, p.Y); a != 0 {
			t.Errorf("expected corner %v empty, alpha %d", p, a)
		}
	}
}

func TestRasterizeBackgroundAndTrack(t *testing.T) {
	black := color.NRGBA{A: 0xff}
	img := Rasterize(wedge(180, 64), 64, 64, Options{Background: black, Track: gray})

	if c := img.NRGBAAt(1, 1); c != black {
		t.Errorf("expected background at corner, got %v", c)
	}
	if c := img.NRGBAAt(44, 44); c != gray {
		t.Errorf("expected track colour inside the circle, got %v", c)
	}
	if c := img.NRGBAAt(20, 20); c != green {
		t.Errorf("expected wedge colour over the track, got %v", c)
	}
}

func TestRasterizeStrokeOnly(t *testing.T) {
	s := wedge(180, 64)
	s.Fill = nil
	s.Stroke = white
	s.StrokeWidth = 2
	img := Rasterize(s, 64, 64, Options{})

	if a := alphaAt(img, 20, 20); a != 0 {
		t.Errorf("expected unfilled interior, alpha %d", a)
	}
	// The radius from the centre to 12 o'clock is stroked.
	if a := alphaAt(img, 32, 20); a == 0 {
		t.Error("expected the vertical edge to be stroked")
	}
}

func TestRasterizeSupersampleKeepsSize(t *testing.T) {
	img := Rasterize(wedge(90, 32), 32, 32, Options{Supersample: 3})
	if img.Bounds().Dx() != 32 || img.Bounds().Dy() != 32 {
		t.Fatalf("expected 32x32 after downscale, got %v", img.Bounds())
	}
	if a := alphaAt(img, 10, 10); a < 0xf0 {
		t.Errorf("expected solid interior after downscale, alpha %d", a)
	}
}

func TestRasterizeScalesToImageSize(t *testing.T) {
	// Shape built for 32x32, drawn at 64x64.
	img := Rasterize(wedge(180, 32), 64, 64, Options{})
	if a := alphaAt(img, 20, 20); a != 0xff {
		t.Errorf("expected scaled top-left quadrant filled, alpha %d", a)
	}
	if a := alphaAt(img, 44, 44); a != 0 {
		t.Errorf("expected scaled bottom-right empty, alpha %d", a)
	}
}

func TestRasterizeZeroSize(t *testing.T) {
	img := Rasterize(wedge(90, 32), 0, 10, Options{})
	if !img.Bounds().Empty() {
		t.Errorf("expected empty image, got %v", img.Bounds())
	}
}

func TestStrokeOutlineWinding(t *testing.T) {
	square := [][]countdown.Point{{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10}}}
	polys := StrokeOutline(square, 1)
	if len(polys) != 8 {
		t.Fatalf("expected 4 edges + 4 joins, got %d polygons", len(polys))
	}
	for i, p := range polys {
		if signedArea(p) <= 0 {
			t.Errorf("polygon %d: expected positive winding, got area %v", i, signedArea(p))
		}
	}
	if StrokeOutline(square, 0) != nil {
		t.Error("expected no outline for zero width")
	}
}

func TestSVGDocument(t *testing.T) {
	s := wedge(180, 100)
	s.Stroke = white
	s.StrokeWidth = 1.5
	doc := SVG(s, 100, 100, Options{Background: color.NRGBA{A: 0xff}, Track: gray})

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="100" height="100" viewBox="0 0 100 100">`,
		`<rect width="100%" height="100%" fill="#000000"/>`,
		`<circle cx="50" cy="50" r="45" fill="#2a2a2a"/>`,
		`fill="#4ec970" stroke="#ffffff" stroke-width="1.5"`,
		`d="M 50 5 A 45 45 0 0 0 5 50 L 50 50 Z"`,
		"</svg>",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("expected SVG to contain %q, got:\n%s", want, doc)
		}
	}
}

func TestSVGTranslucentFill(t *testing.T) {
	s := wedge(90, 40)
	s.Fill = color.NRGBA{R: 0xff, A: 0x80}
	doc := SVG(s, 40, 40, Options{})
	if !strings.Contains(doc, `fill-opacity="0.502"`) {
		t.Errorf("expected fill-opacity attribute, got:\n%s", doc)
	}
}

func TestPNGExport(t *testing.T) {
	img := Rasterize(wedge(90, 16), 16, 16, Options{})

	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Bounds().Dx() != 16 {
		t.Errorf("expected width 16, got %d", decoded.Bounds().Dx())
	}

	path := filepath.Join(t.TempDir(), "ring.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}
	if fi, err := os.Stat(path); err != nil || fi.Size() == 0 {
		t.Errorf("expected non-empty PNG at %s, err=%v", path, err)
	}
}
