package countdown

import (
	"math"
	"strings"
	"testing"
)

func TestBuildWedgePathStructure(t *testing.T) {
	for _, angle := range []float64{0, 1, 90, 180, 269.9, 270, 300, 359.999} {
		p := BuildWedgePath(angle, Point{X: 50, Y: 50}, 40)

		if got := p.Count(SegArc); got != 1 {
			t.Errorf("angle %v: expected 1 arc, got %d", angle, got)
		}
		if got := p.Count(SegLineTo); got != 1 {
			t.Errorf("angle %v: expected 1 line, got %d", angle, got)
		}
		if got := p.Count(SegClose); got != 1 {
			t.Errorf("angle %v: expected 1 close, got %d", angle, got)
		}
		if !p.Closed() {
			t.Errorf("angle %v: expected closed path", angle)
		}
		if p.Count(SegMoveTo) != 1 || p.Segments[0].Kind != SegMoveTo {
			t.Errorf("angle %v: expected a single leading move, got %v", angle, p.Segments)
		}
	}
}

func TestBuildWedgePathGeometry(t *testing.T) {
	center := Point{X: 100, Y: 80}
	p := BuildWedgePath(180, center, 50)

	start := p.Segments[0].To
	if !approxEqual(start.X, 100, 1e-9) || !approxEqual(start.Y, 30, 1e-9) {
		t.Errorf("expected arc to start at 12 o'clock (100,30), got %+v", start)
	}

	arc := p.Segments[1]
	if arc.Start != StartAngle {
		t.Errorf("expected start angle %v, got %v", StartAngle, arc.Start)
	}
	if !approxEqual(arc.End, math.Pi, 1e-12) {
		t.Errorf("expected end angle pi, got %v", arc.End)
	}
	if arc.Clockwise {
		t.Error("expected the non-clockwise arc direction")
	}
	if !approxEqual(arc.To.X, 50, 1e-9) || !approxEqual(arc.To.Y, 80, 1e-9) {
		t.Errorf("expected arc to end at 9 o'clock (50,80), got %+v", arc.To)
	}

	line := p.Segments[2]
	if line.To != center {
		t.Errorf("expected line back to centre %+v, got %+v", center, line.To)
	}
}

func TestArcSweepDirection(t *testing.T) {
	tests := []struct {
		angle float64
		want  float64
	}{
		{270, 0},
		{180, -math.Pi / 2},
		{90, -math.Pi},
		{0, -3 * math.Pi / 2},
		{315, -7 * math.Pi / 4},
	}
	for _, tt := range tests {
		arc := BuildWedgePath(tt.angle, Point{}, 10).Segments[1]
		if got := arc.Sweep(); !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("angle %v: expected sweep %v, got %v", tt.angle, tt.want, got)
		}
	}
}

func TestBuildWedgePathNegativeRadiusClamped(t *testing.T) {
	center := Point{X: 10, Y: 10}
	p := BuildWedgePath(90, center, -5)
	if p.Segments[1].Radius != 0 {
		t.Errorf("expected radius 0, got %v", p.Segments[1].Radius)
	}
	for _, s := range p.Segments[:3] {
		if s.To != center {
			t.Errorf("expected degenerate wedge at centre, got %+v", s.To)
		}
	}
}

func TestFlattenStaysOnCircle(t *testing.T) {
	center := Point{X: 64, Y: 64}
	radius := 60.0
	contours := BuildWedgePath(45, center, radius).Flatten(0.1)
	if len(contours) != 1 {
		t.Fatalf("expected 1 contour, got %d", len(contours))
	}
	pts := contours[0]
	if len(pts) < 10 {
		t.Fatalf("expected a finely subdivided arc, got %d points", len(pts))
	}

	last := pts[len(pts)-1]
	if last != center {
		t.Errorf("expected contour to end at centre, got %+v", last)
	}
	for i, pt := range pts[:len(pts)-1] {
		d := math.Hypot(pt.X-center.X, pt.Y-center.Y)
		if !approxEqual(d, radius, 1e-6) {
			t.Errorf("point %d: expected distance %v from centre, got %v", i, radius, d)
		}
	}
}

func TestSVGPathData(t *testing.T) {
	d := BuildWedgePath(180, Point{X: 50, Y: 50}, 40).SVG()
	want := "M 50 10 A 40 40 0 0 0 10 50 L 50 50 Z"
	if d != want {
		t.Errorf("expected %q, got %q", want, d)
	}

	large := BuildWedgePath(0, Point{X: 50, Y: 50}, 40).SVG()
	if !strings.Contains(large, "A 40 40 0 1 0 90 50") {
		t.Errorf("expected large-arc flag for a 270 degree sweep, got %q", large)
	}

	empty := BuildWedgePath(270, Point{X: 50, Y: 50}, 40).SVG()
	if strings.Contains(empty, "A ") {
		t.Errorf("expected no arc command for a zero sweep, got %q", empty)
	}
}

func TestSegmentKindString(t *testing.T) {
	if SegArc.String() != "arc" {
		t.Errorf("expected \"arc\", got %q", SegArc.String())
	}
	if SegmentKind(42).String() != "unknown" {
		t.Errorf("expected \"unknown\", got %q", SegmentKind(42).String())
	}
}
