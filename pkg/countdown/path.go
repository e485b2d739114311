package countdown

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// StartAngle is where every wedge begins: 3pi/2 radians, the 12 o'clock
// position when 0 is 3 o'clock in y-down coordinates.
const StartAngle = 3 * math.Pi / 2

// Point is a position in the host's y-down drawing space.
type Point struct {
	X, Y float64
}

// SegmentKind identifies a path segment.
type SegmentKind int

const (
	SegMoveTo SegmentKind = iota
	SegLineTo
	SegArc
	SegClose
)

var segmentNames = [...]string{
	SegMoveTo: "move",
	SegLineTo: "line",
	SegArc:    "arc",
	SegClose:  "close",
}

// String returns the segment kind name.
func (k SegmentKind) String() string {
	if int(k) < len(segmentNames) {
		return segmentNames[k]
	}
	return "unknown"
}

// Segment is one element of a Path. To is the end point for every kind
// except SegClose. Arc segments also carry their circle and angles.
type Segment struct {
	Kind SegmentKind
	To   Point

	Center    Point
	Radius    float64
	Start     float64 // radians
	End       float64 // radians
	Clockwise bool    // increasing angle in y-down space
}

// Sweep returns the signed angle an arc segment travels from Start to End.
// Positive values run clockwise on screen. Equal angles sweep nothing.
func (s Segment) Sweep() float64 {
	if s.Kind != SegArc {
		return 0
	}
	if s.Clockwise {
		return normalizeAngle(s.End - s.Start)
	}
	return -normalizeAngle(s.Start - s.End)
}

// pointAt returns the point on the segment's circle at angle a.
func (s Segment) pointAt(a float64) Point {
	return Point{
		X: s.Center.X + s.Radius*math.Cos(a),
		Y: s.Center.Y + s.Radius*math.Sin(a),
	}
}

// Path is an ordered list of segments.
type Path struct {
	Segments []Segment
}

// Count returns how many segments of kind k the path holds.
func (p Path) Count(k SegmentKind) int {
	n := 0
	for _, s := range p.Segments {
		if s.Kind == k {
			n++
		}
	}
	return n
}

// Closed reports whether the path ends with a close segment.
func (p Path) Closed() bool {
	return len(p.Segments) > 0 && p.Segments[len(p.Segments)-1].Kind == SegClose
}

// BuildWedgePath returns the closed wedge for angleDeg: an arc around center
// from StartAngle to the progress angle, drawn with the non-clockwise flag,
// then a line back to center and a close. Negative radii are treated as 0.
func BuildWedgePath(angleDeg float64, center Point, radius float64) Path {
	if radius < 0 || math.IsNaN(radius) {
		radius = 0
	}
	arc := Segment{
		Kind:      SegArc,
		Center:    center,
		Radius:    radius,
		Start:     StartAngle,
		End:       DegreesToRadians(angleDeg),
		Clockwise: false,
	}
	arc.To = arc.pointAt(arc.End)

	return Path{Segments: []Segment{
		{Kind: SegMoveTo, To: arc.pointAt(arc.Start)},
		arc,
		{Kind: SegLineTo, To: center},
		{Kind: SegClose},
	}}
}

// Flatten approximates the path with straight lines. Arcs are subdivided
// so that no chord strays more than tolerance from the true curve. The
// returned contours each start at a move and are implicitly closed.
func (p Path) Flatten(tolerance float64) [][]Point {
	if tolerance <= 0 {
		tolerance = 0.25
	}

	var (
		contours [][]Point
		cur      []Point
	)
	flush := func() {
		if len(cur) > 0 {
			contours = append(contours, cur)
			cur = nil
		}
	}

	for _, s := range p.Segments {
		switch s.Kind {
		case SegMoveTo:
			flush()
			cur = []Point{s.To}
		case SegLineTo:
			cur = append(cur, s.To)
		case SegArc:
			sweep := s.Sweep()
			n := arcSteps(math.Abs(sweep), s.Radius, tolerance)
			for i := 1; i <= n; i++ {
				cur = append(cur, s.pointAt(s.Start+sweep*float64(i)/float64(n)))
			}
		case SegClose:
			flush()
		}
	}
	flush()
	return contours
}

// SVG returns the path in SVG path-data syntax.
func (p Path) SVG() string {
	var b strings.Builder
	for _, s := range p.Segments {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		switch s.Kind {
		case SegMoveTo:
			fmt.Fprintf(&b, "M %s %s", svgNum(s.To.X), svgNum(s.To.Y))
		case SegLineTo:
			fmt.Fprintf(&b, "L %s %s", svgNum(s.To.X), svgNum(s.To.Y))
		case SegArc:
			sweep := s.Sweep()
			if sweep == 0 || s.Radius == 0 {
				fmt.Fprintf(&b, "L %s %s", svgNum(s.To.X), svgNum(s.To.Y))
				continue
			}
			large, dir := 0, 0
			if math.Abs(sweep) > math.Pi {
				large = 1
			}
			if sweep > 0 {
				dir = 1
			}
			fmt.Fprintf(&b, "A %s %s 0 %d %d %s %s",
				svgNum(s.Radius), svgNum(s.Radius), large, dir, svgNum(s.To.X), svgNum(s.To.Y))
		case SegClose:
			b.WriteString("Z")
		}
	}
	return b.String()
}

// arcSteps returns the number of chords needed for an arc of the given
// sweep and radius.
func arcSteps(sweep, radius, tolerance float64) int {
	if sweep == 0 || radius <= 0 {
		return 1
	}
	step := math.Pi / 8
	if tolerance < radius {
		step = 2 * math.Acos(1-tolerance/radius)
	}
	n := int(math.Ceil(sweep / step))
	if n < 1 {
		n = 1
	}
	return n
}

// angleSnap absorbs rounding between equivalent radian values, such as
// DegreesToRadians(270) and StartAngle.
const angleSnap = 1e-12

// normalizeAngle maps a into [0, 2pi).
func normalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a < angleSnap || 2*math.Pi-a < angleSnap {
		return 0
	}
	return a
}

// svgNum formats v with at most four decimals.
func svgNum(v float64) string {
	v = math.Round(v*1e4) / 1e4
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
