package contour

import (
	"github.com/Faultbox/meshkit/pkg/math"
)

// Element is one drawing command of a Path.
type Element interface {
	isElement()
}

// MoveTo starts the contour.
type MoveTo struct{ Point math.Vec2 }

// LineTo draws a straight segment.
type LineTo struct{ Point math.Vec2 }

// QuadTo draws a quadratic Bezier segment.
type QuadTo struct{ Control, Point math.Vec2 }

// CubicTo draws a cubic Bezier segment.
type CubicTo struct{ Control1, Control2, Point math.Vec2 }

// Close connects the last point back to the start.
type Close struct{}

func (MoveTo) isElement()  {}
func (LineTo) isElement()  {}
func (QuadTo) isElement()  {}
func (CubicTo) isElement() {}
func (Close) isElement()   {}

// Path is a single contour made of line and Bezier segments.
type Path struct {
	Elements []Element
}

// NewPath returns an empty path.
func NewPath() *Path {
	return &Path{}
}

// MoveTo starts the contour at (x, y).
func (p *Path) MoveTo(x, y float32) *Path {
	p.Elements = append(p.Elements, MoveTo{math.Vec2{X: x, Y: y}})
	return p
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float32) *Path {
	p.Elements = append(p.Elements, LineTo{math.Vec2{X: x, Y: y}})
	return p
}

// QuadTo adds a quadratic Bezier segment.
func (p *Path) QuadTo(cx, cy, x, y float32) *Path {
	p.Elements = append(p.Elements, QuadTo{math.Vec2{X: cx, Y: cy}, math.Vec2{X: x, Y: y}})
	return p
}

// CubicTo adds a cubic Bezier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float32) *Path {
	p.Elements = append(p.Elements, CubicTo{
		math.Vec2{X: c1x, Y: c1y},
		math.Vec2{X: c2x, Y: c2y},
		math.Vec2{X: x, Y: y},
	})
	return p
}

// Close closes the contour.
func (p *Path) Close() *Path {
	p.Elements = append(p.Elements, Close{})
	return p
}

// IsClosed implements Curve.
func (p *Path) IsClosed() bool {
	if len(p.Elements) == 0 {
		return false
	}
	_, ok := p.Elements[len(p.Elements)-1].(Close)
	return ok
}

// Linearize implements Curve by recursive subdivision of each Bezier
// segment until its control points lie within tolerance of the chord.
func (p *Path) Linearize(tolerance float32) []math.Vec2 {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var points []math.Vec2
	var current math.Vec2
	for _, elem := range p.Elements {
		switch e := elem.(type) {
		case MoveTo:
			current = e.Point
			points = append(points, current)
		case LineTo:
			current = e.Point
			points = append(points, current)
		case QuadTo:
			flattenQuad(current, e.Control, e.Point, tolerance, 0, &points)
			current = e.Point
		case CubicTo:
			flattenCubic(current, e.Control1, e.Control2, e.Point, tolerance, 0, &points)
			current = e.Point
		}
	}

	// The closing edge is implied; drop an explicit return to the start.
	if p.IsClosed() && len(points) > 1 && points[len(points)-1].Distance(points[0]) <= tolerance*1e-3 {
		points = points[:len(points)-1]
	}
	return points
}

// Sample implements Curve.
func (p *Path) Sample(n int) []math.Vec2 {
	return Resample(p.Linearize(DefaultTolerance/10), p.IsClosed(), n)
}

func flattenQuad(p0, p1, p2 math.Vec2, tolerance float32, depth int, points *[]math.Vec2) {
	if depth >= maxDepth || distanceToSegment(p1, p0, p2) < tolerance {
		*points = append(*points, p2)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := q0.Lerp(q1, 0.5)

	flattenQuad(p0, q0, q2, tolerance, depth+1, points)
	flattenQuad(q2, q1, p2, tolerance, depth+1, points)
}

func flattenCubic(p0, p1, p2, p3 math.Vec2, tolerance float32, depth int, points *[]math.Vec2) {
	d := max(distanceToSegment(p1, p0, p3), distanceToSegment(p2, p0, p3))
	if depth >= maxDepth || d < tolerance {
		*points = append(*points, p3)
		return
	}

	// de Casteljau split at t = 0.5.
	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubic(p0, q0, r0, s, tolerance, depth+1, points)
	flattenCubic(s, r1, q2, p3, tolerance, depth+1, points)
}

// distanceToSegment returns the distance from p to the segment a-b.
func distanceToSegment(p, a, b math.Vec2) float32 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-12 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / l2
	t = min(max(t, 0), 1)
	return p.Distance(a.Add(ab.Scale(t)))
}
