// Package contour provides the 2D cross-sections and 3D paths consumed by
// extrusion: polylines, Bezier paths, basic shapes and their linearization.
package contour

import (
	"github.com/Faultbox/meshkit/pkg/math"
)

// DefaultTolerance is the linearization distance used when a caller passes
// a non-positive tolerance.
const DefaultTolerance float32 = 0.01

// maxDepth bounds recursive curve subdivision.
const maxDepth = 16

// Curve is a 2D contour that can be reduced to straight segments.
//
// Closed curves return their points without repeating the first one; the
// wraparound is implied by IsClosed.
type Curve interface {
	// Linearize approximates the curve so no point of it lies further than
	// tolerance from the returned polyline.
	Linearize(tolerance float32) []math.Vec2

	// Sample returns n points spaced evenly by arc length.
	Sample(n int) []math.Vec2

	IsClosed() bool
}

// Polyline is a curve that is already linear.
type Polyline struct {
	Points []math.Vec2
	Closed bool
}

// NewPolyline returns a closed polyline through pts.
func NewPolyline(pts ...math.Vec2) *Polyline {
	return &Polyline{Points: pts, Closed: true}
}

// Linearize implements Curve. The tolerance is ignored.
func (p *Polyline) Linearize(float32) []math.Vec2 {
	out := make([]math.Vec2, len(p.Points))
	copy(out, p.Points)
	return out
}

// Sample implements Curve.
func (p *Polyline) Sample(n int) []math.Vec2 {
	return Resample(p.Points, p.Closed, n)
}

// IsClosed implements Curve.
func (p *Polyline) IsClosed() bool {
	return p.Closed
}

// Shape is an outer contour with optional holes.
type Shape struct {
	Outer Curve
	Holes []Curve
}

// Linearize linearizes every contour of the shape.
func (s Shape) Linearize(tolerance float32) (outer []math.Vec2, holes [][]math.Vec2) {
	if s.Outer != nil {
		outer = s.Outer.Linearize(tolerance)
	}
	for _, h := range s.Holes {
		holes = append(holes, h.Linearize(tolerance))
	}
	return outer, holes
}

// SignedArea returns the shoelace area of a closed ring; positive for
// counter-clockwise rings.
func SignedArea(pts []math.Vec2) float32 {
	var sum float32
	for i := range pts {
		j := (i + 1) % len(pts)
		sum += pts[i].Cross(pts[j])
	}
	return sum / 2
}

// Reverse reverses pts in place.
func Reverse(pts []math.Vec2) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

// Orient reverses pts in place when its winding differs from the requested
// one. Rings with zero area are left as they are.
func Orient(pts []math.Vec2, ccw bool) {
	a := SignedArea(pts)
	if (ccw && a < 0) || (!ccw && a > 0) {
		Reverse(pts)
	}
}

// Length returns the arc length of pts, including the closing edge when closed.
func Length(pts []math.Vec2, closed bool) float32 {
	var l float32
	for i := 1; i < len(pts); i++ {
		l += pts[i].Distance(pts[i-1])
	}
	if closed && len(pts) > 1 {
		l += pts[0].Distance(pts[len(pts)-1])
	}
	return l
}

// Resample returns n points spaced evenly by arc length along pts. Closed
// input is walked around its closing edge and the first point is not
// repeated. Returns nil when n < 1 or pts is empty.
func Resample(pts []math.Vec2, closed bool, n int) []math.Vec2 {
	if n < 1 || len(pts) == 0 {
		return nil
	}
	ring := pts
	if closed {
		ring = append(append(make([]math.Vec2, 0, len(pts)+1), pts...), pts[0])
	}
	total := Length(ring, false)
	out := make([]math.Vec2, 0, n)
	if total == 0 {
		for len(out) < n {
			out = append(out, pts[0])
		}
		return out
	}

	step := total / float32(n)
	if !closed && n > 1 {
		step = total / float32(n-1)
	}

	seg := 0
	var walked float32
	for k := 0; k < n; k++ {
		target := step * float32(k)
		for seg < len(ring)-2 && walked+ring[seg].Distance(ring[seg+1]) < target {
			walked += ring[seg].Distance(ring[seg+1])
			seg++
		}
		l := ring[seg].Distance(ring[seg+1])
		t := float32(0)
		if l > 0 {
			t = (target - walked) / l
		}
		t = min(max(t, 0), 1)
		out = append(out, ring[seg].Lerp(ring[seg+1], t))
	}
	return out
}

// Morph returns a cross-section function that blends from one curve to
// another. Both curves are resampled to n points so every step has the same
// layout.
func Morph(from, to Curve, n int) func(t float32) Shape {
	a := from.Sample(n)
	b := to.Sample(n)
	closed := from.IsClosed() && to.IsClosed()
	return func(t float32) Shape {
		pts := make([]math.Vec2, len(a))
		for i := range a {
			pts[i] = a[i].Lerp(b[i], t)
		}
		return Shape{Outer: &Polyline{Points: pts, Closed: closed}}
	}
}
