package contour

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Ellipse is a closed axis-aligned ellipse, traced counter-clockwise from +X.
type Ellipse struct {
	Center  math.Vec2
	RadiusX float32
	RadiusY float32
}

// NewCircle returns a circle centred on the origin.
func NewCircle(radius float32) *Ellipse {
	return &Ellipse{RadiusX: radius, RadiusY: radius}
}

// NewEllipse returns an ellipse centred on the origin.
func NewEllipse(rx, ry float32) *Ellipse {
	return &Ellipse{RadiusX: rx, RadiusY: ry}
}

// Linearize implements Curve. The segment count keeps the sagitta of each
// chord on the larger radius within tolerance.
func (e *Ellipse) Linearize(tolerance float32) []math.Vec2 {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	r := max(math32.Abs(e.RadiusX), math32.Abs(e.RadiusY))
	n := 3
	if r > tolerance {
		n = max(n, int(math32.Ceil(math32.Pi/math32.Acos(1-tolerance/r))))
	}
	return e.points(n)
}

// Sample implements Curve. Points are evenly spaced in angle, which is
// evenly spaced by arc length for circles.
func (e *Ellipse) Sample(n int) []math.Vec2 {
	if n < 1 {
		return nil
	}
	return e.points(n)
}

// IsClosed implements Curve.
func (e *Ellipse) IsClosed() bool {
	return true
}

func (e *Ellipse) points(n int) []math.Vec2 {
	pts := make([]math.Vec2, n)
	for i := range pts {
		a := 2 * math32.Pi * float32(i) / float32(n)
		pts[i] = math.Vec2{
			X: e.Center.X + e.RadiusX*math32.Cos(a),
			Y: e.Center.Y + e.RadiusY*math32.Sin(a),
		}
	}
	return pts
}

// NewRect returns a closed counter-clockwise rectangle centred on the origin.
func NewRect(width, height float32) *Polyline {
	hw, hh := width/2, height/2
	return NewPolyline(
		math.Vec2{X: -hw, Y: -hh},
		math.Vec2{X: hw, Y: -hh},
		math.Vec2{X: hw, Y: hh},
		math.Vec2{X: -hw, Y: hh},
	)
}

// NewRegularPolygon returns a closed counter-clockwise polygon with the
// given number of sides and circumradius, its first corner on +X.
func NewRegularPolygon(sides int, radius float32) *Polyline {
	if sides < 3 {
		return &Polyline{Closed: true}
	}
	return NewPolyline(NewCircle(radius).points(sides)...)
}

// NewStar returns a closed star alternating between outer and inner radius.
func NewStar(points int, outer, inner float32) *Polyline {
	if points < 2 {
		return &Polyline{Closed: true}
	}
	pts := make([]math.Vec2, 2*points)
	for i := range pts {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := math32.Pi * float32(i) / float32(points)
		pts[i] = math.Vec2{X: r * math32.Cos(a), Y: r * math32.Sin(a)}
	}
	return NewPolyline(pts...)
}
