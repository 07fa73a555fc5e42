package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Revolve sweeps a 2D profile around the Y axis.
//
// Envelope points are (distance from axis, height); X is scaled by Radius
// and Y by Length. The profile is expected to run bottom to top on the
// outside of the surface, so a segment's right-hand perpendicular points
// outward. Points with X == 0 sit on the axis and the cells touching them
// collapse to a single triangle.
type Revolve struct {
	Sides       int
	Radius      float32
	Length      float32
	Envelope    []math.Vec2
	FlipNormals bool
}

// NewRevolve returns a revolve surface for the given envelope.
func NewRevolve(sides int, radius, length float32, envelope []math.Vec2) *Revolve {
	return &Revolve{Sides: sides, Radius: radius, Length: length, Envelope: envelope}
}

// NewCap returns a dome cap: a quarter circle swept around Y, closed at the top.
func NewCap(sides, segments int, radius, length float32) *Revolve {
	return &Revolve{Sides: sides, Radius: radius, Length: length, Envelope: DomeEnvelope(segments)}
}

// DomeEnvelope returns a quarter circle from (1, 0) to (0, 1) with the
// given number of segments. Returns nil for segments < 1.
func DomeEnvelope(segments int) []math.Vec2 {
	if segments < 1 {
		return nil
	}
	pts := make([]math.Vec2, segments+1)
	for i := 0; i < segments; i++ {
		a := math32.Pi / 2 * float32(i) / float32(segments)
		pts[i] = math.Vec2{X: math32.Cos(a), Y: math32.Sin(a)}
	}
	// Exact apex so the last row is recognised as touching the axis.
	pts[segments] = math.Vec2{X: 0, Y: 1}
	return pts
}

// Validate implements Primitive.
func (rv *Revolve) Validate() error {
	var v Validator
	v.Check(rv.Sides >= 3, "sides must be >= 3, got %d", rv.Sides)
	v.Check(rv.Radius > 0, "radius must be positive, got %v", rv.Radius)
	v.Check(rv.Length > 0, "length must be positive, got %v", rv.Length)
	v.Check(len(rv.Envelope) >= 2, "envelope needs at least 2 points, got %d", len(rv.Envelope))
	for i, p := range rv.Envelope {
		v.Check(p.X >= 0, "envelope point %d has negative x %v", i, p.X)
		if i > 0 {
			v.Check(p != rv.Envelope[i-1], "envelope point %d repeats point %d", i, i-1)
		}
	}
	return v.Err("revolve")
}

// VertexCount implements Primitive.
func (rv *Revolve) VertexCount() int {
	n := 0
	for i := 0; i+1 < len(rv.Envelope); i++ {
		onAxis0 := rv.Envelope[i].X == 0
		onAxis1 := rv.Envelope[i+1].X == 0
		switch {
		case onAxis0 && onAxis1:
		case onAxis0 || onAxis1:
			n += rv.Sides * 3
		default:
			n += rv.Sides * 6
		}
	}
	return n
}

// Generate implements Primitive.
func (rv *Revolve) Generate(sink Sink) error {
	if err := rv.Validate(); err != nil {
		return err
	}

	profile := make([]math.Vec2, len(rv.Envelope))
	for i, p := range rv.Envelope {
		profile[i] = math.Vec2{X: p.X * rv.Radius, Y: p.Y * rv.Length}
	}

	// v runs along the profile by arc length.
	dist := make([]float32, len(profile))
	for i := 1; i < len(profile); i++ {
		dist[i] = dist[i-1] + profile[i].Distance(profile[i-1])
	}
	total := dist[len(dist)-1]

	for k := 0; k+1 < len(profile); k++ {
		p0, p1 := profile[k], profile[k+1]
		if p0.X == 0 && p1.X == 0 {
			continue
		}
		seg := p1.Sub(p0)
		n2 := math.Vec2{X: seg.Y, Y: -seg.X}.Normalize()

		at := func(theta float32, i int, p math.Vec2, d float32) corner {
			c, s := math32.Cos(theta), math32.Sin(theta)
			return corner{
				pos:    math.Vec3{X: p.X * c, Y: p.Y, Z: p.X * s},
				normal: math.Vec3{X: n2.X * c, Y: n2.Y, Z: n2.X * s},
				uv:     math.Vec2{X: float32(i) / float32(rv.Sides), Y: d / total},
			}
		}

		for i := 0; i < rv.Sides; i++ {
			theta0 := 2 * math32.Pi * float32(i) / float32(rv.Sides)
			theta1 := 2 * math32.Pi * float32(i+1) / float32(rv.Sides)
			a := at(theta0, i, p0, dist[k])
			b := at(theta0, i, p1, dist[k+1])
			c := at(theta1, i+1, p1, dist[k+1])
			d := at(theta1, i+1, p0, dist[k])
			switch {
			case p0.X == 0:
				emitTriangle(sink, rv.FlipNormals, a, b, c)
			case p1.X == 0:
				emitTriangle(sink, rv.FlipNormals, a, c, d)
			default:
				emitQuad(sink, rv.FlipNormals, a, b, c, d)
			}
		}
	}
	return nil
}
