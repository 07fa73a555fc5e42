package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Sphere is a UV sphere (or the upper hemisphere) centred on the origin with
// its poles on the Y axis.
//
// Sides divides the azimuth theta in [-π, π]; Segments divides the polar
// angle phi, measured from +Y, over [0, π] (or [0, π/2] for a hemisphere).
// Rows touching a pole emit one triangle per cell instead of two.
// UV is (theta/2π + 0.5, 1 - phi/π).
type Sphere struct {
	Sides       int
	Segments    int
	Radius      float32
	Hemisphere  bool
	FlipNormals bool
}

// NewSphere returns a full sphere.
func NewSphere(sides, segments int, radius float32) *Sphere {
	return &Sphere{Sides: sides, Segments: segments, Radius: radius}
}

// NewHemisphere returns the upper (+Y) half of a sphere, open at the equator.
func NewHemisphere(sides, segments int, radius float32) *Sphere {
	return &Sphere{Sides: sides, Segments: segments, Radius: radius, Hemisphere: true}
}

// Validate implements Primitive.
func (sp *Sphere) Validate() error {
	var v Validator
	v.Check(sp.Sides >= 3, "sides must be >= 3, got %d", sp.Sides)
	if sp.Hemisphere {
		v.Check(sp.Segments >= 1, "segments must be >= 1, got %d", sp.Segments)
	} else {
		// A single row would put both poles on one cell.
		v.Check(sp.Segments >= 2, "segments must be >= 2, got %d", sp.Segments)
	}
	v.Check(sp.Radius > 0, "radius must be positive, got %v", sp.Radius)
	if sp.Hemisphere {
		return v.Err("hemisphere")
	}
	return v.Err("sphere")
}

// VertexCount implements Primitive.
func (sp *Sphere) VertexCount() int {
	if sp.Hemisphere {
		return sp.Sides*3 + (sp.Segments-1)*sp.Sides*6
	}
	return 2*sp.Sides*3 + max(0, sp.Segments-2)*sp.Sides*6
}

// Generate implements Primitive.
func (sp *Sphere) Generate(sink Sink) error {
	if err := sp.Validate(); err != nil {
		return err
	}

	phiLen := math32.Pi
	if sp.Hemisphere {
		phiLen = math32.Pi / 2
	}

	at := func(theta, phi float32) corner {
		n := math.Vec3{
			X: math32.Sin(phi) * math32.Cos(theta),
			Y: math32.Cos(phi),
			Z: math32.Sin(phi) * math32.Sin(theta),
		}
		return corner{
			pos:    n.Scale(sp.Radius),
			normal: n,
			uv:     math.Vec2{X: theta/(2*math32.Pi) + 0.5, Y: 1 - phi/math32.Pi},
		}
	}
	// Poles get the exact axis normal and the cell's mid azimuth for UV.
	pole := func(theta, phi float32, y float32) corner {
		c := at(theta, phi)
		c.pos = math.Vec3{Y: y * sp.Radius}
		c.normal = math.Vec3{Y: y}
		return c
	}

	for j := 0; j < sp.Segments; j++ {
		phi0 := phiLen * float32(j) / float32(sp.Segments)
		phi1 := phiLen * float32(j+1) / float32(sp.Segments)
		northRow := j == 0
		southRow := !sp.Hemisphere && j == sp.Segments-1

		for i := 0; i < sp.Sides; i++ {
			theta0 := -math32.Pi + 2*math32.Pi*float32(i)/float32(sp.Sides)
			theta1 := -math32.Pi + 2*math32.Pi*float32(i+1)/float32(sp.Sides)
			thetaMid := (theta0 + theta1) / 2

			// Counter-clockwise from outside: (θ0,φ0) (θ1,φ0) (θ1,φ1) (θ0,φ1).
			a, b, c, d := at(theta0, phi0), at(theta1, phi0), at(theta1, phi1), at(theta0, phi1)
			switch {
			case northRow:
				emitTriangle(sink, sp.FlipNormals, pole(thetaMid, phi0, 1), c, d)
			case southRow:
				emitTriangle(sink, sp.FlipNormals, a, b, pole(thetaMid, phi1, -1))
			default:
				emitQuad(sink, sp.FlipNormals, a, b, c, d)
			}
		}
	}
	return nil
}
