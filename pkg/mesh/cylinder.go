package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Cylinder is the open side wall of a (tapered) cylinder along +Y.
//
// The wall runs from y=0 (RadiusStart) to y=Length (RadiusEnd), or from
// -Length/2 to Length/2 when Center is set. Normals follow the slope of the
// taper rather than pointing straight out. Invert turns the wall inside out.
type Cylinder struct {
	Sides       int
	Segments    int
	RadiusStart float32
	RadiusEnd   float32
	Length      float32
	Invert      bool
	Center      bool
}

// NewCylinder returns a straight cylinder with one ring segment.
func NewCylinder(sides int, radius, length float32) *Cylinder {
	return &Cylinder{Sides: sides, Segments: 1, RadiusStart: radius, RadiusEnd: radius, Length: length}
}

// NewTaperedCylinder returns a cylinder whose radius changes linearly along its length.
func NewTaperedCylinder(sides, segments int, radiusStart, radiusEnd, length float32) *Cylinder {
	return &Cylinder{
		Sides:       sides,
		Segments:    segments,
		RadiusStart: radiusStart,
		RadiusEnd:   radiusEnd,
		Length:      length,
	}
}

// Validate implements Primitive.
func (cy *Cylinder) Validate() error {
	var v Validator
	v.Check(cy.Sides >= 3, "sides must be >= 3, got %d", cy.Sides)
	v.Check(cy.Segments >= 1, "segments must be >= 1, got %d", cy.Segments)
	v.Check(cy.RadiusStart > 0, "radiusStart must be positive, got %v", cy.RadiusStart)
	v.Check(cy.RadiusEnd > 0, "radiusEnd must be positive, got %v", cy.RadiusEnd)
	v.Check(cy.Length > 0, "length must be positive, got %v", cy.Length)
	return v.Err("cylinder")
}

// VertexCount implements Primitive.
func (cy *Cylinder) VertexCount() int {
	return cy.Sides * cy.Segments * 6
}

// Generate implements Primitive.
func (cy *Cylinder) Generate(sink Sink) error {
	if err := cy.Validate(); err != nil {
		return err
	}

	y0 := float32(0)
	if cy.Center {
		y0 = -cy.Length / 2
	}
	slope := (cy.RadiusEnd - cy.RadiusStart) / cy.Length

	at := func(theta float32, i, k int) corner {
		t := float32(k) / float32(cy.Segments)
		r := cy.RadiusStart + (cy.RadiusEnd-cy.RadiusStart)*t
		c, s := math32.Cos(theta), math32.Sin(theta)
		return corner{
			pos:    math.Vec3{X: r * c, Y: y0 + cy.Length*t, Z: r * s},
			normal: math.Vec3{X: c, Y: -slope, Z: s}.Normalize(),
			uv:     math.Vec2{X: float32(i) / float32(cy.Sides), Y: t},
		}
	}

	for k := 0; k < cy.Segments; k++ {
		for i := 0; i < cy.Sides; i++ {
			theta0 := 2 * math32.Pi * float32(i) / float32(cy.Sides)
			theta1 := 2 * math32.Pi * float32(i+1) / float32(cy.Sides)
			// Counter-clockwise from outside: up the wall first, then around.
			a := at(theta0, i, k)
			b := at(theta0, i, k+1)
			c := at(theta1, i+1, k+1)
			d := at(theta1, i+1, k)
			emitQuad(sink, cy.Invert, a, b, c, d)
		}
	}
	return nil
}
