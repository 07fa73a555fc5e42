package mesh

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Dodecahedron is a regular dodecahedron centred on the origin whose
// vertices lie on a sphere of the given Radius. Faces are flat shaded.
type Dodecahedron struct {
	Radius float32
}

// NewDodecahedron returns a dodecahedron with the given circumradius.
func NewDodecahedron(radius float32) *Dodecahedron {
	return &Dodecahedron{Radius: radius}
}

const (
	goldenRatio    = 1.618033988749895
	invGoldenRatio = 1 / goldenRatio
)

// dodecaVertices are the 20 corners with circumradius sqrt(3).
var dodecaVertices = [20]math.Vec3{
	{X: -1, Y: -1, Z: -1}, {X: -1, Y: -1, Z: 1}, {X: -1, Y: 1, Z: -1}, {X: -1, Y: 1, Z: 1},
	{X: 1, Y: -1, Z: -1}, {X: 1, Y: -1, Z: 1}, {X: 1, Y: 1, Z: -1}, {X: 1, Y: 1, Z: 1},
	{X: 0, Y: -invGoldenRatio, Z: -goldenRatio}, {X: 0, Y: -invGoldenRatio, Z: goldenRatio},
	{X: 0, Y: invGoldenRatio, Z: -goldenRatio}, {X: 0, Y: invGoldenRatio, Z: goldenRatio},
	{X: -invGoldenRatio, Y: -goldenRatio, Z: 0}, {X: -invGoldenRatio, Y: goldenRatio, Z: 0},
	{X: invGoldenRatio, Y: -goldenRatio, Z: 0}, {X: invGoldenRatio, Y: goldenRatio, Z: 0},
	{X: -goldenRatio, Y: 0, Z: -invGoldenRatio}, {X: goldenRatio, Y: 0, Z: -invGoldenRatio},
	{X: -goldenRatio, Y: 0, Z: invGoldenRatio}, {X: goldenRatio, Y: 0, Z: invGoldenRatio},
}

// dodecaFaces lists each pentagon counter-clockwise from outside.
// Faces are fanned from their first corner.
var dodecaFaces = [12][5]int{
	{3, 11, 7, 15, 13},
	{7, 19, 17, 6, 15},
	{17, 4, 8, 10, 6},
	{8, 0, 16, 2, 10},
	{0, 12, 1, 18, 16},
	{6, 10, 2, 13, 15},
	{2, 16, 18, 3, 13},
	{18, 1, 9, 11, 3},
	{4, 14, 12, 0, 8},
	{11, 9, 5, 19, 7},
	{19, 5, 14, 4, 17},
	{1, 12, 14, 5, 9},
}

// Validate implements Primitive.
func (dd *Dodecahedron) Validate() error {
	var v Validator
	v.Check(dd.Radius > 0, "radius must be positive, got %v", dd.Radius)
	return v.Err("dodecahedron")
}

// VertexCount implements Primitive.
func (dd *Dodecahedron) VertexCount() int {
	return len(dodecaFaces) * 3 * 3
}

// Generate implements Primitive. UVs are spherical, like Sphere.
func (dd *Dodecahedron) Generate(sink Sink) error {
	if err := dd.Validate(); err != nil {
		return err
	}

	scale := dd.Radius / math32.Sqrt(3)
	at := func(idx int, normal math.Vec3) corner {
		p := dodecaVertices[idx]
		dir := p.Normalize()
		return corner{
			pos:    p.Scale(scale),
			normal: normal,
			uv: math.Vec2{
				X: math32.Atan2(dir.Z, dir.X)/(2*math32.Pi) + 0.5,
				Y: 1 - math32.Acos(dir.Y)/math32.Pi,
			},
		}
	}

	for _, f := range dodecaFaces {
		var centroid math.Vec3
		for _, idx := range f {
			centroid = centroid.Add(dodecaVertices[idx])
		}
		normal := centroid.Normalize()
		for k := 1; k < 4; k++ {
			emitTriangle(sink, false, at(f[0], normal), at(f[k], normal), at(f[k+1], normal))
		}
	}
	return nil
}
