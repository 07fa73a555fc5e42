package mesh

import "github.com/Faultbox/meshkit/pkg/math"

// Primitive is a parametric shape generator.
//
// Generate validates the parameters first and emits nothing when they are
// invalid. Generators hold no state between calls, so one value may be
// generated concurrently into independent sinks.
type Primitive interface {
	// Validate reports invalid parameters as ErrInvalidParameter.
	Validate() error

	// VertexCount returns the exact number of vertices Generate emits.
	VertexCount() int

	// Generate emits the triangles of the shape into sink.
	Generate(sink Sink) error
}

// plane is one planar grid. u and v are the full edge vectors and must
// satisfy u x v = normal for counter-clockwise outward faces.
type plane struct {
	origin math.Vec3
	u, v   math.Vec3
	normal math.Vec3
	segU   int
	segV   int
}

// emitPlane emits a segU x segV grid of quads, UV running 0..1 along u and v.
func emitPlane(sink Sink, p plane, flip bool) {
	at := func(s, t float32) corner {
		return corner{
			pos:    p.origin.Add(p.u.Scale(s)).Add(p.v.Scale(t)),
			normal: p.normal,
			uv:     math.Vec2{X: s, Y: t},
		}
	}

	for j := 0; j < p.segV; j++ {
		t0 := float32(j) / float32(p.segV)
		t1 := float32(j+1) / float32(p.segV)
		for i := 0; i < p.segU; i++ {
			s0 := float32(i) / float32(p.segU)
			s1 := float32(i+1) / float32(p.segU)
			emitQuad(sink, flip, at(s0, t0), at(s1, t0), at(s1, t1), at(s0, t1))
		}
	}
}

// planeVertexCount returns the vertex count of a segU x segV grid.
func planeVertexCount(segU, segV int) int {
	return segU * segV * 6
}

// Plane is a flat rectangle in the XY plane centred on the origin, facing +Z.
type Plane struct {
	Width, Height        float32
	SegmentsX, SegmentsY int
	FlipNormals          bool
}

// NewPlane returns a single-cell plane of the given size.
func NewPlane(width, height float32) *Plane {
	return &Plane{Width: width, Height: height, SegmentsX: 1, SegmentsY: 1}
}

// Validate implements Primitive.
func (pl *Plane) Validate() error {
	var v Validator
	v.Check(pl.Width > 0, "width must be positive, got %v", pl.Width)
	v.Check(pl.Height > 0, "height must be positive, got %v", pl.Height)
	v.Check(pl.SegmentsX >= 1, "segmentsX must be >= 1, got %d", pl.SegmentsX)
	v.Check(pl.SegmentsY >= 1, "segmentsY must be >= 1, got %d", pl.SegmentsY)
	return v.Err("plane")
}

// VertexCount implements Primitive.
func (pl *Plane) VertexCount() int {
	return planeVertexCount(pl.SegmentsX, pl.SegmentsY)
}

// Generate implements Primitive.
func (pl *Plane) Generate(sink Sink) error {
	if err := pl.Validate(); err != nil {
		return err
	}
	emitPlane(sink, plane{
		origin: math.Vec3{X: -pl.Width / 2, Y: -pl.Height / 2},
		u:      math.Vec3{X: pl.Width},
		v:      math.Vec3{Y: pl.Height},
		normal: math.UnitZ,
		segU:   pl.SegmentsX,
		segV:   pl.SegmentsY,
	}, pl.FlipNormals)
	return nil
}
