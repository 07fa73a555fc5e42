package mesh

import "github.com/Faultbox/meshkit/pkg/math"

// Box is a rectangular cuboid centred on the origin.
type Box struct {
	Width, Height, Depth            float32
	SegmentsX, SegmentsY, SegmentsZ int
	FlipNormals                     bool
}

// NewBox returns a Box with one segment per face.
func NewBox(width, height, depth float32) *Box {
	return &Box{
		Width:     width,
		Height:    height,
		Depth:     depth,
		SegmentsX: 1,
		SegmentsY: 1,
		SegmentsZ: 1,
	}
}

// Validate implements Primitive.
func (bx *Box) Validate() error {
	var v Validator
	v.Check(bx.Width > 0, "width must be positive, got %v", bx.Width)
	v.Check(bx.Height > 0, "height must be positive, got %v", bx.Height)
	v.Check(bx.Depth > 0, "depth must be positive, got %v", bx.Depth)
	v.Check(bx.SegmentsX >= 1, "segmentsX must be >= 1, got %d", bx.SegmentsX)
	v.Check(bx.SegmentsY >= 1, "segmentsY must be >= 1, got %d", bx.SegmentsY)
	v.Check(bx.SegmentsZ >= 1, "segmentsZ must be >= 1, got %d", bx.SegmentsZ)
	return v.Err("box")
}

// VertexCount implements Primitive.
func (bx *Box) VertexCount() int {
	sx, sy, sz := bx.SegmentsX, bx.SegmentsY, bx.SegmentsZ
	return 2 * (planeVertexCount(sx, sy) + planeVertexCount(sz, sy) + planeVertexCount(sx, sz))
}

// Generate implements Primitive.
func (bx *Box) Generate(sink Sink) error {
	if err := bx.Validate(); err != nil {
		return err
	}
	for _, p := range bx.faces() {
		emitPlane(sink, p, bx.FlipNormals)
	}
	return nil
}

// faces returns the six face grids, each with u x v pointing outward.
func (bx *Box) faces() [6]plane {
	w, h, d := bx.Width, bx.Height, bx.Depth
	hx, hy, hz := w/2, h/2, d/2
	sx, sy, sz := bx.SegmentsX, bx.SegmentsY, bx.SegmentsZ

	return [6]plane{
		// pz
		{origin: math.V3(-hx, -hy, hz), u: math.V3(w, 0, 0), v: math.V3(0, h, 0), normal: math.UnitZ, segU: sx, segV: sy},
		// nz
		{origin: math.V3(hx, -hy, -hz), u: math.V3(-w, 0, 0), v: math.V3(0, h, 0), normal: math.UnitZ.Negate(), segU: sx, segV: sy},
		// px
		{origin: math.V3(hx, -hy, hz), u: math.V3(0, 0, -d), v: math.V3(0, h, 0), normal: math.UnitX, segU: sz, segV: sy},
		// nx
		{origin: math.V3(-hx, -hy, -hz), u: math.V3(0, 0, d), v: math.V3(0, h, 0), normal: math.UnitX.Negate(), segU: sz, segV: sy},
		// py
		{origin: math.V3(-hx, hy, hz), u: math.V3(w, 0, 0), v: math.V3(0, 0, -d), normal: math.UnitY, segU: sx, segV: sz},
		// ny
		{origin: math.V3(-hx, -hy, -hz), u: math.V3(w, 0, 0), v: math.V3(0, 0, d), normal: math.UnitY.Negate(), segU: sx, segV: sz},
	}
}
