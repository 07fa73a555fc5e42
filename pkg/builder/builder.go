// Package builder composes generated geometry under a transform and color
// stack and serializes the result to the interleaved vertex layout.
//
// A Builder is created for one generation call and confined to one
// goroutine; it is a mesh.Sink, so every generator can emit straight into it.
package builder

import (
	"errors"
	"fmt"

	"golang.org/x/image/colornames"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/extrude"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// ErrStackUnderflow is returned by PopTransform without a matching push.
var ErrStackUnderflow = errors.New("transform stack underflow")

// Builder accumulates transformed, colored vertices.
type Builder struct {
	model  math.Mat4
	normal math.Mat4
	color  mesh.Color
	// mirrored is set while the model matrix has a negative determinant;
	// triangles are then re-wound so they stay counter-clockwise from
	// the side their normals face.
	mirrored bool

	stack []math.Mat4
	// floor is the lowest stack depth PopTransform may reach; Isolated
	// raises it for the duration of its block.
	floor int

	vertices []mesh.Vertex
}

// New returns an empty builder with the identity transform and white color.
func New() *Builder {
	return &Builder{
		model:  math.Identity(),
		normal: math.Identity(),
		color:  mesh.White,
	}
}

// Transform returns the current model matrix.
func (b *Builder) Transform() math.Mat4 {
	return b.model
}

// NormalTransform returns the matrix applied to normals: the
// inverse-transpose of the model matrix without translation.
func (b *Builder) NormalTransform() math.Mat4 {
	return b.normal
}

// SetTransform replaces the current model matrix.
func (b *Builder) SetTransform(m math.Mat4) {
	b.model = m
	b.normal = m.NormalMatrix()
	b.mirrored = m.Determinant() < 0
}

// MultTransform composes m into the current transform. It applies before
// the transforms already in place, so later calls act in the local space
// of earlier ones.
func (b *Builder) MultTransform(m math.Mat4) {
	b.SetTransform(b.model.Mul(m))
}

// Translate moves subsequent geometry.
func (b *Builder) Translate(x, y, z float32) {
	b.MultTransform(math.Translate(x, y, z))
}

// Rotate rotates subsequent geometry by angle radians around axis.
func (b *Builder) Rotate(angle float32, axis math.Vec3) {
	b.MultTransform(math.QuatFromAxisAngle(axis, angle).ToMat4())
}

// RotateX rotates around the X axis.
func (b *Builder) RotateX(angle float32) {
	b.MultTransform(math.RotateX(angle))
}

// RotateY rotates around the Y axis.
func (b *Builder) RotateY(angle float32) {
	b.MultTransform(math.RotateY(angle))
}

// RotateZ rotates around the Z axis.
func (b *Builder) RotateZ(angle float32) {
	b.MultTransform(math.RotateZ(angle))
}

// Scale scales subsequent geometry. Normals stay unit length. Negative
// factors mirror geometry and keep triangles wound outward. A zero factor
// flattens geometry; the normal matrix is then singular and normals pass
// through untransformed.
func (b *Builder) Scale(x, y, z float32) {
	b.MultTransform(math.Scale(x, y, z))
}

// PushTransform saves the current transform.
func (b *Builder) PushTransform() {
	b.stack = append(b.stack, b.model)
}

// PopTransform restores the most recently pushed transform.
func (b *Builder) PopTransform() error {
	if len(b.stack) <= b.floor {
		return ErrStackUnderflow
	}
	m := b.stack[len(b.stack)-1]
	b.stack = b.stack[:len(b.stack)-1]
	b.SetTransform(m)
	return nil
}

// Depth returns the number of pushed transforms.
func (b *Builder) Depth() int {
	return len(b.stack)
}

// Isolated runs fn and then restores the transform, color and stack
// exactly as they were, even if fn returns an error, leaves pushes
// unbalanced or panics. Pops inside fn cannot reach transforms pushed
// before the call.
func (b *Builder) Isolated(fn func(b *Builder) error) error {
	model, normal, mirrored, color := b.model, b.normal, b.mirrored, b.color
	depth, floor := len(b.stack), b.floor
	b.floor = depth
	defer func() {
		b.model, b.normal, b.mirrored, b.color = model, normal, mirrored, color
		b.stack = b.stack[:depth]
		b.floor = floor
	}()
	return fn(b)
}

// Group builds fn's geometry in a fresh builder that starts with the
// current color, then appends it through the transform in effect when
// Group was called. On error nothing is appended.
func (b *Builder) Group(fn func(g *Builder) error) error {
	g := New()
	g.color = b.color
	if err := fn(g); err != nil {
		return err
	}
	b.appendTransformed(g.vertices)
	return nil
}

// Concat appends vertices through the current transform, keeping their colors.
func (b *Builder) Concat(vertices []mesh.Vertex) {
	b.appendTransformed(vertices)
}

func (b *Builder) appendTransformed(vertices []mesh.Vertex) {
	start := len(b.vertices)
	for _, v := range vertices {
		v.Position = b.model.TransformVec3(v.Position)
		v.Normal = b.normal.TransformDirection(v.Normal).Normalize()
		b.vertices = append(b.vertices, v)
	}
	if !b.mirrored {
		return
	}
	for i := start; i+2 < len(b.vertices); i += 3 {
		b.vertices[i+1], b.vertices[i+2] = b.vertices[i+2], b.vertices[i+1]
	}
}

// Color returns the current vertex color.
func (b *Builder) Color() mesh.Color {
	return b.color
}

// SetColor sets the color of subsequent vertices.
func (b *Builder) SetColor(c mesh.Color) {
	b.color = c
}

// SetColorName sets the color from an SVG color keyword such as
// "steelblue".
func (b *Builder) SetColorName(name string) error {
	c, ok := colornames.Map[name]
	if !ok {
		return fmt.Errorf("%w: unknown color %q", mesh.ErrInvalidParameter, name)
	}
	b.color = mesh.Color{
		R: float32(c.R) / 255,
		G: float32(c.G) / 255,
		B: float32(c.B) / 255,
		A: float32(c.A) / 255,
	}
	return nil
}

// Emit implements mesh.Sink: the vertex is carried through the current
// transforms and tagged with the current color.
func (b *Builder) Emit(position, normal math.Vec3, texCoord math.Vec2) {
	b.vertices = append(b.vertices, mesh.Vertex{
		Position: b.model.TransformVec3(position),
		Normal:   b.normal.TransformDirection(normal).Normalize(),
		TexCoord: texCoord,
		Color:    b.color,
	})
	// Completing a triangle under a mirroring transform swaps its last
	// two corners.
	if n := len(b.vertices); b.mirrored && n%3 == 0 {
		b.vertices[n-2], b.vertices[n-1] = b.vertices[n-1], b.vertices[n-2]
	}
}

// Add generates p into the builder.
func (b *Builder) Add(p mesh.Primitive) error {
	return p.Generate(b)
}

// Extrude sweeps section along path into the builder.
func (b *Builder) Extrude(section extrude.CrossSection, path contour.Path3, opts extrude.Options) error {
	return extrude.Extrude(b, section, path, opts)
}

// Vertices returns the accumulated vertices. The slice is shared with the
// builder until the next emission.
func (b *Builder) Vertices() []mesh.Vertex {
	return b.vertices
}

// VertexCount returns the number of accumulated vertices.
func (b *Builder) VertexCount() int {
	return len(b.vertices)
}

// Bounds returns the bounds of the accumulated geometry.
func (b *Builder) Bounds() mesh.Bounds {
	return mesh.BoundsOf(b.vertices)
}

// SmoothNormals averages the normals of coincident vertices.
func (b *Builder) SmoothNormals() {
	mesh.SmoothNormals(b.vertices)
}

// Bytes returns the interleaved vertex buffer (see formats.EncodeVertices).
func (b *Builder) Bytes() []byte {
	return formats.EncodeVertices(b.vertices)
}
