package mesh

import "github.com/Faultbox/meshkit/pkg/math"

// Sink receives generated vertices in order. Every three consecutive
// emissions form one triangle; a trailing partial triangle is a caller bug
// and is not detected here.
type Sink interface {
	Emit(position, normal math.Vec3, texCoord math.Vec2)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(position, normal math.Vec3, texCoord math.Vec2)

// Emit calls f.
func (f SinkFunc) Emit(position, normal math.Vec3, texCoord math.Vec2) {
	f(position, normal, texCoord)
}

// Counter counts emitted vertices without storing them.
type Counter struct {
	N int
}

// Emit increments the counter.
func (c *Counter) Emit(math.Vec3, math.Vec3, math.Vec2) {
	c.N++
}

// Triangles returns the number of complete triangles seen so far.
func (c *Counter) Triangles() int {
	return c.N / 3
}

// Buffer accumulates emitted vertices tagged with Color.
type Buffer struct {
	Vertices []Vertex
	Color    Color
}

// NewBuffer returns an empty buffer with white vertex color.
func NewBuffer() *Buffer {
	return &Buffer{Color: White}
}

// Emit appends a vertex.
func (b *Buffer) Emit(position, normal math.Vec3, texCoord math.Vec2) {
	b.Vertices = append(b.Vertices, Vertex{
		Position: position,
		Normal:   normal,
		TexCoord: texCoord,
		Color:    b.Color,
	})
}

// Triangles returns the buffered vertices grouped by triangle.
func (b *Buffer) Triangles() [][3]Vertex {
	tris := make([][3]Vertex, 0, len(b.Vertices)/3)
	for i := 0; i+2 < len(b.Vertices); i += 3 {
		tris = append(tris, [3]Vertex{b.Vertices[i], b.Vertices[i+1], b.Vertices[i+2]})
	}
	return tris
}

// corner is one triangle corner before emission.
type corner struct {
	pos    math.Vec3
	normal math.Vec3
	uv     math.Vec2
}

// emitTriangle emits a, b, c counter-clockwise. flip reverses the winding
// and negates the normals.
func emitTriangle(sink Sink, flip bool, a, b, c corner) {
	if flip {
		b, c = c, b
		a.normal = a.normal.Negate()
		b.normal = b.normal.Negate()
		c.normal = c.normal.Negate()
	}
	sink.Emit(a.pos, a.normal, a.uv)
	sink.Emit(b.pos, b.normal, b.uv)
	sink.Emit(c.pos, c.normal, c.uv)
}

// emitQuad emits the counter-clockwise quad a, b, c, d as (a, b, c), (a, c, d).
func emitQuad(sink Sink, flip bool, a, b, c, d corner) {
	emitTriangle(sink, flip, a, b, c)
	emitTriangle(sink, flip, a, c, d)
}
