package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Interleaved vertex layout: position xyz, normal xyz, texcoord uv,
// color rgba, each a little-endian float32.
const (
	FloatsPerVertex = 12
	VertexStride    = FloatsPerVertex * 4
)

// Vertex buffer errors.
var (
	ErrTruncatedVertexData = errors.New("truncated vertex data")
)

// AppendVertices appends the interleaved encoding of vertices to dst.
func AppendVertices(dst []byte, vertices []mesh.Vertex) []byte {
	for i := range vertices {
		for _, f := range vertexFloats(&vertices[i]) {
			dst = binary.LittleEndian.AppendUint32(dst, math.Float32bits(f))
		}
	}
	return dst
}

// EncodeVertices returns the interleaved encoding of vertices.
func EncodeVertices(vertices []mesh.Vertex) []byte {
	return AppendVertices(make([]byte, 0, len(vertices)*VertexStride), vertices)
}

// WriteVertices writes the interleaved encoding of vertices to w.
func WriteVertices(w io.Writer, vertices []mesh.Vertex) error {
	for i := range vertices {
		if err := binary.Write(w, binary.LittleEndian, vertexFloats(&vertices[i])); err != nil {
			return fmt.Errorf("writing vertex %d: %w", i, err)
		}
	}
	return nil
}

// DecodeVertices parses an interleaved vertex buffer. The length must be a
// whole number of vertices.
func DecodeVertices(data []byte) ([]mesh.Vertex, error) {
	if len(data)%VertexStride != 0 {
		return nil, fmt.Errorf("%w: %d bytes is not a multiple of %d", ErrTruncatedVertexData, len(data), VertexStride)
	}
	return readVertices(bytes.NewReader(data), len(data)/VertexStride)
}

// readVertices reads count vertices from r.
func readVertices(r io.Reader, count int) ([]mesh.Vertex, error) {
	vertices := make([]mesh.Vertex, count)
	var f [FloatsPerVertex]float32
	for i := range vertices {
		if err := binary.Read(r, binary.LittleEndian, &f); err != nil {
			return nil, fmt.Errorf("%w: reading vertex %d", ErrTruncatedVertexData, i)
		}
		v := &vertices[i]
		v.Position.X, v.Position.Y, v.Position.Z = f[0], f[1], f[2]
		v.Normal.X, v.Normal.Y, v.Normal.Z = f[3], f[4], f[5]
		v.TexCoord.X, v.TexCoord.Y = f[6], f[7]
		v.Color = mesh.Color{R: f[8], G: f[9], B: f[10], A: f[11]}
	}
	return vertices, nil
}

func vertexFloats(v *mesh.Vertex) [FloatsPerVertex]float32 {
	return [FloatsPerVertex]float32{
		v.Position.X, v.Position.Y, v.Position.Z,
		v.Normal.X, v.Normal.Y, v.Normal.Z,
		v.TexCoord.X, v.TexCoord.Y,
		v.Color.R, v.Color.G, v.Color.B, v.Color.A,
	}
}
