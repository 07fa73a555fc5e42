package formats

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// STLTriangle is one facet of a binary STL file.
type STLTriangle struct {
	Normal   [3]float32
	Vertices [3][3]float32
	Attr     uint16
}

// WriteSTL writes vertices as a binary STL file. Facet normals are taken
// from each triangle's winding; a trailing partial triangle is dropped.
func WriteSTL(w io.Writer, header string, vertices []mesh.Vertex) error {
	var head [80]byte
	copy(head[:], header)
	if _, err := w.Write(head[:]); err != nil {
		return fmt.Errorf("writing STL header: %w", err)
	}

	count := len(vertices) / 3
	if err := binary.Write(w, binary.LittleEndian, uint32(count)); err != nil {
		return fmt.Errorf("writing STL triangle count: %w", err)
	}

	for i := 0; i < count; i++ {
		a, b, c := vertices[3*i].Position, vertices[3*i+1].Position, vertices[3*i+2].Position
		n := b.Sub(a).Cross(c.Sub(a)).Normalize()
		facet := STLTriangle{
			Normal:   vec(n),
			Vertices: [3][3]float32{vec(a), vec(b), vec(c)},
		}
		if err := binary.Write(w, binary.LittleEndian, &facet); err != nil {
			return fmt.Errorf("writing STL triangle %d: %w", i, err)
		}
	}
	return nil
}

// ParseSTL parses a binary STL file, returning its header and facets.
func ParseSTL(data []byte) (string, []STLTriangle, error) {
	if len(data) < 84 {
		return "", nil, fmt.Errorf("%w: reading STL header", ErrTruncatedVertexData)
	}
	header := string(bytes.TrimRight(data[:80], "\x00"))
	count := binary.LittleEndian.Uint32(data[80:84])
	if int64(count)*50 > int64(len(data)-84) {
		return "", nil, fmt.Errorf("%w: %d STL triangles declared", ErrTruncatedVertexData, count)
	}

	tris := make([]STLTriangle, count)
	if err := binary.Read(bytes.NewReader(data[84:]), binary.LittleEndian, tris); err != nil {
		return "", nil, fmt.Errorf("%w: reading STL triangles", ErrTruncatedVertexData)
	}
	return header, tris, nil
}

func vec(v math.Vec3) [3]float32 {
	return [3]float32{v.X, v.Y, v.Z}
}
