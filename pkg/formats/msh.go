package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// MSH format errors.
var (
	ErrInvalidMSHMagic       = errors.New("invalid MSH magic: expected 'MESH'")
	ErrUnsupportedMSHVersion = errors.New("unsupported MSH version")
)

// mshMagic opens every MSH file.
const mshMagic = "MESH"

// MSHVersion represents the MSH file version.
type MSHVersion struct {
	Major uint8
	Minor uint8
}

// String returns the version as "Major.Minor".
func (v MSHVersion) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// CurrentMSHVersion is written by EncodeMSH.
var CurrentMSHVersion = MSHVersion{Major: 1, Minor: 0}

// MSH is a stored vertex buffer.
//
// Layout (little-endian): "MESH", major, minor, uint16 stride, uint32
// vertex count, six float32 bounds (min xyz, max xyz), uint16 name length,
// name bytes, then the interleaved vertex buffer.
type MSH struct {
	Version  MSHVersion
	Name     string
	Bounds   mesh.Bounds
	Vertices []mesh.Vertex
}

// NewMSH wraps vertices with their bounds.
func NewMSH(name string, vertices []mesh.Vertex) *MSH {
	return &MSH{
		Version:  CurrentMSHVersion,
		Name:     name,
		Bounds:   mesh.BoundsOf(vertices),
		Vertices: vertices,
	}
}

// TriangleCount returns the number of whole triangles stored.
func (m *MSH) TriangleCount() int {
	return len(m.Vertices) / 3
}

// WriteTo writes the encoded file to w.
func (m *MSH) WriteTo(w io.Writer) (int64, error) {
	data, err := EncodeMSH(m)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}

// EncodeMSH returns the encoded file.
func EncodeMSH(m *MSH) ([]byte, error) {
	if len(m.Name) > 0xFFFF {
		return nil, fmt.Errorf("MSH name too long: %d bytes", len(m.Name))
	}
	buf := new(bytes.Buffer)
	buf.Grow(36 + len(m.Name) + len(m.Vertices)*VertexStride)

	buf.WriteString(mshMagic)
	buf.WriteByte(m.Version.Major)
	buf.WriteByte(m.Version.Minor)

	header := []any{
		uint16(VertexStride),
		uint32(len(m.Vertices)),
		[6]float32{m.Bounds.Min.X, m.Bounds.Min.Y, m.Bounds.Min.Z, m.Bounds.Max.X, m.Bounds.Max.Y, m.Bounds.Max.Z},
		uint16(len(m.Name)),
	}
	for _, field := range header {
		if err := binary.Write(buf, binary.LittleEndian, field); err != nil {
			return nil, fmt.Errorf("writing MSH header: %w", err)
		}
	}
	buf.WriteString(m.Name)
	buf.Write(EncodeVertices(m.Vertices))
	return buf.Bytes(), nil
}

// ParseMSH parses an MSH file from raw bytes.
func ParseMSH(data []byte) (*MSH, error) {
	if len(data) < 6 {
		return nil, fmt.Errorf("%w: reading header", ErrTruncatedVertexData)
	}
	if string(data[0:4]) != mshMagic {
		return nil, ErrInvalidMSHMagic
	}

	version := MSHVersion{Major: data[4], Minor: data[5]}
	if version.Major != 1 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMSHVersion, version)
	}

	r := bytes.NewReader(data[6:])

	var stride uint16
	var count uint32
	var bounds [6]float32
	var nameLen uint16
	if err := binary.Read(r, binary.LittleEndian, &stride); err != nil {
		return nil, fmt.Errorf("%w: reading stride", ErrTruncatedVertexData)
	}
	if stride != VertexStride {
		return nil, fmt.Errorf("%w: stride %d", ErrUnsupportedMSHVersion, stride)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedVertexData)
	}
	if err := binary.Read(r, binary.LittleEndian, &bounds); err != nil {
		return nil, fmt.Errorf("%w: reading bounds", ErrTruncatedVertexData)
	}
	if err := binary.Read(r, binary.LittleEndian, &nameLen); err != nil {
		return nil, fmt.Errorf("%w: reading name length", ErrTruncatedVertexData)
	}
	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r, name); err != nil {
		return nil, fmt.Errorf("%w: reading name", ErrTruncatedVertexData)
	}

	if int64(count)*VertexStride > int64(r.Len()) {
		return nil, fmt.Errorf("%w: %d vertices declared, %d bytes left", ErrTruncatedVertexData, count, r.Len())
	}
	vertices, err := readVertices(r, int(count))
	if err != nil {
		return nil, err
	}

	return &MSH{
		Version: version,
		Name:    string(name),
		Bounds: mesh.Bounds{
			Min: math.Vec3{X: bounds[0], Y: bounds[1], Z: bounds[2]},
			Max: math.Vec3{X: bounds[3], Y: bounds[4], Z: bounds[5]},
		},
		Vertices: vertices,
	}, nil
}

// ParseMSHFile parses an MSH file from disk.
func ParseMSHFile(path string) (*MSH, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading MSH file: %w", err)
	}
	return ParseMSH(data)
}
