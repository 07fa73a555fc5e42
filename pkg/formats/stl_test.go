package formats

import (
	"bytes"
	"errors"
	"testing"

	"github.com/Faultbox/meshkit/pkg/mesh"
)

func TestSTLRoundTrip(t *testing.T) {
	buf := mesh.NewBuffer()
	if err := mesh.NewBox(1, 2, 3).Generate(buf); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := WriteSTL(&out, "box", buf.Vertices); err != nil {
		t.Fatalf("WriteSTL failed: %v", err)
	}
	if out.Len() != 84+12*50 {
		t.Fatalf("expected %d bytes, got %d", 84+12*50, out.Len())
	}

	header, tris, err := ParseSTL(out.Bytes())
	if err != nil {
		t.Fatalf("ParseSTL failed: %v", err)
	}
	if header != "box" {
		t.Errorf("expected header 'box', got %q", header)
	}
	if len(tris) != 12 {
		t.Fatalf("expected 12 triangles, got %d", len(tris))
	}

	// Box faces are axis aligned, so facet normals match vertex normals.
	for i, tri := range tris {
		n := buf.Vertices[3*i].Normal
		if tri.Normal != [3]float32{n.X, n.Y, n.Z} {
			t.Errorf("triangle %d: expected normal %v, got %v", i, n, tri.Normal)
		}
		p := buf.Vertices[3*i+2].Position
		if tri.Vertices[2] != [3]float32{p.X, p.Y, p.Z} {
			t.Errorf("triangle %d: vertex mismatch", i)
		}
	}
}

func TestParseSTLTruncated(t *testing.T) {
	var out bytes.Buffer
	if err := WriteSTL(&out, "", sampleVertices()); err != nil {
		t.Fatal(err)
	}
	data := out.Bytes()
	if _, _, err := ParseSTL(data[:len(data)-1]); !errors.Is(err, ErrTruncatedVertexData) {
		t.Errorf("expected ErrTruncatedVertexData, got %v", err)
	}
	if _, _, err := ParseSTL(data[:10]); !errors.Is(err, ErrTruncatedVertexData) {
		t.Errorf("expected ErrTruncatedVertexData, got %v", err)
	}
}
