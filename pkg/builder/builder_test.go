package builder

import (
	"bytes"
	"errors"
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/extrude"
	"github.com/Faultbox/meshkit/pkg/formats"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const eps = 1e-5

func TestEmitAppliesTransform(t *testing.T) {
	b := New()
	b.Translate(1, 2, 3)
	b.Emit(math.V3(1, 0, 0), math.UnitX, math.V2(0.5, 0.5))

	require.Equal(t, 1, b.VertexCount())
	v := b.Vertices()[0]
	assert.True(t, v.Position.ApproxEqual(math.V3(2, 2, 3), eps))
	assert.True(t, v.Normal.ApproxEqual(math.UnitX, eps))
	assert.Equal(t, math.V2(0.5, 0.5), v.TexCoord)
	assert.Equal(t, mesh.White, v.Color)
}

func TestRotate(t *testing.T) {
	b := New()
	b.Rotate(math32.Pi/2, math.UnitY)
	b.Emit(math.UnitX, math.UnitX, math.Vec2{})
	v := b.Vertices()[0]
	assert.True(t, v.Position.ApproxEqual(math.V3(0, 0, -1), eps), "got %v", v.Position)
	assert.True(t, v.Normal.ApproxEqual(math.V3(0, 0, -1), eps))

	// Rotate and RotateY agree.
	b2 := New()
	b2.RotateY(math32.Pi / 2)
	assert.True(t, b.Transform().ApproxEqual(b2.Transform(), eps))
}

func TestLocalComposition(t *testing.T) {
	b := New()
	b.Translate(10, 0, 0)
	b.RotateZ(math32.Pi / 2)
	// Later transforms apply first: the point is rotated, then translated.
	b.Emit(math.UnitX, math.UnitZ, math.Vec2{})
	assert.True(t, b.Vertices()[0].Position.ApproxEqual(math.V3(10, 1, 0), eps))
}

func TestNonUniformScaleNormals(t *testing.T) {
	b := New()
	b.Scale(2, 1, 1)
	b.Emit(math.V3(1, 1, 0), math.V3(1, 1, 0).Normalize(), math.Vec2{})
	v := b.Vertices()[0]
	assert.True(t, v.Position.ApproxEqual(math.V3(2, 1, 0), eps))
	assert.True(t, v.Normal.ApproxEqual(math.V3(0.5, 1, 0).Normalize(), eps), "got %v", v.Normal)
	assert.InDelta(t, 1, v.Normal.Length(), eps)
}

func TestPushPop(t *testing.T) {
	b := New()
	b.Translate(1, 0, 0)
	saved := b.Transform()

	b.PushTransform()
	b.Translate(0, 5, 0)
	b.Scale(3, 3, 3)
	assert.Equal(t, 1, b.Depth())
	require.NoError(t, b.PopTransform())
	assert.Equal(t, saved, b.Transform())
	assert.Equal(t, saved.NormalMatrix(), b.NormalTransform())

	assert.ErrorIs(t, b.PopTransform(), ErrStackUnderflow)
}

func TestIsolatedRestoresUnbalancedStack(t *testing.T) {
	b := New()
	b.Translate(1, 2, 3)
	b.PushTransform()
	b.RotateX(0.3)
	before := b.Transform()
	require.NoError(t, b.SetColorName("teal"))
	color := b.Color()

	err := b.Isolated(func(b *Builder) error {
		b.PushTransform()
		b.Translate(5, 5, 5)
		b.PushTransform()
		b.PushTransform()
		b.RotateY(1)
		require.NoError(t, b.PopTransform())
		b.SetColor(mesh.Color{R: 1, A: 1})

		// Nested isolated blocks are self-contained too.
		return b.Isolated(func(b *Builder) error {
			b.Scale(2, 2, 2)
			assert.ErrorIs(t, b.PopTransform(), ErrStackUnderflow)
			return nil
		})
	})
	require.NoError(t, err)
	assert.Equal(t, before, b.Transform())
	assert.Equal(t, color, b.Color())
	assert.Equal(t, 1, b.Depth())

	// The push made before Isolated is still there.
	require.NoError(t, b.PopTransform())
	assert.ErrorIs(t, b.PopTransform(), ErrStackUnderflow)
}

func TestIsolatedCannotPopOuterTransforms(t *testing.T) {
	b := New()
	b.PushTransform()
	err := b.Isolated(func(b *Builder) error {
		return b.PopTransform()
	})
	assert.ErrorIs(t, err, ErrStackUnderflow)
	assert.Equal(t, 1, b.Depth())
}

func TestIsolatedRestoresOnErrorAndPanic(t *testing.T) {
	b := New()
	before := b.Transform()
	boom := errors.New("boom")

	err := b.Isolated(func(b *Builder) error {
		b.Translate(1, 1, 1)
		b.PushTransform()
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, before, b.Transform())
	assert.Zero(t, b.Depth())

	assert.Panics(t, func() {
		_ = b.Isolated(func(b *Builder) error {
			b.Translate(2, 2, 2)
			b.PushTransform()
			panic("inner failure")
		})
	})
	assert.Equal(t, before, b.Transform())
	assert.Zero(t, b.Depth())
	require.ErrorIs(t, b.PopTransform(), ErrStackUnderflow)
}

func TestGroupUsesTransformAtEntry(t *testing.T) {
	b := New()
	b.Translate(0, 10, 0)
	require.NoError(t, b.SetColorName("red"))

	err := b.Group(func(g *Builder) error {
		g.Translate(1, 0, 0)
		g.Emit(math.Vec3{}, math.UnitY, math.Vec2{})
		g.SetColor(mesh.Color{B: 1, A: 1})
		g.Emit(math.Vec3{}, math.UnitY, math.Vec2{})
		return nil
	})
	require.NoError(t, err)
	require.Equal(t, 2, b.VertexCount())

	vs := b.Vertices()
	assert.True(t, vs[0].Position.ApproxEqual(math.V3(1, 10, 0), eps))
	assert.Equal(t, mesh.Color{R: 1, A: 1}, vs[0].Color)
	assert.Equal(t, mesh.Color{B: 1, A: 1}, vs[1].Color)

	// The group's own transform does not leak out.
	b.Emit(math.Vec3{}, math.UnitY, math.Vec2{})
	assert.True(t, b.Vertices()[2].Position.ApproxEqual(math.V3(0, 10, 0), eps))
}

func TestGroupErrorAppendsNothing(t *testing.T) {
	b := New()
	err := b.Group(func(g *Builder) error {
		require.NoError(t, g.Add(mesh.NewBox(1, 1, 1)))
		return mesh.ErrDegenerateGeometry
	})
	assert.ErrorIs(t, err, mesh.ErrDegenerateGeometry)
	assert.Zero(t, b.VertexCount())
}

func TestSetColorName(t *testing.T) {
	b := New()
	require.NoError(t, b.SetColorName("white"))
	assert.Equal(t, mesh.White, b.Color())

	require.NoError(t, b.SetColorName("lime"))
	assert.Equal(t, mesh.Color{G: 1, A: 1}, b.Color())

	err := b.SetColorName("not-a-color")
	assert.ErrorIs(t, err, mesh.ErrInvalidParameter)
	assert.Equal(t, mesh.Color{G: 1, A: 1}, b.Color())
}

func TestAddAndExtrude(t *testing.T) {
	b := New()
	sp := mesh.NewSphere(8, 4, 1)
	require.NoError(t, b.Add(sp))
	assert.Equal(t, sp.VertexCount(), b.VertexCount())

	require.Error(t, b.Add(mesh.NewSphere(2, 4, 1)))
	assert.Equal(t, sp.VertexCount(), b.VertexCount())

	b.Translate(5, 0, 0)
	err := b.Extrude(extrude.Fixed{Shape: extrude.TubeShape(0.1, 6)},
		contour.NewLine3(math.Vec3{}, math.V3(0, 0, 1), 2), extrude.Options{})
	require.NoError(t, err)
	assert.Equal(t, sp.VertexCount()+2*6*6, b.VertexCount())

	bounds := b.Bounds()
	assert.InDelta(t, 5.1, bounds.Max.X, 1e-5)
}

func TestBytesRoundTrip(t *testing.T) {
	b := New()
	require.NoError(t, b.SetColorName("orange"))
	b.RotateX(0.7)
	require.NoError(t, b.Add(mesh.NewDodecahedron(1)))

	data := b.Bytes()
	require.Len(t, data, b.VertexCount()*formats.VertexStride)

	got, err := formats.DecodeVertices(data)
	require.NoError(t, err)
	assert.Equal(t, b.Vertices(), got)
}

func TestSmoothNormals(t *testing.T) {
	b := New()
	require.NoError(t, b.Add(mesh.NewBox(2, 2, 2)))
	b.SmoothNormals()
	// Every corner now blends its three face normals, so each normal
	// points diagonally away from the centre.
	for _, v := range b.Vertices() {
		assert.InDelta(t, 1, v.Normal.Length(), eps)
		assert.Greater(t, v.Normal.X*v.Position.X, float32(0), "corner %v normal %v", v.Position, v.Normal)
		assert.Greater(t, v.Normal.Y*v.Position.Y, float32(0), "corner %v normal %v", v.Position, v.Normal)
		assert.Greater(t, v.Normal.Z*v.Position.Z, float32(0), "corner %v normal %v", v.Position, v.Normal)
	}
}

// assertWoundWithNormals checks every triangle is counter-clockwise seen
// from the side its vertex normals face.
func assertWoundWithNormals(t *testing.T, vs []mesh.Vertex) {
	t.Helper()
	require.Zero(t, len(vs)%3)
	for i := 0; i < len(vs); i += 3 {
		a, b, c := vs[i], vs[i+1], vs[i+2]
		face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		n := a.Normal.Add(b.Normal).Add(c.Normal)
		assert.Greater(t, face.Dot(n), float32(0), "triangle %d", i/3)
	}
}

func TestMirrorKeepsWinding(t *testing.T) {
	tests := []struct {
		name    string
		x, y, z float32
	}{
		{"mirror x", -1, 1, 1},
		{"mirror z scaled", 1.5, 1.5, -1.5},
		{"double mirror", -1, -1, 1},
		{"triple mirror", -1, -1, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			b.Scale(tt.x, tt.y, tt.z)
			require.NoError(t, b.Add(mesh.NewSphere(8, 4, 1)))
			require.NoError(t, b.Add(mesh.NewBox(1, 1, 1)))
			assertWoundWithNormals(t, b.Vertices())

			// Sphere normals still point away from the centre.
			for _, v := range b.Vertices()[:mesh.NewSphere(8, 4, 1).VertexCount()] {
				assert.Greater(t, v.Normal.Dot(v.Position), float32(0))
			}
		})
	}
}

func TestMirroredGroupAndConcat(t *testing.T) {
	b := New()
	b.Scale(-1, 1, 1)
	err := b.Group(func(g *Builder) error {
		g.Translate(2, 0, 0)
		return g.Add(mesh.NewDodecahedron(1))
	})
	require.NoError(t, err)

	src := New()
	require.NoError(t, src.Add(mesh.NewCylinder(6, 0.5, 1)))
	b.Concat(src.Vertices())

	require.Equal(t, 108+src.VertexCount(), b.VertexCount())
	assertWoundWithNormals(t, b.Vertices())
	// The group's translation is mirrored with it.
	assert.Less(t, mesh.BoundsOf(b.Vertices()[:108]).Max.X, float32(-0.5))
}

func TestIsolatedRestoresMirroring(t *testing.T) {
	b := New()
	require.NoError(t, b.Isolated(func(b *Builder) error {
		b.Scale(-1, 1, 1)
		return b.Add(mesh.NewBox(1, 1, 1))
	}))
	require.NoError(t, b.Add(mesh.NewBox(1, 1, 1)))
	assertWoundWithNormals(t, b.Vertices())

	b.PushTransform()
	b.Scale(1, -1, 1)
	require.NoError(t, b.PopTransform())
	require.NoError(t, b.Add(mesh.NewSphere(6, 3, 1)))
	assertWoundWithNormals(t, b.Vertices())
}

func TestMirroredSTLFacetsFaceOutward(t *testing.T) {
	b := New()
	b.Scale(-1, 1, 1)
	require.NoError(t, b.Add(mesh.NewSphere(8, 4, 1)))

	var buf bytes.Buffer
	require.NoError(t, formats.WriteSTL(&buf, "mirror", b.Vertices()))
	_, tris, err := formats.ParseSTL(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, tris, b.VertexCount()/3)
	for i, tri := range tris {
		var centre math.Vec3
		for _, v := range tri.Vertices {
			centre = centre.Add(math.V3(v[0], v[1], v[2]))
		}
		n := math.V3(tri.Normal[0], tri.Normal[1], tri.Normal[2])
		assert.Greater(t, n.Dot(centre), float32(0), "facet %d", i)
	}
}
