package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

const tol = 1e-5

func assertOrthonormal(t *testing.T, f Frame) {
	t.Helper()
	assert.InDelta(t, 1, f.Right.Length(), tol)
	assert.InDelta(t, 1, f.Up.Length(), tol)
	assert.InDelta(t, 1, f.Forward.Length(), tol)
	assert.InDelta(t, 0, f.Right.Dot(f.Up), tol)
	assert.InDelta(t, 0, f.Right.Dot(f.Forward), tol)
	assert.InDelta(t, 0, f.Up.Dot(f.Forward), tol)
	assert.True(t, f.Forward.Cross(f.Up).ApproxEqual(f.Right, tol))
}

func TestStraightLineFramesMatch(t *testing.T) {
	path := contour.NewLine3(math.V3(1, 2, 3), math.V3(1, 2, 13), 10)
	frames, err := Compute(path, math.UnitY)
	require.NoError(t, err)
	require.Len(t, frames, 11)

	for i, f := range frames {
		assertOrthonormal(t, f)
		assert.True(t, f.Forward.ApproxEqual(math.UnitZ, tol), "frame %d forward %v", i, f.Forward)
		assert.True(t, f.Up.ApproxEqual(math.UnitY, tol), "frame %d up %v", i, f.Up)
		assert.Equal(t, path.Points[i], f.Position)
	}
}

func TestUpIsReorthogonalised(t *testing.T) {
	path := contour.Path3{Points: []math.Vec3{{}, {X: 1}}}
	frames, err := Compute(path, math.V3(1, 1, 0))
	require.NoError(t, err)
	assert.True(t, frames[0].Up.ApproxEqual(math.UnitY, tol), "up %v", frames[0].Up)
	assertOrthonormal(t, frames[0])
}

func TestCornerUsesBisector(t *testing.T) {
	path := contour.Path3{Points: []math.Vec3{{}, {Z: 1}, {X: 1, Z: 1}}}
	frames, err := Compute(path, math.UnitY)
	require.NoError(t, err)
	require.Len(t, frames, 3)

	assert.True(t, frames[0].Forward.ApproxEqual(math.UnitZ, tol))
	assert.True(t, frames[1].Forward.ApproxEqual(math.V3(1, 0, 1).Normalize(), tol))
	assert.True(t, frames[2].Forward.ApproxEqual(math.UnitX, tol))
	for _, f := range frames {
		assertOrthonormal(t, f)
		// A turn in the XZ plane never tilts up away from +Y.
		assert.True(t, f.Up.ApproxEqual(math.UnitY, tol))
	}
}

func TestHelixFramesStayOrthonormal(t *testing.T) {
	frames, err := Compute(contour.NewHelix(2, 1, 3, 24), math.UnitY)
	require.NoError(t, err)
	for i := 1; i < len(frames); i++ {
		assertOrthonormal(t, frames[i])
		// Parallel transport keeps consecutive ups close together.
		assert.Greater(t, frames[i].Up.Dot(frames[i-1].Up), float32(0.9))
	}
}

func TestClosedPathWrap(t *testing.T) {
	ring := contour.NewRing3(3, 16)
	frames, err := Compute(ring, math.UnitY)
	require.NoError(t, err)
	require.Len(t, frames, 16)

	wrapped := Wrap(frames)
	require.Len(t, wrapped, 17)
	last := wrapped[16]
	assert.True(t, last.Position.ApproxEqual(frames[0].Position, tol))
	assert.True(t, last.Forward.ApproxEqual(frames[0].Forward, tol))
	assert.True(t, last.Up.ApproxEqual(frames[0].Up, tol))

	// Every sample of a closed ring faces along the tangent.
	for i, f := range frames {
		assertOrthonormal(t, f)
		assert.InDelta(t, 0, f.Forward.Dot(f.Position.Normalize()), tol, "frame %d", i)
	}
}

func TestDegenerateInputs(t *testing.T) {
	tests := []struct {
		name string
		path contour.Path3
		up   math.Vec3
	}{
		{"up parallel", contour.Path3{Points: []math.Vec3{{}, {Y: 2}}}, math.UnitY},
		{"up antiparallel", contour.Path3{Points: []math.Vec3{{}, {Y: 2}}}, math.V3(0, -1, 0)},
		{"duplicate samples", contour.Path3{Points: []math.Vec3{{}, {Z: 1}, {Z: 1}, {Z: 2}}}, math.UnitY},
		{"reversal", contour.Path3{Points: []math.Vec3{{}, {Z: 1}, {}}}, math.UnitY},
		{"closed two points", contour.Path3{Points: []math.Vec3{{}, {Z: 1}}, Closed: true}, math.UnitY},
		{"closed repeats start", contour.Path3{Points: []math.Vec3{{}, {Z: 1}, {X: 1}, {}}, Closed: true}, math.UnitY},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frames, err := Compute(tt.path, tt.up)
			assert.ErrorIs(t, err, mesh.ErrDegenerateGeometry)
			assert.Nil(t, frames)
		})
	}
}

func TestEmptyAndSinglePoint(t *testing.T) {
	frames, err := Compute(contour.Path3{}, math.UnitY)
	require.NoError(t, err)
	assert.Empty(t, frames)

	p := math.V3(4, 5, 6)
	frames, err = Compute(contour.Path3{Points: []math.Vec3{p}}, math.UnitY)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, Identity(p), frames[0])
	assert.Equal(t, math.Translate(4, 5, 6), frames[0].Matrix())
}

func TestMatrixMatchesPlace(t *testing.T) {
	frames, err := Compute(contour.Path3{Points: []math.Vec3{{X: 1}, {X: 1, Y: 1, Z: 1}}}, math.UnitX)
	require.NoError(t, err)
	f := frames[0]
	p := math.V2(0.3, -0.7)
	assert.True(t, f.Matrix().TransformVec3(math.V3(p.X, p.Y, 0)).ApproxEqual(f.Place(p), tol))
}
