package triangulate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

func square(x0, y0, x1, y1 float32) []math.Vec2 {
	return []math.Vec2{{X: x0, Y: y0}, {X: x1, Y: y0}, {X: x1, Y: y1}, {X: x0, Y: y1}}
}

func assertCCW(t *testing.T, tris []Triangle) {
	t.Helper()
	for i, tri := range tris {
		assert.Greater(t, tri.Area(), float32(0), "triangle %d is not counter-clockwise", i)
	}
}

func TestConvex(t *testing.T) {
	tris, err := Shape(square(0, 0, 2, 3), nil)
	require.NoError(t, err)
	assert.Len(t, tris, 2)
	assert.InDelta(t, 6, Area(tris), 1e-5)
	assertCCW(t, tris)
}

func TestClockwiseOuterIsReoriented(t *testing.T) {
	ring := square(0, 0, 1, 1)
	contour.Reverse(ring)
	tris, err := Shape(ring, nil)
	require.NoError(t, err)
	assert.InDelta(t, 1, Area(tris), 1e-6)
	assertCCW(t, tris)
	// The input is not modified.
	assert.Less(t, contour.SignedArea(ring), float32(0))
}

func TestConcave(t *testing.T) {
	star := contour.NewStar(5, 2, 1).Linearize(0)
	tris, err := Shape(star, nil)
	require.NoError(t, err)
	assert.Len(t, tris, len(star)-2)
	assert.InDelta(t, contour.SignedArea(star), Area(tris), 1e-4)
	assertCCW(t, tris)
}

func TestCollinearCorners(t *testing.T) {
	l := []math.Vec2{{X: 0}, {X: 1}, {X: 2}, {X: 2, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 2}, {Y: 2}, {Y: 1}}
	tris, err := Shape(l, nil)
	require.NoError(t, err)
	assert.InDelta(t, 3, Area(tris), 1e-5)
	assertCCW(t, tris)
}

func TestHole(t *testing.T) {
	tris, err := Shape(square(0, 0, 4, 4), [][]math.Vec2{square(1, 1, 3, 3)})
	require.NoError(t, err)
	assert.Len(t, tris, 8)
	assert.InDelta(t, 12, Area(tris), 1e-5)
	assertCCW(t, tris)

	// Nothing covers the hole centre.
	centre := math.V2(2, 2)
	for _, tri := range tris {
		assert.False(t, strictlyInside(tri, centre), "triangle %v covers the hole", tri)
	}
}

func TestSeveralHoles(t *testing.T) {
	holes := [][]math.Vec2{
		square(0.5, 0.5, 1.5, 1.5),
		square(2.5, 2.5, 3.5, 3.5),
		{{X: 2.5, Y: 0.5}, {X: 3.5, Y: 0.5}, {X: 3, Y: 1.5}},
	}
	tris, err := Shape(square(0, 0, 4, 4), holes)
	require.NoError(t, err)
	assert.InDelta(t, 16-1-1-0.5, Area(tris), 1e-5)
	assertCCW(t, tris)
}

func TestRingWithCircularHole(t *testing.T) {
	outer := contour.NewCircle(2).Sample(32)
	hole := contour.NewCircle(1).Sample(16)
	tris, err := Shape(outer, [][]math.Vec2{hole})
	require.NoError(t, err)
	assert.InDelta(t, contour.SignedArea(outer)-contour.SignedArea(hole), Area(tris), 1e-4)
	assertCCW(t, tris)
}

func TestDegenerateInputs(t *testing.T) {
	tris, err := Shape([]math.Vec2{{}, {X: 1}}, nil)
	assert.NoError(t, err)
	assert.Empty(t, tris)

	// Every point collapsed onto one spot, as a section scaled to zero.
	tris, err = Shape([]math.Vec2{{}, {}, {}, {}}, nil)
	assert.NoError(t, err)
	assert.Empty(t, tris)

	// Collinear outline.
	tris, err = Shape([]math.Vec2{{}, {X: 1}, {X: 2}}, nil)
	assert.NoError(t, err)
	assert.Empty(t, tris)
}

func TestHoleOutside(t *testing.T) {
	tests := []struct {
		name  string
		outer []math.Vec2
		hole  []math.Vec2
	}{
		{"disjoint", square(0, 0, 1, 1), square(5, 5, 6, 6)},
		{"straddling", square(0, 0, 4, 4), square(3, 1, 5, 3)},
		{"left of outer", square(0, 0, 4, 4), square(-2, 1, -1, 2)},
		{"wider than outer", square(0, 0, 4, 4), square(-1, 1, 5, 3)},
		// Every hole vertex sits inside the U, but the top edge runs
		// across the notch.
		{"across a notch", []math.Vec2{
			{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 6, Y: 4}, {X: 4, Y: 4},
			{X: 4, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 4}, {X: 0, Y: 4},
		}, []math.Vec2{{X: 1, Y: 0.5}, {X: 5, Y: 0.5}, {X: 5, Y: 3}, {X: 1, Y: 3}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tris, err := Shape(tt.outer, [][]math.Vec2{tt.hole})
			assert.ErrorIs(t, err, mesh.ErrDegenerateGeometry)
			assert.Empty(t, tris)
		})
	}
}

func strictlyInside(tri Triangle, p math.Vec2) bool {
	return orient(tri[0], tri[1], p) > 0 && orient(tri[1], tri[2], p) > 0 && orient(tri[2], tri[0], p) > 0
}
