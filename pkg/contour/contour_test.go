package contour

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/meshkit/pkg/math"
)

func TestSignedAreaAndOrient(t *testing.T) {
	sq := NewRect(2, 2).Linearize(0)
	assert.InDelta(t, 4, SignedArea(sq), 1e-6)

	Orient(sq, false)
	assert.InDelta(t, -4, SignedArea(sq), 1e-6)
	Orient(sq, true)
	assert.InDelta(t, 4, SignedArea(sq), 1e-6)
}

func TestCircleLinearizeTolerance(t *testing.T) {
	c := NewCircle(5)
	for _, tol := range []float32{0.5, 0.05, 0.005} {
		pts := c.Linearize(tol)
		require.GreaterOrEqual(t, len(pts), 3)
		for i := range pts {
			a, b := pts[i], pts[(i+1)%len(pts)]
			mid := a.Lerp(b, 0.5)
			assert.LessOrEqual(t, 5-mid.Length(), tol*1.001, "chord sagitta exceeds tolerance")
		}
	}
	assert.Greater(t, len(c.Linearize(0.005)), len(c.Linearize(0.5)))
	assert.True(t, c.IsClosed())
}

func TestPathQuadFlattening(t *testing.T) {
	p := NewPath().MoveTo(0, 0).QuadTo(1, 2, 2, 0)
	pts := p.Linearize(0.01)
	require.Greater(t, len(pts), 3)
	assert.Equal(t, math.V2(0, 0), pts[0])
	assert.Equal(t, math.V2(2, 0), pts[len(pts)-1])
	assert.False(t, p.IsClosed())

	// The apex of this quadratic is (1, 1).
	var top float32
	for _, q := range pts {
		top = max(top, q.Y)
	}
	assert.InDelta(t, 1, top, 0.01)
}

func TestPathCloseDropsReturnPoint(t *testing.T) {
	p := NewPath().MoveTo(0, 0).LineTo(1, 0).LineTo(1, 1).LineTo(0, 0).Close()
	pts := p.Linearize(0)
	assert.Len(t, pts, 3)
	assert.True(t, p.IsClosed())
}

func TestPathCubicZeroToleranceTerminates(t *testing.T) {
	p := NewPath().MoveTo(0, 0).CubicTo(0, 1, 1, 1, 1, 0)
	pts := p.Linearize(1e-12)
	assert.LessOrEqual(t, len(pts), 1+1<<maxDepth)
}

func TestResampleOpen(t *testing.T) {
	pts := Resample([]math.Vec2{{X: 0}, {X: 1}, {X: 4}}, false, 5)
	require.Len(t, pts, 5)
	for i, p := range pts {
		assert.InDelta(t, float32(i), p.X, 1e-5)
	}
}

func TestResampleClosed(t *testing.T) {
	sq := NewRect(2, 2)
	pts := sq.Sample(8)
	require.Len(t, pts, 8)
	// Perimeter 8, so samples land on corners and edge midpoints.
	assert.True(t, pts[0] == math.V2(-1, -1))
	assert.InDelta(t, 0, pts[1].X, 1e-5)
	assert.InDelta(t, 1, pts[2].X, 1e-5)
	assert.InDelta(t, -1, pts[2].Y, 1e-5)
}

func TestResampleEdgeCases(t *testing.T) {
	assert.Nil(t, Resample(nil, true, 4))
	assert.Nil(t, Resample([]math.Vec2{{X: 1}}, true, 0))
	assert.Len(t, Resample([]math.Vec2{{X: 1}}, false, 3), 3)
}

func TestMorphKeepsLayout(t *testing.T) {
	m := Morph(NewRect(2, 2), NewCircle(1), 16)
	for _, tt := range []float32{0, 0.25, 1} {
		outer, holes := m(tt).Linearize(0)
		assert.Len(t, outer, 16)
		assert.Empty(t, holes)
	}
	outer, _ := m(1).Linearize(0)
	for _, p := range outer {
		assert.InDelta(t, 1, p.Length(), 1e-4)
	}
}

func TestRegularPolygonAndStar(t *testing.T) {
	hex := NewRegularPolygon(6, 1).Linearize(0)
	assert.Len(t, hex, 6)
	assert.Greater(t, SignedArea(hex), float32(0))
	assert.Empty(t, NewRegularPolygon(2, 1).Points)

	star := NewStar(5, 2, 1).Linearize(0)
	assert.Len(t, star, 10)
	assert.Greater(t, SignedArea(star), float32(0))
}

func TestPath3ArcFractions(t *testing.T) {
	p := NewLine3(math.V3(0, 0, 0), math.V3(0, 0, 4), 4)
	assert.InDelta(t, 4, p.Length(), 1e-6)
	fr := p.ArcFractions()
	require.Len(t, fr, 5)
	for i, f := range fr {
		assert.InDelta(t, float32(i)/4, f, 1e-6)
	}

	ring := NewRing3(1, 4)
	fr = ring.ArcFractions()
	assert.InDelta(t, 0.75, fr[3], 1e-5)

	assert.Equal(t, []float32{0}, Path3{Points: []math.Vec3{{X: 1}}}.ArcFractions())
}

func TestHelix(t *testing.T) {
	h := NewHelix(2, 1, 2, 12)
	require.Len(t, h.Points, 25)
	last := h.Points[len(h.Points)-1]
	assert.InDelta(t, 2, last.Y, 1e-5)
	assert.InDelta(t, 2, last.X, 1e-4)
	for _, p := range h.Points {
		assert.InDelta(t, 2, math.V2(p.X, p.Z).Length(), 1e-4)
	}
}

func TestCubic3(t *testing.T) {
	p := NewCubic3(math.V3(0, 0, 0), math.V3(0, 1, 0), math.V3(1, 1, 0), math.V3(1, 0, 0), 0.01)
	require.Greater(t, len(p.Points), 4)
	assert.Equal(t, math.V3(0, 0, 0), p.Points[0])
	assert.Equal(t, math.V3(1, 0, 0), p.Points[len(p.Points)-1])
}
