package contour

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/math"
)

// Path3 is an ordered sequence of 3D samples. A closed path implicitly
// connects its last sample to the first.
type Path3 struct {
	Points []math.Vec3
	Closed bool
}

// Length returns the arc length, including the closing edge when closed.
func (p Path3) Length() float32 {
	var l float32
	for i := 1; i < len(p.Points); i++ {
		l += p.Points[i].Distance(p.Points[i-1])
	}
	if p.Closed && len(p.Points) > 1 {
		l += p.Points[0].Distance(p.Points[len(p.Points)-1])
	}
	return l
}

// ArcFractions returns, for every sample, its arc-length position along the
// path as a fraction in [0, 1]. On a closed path the last sample is short of
// 1; the wrap back to the first sample completes the length.
// A path of zero length yields all zeros.
func (p Path3) ArcFractions() []float32 {
	out := make([]float32, len(p.Points))
	total := p.Length()
	if total == 0 {
		return out
	}
	var walked float32
	for i := 1; i < len(p.Points); i++ {
		walked += p.Points[i].Distance(p.Points[i-1])
		out[i] = walked / total
	}
	return out
}

// NewLine3 returns an open straight path from a to b split into segments.
func NewLine3(a, b math.Vec3, segments int) Path3 {
	segments = max(segments, 1)
	pts := make([]math.Vec3, segments+1)
	for i := range pts {
		pts[i] = a.Lerp(b, float32(i)/float32(segments))
	}
	return Path3{Points: pts}
}

// NewRing3 returns a closed circle of the given radius in the XZ plane.
func NewRing3(radius float32, segments int) Path3 {
	segments = max(segments, 3)
	pts := make([]math.Vec3, segments)
	for i := range pts {
		a := 2 * math32.Pi * float32(i) / float32(segments)
		pts[i] = math.Vec3{X: radius * math32.Cos(a), Z: radius * math32.Sin(a)}
	}
	return Path3{Points: pts, Closed: true}
}

// NewHelix returns an open helix around +Y starting on +X. Each turn rises
// by pitch and is split into segmentsPerTurn samples.
func NewHelix(radius, pitch, turns float32, segmentsPerTurn int) Path3 {
	segmentsPerTurn = max(segmentsPerTurn, 3)
	n := max(int(math32.Ceil(turns*float32(segmentsPerTurn))), 1)
	pts := make([]math.Vec3, n+1)
	for i := range pts {
		t := turns * float32(i) / float32(n)
		a := 2 * math32.Pi * t
		pts[i] = math.Vec3{X: radius * math32.Cos(a), Y: pitch * t, Z: radius * math32.Sin(a)}
	}
	return Path3{Points: pts}
}

// NewCubic3 returns an open path flattened from a 3D cubic Bezier segment.
func NewCubic3(p0, p1, p2, p3 math.Vec3, tolerance float32) Path3 {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	pts := []math.Vec3{p0}
	flattenCubic3(p0, p1, p2, p3, tolerance, 0, &pts)
	return Path3{Points: pts}
}

func flattenCubic3(p0, p1, p2, p3 math.Vec3, tolerance float32, depth int, points *[]math.Vec3) {
	d := max(distanceToSegment3(p1, p0, p3), distanceToSegment3(p2, p0, p3))
	if depth >= maxDepth || d < tolerance {
		*points = append(*points, p3)
		return
	}

	q0 := p0.Lerp(p1, 0.5)
	q1 := p1.Lerp(p2, 0.5)
	q2 := p2.Lerp(p3, 0.5)
	r0 := q0.Lerp(q1, 0.5)
	r1 := q1.Lerp(q2, 0.5)
	s := r0.Lerp(r1, 0.5)

	flattenCubic3(p0, q0, r0, s, tolerance, depth+1, points)
	flattenCubic3(s, r1, q2, p3, tolerance, depth+1, points)
}

func distanceToSegment3(p, a, b math.Vec3) float32 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 < 1e-12 {
		return p.Distance(a)
	}
	t := min(max(p.Sub(a).Dot(ab)/l2, 0), 1)
	return p.Distance(a.Add(ab.Scale(t)))
}
