// Package triangulate fills simple polygons with holes by ear clipping.
package triangulate

import (
	"errors"
	"sort"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// areaEpsilon is the smallest ring area treated as non-empty.
const areaEpsilon float32 = 1e-10

// Triangle is three corners in counter-clockwise order.
type Triangle [3]math.Vec2

// Area returns the signed area of the triangle.
func (t Triangle) Area() float32 {
	return t[1].Sub(t[0]).Cross(t[2].Sub(t[0])) / 2
}

// Area returns the summed signed area of tris.
func Area(tris []Triangle) float32 {
	var sum float32
	for _, t := range tris {
		sum += t.Area()
	}
	return sum
}

// Shape triangulates the region inside outer and outside every hole.
//
// Rings may be given in either winding and must not repeat their first
// point. Holes are joined to the outer ring by bridge edges, then ears are
// clipped until nothing is left. Every returned triangle is
// counter-clockwise. Rings with zero area produce no triangles. Holes must
// lie strictly inside the outer ring and must not overlap one another; a
// hole with a vertex outside the outer ring, or an edge crossing it, fails
// with mesh.ErrDegenerateGeometry.
func Shape(outer []math.Vec2, holes [][]math.Vec2) ([]Triangle, error) {
	if len(outer) < 3 {
		return nil, nil
	}
	poly := append([]math.Vec2(nil), outer...)
	if math32.Abs(contour.SignedArea(poly)) < areaEpsilon {
		return nil, nil
	}
	contour.Orient(poly, true)

	rings := make([][]math.Vec2, 0, len(holes))
	for _, h := range holes {
		if len(h) < 3 || math32.Abs(contour.SignedArea(h)) < areaEpsilon {
			continue
		}
		ring := append([]math.Vec2(nil), h...)
		contour.Orient(ring, false)
		if err := enclosed(poly, ring); err != nil {
			return nil, mesh.Degenerate("hole %d: %v", len(rings), err)
		}
		rings = append(rings, ring)
	}

	// Bridge holes right to left so each ray only meets rings already merged.
	sort.SliceStable(rings, func(i, j int) bool {
		return rings[i][rightmost(rings[i])].X > rings[j][rightmost(rings[j])].X
	})
	for i, ring := range rings {
		var err error
		poly, err = bridge(poly, ring)
		if err != nil {
			return nil, mesh.Degenerate("hole %d: %v", i, err)
		}
	}

	return clipEars(poly), nil
}

func rightmost(ring []math.Vec2) int {
	best := 0
	for i, p := range ring {
		if p.X > ring[best].X || (p.X == ring[best].X && p.Y < ring[best].Y) {
			best = i
		}
	}
	return best
}

// orient returns twice the signed area of a, b, c.
func orient(a, b, c math.Vec2) float32 {
	return b.Sub(a).Cross(c.Sub(a))
}

func insideTriangle(a, b, c, p math.Vec2) bool {
	return orient(a, b, p) >= 0 && orient(b, c, p) >= 0 && orient(c, a, p) >= 0
}

func isReflex(poly []math.Vec2, i int) bool {
	n := len(poly)
	return orient(poly[(i+n-1)%n], poly[i], poly[(i+1)%n]) < 0
}

var (
	errHoleOutside  = errors.New("hole is not inside the outer contour")
	errHoleCrossing = errors.New("hole crosses the outer contour")
)

// enclosed checks that every vertex of hole is inside poly and that no
// hole edge crosses a poly edge.
func enclosed(poly, hole []math.Vec2) error {
	for _, p := range hole {
		if !contains(poly, p) {
			return errHoleOutside
		}
	}
	for i := range hole {
		a, b := hole[i], hole[(i+1)%len(hole)]
		for j := range poly {
			if crosses(a, b, poly[j], poly[(j+1)%len(poly)]) {
				return errHoleCrossing
			}
		}
	}
	return nil
}

// contains is the even-odd point in polygon test.
func contains(poly []math.Vec2, p math.Vec2) bool {
	in := false
	for i, j := 0, len(poly)-1; i < len(poly); j, i = i, i+1 {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

// crosses reports whether segments ab and cd properly intersect.
func crosses(a, b, c, d math.Vec2) bool {
	d1, d2 := orient(c, d, a), orient(c, d, b)
	d3, d4 := orient(a, b, c), orient(a, b, d)
	return ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0))
}

// bridge splices hole into poly through a pair of coincident bridge edges
// from the hole's rightmost vertex to a visible polygon vertex.
func bridge(poly, hole []math.Vec2) ([]math.Vec2, error) {
	mi := rightmost(hole)
	m := hole[mi]
	n := len(poly)

	// Closest hit of the ray from m towards +X.
	best := -1
	bestX := math32.Inf(1)
	for i := 0; i < n; i++ {
		a, b := poly[i], poly[(i+1)%n]
		if a.Y == b.Y || m.Y < min(a.Y, b.Y) || m.Y > max(a.Y, b.Y) {
			continue
		}
		x := a.X + (m.Y-a.Y)*(b.X-a.X)/(b.Y-a.Y)
		if x < m.X || x >= bestX {
			continue
		}
		bestX = x
		best = i
	}
	if best < 0 {
		return nil, errHoleOutside
	}

	hit := math.Vec2{X: bestX, Y: m.Y}
	a, b := poly[best], poly[(best+1)%n]
	var p int
	switch {
	case a == hit:
		p = best
	case b == hit:
		p = (best + 1) % n
	case a.X > b.X:
		p = best
	default:
		p = (best + 1) % n
	}

	// A reflex vertex inside (m, hit, P) would block the view of P; take
	// the one closest in angle to the ray instead.
	if poly[p] != hit {
		cand := poly[p]
		tri := [3]math.Vec2{m, hit, cand}
		if orient(tri[0], tri[1], tri[2]) < 0 {
			tri[1], tri[2] = tri[2], tri[1]
		}
		bestCos := float32(-2)
		bestDist := math32.Inf(1)
		for i := 0; i < n; i++ {
			v := poly[i]
			if i == p || v == m || !isReflex(poly, i) || !insideTriangle(tri[0], tri[1], tri[2], v) {
				continue
			}
			d := v.Sub(m)
			l := d.Length()
			if l == 0 {
				continue
			}
			cos := d.X / l
			if cos > bestCos || (cos == bestCos && l < bestDist) {
				bestCos, bestDist, p = cos, l, i
			}
		}
	}

	out := make([]math.Vec2, 0, n+len(hole)+2)
	out = append(out, poly[:p+1]...)
	for k := 0; k <= len(hole); k++ {
		out = append(out, hole[(mi+k)%len(hole)])
	}
	out = append(out, poly[p:]...)
	return out, nil
}

// clipEars triangulates a counter-clockwise polygon that may touch itself
// at bridge vertices.
func clipEars(poly []math.Vec2) []Triangle {
	n := len(poly)
	prev := make([]int, n)
	next := make([]int, n)
	for i := range poly {
		prev[i] = (i + n - 1) % n
		next[i] = (i + 1) % n
	}

	tris := make([]Triangle, 0, n-2)
	remaining := n
	cur := 0
	stalled := 0
	for remaining > 3 {
		pi, ni := prev[cur], next[cur]
		a, b, c := poly[pi], poly[cur], poly[ni]

		ear := orient(a, b, c) > 0
		if ear {
			for j := next[ni]; j != pi; j = next[j] {
				p := poly[j]
				if p == a || p == b || p == c {
					continue
				}
				if orient(poly[prev[j]], p, poly[next[j]]) <= 0 && insideTriangle(a, b, c, p) {
					ear = false
					break
				}
			}
		}

		// After a full lap without an ear, drop the current corner so
		// clipping always terminates. Only a convex corner emits a triangle.
		if ear || stalled >= remaining {
			if orient(a, b, c) > 0 {
				tris = append(tris, Triangle{a, b, c})
			}
			next[pi], prev[ni] = ni, pi
			remaining--
			cur = ni
			stalled = 0
			continue
		}
		cur = ni
		stalled++
	}

	a, b, c := poly[prev[cur]], poly[cur], poly[next[cur]]
	if orient(a, b, c) > 0 {
		tris = append(tris, Triangle{a, b, c})
	}
	return tris
}
