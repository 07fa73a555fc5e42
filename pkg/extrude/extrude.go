// Package extrude sweeps 2D cross-sections along 3D paths.
//
// A section is drawn in its local XY plane and placed at every path sample
// by that sample's frame (X along Right, Y along Up). Consecutive samples are
// joined by ruled quad strips, one per contour edge, and open paths can be
// closed with triangulated caps. Outer contours are swept counter-clockwise
// and holes clockwise, whatever winding the caller gave, so every face
// points out of the solid.
package extrude

import (
	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/frame"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
	"github.com/Faultbox/meshkit/pkg/triangulate"
)

// minArea is the smallest doubled triangle area that is emitted.
const minArea float32 = 1e-12

// Options controls one extrusion.
type Options struct {
	// Up seeds the first frame. Zero means +Y.
	Up math.Vec3

	// Frames, when set, are used instead of computing frames from the
	// path; their positions replace the path samples.
	Frames []frame.Frame

	// StartCap and EndCap close the ends of an open path. They are ignored
	// for closed paths and for open outer contours.
	StartCap bool
	EndCap   bool

	// Tolerance is the linearization distance for curved contours.
	// Non-positive means contour.DefaultTolerance.
	Tolerance float32
}

// Extrude sweeps section along path and emits the triangles into sink.
//
// The parameter t handed to Scaled and Morphed functions is each sample's
// arc-length fraction along the path; the wrap-around step of a closed path
// has t = 1. All geometry is prepared before the first emission, so a
// failing call emits nothing. Errors wrap mesh.ErrInvalidParameter,
// mesh.ErrDegenerateGeometry or mesh.ErrInconsistentCrossSection.
func Extrude(sink mesh.Sink, section CrossSection, path contour.Path3, opts Options) error {
	frames := opts.Frames
	if len(frames) > 0 {
		pts := make([]math.Vec3, len(frames))
		for i, f := range frames {
			pts[i] = f.Position
		}
		path = contour.Path3{Points: pts, Closed: path.Closed}
	} else {
		up := opts.Up
		if up == (math.Vec3{}) {
			up = math.UnitY
		}
		var err error
		frames, err = frame.Compute(path, up)
		if err != nil {
			return err
		}
	}
	if len(frames) < 2 {
		return nil
	}

	ts := path.ArcFractions()
	if path.Closed {
		frames = frame.Wrap(frames)
		ts = append(ts, 1)
	}

	steps, err := sections(section, ts, opts.Tolerance)
	if err != nil {
		return err
	}

	var startCap, endCap []triangulate.Triangle
	capped := !path.Closed && steps[0][0].closed
	if capped && opts.StartCap {
		if startCap, err = triangulateLayout(steps[0]); err != nil {
			return err
		}
	}
	if capped && opts.EndCap {
		if endCap, err = triangulateLayout(steps[len(steps)-1]); err != nil {
			return err
		}
	}

	for k := 0; k+1 < len(frames); k++ {
		for r := range steps[k] {
			emitStrip(sink, frames[k], frames[k+1], steps[k][r], steps[k+1][r], ts[k], ts[k+1])
		}
	}

	lo, hi := bounds(steps[0])
	emitCap(sink, frames[0], startCap, lo, hi, false)
	lo, hi = bounds(steps[len(steps)-1])
	emitCap(sink, frames[len(frames)-1], endCap, lo, hi, true)
	return nil
}

// emitStrip joins ring a placed by fa to ring b placed by fb.
func emitStrip(sink mesh.Sink, fa, fb frame.Frame, a, b ring, ta, tb float32) {
	n := len(a.points)
	edges := n - 1
	if a.closed {
		edges = n
	}
	ua := arcFractions(a)
	ub := arcFractions(b)

	for i := 0; i < edges; i++ {
		j := (i + 1) % n
		// P_k(i), P_k(i+1), P_k+1(i+1), P_k+1(i).
		p0 := fa.Place(a.points[i])
		p1 := fa.Place(a.points[j])
		p2 := fb.Place(b.points[j])
		p3 := fb.Place(b.points[i])

		uv0 := math.Vec2{X: ua[i], Y: ta}
		uv1 := math.Vec2{X: ua[i+1], Y: ta}
		uv2 := math.Vec2{X: ub[i+1], Y: tb}
		uv3 := math.Vec2{X: ub[i], Y: tb}

		emitFace(sink, p0, p3, p2, uv0, uv3, uv2)
		emitFace(sink, p0, p2, p1, uv0, uv2, uv1)
	}
}

// emitFace emits one triangle with its normal taken from its own edges.
// Triangles with no area are skipped.
func emitFace(sink mesh.Sink, a, b, c math.Vec3, ua, ub, uc math.Vec2) {
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Length() <= minArea {
		return
	}
	n = n.Normalize()
	sink.Emit(a, n, ua)
	sink.Emit(b, n, ub)
	sink.Emit(c, n, uc)
}

// arcFractions returns the arc-length position of every point of r in
// [0, 1], with one extra entry of 1 for the closing point.
func arcFractions(r ring) []float32 {
	pts := r.points
	out := make([]float32, len(pts)+1)
	var total float32
	for i := 1; i < len(pts); i++ {
		total += pts[i].Distance(pts[i-1])
		out[i] = total
	}
	closing := total
	if r.closed {
		closing += pts[0].Distance(pts[len(pts)-1])
	}
	out[len(pts)] = closing
	if closing == 0 {
		for i := range out {
			out[i] = float32(i) / float32(len(pts))
		}
		return out
	}
	for i := range out {
		out[i] /= closing
	}
	return out
}

func triangulateLayout(l layout) ([]triangulate.Triangle, error) {
	holes := make([][]math.Vec2, 0, len(l)-1)
	for _, h := range l[1:] {
		holes = append(holes, h.points)
	}
	return triangulate.Shape(l[0].points, holes)
}

// bounds returns the extent of the outer ring, used for cap texcoords.
func bounds(l layout) (lo, hi math.Vec2) {
	pts := l[0].points
	lo, hi = pts[0], pts[0]
	for _, p := range pts[1:] {
		lo = math.Vec2{X: min(lo.X, p.X), Y: min(lo.Y, p.Y)}
		hi = math.Vec2{X: max(hi.X, p.X), Y: max(hi.Y, p.Y)}
	}
	return lo, hi
}

// emitCap places counter-clockwise section triangles with f. The frame
// basis maps them to face -Forward, which is outward at the start; the end
// cap is reversed to face +Forward.
func emitCap(sink mesh.Sink, f frame.Frame, tris []triangulate.Triangle, lo, hi math.Vec2, end bool) {
	normal := f.Forward.Negate()
	if end {
		normal = f.Forward
	}
	size := hi.Sub(lo)
	uv := func(p math.Vec2) math.Vec2 {
		var out math.Vec2
		if size.X > 0 {
			out.X = (p.X - lo.X) / size.X
		}
		if size.Y > 0 {
			out.Y = (p.Y - lo.Y) / size.Y
		}
		return out
	}

	for _, t := range tris {
		a, b, c := t[0], t[1], t[2]
		if end {
			b, c = c, b
		}
		sink.Emit(f.Place(a), normal, uv(a))
		sink.Emit(f.Place(b), normal, uv(b))
		sink.Emit(f.Place(c), normal, uv(c))
	}
}
