package extrude

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// CrossSection selects how the swept profile varies along the path.
// It is one of Fixed, Scaled or Morphed.
type CrossSection interface {
	isCrossSection()
}

// Fixed sweeps the same shape along the whole path.
type Fixed struct {
	Shape contour.Shape
}

// Scaled sweeps one shape, multiplied at each sample by Scale(t).
type Scaled struct {
	Shape contour.Shape
	Scale func(t float32) float32
}

// Morphed asks for a new shape at every sample. Every shape it returns must
// have the same number of contours with the same number of points each.
type Morphed struct {
	Shape func(t float32) contour.Shape
}

func (Fixed) isCrossSection()   {}
func (Scaled) isCrossSection()  {}
func (Morphed) isCrossSection() {}

// TubeShape returns a regular polygon section, suitable for tubes and wires.
func TubeShape(radius float32, sides int) contour.Shape {
	return contour.Shape{Outer: contour.NewRegularPolygon(sides, radius)}
}

// ring is one linearized contour in section space.
type ring struct {
	points []math.Vec2
	closed bool
}

// layout is the ordered set of rings of one section: outer first, then holes.
type layout []ring

// linearize reduces a shape to rings without touching their winding.
func linearize(s contour.Shape, tolerance float32) (layout, error) {
	if s.Outer == nil {
		return nil, fmt.Errorf("%w: cross-section has no outer contour", mesh.ErrInvalidParameter)
	}
	out := layout{{points: s.Outer.Linearize(tolerance), closed: s.Outer.IsClosed()}}
	if len(out[0].points) < 2 {
		return nil, fmt.Errorf("%w: outer contour needs at least 2 points, got %d",
			mesh.ErrInvalidParameter, len(out[0].points))
	}
	for i, h := range s.Holes {
		pts := h.Linearize(tolerance)
		if len(pts) < 3 || !h.IsClosed() {
			return nil, fmt.Errorf("%w: hole %d must be a closed contour of at least 3 points",
				mesh.ErrInvalidParameter, i)
		}
		out = append(out, ring{points: pts, closed: true})
	}
	return out, nil
}

// orientations reports, per ring, whether it must be reversed so the outer
// ring runs counter-clockwise and holes clockwise. Each ring's decision is
// taken from the first step where it has a non-zero area and then applied
// to every step, so point correspondence between steps is kept.
func orientations(steps []layout) []bool {
	rev := make([]bool, len(steps[0]))
	for r := range rev {
		if !steps[0][r].closed {
			continue
		}
		for _, l := range steps {
			a := contour.SignedArea(l[r].points)
			if math32.Abs(a) < 1e-12 {
				continue
			}
			wantCCW := r == 0
			rev[r] = (a > 0) != wantCCW
			break
		}
	}
	return rev
}

// sameLayout checks that l has the ring structure of ref.
func sameLayout(ref, l layout) error {
	if len(l) != len(ref) {
		return fmt.Errorf("%w: %d contours, want %d", mesh.ErrInconsistentCrossSection, len(l), len(ref))
	}
	for r := range l {
		if len(l[r].points) != len(ref[r].points) || l[r].closed != ref[r].closed {
			return fmt.Errorf("%w: contour %d has %d points, want %d",
				mesh.ErrInconsistentCrossSection, r, len(l[r].points), len(ref[r].points))
		}
	}
	return nil
}

// scaled returns a copy of l multiplied by s.
func (l layout) scaled(s float32) layout {
	out := make(layout, len(l))
	for r, rg := range l {
		pts := make([]math.Vec2, len(rg.points))
		for i, p := range rg.points {
			pts[i] = p.Scale(s)
		}
		out[r] = ring{points: pts, closed: rg.closed}
	}
	return out
}

// sections returns the section layout at every parameter in ts.
func sections(section CrossSection, ts []float32, tolerance float32) ([]layout, error) {
	steps := make([]layout, len(ts))
	switch s := section.(type) {
	case Fixed:
		base, err := linearize(s.Shape, tolerance)
		if err != nil {
			return nil, err
		}
		for k := range steps {
			steps[k] = base
		}
	case Scaled:
		if s.Scale == nil {
			return nil, fmt.Errorf("%w: scaled cross-section has no scale function", mesh.ErrInvalidParameter)
		}
		base, err := linearize(s.Shape, tolerance)
		if err != nil {
			return nil, err
		}
		for k, t := range ts {
			steps[k] = base.scaled(s.Scale(t))
		}
	case Morphed:
		if s.Shape == nil {
			return nil, fmt.Errorf("%w: morphed cross-section has no shape function", mesh.ErrInvalidParameter)
		}
		for k, t := range ts {
			l, err := linearize(s.Shape(t), tolerance)
			if err != nil {
				return nil, fmt.Errorf("at t=%v: %w", t, err)
			}
			if k > 0 {
				if err := sameLayout(steps[0], l); err != nil {
					return nil, fmt.Errorf("at t=%v: %w", t, err)
				}
			}
			steps[k] = l
		}
	default:
		return nil, fmt.Errorf("%w: unknown cross-section %T", mesh.ErrInvalidParameter, section)
	}

	rev := orientations(steps)
	for k, l := range steps {
		// Fixed steps share one layout; copy before reversing in place.
		out := make(layout, len(l))
		for r, rg := range l {
			pts := rg.points
			if rev[r] {
				pts = append([]math.Vec2(nil), pts...)
				contour.Reverse(pts)
			}
			out[r] = ring{points: pts, closed: rg.closed}
		}
		steps[k] = out
	}
	return steps, nil
}
