// Package frame computes parallel-transport frames along 3D paths.
package frame

import (
	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// epsilon is the shortest segment or cross product treated as non-zero.
const epsilon float32 = 1e-6

// Frame is an oriented coordinate system attached to one path sample.
//
// Right, Up and Forward are unit length and mutually orthogonal, with
// Right = Forward x Up. A cross-section drawn in the local XY plane is
// placed with X along Right and Y along Up.
type Frame struct {
	Position math.Vec3
	Right    math.Vec3
	Up       math.Vec3
	Forward  math.Vec3
}

// Identity returns the axis-aligned frame at p.
func Identity(p math.Vec3) Frame {
	return Frame{Position: p, Right: math.UnitX, Up: math.UnitY, Forward: math.UnitZ}
}

// Matrix returns the local-to-world transform: columns Right, Up, Forward
// and Position.
func (f Frame) Matrix() math.Mat4 {
	return math.FromBasis(f.Right, f.Up, f.Forward, f.Position)
}

// Place maps a cross-section point to world space.
func (f Frame) Place(p math.Vec2) math.Vec3 {
	return f.Position.Add(f.Right.Scale(p.X)).Add(f.Up.Scale(p.Y))
}

// Compute returns one frame per path sample.
//
// The first frame takes its up vector from the caller; every later frame
// re-orthogonalises the previous frame's up, so the section does not twist
// as the path turns. Interior samples (and every sample of a closed path)
// face along the bisector of the incoming and outgoing segments.
//
// An empty path yields no frames and a single sample yields the identity
// frame at that point. Repeated consecutive samples, an up vector parallel
// to the first segment and 180 degree reversals fail with
// mesh.ErrDegenerateGeometry.
func Compute(path contour.Path3, up math.Vec3) ([]Frame, error) {
	pts := path.Points
	n := len(pts)
	switch n {
	case 0:
		return nil, nil
	case 1:
		return []Frame{Identity(pts[0])}, nil
	}

	// Unit direction of every segment; dirs[i] runs from pts[i] to pts[i+1].
	segs := n - 1
	if path.Closed {
		segs = n
	}
	dirs := make([]math.Vec3, segs)
	for i := range dirs {
		d := pts[(i+1)%n].Sub(pts[i])
		if d.Length() < epsilon {
			return nil, mesh.Degenerate("path samples %d and %d coincide", i, (i+1)%n)
		}
		dirs[i] = d.Normalize()
	}

	frames := make([]Frame, n)
	prevUp := up
	for i := range pts {
		var forward math.Vec3
		switch {
		case path.Closed:
			forward = dirs[(i+n-1)%n].Add(dirs[i])
		case i == 0:
			forward = dirs[0]
		case i == n-1:
			forward = dirs[n-2]
		default:
			forward = dirs[i-1].Add(dirs[i])
		}
		if forward.Length() < epsilon {
			return nil, mesh.Degenerate("path reverses direction at sample %d", i)
		}
		forward = forward.Normalize()

		right := forward.Cross(prevUp)
		if right.Length() < epsilon {
			if i == 0 {
				return nil, mesh.Degenerate("up vector %v is parallel to the path direction", up)
			}
			return nil, mesh.Degenerate("path turns onto its up vector at sample %d", i)
		}
		right = right.Normalize()
		u := right.Cross(forward)

		frames[i] = Frame{Position: pts[i], Right: right, Up: u, Forward: forward}
		prevUp = u
	}
	return frames, nil
}

// Wrap returns frames with the first frame repeated at the end, closing the
// loop of a closed path. Fewer than two frames are returned unchanged.
func Wrap(frames []Frame) []Frame {
	if len(frames) < 2 {
		return frames
	}
	out := make([]Frame, len(frames)+1)
	copy(out, frames)
	out[len(frames)] = frames[0]
	return out
}
