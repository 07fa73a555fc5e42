// Package scene reads YAML scene descriptions and builds them into meshes.
//
// A scene is a list of objects. Each object has its own transform, color and
// parts; a part is one primitive, one extrusion, a run of text or a nested
// group of parts. Objects are built concurrently, one builder each, and
// concatenated in the order they are declared.
package scene

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidScene is returned for scene files that are well-formed YAML but
// do not describe a buildable scene.
var ErrInvalidScene = errors.New("invalid scene")

// Scene is a parsed scene file.
type Scene struct {
	Name    string   `yaml:"name"`
	Objects []Object `yaml:"objects"`
}

// Transform places a group of parts. Translation, rotation and scale are
// composed in that order, so scale applies first. Rotations are in degrees
// and apply around X, then Y, then Z.
type Transform struct {
	Translate []float32 `yaml:"translate,omitempty"`
	Rotate    []float32 `yaml:"rotate,omitempty"`
	// Scale is either one uniform factor or three per-axis factors.
	Scale []float32 `yaml:"scale,omitempty"`
	// Color is an SVG color name; empty keeps the inherited color.
	Color string `yaml:"color,omitempty"`
}

// Object is one independently built item of a scene.
type Object struct {
	Name      string `yaml:"name"`
	Transform `yaml:",inline"`
	Smooth    bool   `yaml:"smooth,omitempty"`
	Parts     []Part `yaml:"parts"`
}

// Part is one piece of an object. Exactly one of the kind fields is set.
type Part struct {
	Transform `yaml:",inline"`

	Box          *BoxSpec          `yaml:"box,omitempty"`
	Plane        *PlaneSpec        `yaml:"plane,omitempty"`
	Sphere       *SphereSpec       `yaml:"sphere,omitempty"`
	Cylinder     *CylinderSpec     `yaml:"cylinder,omitempty"`
	Revolve      *RevolveSpec      `yaml:"revolve,omitempty"`
	Dodecahedron *DodecahedronSpec `yaml:"dodecahedron,omitempty"`
	Extrude      *ExtrudeSpec      `yaml:"extrude,omitempty"`
	Text         *TextSpec         `yaml:"text,omitempty"`
	Group        *GroupSpec        `yaml:"group,omitempty"`
}

// BoxSpec describes a mesh.Box.
type BoxSpec struct {
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
	Depth    float32 `yaml:"depth"`
	Segments []int   `yaml:"segments,omitempty"`
	Flip     bool    `yaml:"flip,omitempty"`
}

// PlaneSpec describes a mesh.Plane.
type PlaneSpec struct {
	Width    float32 `yaml:"width"`
	Height   float32 `yaml:"height"`
	Segments []int   `yaml:"segments,omitempty"`
	Flip     bool    `yaml:"flip,omitempty"`
}

// SphereSpec describes a mesh.Sphere.
type SphereSpec struct {
	Sides      int     `yaml:"sides"`
	Segments   int     `yaml:"segments"`
	Radius     float32 `yaml:"radius"`
	Hemisphere bool    `yaml:"hemisphere,omitempty"`
	Flip       bool    `yaml:"flip,omitempty"`
}

// CylinderSpec describes a mesh.Cylinder. RadiusEnd defaults to Radius.
type CylinderSpec struct {
	Sides     int     `yaml:"sides"`
	Segments  int     `yaml:"segments,omitempty"`
	Radius    float32 `yaml:"radius"`
	RadiusEnd float32 `yaml:"radius_end,omitempty"`
	Length    float32 `yaml:"length"`
	Center    bool    `yaml:"center,omitempty"`
	Invert    bool    `yaml:"invert,omitempty"`
}

// RevolveSpec describes a mesh.Revolve. Either Envelope lists the profile
// points or Dome asks for a quarter-circle dome with that many segments.
type RevolveSpec struct {
	Sides    int          `yaml:"sides"`
	Radius   float32      `yaml:"radius"`
	Length   float32      `yaml:"length"`
	Envelope [][2]float32 `yaml:"envelope,omitempty"`
	Dome     int          `yaml:"dome,omitempty"`
	Flip     bool         `yaml:"flip,omitempty"`
}

// DodecahedronSpec describes a mesh.Dodecahedron.
type DodecahedronSpec struct {
	Radius float32 `yaml:"radius"`
}

// ExtrudeSpec sweeps a section along a path. ScaleEnd tapers the section
// linearly from 1 at the start to ScaleEnd at the end; MorphTo blends the
// outer contour into another one, both resampled to MorphPoints points.
type ExtrudeSpec struct {
	Section     SectionSpec  `yaml:"section"`
	Path        PathSpec     `yaml:"path"`
	ScaleEnd    *float32     `yaml:"scale_end,omitempty"`
	MorphTo     *SectionSpec `yaml:"morph_to,omitempty"`
	MorphPoints int          `yaml:"morph_points,omitempty"`
	Caps        bool         `yaml:"caps,omitempty"`
	Up          []float32    `yaml:"up,omitempty"`
}

// SectionSpec is a 2D contour with optional holes. Exactly one of the kind
// fields is set.
type SectionSpec struct {
	Circle  float32       `yaml:"circle,omitempty"`
	Ellipse []float32     `yaml:"ellipse,omitempty"`
	Rect    []float32     `yaml:"rect,omitempty"`
	Polygon *PolygonSpec  `yaml:"polygon,omitempty"`
	Star    *StarSpec     `yaml:"star,omitempty"`
	Points  [][2]float32  `yaml:"points,omitempty"`
	Open    bool          `yaml:"open,omitempty"`
	Holes   []SectionSpec `yaml:"holes,omitempty"`
}

// PolygonSpec is a regular polygon.
type PolygonSpec struct {
	Sides  int     `yaml:"sides"`
	Radius float32 `yaml:"radius"`
}

// StarSpec is a star with alternating outer and inner radii.
type StarSpec struct {
	Points int     `yaml:"points"`
	Outer  float32 `yaml:"outer"`
	Inner  float32 `yaml:"inner"`
}

// PathSpec is a 3D path. Exactly one of Line, Ring, Helix, Cubic or
// Points is set.
type PathSpec struct {
	Line   *LineSpec    `yaml:"line,omitempty"`
	Ring   *RingSpec    `yaml:"ring,omitempty"`
	Helix  *HelixSpec   `yaml:"helix,omitempty"`
	Cubic  *CubicSpec   `yaml:"cubic,omitempty"`
	Points [][3]float32 `yaml:"points,omitempty"`
	Closed bool         `yaml:"closed,omitempty"`
}

// CubicSpec is a cubic Bezier path from Points[0] to Points[3], flattened
// to the generation tolerance.
type CubicSpec struct {
	Points [4][3]float32 `yaml:"points"`
}

// LineSpec is a straight path.
type LineSpec struct {
	From     [3]float32 `yaml:"from"`
	To       [3]float32 `yaml:"to"`
	Segments int        `yaml:"segments,omitempty"`
}

// RingSpec is a closed circle in the XZ plane.
type RingSpec struct {
	Radius   float32 `yaml:"radius"`
	Segments int     `yaml:"segments"`
}

// HelixSpec is a helix rising along +Y.
type HelixSpec struct {
	Radius   float32 `yaml:"radius"`
	Pitch    float32 `yaml:"pitch"`
	Turns    float32 `yaml:"turns"`
	Segments int     `yaml:"segments"`
}

// TextSpec is a line (or lines) of extruded text. The front face lies in
// the XY plane facing +Z and the text runs along +X from the origin.
type TextSpec struct {
	Text  string  `yaml:"text"`
	Size  float32 `yaml:"size"`
	Depth float32 `yaml:"depth"`
}

// GroupSpec is a nested set of parts built in their own builder.
type GroupSpec struct {
	Transform `yaml:",inline"`
	Parts     []Part `yaml:"parts"`
}

// Parse decodes a scene from YAML. Unknown keys are rejected.
func Parse(data []byte) (*Scene, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sc Scene
	if err := dec.Decode(&sc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty scene", ErrInvalidScene)
		}
		return nil, fmt.Errorf("decoding scene: %w", err)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Load reads and parses a scene file.
func Load(path string) (*Scene, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	sc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// Marshal encodes the scene as YAML.
func (sc *Scene) Marshal() ([]byte, error) {
	return yaml.Marshal(sc)
}

// Validate checks the structure of the scene: every part has exactly one
// kind and transforms have the right arity. Generator parameters are
// checked when the scene is built.
func (sc *Scene) Validate() error {
	if len(sc.Objects) == 0 {
		return fmt.Errorf("%w: no objects", ErrInvalidScene)
	}
	for i, obj := range sc.Objects {
		where := fmt.Sprintf("object %d", i)
		if obj.Name != "" {
			where = fmt.Sprintf("object %q", obj.Name)
		}
		if err := obj.Transform.validate(); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidScene, where, err)
		}
		if err := validateParts(obj.Parts); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidScene, where, err)
		}
	}
	return nil
}

func validateParts(parts []Part) error {
	if len(parts) == 0 {
		return errors.New("no parts")
	}
	for i, p := range parts {
		if err := p.Transform.validate(); err != nil {
			return fmt.Errorf("part %d: %v", i, err)
		}
		if n := p.kinds(); n != 1 {
			return fmt.Errorf("part %d: want exactly one shape, got %d", i, n)
		}
		if p.Group != nil {
			if err := p.Group.Transform.validate(); err != nil {
				return fmt.Errorf("part %d: group: %v", i, err)
			}
			if err := validateParts(p.Group.Parts); err != nil {
				return fmt.Errorf("part %d: group: %v", i, err)
			}
		}
	}
	return nil
}

func (p *Part) kinds() int {
	n := 0
	for _, set := range []bool{
		p.Box != nil, p.Plane != nil, p.Sphere != nil, p.Cylinder != nil,
		p.Revolve != nil, p.Dodecahedron != nil, p.Extrude != nil,
		p.Text != nil, p.Group != nil,
	} {
		if set {
			n++
		}
	}
	return n
}

func (t *Transform) validate() error {
	if len(t.Translate) != 0 && len(t.Translate) != 3 {
		return fmt.Errorf("translate needs 3 values, got %d", len(t.Translate))
	}
	if len(t.Rotate) != 0 && len(t.Rotate) != 3 {
		return fmt.Errorf("rotate needs 3 values, got %d", len(t.Rotate))
	}
	if len(t.Scale) != 0 && len(t.Scale) != 1 && len(t.Scale) != 3 {
		return fmt.Errorf("scale needs 1 or 3 values, got %d", len(t.Scale))
	}
	for _, f := range t.Scale {
		if f == 0 {
			return fmt.Errorf("scale factors must be non-zero, got %v", t.Scale)
		}
	}
	return nil
}

// usesText reports whether any part of the scene renders text.
func (sc *Scene) usesText() bool {
	var walk func([]Part) bool
	walk = func(parts []Part) bool {
		for _, p := range parts {
			if p.Text != nil || (p.Group != nil && walk(p.Group.Parts)) {
				return true
			}
		}
		return false
	}
	for _, obj := range sc.Objects {
		if walk(obj.Parts) {
			return true
		}
	}
	return false
}
