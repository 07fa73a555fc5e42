package scene

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/meshkit/pkg/builder"
	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/extrude"
	"github.com/Faultbox/meshkit/pkg/glyph"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// defaultMorphPoints is the resampling count for morphed sections.
const defaultMorphPoints = 64

// Options controls a scene build.
type Options struct {
	// Tolerance is the curve linearization distance.
	Tolerance float32
	// Workers limits how many objects are built at once; 0 means no limit.
	Workers int
	// Color is the starting color of every object; empty means white.
	Color string
	// Smooth smooths the normals of every object, not only those that ask.
	Smooth bool
	// Font renders text parts; nil loads the bundled Go Regular font.
	Font *glyph.Font
	// Logger receives build progress; nil discards it.
	Logger *zap.Logger
}

// ObjectResult summarizes one built object.
type ObjectResult struct {
	Name     string
	Vertices []mesh.Vertex
	Bounds   mesh.Bounds
	Elapsed  time.Duration
}

// Result is a built scene.
type Result struct {
	Objects []ObjectResult
	// Vertices holds every object's vertices in declaration order.
	Vertices []mesh.Vertex
}

// Bounds returns the bounds of the whole scene.
func (r *Result) Bounds() mesh.Bounds {
	return mesh.BoundsOf(r.Vertices)
}

// Build builds every object of sc concurrently. The context is checked
// before each object starts; an object that has started always finishes.
// On error no result is returned.
func Build(ctx context.Context, sc *Scene, opts Options) (*Result, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if opts.Font == nil && sc.usesText() {
		f, err := glyph.Default()
		if err != nil {
			return nil, err
		}
		opts.Font = f
	}

	start := time.Now()
	results := make([]ObjectResult, len(sc.Objects))
	g, ctx := errgroup.WithContext(ctx)
	if opts.Workers > 0 {
		g.SetLimit(opts.Workers)
	}
	for i := range sc.Objects {
		obj := &sc.Objects[i]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			name := obj.Name
			if name == "" {
				name = fmt.Sprintf("object %d", i)
			}
			t0 := time.Now()
			b, err := buildObject(obj, opts)
			if err != nil {
				log.Warn("object failed", zap.String("object", name), zap.Error(err))
				return fmt.Errorf("%s: %w", name, err)
			}
			results[i] = ObjectResult{
				Name:     name,
				Vertices: b.Vertices(),
				Bounds:   b.Bounds(),
				Elapsed:  time.Since(t0),
			}
			log.Debug("object built",
				zap.String("object", name),
				zap.Int("vertices", b.VertexCount()),
				zap.Duration("elapsed", results[i].Elapsed))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r.Vertices)
	}
	all := make([]mesh.Vertex, 0, total)
	for _, r := range results {
		all = append(all, r.Vertices...)
	}
	log.Info("scene built",
		zap.String("scene", sc.Name),
		zap.Int("objects", len(results)),
		zap.Int("vertices", total),
		zap.Duration("elapsed", time.Since(start)))
	return &Result{Objects: results, Vertices: all}, nil
}

// BuildParts builds parts into a fresh builder, as a single object would.
func BuildParts(parts []Part, opts Options) (*builder.Builder, error) {
	return buildObject(&Object{Parts: parts}, opts)
}

func buildObject(obj *Object, opts Options) (*builder.Builder, error) {
	b := builder.New()
	if opts.Color != "" {
		if err := b.SetColorName(opts.Color); err != nil {
			return nil, err
		}
	}
	if err := obj.Transform.apply(b); err != nil {
		return nil, err
	}
	if err := addParts(b, obj.Parts, opts); err != nil {
		return nil, err
	}
	if obj.Smooth || opts.Smooth {
		b.SmoothNormals()
	}
	return b, nil
}

func addParts(b *builder.Builder, parts []Part, opts Options) error {
	for i := range parts {
		p := &parts[i]
		err := b.Isolated(func(b *builder.Builder) error {
			if err := p.Transform.apply(b); err != nil {
				return err
			}
			return p.add(b, opts)
		})
		if err != nil {
			return fmt.Errorf("part %d: %w", i, err)
		}
	}
	return nil
}

func (t *Transform) apply(b *builder.Builder) error {
	if t.Color != "" {
		if err := b.SetColorName(t.Color); err != nil {
			return err
		}
	}
	if len(t.Translate) == 3 {
		b.Translate(t.Translate[0], t.Translate[1], t.Translate[2])
	}
	if len(t.Rotate) == 3 {
		b.RotateZ(radians(t.Rotate[2]))
		b.RotateY(radians(t.Rotate[1]))
		b.RotateX(radians(t.Rotate[0]))
	}
	switch len(t.Scale) {
	case 1:
		b.Scale(t.Scale[0], t.Scale[0], t.Scale[0])
	case 3:
		b.Scale(t.Scale[0], t.Scale[1], t.Scale[2])
	}
	return nil
}

func (p *Part) add(b *builder.Builder, opts Options) error {
	switch {
	case p.Box != nil:
		return b.Add(p.Box.primitive())
	case p.Plane != nil:
		return b.Add(p.Plane.primitive())
	case p.Sphere != nil:
		return b.Add(&mesh.Sphere{
			Sides:       p.Sphere.Sides,
			Segments:    p.Sphere.Segments,
			Radius:      p.Sphere.Radius,
			Hemisphere:  p.Sphere.Hemisphere,
			FlipNormals: p.Sphere.Flip,
		})
	case p.Cylinder != nil:
		return b.Add(p.Cylinder.primitive())
	case p.Revolve != nil:
		return b.Add(p.Revolve.primitive())
	case p.Dodecahedron != nil:
		return b.Add(mesh.NewDodecahedron(p.Dodecahedron.Radius))
	case p.Extrude != nil:
		return p.Extrude.add(b, opts.Tolerance)
	case p.Text != nil:
		return p.Text.add(b, opts.Font, opts.Tolerance)
	case p.Group != nil:
		return b.Group(func(g *builder.Builder) error {
			if err := p.Group.Transform.apply(g); err != nil {
				return err
			}
			return addParts(g, p.Group.Parts, opts)
		})
	}
	return fmt.Errorf("%w: empty part", ErrInvalidScene)
}

func (s *BoxSpec) primitive() *mesh.Box {
	bx := mesh.NewBox(s.Width, s.Height, s.Depth)
	if len(s.Segments) == 3 {
		bx.SegmentsX, bx.SegmentsY, bx.SegmentsZ = s.Segments[0], s.Segments[1], s.Segments[2]
	}
	bx.FlipNormals = s.Flip
	return bx
}

func (s *PlaneSpec) primitive() *mesh.Plane {
	pl := mesh.NewPlane(s.Width, s.Height)
	if len(s.Segments) == 2 {
		pl.SegmentsX, pl.SegmentsY = s.Segments[0], s.Segments[1]
	}
	pl.FlipNormals = s.Flip
	return pl
}

func (s *CylinderSpec) primitive() *mesh.Cylinder {
	end := s.RadiusEnd
	if end == 0 {
		end = s.Radius
	}
	segments := s.Segments
	if segments == 0 {
		segments = 1
	}
	cy := mesh.NewTaperedCylinder(s.Sides, segments, s.Radius, end, s.Length)
	cy.Center = s.Center
	cy.Invert = s.Invert
	return cy
}

func (s *RevolveSpec) primitive() *mesh.Revolve {
	var rv *mesh.Revolve
	if s.Dome > 0 {
		rv = mesh.NewCap(s.Sides, s.Dome, s.Radius, s.Length)
	} else {
		env := make([]math.Vec2, len(s.Envelope))
		for i, p := range s.Envelope {
			env[i] = math.V2(p[0], p[1])
		}
		rv = mesh.NewRevolve(s.Sides, s.Radius, s.Length, env)
	}
	rv.FlipNormals = s.Flip
	return rv
}

func (s *ExtrudeSpec) add(b *builder.Builder, tolerance float32) error {
	shape, err := s.Section.shape()
	if err != nil {
		return err
	}
	path, err := s.Path.path(tolerance)
	if err != nil {
		return err
	}

	var section extrude.CrossSection = extrude.Fixed{Shape: shape}
	switch {
	case s.MorphTo != nil:
		if len(shape.Holes) > 0 || len(s.MorphTo.Holes) > 0 {
			return fmt.Errorf("%w: morphed sections cannot have holes", ErrInvalidScene)
		}
		to, err := s.MorphTo.curve()
		if err != nil {
			return err
		}
		n := s.MorphPoints
		if n <= 0 {
			n = defaultMorphPoints
		}
		section = extrude.Morphed{Shape: contour.Morph(shape.Outer, to, n)}
	case s.ScaleEnd != nil:
		end := *s.ScaleEnd
		section = extrude.Scaled{Shape: shape, Scale: func(t float32) float32 {
			return 1 + (end-1)*t
		}}
	}

	opts := extrude.Options{StartCap: s.Caps, EndCap: s.Caps, Tolerance: tolerance}
	if len(s.Up) == 3 {
		opts.Up = math.V3(s.Up[0], s.Up[1], s.Up[2])
	}
	return b.Extrude(section, path, opts)
}

func (s *SectionSpec) shape() (contour.Shape, error) {
	outer, err := s.curve()
	if err != nil {
		return contour.Shape{}, err
	}
	shape := contour.Shape{Outer: outer}
	for i := range s.Holes {
		h, err := s.Holes[i].curve()
		if err != nil {
			return contour.Shape{}, fmt.Errorf("hole %d: %w", i, err)
		}
		shape.Holes = append(shape.Holes, h)
	}
	return shape, nil
}

func (s *SectionSpec) curve() (contour.Curve, error) {
	var c contour.Curve
	n := 0
	if s.Circle != 0 {
		c = contour.NewCircle(s.Circle)
		n++
	}
	if len(s.Ellipse) == 2 {
		c = contour.NewEllipse(s.Ellipse[0], s.Ellipse[1])
		n++
	}
	if len(s.Rect) == 2 {
		c = contour.NewRect(s.Rect[0], s.Rect[1])
		n++
	}
	if s.Polygon != nil {
		c = contour.NewRegularPolygon(s.Polygon.Sides, s.Polygon.Radius)
		n++
	}
	if s.Star != nil {
		c = contour.NewStar(s.Star.Points, s.Star.Outer, s.Star.Inner)
		n++
	}
	if len(s.Points) > 0 {
		pts := make([]math.Vec2, len(s.Points))
		for i, p := range s.Points {
			pts[i] = math.V2(p[0], p[1])
		}
		c = &contour.Polyline{Points: pts, Closed: !s.Open}
		n++
	}
	if n != 1 {
		return nil, fmt.Errorf("%w: section needs exactly one contour, got %d", ErrInvalidScene, n)
	}
	return c, nil
}

func (s *PathSpec) path(tolerance float32) (contour.Path3, error) {
	var p contour.Path3
	n := 0
	if s.Line != nil {
		segments := max(s.Line.Segments, 1)
		p = contour.NewLine3(vec3(s.Line.From), vec3(s.Line.To), segments)
		n++
	}
	if s.Ring != nil {
		p = contour.NewRing3(s.Ring.Radius, s.Ring.Segments)
		n++
	}
	if s.Helix != nil {
		p = contour.NewHelix(s.Helix.Radius, s.Helix.Pitch, s.Helix.Turns, s.Helix.Segments)
		n++
	}
	if s.Cubic != nil {
		c := s.Cubic.Points
		p = contour.NewCubic3(vec3(c[0]), vec3(c[1]), vec3(c[2]), vec3(c[3]), tolerance)
		n++
	}
	if len(s.Points) > 0 {
		pts := make([]math.Vec3, len(s.Points))
		for i, q := range s.Points {
			pts[i] = vec3(q)
		}
		p = contour.Path3{Points: pts, Closed: s.Closed}
		n++
	}
	if n != 1 {
		return contour.Path3{}, fmt.Errorf("%w: path needs exactly one kind, got %d", ErrInvalidScene, n)
	}
	return p, nil
}

// add extrudes the text backwards along -Z so the first cap is the front
// face and the glyphs read left to right from +Z.
func (s *TextSpec) add(b *builder.Builder, f *glyph.Font, tolerance float32) error {
	if s.Depth <= 0 {
		return fmt.Errorf("%w: text depth must be positive, got %v", mesh.ErrInvalidParameter, s.Depth)
	}
	if tolerance <= 0 {
		tolerance = contour.DefaultTolerance
	}
	if f == nil {
		var err error
		if f, err = glyph.Default(); err != nil {
			return err
		}
	}
	shapes, err := f.Shapes(s.Text, s.Size, tolerance)
	if err != nil {
		return err
	}
	path := contour.NewLine3(math.Vec3{}, math.V3(0, 0, -s.Depth), 1)
	for i, shape := range shapes {
		err := b.Extrude(extrude.Fixed{Shape: shape}, path, extrude.Options{
			StartCap:  true,
			EndCap:    true,
			Tolerance: tolerance,
		})
		if err != nil {
			return fmt.Errorf("text region %d: %w", i, err)
		}
	}
	return nil
}

func vec3(a [3]float32) math.Vec3 {
	return math.V3(a[0], a[1], a[2])
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}
