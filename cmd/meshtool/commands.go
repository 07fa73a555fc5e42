package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/meshkit/internal/config"
	"github.com/Faultbox/meshkit/internal/logger"
	"github.com/Faultbox/meshkit/internal/scene"
)

// common holds the options every generating command accepts.
type common struct {
	flags  *config.Flags
	color  string
	smooth bool
}

func newFlagSet(name string, stderr io.Writer) (*flag.FlagSet, *common) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	c := &common{flags: config.RegisterFlags(fs)}
	fs.StringVar(&c.color, "color", "", "SVG color name")
	fs.BoolVar(&c.smooth, "smooth", false, "Average normals of shared corners")
	return fs, c
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return errUsage
	}
	return nil
}

// setup loads the configuration and installs the logger.
func (c *common) setup(name string, stderr io.Writer) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(c.flags)
	if err != nil {
		return nil, nil, err
	}
	opts := logger.Options{Level: cfg.Logging.Level, Console: stderr}
	if cfg.Logging.LogFile != "" {
		opts.File = logger.DefaultFileConfig(cfg.Logging.LogFile)
	}
	if err := logger.InitWithOptions(opts); err != nil {
		return nil, nil, err
	}
	return cfg, logger.Named(name), nil
}

// generate builds parts as a one-object scene and writes the result.
func (c *common) generate(ctx context.Context, name string, parts []scene.Part, stdout, stderr io.Writer) error {
	cfg, log, err := c.setup(name, stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc := &scene.Scene{
		Name:    name,
		Objects: []scene.Object{{Name: name, Smooth: c.smooth, Parts: parts}},
	}
	return build(ctx, cfg, sc, c.color, log, stdout)
}

func build(ctx context.Context, cfg *config.Config, sc *scene.Scene, color string, log *zap.Logger, stdout io.Writer) error {
	if color == "" {
		color = cfg.Generation.Color
	}
	res, err := scene.Build(ctx, sc, scene.Options{
		Tolerance: cfg.Generation.Tolerance,
		Workers:   cfg.Generation.Workers,
		Color:     color,
		Smooth:    cfg.Generation.SmoothNormals,
		Logger:    log,
	})
	if err != nil {
		return err
	}
	return writeOutput(cfg.Output, sc.Name, res, log, stdout)
}

func cmdBox(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("box", stderr)
	width := fs.Float64("width", 1, "Size along X")
	height := fs.Float64("height", 1, "Size along Y")
	depth := fs.Float64("depth", 1, "Size along Z")
	segments := fs.Int("segments", 1, "Grid cells along every edge")
	flip := fs.Bool("flip", false, "Point faces inward")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return c.generate(ctx, "box", []scene.Part{{Box: &scene.BoxSpec{
		Width:    float32(*width),
		Height:   float32(*height),
		Depth:    float32(*depth),
		Segments: []int{*segments, *segments, *segments},
		Flip:     *flip,
	}}}, stdout, stderr)
}

func cmdPlane(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("plane", stderr)
	width := fs.Float64("width", 1, "Size along X")
	height := fs.Float64("height", 1, "Size along Y")
	segments := fs.Int("segments", 1, "Grid cells along every edge")
	flip := fs.Bool("flip", false, "Face -Z instead of +Z")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return c.generate(ctx, "plane", []scene.Part{{Plane: &scene.PlaneSpec{
		Width:    float32(*width),
		Height:   float32(*height),
		Segments: []int{*segments, *segments},
		Flip:     *flip,
	}}}, stdout, stderr)
}

func cmdSphere(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("sphere", stderr)
	sides := fs.Int("sides", 24, "Divisions around the Y axis")
	segments := fs.Int("segments", 12, "Divisions from pole to pole")
	radius := fs.Float64("radius", 1, "Radius")
	hemisphere := fs.Bool("hemisphere", false, "Upper half only")
	flip := fs.Bool("flip", false, "Point faces inward")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return c.generate(ctx, "sphere", []scene.Part{{Sphere: &scene.SphereSpec{
		Sides:      *sides,
		Segments:   *segments,
		Radius:     float32(*radius),
		Hemisphere: *hemisphere,
		Flip:       *flip,
	}}}, stdout, stderr)
}

func cmdCylinder(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("cylinder", stderr)
	sides := fs.Int("sides", 24, "Divisions around the Y axis")
	segments := fs.Int("segments", 1, "Rings along the length")
	radius := fs.Float64("radius", 1, "Radius at y = 0")
	radiusEnd := fs.Float64("radius-end", 0, "Radius at the far end (default -radius)")
	length := fs.Float64("length", 1, "Length along +Y")
	center := fs.Bool("center", false, "Centre on the origin")
	invert := fs.Bool("invert", false, "Turn the wall inside out")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return c.generate(ctx, "cylinder", []scene.Part{{Cylinder: &scene.CylinderSpec{
		Sides:     *sides,
		Segments:  *segments,
		Radius:    float32(*radius),
		RadiusEnd: float32(*radiusEnd),
		Length:    float32(*length),
		Center:    *center,
		Invert:    *invert,
	}}}, stdout, stderr)
}

func cmdRevolve(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("revolve", stderr)
	sides := fs.Int("sides", 24, "Divisions around the Y axis")
	radius := fs.Float64("radius", 1, "Scale of the profile X values")
	length := fs.Float64("length", 1, "Scale of the profile Y values")
	dome := fs.Int("dome", 0, "Build a dome cap with this many segments")
	envelope := fs.String("envelope", "", `Profile points as "x,y x,y ..."`)
	flip := fs.Bool("flip", false, "Point faces inward")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	spec := &scene.RevolveSpec{
		Sides:  *sides,
		Radius: float32(*radius),
		Length: float32(*length),
		Dome:   *dome,
		Flip:   *flip,
	}
	if *dome == 0 {
		pts, err := parsePoints(*envelope)
		if err != nil {
			return fmt.Errorf("-envelope: %w", err)
		}
		spec.Envelope = pts
	}
	return c.generate(ctx, "revolve", []scene.Part{{Revolve: spec}}, stdout, stderr)
}

func cmdDodecahedron(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("dodeca", stderr)
	radius := fs.Float64("radius", 1, "Circumradius")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	return c.generate(ctx, "dodecahedron", []scene.Part{{
		Dodecahedron: &scene.DodecahedronSpec{Radius: float32(*radius)},
	}}, stdout, stderr)
}

func cmdExtrude(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("extrude", stderr)
	section := fs.String("section", "circle", "Section: circle, rect, polygon or star")
	radius := fs.Float64("radius", 0.25, "Section radius (outer radius for stars)")
	inner := fs.Float64("inner", 0.1, "Inner radius of a star")
	sides := fs.Int("sides", 6, "Polygon sides")
	points := fs.Int("points", 5, "Star points")
	hole := fs.Float64("hole", 0, "Radius of a circular hole in the section")
	path := fs.String("path", "line", "Path: line, ring or helix")
	length := fs.Float64("length", 2, "Line length along +Z")
	pathRadius := fs.Float64("path-radius", 1, "Ring or helix radius")
	pitch := fs.Float64("pitch", 0.5, "Helix rise per turn")
	turns := fs.Float64("turns", 3, "Helix turns")
	segments := fs.Int("segments", 32, "Path segments (per turn for helices)")
	caps := fs.Bool("caps", false, "Close the ends of open paths")
	var scaleEnd *float32
	fs.Func("scale-end", "Taper the section linearly to this scale", func(s string) error {
		v, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return err
		}
		f := float32(v)
		scaleEnd = &f
		return nil
	})
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	spec := &scene.ExtrudeSpec{Caps: *caps, ScaleEnd: scaleEnd}
	r := float32(*radius)
	switch *section {
	case "circle":
		spec.Section.Circle = r
	case "rect":
		spec.Section.Rect = []float32{2 * r, 2 * r}
	case "polygon":
		spec.Section.Polygon = &scene.PolygonSpec{Sides: *sides, Radius: r}
	case "star":
		spec.Section.Star = &scene.StarSpec{Points: *points, Outer: r, Inner: float32(*inner)}
	default:
		return fmt.Errorf("unknown section %q", *section)
	}
	if *hole > 0 {
		spec.Section.Holes = []scene.SectionSpec{{Circle: float32(*hole)}}
	}

	switch *path {
	case "line":
		spec.Path.Line = &scene.LineSpec{To: [3]float32{0, 0, float32(*length)}, Segments: *segments}
	case "ring":
		spec.Path.Ring = &scene.RingSpec{Radius: float32(*pathRadius), Segments: *segments}
	case "helix":
		spec.Path.Helix = &scene.HelixSpec{
			Radius:   float32(*pathRadius),
			Pitch:    float32(*pitch),
			Turns:    float32(*turns),
			Segments: *segments,
		}
	default:
		return fmt.Errorf("unknown path %q", *path)
	}

	return c.generate(ctx, "extrude", []scene.Part{{Extrude: spec}}, stdout, stderr)
}

func cmdText(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("text", stderr)
	size := fs.Float64("size", 1, "Em size")
	depth := fs.Float64("depth", 0.2, "Extrusion depth")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "Usage: meshtool text [options] <text>")
		return errUsage
	}

	return c.generate(ctx, "text", []scene.Part{{Text: &scene.TextSpec{
		Text:  strings.Join(fs.Args(), " "),
		Size:  float32(*size),
		Depth: float32(*depth),
	}}}, stdout, stderr)
}

func cmdBuild(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs, c := newFlagSet("build", stderr)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Usage: meshtool build [options] <scene.yaml>")
		return errUsage
	}

	cfg, log, err := c.setup("build", stderr)
	if err != nil {
		return err
	}
	defer logger.Sync()

	sc, err := scene.Load(fs.Arg(0))
	if err != nil {
		return err
	}
	if c.smooth {
		cfg.Generation.SmoothNormals = true
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(fs.Arg(0), ".yaml")
	}
	log.Info("building scene", zap.String("file", fs.Arg(0)), zap.Int("objects", len(sc.Objects)))
	return build(ctx, cfg, sc, c.color, log, stdout)
}

func cmdConfig(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := config.RegisterFlags(fs)
	save := fs.Bool("save", false, "Write the effective config to the user config directory")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if *save {
		if err := cfg.Save(); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Saved to %s\n", config.ConfigDir())
	}
	return printConfig(stdout, cfg)
}

// parsePoints parses "x,y x,y ..." pairs.
func parsePoints(s string) ([][2]float32, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, errors.New("no points")
	}
	pts := make([][2]float32, len(fields))
	for i, f := range fields {
		xs, ys, ok := strings.Cut(f, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", f)
		}
		x, err := strconv.ParseFloat(xs, 32)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		y, err := strconv.ParseFloat(ys, 32)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", f, err)
		}
		pts[i] = [2]float32{float32(x), float32(y)}
	}
	return pts, nil
}
