// Package glyph turns TrueType and OpenType glyph outlines into contour
// shapes that can be triangulated or extruded.
//
// Coordinates are y-up with the baseline at y = 0 and one em equal to the
// requested size. Outer contours and holes are told apart by nesting, not by
// the winding the font stores.
package glyph

import (
	"errors"
	"fmt"
	"sort"

	"github.com/chewxy/math32"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/meshkit/pkg/contour"
	"github.com/Faultbox/meshkit/pkg/math"
	"github.com/Faultbox/meshkit/pkg/mesh"
)

// Font is a parsed font. It is safe for concurrent use.
type Font struct {
	sf   *sfnt.Font
	upem float32
	ppem fixed.Int26_6
}

// Parse parses TrueType or OpenType font data.
func Parse(data []byte) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}
	upem := sf.UnitsPerEm()
	// Outlines are loaded at one pixel per font unit so they keep the
	// font's full precision; Glyph scales them afterwards.
	return &Font{sf: sf, upem: float32(upem), ppem: fixed.Int26_6(upem) << 6}, nil
}

// Default returns the Go Regular font bundled with golang.org/x/image.
func Default() (*Font, error) {
	return Parse(goregular.TTF)
}

// Name returns the font family name, or "" if the font has none.
func (f *Font) Name() string {
	var buf sfnt.Buffer
	name, err := f.sf.Name(&buf, sfnt.NameIDFamily)
	if err != nil {
		return ""
	}
	return name
}

// Outline is one glyph at a given size.
type Outline struct {
	Contours []*contour.Path
	Advance  float32
}

// Glyph returns the outline of r scaled so one em equals size. Runes the
// font lacks map to its missing-glyph outline.
func (f *Font) Glyph(r rune, size float32) (Outline, error) {
	if size <= 0 {
		return Outline{}, fmt.Errorf("%w: glyph size must be positive, got %v", mesh.ErrInvalidParameter, size)
	}
	var buf sfnt.Buffer
	idx, err := f.sf.GlyphIndex(&buf, r)
	if err != nil {
		return Outline{}, fmt.Errorf("glyph index for %q: %w", r, err)
	}
	return f.outline(&buf, idx, size/f.upem)
}

func (f *Font) outline(buf *sfnt.Buffer, idx sfnt.GlyphIndex, scale float32) (Outline, error) {
	adv, err := f.sf.GlyphAdvance(buf, idx, f.ppem, font.HintingNone)
	if err != nil {
		return Outline{}, fmt.Errorf("glyph %d advance: %w", idx, err)
	}
	segments, err := f.sf.LoadGlyph(buf, idx, f.ppem, nil)
	if err != nil {
		return Outline{}, fmt.Errorf("loading glyph %d: %w", idx, err)
	}

	// sfnt coordinates are y-down.
	pt := func(p fixed.Point26_6) (float32, float32) {
		return fixedToFloat(p.X) * scale, -fixedToFloat(p.Y) * scale
	}

	out := Outline{Advance: fixedToFloat(adv) * scale}
	var cur *contour.Path
	finish := func() {
		if cur != nil && len(cur.Elements) > 1 {
			out.Contours = append(out.Contours, cur.Close())
		}
		cur = nil
	}
	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			finish()
			x, y := pt(seg.Args[0])
			cur = contour.NewPath().MoveTo(x, y)
		case sfnt.SegmentOpLineTo:
			x, y := pt(seg.Args[0])
			cur.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(seg.Args[0])
			x, y := pt(seg.Args[1])
			cur.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(seg.Args[0])
			c2x, c2y := pt(seg.Args[1])
			x, y := pt(seg.Args[2])
			cur.CubicTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	finish()
	return out, nil
}

// Shapes lays text out on the baseline starting at the origin and returns
// one shape per filled region. A newline starts a new line one line height
// further down. Pair kerning is applied when the font has it.
func (f *Font) Shapes(text string, size, tolerance float32) ([]contour.Shape, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: text size must be positive, got %v", mesh.ErrInvalidParameter, size)
	}
	scale := size / f.upem
	var buf sfnt.Buffer
	metrics, err := f.sf.Metrics(&buf, f.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("font metrics: %w", err)
	}
	lineHeight := fixedToFloat(metrics.Height) * scale

	var shapes []contour.Shape
	var x, y float32
	var prev sfnt.GlyphIndex
	hasPrev := false
	for _, r := range text {
		if r == '\n' {
			x, y, hasPrev = 0, y-lineHeight, false
			continue
		}
		idx, err := f.sf.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("glyph index for %q: %w", r, err)
		}
		if hasPrev {
			k, err := f.sf.Kern(&buf, prev, idx, f.ppem, font.HintingNone)
			switch {
			case err == nil:
				x += fixedToFloat(k) * scale
			case !errors.Is(err, sfnt.ErrNotFound):
				return nil, fmt.Errorf("kerning %q: %w", r, err)
			}
		}
		o, err := f.outline(&buf, idx, scale)
		if err != nil {
			return nil, err
		}
		for _, c := range o.Contours {
			offset(c, x, y)
		}
		shapes = append(shapes, Group(o.Contours, tolerance)...)
		x += o.Advance
		prev, hasPrev = idx, true
	}
	return shapes, nil
}

// Width returns the advance width of a single line of text.
func (f *Font) Width(text string, size float32) (float32, error) {
	var buf sfnt.Buffer
	var w float32
	for _, r := range text {
		idx, err := f.sf.GlyphIndex(&buf, r)
		if err != nil {
			return 0, err
		}
		adv, err := f.sf.GlyphAdvance(&buf, idx, f.ppem, font.HintingNone)
		if err != nil {
			return 0, err
		}
		w += fixedToFloat(adv)
	}
	return w * size / f.upem, nil
}

// Group sorts closed contours into shapes. A contour nested inside an odd
// number of others is a hole of the smallest contour containing it; every
// other contour is an outer.
func Group(contours []*contour.Path, tolerance float32) []contour.Shape {
	type ring struct {
		path  *contour.Path
		pts   []math.Vec2
		area  float32
		depth int
		outer int
	}
	rings := make([]*ring, 0, len(contours))
	for _, c := range contours {
		pts := c.Linearize(tolerance)
		a := math32.Abs(contour.SignedArea(pts))
		if len(pts) < 3 || a == 0 {
			continue
		}
		rings = append(rings, &ring{path: c, pts: pts, area: a, outer: -1})
	}
	// Largest first, so a ring's containers always precede it.
	sort.SliceStable(rings, func(i, j int) bool { return rings[i].area > rings[j].area })

	for i, r := range rings {
		for j := 0; j < i; j++ {
			if !contains(rings[j].pts, r.pts[0]) {
				continue
			}
			r.depth++
			r.outer = j
		}
	}

	var shapes []contour.Shape
	index := make(map[int]int)
	for i, r := range rings {
		if r.depth%2 == 0 {
			index[i] = len(shapes)
			shapes = append(shapes, contour.Shape{Outer: r.path})
			continue
		}
		if s, ok := index[r.outer]; ok {
			shapes[s].Holes = append(shapes[s].Holes, r.path)
		}
	}
	return shapes
}

// contains reports whether p lies inside the closed polygon pts
// (even-odd rule).
func contains(pts []math.Vec2, p math.Vec2) bool {
	in := false
	for i, j := 0, len(pts)-1; i < len(pts); j, i = i, i+1 {
		a, b := pts[i], pts[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			in = !in
		}
	}
	return in
}

func offset(p *contour.Path, dx, dy float32) {
	d := math.Vec2{X: dx, Y: dy}
	for i, e := range p.Elements {
		switch e := e.(type) {
		case contour.MoveTo:
			p.Elements[i] = contour.MoveTo{Point: e.Point.Add(d)}
		case contour.LineTo:
			p.Elements[i] = contour.LineTo{Point: e.Point.Add(d)}
		case contour.QuadTo:
			p.Elements[i] = contour.QuadTo{Control: e.Control.Add(d), Point: e.Point.Add(d)}
		case contour.CubicTo:
			p.Elements[i] = contour.CubicTo{Control1: e.Control1.Add(d), Control2: e.Control2.Add(d), Point: e.Point.Add(d)}
		}
	}
}

func fixedToFloat(x fixed.Int26_6) float32 {
	return float32(x) / 64
}
