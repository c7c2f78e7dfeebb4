package textsdf

import (
	"errors"
	"fmt"
	"unicode"

	"github.com/chewxy/math32"
	"github.com/golang/freetype/truetype"
	"github.com/soypat/glgl/math/ms2"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const firstBasic = '!'
const lastBasic = '~'

type FontConfig struct {
	// RelativeGlyphTolerance sets the permissible curve tolerance for glyphs. Must be between 0..1. If zero a reasonable value is chosen.
	RelativeGlyphTolerance float32
}

// Font implements font parsing and glyph outline generation.
type Font struct {
	ttf truetype.Font
	gb  truetype.GlyphBuf
	// basicGlyphs optimized array access for common ASCII glyphs.
	basicGlyphs [lastBasic - firstBasic + 1]Outline
	// Other kinds of glyphs.
	otherGlyphs map[rune]Outline
	reltol      float32 // Set by config or reset call if zeroed.
}

// Outline is the flattened outline of a glyph in normalized font space,
// where the bounding box of all the font's glyphs spans at most [0,1] on each axis.
// Contours follow the TrueType convention: filled regions have non-zero winding.
type Outline struct {
	Contours [][]ms2.Vec
	// Advance is the horizontal advance width in normalized units.
	Advance float32
}

// Empty reports whether the glyph has no visible contours, as is the case of whitespace.
func (o *Outline) Empty() bool { return len(o.Contours) == 0 }

func (f *Font) Configure(cfg FontConfig) error {
	if cfg.RelativeGlyphTolerance < 0 || cfg.RelativeGlyphTolerance >= 1 {
		return errors.New("invalid RelativeGlyphTolerance")
	}
	f.reltol = cfg.RelativeGlyphTolerance
	f.reset()
	return nil
}

// LoadTTFBytes loads a TTF file blob into f. After calling Load the Font is ready to generate glyph outlines.
func (f *Font) LoadTTFBytes(ttf []byte) error {
	font, err := truetype.Parse(ttf)
	if err != nil {
		return err
	}
	f.reset()
	f.ttf = *font
	return nil
}

// reset resets most internal state of Font without removing underlying assigned font.
func (f *Font) reset() {
	for i := range f.basicGlyphs {
		f.basicGlyphs[i] = Outline{}
	}
	if f.otherGlyphs == nil {
		f.otherGlyphs = make(map[rune]Outline)
	} else {
		clear(f.otherGlyphs)
	}
	if f.reltol == 0 {
		f.reltol = 0.15
	}
}

// Glyph returns the outline of a character defined by the argument rune.
func (f *Font) Glyph(c rune) (Outline, error) {
	if !unicode.IsGraphic(c) {
		return Outline{}, fmt.Errorf("char %q not graphic", c)
	}
	if c >= firstBasic && c <= lastBasic {
		// Basic ASCII glyph case.
		g := f.basicGlyphs[c-firstBasic]
		if g.Contours == nil {
			// Glyph not yet created. create it.
			var err error
			g, err = f.makeGlyph(c)
			if err != nil {
				return Outline{}, err
			}
			f.basicGlyphs[c-firstBasic] = g
		}
		return g, nil
	}
	// Unicode or other glyph.
	g, ok := f.otherGlyphs[c]
	if !ok {
		var err error
		g, err = f.makeGlyph(c)
		if err != nil {
			return Outline{}, err
		}
		f.otherGlyphs[c] = g
	}
	return g, nil
}

// HasGlyph reports whether the font maps c to a glyph other than the missing glyph.
func (f *Font) HasGlyph(c rune) bool {
	return f.ttf.Index(c) != 0
}

// Kern returns the horizontal adjustment for the given glyph pair in normalized units.
// A positive kern means to move the glyphs further apart.
func (f *Font) Kern(c0, c1 rune) float32 {
	return float32(f.ttf.Kern(f.scale(), f.ttf.Index(c0), f.ttf.Index(c1))) * f.scaleout()
}

// AdvanceWidth returns the horizontal advance of c in normalized units.
func (f *Font) AdvanceWidth(c rune) float32 {
	return float32(f.ttf.HMetric(f.scale(), f.ttf.Index(c)).AdvanceWidth) * f.scaleout()
}

func (f *Font) scale() fixed.Int26_6 {
	return fixed.Int26_6(f.ttf.FUnitsPerEm())
}

func (f *Font) rawbounds() ms2.Box {
	bb := f.ttf.Bounds(f.scale())
	return ms2.Box{
		Min: ms2.Vec{X: float32(bb.Min.X), Y: float32(bb.Min.Y)},
		Max: ms2.Vec{X: float32(bb.Max.X), Y: float32(bb.Max.Y)},
	}
}

// scaleout is the scaling from font units to normalized units.
func (f *Font) scaleout() float32 {
	sz := f.rawbounds().Size()
	return 1. / math32.Max(sz.X, sz.Y)
}

// Bounds returns the box containing every glyph of the font in normalized units.
func (f *Font) Bounds() ms2.Box {
	bb := f.rawbounds()
	s := f.scaleout()
	return ms2.Box{
		Min: ms2.Vec{},
		Max: ms2.Vec{X: (bb.Max.X - bb.Min.X) * s, Y: (bb.Max.Y - bb.Min.Y) * s},
	}
}

func (f *Font) makeGlyph(char rune) (Outline, error) {
	g := &f.gb
	idx := f.ttf.Index(char)
	scale := f.scale()
	err := g.Load(&f.ttf, scale, idx, font.HintingNone)
	if err != nil {
		return Outline{}, err
	}
	scaleout := f.scaleout()
	origin := f.rawbounds().Min
	out := Outline{
		Contours: [][]ms2.Vec{}, // Non-nil marks the glyph as generated.
		Advance:  float32(f.ttf.HMetric(scale, idx).AdvanceWidth) * scaleout,
	}
	start := 0
	for _, end := range g.Ends {
		poly := glyphCurve(g.Points, start, end, f.reltol, scaleout, origin)
		start = end
		if len(poly) >= 3 {
			out.Contours = append(out.Contours, poly)
		}
	}
	return out, nil
}

// glyphCurve flattens the quadratic TrueType contour in points[start:end] into a polygon.
func glyphCurve(points []truetype.Point, start, end int, tol, scale float32, origin ms2.Vec) []ms2.Vec {
	var sampler = ms2.Spline3Sampler{Spline: quadBezier, Tolerance: tol}
	points = points[start:end]
	n := len(points)
	if n == 0 {
		return nil
	}
	i := 0
	var poly []ms2.Vec
	for i < n {
		p0, p1, p2 := points[i], points[(i+1)%n], points[(i+2)%n]
		onBits := onbits3(points, 0, n, i)
		v0, v1, v2 := p2v(p0, scale, origin), p2v(p1, scale, origin), p2v(p2, scale, origin)
		implicit0 := ms2.Scale(0.5, ms2.Add(v0, v1))
		implicit1 := ms2.Scale(0.5, ms2.Add(v1, v2))
		switch onBits {
		case 0b010, 0b110:
			// Off point followed by on point, the on point starts the next segment.
			fallthrough
		case 0b011, 0b111:
			// on-on Straight line.
			poly = append(poly, v0)
			i += 1
			continue

		case 0b000:
			// implicit-off-implicit.
			sampler.SetSplinePoints(implicit0, v1, implicit1, ms2.Vec{})
			v0 = implicit0
			i += 1

		case 0b001:
			// on-off-implicit.
			sampler.SetSplinePoints(v0, v1, implicit1, ms2.Vec{})
			i += 1

		case 0b100:
			// implicit-off-on.
			sampler.SetSplinePoints(implicit0, v1, v2, ms2.Vec{})
			v0 = implicit0
			i += 2

		case 0b101:
			// On-off-on.
			sampler.SetSplinePoints(v0, v1, v2, ms2.Vec{})
			i += 2
		}
		poly = append(poly, v0) // Append start point.
		poly = sampler.SampleBisect(poly, 4)
	}
	return poly
}

func p2v(p truetype.Point, scale float32, origin ms2.Vec) ms2.Vec {
	return ms2.Vec{
		X: (float32(p.X) - origin.X) * scale,
		Y: (float32(p.Y) - origin.Y) * scale,
	}
}

var quadBezier = ms2.NewSpline3([]float32{
	1, 0, 0, 0,
	-2, 2, 0, 0,
	1, -2, 1, 0,
	0, 0, 0, 0,
})

func onbits3(points []truetype.Point, start, end, i int) uint32 {
	n := end - start
	p0, p1, p2 := points[i], points[start+(i+1)%n], points[start+(i+2)%n]
	return p0.Flags&1 |
		(p1.Flags&1)<<1 |
		(p2.Flags&1)<<2
}
