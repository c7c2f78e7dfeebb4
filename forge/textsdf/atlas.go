package textsdf

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/chewxy/math32"
	"github.com/soypat/glgl/math/ms1"
	"github.com/soypat/glgl/math/ms2"
)

// AtlasLayout describes a grid of square glyph cells indexed by code point.
// Code point c occupies cell c-1, counted left to right and top to bottom
// in image space.
type AtlasLayout struct {
	// GlyphSize is the side in pixels of the square the font bounding box is fit in.
	GlyphSize int
	// Padding surrounds each glyph square on every side.
	Padding      int
	GlyphsPerRow int
	TotalGlyphs  int
	// PxRange is the distance in atlas pixels from the glyph edge at which
	// the field saturates to full on or off.
	PxRange float32
}

// DefaultAtlasLayout returns 1280 cells of 34 pixels in rows of 64.
func DefaultAtlasLayout() AtlasLayout {
	return AtlasLayout{
		GlyphSize:    32,
		Padding:      1,
		GlyphsPerRow: 64,
		TotalGlyphs:  1280,
		PxRange:      1,
	}
}

// CellSize returns the side of a glyph cell including padding.
func (l AtlasLayout) CellSize() int { return l.GlyphSize + 2*l.Padding }

// Size returns the atlas image dimensions.
func (l AtlasLayout) Size() (width, height int) {
	rows := (l.TotalGlyphs + l.GlyphsPerRow - 1) / l.GlyphsPerRow
	return l.CellSize() * l.GlyphsPerRow, l.CellSize() * rows
}

// Contains reports whether c has a cell in the atlas.
func (l AtlasLayout) Contains(c rune) bool {
	return c >= 1 && int(c) <= l.TotalGlyphs
}

func (l AtlasLayout) validate() error {
	if l.GlyphSize <= 0 || l.Padding < 0 || l.GlyphsPerRow <= 0 || l.TotalGlyphs <= 0 {
		return errors.New("invalid atlas layout dimensions")
	} else if l.PxRange <= 0 {
		return errors.New("atlas px range must be positive")
	}
	return nil
}

// Cell returns the pixel rectangle of the cell of c in image space, y down.
func (l AtlasLayout) Cell(c rune) image.Rectangle {
	k := int(c) - 1
	col, row := k%l.GlyphsPerRow, k/l.GlyphsPerRow
	sz := l.CellSize()
	return image.Rect(col*sz, row*sz, (col+1)*sz, (row+1)*sz)
}

// TexCoords returns the texture coordinates of the corners of the cell of c
// in the order bottom left, bottom right, top right, top left. Texture
// space has its origin at the bottom left of the atlas, as when the atlas
// image is uploaded with flipped rows.
func (l AtlasLayout) TexCoords(c rune) [8]float32 {
	w, h := l.Size()
	fw, fh := float32(w), float32(h)
	cell := l.Cell(c)
	sz := float32(l.CellSize())
	x0 := float32(cell.Min.X)
	y0 := fh - float32(cell.Max.Y) // Bottom edge measured from the bottom.
	return [8]float32{
		x0 / fw, y0 / fh,
		(x0 + sz) / fw, y0 / fh,
		(x0 + sz) / fw, (y0 + sz) / fh,
		x0 / fw, (y0 + sz) / fh,
	}
}

// Atlas is a single channel signed distance field atlas of a set of glyphs.
type Atlas struct {
	Layout AtlasLayout
	Image  *image.Gray
	glyphs map[rune]bool
}

// Has reports whether c was rendered into the atlas.
func (a *Atlas) Has(c rune) bool { return a.glyphs[c] }

// Runes returns the number of glyphs rendered.
func (a *Atlas) Runes() int { return len(a.glyphs) }

// NewAtlas renders the distance field of each rune of chars present in f into its cell.
// Runes without a cell in the layout are an error. Duplicates are ignored.
func NewAtlas(f *Font, layout AtlasLayout, chars []rune) (*Atlas, error) {
	err := layout.validate()
	if err != nil {
		return nil, err
	}
	w, h := layout.Size()
	atlas := &Atlas{
		Layout: layout,
		Image:  image.NewGray(image.Rect(0, 0, w, h)),
		glyphs: make(map[rune]bool, len(chars)),
	}
	var r distanceRenderer
	for _, c := range chars {
		if !layout.Contains(c) {
			return nil, fmt.Errorf("rune %q outside atlas of %d glyphs", c, layout.TotalGlyphs)
		} else if atlas.glyphs[c] {
			continue
		}
		outline, err := f.Glyph(c)
		if err != nil {
			return nil, fmt.Errorf("glyph %q: %w", c, err)
		}
		r.render(atlas.Image, layout, layout.Cell(c), &outline)
		atlas.glyphs[c] = true
	}
	return atlas, nil
}

// PrintableASCII returns the runes from space to tilde.
func PrintableASCII() []rune {
	chars := make([]rune, 0, '~'-' '+1)
	for c := ' '; c <= '~'; c++ {
		chars = append(chars, c)
	}
	return chars
}

// DefaultAtlas renders the printable ASCII glyphs of the embedded Go Mono font.
func DefaultAtlas() (*Atlas, error) {
	var f Font
	err := f.LoadTTFBytes(GoMonoTTF())
	if err != nil {
		return nil, err
	}
	return NewAtlas(&f, DefaultAtlasLayout(), PrintableASCII())
}

// distanceRenderer evaluates the signed distance to a glyph outline over
// the pixels of an atlas cell.
type distanceRenderer struct {
	pos  []ms2.Vec
	dist []float32
}

func (dr *distanceRenderer) render(img *image.Gray, layout AtlasLayout, cell image.Rectangle, outline *Outline) {
	dxi, dyi := cell.Dx(), cell.Dy()
	if cap(dr.dist) < dyi {
		dr.pos = make([]ms2.Vec, dyi)
		dr.dist = make([]float32, dyi)
	}
	pos, dist := dr.pos[:dyi], dr.dist[:dyi]
	// Normalized units per pixel.
	inv := 1 / float32(layout.GlyphSize)
	pad := float32(layout.Padding)
	for i := 0; i < dxi; i++ {
		x := (float32(i) + 0.5 - pad) * inv
		for j := range pos {
			// Image rows grow downwards while font space y grows upwards.
			y := (float32(dyi-j) - 0.5 - pad) * inv
			pos[j] = ms2.Vec{X: x, Y: y}
		}
		outline.evaluate(pos, dist)
		for j, d := range dist {
			// Distance in pixels mapped to [0,1] centered on the edge at 0.5.
			v := 0.5 + d*float32(layout.GlyphSize)/(2*layout.PxRange)
			img.SetGray(cell.Min.X+i, cell.Min.Y+j, color.Gray{Y: uint8(ms1.Clamp(v, 0, 1)*255 + 0.5)})
		}
	}
}

// evaluate writes the signed distance from each position to the outline,
// positive inside the glyph, to dist.
func (o *Outline) evaluate(pos []ms2.Vec, dist []float32) {
	for i, p := range pos {
		if o.Empty() {
			dist[i] = math32.Inf(-1)
			continue
		}
		minDist := math32.Inf(1)
		winding := 0
		for _, contour := range o.Contours {
			n := len(contour)
			for k := range contour {
				a, b := contour[k], contour[(k+1)%n]
				minDist = math32.Min(minDist, segmentDistance(p, a, b))
				winding += windingCrossing(p, a, b)
			}
		}
		if winding == 0 {
			minDist = -minDist
		}
		dist[i] = minDist
	}
}

func segmentDistance(p, a, b ms2.Vec) float32 {
	abx, aby := b.X-a.X, b.Y-a.Y
	apx, apy := p.X-a.X, p.Y-a.Y
	l2 := abx*abx + aby*aby
	var t float32
	if l2 > 0 {
		t = ms1.Clamp((apx*abx+apy*aby)/l2, 0, 1)
	}
	dx, dy := apx-t*abx, apy-t*aby
	return math32.Sqrt(dx*dx + dy*dy)
}

// windingCrossing returns the signed crossing of edge ab with the ray from p towards +x.
func windingCrossing(p, a, b ms2.Vec) int {
	cross := (b.X-a.X)*(p.Y-a.Y) - (p.X-a.X)*(b.Y-a.Y)
	switch {
	case a.Y <= p.Y && b.Y > p.Y && cross > 0:
		return 1
	case a.Y > p.Y && b.Y <= p.Y && cross < 0:
		return -1
	}
	return 0
}
