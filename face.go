// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package schrift

import (
	"image"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/goki/schrift/truetype"
)

// Options are optional arguments to NewFace.
type Options struct {
	// Size is the font size in points, as in "a 10 point font size".
	//
	// A zero value means to use a 12 point font size.
	Size float64

	// DPI is the dots-per-inch resolution.
	//
	// A zero value means to use 72 DPI.
	DPI float64
}

func (o *Options) size() float64 {
	if o != nil && o.Size > 0 {
		return o.Size
	}
	return 12
}

func (o *Options) dpi() float64 {
	if o != nil && o.DPI > 0 {
		return o.DPI
	}
	return 72
}

// NewFace returns a new font.Face for the given Font, so that the
// rasterizer plugs into golang.org/x/image/font drawing. The returned face
// is not safe for concurrent use.
func NewFace(f *truetype.Font, opts *Options) font.Face {
	ppem := opts.size() * opts.dpi() / 72
	return &face{
		ctx: Context{
			Font:   f,
			XScale: ppem,
			YScale: ppem,
			Flags:  DownwardY | RenderImage,
		},
	}
}

type face struct {
	ctx Context
}

// Close satisfies the font.Face interface.
func (a *face) Close() error { return nil }

// Metrics satisfies the font.Face interface. XHeight and CapHeight are
// approximated by the ascent; this rasterizer does not consult OS/2.
func (a *face) Metrics() font.Metrics {
	ascent, descent, lineGap, err := a.ctx.LineMetrics()
	if err != nil {
		return font.Metrics{}
	}
	return font.Metrics{
		Height:     toFixed(ascent - descent + lineGap),
		Ascent:     toFixed(ascent),
		Descent:    toFixed(-descent),
		XHeight:    toFixed(ascent),
		CapHeight:  toFixed(ascent),
		CaretSlope: image.Point{X: 0, Y: 1},
	}
}

// Kern satisfies the font.Face interface.
func (a *face) Kern(r0, r1 rune) fixed.Int26_6 {
	x, _, err := a.ctx.Kerning(r0, r1)
	if err != nil {
		return 0
	}
	return toFixed(x)
}

// Glyph satisfies the font.Face interface.
func (a *face) Glyph(dot fixed.Point26_6, r rune) (
	dr image.Rectangle, mask image.Image, maskp image.Point, advance fixed.Int26_6, ok bool) {

	// Split the dot into its integer and fractional parts; the fraction
	// becomes the context's sub-pixel pen position. The context renders
	// y-up, so the downward fractional offset is negated.
	ix, fx := int(dot.X>>6), float64(dot.X&0x3f)/64
	iy, fy := int(dot.Y>>6), float64(dot.Y&0x3f)/64
	a.ctx.X, a.ctx.Y = fx, -fy

	g, err := a.ctx.RenderGlyph(r)
	a.ctx.X, a.ctx.Y = 0, 0
	if err != nil {
		return image.Rectangle{}, nil, image.Point{}, 0, false
	}
	dr.Min = image.Point{X: ix + g.X, Y: iy + g.Y}
	dr.Max = image.Point{X: dr.Min.X + g.Width, Y: dr.Min.Y + g.Height}
	mask = &image.Alpha{
		Pix:    g.Pix,
		Stride: g.Width,
		Rect:   image.Rect(0, 0, g.Width, g.Height),
	}
	advance, ok = a.advance(r)
	return dr, mask, image.Point{}, advance, ok
}

// GlyphBounds satisfies the font.Face interface.
func (a *face) GlyphBounds(r rune) (bounds fixed.Rectangle26_6, advance fixed.Int26_6, ok bool) {
	saved := a.ctx.Flags
	a.ctx.Flags &^= RenderImage
	g, err := a.ctx.RenderGlyph(r)
	a.ctx.Flags = saved
	if err != nil {
		return fixed.Rectangle26_6{}, 0, false
	}
	bounds = fixed.Rectangle26_6{
		Min: fixed.Point26_6{X: fixed.I(g.X), Y: fixed.I(g.Y)},
		Max: fixed.Point26_6{X: fixed.I(g.X + g.Width), Y: fixed.I(g.Y + g.Height)},
	}
	advance, ok = a.advance(r)
	return bounds, advance, ok
}

// GlyphAdvance satisfies the font.Face interface.
func (a *face) GlyphAdvance(r rune) (advance fixed.Int26_6, ok bool) {
	return a.advance(r)
}

// advance returns the unrounded scaled advance width of r's glyph.
func (a *face) advance(r rune) (fixed.Int26_6, bool) {
	i, err := a.ctx.Font.Index(r)
	if err != nil {
		return 0, false
	}
	hm, err := a.ctx.Font.HMetric(i)
	if err != nil {
		return 0, false
	}
	w := float64(hm.AdvanceWidth) * a.ctx.XScale / float64(a.ctx.Font.UnitsPerEm())
	return toFixed(w), true
}

// toFixed converts a value in pixels to 26.6 fixed point, rounding to
// nearest.
func toFixed(v float64) fixed.Int26_6 {
	return fixed.Int26_6(math.Round(v * 64))
}
