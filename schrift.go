// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// The schrift package is a lightweight TrueType font rasterizer. It maps
// Unicode code points to glyphs, reads their outlines and metrics from a
// TrueType font image, and renders the outlines to 8-bit grayscale
// coverage images with sub-pixel accuracy.
//
// Use the schrift/truetype and schrift/raster packages for lower level
// control over parsing and rasterization.
package schrift

import (
	"errors"
	"math"

	"github.com/goki/schrift/raster"
	"github.com/goki/schrift/truetype"
)

// ParseFont just calls the Parse function from the schrift/truetype
// package. It is provided here so that code that imports this package
// doesn't need to also include the schrift/truetype package.
func ParseFont(b []byte) (*truetype.Font, error) {
	return truetype.Parse(b)
}

// Flags select per-context rendering behavior.
type Flags uint32

const (
	// DownwardY means the output y axis points downward: vertical offsets
	// are reported in that orientation and rendered images are flipped to
	// match.
	DownwardY Flags = 1 << iota
	// RenderImage means RenderGlyph produces the coverage image, not just
	// metrics.
	RenderImage
	// CatchMissing marks the result when a code point maps to glyph 0
	// instead of rendering the font's notdef outline.
	CatchMissing
)

// errNilFont is returned by Context methods called before a font is set.
var errNilFont = errors.New("schrift: nil font")

// errBadScale is returned when a context's scales are zero or negative.
var errBadScale = errors.New("schrift: non-positive scale")

// A Context holds the state for rendering glyphs from one font at one
// scale. The X and Y pen co-ordinates are caller-managed: the context only
// reads them, so a caller may advance them between glyphs or leave them
// zero to get pen-relative offsets.
//
// A Context is not safe for concurrent use; concurrent renders need
// distinct contexts. The font image may be shared freely.
type Context struct {
	Font           *truetype.Font
	XScale, YScale float64 // output pixels per em
	X, Y           float64 // pen position, in output pixels
	Flags          Flags

	glyphBuf truetype.GlyphBuf
	outline  raster.Outline
	r        raster.Rasterizer
}

// A Glyph is the result of rendering a single code point.
type Glyph struct {
	// Pix is the width*height coverage image, row-major. With DownwardY the
	// top row comes first; otherwise the bottom row, the one at Y, comes
	// first. It is nil unless RenderImage was set and the
	// glyph has a non-empty outline. The caller owns it.
	Pix []byte
	// Advance is the horizontal pen advance, rounded to whole pixels.
	Advance int
	// X and Y locate the image relative to the pen position (exactly, when
	// the context's pen is at the origin). With DownwardY, Y is the
	// distance from the baseline down to the top image row; otherwise it
	// is the distance up to the bottom row.
	X, Y int
	// Width and Height are the image dimensions in pixels.
	Width, Height int
	// Missing is set instead of any of the above when the code point maps
	// to glyph 0 and the context has CatchMissing.
	Missing bool
}

// An affine holds one axis of the font-unit to pixel transformation.
type affine struct {
	scale, move float64
}

func (a affine) apply(v float64) float64 {
	return v*a.scale + a.move
}

// LineMetrics returns the font's typographic ascent, descent and line gap
// scaled to output pixels. Ascent is positive upward, so the descent of
// almost every font is negative.
func (c *Context) LineMetrics() (ascent, descent, lineGap float64, err error) {
	if c.Font == nil {
		return 0, 0, 0, errNilFont
	}
	a, d, g := c.Font.LineMetrics()
	factor := c.YScale / float64(c.Font.UnitsPerEm())
	return float64(a) * factor, float64(d) * factor, float64(g) * factor, nil
}

// Kerning returns the horizontal and cross-stream kerning adjustment for
// the two code points, in output pixels. Pairs the font does not kern
// adjust by zero.
func (c *Context) Kerning(left, right rune) (x, y float64, err error) {
	if c.Font == nil {
		return 0, 0, errNilFont
	}
	i0, err := c.Font.Index(left)
	if err != nil {
		return 0, 0, err
	}
	i1, err := c.Font.Index(right)
	if err != nil {
		return 0, 0, err
	}
	kx, ky, err := c.Font.Kern(i0, i1)
	if err != nil {
		return 0, 0, err
	}
	upe := float64(c.Font.UnitsPerEm())
	return float64(kx) * c.XScale / upe, float64(ky) * c.YScale / upe, nil
}

// RenderGlyph maps the code point to a glyph and renders it. Glyphs with an
// empty outline (most fonts' space character) return a zero-size result
// whose advance is still valid. Without RenderImage only the metrics
// fields are filled in.
func (c *Context) RenderGlyph(x rune) (Glyph, error) {
	var g Glyph
	if c.Font == nil {
		return g, errNilFont
	}
	index, err := c.Font.Index(x)
	if err != nil {
		return g, err
	}
	if index == 0 && c.Flags&CatchMissing != 0 {
		g.Missing = true
		return g, nil
	}
	return c.renderIndex(index)
}

func (c *Context) renderIndex(index truetype.Index) (Glyph, error) {
	var g Glyph
	if c.XScale <= 0 || c.YScale <= 0 {
		return g, errBadScale
	}
	hm, err := c.Font.HMetric(index)
	if err != nil {
		return g, err
	}
	upe := float64(c.Font.UnitsPerEm())
	xFactor := c.XScale / upe
	g.Advance = int(math.Round(float64(hm.AdvanceWidth) * xFactor))

	if err := c.glyphBuf.Load(c.Font, index); err != nil {
		return Glyph{}, err
	}
	if len(c.glyphBuf.End) == 0 {
		// Completely empty outline. This is allowed by the spec.
		return g, nil
	}
	b := c.glyphBuf.B
	if b.XMax <= b.XMin || b.YMax <= b.YMin {
		return Glyph{}, truetype.FormatError("empty glyph bounding box")
	}

	// Set up the linear transformations. The horizontal shift makes the
	// transformed xMin land exactly on the pen plus the left side bearing,
	// so glyphs line up on their metric lsb no matter how the outline's
	// own numbers drift.
	xAff := affine{xFactor, c.X + (float64(hm.LeftSideBearing)-float64(b.XMin))*xFactor}
	yAff := affine{c.YScale / upe, c.Y}

	// Snap the box outward to whole pixels, with one font unit of slack.
	x1 := int(math.Floor(xAff.apply(float64(b.XMin) - 1)))
	y1 := int(math.Floor(yAff.apply(float64(b.YMin) - 1)))
	x2 := int(math.Ceil(xAff.apply(float64(b.XMax) + 1)))
	y2 := int(math.Ceil(yAff.apply(float64(b.YMax) + 1)))
	g.Width, g.Height = x2-x1, y2-y1
	g.X = x1
	if c.Flags&DownwardY != 0 {
		g.Y = -y2
	} else {
		g.Y = y1
	}
	if c.Flags&RenderImage == 0 {
		return g, nil
	}

	// Make the transformations relative to the min corner and draw.
	xAff.move -= float64(x1)
	yAff.move -= float64(y1)
	c.outline.Clear()
	c.r.SetBounds(g.Width, g.Height)
	e0 := 0
	for _, e1 := range c.glyphBuf.End {
		if err := c.drawContour(c.glyphBuf.Point[e0:e1], xAff, yAff); err != nil {
			// The only outline error is an exhausted 16-bit point budget.
			return Glyph{}, truetype.FormatError(err.Error())
		}
		e0 = e1
	}
	if err := c.r.Rasterize(&c.outline); err != nil {
		return Glyph{}, truetype.FormatError(err.Error())
	}
	g.Pix = make([]byte, g.Width*g.Height)
	c.r.Accumulate(g.Pix, c.Flags&DownwardY != 0)
	return g, nil
}

// drawContour draws the given closed contour into the context's outline,
// applying the two affines and clamping every point to the cell grid.
func (c *Context) drawContour(ps []truetype.Point, xAff, yAff affine) error {
	// Contours with less than two points have no area and are dropped.
	if len(ps) < 2 {
		return nil
	}
	width, height := c.r.Size()
	pt := func(p truetype.Point) raster.Point {
		return raster.Clamp(raster.Point{
			X: xAff.apply(p.X),
			Y: yAff.apply(p.Y),
		}, width, height)
	}

	// The low bit of each point's Flags value is whether the point is on
	// the contour. TrueType fonts only have quadratic Bézier curves, not
	// cubics, so two consecutive off-curve points imply an on-curve point
	// in the middle of those two.
	//
	// Pick the loose end the walk starts and finishes at: the first point
	// if it is on-curve, else the last, else a virtual point halfway
	// between the two.
	start := pt(ps[0])
	var others []truetype.Point
	if ps[0].Flags&0x01 != 0 {
		others = ps[1:]
	} else {
		last := pt(ps[len(ps)-1])
		if ps[len(ps)-1].Flags&0x01 != 0 {
			start = last
			others = ps[:len(ps)-1]
		} else {
			start = raster.Point{
				X: (start.X + last.X) / 2,
				Y: (start.Y + last.Y) / 2,
			}
			others = ps
		}
	}
	if err := c.outline.Start(start); err != nil {
		return err
	}
	q0, on0 := start, true
	for _, p := range others {
		q := pt(p)
		on := p.Flags&0x01 != 0
		var err error
		if on {
			if on0 {
				err = c.outline.Add1(q)
			} else {
				err = c.outline.Add2(q0, q)
			}
		} else {
			if on0 {
				// No-op.
			} else {
				mid := raster.Point{
					X: (q0.X + q.X) / 2,
					Y: (q0.Y + q.Y) / 2,
				}
				err = c.outline.Add2(q0, mid)
			}
		}
		if err != nil {
			return err
		}
		q0, on0 = q, on
	}
	// Close the contour.
	if on0 {
		return c.outline.Add1(start)
	}
	return c.outline.Add2(q0, start)
}
