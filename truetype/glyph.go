// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"fmt"
)

// A Point is a co-ordinate pair plus whether it is ``on'' a contour or an
// ``off'' control point. Co-ordinates are in FUnits, held as float64 so that
// the fractional results of compound glyph transforms survive.
type Point struct {
	X, Y float64
	// The Flags' LSB means whether or not this Point is ``on'' the contour.
	// Other bits are reserved for internal use.
	Flags uint32
}

// A GlyphBuf holds a glyph's contours. A GlyphBuf can be re-used to load a
// series of glyphs from a Font.
type GlyphBuf struct {
	// B is the glyph's bounding box, taken from the outermost glyph header.
	B Bounds
	// Point contains all Points from all contours of the glyph.
	Point []Point
	// End is the point indexes of the end point of each contour. The
	// length of End is the number of contours in the glyph. The i'th
	// contour consists of points Point[End[i-1]:End[i]], where End[-1]
	// is interpreted to mean zero.
	End []int

	font *Font
}

// Flags for decoding a glyph's contours. These flags are documented at
// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html.
const (
	flagOnCurve = 1 << iota
	flagXShortVector
	flagYShortVector
	flagRepeat
	flagPositiveXShortVector
	flagPositiveYShortVector
)

// The same flag bits (0x10 and 0x20) are overloaded to have two meanings,
// dependent on the value of the flag{X,Y}ShortVector bits.
const (
	flagThisXIsSame = flagPositiveXShortVector
	flagThisYIsSame = flagPositiveYShortVector
)

// maxCompoundRecursion bounds how deeply compound glyphs may nest other
// compound glyphs. It also stops cyclic glyph references from looping
// forever. Real fonts rarely nest past two.
const maxCompoundRecursion = 4

// maxPoints is the outline point budget. Point indexes downstream are 16-bit.
const maxPoints = 65535

// glyphRange returns the range of the glyf table occupied by glyph i. A
// glyph with g0 == g1 has a completely empty outline, which the spec allows.
func (f *Font) glyphRange(i Index) (g0, g1 int, err error) {
	if f.locaOffsetFormat == locaOffsetFormatShort {
		if 2*int(i)+4 > len(f.loca) {
			return 0, 0, FormatError(fmt.Sprintf("glyph index %d beyond loca", i))
		}
		g0 = 2 * int(u16(f.loca, 2*int(i)))
		g1 = 2 * int(u16(f.loca, 2*int(i)+2))
	} else {
		if 4*int(i)+8 > len(f.loca) {
			return 0, 0, FormatError(fmt.Sprintf("glyph index %d beyond loca", i))
		}
		g0 = int(u32(f.loca, 4*int(i)))
		g1 = int(u32(f.loca, 4*int(i)+4))
	}
	if g0 > g1 || g1 > len(f.glyf) {
		return 0, 0, FormatError("glyph location out of range")
	}
	return g0, g1, nil
}

// Load loads a glyph's contours from a Font, overwriting any previously
// loaded contours for this GlyphBuf. The co-ordinates are unscaled FUnits;
// hinting instructions are skipped.
func (g *GlyphBuf) Load(f *Font, i Index) error {
	g.B = Bounds{}
	g.Point = g.Point[:0]
	g.End = g.End[:0]
	g.font = f
	return g.load(0, i)
}

func (g *GlyphBuf) load(recursion int, i Index) error {
	if recursion > maxCompoundRecursion {
		return ErrRecursion
	}
	g0, g1, err := g.font.glyphRange(i)
	if err != nil {
		return err
	}
	if g0 == g1 {
		return nil
	}
	glyf := g.font.glyf[g0:g1]
	if len(glyf) < 10 {
		return FormatError("glyph header too short")
	}
	ne := int(i16(glyf, 0))
	if recursion == 0 {
		g.B = Bounds{
			XMin: int32(i16(glyf, 2)),
			YMin: int32(i16(glyf, 4)),
			XMax: int32(i16(glyf, 6)),
			YMax: int32(i16(glyf, 8)),
		}
	}
	if ne < 0 {
		if ne != -1 {
			// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html
			// says that "the values -2, -3, and so forth, are reserved for
			// future use."
			return UnsupportedError("negative number of contours")
		}
		return g.loadCompound(recursion, glyf)
	}
	return g.loadSimple(glyf, ne)
}

// loadOffset is the initial offset for loadSimple and loadCompound. The
// first 10 bytes are the number of contours and the bounding box.
const loadOffset = 10

func (g *GlyphBuf) loadSimple(glyf []byte, ne int) error {
	if ne == 0 {
		return nil
	}
	offset := loadOffset
	if offset+2*ne+2 > len(glyf) {
		return FormatError("glyph contour ends out of range")
	}
	// Decode the contour end indices, which must be strictly increasing.
	np0, prev := len(g.Point), -1
	for i := 0; i < ne; i++ {
		e := int(u16(glyf, offset))
		if e <= prev {
			return FormatError("glyph contour ends not increasing")
		}
		prev = e
		g.End = append(g.End, np0+e+1)
		offset += 2
	}
	np := prev + 1
	if prev == 0xFFFF || np0+np > maxPoints {
		return FormatError("glyph has too many points")
	}

	// Skip the TrueType hinting instructions.
	instrLen := int(u16(glyf, offset))
	offset += 2 + instrLen
	if offset > len(glyf) {
		return FormatError("glyph instructions out of range")
	}

	// Decode the run-length encoded flags.
	for i := 0; i < np; {
		if offset >= len(glyf) {
			return FormatError("glyph flags out of range")
		}
		c := uint32(glyf[offset])
		offset++
		g.Point = append(g.Point, Point{Flags: c})
		i++
		if c&flagRepeat != 0 {
			if offset >= len(glyf) {
				return FormatError("glyph flags out of range")
			}
			count := int(glyf[offset])
			offset++
			if i+count > np {
				return FormatError("glyph flag repeat overruns points")
			}
			for ; count > 0; count-- {
				g.Point = append(g.Point, Point{Flags: c})
				i++
			}
		}
	}

	// Decode the delta encoded co-ordinates, X first, then Y.
	var x int32
	for i := np0; i < np0+np; i++ {
		f := g.Point[i].Flags
		if f&flagXShortVector != 0 {
			if offset+1 > len(glyf) {
				return FormatError("glyph co-ordinates out of range")
			}
			dx := int32(glyf[offset])
			offset++
			if f&flagPositiveXShortVector == 0 {
				x -= dx
			} else {
				x += dx
			}
		} else if f&flagThisXIsSame == 0 {
			if offset+2 > len(glyf) {
				return FormatError("glyph co-ordinates out of range")
			}
			x += int32(i16(glyf, offset))
			offset += 2
		}
		g.Point[i].X = float64(x)
	}
	var y int32
	for i := np0; i < np0+np; i++ {
		f := g.Point[i].Flags
		if f&flagYShortVector != 0 {
			if offset+1 > len(glyf) {
				return FormatError("glyph co-ordinates out of range")
			}
			dy := int32(glyf[offset])
			offset++
			if f&flagPositiveYShortVector == 0 {
				y -= dy
			} else {
				y += dy
			}
		} else if f&flagThisYIsSame == 0 {
			if offset+2 > len(glyf) {
				return FormatError("glyph co-ordinates out of range")
			}
			y += int32(i16(glyf, offset))
			offset += 2
		}
		g.Point[i].Y = float64(y)
	}
	return nil
}

// loadCompound loads a glyph that is composed of other glyphs. Each
// component's points are decoded recursively and then run through the
// component's affine transform.
func (g *GlyphBuf) loadCompound(recursion int, glyf []byte) error {
	// Flags for decoding a compound glyph. These flags are documented at
	// http://developer.apple.com/fonts/TTRefMan/RM06/Chap6glyf.html.
	const (
		flagArg1And2AreWords = 1 << iota
		flagArgsAreXYValues
		flagRoundXYToGrid
		flagWeHaveAScale
		flagUnused
		flagMoreComponents
		flagWeHaveAnXAndYScale
		flagWeHaveATwoByTwo
	)
	offset := loadOffset
	for {
		if offset+4 > len(glyf) {
			return FormatError("compound glyph component out of range")
		}
		flags := u16(glyf, offset)
		component := Index(u16(glyf, offset+2))
		offset += 4
		var dx, dy float64
		if flags&flagArg1And2AreWords != 0 {
			if offset+4 > len(glyf) {
				return FormatError("compound glyph component out of range")
			}
			dx = float64(i16(glyf, offset))
			dy = float64(i16(glyf, offset+2))
			offset += 4
		} else {
			if offset+2 > len(glyf) {
				return FormatError("compound glyph component out of range")
			}
			dx = float64(int8(glyf[offset]))
			dy = float64(int8(glyf[offset+1]))
			offset += 2
		}
		if flags&flagArgsAreXYValues == 0 {
			// Point-matching placement is not implemented.
			return UnsupportedError("compound glyph transform vector")
		}
		a, b, c, d := 1.0, 0.0, 0.0, 1.0
		switch {
		case flags&flagWeHaveAScale != 0:
			if offset+2 > len(glyf) {
				return FormatError("compound glyph transform out of range")
			}
			a = f2dot14(i16(glyf, offset))
			d = a
			offset += 2
		case flags&flagWeHaveAnXAndYScale != 0:
			if offset+4 > len(glyf) {
				return FormatError("compound glyph transform out of range")
			}
			a = f2dot14(i16(glyf, offset))
			d = f2dot14(i16(glyf, offset+2))
			offset += 4
		case flags&flagWeHaveATwoByTwo != 0:
			if offset+8 > len(glyf) {
				return FormatError("compound glyph transform out of range")
			}
			a = f2dot14(i16(glyf, offset))
			b = f2dot14(i16(glyf, offset+2))
			c = f2dot14(i16(glyf, offset+4))
			d = f2dot14(i16(glyf, offset+6))
			offset += 8
		}
		np0 := len(g.Point)
		if err := g.load(recursion+1, component); err != nil {
			return err
		}
		// Apply the component's affine to the points it just appended.
		for j := np0; j < len(g.Point); j++ {
			p := &g.Point[j]
			x, y := p.X, p.Y
			p.X = a*x + c*y + dx
			p.Y = b*x + d*y + dy
		}
		if flags&flagMoreComponents == 0 {
			return nil
		}
	}
}

// f2dot14 converts a signed 2.14 fixed point number to a float64.
func f2dot14(v int16) float64 {
	return float64(v) / 16384
}
