// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// Package testfont synthesizes tiny TrueType font images for tests. The
// fixture font has a 64-unit em square and four glyphs:
//
//	0  .notdef   a square from (8,0) to (40,48); advance 48, lsb 8
//	1  'A'       a triangle with one quadratic curve; advance 36, lsb 0
//	2  ' '       a completely empty outline; advance 16, lsb 0
//	3  'B'       a compound glyph: glyph 1 shifted right by 8; lsb 8
//
// Glyph 3 sits past the long hmtx records, so it shares the last long
// advance (16). The kern table kerns the pair ('A', 'B') by -6 units.
package testfont

import (
	"sort"
)

// A Buf accumulates big-endian font data.
type Buf []byte

func (b *Buf) U8(v uint8)   { *b = append(*b, v) }
func (b *Buf) U16(v uint16) { *b = append(*b, byte(v>>8), byte(v)) }
func (b *Buf) I16(v int16)  { b.U16(uint16(v)) }
func (b *Buf) U32(v uint32) { *b = append(*b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v)) }

// A Table is one named sfnt table.
type Table struct {
	Tag  string
	Data []byte
}

// Build assembles a complete sfnt image with a sorted table directory.
func Build(tables ...Table) []byte {
	sorted := make([]Table, len(tables))
	copy(sorted, tables)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Tag < sorted[j].Tag })

	n := len(sorted)
	entrySelector := 0
	for 1<<(entrySelector+1) <= n {
		entrySelector++
	}
	searchRange := 16 << entrySelector

	var b Buf
	b.U32(0x00010000)
	b.U16(uint16(n))
	b.U16(uint16(searchRange))
	b.U16(uint16(entrySelector))
	b.U16(uint16(16*n - searchRange))

	offset := 12 + 16*n
	for _, t := range sorted {
		for _, c := range t.Tag {
			b.U8(uint8(c))
		}
		b.U32(0) // checksum, not verified by the parser
		b.U32(uint32(offset))
		b.U32(uint32(len(t.Data)))
		offset += (len(t.Data) + 3) &^ 3
	}
	for _, t := range sorted {
		b = append(b, t.Data...)
		for len(b)%4 != 0 {
			b.U8(0)
		}
	}
	return b
}

// Head returns a head table with a 64-unit em square and the given
// indexToLocFormat.
func Head(locaFormat int16) Table {
	var b Buf
	b.U32(0x00010000) // version
	b.U32(0)          // fontRevision
	b.U32(0)          // checkSumAdjustment
	b.U32(0x5F0F3CF5) // magicNumber
	b.U16(0)          // flags
	b.U16(64)         // unitsPerEm
	for i := 0; i < 16; i++ {
		b.U8(0) // created, modified
	}
	b.I16(0)  // xMin
	b.I16(0)  // yMin
	b.I16(40) // xMax
	b.I16(48) // yMax
	b.U16(0)  // macStyle
	b.U16(8)  // lowestRecPPEM
	b.I16(2)  // fontDirectionHint
	b.I16(locaFormat)
	b.I16(0) // glyphDataFormat
	return Table{"head", b}
}

// Hhea returns an hhea table with ascent 48, descent -12, line gap 4 and
// the given number of long hmtx records.
func Hhea(numLong uint16) Table {
	var b Buf
	b.U32(0x00010000) // version
	b.I16(48)         // ascent
	b.I16(-12)        // descent
	b.I16(4)          // lineGap
	b.U16(48)         // advanceWidthMax
	b.I16(0)          // minLeftSideBearing
	b.I16(0)          // minRightSideBearing
	b.I16(40)         // xMaxExtent
	b.I16(1)          // caretSlopeRise
	b.I16(0)          // caretSlopeRun
	b.I16(0)          // caretOffset
	for i := 0; i < 4; i++ {
		b.I16(0) // reserved
	}
	b.I16(0) // metricDataFormat
	b.U16(numLong)
	return Table{"hhea", b}
}

// Hmtx returns the fixture hmtx table: three long records and one short.
func Hmtx() Table {
	var b Buf
	b.U16(48)
	b.I16(8)
	b.U16(36)
	b.I16(0)
	b.U16(16)
	b.I16(0)
	b.I16(8) // glyph 3, left side bearing only
	return Table{"hmtx", b}
}

// Cmap4 returns a cmap table with a single format 4 Windows Unicode BMP
// subtable mapping ' '→2, 'A'→1 and 'B'→3. The 'A'..'B' segment goes
// through the glyph id array; the ' ' segment uses an id delta.
func Cmap4() Table {
	var b Buf
	b.U16(0)  // version
	b.U16(1)  // numTables
	b.U16(3)  // platformID
	b.U16(1)  // encodingID
	b.U32(12) // offset

	b.U16(4)  // format
	b.U16(44) // length
	b.U16(0)  // language
	b.U16(6)  // segCountX2
	b.U16(4)  // searchRange
	b.U16(1)  // entrySelector
	b.U16(2)  // rangeShift
	b.U16(0x0020)
	b.U16(0x0042)
	b.U16(0xFFFF) // endCode
	b.U16(0)      // reservedPad
	b.U16(0x0020)
	b.U16(0x0041)
	b.U16(0xFFFF) // startCode
	b.I16(-30)
	b.I16(0)
	b.I16(1) // idDelta
	b.U16(0)
	b.U16(4)
	b.U16(0) // idRangeOffset
	b.U16(1)
	b.U16(3) // glyph id array
	return Table{"cmap", b}
}

// Cmap6 returns a cmap table with a single format 6 subtable mapping
// 'A'→1 and 'B'→3.
func Cmap6() Table {
	var b Buf
	b.U16(0)  // version
	b.U16(1)  // numTables
	b.U16(3)  // platformID
	b.U16(1)  // encodingID
	b.U32(12) // offset

	b.U16(6)      // format
	b.U16(14)     // length
	b.U16(0)      // language
	b.U16(0x0041) // firstCode
	b.U16(2)      // entryCount
	b.U16(1)
	b.U16(3)
	return Table{"cmap", b}
}

// Kern returns a kern table with one horizontal format 0 subtable holding
// the single pair (1, 3) → -6.
func Kern() Table {
	var b Buf
	b.U16(0) // version
	b.U16(1) // nTables

	b.U16(0)      // subtable version
	b.U16(20)     // length
	b.U16(0x0001) // coverage: horizontal
	b.U16(1)      // nPairs
	b.U16(6)      // searchRange
	b.U16(0)      // entrySelector
	b.U16(0)      // rangeShift
	b.U16(1)      // left
	b.U16(3)      // right
	b.I16(-6)     // value
	return Table{"kern", b}
}

// SquareGlyph returns the simple notdef square, exercising the flag repeat
// encoding.
func SquareGlyph() []byte {
	var b Buf
	b.I16(1) // numberOfContours
	b.I16(8)
	b.I16(0)
	b.I16(40)
	b.I16(48) // bounding box
	b.U16(3)  // endPtsOfContours
	b.U16(0)  // instructionLength
	b.U8(0x09)
	b.U8(3) // on-curve, repeated for all four points
	b.I16(8)
	b.I16(0)
	b.I16(32)
	b.I16(0) // x deltas
	b.I16(0)
	b.I16(48)
	b.I16(0)
	b.I16(-48) // y deltas
	return b
}

// TriangleGlyph returns the fixture 'A': on-curve (0,0) and (32,0) joined
// by a quadratic through the off-curve control (16,56).
func TriangleGlyph() []byte {
	var b Buf
	b.I16(1) // numberOfContours
	b.I16(0)
	b.I16(0)
	b.I16(32)
	b.I16(28) // bounding box
	b.U16(2)  // endPtsOfContours
	b.U16(0)  // instructionLength
	b.U8(0x01)
	b.U8(0x00)
	b.U8(0x01) // flags
	b.I16(0)
	b.I16(16)
	b.I16(16) // x deltas
	b.I16(0)
	b.I16(56)
	b.I16(-56) // y deltas
	return b
}

// CompoundGlyph returns a compound glyph with a single component placed by
// word offsets.
func CompoundGlyph(xMin, yMin, xMax, yMax int16, component uint16, dx, dy int16) []byte {
	var b Buf
	b.I16(-1) // numberOfContours
	b.I16(xMin)
	b.I16(yMin)
	b.I16(xMax)
	b.I16(yMax)
	b.U16(0x0003) // ARG_1_AND_2_ARE_WORDS | ARGS_ARE_XY_VALUES
	b.U16(component)
	b.I16(dx)
	b.I16(dy)
	return b
}

// AssembleGlyf lays the given glyph descriptions out in a glyf table and
// derives the matching short-format loca table. A nil or empty description
// produces an empty outline. Descriptions are padded to even offsets as
// the short loca format requires.
func AssembleGlyf(glyphs ...[]byte) (glyf, loca Table) {
	var g, l Buf
	for _, data := range glyphs {
		l.U16(uint16(len(g) / 2))
		g = append(g, data...)
		if len(g)%2 != 0 {
			g.U8(0)
		}
	}
	l.U16(uint16(len(g) / 2))
	return Table{"glyf", g}, Table{"loca", l}
}

// Tables returns the fixture font's table set, with either the format 4 or
// the format 6 cmap.
func Tables(cmapFormat int) []Table {
	cmap := Cmap4()
	if cmapFormat == 6 {
		cmap = Cmap6()
	}
	glyf, loca := AssembleGlyf(
		SquareGlyph(),
		TriangleGlyph(),
		nil,
		CompoundGlyph(8, 0, 40, 28, 1, 8, 0),
	)
	return []Table{Head(0), Hhea(3), Hmtx(), cmap, Kern(), glyf, loca}
}

// Font returns the standard fixture font image.
func Font() []byte {
	return Build(Tables(4)...)
}

// Font6 returns the fixture variant whose cmap uses format 6.
func Font6() []byte {
	return Build(Tables(6)...)
}
