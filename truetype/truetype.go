// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// The truetype package provides a parser for the TTF file format. That format
// is documented at http://developer.apple.com/fonts/TTRefMan/ and
// http://www.microsoft.com/typography/otspec/
//
// All numbers (e.g. bounds, point co-ordinates, font metrics) are measured in
// FUnits. To convert from FUnits to pixels, scale by
// (pixelsPerEm / unitsPerEm). For example, 550 FUnits at 16ppem and 2048upe
// is 4.30 pixels.
package truetype

import (
	"errors"
	"fmt"
)

// An Index is a Font's index of a glyph.
type Index uint16

// A Bounds holds the co-ordinate range of one or more glyphs.
// The endpoints are inclusive.
type Bounds struct {
	XMin, YMin, XMax, YMax int32
}

// An HMetric holds the horizontal metrics of a single glyph.
type HMetric struct {
	AdvanceWidth    uint16
	LeftSideBearing int16
}

// A FormatError reports that the input is not a valid TrueType font.
type FormatError string

func (e FormatError) Error() string {
	return "truetype: invalid TrueType format: " + string(e)
}

// An UnsupportedError reports that the input uses a valid but unimplemented
// TrueType feature.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return "truetype: unsupported TrueType feature: " + string(e)
}

// ErrBadMagic reports that the input does not start with one of the scaler
// types this package can rasterize.
var ErrBadMagic = errors.New("truetype: bad scaler type")

// ErrRecursion reports that a compound glyph nests other compound glyphs
// more than four levels deep.
var ErrRecursion = errors.New("truetype: excessive compound glyph recursion")

// u16 returns the big-endian uint16 at b[i:]. The callers are responsible
// for checking that the slice is long enough; every call site is preceded
// by an explicit length guard so that malformed input yields a FormatError,
// never a panic.
func u16(b []byte, i int) uint16 {
	return uint16(b[i])<<8 | uint16(b[i+1])
}

// i16 returns the big-endian int16 at b[i:].
func i16(b []byte, i int) int16 {
	return int16(u16(b, i))
}

// u32 returns the big-endian uint32 at b[i:].
func u32(b []byte, i int) uint32 {
	return uint32(b[i])<<24 | uint32(b[i+1])<<16 | uint32(b[i+2])<<8 | uint32(b[i+3])
}

const (
	locaOffsetFormatShort int = iota
	locaOffsetFormatLong
)

// A Font represents a TrueType font.
type Font struct {
	// Tables sliced from the TTF data. The different tables are documented
	// at http://developer.apple.com/fonts/TTRefMan/RM06/Chap6.html
	cmap, glyf, head, hhea, hmtx, kern, loca, name []byte

	// cmapSub is the selected Unicode BMP cmap subtable, starting at its
	// format field.
	cmapSub    []byte
	cmapFormat int

	// Cached values derived from the raw ttf data.
	locaOffsetFormat         int
	nHMetric                 int
	unitsPerEm               int32
	ascent, descent, lineGap int32
}

// readTable returns a slice of the TTF data given by a table's directory
// entry.
func readTable(ttf []byte, offsetLength []byte) ([]byte, error) {
	offset := int(u32(offsetLength, 0))
	if offset < 0 {
		return nil, FormatError(fmt.Sprintf("offset too large: %d", uint32(offset)))
	}
	length := int(u32(offsetLength, 4))
	if length < 0 {
		return nil, FormatError(fmt.Sprintf("length too large: %d", uint32(length)))
	}
	end := offset + length
	if end < 0 || end > len(ttf) {
		return nil, FormatError(fmt.Sprintf("offset + length too large: %d", uint32(offset)+uint32(length)))
	}
	return ttf[offset:end], nil
}

// searchTable binary-searches the table directory for the given 4-byte tag.
// The directory records are sorted lexicographically by tag, which for
// big-endian tags is the same as sorting by the tag's uint32 value.
func searchTable(ttf []byte, numTables int, tag string) []byte {
	key := uint32(tag[0])<<24 | uint32(tag[1])<<16 | uint32(tag[2])<<8 | uint32(tag[3])
	lo, hi := 0, numTables
	for lo < hi {
		mid := (lo + hi) / 2
		switch t := u32(ttf, 12+16*mid); {
		case t < key:
			lo = mid + 1
		case t > key:
			hi = mid
		default:
			return ttf[12+16*mid+8 : 12+16*mid+16]
		}
	}
	return nil
}

// Parse returns a new Font for the given TTF data.
func Parse(ttf []byte) (*Font, error) {
	if len(ttf) < 12 {
		return nil, FormatError("TTF data is too short")
	}
	switch u32(ttf, 0) {
	case 0x00010000, 0x74727565: // 1.0 and "true"
	default:
		return nil, ErrBadMagic
	}
	n := int(u16(ttf, 4))
	if len(ttf) < 16*n+12 {
		return nil, FormatError("TTF data is too short")
	}
	f := new(Font)
	var err error
	for _, t := range []struct {
		tag      string
		dst      *[]byte
		required bool
	}{
		{"cmap", &f.cmap, true},
		{"glyf", &f.glyf, true},
		{"head", &f.head, true},
		{"hhea", &f.hhea, true},
		{"hmtx", &f.hmtx, true},
		{"kern", &f.kern, false},
		{"loca", &f.loca, true},
		{"name", &f.name, false},
	} {
		ol := searchTable(ttf, n, t.tag)
		if ol == nil {
			if t.required {
				return nil, FormatError("missing required table: " + t.tag)
			}
			continue
		}
		if *t.dst, err = readTable(ttf, ol); err != nil {
			return nil, err
		}
	}
	// Parse and sanity-check the TTF data.
	if err = f.parseHead(); err != nil {
		return nil, err
	}
	if err = f.parseHhea(); err != nil {
		return nil, err
	}
	if err = f.parseCmap(); err != nil {
		return nil, err
	}
	return f, nil
}

func (f *Font) parseHead() error {
	if len(f.head) < 54 {
		return FormatError(fmt.Sprintf("bad head length: %d", len(f.head)))
	}
	f.unitsPerEm = int32(u16(f.head, 18))
	if f.unitsPerEm < 1 || f.unitsPerEm > 16384 {
		return FormatError(fmt.Sprintf("bad unitsPerEm: %d", f.unitsPerEm))
	}
	switch i := i16(f.head, 50); i {
	case 0:
		f.locaOffsetFormat = locaOffsetFormatShort
	case 1:
		f.locaOffsetFormat = locaOffsetFormatLong
	default:
		return FormatError(fmt.Sprintf("bad indexToLocFormat: %d", i))
	}
	return nil
}

func (f *Font) parseHhea() error {
	if len(f.hhea) < 36 {
		return FormatError(fmt.Sprintf("bad hhea length: %d", len(f.hhea)))
	}
	f.ascent = int32(i16(f.hhea, 4))
	f.descent = int32(i16(f.hhea, 6))
	f.lineGap = int32(i16(f.hhea, 8))
	f.nHMetric = int(u16(f.hhea, 34))
	if f.nHMetric == 0 {
		return FormatError("zero long hmtx records")
	}
	if 4*f.nHMetric > len(f.hmtx) {
		return FormatError(fmt.Sprintf("bad hmtx length: %d", len(f.hmtx)))
	}
	return nil
}

func (f *Font) parseCmap() error {
	const (
		// A 32-bit encoding consists of a most-significant 16-bit Platform ID
		// and a least-significant 16-bit Platform Specific ID.
		unicodeEncoding   = 0x00000003 // PID = 0 (Unicode), PSID = 3 (Unicode 2.0 BMP)
		microsoftEncoding = 0x00030001 // PID = 3 (Microsoft), PSID = 1 (UCS-2)
	)
	if len(f.cmap) < 4 {
		return FormatError("cmap too short")
	}
	nsubtab := int(u16(f.cmap, 2))
	if len(f.cmap) < 8*nsubtab+4 {
		return FormatError("cmap too short")
	}
	// Take the first Unicode BMP entry, in record order.
	offset := 0
	for i := 0; i < nsubtab; i++ {
		pidPsid := u32(f.cmap, 4+8*i)
		if pidPsid == unicodeEncoding || pidPsid == microsoftEncoding {
			offset = int(u32(f.cmap, 4+8*i+4))
			break
		}
	}
	if offset <= 0 || offset > len(f.cmap) {
		return FormatError("bad cmap offset")
	}
	sub := f.cmap[offset:]
	if len(sub) < 2 {
		return FormatError("cmap subtable too short")
	}
	switch format := int(u16(sub, 0)); format {
	case 4:
		if len(sub) < 14 {
			return FormatError("cmap subtable too short")
		}
		segCountX2 := int(u16(sub, 6))
		if segCountX2%2 == 1 || segCountX2 == 0 {
			return FormatError(fmt.Sprintf("bad segCountX2: %d", segCountX2))
		}
		// endCode, reservedPad, startCode, idDelta and idRangeOffset must all
		// lie inside the subtable. The glyph id array that follows is probed
		// per lookup, since its extent depends on the code point.
		if len(sub) < 14+segCountX2+2+3*segCountX2 {
			return FormatError("cmap subtable too short")
		}
		f.cmapSub, f.cmapFormat = sub, format
	case 6:
		if len(sub) < 10 {
			return FormatError("cmap subtable too short")
		}
		entryCount := int(u16(sub, 8))
		if len(sub) < 10+2*entryCount {
			return FormatError("cmap subtable too short")
		}
		f.cmapSub, f.cmapFormat = sub, format
	default:
		return UnsupportedError(fmt.Sprintf("cmap format: %d", format))
	}
	return nil
}

// UnitsPerEm returns the number of FUnits in a Font's em-square.
func (f *Font) UnitsPerEm() int32 {
	return f.unitsPerEm
}

// LineMetrics returns the typographic ascent, descent and line gap of the
// font, in FUnits. The descent of almost every font is negative.
func (f *Font) LineMetrics() (ascent, descent, lineGap int32) {
	return f.ascent, f.descent, f.lineGap
}

// Index returns a Font's index for the given rune. Code points that the font
// does not map, including everything outside the Basic Multilingual Plane,
// yield index 0.
func (f *Font) Index(x rune) (Index, error) {
	c := uint32(x)
	switch f.cmapFormat {
	case 4:
		return f.index4(c)
	case 6:
		return f.index6(c)
	}
	return 0, UnsupportedError("cmap format")
}

// index4 implements the format 4 "segment mapping to delta values" lookup.
// All glyph id arithmetic is modulo 2^16, as the format requires.
func (f *Font) index4(c uint32) (Index, error) {
	if c > 0xFFFF {
		return 0, nil
	}
	sub := f.cmapSub
	segCountX2 := int(u16(sub, 6))
	endCodes := 14
	startCodes := endCodes + segCountX2 + 2
	idDeltas := startCodes + segCountX2
	idRangeOffsets := idDeltas + segCountX2

	// Binary search for the first segment whose endCode is >= c. The last
	// segment ends at 0xFFFF, so the search cannot fall off the table.
	lo, hi := 0, segCountX2/2-1
	for lo < hi {
		mid := lo + (hi-lo)/2
		if uint32(u16(sub, endCodes+2*mid)) < c {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	seg2 := 2 * lo
	if uint32(u16(sub, startCodes+seg2)) > c {
		return 0, nil
	}
	idDelta := u16(sub, idDeltas+seg2)
	idRangeOffset := u16(sub, idRangeOffsets+seg2)
	if idRangeOffset == 0 {
		return Index(uint16(c) + idDelta), nil
	}
	idOffset := idRangeOffsets + seg2 + int(idRangeOffset) +
		2*int(c-uint32(u16(sub, startCodes+seg2)))
	if idOffset+2 > len(sub) {
		return 0, FormatError("cmap glyph id out of range")
	}
	id := u16(sub, idOffset)
	if id == 0 {
		return 0, nil
	}
	return Index(id + idDelta), nil
}

// index6 implements the format 6 "trimmed table" lookup.
func (f *Font) index6(c uint32) (Index, error) {
	sub := f.cmapSub
	firstCode := uint32(u16(sub, 6))
	entryCount := uint32(u16(sub, 8))
	if c < firstCode || c-firstCode >= entryCount {
		return 0, nil
	}
	return Index(u16(sub, 10+2*int(c-firstCode))), nil
}

// HMetric returns the horizontal metrics for the glyph with the given index,
// in FUnits.
func (f *Font) HMetric(i Index) (HMetric, error) {
	j := int(i)
	if j >= f.nHMetric {
		// The glyph is in the run of short records that share the last long
		// record's advance width.
		p := 4*f.nHMetric + 2*(j-f.nHMetric)
		if p+2 > len(f.hmtx) {
			return HMetric{}, FormatError(fmt.Sprintf("glyph index %d beyond hmtx", j))
		}
		return HMetric{
			AdvanceWidth:    u16(f.hmtx, 4*(f.nHMetric-1)),
			LeftSideBearing: i16(f.hmtx, p),
		}, nil
	}
	return HMetric{
		AdvanceWidth:    u16(f.hmtx, 4*j),
		LeftSideBearing: i16(f.hmtx, 4*j+2),
	}, nil
}

// Coverage bits of the original 16-bit kern subtable header.
const (
	kernHorizontal  = 0x0001
	kernMinimum     = 0x0002
	kernCrossStream = 0x0004
)

// Kern returns the horizontal and cross-stream kerning adjustment for the
// given glyph pair, in FUnits. Adjustments accumulate over every format 0
// horizontal non-minimum subtable; everything else is skipped. A font
// without a kern table kerns everything by zero.
func (f *Font) Kern(i0, i1 Index) (x, y int32, err error) {
	if f.kern == nil {
		return 0, 0, nil
	}
	if len(f.kern) < 4 {
		return 0, 0, FormatError("kern data too short")
	}
	if version := u16(f.kern, 0); version != 0 {
		return 0, 0, UnsupportedError(fmt.Sprintf("kern version: %d", version))
	}
	nTables := int(u16(f.kern, 2))
	offset := 4
	for i := 0; i < nTables; i++ {
		if offset+6 > len(f.kern) {
			return 0, 0, FormatError("kern subtable out of range")
		}
		length := int(u16(f.kern, offset+2))
		coverage := u16(f.kern, offset+4)
		if length < 6 || offset+length > len(f.kern) {
			return 0, 0, FormatError("kern subtable out of range")
		}
		if coverage>>8 == 0 && coverage&kernHorizontal != 0 && coverage&kernMinimum == 0 {
			v, ok, err := kernPair(f.kern[offset:offset+length], i0, i1)
			if err != nil {
				return 0, 0, err
			}
			if ok {
				if coverage&kernCrossStream != 0 {
					y += v
				} else {
					x += v
				}
			}
		}
		offset += length
	}
	return x, y, nil
}

// kernPair binary-searches one format 0 subtable for the pair (i0, i1). The
// records are sorted lexicographically by (left, right), i.e. by the packed
// 32-bit key.
func kernPair(sub []byte, i0, i1 Index) (int32, bool, error) {
	if len(sub) < 14 {
		return 0, false, FormatError("kern subtable too short")
	}
	nPairs := int(u16(sub, 6))
	if 14+6*nPairs > len(sub) {
		return 0, false, FormatError("kern subtable too short")
	}
	key := uint32(i0)<<16 | uint32(i1)
	lo, hi := 0, nPairs
	for lo < hi {
		mid := (lo + hi) / 2
		switch k := u32(sub, 14+6*mid); {
		case k < key:
			lo = mid + 1
		case k > key:
			hi = mid
		default:
			return int32(i16(sub, 14+6*mid+4)), true, nil
		}
	}
	return 0, false, nil
}
