// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package truetype

import (
	"errors"
	"reflect"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/goki/schrift/internal/testfont"
)

func parseFixture(t *testing.T) *Font {
	t.Helper()
	font, err := Parse(testfont.Font())
	if err != nil {
		t.Fatal(err)
	}
	return font
}

func TestLoadSimple(t *testing.T) {
	font := parseFixture(t)
	g := new(GlyphBuf)
	if err := g.Load(font, 0); err != nil {
		t.Fatal(err)
	}
	want := &GlyphBuf{
		B: Bounds{8, 0, 40, 48},
		Point: []Point{
			{8, 0, 0x09},
			{8, 48, 0x09},
			{40, 48, 0x09},
			{40, 0, 0x09},
		},
		End: []int{4},
	}
	if g.B != want.B {
		t.Errorf("B: got %v, want %v", g.B, want.B)
	}
	if !reflect.DeepEqual(g.Point, want.Point) {
		t.Errorf("Point:\ngot  %v\nwant %v", g.Point, want.Point)
	}
	if !reflect.DeepEqual(g.End, want.End) {
		t.Errorf("End: got %v, want %v", g.End, want.End)
	}
}

func TestLoadOffCurve(t *testing.T) {
	font := parseFixture(t)
	g := new(GlyphBuf)
	if err := g.Load(font, 1); err != nil {
		t.Fatal(err)
	}
	want := []Point{
		{0, 0, 0x01},
		{16, 56, 0x00},
		{32, 0, 0x01},
	}
	if !reflect.DeepEqual(g.Point, want) {
		t.Errorf("Point:\ngot  %v\nwant %v", g.Point, want)
	}
}

func TestLoadEmptyOutline(t *testing.T) {
	font := parseFixture(t)
	g := new(GlyphBuf)
	if err := g.Load(font, 2); err != nil {
		t.Fatal(err)
	}
	if len(g.Point) != 0 || len(g.End) != 0 {
		t.Errorf("got %d points, %d contours, want none", len(g.Point), len(g.End))
	}
}

func TestLoadCompound(t *testing.T) {
	font := parseFixture(t)
	g := new(GlyphBuf)
	if err := g.Load(font, 3); err != nil {
		t.Fatal(err)
	}
	// Glyph 1 shifted right by 8.
	want := []Point{
		{8, 0, 0x01},
		{24, 56, 0x00},
		{40, 0, 0x01},
	}
	if !reflect.DeepEqual(g.Point, want) {
		t.Errorf("Point:\ngot  %v\nwant %v", g.Point, want)
	}
	if got, want := g.B, (Bounds{8, 0, 40, 28}); got != want {
		t.Errorf("B: got %v, want %v", got, want)
	}
}

// chainFont builds a font whose glyph i (for i > 0) is a compound glyph
// holding glyph i-1; glyph 0 is simple. Loading glyph n therefore nests n
// component levels deep.
func chainFont(t *testing.T, n int) *Font {
	t.Helper()
	glyphs := [][]byte{testfont.SquareGlyph()}
	for i := 1; i <= n; i++ {
		glyphs = append(glyphs, testfont.CompoundGlyph(8, 0, 40, 48, uint16(i-1), 0, 0))
	}
	glyf, loca := testfont.AssembleGlyf(glyphs...)
	font, err := Parse(testfont.Build(
		testfont.Head(0), testfont.Hhea(3), testfont.Hmtx(), testfont.Cmap4(), glyf, loca))
	if err != nil {
		t.Fatal(err)
	}
	return font
}

func TestCompoundRecursionLimit(t *testing.T) {
	g := new(GlyphBuf)
	if err := g.Load(chainFont(t, 4), 4); err != nil {
		t.Errorf("depth 4: %v", err)
	}
	if err := g.Load(chainFont(t, 5), 5); err != ErrRecursion {
		t.Errorf("depth 5: got %v, want ErrRecursion", err)
	}
}

func TestCompoundSelfReference(t *testing.T) {
	glyf, loca := testfont.AssembleGlyf(
		testfont.SquareGlyph(),
		testfont.CompoundGlyph(8, 0, 40, 48, 1, 0, 0))
	font, err := Parse(testfont.Build(
		testfont.Head(0), testfont.Hhea(3), testfont.Hmtx(), testfont.Cmap4(), glyf, loca))
	if err != nil {
		t.Fatal(err)
	}
	g := new(GlyphBuf)
	if err := g.Load(font, 1); err != ErrRecursion {
		t.Errorf("got %v, want ErrRecursion", err)
	}
}

func TestCompoundPointMatching(t *testing.T) {
	// A component placed by point matching: ARG_1_AND_2_ARE_WORDS alone,
	// without ARGS_ARE_XY_VALUES.
	var b testfont.Buf
	b.I16(-1)
	b.I16(8)
	b.I16(0)
	b.I16(40)
	b.I16(48)
	b.U16(0x0001)
	b.U16(0)
	b.U16(1)
	b.U16(2)
	glyf, loca := testfont.AssembleGlyf(testfont.SquareGlyph(), b)
	font, err := Parse(testfont.Build(
		testfont.Head(0), testfont.Hhea(3), testfont.Hmtx(), testfont.Cmap4(), glyf, loca))
	if err != nil {
		t.Fatal(err)
	}
	g := new(GlyphBuf)
	err = g.Load(font, 1)
	var ue UnsupportedError
	if !errors.As(err, &ue) {
		t.Errorf("got %v, want an UnsupportedError", err)
	}
}

func TestNonMonotonicContourEnds(t *testing.T) {
	var b testfont.Buf
	b.I16(2) // two contours
	b.I16(8)
	b.I16(0)
	b.I16(40)
	b.I16(48)
	b.U16(3)
	b.U16(3) // endPts not increasing
	b.U16(0)
	glyf, loca := testfont.AssembleGlyf(b)
	font, err := Parse(testfont.Build(
		testfont.Head(0), testfont.Hhea(3), testfont.Hmtx(), testfont.Cmap4(), glyf, loca))
	if err != nil {
		t.Fatal(err)
	}
	g := new(GlyphBuf)
	err = g.Load(font, 0)
	var fe FormatError
	if !errors.As(err, &fe) {
		t.Errorf("got %v, want a FormatError", err)
	}
}

func TestFlagRepeatOverrun(t *testing.T) {
	var b testfont.Buf
	b.I16(1)
	b.I16(8)
	b.I16(0)
	b.I16(40)
	b.I16(48)
	b.U16(3) // four points
	b.U16(0)
	b.U8(0x09)
	b.U8(200) // repeat far past the point count
	glyf, loca := testfont.AssembleGlyf(b)
	font, err := Parse(testfont.Build(
		testfont.Head(0), testfont.Hhea(3), testfont.Hmtx(), testfont.Cmap4(), glyf, loca))
	if err != nil {
		t.Fatal(err)
	}
	g := new(GlyphBuf)
	err = g.Load(font, 0)
	var fe FormatError
	if !errors.As(err, &fe) {
		t.Errorf("got %v, want a FormatError", err)
	}
}

func TestLoadGoRegular(t *testing.T) {
	font, err := Parse(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	g := new(GlyphBuf)
	// Load every mapped ASCII glyph; none may fail or read out of range.
	for r := rune(0x20); r < 0x7F; r++ {
		i, err := font.Index(r)
		if err != nil {
			t.Fatalf("Index(%q): %v", r, err)
		}
		if err := g.Load(font, i); err != nil {
			t.Fatalf("Load(%q): %v", r, err)
		}
		for _, e := range g.End {
			if e > len(g.Point) {
				t.Fatalf("Load(%q): contour end %d beyond %d points", r, e, len(g.Point))
			}
		}
	}
}
