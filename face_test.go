// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package schrift

import (
	"image"
	"image/draw"
	"testing"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/goki/schrift/internal/testfont"
)

func fixtureFace(t *testing.T) font.Face {
	t.Helper()
	f, err := ParseFont(testfont.Font())
	if err != nil {
		t.Fatal(err)
	}
	// 32 points at 72 DPI is 32 pixels per em, half a pixel per FUnit.
	return NewFace(f, &Options{Size: 32})
}

func TestFaceMetrics(t *testing.T) {
	m := fixtureFace(t).Metrics()
	if got, want := m.Ascent, fixed.I(24); got != want {
		t.Errorf("Ascent: got %v, want %v", got, want)
	}
	if got, want := m.Descent, fixed.I(6); got != want {
		t.Errorf("Descent: got %v, want %v", got, want)
	}
	if got, want := m.Height, fixed.I(32); got != want {
		t.Errorf("Height: got %v, want %v", got, want)
	}
}

func TestFaceAdvanceAndKern(t *testing.T) {
	a := fixtureFace(t)
	if got, ok := a.GlyphAdvance('A'); !ok || got != fixed.I(18) {
		t.Errorf("GlyphAdvance('A'): got %v, %v, want 18, true", got, ok)
	}
	if got, want := a.Kern('A', 'B'), -fixed.I(3); got != want {
		t.Errorf("Kern('A', 'B'): got %v, want %v", got, want)
	}
	if got := a.Kern('B', 'A'); got != 0 {
		t.Errorf("Kern('B', 'A'): got %v, want 0", got)
	}
}

func TestFaceGlyph(t *testing.T) {
	a := fixtureFace(t)
	dot := fixed.P(10, 20)
	dr, mask, _, advance, ok := a.Glyph(dot, 'A')
	if !ok {
		t.Fatal("Glyph not ok")
	}
	if advance != fixed.I(18) {
		t.Errorf("advance: got %v, want 18", advance)
	}
	if dr.Empty() {
		t.Fatal("empty glyph rectangle")
	}
	// The glyph sits on the baseline: its box ends at most one padding
	// pixel below y=20 and reaches well above it.
	if dr.Max.Y > 21 || dr.Min.Y >= 20 {
		t.Errorf("glyph rectangle %v not on the baseline", dr)
	}
	b := mask.Bounds()
	if b.Dx() != dr.Dx() || b.Dy() != dr.Dy() {
		t.Errorf("mask bounds %v do not match %v", b, dr)
	}
	nonzero := false
	alpha := mask.(*image.Alpha)
	for _, p := range alpha.Pix {
		if p != 0 {
			nonzero = true
			break
		}
	}
	if !nonzero {
		t.Error("blank mask")
	}
}

func TestFaceGlyphBounds(t *testing.T) {
	a := fixtureFace(t)
	bounds, advance, ok := a.GlyphBounds('A')
	if !ok {
		t.Fatal("GlyphBounds not ok")
	}
	if advance != fixed.I(18) {
		t.Errorf("advance: got %v, want 18", advance)
	}
	if bounds.Min.Y >= 0 || bounds.Max.Y > fixed.I(1) {
		t.Errorf("bounds %v do not straddle the baseline upward", bounds)
	}
}

func TestFaceDrawer(t *testing.T) {
	dst := image.NewGray(image.Rect(0, 0, 96, 48))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	d := font.Drawer{
		Dst:  dst,
		Src:  image.Black,
		Face: fixtureFace(t),
		Dot:  fixed.P(4, 40),
	}
	d.DrawString("AB A")
	dark := 0
	for _, p := range dst.Pix {
		if p < 128 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("DrawString left the image blank")
	}
	if d.Dot.X <= fixed.I(4) {
		t.Error("dot did not advance")
	}
}

func TestFaceGoRegular(t *testing.T) {
	f, err := ParseFont(goregular.TTF)
	if err != nil {
		t.Fatal(err)
	}
	a := NewFace(f, &Options{Size: 14, DPI: 144})
	m := a.Metrics()
	if m.Ascent <= 0 || m.Descent <= 0 || m.Height <= m.Ascent {
		t.Errorf("implausible metrics: %+v", m)
	}
	adv, ok := a.GlyphAdvance('M')
	if !ok || adv <= 0 {
		t.Fatalf("GlyphAdvance('M'): %v, %v", adv, ok)
	}
	dst := image.NewGray(image.Rect(0, 0, 200, 40))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	d := font.Drawer{Dst: dst, Src: image.Black, Face: a, Dot: fixed.P(4, 30)}
	d.DrawString("Go schrift")
	dark := 0
	for _, p := range dst.Pix {
		if p < 128 {
			dark++
		}
	}
	if dark < 20 {
		t.Errorf("only %d dark pixels after DrawString", dark)
	}
}
