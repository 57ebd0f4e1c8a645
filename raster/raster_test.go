// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package raster

import (
	"bytes"
	"math"
	"testing"
)

func rasterizeToPix(t *testing.T, o *Outline, w, h int, flip bool) []byte {
	t.Helper()
	r := NewRasterizer(w, h)
	if err := r.Rasterize(o); err != nil {
		t.Fatal(err)
	}
	pix := make([]byte, w*h)
	r.Accumulate(pix, flip)
	return pix
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

// square returns a closed axis-aligned square contour.
func square(t *testing.T, x0, y0, x1, y1 float64) *Outline {
	t.Helper()
	o := new(Outline)
	mustAdd(t, o.Start(Point{x0, y0}))
	mustAdd(t, o.Add1(Point{x0, y1}))
	mustAdd(t, o.Add1(Point{x1, y1}))
	mustAdd(t, o.Add1(Point{x1, y0}))
	mustAdd(t, o.Add1(Point{x0, y0}))
	return o
}

func TestSquareCoverage(t *testing.T) {
	pix := rasterizeToPix(t, square(t, 1, 1, 3, 3), 4, 4, false)
	want := []byte{
		0, 0, 0, 0,
		0, 255, 255, 0,
		0, 255, 255, 0,
		0, 0, 0, 0,
	}
	if !bytes.Equal(pix, want) {
		t.Errorf("coverage:\ngot  %v\nwant %v", pix, want)
	}
}

func TestSquareCoverageWindingInvariance(t *testing.T) {
	// The same square wound the other way must render identically under
	// the non-zero fill rule's absolute value.
	o := new(Outline)
	mustAdd(t, o.Start(Point{1, 1}))
	mustAdd(t, o.Add1(Point{3, 1}))
	mustAdd(t, o.Add1(Point{3, 3}))
	mustAdd(t, o.Add1(Point{1, 3}))
	mustAdd(t, o.Add1(Point{1, 1}))
	ccw := rasterizeToPix(t, square(t, 1, 1, 3, 3), 4, 4, false)
	cw := rasterizeToPix(t, o, 4, 4, false)
	if !bytes.Equal(ccw, cw) {
		t.Errorf("winding direction changed coverage:\nccw %v\ncw  %v", ccw, cw)
	}
}

func TestSubPixelCoverage(t *testing.T) {
	// A square covering the left half of one pixel.
	pix := rasterizeToPix(t, square(t, 0, 0, 0.5, 1), 1, 1, false)
	if want := byte(128); pix[0] != want {
		t.Errorf("half coverage: got %d, want %d", pix[0], want)
	}
}

func TestAccumulateFlip(t *testing.T) {
	o := square(t, 1, 1, 3, 2)
	r := NewRasterizer(4, 4)
	if err := r.Rasterize(o); err != nil {
		t.Fatal(err)
	}
	up := make([]byte, 16)
	down := make([]byte, 16)
	r.Accumulate(up, false)
	r.Accumulate(down, true)
	for y := 0; y < 4; y++ {
		if !bytes.Equal(up[y*4:y*4+4], down[(3-y)*4:(3-y)*4+4]) {
			t.Fatalf("flip is not a row mirror:\nup   %v\ndown %v", up, down)
		}
	}
	if up[1*4+1] != 255 || down[2*4+1] != 255 {
		t.Errorf("unexpected row contents:\nup   %v\ndown %v", up, down)
	}
}

func TestHorizontalLinesInvisible(t *testing.T) {
	o := new(Outline)
	mustAdd(t, o.Start(Point{0, 1.5}))
	mustAdd(t, o.Add1(Point{3.5, 1.5}))
	pix := rasterizeToPix(t, o, 4, 4, false)
	for i, p := range pix {
		if p != 0 {
			t.Fatalf("pixel %d = %d, want 0", i, p)
		}
	}
}

// TestLineCoverSum checks the ray-cast invariant: the covers written by one
// line sum to its y extent, no matter how many cells it crosses.
func TestLineCoverSum(t *testing.T) {
	for _, tc := range []struct{ ox, oy, gx, gy float64 }{
		{0.3, 0.1, 2.7, 2.9},
		{2.7, 2.9, 0.3, 0.1},
		{1.5, 0.25, 1.5, 2.75},
		{0.1, 2.5, 2.9, 0.5},
	} {
		r := NewRasterizer(3, 3)
		r.drawLine(Point{tc.ox, tc.oy}, Point{tc.gx, tc.gy})
		sum := 0.0
		for _, c := range r.cells {
			sum += c.cover
		}
		if want := tc.gy - tc.oy; math.Abs(sum-want) > 1e-9 {
			t.Errorf("line (%v,%v)->(%v,%v): cover sum %v, want %v",
				tc.ox, tc.oy, tc.gx, tc.gy, sum, want)
		}
	}
}

func TestTesselateFlatCurve(t *testing.T) {
	// A curve whose control point sits on the chord is emitted as one line.
	o := new(Outline)
	mustAdd(t, o.Start(Point{0, 0}))
	mustAdd(t, o.Add2(Point{1, 1}, Point{2, 2}))
	if err := o.tesselate(); err != nil {
		t.Fatal(err)
	}
	if len(o.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(o.Lines))
	}
	if beg, end := o.Points[o.Lines[0].Beg], o.Points[o.Lines[0].End]; beg != (Point{0, 0}) || end != (Point{2, 2}) {
		t.Errorf("line endpoints: got %v -> %v", beg, end)
	}
}

// TestTesselateChain checks that subdivision is mass-preserving: the
// flattened lines form an unbroken chain from the curve's begin point to
// its end point, and every shared point is an exact de Casteljau midpoint
// construction, so consecutive lines meet exactly.
func TestTesselateChain(t *testing.T) {
	o := new(Outline)
	mustAdd(t, o.Start(Point{0, 0}))
	mustAdd(t, o.Add2(Point{8, 16}, Point{16, 0}))
	beg, end := o.Curves[0].Beg, o.Curves[0].End
	if err := o.tesselate(); err != nil {
		t.Fatal(err)
	}
	if len(o.Lines) < 2 {
		t.Fatalf("got %d lines, want a subdivided chain", len(o.Lines))
	}
	// The lines come out in stack order, but linked end to end they must
	// form one unbroken chain from the curve's begin point to its end.
	next := make(map[uint16]uint16, len(o.Lines))
	for _, l := range o.Lines {
		if _, ok := next[l.Beg]; ok {
			t.Fatalf("point %d begins two lines", l.Beg)
		}
		next[l.Beg] = l.End
	}
	cur := beg
	for range o.Lines {
		n, ok := next[cur]
		if !ok {
			t.Fatalf("chain broken at point %d", cur)
		}
		cur = n
	}
	if cur != end {
		t.Errorf("chain ends at point %d, want %d", cur, end)
	}
	// The curve is symmetric, so its apex must appear in the chain.
	found := false
	for _, l := range o.Lines {
		if o.Points[l.Beg] == (Point{8, 8}) || o.Points[l.End] == (Point{8, 8}) {
			found = true
		}
	}
	if !found {
		t.Error("parametric midpoint (8,8) missing from the chain")
	}
}

func TestOutlinePointBudget(t *testing.T) {
	o := new(Outline)
	mustAdd(t, o.Start(Point{0, 0}))
	var err error
	for i := 0; err == nil && i < maxPoints; i++ {
		err = o.Add1(Point{float64(i % 7), float64(i % 5)})
	}
	if err != ErrTooManyPoints {
		t.Errorf("got %v, want ErrTooManyPoints", err)
	}
}

func TestClamp(t *testing.T) {
	p := Clamp(Point{-5, 10}, 4, 4)
	if p.X != 0 {
		t.Errorf("X: got %v, want 0", p.X)
	}
	if p.Y >= 4 || p.Y < 3.999 {
		t.Errorf("Y: got %v, want just below 4", p.Y)
	}
	q := Clamp(Point{1.25, 3.5}, 4, 4)
	if q != (Point{1.25, 3.5}) {
		t.Errorf("in-range point moved: got %v", q)
	}
}

func TestRasterizeDeterministic(t *testing.T) {
	mk := func() *Outline {
		o := new(Outline)
		mustAdd(t, o.Start(Point{0.5, 0.5}))
		mustAdd(t, o.Add2(Point{2, 3.5}, Point{3.5, 0.5}))
		mustAdd(t, o.Add1(Point{0.5, 0.5}))
		return o
	}
	a := rasterizeToPix(t, mk(), 4, 4, false)
	b := rasterizeToPix(t, mk(), 4, 4, false)
	if !bytes.Equal(a, b) {
		t.Error("identical outlines rasterized differently")
	}
}
