// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

package raster

import (
	"errors"
)

// A Point is a two-dimensional point or vector, in output pixels.
type Point struct {
	X, Y float64
}

// midpoint returns the point halfway between a and b.
func midpoint(a, b Point) Point {
	return Point{0.5*a.X + 0.5*b.X, 0.5*a.Y + 0.5*b.Y}
}

// A Line is a straight segment between two points of an Outline.
type Line struct {
	Beg, End uint16
}

// A Curve is a quadratic Bézier between two points of an Outline, bent
// towards a control point.
type Curve struct {
	Beg, End, Ctrl uint16
}

// maxPoints is the point budget of an Outline. Segments address points with
// 16-bit indexes, which caps outlines at 65535 points. No real glyph comes
// anywhere near that, even after tesselation.
const maxPoints = 65535

// ErrTooManyPoints reports an outline whose segments plus tesselation would
// need more points than the 16-bit indexes can address.
var ErrTooManyPoints = errors.New("raster: outline has too many points")

// An Outline is a set of lines and quadratic curves between points on a
// pixel grid. Segments hold indexes rather than co-ordinates so that
// tesselation can append points without moving the ones already referenced.
type Outline struct {
	Points []Point
	Lines  []Line
	Curves []Curve

	// cur is the most recent on-curve point, the implicit start of the next
	// Add1 or Add2 segment.
	cur uint16
}

// Clear cancels any previous calls to o.Start or o.AddN.
func (o *Outline) Clear() {
	o.Points = o.Points[:0]
	o.Lines = o.Lines[:0]
	o.Curves = o.Curves[:0]
	o.cur = 0
}

func (o *Outline) addPoint(p Point) (uint16, error) {
	if len(o.Points) >= maxPoints {
		return 0, ErrTooManyPoints
	}
	o.Points = append(o.Points, p)
	return uint16(len(o.Points) - 1), nil
}

// Start starts a new contour at the given point.
func (o *Outline) Start(a Point) error {
	i, err := o.addPoint(a)
	if err != nil {
		return err
	}
	o.cur = i
	return nil
}

// Add1 adds a linear segment from the current point to b.
func (o *Outline) Add1(b Point) error {
	i, err := o.addPoint(b)
	if err != nil {
		return err
	}
	o.Lines = append(o.Lines, Line{o.cur, i})
	o.cur = i
	return nil
}

// Add2 adds a quadratic segment from the current point to c, with control
// point b.
func (o *Outline) Add2(b, c Point) error {
	ctrl, err := o.addPoint(b)
	if err != nil {
		return err
	}
	end, err := o.addPoint(c)
	if err != nil {
		return err
	}
	o.Curves = append(o.Curves, Curve{o.cur, end, ctrl})
	o.cur = end
	return nil
}

// Tesselation subdivides with an explicit stack. From my tests this stack
// barely reaches a height of 4 even for the largest sizes worth supporting,
// and the space requirement only grows logarithmically, so 10 is plenty.
const tessStackSize = 10

// flatness is the subdivision threshold, in output pixels.
const flatness = 0.5

// isFlat reports whether the curve may be approximated by the straight
// segment between its endpoints: the control point must be within flatness
// of the midpoint of the endpoints.
func (o *Outline) isFlat(c Curve) bool {
	m := midpoint(o.Points[c.Beg], o.Points[c.End])
	dx := o.Points[c.Ctrl].X - m.X
	dy := o.Points[c.Ctrl].Y - m.Y
	return dx*dx+dy*dy <= flatness*flatness
}

// tesselate flattens every curve of the outline into lines, splitting at
// the parametric midpoint until the flatness test passes or the stack cap
// is reached. The sub-curves of a split share the pivot point, so the
// flattened chain stays connected end to end.
func (o *Outline) tesselate() error {
	for k := 0; k < len(o.Curves); k++ {
		var stack [tessStackSize]Curve
		top := 0
		c := o.Curves[k]
		for {
			if o.isFlat(c) || top >= tessStackSize {
				o.Lines = append(o.Lines, Line{c.Beg, c.End})
				if top == 0 {
					break
				}
				top--
				c = stack[top]
			} else {
				ctrl0, err := o.addPoint(midpoint(o.Points[c.Beg], o.Points[c.Ctrl]))
				if err != nil {
					return err
				}
				ctrl1, err := o.addPoint(midpoint(o.Points[c.Ctrl], o.Points[c.End]))
				if err != nil {
					return err
				}
				pivot, err := o.addPoint(midpoint(o.Points[ctrl0], o.Points[ctrl1]))
				if err != nil {
					return err
				}
				stack[top] = Curve{c.Beg, pivot, ctrl0}
				top++
				c = Curve{pivot, c.End, ctrl1}
			}
		}
	}
	return nil
}
