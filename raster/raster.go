// Copyright 2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// The raster package rasterizes glyph outlines to 8-bit coverage images.
//
// Lines and quadratic curves are accumulated into an Outline, curves are
// flattened into lines, and every line is walked across a grid of cells
// that gather signed sub-pixel area and winding coverage. A row-wise
// running sum over the cells yields the final grayscale bytes.
package raster

import (
	"math"
)

// A cell is one pixel's accumulator: the signed area to the right of the
// sub-segments that crossed it, and their signed y extent.
type cell struct {
	area, cover float64
}

// A Rasterizer converts an Outline into per-cell coverage. The zero value
// is unusable until SetBounds is called.
//
// A Rasterizer is not safe for concurrent use.
type Rasterizer struct {
	width, height int
	cells         []cell
}

// NewRasterizer creates a new Rasterizer with the given bounds.
func NewRasterizer(width, height int) *Rasterizer {
	r := new(Rasterizer)
	r.SetBounds(width, height)
	return r
}

// Size returns the cell grid's dimensions in pixels.
func (r *Rasterizer) Size() (width, height int) {
	return r.width, r.height
}

// SetBounds sets the rasterizer's cell grid to width × height pixels and
// clears it.
func (r *Rasterizer) SetBounds(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.width, r.height = width, height
	if n := width * height; n <= cap(r.cells) {
		r.cells = r.cells[:n]
		r.Clear()
	} else {
		r.cells = make([]cell, n)
	}
}

// Clear resets every cell without changing the bounds.
func (r *Rasterizer) Clear() {
	for i := range r.cells {
		r.cells[i] = cell{}
	}
}

// Rasterize flattens the outline's curves and walks every resulting line
// across the cell grid. The outline's points must already be clamped to
// [0, width) × [0, height); Clamp does this.
func (r *Rasterizer) Rasterize(o *Outline) error {
	if err := o.tesselate(); err != nil {
		return err
	}
	for _, l := range o.Lines {
		r.drawLine(o.Points[l.Beg], o.Points[l.End])
	}
	return nil
}

// Clamp limits p to the cell grid of a width × height rasterizer.
// Co-ordinates below zero snap to zero; co-ordinates at or beyond the upper
// bound snap to the largest float strictly below it, so that the floor of a
// clamped co-ordinate is always a valid cell index.
func Clamp(p Point, width, height int) Point {
	if p.X < 0 {
		p.X = 0
	} else if w := float64(width); p.X >= w {
		p.X = math.Nextafter(w, 0)
	}
	if p.Y < 0 {
		p.Y = 0
	} else if h := float64(height); p.Y >= h {
		p.Y = math.Nextafter(h, 0)
	}
	return p
}

// drawDot folds one sub-segment into the cell at (px, py). xAvg is the
// average x offset of the sub-segment within the cell, yDiff its signed y
// extent.
func (r *Rasterizer) drawDot(px, py int, xAvg, yDiff float64) {
	if px < 0 {
		px = 0
	} else if px >= r.width {
		px = r.width - 1
	}
	if py < 0 {
		py = 0
	} else if py >= r.height {
		py = r.height - 1
	}
	c := &r.cells[py*r.width+px]
	c.cover += yDiff
	c.area += (1 - xAvg) * yDiff
}

func sign(x float64) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// drawLine walks the line from origin to goal across the pixel grid. The
// walk advances in parameter space: for each axis the parameter at which
// the line crosses the next integer grid line is tracked, and the smaller
// of the two decides the next sub-segment. Each sub-segment updates exactly
// one cell. Purely horizontal lines never advance coverage and are skipped.
func (r *Rasterizer) drawLine(origin, goal Point) {
	deltaX := goal.X - origin.X
	deltaY := goal.Y - origin.Y
	dirX, dirY := sign(deltaX), sign(deltaY)
	if dirY == 0 {
		return
	}

	crossingIncrX := 1.0
	if dirX != 0 {
		crossingIncrX = math.Abs(1 / deltaX)
	}
	crossingIncrY := math.Abs(1 / deltaY)

	var pixelX, pixelY int
	var nextCrossingX, nextCrossingY float64
	numSteps := 0
	switch {
	case dirX > 0:
		pixelX = int(origin.X)
		nextCrossingX = crossingIncrX - (origin.X-float64(pixelX))*crossingIncrX
		numSteps += int(math.Ceil(goal.X)) - 1 - pixelX
	case dirX < 0:
		pixelX = int(math.Ceil(origin.X)) - 1
		nextCrossingX = (origin.X - float64(pixelX)) * crossingIncrX
		numSteps += pixelX - int(math.Floor(goal.X))
	default:
		pixelX = int(origin.X)
		nextCrossingX = math.Inf(1)
	}
	if dirY > 0 {
		pixelY = int(origin.Y)
		nextCrossingY = crossingIncrY - (origin.Y-float64(pixelY))*crossingIncrY
		numSteps += int(math.Ceil(goal.Y)) - 1 - pixelY
	} else {
		pixelY = int(math.Ceil(origin.Y)) - 1
		nextCrossingY = (origin.Y - float64(pixelY)) * crossingIncrY
		numSteps += pixelY - int(math.Floor(goal.Y))
	}

	halfDeltaX := 0.5 * deltaX
	prevDistance := 0.0
	for step := 0; step < numSteps; step++ {
		if nextCrossingX < nextCrossingY {
			xAvg := origin.X + (prevDistance+nextCrossingX)*halfDeltaX - float64(pixelX)
			yDiff := (nextCrossingX - prevDistance) * deltaY
			r.drawDot(pixelX, pixelY, xAvg, yDiff)
			prevDistance = nextCrossingX
			nextCrossingX += crossingIncrX
			pixelX += dirX
		} else {
			xAvg := origin.X + (prevDistance+nextCrossingY)*halfDeltaX - float64(pixelX)
			yDiff := (nextCrossingY - prevDistance) * deltaY
			r.drawDot(pixelX, pixelY, xAvg, yDiff)
			prevDistance = nextCrossingY
			nextCrossingY += crossingIncrY
			pixelY += dirY
		}
	}
	xAvg := origin.X + (prevDistance+1)*halfDeltaX - float64(pixelX)
	yDiff := (1 - prevDistance) * deltaY
	r.drawDot(pixelX, pixelY, xAvg, yDiff)
}

// Accumulate integrates the cell grid into pix, one byte of coverage per
// pixel, row-major. Within each row a running sum of the winding coverage
// is kept and each pixel emits |accum + area| clamped to [0, 1], which
// implements the non-zero fill rule. If flip is set the rows are read
// bottom to top. len(pix) must be at least width*height.
func (r *Rasterizer) Accumulate(pix []byte, flip bool) {
	for y := 0; y < r.height; y++ {
		src := y
		if flip {
			src = r.height - 1 - y
		}
		cells := r.cells[src*r.width : (src+1)*r.width]
		row := pix[y*r.width : (y+1)*r.width]
		accum := 0.0
		for x := range cells {
			value := math.Abs(accum + cells[x].area)
			if value > 1 {
				value = 1
			}
			row[x] = uint8(value*255 + 0.5)
			accum += cells[x].cover
		}
	}
}
