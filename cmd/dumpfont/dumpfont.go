// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// dumpfont prints a TrueType font's identity, line metrics and per-glyph
// metrics for a sample of characters.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/goki/schrift"
	"github.com/goki/schrift/truetype"
)

var (
	fontfile = flag.String("font", "", "filename of the font to dump (default: Go Regular)")
	text     = flag.String("text", "Hamburgefonts", "characters to report on")
	size     = flag.Float64("size", 16, "pixels per em")
)

func main() {
	flag.Parse()

	fontData := goregular.TTF
	if *fontfile != "" {
		var err error
		fontData, err = os.ReadFile(*fontfile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load font from %s: %v\n", *fontfile, err)
			os.Exit(1)
		}
	}

	font, err := schrift.ParseFont(fontData)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse font: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("family:      %s\n", font.Name(truetype.NameFontFamily))
	fmt.Printf("subfamily:   %s\n", font.Name(truetype.NameFontSubfamily))
	fmt.Printf("unitsPerEm:  %d\n", font.UnitsPerEm())

	ctx := &schrift.Context{Font: font, XScale: *size, YScale: *size}
	ascent, descent, lineGap, err := ctx.LineMetrics()
	if err != nil {
		fmt.Fprintf(os.Stderr, "line metrics: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("at %gpx: ascent %.2f, descent %.2f, line gap %.2f\n\n", *size, ascent, descent, lineGap)

	for _, r := range *text {
		index, err := font.Index(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q: %v\n", r, err)
			os.Exit(1)
		}
		g, err := ctx.RenderGlyph(r)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%q: %v\n", r, err)
			os.Exit(1)
		}
		fmt.Printf("%q  glyph %4d  advance %3d  offset (%3d, %3d)  size %3d×%d\n",
			r, index, g.Advance, g.X, g.Y, g.Width, g.Height)
	}
}
