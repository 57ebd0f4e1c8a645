// Copyright 2010-2017 The Freetype-Go Authors. All rights reserved.
// Use of this source code is governed by your choice of either the
// FreeType License or the GNU General Public License version 2 (or
// any later version), both of which can be found in the LICENSE file.

// render rasterizes a line of text into a PNG file.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"log"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"

	"github.com/goki/schrift"
)

var (
	fontfile = flag.String("font", "", "filename of the font to render with (default: Go Regular)")
	text     = flag.String("text", "Hello, schrift!", "text to render")
	size     = flag.Float64("size", 24, "font size in points")
	dpi      = flag.Float64("dpi", 72, "screen resolution in dots per inch")
	outfile  = flag.String("out", "out.png", "output PNG filename")
)

func main() {
	flag.Parse()

	fontData := goregular.TTF
	if *fontfile != "" {
		var err error
		fontData, err = os.ReadFile(*fontfile)
		if err != nil {
			log.Fatal(err)
		}
	}
	f, err := schrift.ParseFont(fontData)
	if err != nil {
		log.Fatal(err)
	}

	face := schrift.NewFace(f, &schrift.Options{Size: *size, DPI: *dpi})
	defer face.Close()

	m := face.Metrics()
	w := (font.MeasureString(face, *text) + fixed.I(16)).Ceil()
	h := (m.Height + fixed.I(8)).Ceil()
	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(rgba, rgba.Bounds(), image.White, image.Point{}, draw.Src)

	d := font.Drawer{
		Dst:  rgba,
		Src:  image.Black,
		Face: face,
		Dot:  fixed.P(8, 4+m.Ascent.Ceil()),
	}
	d.DrawString(*text)

	out, err := os.Create(*outfile)
	if err != nil {
		log.Fatal(err)
	}
	defer out.Close()
	b := bufio.NewWriter(out)
	if err := png.Encode(b, rgba); err != nil {
		log.Fatal(err)
	}
	if err := b.Flush(); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Wrote %s OK.\n", *outfile)
}
