// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strings"

	qr "github.com/unixdj/qrgen"
)

// outFormat is an output type of the command.
type outFormat struct {
	name   string
	encode func(*qr.Code, io.Writer) error
}

// outFormats returns the library formats followed by eps.
func outFormats() []outFormat {
	ff := make([]outFormat, 0, len(qr.Formats)+1)
	for _, f := range qr.Formats {
		ff = append(ff, outFormat{f.Name, f.Encode})
	}
	return append(ff, outFormat{"eps", eps})
}

// outFormatNames returns each format name followed by its inverted
// variant.
func outFormatNames() []string {
	var names []string
	for _, f := range outFormats() {
		names = append(names, f.name, f.name+"i")
	}
	return names
}

func lookupOutFormat(name string) (f outFormat, rev bool, err error) {
	ff := outFormats()
	for _, f := range ff {
		if strings.EqualFold(f.name, name) {
			return f, false, nil
		}
	}
	if base, ok := strings.CutSuffix(name, "i"); ok {
		for _, f := range ff {
			if strings.EqualFold(f.name, base) {
				return f, true, nil
			}
		}
	}
	return outFormat{}, false, fmt.Errorf("%q: unknown type", name)
}

// columns returns the terminal width needed by f for c, or 0 if f is
// not meant for a terminal.
func (f outFormat) columns(c *qr.Code) int {
	pix := c.Size + 2*max(c.Border, 0)
	switch f.name {
	case "utf8":
		return pix
	case "ascii":
		return pix * 2
	}
	return 0
}

// orientation accumulates flips and rotations.  cx is the index of
// the source coordinate advanced along a destination row, inc the
// source increments along a row and a column.
type orientation struct {
	cx  int
	inc [2]int
}

func (o *orientation) flip() {
	o.inc[0] = -o.inc[0]
}

func (o *orientation) rotate() {
	o.cx ^= 1
	m := o.inc[0] * o.inc[1]
	o.inc[0] *= m
	o.inc[1] *= -m
}

// apply rotates and reflects c in place.  QR codes have odd sizes,
// so (Size-1)&1 is 0 and (Size-1)&-1 is Size-1.
func (o orientation) apply(c *qr.Code) {
	cx, inc := o.cx, o.inc
	if cx == 0 && inc == [2]int{1, 1} {
		return
	}
	b := make([]byte, 0, len(c.Bitmap))
	var coord [2]int
	siz := c.Size
	coord[cx^1] = (siz - 1) & inc[1]
	for y := 0; y < siz; y++ {
		coord[cx] = (siz - 1) & inc[0]
		var bb byte
		for x := 0; x < siz; x++ {
			bb <<= 1
			if c.Black(coord[0], coord[1]) {
				bb |= 1
			}
			if x&7 == 7 {
				b = append(b, bb)
			}
			coord[cx] += inc[0]
		}
		if siz&7 != 0 {
			b = append(b, bb<<(8-siz&7))
		}
		coord[cx^1] += inc[1]
	}
	c.Bitmap = b
}

// rgb returns the red, green and blue components of col in [0, 1].
func rgb(col color.Color) (r, g, b float64) {
	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	return float64(c.R) / 0xff, float64(c.G) / 0xff, float64(c.B) / 0xff
}

// eps writes c as Encapsulated PostScript centred on a letter page,
// one point per Scale.
func eps(c *qr.Code, w io.Writer) error {
	const midx, midy = 306, 396
	bw := bufio.NewWriter(w)
	siz := c.Size
	scale := max(c.Scale, 1)
	bord := max(c.Border, 0)
	xorig := (midx*2 - (siz+2*bord)*scale) / 2
	yorig := (midy*2 - (siz+2*bord)*scale) / 2
	fmt.Fprintf(bw, `%%!PS-Adobe-2.0 EPSF-2.0
%%%%Creator: qrgen
%%%%Title: QR Code
%%%%BoundingBox: %d %d %d %d
%%%%EndComments
%%%%EndProlog
<< >> begin
gsave
%g %g translate
%d dup neg scale
/row 0 def
/p { 0 rmoveto 0 rlineto } def
/r { 0 row 1 add dup /row exch def moveto } def
`,
		xorig-1, yorig-1, midx*2-xorig, midy*2-yorig,
		midx-float64(siz*scale)/2, midy+float64((siz-1)*scale)/2-1,
		scale)
	if c.Reverse || c.Palette != nil {
		var bg, fg color.Color = color.White, color.Black
		if c.Palette != nil {
			bg, fg = c.Palette[0], c.Palette[1]
		}
		if c.Reverse {
			bg, fg = fg, bg
		}
		br, bgr, bb := rgb(bg)
		fr, fgr, fb := rgb(fg)
		fmt.Fprintf(bw, `gsave
newpath %d %d moveto
%d dup neg scale
%.3g %.3g %.3g setrgbcolor
1 0 rlineto stroke
grestore
%.3g %.3g %.3g setrgbcolor
`,
			-bord, siz/2, siz+2*bord, br, bgr, bb, fr, fgr, fb)
	}
	fmt.Fprintln(bw, "newpath 0 0 moveto")
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			s := x
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			b := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(bw, "%d %d p ", x-b, b-s)
		}
		fmt.Fprintln(bw, "r")
	}
	bw.WriteString("stroke grestore\nend\n%%Trailer\n")
	return bw.Flush()
}
