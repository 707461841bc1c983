// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"strconv"
)

// cssColor returns col as a CSS colour.
func cssColor(col color.Color) string {
	c := color.NRGBAModel.Convert(col).(color.NRGBA)
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("rgba(%d,%d,%d,%.3g)", c.R, c.G, c.B,
		float64(c.A)/0xff)
}

// cssColors returns the background and the foreground as CSS colours.
// The default background is transparent if transparent is set.
func (c *Code) cssColors(transparent bool) (bg, fg string) {
	if c.Palette == nil && !c.Reverse {
		if transparent {
			return "transparent", "#000"
		}
		return "#fff", "#000"
	}
	b, f := c.colors()
	return cssColor(b), cssColor(f)
}

// EncodeSVG writes an SVG image displaying the code to w.
// Each horizontal run of dark modules is drawn as one rectangle.
// Without a palette the background is transparent.
func (c *Code) EncodeSVG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	siz := c.Size
	scale, bord, pix := c.dims()
	if pix > maxPixels {
		return ErrLargeImage
	}
	b := bufio.NewWriter(w)
	bg, fg := c.cssColors(true)
	fmt.Fprintf(b, `<svg xmlns="http://www.w3.org/2000/svg" `+
		`viewBox="0 0 %[1]d %[1]d" width="%[1]d" height="%[1]d" `+
		`style="shape-rendering:crispEdges">`+
		`<style scoped>.bg{fill:%[2]s}.fg{fill:%[3]s}</style>`+
		`<rect class="bg" x="0" y="0" width="%[1]d" height="%[1]d"/>`,
		pix, bg, fg)
	for y := 0; y < siz; y++ {
		for x := 0; x < siz; {
			for x < siz && !c.Black(x, y) {
				x++
			}
			if x == siz {
				break
			}
			start := x
			for x < siz && c.Black(x, y) {
				x++
			}
			fmt.Fprintf(b, `<rect class="fg" x="%d" y="%d" `+
				`width="%d" height="%d"/>`,
				(start+bord)*scale, (y+bord)*scale,
				(x-start)*scale, scale)
		}
	}
	b.WriteString("</svg>\n")
	return b.Flush()
}

// cssUnits lists the units accepted in c.Unit.
var cssUnits = map[string]bool{
	"px": true, "pt": true, "pc": true, "in": true, "cm": true,
	"mm": true, "em": true, "rem": true, "ex": true, "ch": true,
	"vw": true, "vh": true, "vmin": true, "vmax": true, "%": true,
}

// EncodeHTML writes an HTML table displaying the code to w, one cell
// per module, wrapped in a div of class "qrcode".  Cells are
// c.Scale*c.Ratio c.Unit wide, or c.Scale pixels if c.Unit is "px"
// or empty.  The quiet zone is drawn as the table border, in pixels.
// Cells carry part="module-fg" or part="module-bg" for styling.
func (c *Code) EncodeHTML(w io.Writer) error {
	unit := c.Unit
	if unit == "" {
		unit = "px"
	}
	if w == nil || !c.isValid() || !cssUnits[unit] || c.Ratio < 0 {
		return ErrArgs
	}
	ratio := c.Ratio
	if ratio == 0 {
		ratio = 1
	}
	siz := c.Size
	scale, bord, pix := c.dims()
	if pix > maxPixels {
		return ErrLargeImage
	}
	b := bufio.NewWriter(w)
	bg, fg := c.cssColors(false)
	var cell string
	if unit != "px" {
		n := strconv.FormatFloat(float64(scale)*ratio, 'g', -1, 64)
		cell = "width:" + n + unit + ";height:" + n + unit
	} else {
		n := strconv.Itoa(scale)
		cell = "width:" + n + "px;height:" + n + "px"
	}
	fmt.Fprintf(b, `<div class="qrcode"><table border="0" `+
		`cellspacing="0" cellpadding="0" `+
		`style="border:%dpx solid %s;background:%s">`,
		scale*bord, bg, bg)
	for y := 0; y < siz; y++ {
		b.WriteString("<tr>")
		for x := 0; x < siz; x++ {
			if c.Black(x, y) {
				b.WriteString(`<td style="` + cell + `;background:` +
					fg + `" part="module-fg"></td>`)
			} else {
				b.WriteString(`<td style="` + cell +
					`" part="module-bg"></td>`)
			}
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</table></div>\n")
	return b.Flush()
}
