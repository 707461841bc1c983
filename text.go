// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"io"
	"strings"

	"github.com/goccy/go-json"
)

// halfBlocks is indexed by top<<1 | bottom.
var halfBlocks = [4]string{" ", "▄", "▀", "█"}

// String returns the code drawn with Unicode half blocks, two rows
// of QR pixels per line, including the quiet zone.  Light pixels are
// drawn, so that the code scans as light on dark as on a terminal;
// with c.Reverse dark pixels are drawn instead.  c.Scale is ignored.
func (c *Code) String() string {
	if !c.isValid() {
		return ""
	}
	bord, _, err := c.textDims()
	if err != nil {
		return ""
	}
	lo, hi := -bord, c.Size+bord
	draw := func(x, y int) bool {
		return y < hi && c.Black(x, y) == c.Reverse
	}
	var b strings.Builder
	b.Grow((hi - lo + 1) / 2 * ((hi-lo)*3 + 1))
	for y := lo; y < hi; y += 2 {
		for x := lo; x < hi; x++ {
			i := 0
			if draw(x, y) {
				i = 2
			}
			if draw(x, y+1) {
				i |= 1
			}
			b.WriteString(halfBlocks[i])
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// EncodeUTF8 writes c.String() to w.
func (c *Code) EncodeUTF8(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	if _, _, err := c.textDims(); err != nil {
		return err
	}
	_, err := io.WriteString(w, c.String())
	return err
}

// EncodeASCII writes the code to w as text, two characters per QR
// pixel, "##" for dark and spaces for light, or the other way round
// with c.Reverse.  c.Scale is ignored.
func (c *Code) EncodeASCII(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	siz := c.Size
	bord, pix, err := c.textDims()
	if err != nil {
		return err
	}
	b := make([]byte, (pix*2+1)*pix)
	i := 0
	for y := -bord; y < siz+bord; y++ {
		for x := -bord; x < siz+bord; x++ {
			var p byte = ' '
			if c.Black(x, y) != c.Reverse {
				p = '#'
			}
			_ = b[i+1]
			b[i], b[i+1] = p, p
			i += 2
		}
		b[i] = '\n'
		i++
	}
	_, err = w.Write(b)
	return err
}

// jsonCode is the JSON form of a Code.
type jsonCode struct {
	Version Version  `json:"version"`
	Level   Level    `json:"level"`
	Mode    Mode     `json:"mode"`
	Mask    int      `json:"mask"`
	Size    int      `json:"size"`
	Modules []string `json:"modules"`
}

// Rows returns the QR pixels as strings, one per row, with '#' for
// dark and '.' for light.  The quiet zone is not included.
func (c *Code) Rows() []string {
	rows := make([]string, c.Size)
	b := make([]byte, c.Size)
	for y := range rows {
		for x := range b {
			b[x] = '.'
			if c.Black(x, y) {
				b[x] = '#'
			}
		}
		rows[y] = string(b)
	}
	return rows
}

// MarshalJSON encodes the code's parameters and pixel rows as JSON.
// Presentation settings are not included.
func (c *Code) MarshalJSON() ([]byte, error) {
	if !c.isValid() {
		return nil, ErrArgs
	}
	return json.Marshal(jsonCode{
		Version: c.Version,
		Level:   c.Level,
		Mode:    c.Mode,
		Mask:    c.Mask,
		Size:    c.Size,
		Modules: c.Rows(),
	})
}

// EncodeJSON writes the JSON encoding of the code to w, followed by
// a newline.
func (c *Code) EncodeJSON(w io.Writer) error {
	if w == nil {
		return ErrArgs
	}
	b, err := c.MarshalJSON()
	if err != nil {
		return err
	}
	_, err = w.Write(append(b, '\n'))
	return err
}
