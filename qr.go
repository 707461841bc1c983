// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package qr encodes QR codes.

Encode turns text into a Code: a square grid of dark and light
modules, plus presentation settings used by the image and text
renderers.  The encoding itself lives in package coding.
*/
package qr // import "github.com/unixdj/qrgen"

import (
	"errors"
	"image"
	"image/color"

	"github.com/unixdj/qrgen/coding"
)

// A Level denotes a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level = coding.Level

const (
	L = coding.L // 20% redundant
	M = coding.M // 38% redundant
	Q = coding.Q // 55% redundant
	H = coding.H // 65% redundant
)

// A Mode is a data encoding mode.
type Mode = coding.Mode

const (
	AutoMode     = coding.AutoMode
	Numeric      = coding.Numeric
	Alphanumeric = coding.Alphanumeric
	Byte         = coding.Byte
	Latin1       = coding.Latin1
)

// A Version is a QR version, 1 to 40.
type Version = coding.Version

const (
	MinVersion = coding.MinVersion
	MaxVersion = coding.MaxVersion

	// AutoVersion selects the smallest version that fits the text.
	AutoVersion Version = 0

	// AutoMask selects the mask with the lowest penalty.
	AutoMask = coding.AutoMask
)

// Errors returned by Encode.
var (
	ErrDataFormat = coding.ErrDataFormat
	ErrLevel      = coding.ErrLevel
	ErrVersion    = coding.ErrVersion
	ErrMask       = coding.ErrMask
	ErrMode       = coding.ErrMode
	ErrTooLarge   = coding.ErrTooLarge
)

// Errors returned by renderers.
var (
	ErrArgs       = errors.New("qr: invalid arguments")
	ErrLargeImage = errors.New("qr: image too large")
)

// ParseLevel parses an error correction level name, "L" to "H".
func ParseLevel(s string) (Level, error) { return coding.ParseLevel(s) }

// ParseMode parses a mode name.  "" and "auto" yield AutoMode.
func ParseMode(s string) (Mode, error) { return coding.ParseMode(s) }

// An Option modifies how Encode encodes text.
type Option func(*coding.Params)

// WithMode forces the encoding mode.
func WithMode(mode Mode) Option {
	return func(p *coding.Params) { p.Mode = mode }
}

// WithVersion forces the QR version.  Text that does not fit
// results in ErrTooLarge.
func WithVersion(v Version) Option {
	return func(p *coding.Params) { p.Version = v }
}

// WithMask forces the mask pattern, 0 to 7.
func WithMask(mask int) Option {
	return func(p *coding.Params) { p.Mask = mask }
}

// Default presentation settings of a Code returned by Encode.
const (
	DefaultScale  = 8
	DefaultBorder = 4
)

// Encode returns an encoding of text at the given error correction
// level.  Without options the narrowest mode able to represent text,
// the smallest version holding it and the mask with the lowest
// penalty are chosen.
func Encode(text string, level Level, opts ...Option) (*Code, error) {
	p := coding.DefaultParams(level)
	for _, o := range opts {
		o(&p)
	}
	cc, err := coding.Generate(text, p)
	if err != nil {
		return nil, err
	}
	return &Code{Code: *cc, Scale: DefaultScale, Border: DefaultBorder}, nil
}

// A Code is a square pixel grid with presentation settings.
// It implements direct PNG, BMP, PBM, SVG, HTML and text encoding.
type Code struct {
	coding.Code

	Scale   int             // number of image pixels per QR pixel
	Border  int             // quiet zone width in QR pixels
	Palette *[2]color.Color // background and foreground; nil is white, black
	Reverse bool            // swap background and foreground

	// HTML cell size is Scale*Ratio in Unit, "px" if empty.
	Unit  string
	Ratio float64
}

// isValid reports whether c holds a consistent bitmap.
func (c *Code) isValid() bool {
	return c != nil && c.Size > 0 && c.Stride == (c.Size+7)>>3 &&
		len(c.Bitmap) == c.Size*c.Stride
}

// dims returns the scale and the border clamped to sane values and
// the resulting image side in pixels.  Any side over maxPixels is
// reported as maxPixels+1.
func (c *Code) dims() (scale, bord, pix int) {
	const big = maxPixels + 1
	scale = min(max(c.Scale, 1), big)
	bord = min(max(c.Border, 0), big)
	side := min(max(c.Size, 0), big) + bord*2
	if side > maxPixels/scale {
		return scale, bord, big
	}
	return scale, bord, scale * side
}

// textDims returns the clamped border and the side in characters of
// a text rendering, or ErrLargeImage if the side exceeds maxText.
func (c *Code) textDims() (bord, side int, err error) {
	bord = min(max(c.Border, 0), maxText+1)
	side = c.Size + bord*2
	if side > maxText {
		return bord, side, ErrLargeImage
	}
	return bord, side, nil
}

// colors returns the background and the foreground colours.
func (c *Code) colors() (bg, fg color.Color) {
	bg, fg = color.White, color.Black
	if c.Palette != nil {
		bg, fg = c.Palette[0], c.Palette[1]
	}
	if c.Reverse {
		bg, fg = fg, bg
	}
	return bg, fg
}

// Image returns an Image displaying the code, including the quiet
// zone.  The image is paletted with background at index 0.
// Images over maxPixels on a side are not drawn correctly; the
// encoders reject them with ErrLargeImage.
func (c *Code) Image() image.Image {
	bg, fg := c.colors()
	scale, bord, pix := c.dims()
	return &codeImage{c, color.Palette{bg, fg}, scale, bord, pix}
}

// codeImage implements image.PalettedImage.
type codeImage struct {
	*Code
	pal   color.Palette
	scale int
	bord  int
	pix   int
}

func (c *codeImage) Bounds() image.Rectangle {
	return image.Rect(0, 0, c.pix, c.pix)
}

func (c *codeImage) ColorIndexAt(x, y int) uint8 {
	if x < 0 || y < 0 ||
		!c.Black(x/c.scale-c.bord, y/c.scale-c.bord) {
		return 0
	}
	return 1
}

func (c *codeImage) At(x, y int) color.Color {
	return c.pal[c.ColorIndexAt(x, y)]
}

func (c *codeImage) ColorModel() color.Model {
	return c.pal
}

// packRow fills row with the 1-bit pixels of image row y, most
// significant bit first, 1 for index 1 unless invert is set.
// Each QR pixel fills a span of scale bits.
func (c *codeImage) packRow(row []byte, y int, invert bool) {
	clear(row)
	my := y/c.scale - c.bord
	for mx := -c.bord; mx < c.Size+c.bord; mx++ {
		if c.Black(mx, my) != invert {
			lo := (mx + c.bord) * c.scale
			setBits(row, lo, lo+c.scale)
		}
	}
}

// setBits sets bits lo to hi-1 of row.
func setBits(row []byte, lo, hi int) {
	for ; lo < hi && lo&7 != 0; lo++ {
		row[lo>>3] |= 0x80 >> (lo & 7)
	}
	for ; lo+8 <= hi; lo += 8 {
		row[lo>>3] = 0xff
	}
	for ; lo < hi; lo++ {
		row[lo>>3] |= 0x80 >> (lo & 7)
	}
}
