// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bytes"
	"image/png"
	"io"

	"golang.org/x/image/bmp"
)

// Limits on the side of an image in pixels, limiting images to
// under 64 gigapixels, and of a text rendering in characters.
const (
	maxPixels = 32767 * 8
	maxText   = 4096
)

var pngEncoder = png.Encoder{CompressionLevel: png.BestCompression}

// PNG returns a PNG image displaying the code.
//
// PNG returns nil if the code is invalid or the image would be over
// 64 gigapixels.
func (c *Code) PNG() []byte {
	var b bytes.Buffer
	if err := c.EncodePNG(&b); err != nil {
		return nil
	}
	return b.Bytes()
}

// EncodePNG writes a PNG image displaying the code to w.
// The image is a 1-bit paletted PNG.  Palette colours with alpha
// below 0xff are kept as transparency.
func (c *Code) EncodePNG(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	if _, _, pix := c.dims(); pix > maxPixels {
		return ErrLargeImage
	}
	return pngEncoder.Encode(w, c.Image())
}

// EncodeBMP writes a BMP image displaying the code to w.
// BMP has no transparency, alpha is disregarded.
func (c *Code) EncodeBMP(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	if _, _, pix := c.dims(); pix > maxPixels {
		return ErrLargeImage
	}
	return bmp.Encode(w, c.Image())
}
