// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"bufio"
	"fmt"
	"io"
)

// EncodePBM writes a Portable Bit Map image displaying the code to w,
// for use with netpbm.  EncodePBM disregards c.Palette, as other PNM
// formats are not supported; c.Reverse inverts the image.
func (c *Code) EncodePBM(w io.Writer) error {
	if w == nil || !c.isValid() {
		return ErrArgs
	}
	scale, _, pix := c.dims()
	if pix > maxPixels {
		return ErrLargeImage
	}
	img := c.Image().(*codeImage)
	b := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(b, "P4\n%d %d\n", pix, pix); err != nil {
		return err
	}
	row := make([]byte, (pix+7)>>3)
	for y := 0; y < pix; y += scale {
		img.packRow(row, y, c.Reverse)
		for i := 0; i < scale; i++ {
			if _, err := b.Write(row); err != nil {
				return err
			}
		}
	}
	return b.Flush()
}
