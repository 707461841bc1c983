// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

// A Code is a square pixel grid.
type Code struct {
	Bitmap []byte // 1 is black, 0 is white
	Size   int    // number of pixels on a side
	Stride int    // number of bytes per row

	Version Version // QR version
	Level   Level   // error correction level
	Mode    Mode    // mode of the first segment
	Mask    int     // mask pattern, 0 to 7
}

// Black reports whether the pixel at column x, row y is black.
// Pixels outside the grid are white.
func (c *Code) Black(x, y int) bool {
	return 0 <= x && x < c.Size && 0 <= y && y < c.Size &&
		c.Bitmap[y*c.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// Penalty returns the penalty value for the code, used for choosing
// the mask.  Lower is better.  The quiet zone is not considered.
//
// The total penalty is the sum of penalties for runs and boxes of
// same-colour pixels, finder-like patterns and colour balance:
//
//   - runs of n >= 5 pixels in a row or column: n-5+3
//   - 2x2 boxes, possibly overlapping: 3
//   - dark runs in ratio 1:1:3:1:1 with a light run at least 4
//     times as long before or after: 40
//   - 10 for every full 5% the dark pixels deviate from 50%
func (c *Code) Penalty() int {
	const (
		minRun    = 5
		runPoints = 3
		boxPoints = 3
		findPP    = 40
		balPP     = 10
		balSteps  = 20 // 5% steps
	)
	siz := c.Size
	p := 0
	runs := make([]int, 0, siz+2)

	// lineRuns returns run lengths of the line at(0..siz-1):
	// a zero, then dark and light runs alternating.
	lineRuns := func(at func(i int) bool) []int {
		r := append(runs[:0], 0)
		for i := 0; i < siz; {
			n := 0
			for ; i < siz && at(i); i++ {
				n++
			}
			r = append(r, n)
			n = 0
			for ; i < siz && !at(i); i++ {
				n++
			}
			r = append(r, n)
		}
		runs = r
		return r
	}
	score := func(r []int) int {
		s := 0
		for _, n := range r {
			if n >= minRun {
				s += n - minRun + runPoints
			}
		}
		// Dark runs are at odd indices.
		for e := 5; e < len(r); e += 2 {
			n := r[e]
			if r[e-1] == n && r[e-2] == 3*n && r[e-3] == n &&
				r[e-4] == n && (r[e-5] >= 4*n ||
				e+1 < len(r) && r[e+1] >= 4*n) {
				s += findPP
			}
		}
		return s
	}

	dark := 0
	for i := 0; i < siz; i++ {
		p += score(lineRuns(func(x int) bool { return c.Black(x, i) }))
		p += score(lineRuns(func(y int) bool { return c.Black(i, y) }))
		for x := 0; x < siz; x++ {
			b := c.Black(x, i)
			if b {
				dark++
			}
			if x > 0 && i+1 < siz && c.Black(x-1, i) == b &&
				c.Black(x, i+1) == b && c.Black(x-1, i+1) == b {
				p += boxPoints
			}
		}
	}

	total := siz * siz
	dev := balSteps*dark - balSteps/2*total
	if dev < 0 {
		dev = -dev
	}
	p += balPP * (dev / total)
	return p
}
