// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"math/bits"
	"sync"
)

// A Plan describes how to construct a QR code
// with a specific version and level.
type Plan struct {
	Version Version // QR code version
	Level   Level   // QR error correction Level

	DataBits int // number of data bits
	Size     int // number of pixels on a side
	Stride   int // number of bytes per bitmap row

	// Map has 1 bits on reserved modules: finder, separator,
	// timing and alignment patterns, format and version information.
	// Data and check bits go to the modules with 0 bits.
	Map []byte

	// Pattern[m] holds the function patterns with format information
	// for mask m on reserved modules and mask m on the others.
	// XOR with a bitmap of data and check bits yields the QR code.
	Pattern [8][]byte
}

// NewPlan returns a Plan for a QR code with the given version and
// level.  The returned Plan is a copy the caller may modify.
func NewPlan(version Version, level Level) (*Plan, error) {
	pp, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	p := *pp
	p.Map = append([]byte(nil), pp.Map...)
	for i, b := range pp.Pattern {
		p.Pattern[i] = append([]byte(nil), b...)
	}
	return &p, nil
}

// Pre-allocated Plans.  A Plan is created the first time a
// combination of version and level is used and is read-only after.
var plans [MaxVersion + 1][H + 1]struct {
	once sync.Once
	p    *Plan
}

// makePlan returns plans[version][level].
// If it doesn't exist, it is created.
func makePlan(version Version, level Level) (*Plan, error) {
	if !version.IsValid() {
		return nil, ErrVersion
	}
	if !level.IsValid() {
		return nil, ErrLevel
	}
	p := &plans[version][level]
	p.once.Do(func() { p.p = vplan(version, level) })
	return p.p, nil
}

// Reserved reports whether the module at column x, row y is
// reserved for function patterns or format or version information.
func (p *Plan) Reserved(x, y int) bool {
	return p.Map[y*p.Stride+x>>3]&(0x80>>(x&7)) != 0
}

// set reserves the module at x, y and colours it black in the base
// pattern if black is true.
func (p *Plan) set(x, y int, black bool) {
	off, bit := y*p.Stride+x>>3, byte(0x80)>>(x&7)
	p.Map[off] |= bit
	if black {
		p.Pattern[0][off] |= bit
	} else {
		p.Pattern[0][off] &^= bit
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// vplan creates a Plan for the given version and level.
func vplan(v Version, l Level) *Plan {
	siz := v.Size()
	stride := (siz + 7) >> 3
	p := &Plan{
		Version:  v,
		Level:    l,
		DataBits: v.DataBits(l),
		Size:     siz,
		Stride:   stride,
	}
	n := stride * siz
	bitmap := make([]byte, n*(len(p.Pattern)+1))
	p.Map, bitmap = bitmap[:n:n], bitmap[n:]
	for i := range p.Pattern {
		p.Pattern[i], bitmap = bitmap[:n:n], bitmap[n:]
	}

	// Timing patterns, partly covered by the finder boxes.
	for i := 0; i < siz; i++ {
		p.set(i, 6, i&1 == 0)
		p.set(6, i, i&1 == 0)
	}

	// Finder boxes with separators.
	for _, c := range [3][2]int{{0, 0}, {siz - 7, 0}, {0, siz - 7}} {
		for dy := -1; dy <= 7; dy++ {
			for dx := -1; dx <= 7; dx++ {
				x, y := c[0]+dx, c[1]+dy
				if x < 0 || x >= siz || y < 0 || y >= siz {
					continue
				}
				d := max(abs(dx-3), abs(dy-3))
				p.set(x, y, d != 2 && d != 4)
			}
		}
	}

	// Alignment boxes at every pair of centres not taken by
	// a finder box.
	align := v.Alignment()
	last := len(align) - 1
	for i, cy := range align {
		for j, cx := range align {
			if i == 0 && (j == 0 || j == last) || i == last && j == 0 {
				continue
			}
			for dy := -2; dy <= 2; dy++ {
				for dx := -2; dx <= 2; dx++ {
					p.set(cx+dx, cy+dy, max(abs(dx), abs(dy)) != 1)
				}
			}
		}
	}

	// Version information, two 3x6 blocks.
	if v >= 7 {
		vb := VersionBits(v)
		for k := 0; k < 18; k++ {
			u, w := k/3, siz-11+k%3
			black := vb>>k&1 != 0
			p.set(w, u, black)
			p.set(u, w, black)
		}
	}

	// Format information areas and the dark module.
	for u := 0; u < 15; u++ {
		x, y := formatPos(u, siz)
		p.set(8, y, false)
		p.set(x, 8, false)
	}
	p.set(8, siz-8, true)

	base := p.Pattern[0]
	for m := range p.Pattern {
		if m != 0 {
			copy(p.Pattern[m], base)
		}
	}
	for m := range p.Pattern {
		p.fplan(m)
		p.mplan(m)
	}
	return p
}

// formatPos returns the positions of format bit u: row y in column 8
// and column x in row 8.  Bit 0 is the least significant.
func formatPos(u, siz int) (x, y int) {
	switch {
	case u < 6:
		y = u
	case u < 8:
		y = u + 1
	default:
		y = siz - 15 + u
	}
	switch {
	case u < 8:
		x = siz - 1 - u
	case u == 8:
		x = 7
	default:
		x = 14 - u
	}
	return x, y
}

// bch returns data followed by the BCH code remainder for the
// generator polynomial poly.
func bch(data, poly uint32) uint32 {
	deg := bits.Len32(poly) - 1
	r := data << deg
	for n := bits.Len32(r); n > deg; n = bits.Len32(r) {
		r ^= poly << (n - 1 - deg)
	}
	return data<<deg | r
}

const (
	formatPoly  = 0x537  // x¹⁰+x⁸+x⁵+x⁴+x²+x+1
	formatMask  = 0x5412 // 101010000010010
	versionPoly = 0x1f25 // x¹²+x¹¹+x¹⁰+x⁹+x⁸+x⁵+x²+1
)

// FormatBits returns the 15 bit format information word for the
// given level and mask.
func FormatBits(l Level, mask int) uint16 {
	return uint16(bch(l.formatBits()<<3|uint32(mask), formatPoly) ^ formatMask)
}

// VersionBits returns the 18 bit version information word for v.
// Versions below 7 carry no version information.
func VersionBits(v Version) uint32 {
	return bch(uint32(v), versionPoly)
}

// fplan writes format information for mask m to Pattern[m].
func (p *Plan) fplan(m int) {
	b := p.Pattern[m]
	fb := FormatBits(p.Level, m)
	for u := 0; u < 15; u++ {
		x, y := formatPos(u, p.Size)
		if fb>>u&1 != 0 {
			b[y*p.Stride+1] |= 0x80               // column 8
			b[8*p.Stride+x>>3] |= 0x80 >> (x & 7) // row 8
		}
	}
}

// Mask returns whether mask m inverts the module at column x, row y.
func Mask(m, x, y int) bool {
	switch m {
	case 0:
		return (y+x)%2 == 0
	case 1:
		return y%2 == 0
	case 2:
		return x%3 == 0
	case 3:
		return (y+x)%3 == 0
	case 4:
		return (y/2+x/3)%2 == 0
	case 5:
		return y*x%2+y*x%3 == 0
	case 6:
		return (y*x%2+y*x%3)%2 == 0
	case 7:
		return ((y+x)%2+y*x%3)%2 == 0
	}
	panic("qr: internal error: mask")
}

// mplan sets the bits of mask m on the data modules of Pattern[m].
func (p *Plan) mplan(m int) {
	b := p.Pattern[m]
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if !p.Reserved(x, y) && Mask(m, x, y) {
				b[y*p.Stride+x>>3] |= 0x80 >> (x & 7)
			}
		}
	}
}

// Serialise writes bits from s to the data modules of bitmap in
// zigzag scan order: two columns at a time from the right, upwards
// first, skipping the vertical timing pattern.  Data modules left
// over when s is exhausted stay white.  Serialise returns the number
// of data modules visited.
func (p *Plan) Serialise(s *BitStream, bitmap []byte) int {
	siz := p.Size
	visited := 0
	up := true
	for x := siz - 1; x > 0; x -= 2 {
		if x == 6 {
			x--
		}
		for i := 0; i < siz; i++ {
			y := i
			if up {
				y = siz - 1 - i
			}
			off := y * p.Stride
			for xx := x; xx > x-2; xx-- {
				if p.Reserved(xx, y) {
					continue
				}
				visited++
				if s.Next() != 0 {
					bitmap[off+xx>>3] |= 0x80 >> (xx & 7)
				}
			}
		}
		up = !up
	}
	return visited
}

// DataModules returns the number of modules available for data and
// check bits in a QR code of version v.
func (v Version) DataModules() int { return vtab[v].bytes*8 + vtab[v].rem }
