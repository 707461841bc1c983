// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "github.com/unixdj/qrgen/gf256"

// Bits is a growable bit stream, filled most significant bit first.
type Bits struct {
	b    []byte
	nbit int
}

// NewBits returns Bits with enough capacity for a QR code of the
// given version and level, including room for interleaving.
func NewBits(v Version, l Level) *Bits {
	n := v.Bytes()
	if nblock, _ := v.Blocks(l); nblock > 1 {
		n <<= 1
	}
	return &Bits{b: make([]byte, 0, n)}
}

func (b *Bits) Reset() {
	b.b = b.b[:0]
	b.nbit = 0
}

// Bits returns the number of bits written to b.
func (b *Bits) Bits() int { return b.nbit }

// Bytes returns the contents of b.  It panics if b does not hold
// a whole number of bytes.
func (b *Bits) Bytes() []byte {
	if b.nbit&7 != 0 {
		panic("qr: fractional byte")
	}
	return b.b
}

func (b *Bits) growTo(n int) {
	if cap(b.b) < n {
		nb := make([]byte, len(b.b), n)
		copy(nb, b.b)
		b.b = nb
	}
}

// add appends n zero bytes to a byte aligned b and returns them.
func (b *Bits) add(n int) []byte {
	if b.nbit&7 != 0 {
		panic("qr: fractional byte")
	}
	b.growTo(len(b.b) + n)
	start := len(b.b)
	b.b = b.b[:start+n]
	clear(b.b[start:])
	b.nbit = 8 * len(b.b)
	return b.b[start:]
}

// Write appends the nbit low bits of v to b, most significant first.
// nbit must be between 1 and 32.
func (b *Bits) Write(v uint32, nbit int) {
	v <<= 32 - nbit
	if rem := -b.nbit & 7; rem != 0 {
		b.b[len(b.b)-1] |= byte(v >> (32 - rem))
		if rem >= nbit {
			b.nbit += nbit
			return
		}
		b.nbit += rem
		nbit -= rem
		v <<= rem
	}
	for n := nbit; n > 0; n -= 8 {
		b.b = append(b.b, byte(v>>24))
		v <<= 8
	}
	b.nbit += nbit
}

// writeString appends the bytes of s, 8 bits each.
func (b *Bits) writeString(s string) {
	if b.nbit&7 == 0 {
		b.b = append(b.b, s...)
		b.nbit += len(s) * 8
		return
	}
	for ; len(s) >= 4; s = s[4:] {
		b.Write(uint32(s[0])<<24|uint32(s[1])<<16|
			uint32(s[2])<<8|uint32(s[3]), 32)
	}
	for i := 0; i < len(s); i++ {
		b.Write(uint32(s[i]), 8)
	}
}

// Pad codewords, alternating.
const (
	pad0 = 0xec
	pad1 = 0x11
)

// padTo adds up to t zero terminator bits to b, stopping at n bits,
// zero fills to the byte boundary and appends pad codewords until b
// is n bits long.  n must be a multiple of 8.
func (b *Bits) padTo(t, n int) {
	b.nbit = min(b.nbit+t, n)
	for len(b.b)*8 < b.nbit {
		b.b = append(b.b, 0)
	}
	b.nbit = len(b.b) * 8
	for i := 0; b.nbit < n; i++ {
		b.b = append(b.b, [2]byte{pad0, pad1}[i&1])
		b.nbit += 8
	}
}

// rsEncoders holds a Reed-Solomon encoder for every check codeword
// count in the version table.
var rsEncoders [maxCheck + 1]*gf256.RSEncoder

func init() {
	for v := MinVersion; v <= MaxVersion; v++ {
		for _, lev := range vtab[v].level {
			if rsEncoders[lev.check] == nil {
				rsEncoders[lev.check] = gf256.NewRSEncoder(Field, lev.check)
			}
		}
	}
}

// AddCheckBytes adds the terminator, padding and error correction
// codewords to b for the given QR version and level.  The data
// codewords are split into blocks, shorter blocks first, and the
// check codewords of each block follow all data codewords in block
// order.
func (b *Bits) AddCheckBytes(v Version, l Level) {
	nb := v.DataBits(l)
	if b.nbit > nb {
		panic("qr: internal error: too much data")
	}
	b.growTo(v.Bytes())
	b.padTo(4, nb)

	nd := nb >> 3
	nblock, check := v.Blocks(l)
	rs := rsEncoders[check]
	db := nd / nblock
	short := nblock - nd%nblock
	dat := b.b[:nd]
	for i := 0; i < nblock; i++ {
		if i == short {
			db++
		}
		rs.ECC(dat[:db], b.add(check))
		dat = dat[db:]
	}
	if len(b.b) != v.Bytes() {
		panic("qr: internal error")
	}
}

// interleave interleaves nblock blocks from src to dst, which must be
// of equal length.  Blocks are of equal length, except for the last
// len(src)%nblock blocks that are one byte longer.
func interleave(dst, src []byte, nblock int) {
	db := len(src) / nblock
	extra := dst[db*nblock:]
	dst = dst[:db*nblock]
	short := nblock - len(extra)
	for i := 0; i < nblock; i++ {
		for j, v := range src[:db] {
			dst[j*nblock+i] = v
		}
		src = src[db:]
		if i >= short {
			extra[i-short] = src[0]
			src = src[1:]
		}
	}
}

// Permute returns a BitStream reading data and check bits in b with
// blocks interleaved for the given QR version and level, data
// codewords first.  The BitStream may use the same underlying buffer.
func (b *Bits) Permute(v Version, l Level) BitStream {
	src := b.Bytes()
	if len(src) != v.Bytes() {
		panic("qr: internal error: wrong data length")
	}
	dst := src
	if nblock, check := v.Blocks(l); nblock != 1 {
		if cap(src) < len(src)*2 {
			dst = make([]byte, len(src))
		} else {
			dst = src[len(src) : len(src)*2]
		}
		nc := nblock * check
		nd := len(src) - nc
		interleave(dst[:nd], src[:nd], nblock)
		interleave(dst[nd:], src[nd:], nblock)
	}
	return NewBitStream(dst)
}

// Codewords returns the final codeword sequence for data codewords
// data at the given QR version and level: data padded to capacity,
// split into blocks, with check codewords appended and blocks
// interleaved.  data must not exceed v.DataBytes(l) bytes.
func Codewords(data []byte, v Version, l Level) []byte {
	b := NewBits(v, l)
	b.b = append(b.b, data...)
	b.nbit = len(b.b) * 8
	b.AddCheckBytes(v, l)
	s := b.Permute(v, l)
	return append([]byte(nil), s.Bytes()...)
}

// BitStream reads bits from the underlying buffer.
type BitStream struct {
	b   []byte
	pos int
}

// NewBitStream returns a BitStream reading from b.
func NewBitStream(b []byte) BitStream { return BitStream{b: b} }

// Bytes returns the data underlying s.
func (s *BitStream) Bytes() []byte { return s.b }

// Len returns the number of unread bits.
func (s *BitStream) Len() int { return len(s.b)*8 - s.pos }

// Next returns the next bit from s as 0 or 1.
// Past the end of the buffer Next returns 0.
func (s *BitStream) Next() byte {
	var b byte
	if i := s.pos >> 3; i < len(s.b) {
		b = s.b[i] >> (7 &^ s.pos) & 1
		s.pos++
	}
	return b
}
