// Copyright 2010 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gf256 implements arithmetic over the Galois Field GF(256)
// and Reed-Solomon error correction codewords for QR codes.
package gf256 // import "github.com/unixdj/qrgen/gf256"

import "strconv"

// A Field represents an instance of GF(256) defined by a specific
// polynomial.  A Field is immutable after NewField returns.
type Field struct {
	log [256]byte // log[0] is unused
	exp [510]byte // exp[i+255] == exp[i]
}

// NewField returns a new field corresponding to the polynomial poly
// and generator α.  The QR code field is NewField(0x11d, 2).
//
// NewField panics if poly is not of degree 8 or α does not generate
// the multiplicative group of the field.
func NewField(poly, α int) *Field {
	if poly < 0x100 || poly >= 0x200 {
		panic("gf256: invalid polynomial: " + strconv.Itoa(poly))
	}
	var f Field
	x := 1
	for i := 0; i < 255; i++ {
		if x == 1 && i != 0 {
			panic("gf256: invalid generator " + strconv.Itoa(α) +
				" for polynomial " + strconv.Itoa(poly))
		}
		f.exp[i] = byte(x)
		f.exp[i+255] = byte(x)
		f.log[x] = byte(i)
		x = mul(x, α, poly)
	}
	f.log[0] = 255
	return &f
}

// mul returns the product x*y mod poly, a GF(256) multiplication by
// repeated doubling.
func mul(x, y, poly int) int {
	z := 0
	for x > 0 {
		if x&1 != 0 {
			z ^= y
		}
		x >>= 1
		y <<= 1
		if y&0x100 != 0 {
			y ^= poly
		}
	}
	return z
}

// Add returns the sum of x and y in the field.
func (f *Field) Add(x, y byte) byte { return x ^ y }

// Exp returns the base-α exponential of e in the field.
// If e < 0, Exp returns 0.
func (f *Field) Exp(e int) byte {
	if e < 0 {
		return 0
	}
	return f.exp[e%255]
}

// Log returns the base-α logarithm of x in the field.
// If x == 0, Log returns -1.
func (f *Field) Log(x byte) int {
	if x == 0 {
		return -1
	}
	return int(f.log[x])
}

// Inv returns the multiplicative inverse of x in the field.
// If x == 0, Inv returns 0.
func (f *Field) Inv(x byte) byte {
	if x == 0 {
		return 0
	}
	return f.exp[255-f.log[x]]
}

// Mul returns the product of x and y in the field.
// Multiplying by 0 yields 0.
func (f *Field) Mul(x, y byte) byte {
	if x == 0 || y == 0 {
		return 0
	}
	return f.exp[int(f.log[x])+int(f.log[y])]
}

// Generator returns the coefficients of the Reed-Solomon generator
// polynomial of degree e,
//
//	(x - α⁰)(x - α¹)...(x - αᵉ⁻¹),
//
// highest degree first.  The leading coefficient is always 1.
func (f *Field) Generator(e int) []byte {
	p := make([]byte, 1, e+1)
	p[0] = 1
	for i := 0; i < e; i++ {
		// p = p * (x + αⁱ); subtraction is addition in GF(2⁸).
		p = append(p, 0)
		c := f.exp[i]
		for j := len(p) - 1; j > 0; j-- {
			p[j] ^= f.Mul(p[j-1], c)
		}
	}
	return p
}

// An RSEncoder computes Reed-Solomon check codewords for a fixed
// number of check codewords.  An RSEncoder is safe for concurrent use.
type RSEncoder struct {
	f    *Field
	c    int
	gen  []byte // generator polynomial, highest degree first
	lgen []byte // log of gen[1:], 255 for zero coefficients
}

// NewRSEncoder returns a new Reed-Solomon encoder over the given
// field producing c check codewords.
func NewRSEncoder(f *Field, c int) *RSEncoder {
	if c < 1 || c > 254 {
		panic("gf256: invalid check codeword count " + strconv.Itoa(c))
	}
	gen := f.Generator(c)
	lgen := make([]byte, c)
	for i, v := range gen[1:] {
		lgen[i] = f.log[v]
		if v == 0 {
			lgen[i] = 255
		}
	}
	return &RSEncoder{f: f, c: c, gen: gen, lgen: lgen}
}

// Check returns the number of check codewords rs produces.
func (rs *RSEncoder) Check() int { return rs.c }

// Generator returns the generator polynomial used by rs.
// The returned slice must not be modified.
func (rs *RSEncoder) Generator() []byte { return rs.gen }

// ECC writes to check the remainder of dividing data·xᶜ by the
// generator polynomial, that is, the c check codewords for data.
// check must be at least c bytes long.
func (rs *RSEncoder) ECC(data, check []byte) {
	check = check[:rs.c]
	clear(check)
	exp, log := &rs.f.exp, &rs.f.log
	for _, d := range data {
		// check holds the running remainder; shift in the next
		// coefficient and cancel the leading term.
		fb := d ^ check[0]
		copy(check, check[1:])
		check[rs.c-1] = 0
		if fb == 0 {
			continue
		}
		lfb := int(log[fb])
		for i, lg := range rs.lgen {
			if lg != 255 {
				check[i] ^= exp[lfb+int(lg)]
			}
		}
	}
}
