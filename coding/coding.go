// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coding implements low-level QR coding details: capacity
// tables, segment encoding, error correction, module placement and
// masking.
package coding // import "github.com/unixdj/qrgen/coding"

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/unixdj/qrgen/gf256"
)

var (
	ErrLevel      = errors.New("qr: invalid level")
	ErrVersion    = errors.New("qr: invalid version")
	ErrMask       = errors.New("qr: invalid mask")
	ErrMode       = errors.New("qr: invalid mode")
	ErrTooLarge   = errors.New("qr: data too large")
	ErrDataFormat = errors.New("qr: invalid data format")
)

// Field is the field for QR error correction.
var Field = gf256.NewField(0x11d, 2)

// A Version represents a QR version.
// The version specifies the size of the QR code:
// a QR code with version v has 4v+17 pixels on a side.
// Versions run from 1 to 40: the larger the version,
// the more information the code can store.
type Version int

const (
	MinVersion Version = 1  // Minimum QR version
	MaxVersion Version = 40 // Maximum QR version
)

func (v Version) String() string { return strconv.Itoa(int(v)) }

// IsValid reports whether v is a QR version.
func (v Version) IsValid() bool { return MinVersion <= v && v <= MaxVersion }

// Size returns the number of pixels on a side of a QR code of
// version v.
func (v Version) Size() int { return int(v)*4 + 17 }

// QR version size classes, determining character count lengths.
const (
	Class0 = iota // QR versions 1 to 9
	Class1        // QR versions 10 to 26
	Class2        // QR versions 27 to 40
)

// SizeClass returns the size class of v, as documented under Class0.
func (v Version) SizeClass() int {
	if v <= 9 {
		return Class0
	}
	if v <= 26 {
		return Class1
	}
	return Class2
}

// Bytes returns the total number of data and check codewords in a
// QR code of version v.
func (v Version) Bytes() int { return vtab[v].bytes }

// DataBytes returns the number of data codewords that can be
// stored in a QR code with the given version and level.
func (v Version) DataBytes(l Level) int {
	vt := &vtab[v]
	lev := vt.level[l]
	return vt.bytes - lev.nblock*lev.check
}

// DataBits returns the number of data bits that can be
// stored in a QR code with the given version and level.
func (v Version) DataBits(l Level) int { return v.DataBytes(l) * 8 }

// Blocks returns the number of error correction blocks and the
// number of check codewords per block for the given version and level.
func (v Version) Blocks(l Level) (nblock, check int) {
	lev := vtab[v].level[l]
	return lev.nblock, lev.check
}

// Alignment returns the row and column coordinates of the alignment
// pattern centres of version v.  The returned slice must not be
// modified.
func (v Version) Alignment() []int { return vtab[v].align }

// A Level represents a QR error correction level.
// From least to most tolerant of errors, they are L, M, Q, H.
type Level int

const (
	L Level = iota // 20% redundant
	M              // 38% redundant
	Q              // 55% redundant
	H              // 65% redundant
)

func (l Level) String() string {
	if L <= l && l <= H {
		return "LMQH"[l : l+1]
	}
	return strconv.Itoa(int(l))
}

// IsValid reports whether l is a QR error correction level.
func (l Level) IsValid() bool { return L <= l && l <= H }

// formatBits returns the 2 bit level indicator used in format
// information: L=01, M=00, Q=11, H=10.
func (l Level) formatBits() uint32 { return uint32(l) ^ 1 }

// ParseLevel parses a level name, case insensitively.
func ParseLevel(s string) (Level, error) {
	if len(s) == 1 {
		if i := strings.IndexByte("lmqhLMQH", s[0]); i >= 0 {
			return Level(i & 3), nil
		}
	}
	return 0, fmt.Errorf("%w %q", ErrLevel, s)
}

func (l Level) MarshalText() ([]byte, error) {
	if !l.IsValid() {
		return nil, ErrLevel
	}
	return []byte(l.String()), nil
}

func (l *Level) UnmarshalText(b []byte) error {
	v, err := ParseLevel(string(b))
	if err != nil {
		return err
	}
	*l = v
	return nil
}

// A version describes metadata associated with a version.
type version struct {
	align []int    // alignment pattern centres
	level [4]level // error correction blocks per level
	bytes int      // total codewords, set by init
	rem   int      // remainder bits, set by init
}

// A level describes the error correction blocks of a version at
// a level.  Blocks differ in length by at most one data codeword,
// shorter blocks first.
type level struct {
	nblock int // number of blocks
	check  int // check codewords per block
}

// modules returns the number of data and check modules in a QR code
// of version v: everything but the finder, timing and alignment
// patterns and format and version information.
func modules(v Version) int {
	n := int(v)
	m := (16*n+128)*n + 64
	if a := len(vtab[v].align); a != 0 {
		m -= (25*a-10)*a - 55
	}
	if v >= 7 {
		m -= 36
	}
	return m
}

func init() {
	for v := MinVersion; v <= MaxVersion; v++ {
		m := modules(v)
		vtab[v].bytes = m >> 3
		vtab[v].rem = m & 7
	}
}
