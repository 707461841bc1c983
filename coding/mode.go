// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// A Mode is a QR segment encoding mode.
type Mode int

// Encoding modes.
const (
	AutoMode     Mode = iota - 1 // detect the narrowest mode for the text
	Numeric                      // numeric mode, digits
	Alphanumeric                 // alphanumeric mode, 0-9 A-Z SPACE $%*+-./:
	Byte                         // byte mode, any data (UTF-8 text as is)
	Latin1                       // byte mode, UTF-8 text encoded as ISO 8859-1
)

// modeEncoder implements a QR segment encoding.
type modeEncoder struct {
	name      string // name for error reporting and parsing
	indicator uint32 // 4 bit mode indicator

	// countLength lists lengths of the character count field in
	// the three QR version size classes.
	countLength [3]int

	// valid reports whether the string is encodable in the mode.
	valid func(string) bool

	// transform returns the string to encode, for modes whose
	// input and encoded forms differ.  It is called after valid.
	transform func(string) string

	// encodedLength returns the length in bits of n encoded
	// characters, and capacity the number of characters that fit
	// in n bits.  They are inverses of each other.
	encodedLength func(n int) int
	capacity      func(n int) int

	// encode writes the characters of s.
	encode func(b *Bits, s string)
}

const alphamask uint64 = 0x07fffffe_07ffec31 // SPACE $% *+ -./ [0-9] : [A-Z]

// Alphanumeric encoding table, indexed by byte&0x3f.
// "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
var alpha = [64]byte{
	00, 10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, // 0x40
	25, 26, 27, 28, 29, 30, 31, 32, 33, 34, 35, 00, 00, 00, 00, 00, // 0x50
	36, 00, 00, 00, 37, 38, 00, 00, 00, 00, 39, 40, 00, 41, 42, 43, // 0x20
	00, 01, 02, 03, 04, 05, 06, 07, 8, 9, 44, 00, 00, 00, 00, 00, // 0x30
}

// AlphaCode returns the alphanumeric mode code of c,
// or -1 if c is not in the alphanumeric character set.
func AlphaCode(c byte) int {
	if !isAlpha(c) {
		return -1
	}
	return int(alpha[c&0x3f])
}

func isDigit(c byte) bool { return c-'0' < 10 }
func isAlpha(c byte) bool { return c-' ' < 64 && alphamask>>(c-' ')&1 != 0 }

// all reports whether is holds for every byte of s.
func all(s string, is func(byte) bool) bool {
	for i := 0; i < len(s); i++ {
		if !is(s[i]) {
			return false
		}
	}
	return true
}

var modes = [...]modeEncoder{
	Numeric: {
		name:        "numeric",
		indicator:   1,
		countLength: [3]int{10, 12, 14},
		valid:       func(s string) bool { return all(s, isDigit) },
		encodedLength: func(n int) int {
			return n/3*10 + [3]int{0, 4, 7}[n%3]
		},
		capacity: func(n int) int {
			return n/10*3 + [10]int{0, 0, 0, 0, 1, 1, 1, 2, 2, 2}[n%10]
		},
		encode: func(b *Bits, s string) {
			for ; len(s) >= 3; s = s[3:] {
				b.Write(uint32(s[0]-'0')*100+uint32(s[1]-'0')*10+
					uint32(s[2]-'0'), 10)
			}
			switch len(s) {
			case 2:
				b.Write(uint32(s[0]-'0')*10+uint32(s[1]-'0'), 7)
			case 1:
				b.Write(uint32(s[0]-'0'), 4)
			}
		},
	},
	Alphanumeric: {
		name:        "alphanumeric",
		indicator:   2,
		countLength: [3]int{9, 11, 13},
		valid:       func(s string) bool { return all(s, isAlpha) },
		encodedLength: func(n int) int {
			return n/2*11 + n%2*6
		},
		capacity: func(n int) int {
			c := n / 11 * 2
			if n%11 >= 6 {
				c++
			}
			return c
		},
		encode: func(b *Bits, s string) {
			for ; len(s) >= 2; s = s[2:] {
				b.Write(uint32(alpha[s[0]&0x3f])*45+
					uint32(alpha[s[1]&0x3f]), 11)
			}
			if len(s) == 1 {
				b.Write(uint32(alpha[s[0]&0x3f]), 6)
			}
		},
	},
	Byte: {
		name:          "byte",
		indicator:     4,
		countLength:   [3]int{8, 16, 16},
		valid:         func(string) bool { return true },
		encodedLength: func(n int) int { return n * 8 },
		capacity:      func(n int) int { return n / 8 },
		encode:        (*Bits).writeString,
	},
	Latin1: {
		name:        "latin-1",
		indicator:   4,
		countLength: [3]int{8, 16, 16},
		valid: func(s string) bool {
			for _, r := range s {
				if r >= 0x100 {
					return false
				}
			}
			return true
		},
		transform: func(s string) string {
			// Validated above, cannot fail.
			t, _ := charmap.ISO8859_1.NewEncoder().String(s)
			return t
		},
		encodedLength: func(n int) int { return n * 8 },
		capacity:      func(n int) int { return n / 8 },
		encode:        (*Bits).writeString,
	},
}

func getMode(mode Mode) *modeEncoder {
	if mode >= 0 && int(mode) < len(modes) {
		return &modes[mode]
	}
	return nil
}

func (mode Mode) String() string {
	if mode == AutoMode {
		return "auto"
	}
	if m := getMode(mode); m != nil {
		return m.name
	}
	return strconv.Itoa(int(mode))
}

// ParseMode parses a mode name, case insensitively.  Besides the
// names returned by Mode.String, "octet" is accepted for Byte and
// "latin1" and "iso-8859-1" for Latin1.  An empty string is AutoMode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return AutoMode, nil
	case "numeric":
		return Numeric, nil
	case "alphanumeric":
		return Alphanumeric, nil
	case "byte", "octet":
		return Byte, nil
	case "latin-1", "latin1", "iso-8859-1":
		return Latin1, nil
	}
	return AutoMode, fmt.Errorf("%w %q", ErrMode, s)
}

func (mode Mode) MarshalText() ([]byte, error) {
	if mode != AutoMode && getMode(mode) == nil {
		return nil, ErrMode
	}
	return []byte(mode.String()), nil
}

func (mode *Mode) UnmarshalText(b []byte) error {
	m, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*mode = m
	return nil
}

// Detect returns the narrowest mode able to encode text:
// Numeric, Alphanumeric or Byte.
func Detect(text string) Mode {
	switch {
	case all(text, isDigit):
		return Numeric
	case all(text, isAlpha):
		return Alphanumeric
	}
	return Byte
}

// CountLength returns the length in bits of the character count
// field for mode in QR version size class class.
func (mode Mode) CountLength(class int) int {
	if m := getMode(mode); m != nil {
		return m.countLength[class]
	}
	return 0
}

// Capacity returns the maximum number of characters (bytes for byte
// modes) encodable in mode in a QR code of the given version and
// level, or 0 if the mode is invalid.
func (mode Mode) Capacity(v Version, l Level) int {
	m := getMode(mode)
	if m == nil {
		return 0
	}
	n := v.DataBits(l) - 4 - m.countLength[v.SizeClass()]
	if n <= 0 {
		return 0
	}
	return min(m.capacity(n), 1<<m.countLength[v.SizeClass()]-1)
}

// A Segment describes a QR code segment.
type Segment struct {
	Text string // data to encode
	Mode Mode   // encoding mode
}

// SegmentError represents text not encodable in its mode.
// It matches ErrDataFormat.
type SegmentError Segment

func (e SegmentError) Error() string {
	return fmt.Sprintf("qr: non-%s string %#q", e.Mode, e.Text)
}

func (e SegmentError) Is(target error) bool { return target == ErrDataFormat }

// IsValid reports whether seg is encodable.
func (seg Segment) IsValid() bool {
	m := getMode(seg.Mode)
	return m != nil && m.valid(seg.Text)
}

// Transform validates seg and returns it with the text converted
// to its encoded form.  The returned segment's Count is the value
// of the character count field.
func (seg Segment) Transform() (Segment, error) {
	m := getMode(seg.Mode)
	if m == nil {
		return Segment{}, fmt.Errorf("%w %d", ErrMode, seg.Mode)
	}
	if !m.valid(seg.Text) {
		return Segment{}, SegmentError(seg)
	}
	if m.transform != nil {
		seg.Text = m.transform(seg.Text)
	}
	return seg, nil
}

// Count returns the character count of a transformed segment.
func (seg Segment) Count() int { return len(seg.Text) }

// EncodedLength returns the encoded length in bits of a transformed
// seg in the given QR version size class, including the mode
// indicator and the character count, or 0 if the mode is invalid.
func (seg Segment) EncodedLength(class int) int {
	m := getMode(seg.Mode)
	if m == nil {
		return 0
	}
	return 4 + m.countLength[class] + m.encodedLength(seg.Count())
}

// Encode writes a transformed seg encoded for the given QR version
// size class to b.
func (seg Segment) Encode(b *Bits, class int) error {
	m := getMode(seg.Mode)
	if m == nil {
		return fmt.Errorf("%w %d", ErrMode, seg.Mode)
	}
	if m.transform == nil && !m.valid(seg.Text) {
		return SegmentError(seg)
	}
	n := seg.Count()
	if n >= 1<<m.countLength[class] {
		return fmt.Errorf("%w: %d characters exceed the %s mode count field",
			ErrTooLarge, n, m.name)
	}
	b.Write(m.indicator, 4)
	b.Write(uint32(n), m.countLength[class])
	m.encode(b, seg.Text)
	return nil
}
