// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"fmt"
	"testing"
)

func TestDetect(t *testing.T) {
	for _, tt := range []struct {
		text string
		want Mode
	}{
		{"", Numeric},
		{"0123456789", Numeric},
		{"HELLO WORLD", Alphanumeric},
		{"$%*+-./: 42", Alphanumeric},
		{"Hello", Byte},
		{"12#", Byte},
		{"日本", Byte},
	} {
		if got := Detect(tt.text); got != tt.want {
			t.Errorf("Detect(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestAlphaCode(t *testing.T) {
	const set = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ $%*+-./:"
	for i := 0; i < 256; i++ {
		want := -1
		for j := 0; j < len(set); j++ {
			if set[j] == byte(i) {
				want = j
			}
		}
		if got := AlphaCode(byte(i)); got != want {
			t.Errorf("AlphaCode(%q) = %d, want %d", byte(i), got, want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, tt := range []struct {
		s    string
		want Mode
	}{
		{"", AutoMode},
		{"auto", AutoMode},
		{"Numeric", Numeric},
		{"alphanumeric", Alphanumeric},
		{"BYTE", Byte},
		{"octet", Byte},
		{"latin1", Latin1},
		{"latin-1", Latin1},
		{"ISO-8859-1", Latin1},
	} {
		got, err := ParseMode(tt.s)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v, nil",
				tt.s, got, err, tt.want)
		}
	}
	if _, err := ParseMode("kanji"); !errors.Is(err, ErrMode) {
		t.Errorf("ParseMode(kanji) error = %v, want ErrMode", err)
	}
	for m := AutoMode; m <= Latin1; m++ {
		b, err := m.MarshalText()
		if err != nil {
			t.Fatalf("%v.MarshalText() error: %v", m, err)
		}
		var got Mode
		if err := got.UnmarshalText(b); err != nil || got != m {
			t.Errorf("UnmarshalText(%q) = %v, %v; want %v", b, got, err, m)
		}
	}
}

func TestSegmentErrors(t *testing.T) {
	for _, seg := range []Segment{
		{"12a", Numeric},
		{"hello", Alphanumeric},
		{"€", Latin1},
	} {
		_, err := seg.Transform()
		if !errors.Is(err, ErrDataFormat) {
			t.Errorf("%v.Transform() error = %v, want ErrDataFormat", seg, err)
		}
		var se SegmentError
		if !errors.As(err, &se) || se.Text != seg.Text || se.Mode != seg.Mode {
			t.Errorf("%v.Transform() error = %#v, want SegmentError", seg, err)
		}
		if seg.IsValid() {
			t.Errorf("%v.IsValid() = true", seg)
		}
	}
	if _, err := (Segment{"1", Mode(9)}).Transform(); !errors.Is(err, ErrMode) {
		t.Errorf("Transform with mode 9 error = %v, want ErrMode", err)
	}
}

func TestLatin1(t *testing.T) {
	seg, err := Segment{"café ½", Latin1}.Transform()
	if err != nil {
		t.Fatal(err)
	}
	if want := "caf\xe9 \xbd"; seg.Text != want {
		t.Errorf("transformed text = %q, want %q", seg.Text, want)
	}
	if seg.Count() != 6 {
		t.Errorf("Count() = %d, want 6", seg.Count())
	}
	if got, want := seg.EncodedLength(Class0), 4+8+6*8; got != want {
		t.Errorf("EncodedLength() = %d, want %d", got, want)
	}
}

// readBits reads n bits from the start of s.
func readBits(s *BitStream, n int) uint32 {
	var v uint32
	for i := 0; i < n; i++ {
		v = v<<1 | uint32(s.Next())
	}
	return v
}

func TestNumericGroups(t *testing.T) {
	for i := 0; i < 1000; i++ {
		text := fmt.Sprintf("%03d", i)
		var b Bits
		modes[Numeric].encode(&b, text)
		if b.Bits() != 10 {
			t.Fatalf("%s: encoded in %d bits, want 10", text, b.Bits())
		}
		s := NewBitStream(b.b)
		v := readBits(&s, 10)
		if got := fmt.Sprintf("%03d", v); got != text {
			t.Errorf("%s: decoded as %s", text, got)
		}
	}
	for _, tt := range []struct {
		text string
		nbit int
		want uint32
	}{
		{"7", 4, 7},
		{"42", 7, 42},
		{"99", 7, 99},
		{"12345", 17, 123<<7 | 45},
		{"0123", 14, 12<<4 | 3},
	} {
		var b Bits
		modes[Numeric].encode(&b, tt.text)
		if b.Bits() != tt.nbit {
			t.Errorf("%s: encoded in %d bits, want %d", tt.text, b.Bits(), tt.nbit)
			continue
		}
		s := NewBitStream(b.b)
		if got := readBits(&s, tt.nbit); got != tt.want {
			t.Errorf("%s: encoded as %#x, want %#x", tt.text, got, tt.want)
		}
	}
}

func TestAlphanumericPairs(t *testing.T) {
	var b Bits
	modes[Alphanumeric].encode(&b, "HELLO WORLD")
	if b.Bits() != 61 {
		t.Fatalf("encoded in %d bits, want 61", b.Bits())
	}
	s := NewBitStream(b.b)
	// HE LL O_ WO RL D
	for _, want := range []uint32{779, 966, 1116, 1464, 1236} {
		if got := readBits(&s, 11); got != want {
			t.Errorf("pair = %d, want %d", got, want)
		}
	}
	if got := readBits(&s, 6); got != 13 {
		t.Errorf("last character = %d, want 13", got)
	}
}

func TestCapacity(t *testing.T) {
	for _, tt := range []struct {
		v    Version
		l    Level
		mode Mode
		want int
	}{
		{1, L, Numeric, 41},
		{1, M, Numeric, 34},
		{1, Q, Numeric, 27},
		{1, H, Numeric, 17},
		{1, L, Alphanumeric, 25},
		{1, Q, Alphanumeric, 16},
		{1, H, Alphanumeric, 10},
		{1, L, Byte, 17},
		{1, H, Byte, 7},
		{2, Q, Alphanumeric, 29},
		{10, L, Numeric, 652},
		{10, L, Alphanumeric, 395},
		{10, L, Byte, 271},
		{40, L, Numeric, 7089},
		{40, L, Alphanumeric, 4296},
		{40, L, Byte, 2953},
		{40, L, Latin1, 2953},
		{40, H, Numeric, 3057},
		{40, H, Alphanumeric, 1852},
		{40, H, Byte, 1273},
		{1, L, Mode(9), 0},
	} {
		if got := tt.mode.Capacity(tt.v, tt.l); got != tt.want {
			t.Errorf("%v.Capacity(%v, %v) = %d, want %d",
				tt.mode, tt.v, tt.l, got, tt.want)
		}
	}
}

func TestCapacityMonotonic(t *testing.T) {
	for mode := Numeric; mode <= Latin1; mode++ {
		for l := L; l <= H; l++ {
			prev := 0
			for v := MinVersion; v <= MaxVersion; v++ {
				c := mode.Capacity(v, l)
				if c < prev {
					t.Errorf("%v-%v %v capacity %d < %d at previous version",
						v, l, mode, c, prev)
				}
				prev = c
			}
		}
	}
}

func TestCapacityFits(t *testing.T) {
	// A full segment fits, one more character does not.
	digits := func(n int) string {
		b := make([]byte, n)
		for i := range b {
			b[i] = '0' + byte(i%10)
		}
		return string(b)
	}
	for v := MinVersion; v <= MaxVersion; v++ {
		for l := L; l <= H; l++ {
			n := Numeric.Capacity(v, l)
			seg := Segment{digits(n), Numeric}
			if got := seg.EncodedLength(v.SizeClass()); got > v.DataBits(l) {
				t.Errorf("%v-%v: %d digits take %d bits, have %d",
					v, l, n, got, v.DataBits(l))
			}
			seg.Text += "0"
			if got := seg.EncodedLength(v.SizeClass()); got <= v.DataBits(l) {
				t.Errorf("%v-%v: %d digits take %d bits, capacity too low",
					v, l, n+1, got)
			}
		}
	}
}
