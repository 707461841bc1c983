// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import (
	"errors"
	"strings"
	"testing"
)

// Codeword totals, remainder bits and check codewords per level,
// from qrencode-3.1.1/qrspec.c.
var capacityTable = [MaxVersion + 1]struct {
	words     int
	remainder int
	ec        [4]int
}{
	{},
	{26, 0, [4]int{7, 10, 13, 17}},
	{44, 7, [4]int{10, 16, 22, 28}},
	{70, 7, [4]int{15, 26, 36, 44}},
	{100, 7, [4]int{20, 36, 52, 64}},
	{134, 7, [4]int{26, 48, 72, 88}}, // 5
	{172, 7, [4]int{36, 64, 96, 112}},
	{196, 0, [4]int{40, 72, 108, 130}},
	{242, 0, [4]int{48, 88, 132, 156}},
	{292, 0, [4]int{60, 110, 160, 192}},
	{346, 0, [4]int{72, 130, 192, 224}}, // 10
	{404, 0, [4]int{80, 150, 224, 264}},
	{466, 0, [4]int{96, 176, 260, 308}},
	{532, 0, [4]int{104, 198, 288, 352}},
	{581, 3, [4]int{120, 216, 320, 384}},
	{655, 3, [4]int{132, 240, 360, 432}}, // 15
	{733, 3, [4]int{144, 280, 408, 480}},
	{815, 3, [4]int{168, 308, 448, 532}},
	{901, 3, [4]int{180, 338, 504, 588}},
	{991, 3, [4]int{196, 364, 546, 650}},
	{1085, 3, [4]int{224, 416, 600, 700}}, // 20
	{1156, 4, [4]int{224, 442, 644, 750}},
	{1258, 4, [4]int{252, 476, 690, 816}},
	{1364, 4, [4]int{270, 504, 750, 900}},
	{1474, 4, [4]int{300, 560, 810, 960}},
	{1588, 4, [4]int{312, 588, 870, 1050}}, // 25
	{1706, 4, [4]int{336, 644, 952, 1110}},
	{1828, 4, [4]int{360, 700, 1020, 1200}},
	{1921, 3, [4]int{390, 728, 1050, 1260}},
	{2051, 3, [4]int{420, 784, 1140, 1350}},
	{2185, 3, [4]int{450, 812, 1200, 1440}}, // 30
	{2323, 3, [4]int{480, 868, 1290, 1530}},
	{2465, 3, [4]int{510, 924, 1350, 1620}},
	{2611, 3, [4]int{540, 980, 1440, 1710}},
	{2761, 3, [4]int{570, 1036, 1530, 1800}},
	{2876, 0, [4]int{570, 1064, 1590, 1890}}, // 35
	{3034, 0, [4]int{600, 1120, 1680, 1980}},
	{3196, 0, [4]int{630, 1204, 1770, 2100}},
	{3362, 0, [4]int{660, 1260, 1860, 2220}},
	{3532, 0, [4]int{720, 1316, 1950, 2310}},
	{3706, 0, [4]int{750, 1372, 2040, 2430}}, // 40
}

func TestVersionTable(t *testing.T) {
	for v := MinVersion; v <= MaxVersion; v++ {
		want := capacityTable[v]
		if got := v.Bytes(); got != want.words {
			t.Errorf("version %v: Bytes() = %d, want %d", v, got, want.words)
		}
		if got := vtab[v].rem; got != want.remainder {
			t.Errorf("version %v: remainder = %d, want %d",
				v, got, want.remainder)
		}
		if got, want := v.DataModules(), want.words*8+want.remainder; got != want {
			t.Errorf("version %v: DataModules() = %d, want %d", v, got, want)
		}
		if got, want := v.Size(), 4*int(v)+17; got != want {
			t.Errorf("version %v: Size() = %d, want %d", v, got, want)
		}
		if a := v.Alignment(); v > 1 && (a[0] != 6 || a[len(a)-1] != v.Size()-7) {
			t.Errorf("version %v: alignment %v", v, a)
		}
		for l := L; l <= H; l++ {
			nblock, check := v.Blocks(l)
			if got := nblock * check; got != want.ec[l] {
				t.Errorf("version %v-%v: %d blocks × %d check = %d, want %d",
					v, l, nblock, check, got, want.ec[l])
			}
			if got := v.DataBytes(l); got != want.words-want.ec[l] {
				t.Errorf("version %v-%v: DataBytes() = %d, want %d",
					v, l, got, want.words-want.ec[l])
			}
			if rsEncoders[check] == nil {
				t.Errorf("version %v-%v: no encoder for %d check bytes",
					v, l, check)
			}
		}
	}
}

func TestSizeClass(t *testing.T) {
	for _, tt := range []struct {
		v    Version
		want int
	}{
		{1, Class0}, {9, Class0}, {10, Class1}, {26, Class1}, {27, Class2}, {40, Class2},
	} {
		if got := tt.v.SizeClass(); got != tt.want {
			t.Errorf("Version(%d).SizeClass() = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for i, s := range []string{"L", "M", "Q", "H"} {
		for _, s := range []string{s, strings.ToLower(s)} {
			l, err := ParseLevel(s)
			if err != nil || l != Level(i) {
				t.Errorf("ParseLevel(%q) = %v, %v; want %v, nil",
					s, l, err, Level(i))
			}
		}
	}
	for _, s := range []string{"", "X", "LM", "0"} {
		if _, err := ParseLevel(s); !errors.Is(err, ErrLevel) {
			t.Errorf("ParseLevel(%q) error = %v, want ErrLevel", s, err)
		}
	}
}

func TestLevelText(t *testing.T) {
	var l Level
	if err := l.UnmarshalText([]byte("q")); err != nil || l != Q {
		t.Errorf("UnmarshalText(q) = %v, %v; want Q, nil", l, err)
	}
	if b, err := H.MarshalText(); err != nil || string(b) != "H" {
		t.Errorf("H.MarshalText() = %q, %v", b, err)
	}
	if _, err := Level(4).MarshalText(); !errors.Is(err, ErrLevel) {
		t.Errorf("Level(4).MarshalText() error = %v, want ErrLevel", err)
	}
}
