// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"image/color"
	"testing"

	"github.com/unixdj/qrgen/internal/config"
)

func ptr[T any](v T) *T { return &v }

// setFlags returns an isSet function reporting the given options.
func setFlags(names string) func(rune) bool {
	return func(name rune) bool {
		for _, n := range names {
			if n == name {
				return true
			}
		}
		return false
	}
}

func TestApplyConfig(t *testing.T) {
	saved := g
	defer func() { g = saved }()

	full := config.Config{
		Level:      "q",
		Mode:       "numeric",
		Format:     "svg",
		Scale:      ptr(7),
		Margin:     ptr(0),
		Foreground: "navy",
		Background: "ffc",
	}
	for _, tt := range []struct {
		name                  string
		cfg                   config.Config
		set                   string
		scale, border         int // values given on the command line
		wantLev, wantMode     string
		wantFF                string
		wantScale, wantBorder int
	}{
		{"no config, no flags", config.Config{}, "", 4, 0,
			"l", "auto", "", 4, -1},
		{"no config, -m", config.Config{}, "m", 4, 2,
			"l", "auto", "", 4, 2},
		{"config margin 0", full, "", 4, 0,
			"q", "numeric", "svg", 7, 0},
		{"config margin 3", config.Config{Margin: ptr(3)}, "", 4, 0,
			"l", "auto", "", 4, 3},
		{"flags win", full, "lntsm", 2, 6,
			"h", "byte", "png", 2, 6},
		{"-m 0 wins over config", config.Config{Margin: ptr(5)}, "m", 4, 0,
			"l", "auto", "", 4, 0},
	} {
		g = saved
		g.scale, g.border = tt.scale, tt.border
		lev, mode, ff := "l", "auto", ""
		if tt.set != "" {
			lev, mode, ff = "h", "byte", "png"
		}
		applyConfig(&tt.cfg, setFlags(tt.set), &lev, &mode, &ff)
		if lev != tt.wantLev || mode != tt.wantMode || ff != tt.wantFF {
			t.Errorf("%s: level %q mode %q type %q; want %q %q %q",
				tt.name, lev, mode, ff, tt.wantLev, tt.wantMode, tt.wantFF)
		}
		if g.scale != tt.wantScale || g.border != tt.wantBorder {
			t.Errorf("%s: scale %d border %d; want %d %d",
				tt.name, g.scale, g.border, tt.wantScale, tt.wantBorder)
		}
	}
}

func TestApplyConfigColours(t *testing.T) {
	saved := g
	defer func() { g = saved }()

	cfg := config.Config{Foreground: "navy", Background: "ffc"}
	g.fg.set, g.fg.c = true, color.NRGBA{0xff, 0, 0, 0xff}
	lev, mode, ff := "l", "auto", ""
	applyConfig(&cfg, setFlags(""), &lev, &mode, &ff)
	if want := (color.NRGBA{0xff, 0xff, 0xcc, 0xff}); g.bg.c != want {
		t.Errorf("background %v, want %v", g.bg.c, want)
	}
	if want := (color.NRGBA{0xff, 0, 0, 0xff}); g.fg.c != want {
		t.Errorf("foreground %v, want %v from the command line", g.fg.c, want)
	}
}
