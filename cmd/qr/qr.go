// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qr writes a QR code encoding its arguments or standard input.
package main

import (
	"bytes"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strings"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/pborman/getopt/v2"
	"golang.org/x/term"

	qr "github.com/unixdj/qrgen"
	"github.com/unixdj/qrgen/internal/config"
)

var g = struct {
	scale   int             // scale
	border  int             // quiet zone
	palette *[2]color.Color // palette
	rev     bool            // reverse colours
	fn      string          // output filename
	cfgPath string          // configuration file
	lev     qr.Level        // QR correction level
	mode    qr.Mode         // QR encoding mode
	ver     qr.Version      // QR version
	mask    int             // QR mask pattern
	format  outFormat       // output format
	unit    string          // HTML cell unit
	ratio   float64         // HTML cell size ratio
	orient  orientation     // flips and rotations
	bg, fg  colour          // colours
	latin1  bool            // Latin-1 byte mode
	upper   bool            // uppercase
}{
	orient: orientation{inc: [2]int{1, 1}},
	bg:     colour{c: color.NRGBA{0xff, 0xff, 0xff, 0xff}},
	fg:     colour{c: color.NRGBA{0x00, 0x00, 0x00, 0xff}},
}

func printUsage(w io.Writer) {
	cl := getopt.CommandLine
	prog := cl.Program()
	ul := make([]string, 1, 4)
	ul[0] = cl.UsageLine() + " [string ...]"
	ml := max(70-len("Usage: ")-1-len(prog), 0)
	for i := 0; len(ul[i]) > ml; i++ {
		s := ul[i]
		n := ml - 1
		for n > 0 && (s[n] != ' ' || s[n+1] != '[') {
			n--
		}
		if n <= 0 {
			break
		}
		ul = append(ul, s[n+1:])
		ul[i] = s[:n]
		ml = 60
	}
	fmt.Fprint(w, "QR code generator\nUsage: ", prog, " ",
		strings.Join(ul, "\n          "), `
If no string is given, data is read from standard input and the final
newline is stripped.  Defaults not given on the command line are read
from the configuration file.

`)
	var b bytes.Buffer
	cl.PrintOptions(&b)
	bb := b.Bytes()
	if n := bytes.Index(bb, []byte(" [-1]")); n >= 0 {
		w.Write(bb[:n])
		bb = bb[n+len(" [-1]"):]
	}
	w.Write(bb)
}

type opt func()

func (opt) String() string                    { return "" }
func (o opt) Set(string, getopt.Option) error { o(); return nil }

func usage() {
	printUsage(os.Stderr)
	os.Exit(2)
}

func help() {
	printUsage(os.Stdout)
	os.Exit(0)
}

func version() {
	fmt.Println(`qr version 1.0.0
Copyright (c) 2011 The Go Authors
Copyright (c) 2024 Vadim Vygonets`)
	os.Exit(0)
}

// colour is a colour flag value.
type colour struct {
	c   color.NRGBA
	set bool
}

func (c *colour) String() string {
	switch {
	case c.c == color.NRGBA{0x00, 0x00, 0x00, 0xff}:
		return "black"
	case c.c == color.NRGBA{0xff, 0xff, 0xff, 0xff}:
		return "white"
	case c.c.A == 0xff:
		return fmt.Sprintf("%02x%02x%02x", c.c.R, c.c.G, c.c.B)
	}
	return fmt.Sprintf("%02x%02x%02x%02x", c.c.R, c.c.G, c.c.B, c.c.A)
}

func (c *colour) Set(s string, _ getopt.Option) error {
	v, err := config.ParseColor(s)
	if err != nil {
		return err
	}
	c.c, c.set = v, true
	return nil
}

func parseFlags() {
	getopt.SetUsage(usage)
	getopt.Flag(opt(help), 'h', "show this help").SetFlag()
	getopt.Flag(opt(version), 'V', "print version and copyright").SetFlag()
	getopt.FlagLong(&g.bg, "background", 'B', `background colour; see -F`,
		"RGB[A]|name")
	getopt.FlagLong(&g.fg, "foreground", 'F', `foreground colour `+
		`as 3, 4, 6 or 8 hex digits, optionally prefixed by "#", `+
		`or SVG colour name; ignored for types pbm[i], utf8[i], `+
		`ascii[i] and json[i]`, "RGB[A]|name")
	getopt.Flag(opt(g.orient.flip), 'f', `flip code horizontally; `+
		`to flip vertically, use "-frr"`).SetFlag()
	getopt.Flag(opt(g.orient.rotate), 'r', `rotate code 90° counterclockwise; `+
		`-r and -f may be given multiple times, `+
		`order matters: "-fr" = "-rfrr" = "-rrrf"`).SetFlag()
	getopt.Flag(&g.latin1, '1',
		"encode in byte mode converting input to Latin-1; overrides -n")
	getopt.Flag(&g.upper, 'i', `ignore case, convert input to uppercase`)
	getopt.Flag(&g.border, 'm', `quiet zone pixels [4]`, "margin")
	fno := getopt.Flag(&g.fn, 'o', `output file, or "-" for `+
		`standard output`, "file")
	getopt.Flag(&g.cfgPath, 'c', `configuration file [`+
		config.Path()+`]`, "file")
	mode := getopt.String('n', "auto", `encoding mode: auto, numeric, `+
		`alphanumeric, byte or latin1`, "mode")
	ver := getopt.Unsigned('v', 0, &getopt.UnsignedLimit{Base: 0, Bits: 8, Min: 0, Max: 40},
		"QR code version, 0 for the smallest that fits", "ver")
	mask := getopt.Signed('k', -1, &getopt.SignedLimit{Base: 0, Bits: 8, Min: -1, Max: 7},
		"mask pattern, -1 for the lowest penalty", "mask")
	lev := getopt.Enum('l',
		[]string{"l", "m", "q", "h", "L", "M", "Q", "H"}, "l",
		"error correction level, lowest to highest", "l|m|q|h")
	scale := getopt.Unsigned('s', 4,
		&(getopt.UnsignedLimit{Base: 0, Bits: 28, Min: 1, Max: 1 << 28}),
		`image pixels (type eps[i]: points) per QR module ("pixel"); `+
			`ignored for types utf8[i], ascii[i] and json[i]`, "scale")
	names := outFormatNames()
	ff := getopt.Enum('t', names, "", `output format, one of: `+
		strings.Join(names, ", ")+
		`; types with "i" appended have colours inverted; `+
		`if no -o is given and standard output is a TTY, `+
		`default is utf8, otherwise png`, "type")

	getopt.Parse()

	cfg, err := config.Load(g.cfgPath)
	if err != nil {
		log.Fatalln(err)
	}
	g.scale = int(*scale)
	applyConfig(&cfg, func(name rune) bool { return getopt.IsSet(name) },
		lev, mode, ff)
	g.ver = qr.Version(*ver)
	g.mask = int(*mask)
	if g.lev, err = qr.ParseLevel(*lev); err != nil {
		log.Fatalln(err)
	}
	if g.mode, err = qr.ParseMode(*mode); err != nil {
		log.Fatalln(err)
	}
	if g.latin1 {
		g.mode = qr.Latin1
	}
	if *ff == "" {
		if !fno.Seen() && isatty.IsTerminal(uintptr(syscall.Stdout)) {
			*ff = "utf8"
		} else {
			*ff = "png"
		}
	}
	if g.format, g.rev, err = lookupOutFormat(*ff); err != nil {
		log.Fatalln(err)
	}
	if g.fn == "-" {
		g.fn = ""
	}
	if g.bg.set || g.fg.set || cfg.Foreground != "" || cfg.Background != "" {
		g.palette = &[2]color.Color{g.bg.c, g.fg.c}
	}
	g.unit = cfg.Unit
	if cfg.Ratio != nil {
		g.ratio = *cfg.Ratio
	}
}

// applyConfig applies configuration file defaults to options for
// which isSet reports false.  Without -m or a configured margin,
// g.border is -1, keeping the code's default.
func applyConfig(cfg *config.Config, isSet func(rune) bool, lev, mode, ff *string) {
	if cfg.Level != "" && !isSet('l') {
		*lev = cfg.Level
	}
	if cfg.Mode != "" && !isSet('n') {
		*mode = cfg.Mode
	}
	if cfg.Format != "" && !isSet('t') {
		*ff = cfg.Format
	}
	if cfg.Scale != nil && !isSet('s') {
		g.scale = *cfg.Scale
	}
	if !isSet('m') {
		g.border = -1
		if cfg.Margin != nil {
			g.border = *cfg.Margin
		}
	}
	for _, c := range []struct {
		flag *colour
		spec string
	}{
		{&g.bg, cfg.Background},
		{&g.fg, cfg.Foreground},
	} {
		if c.spec != "" && !c.flag.set {
			if v, err := config.ParseColor(c.spec); err == nil {
				c.flag.c = v
			}
		}
	}
}

func main() {
	log.SetFlags(0)
	parseFlags()

	var s string
	if args := getopt.Args(); len(args) != 0 {
		s = strings.Join(args, " ")
	} else {
		var b strings.Builder
		if _, err := io.Copy(&b, os.Stdin); err != nil {
			log.Fatalln(err)
		}
		s, _ = strings.CutSuffix(
			strings.ReplaceAll(b.String(), "\r\n", "\n"), "\n")
	}
	if g.upper {
		s = strings.ToUpper(s)
	}

	c, err := qr.Encode(s, g.lev, qr.WithMode(g.mode),
		qr.WithVersion(g.ver), qr.WithMask(g.mask))
	if err != nil {
		log.Fatalln(err)
	}
	write(c)
}

func write(c *qr.Code) {
	var w = os.Stdout
	if g.fn != "" {
		var err error
		if w, err = os.OpenFile(g.fn, os.O_WRONLY|os.O_CREATE|os.O_TRUNC,
			0666); err != nil {
			log.Fatalln(err)
		}
	}
	g.orient.apply(c)
	c.Scale = g.scale
	c.Palette = g.palette
	c.Reverse = g.rev
	c.Unit = g.unit
	c.Ratio = g.ratio
	if g.border >= 0 {
		c.Border = g.border
	}
	if g.fn == "" {
		warnWidth(c)
	}
	err := g.format.encode(c, w)
	if g.fn != "" {
		if cerr := w.Close(); err == nil {
			err = cerr
		}
	}
	if err != nil {
		log.Fatalln(err)
	}
}

// warnWidth warns when a text rendering of c does not fit the terminal.
func warnWidth(c *qr.Code) {
	cols := g.format.columns(c)
	if cols == 0 {
		return
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return
	}
	width, _, err := term.GetSize(fd)
	if err == nil && cols > width {
		log.Printf("warning: code is %d columns wide, terminal has %d",
			cols, width)
	}
}
