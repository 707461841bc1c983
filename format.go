// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qr

import (
	"fmt"
	"io"
	"strings"
)

// A Format is an output format for a Code.
type Format struct {
	Name   string // name used by LookupFormat
	MIME   string // media type
	Binary bool   // output is not text
	encode func(*Code, io.Writer) error
}

// Formats lists the supported output formats.
var Formats = []Format{
	{"png", "image/png", true, (*Code).EncodePNG},
	{"bmp", "image/bmp", true, (*Code).EncodeBMP},
	{"pbm", "image/x-portable-bitmap", true, (*Code).EncodePBM},
	{"svg", "image/svg+xml", false, (*Code).EncodeSVG},
	{"html", "text/html; charset=utf-8", false, (*Code).EncodeHTML},
	{"utf8", "text/plain; charset=utf-8", false, (*Code).EncodeUTF8},
	{"ascii", "text/plain; charset=utf-8", false, (*Code).EncodeASCII},
	{"json", "application/json", false, (*Code).EncodeJSON},
}

// FormatNames returns the names of Formats.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = f.Name
	}
	return names
}

// LookupFormat returns the format with the given name, case
// insensitively.
func LookupFormat(name string) (Format, error) {
	for _, f := range Formats {
		if strings.EqualFold(f.Name, name) {
			return f, nil
		}
	}
	return Format{}, fmt.Errorf("%w: unknown format %q", ErrArgs, name)
}

// Encode writes c to w in format f.
func (f Format) Encode(c *Code, w io.Writer) error {
	if f.encode == nil {
		return ErrArgs
	}
	return f.encode(c, w)
}
