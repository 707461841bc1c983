// Copyright 2011 The Go Authors.  All rights reserved.
// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coding

import "fmt"

// AutoMask selects the mask with the lowest penalty.
const AutoMask = -1

// Encoder encodes a QR code.
type Encoder struct {
	p    *Plan
	b    *Bits
	mask int
	mode Mode
}

func newEncoder(p *Plan) *Encoder {
	return &Encoder{
		p:    p,
		b:    NewBits(p.Version, p.Level),
		mask: AutoMask,
		mode: AutoMode,
	}
}

// NewEncoder returns an Encoder for the given version and level.
func NewEncoder(version Version, level Level) (*Encoder, error) {
	p, err := makePlan(version, level)
	if err != nil {
		return nil, err
	}
	return newEncoder(p), nil
}

// SetMask forces the mask pattern used by Code.  AutoMask restores
// selection by penalty.
func (e *Encoder) SetMask(mask int) error {
	if mask != AutoMask && (mask < 0 || mask >= len(e.p.Pattern)) {
		return fmt.Errorf("%w %d", ErrMask, mask)
	}
	e.mask = mask
	return nil
}

// Write adds text to e.
func (e *Encoder) Write(text ...Segment) error {
	class := e.p.Version.SizeClass()
	for _, t := range text {
		ts, err := t.Transform()
		if err != nil {
			return err
		}
		if err := ts.Encode(e.b, class); err != nil {
			return err
		}
		if e.mode == AutoMode {
			e.mode = t.Mode
		}
	}
	return nil
}

// xor xors a and b into dst.  a and b may not be shorter than dst.
// dst and a or b should not overlap unless they are the same slice.
func xor(dst, a, b []byte) {
	a = a[:len(dst)]
	b = b[:len(dst)]
	for i := range dst {
		dst[i] = a[i] ^ b[i]
	}
}

func (e *Encoder) Reset() {
	e.b.Reset()
	e.mode = AutoMode
}

// Code returns a QR code containing data written to e.
func (e *Encoder) Code() (*Code, error) {
	p := e.p
	if e.b.Bits() > p.DataBits {
		return nil, fmt.Errorf("%w: cannot encode %d bits into %d-bit code",
			ErrTooLarge, e.b.Bits(), p.DataBits)
	}
	e.b.AddCheckBytes(p.Version, p.Level)
	bits := e.b.Permute(p.Version, p.Level)

	// Construct the bitmap consisting of data and check bits.
	data := make([]byte, p.Size*p.Stride)
	if n := p.Serialise(&bits, data); n != p.Version.DataModules() ||
		bits.Len() != 0 {
		panic("qr: internal error: data does not fit the plan")
	}

	c := &Code{
		Size:    p.Size,
		Stride:  p.Stride,
		Bitmap:  make([]byte, len(data)),
		Version: p.Version,
		Level:   p.Level,
		Mode:    e.mode,
		Mask:    e.mask,
	}
	if e.mask != AutoMask {
		xor(c.Bitmap, data, p.Pattern[e.mask])
		return c, nil
	}

	// Apply masks to the bitmap to construct the actual codes.
	// Choose the first code with the smallest penalty.
	best := make([]byte, len(data)) // best bitmap so far
	pen := -1
	for m, v := range p.Pattern {
		xor(c.Bitmap, data, v)
		if pp := c.Penalty(); pen < 0 || pp < pen {
			best, pen, c.Bitmap = c.Bitmap, pp, best
			c.Mask = m
		}
	}
	c.Bitmap = best
	return c, nil
}

// Encode is a wrapper around Write and Code.
func (e *Encoder) Encode(text ...Segment) (*Code, error) {
	if err := e.Write(text...); err != nil {
		return nil, err
	}
	return e.Code()
}

// Encode encodes text using an Encoder with the given version and level.
func Encode(version Version, level Level, text ...Segment) (*Code, error) {
	e, err := NewEncoder(version, level)
	if err != nil {
		return nil, err
	}
	return e.Encode(text...)
}

// Params describes how Generate encodes text.  The zero value of
// Version and the values AutoMode and AutoMask select the smallest
// version, the narrowest mode and the mask with the lowest penalty.
// The zero Params is not automatic: it forces Numeric mode and mask 0.
// Start from DefaultParams instead.
type Params struct {
	Mode    Mode
	Version Version
	Level   Level
	Mask    int
}

// DefaultParams returns Params choosing mode, version and mask
// automatically at level l.
func DefaultParams(l Level) Params {
	return Params{Mode: AutoMode, Version: 0, Level: l, Mask: AutoMask}
}

// FitVersion returns the smallest QR version able to hold a
// transformed seg at level l.
func FitVersion(seg Segment, l Level) (Version, error) {
	n := seg.Count()
	for v := MinVersion; v <= MaxVersion; v++ {
		if n <= seg.Mode.Capacity(v, l) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("%w: %d %s characters exceed version %d-%s capacity",
		ErrTooLarge, n, seg.Mode, MaxVersion, l)
}

// Generate encodes text as a single segment QR code.  Fields of p
// are used as given, so callers wanting automatic choices pass
// DefaultParams(level) with the fields they force changed.
//
// The text is validated against the mode first, then the level, the
// version and the mask are checked.  A pinned version too small for
// the text yields ErrTooLarge.
func Generate(text string, p Params) (*Code, error) {
	mode := p.Mode
	if mode == AutoMode {
		mode = Detect(text)
	}
	seg, err := Segment{text, mode}.Transform()
	if err != nil {
		return nil, err
	}
	if !p.Level.IsValid() {
		return nil, fmt.Errorf("%w %d", ErrLevel, p.Level)
	}
	v := p.Version
	if v != 0 && !v.IsValid() {
		return nil, fmt.Errorf("%w %d", ErrVersion, v)
	}
	if p.Mask != AutoMask && (p.Mask < 0 || p.Mask > 7) {
		return nil, fmt.Errorf("%w %d", ErrMask, p.Mask)
	}
	if v == 0 {
		if v, err = FitVersion(seg, p.Level); err != nil {
			return nil, err
		}
	} else if c := mode.Capacity(v, p.Level); seg.Count() > c {
		return nil, fmt.Errorf("%w: %d %s characters exceed version %d-%s capacity of %d",
			ErrTooLarge, seg.Count(), mode, v, p.Level, c)
	}
	e, err := NewEncoder(v, p.Level)
	if err != nil {
		return nil, err
	}
	if err := e.SetMask(p.Mask); err != nil {
		return nil, err
	}
	if err := e.Write(Segment{text, mode}); err != nil {
		return nil, err
	}
	return e.Code()
}
