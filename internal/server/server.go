// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package server implements an HTTP service rendering QR codes.
//
//	GET  /qr?content=...&ecclevel=...&format=...
//	POST /qr  {"content": "...", "ecclevel": "...", ...}
//	GET  /healthz
package server

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/labstack/echo/v5/middleware"

	qr "github.com/unixdj/qrgen"
)

// Limits on presentation parameters.
const (
	MaxModuleSize = 64
	MaxMargin     = 64
)

// HeaderRequestID carries the request id.
const HeaderRequestID = "X-Request-Id"

// Options holds the service defaults.
type Options struct {
	Level      qr.Level        // error correction level
	Format     string          // output format name
	ModuleSize int             // image pixels per QR pixel
	Margin     int             // quiet zone width in QR pixels
	Palette    *[2]color.Color // background and foreground
	Unit       string          // HTML cell unit
	Ratio      float64         // HTML cell size ratio
	MaxContent int             // maximum content length in bytes; 0 is unlimited
	Logger     *slog.Logger
}

// Server renders QR codes over HTTP.
type Server struct {
	opts Options
	log  *slog.Logger
}

// New returns a Server.  An empty format selects SVG and a zero
// module size selects 5.  Margin is used as given.
func New(opts Options) (*Server, error) {
	if opts.Format == "" {
		opts.Format = "svg"
	}
	if _, err := qr.LookupFormat(opts.Format); err != nil {
		return nil, err
	}
	if !opts.Level.IsValid() {
		return nil, fmt.Errorf("%w %d", qr.ErrLevel, opts.Level)
	}
	if opts.ModuleSize == 0 {
		opts.ModuleSize = 5
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Server{opts: opts, log: log}, nil
}

// Register adds the service routes to e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/qr", s.handleQR)
	e.POST("/qr", s.handleQR)
	e.GET("/healthz", s.handleHealth)
}

// BodyLimit returns the request body size limit for s, or 0 if the
// content length is unlimited.  JSON escapes take up to 6 bytes per
// content byte, plus room for the other fields.
func (s *Server) BodyLimit() int64 {
	if s.opts.MaxContent <= 0 {
		return 0
	}
	return 6*int64(s.opts.MaxContent) + bodyOverhead
}

const bodyOverhead = 4096

// Echo returns an echo instance serving s with request ids, request
// logging, panic recovery and a body size limit.
func (s *Server) Echo() *echo.Echo {
	e := echo.New()
	e.Use(requestID)
	e.Use(middleware.RequestLogger())
	e.Use(middleware.Recover())
	if n := s.BodyLimit(); n > 0 {
		e.Use(middleware.BodyLimit(n))
	}
	s.Register(e)
	return e
}

// requestID sets a request id header on the response, reusing the
// one in the request if present.
func requestID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c *echo.Context) error {
		id := c.Request().Header.Get(HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Response().Header().Set(HeaderRequestID, id)
		return next(c)
	}
}

// Request holds the parameters of a QR code request.  Empty or nil
// fields take the server defaults.
type Request struct {
	Content    string   `json:"content"`
	ECCLevel   string   `json:"ecclevel,omitempty"`
	Mode       string   `json:"mode,omitempty"`
	Version    *int     `json:"version,omitempty"`
	Mask       *int     `json:"mask,omitempty"`
	Format     string   `json:"format,omitempty"`
	ModuleSize *int     `json:"modulesize,omitempty"`
	Margin     *int     `json:"margin,omitempty"`
	Unit       string   `json:"unit,omitempty"`
	Ratio      *float64 `json:"ratio,omitempty"`
}

// ResponseError is the body of an error response.
type ResponseError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Param   string `json:"param,omitempty"`
}

func writeError(c *echo.Context, status int, errType, msg, param string) error {
	return writeJSON(c, status, map[string]any{
		"error": ResponseError{
			Message: msg,
			Type:    errType,
			Param:   param,
		},
	})
}

func writeBadRequest(c *echo.Context, msg, param string) error {
	return writeError(c, http.StatusBadRequest, "invalid_request_error", msg, param)
}

func writeJSON(c *echo.Context, status int, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return writeBody(c, status, echo.MIMEApplicationJSON, append(b, '\n'))
}

func writeBody(c *echo.Context, status int, contentType string, b []byte) error {
	res := c.Response()
	res.Header().Set(echo.HeaderContentType, contentType)
	res.WriteHeader(status)
	_, err := res.Write(b)
	return err
}

// errorType returns the error type reported for a generation error.
func errorType(err error) string {
	switch {
	case errors.Is(err, qr.ErrDataFormat):
		return "invalid_data_format"
	case errors.Is(err, qr.ErrLevel):
		return "invalid_ecc_level"
	case errors.Is(err, qr.ErrVersion):
		return "invalid_version"
	case errors.Is(err, qr.ErrMask):
		return "invalid_mask"
	case errors.Is(err, qr.ErrTooLarge):
		return "data_too_large"
	case errors.Is(err, qr.ErrMode):
		return "invalid_mode"
	}
	return "invalid_request_error"
}

// paramError reports a malformed request parameter.
type paramError struct {
	param string
	err   error
}

func (e *paramError) Error() string { return e.param + ": " + e.err.Error() }
func (e *paramError) Unwrap() error { return e.err }

func queryInt(c *echo.Context, name string) (*int, error) {
	s := c.QueryParam(name)
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, &paramError{name, err}
	}
	return &n, nil
}

// parseQuery reads a Request from the URL query.
func parseQuery(c *echo.Context) (Request, error) {
	req := Request{
		Content:  c.QueryParam("content"),
		ECCLevel: c.QueryParam("ecclevel"),
		Mode:     c.QueryParam("mode"),
		Format:   c.QueryParam("format"),
		Unit:     c.QueryParam("unit"),
	}
	var err error
	for _, p := range []struct {
		name string
		dst  **int
	}{
		{"version", &req.Version},
		{"mask", &req.Mask},
		{"modulesize", &req.ModuleSize},
		{"margin", &req.Margin},
	} {
		if *p.dst, err = queryInt(c, p.name); err != nil {
			return req, err
		}
	}
	if s := c.QueryParam("ratio"); s != "" {
		r, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, &paramError{"ratio", err}
		}
		req.Ratio = &r
	}
	return req, nil
}

func decodeJSON[T any](r io.Reader) (T, error) {
	var out T
	dec := json.NewDecoder(r)
	if err := dec.Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}

func (s *Server) handleQR(c *echo.Context) error {
	var (
		req Request
		err error
	)
	if c.Request().Method == http.MethodPost {
		req, err = decodeJSON[Request](c.Request().Body)
	} else {
		req, err = parseQuery(c)
	}
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) {
			return writeBadRequest(c, err.Error(), pe.param)
		}
		return writeBadRequest(c, err.Error(), "")
	}
	if req.Content == "" {
		return writeBadRequest(c, "qr-code: no content!", "content")
	}
	if s.opts.MaxContent > 0 && len(req.Content) > s.opts.MaxContent {
		return writeError(c, http.StatusRequestEntityTooLarge, "data_too_large",
			fmt.Sprintf("content is %d bytes, limit is %d",
				len(req.Content), s.opts.MaxContent), "content")
	}
	code, f, err := s.render(req)
	if err != nil {
		var pe *paramError
		if errors.As(err, &pe) {
			return writeError(c, http.StatusBadRequest, errorType(err),
				err.Error(), pe.param)
		}
		return writeError(c, http.StatusBadRequest, errorType(err), err.Error(), "")
	}
	var b bytes.Buffer
	if err := f.Encode(code, &b); err != nil {
		return writeBadRequest(c, err.Error(), "")
	}
	s.log.Debug("generated QR code",
		"request_id", c.Response().Header().Get(HeaderRequestID),
		"version", code.Version, "level", code.Level,
		"mode", code.Mode, "mask", code.Mask, "format", f.Name)
	return writeBody(c, http.StatusOK, f.MIME, b.Bytes())
}

// render encodes req.Content and applies the presentation settings.
func (s *Server) render(req Request) (*qr.Code, qr.Format, error) {
	var f qr.Format
	level := s.opts.Level
	if req.ECCLevel != "" {
		l, err := qr.ParseLevel(req.ECCLevel)
		if err != nil {
			return nil, f, &paramError{"ecclevel", err}
		}
		level = l
	}
	mode, err := qr.ParseMode(req.Mode)
	if err != nil {
		return nil, f, &paramError{"mode", err}
	}
	opts := []qr.Option{qr.WithMode(mode)}
	if req.Version != nil {
		opts = append(opts, qr.WithVersion(qr.Version(*req.Version)))
	}
	if req.Mask != nil {
		opts = append(opts, qr.WithMask(*req.Mask))
	}
	format := req.Format
	if format == "" {
		format = s.opts.Format
	}
	if f, err = qr.LookupFormat(format); err != nil {
		return nil, f, &paramError{"format", err}
	}
	scale, margin := s.opts.ModuleSize, s.opts.Margin
	if req.ModuleSize != nil {
		if scale = *req.ModuleSize; scale < 1 || scale > MaxModuleSize {
			return nil, f, &paramError{"modulesize",
				fmt.Errorf("%w: %d not in 1 to %d", qr.ErrArgs, scale, MaxModuleSize)}
		}
	}
	if req.Margin != nil {
		if margin = *req.Margin; margin < 0 || margin > MaxMargin {
			return nil, f, &paramError{"margin",
				fmt.Errorf("%w: %d not in 0 to %d", qr.ErrArgs, margin, MaxMargin)}
		}
	}

	code, err := qr.Encode(req.Content, level, opts...)
	if err != nil {
		return nil, f, err
	}
	code.Scale = scale
	code.Border = margin
	code.Palette = s.opts.Palette
	code.Unit = s.opts.Unit
	if req.Unit != "" {
		code.Unit = req.Unit
	}
	code.Ratio = s.opts.Ratio
	if req.Ratio != nil {
		code.Ratio = *req.Ratio
	}
	return code, f, nil
}

func (s *Server) handleHealth(c *echo.Context) error {
	return writeJSON(c, http.StatusOK, map[string]string{"status": "ok"})
}
