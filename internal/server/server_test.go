// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package server

import (
	"bytes"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/labstack/echo/v5"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"

	qr "github.com/unixdj/qrgen"
)

func newTestEcho(t *testing.T, opts Options) *echo.Echo {
	t.Helper()
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(opts)
	if err != nil {
		t.Fatal(err)
	}
	return s.Echo()
}

func do(t *testing.T, e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(t *testing.T, e *echo.Echo, params url.Values) *httptest.ResponseRecorder {
	t.Helper()
	return do(t, e, http.MethodGet, "/qr?"+params.Encode(), "")
}

type errorBody struct {
	Error ResponseError `json:"error"`
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ResponseError {
	t.Helper()
	var b errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return b.Error
}

func TestGetPNG(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, Options{Margin: 4})
	const content = "https://example.com/?q=1"
	rec := get(t, e, url.Values{
		"content":    {content},
		"format":     {"png"},
		"ecclevel":   {"Q"},
		"modulesize": {"4"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/png" {
		t.Errorf("content type %q", ct)
	}
	if _, err := uuid.Parse(rec.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("request id %q: %v", rec.Header().Get(HeaderRequestID), err)
	}
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		t.Fatal(err)
	}
	res, err := qrcode.NewQRCodeReader().Decode(bmp, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if res.GetText() != content {
		t.Errorf("decoded %q, want %q", res.GetText(), content)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, Options{Margin: 2})
	rec := get(t, e, url.Values{"content": {"HELLO WORLD"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get(echo.HeaderContentType); ct != "image/svg+xml" {
		t.Errorf("content type %q", ct)
	}
	// version 1 at module size 5 and margin 2
	if want := `viewBox="0 0 125 125"`; !strings.Contains(rec.Body.String(), want) {
		t.Errorf("body does not contain %q", want)
	}
}

func TestPostJSON(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, Options{Format: "json"})
	rec := do(t, e, http.MethodPost, "/qr",
		`{"content":"12345","ecclevel":"h","mode":"numeric","version":2,"mask":3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	var got struct {
		Version int      `json:"version"`
		Level   string   `json:"level"`
		Mode    string   `json:"mode"`
		Mask    int      `json:"mask"`
		Size    int      `json:"size"`
		Modules []string `json:"modules"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Version != 2 || got.Level != "H" || got.Mode != "numeric" ||
		got.Mask != 3 || got.Size != 25 || len(got.Modules) != 25 {
		t.Errorf("code = %+v", got)
	}
}

func TestHTML(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, Options{Unit: "em", Ratio: 0.1})
	rec := get(t, e, url.Values{
		"content":    {"hello"},
		"format":     {"html"},
		"modulesize": {"10"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body=%s", rec.Code, rec.Body.String())
	}
	if want := "width:1em;height:1em"; !strings.Contains(rec.Body.String(), want) {
		t.Errorf("body does not contain %q", want)
	}
	rec = get(t, e, url.Values{
		"content": {"hello"},
		"format":  {"html"},
		"unit":    {"px"},
	})
	if want := "width:5px;height:5px"; !strings.Contains(rec.Body.String(), want) {
		t.Errorf("body does not contain %q", want)
	}
}

func TestErrors(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, Options{MaxContent: 64})
	for _, tt := range []struct {
		name       string
		params     url.Values
		wantStatus int
		wantType   string
		wantParam  string
	}{
		{"no content", url.Values{}, http.StatusBadRequest,
			"invalid_request_error", "content"},
		{"numeric letters", url.Values{"content": {"12a"}, "mode": {"numeric"}},
			http.StatusBadRequest, "invalid_data_format", ""},
		{"lowercase alphanumeric", url.Values{"content": {"abc"}, "mode": {"alphanumeric"}},
			http.StatusBadRequest, "invalid_data_format", ""},
		{"bad level", url.Values{"content": {"x"}, "ecclevel": {"Z"}},
			http.StatusBadRequest, "invalid_ecc_level", "ecclevel"},
		{"bad version", url.Values{"content": {"x"}, "version": {"41"}},
			http.StatusBadRequest, "invalid_version", ""},
		{"bad mask", url.Values{"content": {"x"}, "mask": {"8"}},
			http.StatusBadRequest, "invalid_mask", ""},
		{"pinned version", url.Values{"content": {strings.Repeat("x", 40)}, "version": {"1"}},
			http.StatusBadRequest, "data_too_large", ""},
		{"bad mode", url.Values{"content": {"x"}, "mode": {"kanji"}},
			http.StatusBadRequest, "invalid_mode", "mode"},
		{"bad format", url.Values{"content": {"x"}, "format": {"gif"}},
			http.StatusBadRequest, "invalid_request_error", "format"},
		{"bad integer", url.Values{"content": {"x"}, "mask": {"two"}},
			http.StatusBadRequest, "invalid_request_error", "mask"},
		{"module size", url.Values{"content": {"x"}, "modulesize": {"0"}},
			http.StatusBadRequest, "invalid_request_error", "modulesize"},
		{"margin", url.Values{"content": {"x"}, "margin": {"-1"}},
			http.StatusBadRequest, "invalid_request_error", "margin"},
		{"bad unit", url.Values{"content": {"x"}, "format": {"html"}, "unit": {"parsec"}},
			http.StatusBadRequest, "invalid_request_error", ""},
		{"too long", url.Values{"content": {strings.Repeat("x", 65)}},
			http.StatusRequestEntityTooLarge, "data_too_large", "content"},
	} {
		rec := get(t, e, tt.params)
		if rec.Code != tt.wantStatus {
			t.Errorf("%s: status %d, want %d; body=%s",
				tt.name, rec.Code, tt.wantStatus, rec.Body.String())
			continue
		}
		got := decodeError(t, rec)
		if got.Type != tt.wantType || got.Param != tt.wantParam {
			t.Errorf("%s: error %+v, want type %q param %q",
				tt.name, got, tt.wantType, tt.wantParam)
		}
	}

	rec := get(t, e, url.Values{})
	if got := decodeError(t, rec); got.Message != "qr-code: no content!" {
		t.Errorf("no content message %q", got.Message)
	}
	rec = do(t, e, http.MethodPost, "/qr", `{"content":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed JSON: status %d", rec.Code)
	}
}

func TestRequestIDPropagated(t *testing.T) {
	t.Parallel()

	e := newTestEcho(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if got := rec.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("request id %q", got)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte(`"status":"ok"`)) {
		t.Errorf("health body %s", rec.Body.String())
	}
}

func TestNewErrors(t *testing.T) {
	if _, err := New(Options{Format: "gif"}); err == nil {
		t.Error("format gif: no error")
	}
	if _, err := New(Options{Level: qr.Level(7)}); err == nil {
		t.Error("level 7: no error")
	}
}

func TestBodyLimit(t *testing.T) {
	e := newTestEcho(t, Options{MaxContent: 64})
	body := `{"content":"` + strings.Repeat("x", 6*64+bodyOverhead) + `"}`
	rec := do(t, e, http.MethodPost, "/qr", body)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
	if strings.Contains(rec.Body.String(), "data_too_large") {
		t.Errorf("oversized body reached the handler: %s", rec.Body.String())
	}

	// escaped content within the limit reaches the handler
	rec = do(t, e, http.MethodPost, "/qr",
		`{"content":"`+strings.Repeat(`\u0041`, 64)+`"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("escaped content: status %d body=%s", rec.Code, rec.Body.String())
	}

	for _, tt := range []struct {
		max  int
		want int64
	}{
		{0, 0},
		{-1, 0},
		{100, 600 + bodyOverhead},
	} {
		s, err := New(Options{MaxContent: tt.max})
		if err != nil {
			t.Fatal(err)
		}
		if got := s.BodyLimit(); got != tt.want {
			t.Errorf("MaxContent %d: BodyLimit() = %d, want %d", tt.max, got, tt.want)
		}
	}
}
