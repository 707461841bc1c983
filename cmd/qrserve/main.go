// Copyright 2024 Vadim Vygonets.  All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Qrserve serves QR codes over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v5"
	"github.com/urfave/cli/v3"

	qr "github.com/unixdj/qrgen"
	"github.com/unixdj/qrgen/internal/config"
	"github.com/unixdj/qrgen/internal/server"
)

// parseLogLevel converts a level name to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger returns a text or JSON logger writing to w.
func newLogger(w io.Writer, format, level string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLogLevel(level)}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// serveOptions holds the flag values of the serve command.
type serveOptions struct {
	cfgPath     string
	addr        string
	readTimeout time.Duration
	level       string
	format      string
	moduleSize  int
	margin      int
	maxContent  int
	logLevel    string
	logFormat   string
}

func (o *serveOptions) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "configuration file",
			Value:       config.Path(),
			Destination: &o.cfgPath,
		},
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "listen address",
			Value:       config.DefaultAddress,
			Destination: &o.addr,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Usage:       "read header timeout",
			Value:       config.DefaultReadTimeout,
			Destination: &o.readTimeout,
		},
		&cli.StringFlag{
			Name:        "ecclevel",
			Usage:       "default error correction level, L, M, Q or H",
			Value:       "L",
			Destination: &o.level,
		},
		&cli.StringFlag{
			Name:        "format",
			Usage:       "default output format: " + strings.Join(qr.FormatNames(), ", "),
			Value:       "svg",
			Destination: &o.format,
		},
		&cli.IntFlag{
			Name:        "modulesize",
			Usage:       "default image pixels per QR pixel",
			Value:       5,
			Destination: &o.moduleSize,
		},
		&cli.IntFlag{
			Name:        "margin",
			Usage:       "default quiet zone width in QR pixels",
			Value:       qr.DefaultBorder,
			Destination: &o.margin,
		},
		&cli.IntFlag{
			Name:        "max-content",
			Usage:       "maximum content length in bytes, 0 for no limit",
			Value:       config.DefaultMaxContent,
			Destination: &o.maxContent,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level: debug, info, warn, error",
			Value:       "info",
			Destination: &o.logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format: text, json",
			Value:       "text",
			Destination: &o.logFormat,
		},
	}
}

// applyConfig applies config file defaults to options whose flags
// were not explicitly set.
func (o *serveOptions) applyConfig(c *cli.Command, cfg *config.Config) {
	if cfg.Server.Address != "" && !c.IsSet("addr") {
		o.addr = cfg.Server.Address
	}
	if cfg.Server.ReadTimeout != 0 && !c.IsSet("read-timeout") {
		o.readTimeout = cfg.Server.ReadTimeout
	}
	if cfg.Level != "" && !c.IsSet("ecclevel") {
		o.level = cfg.Level
	}
	if cfg.Format != "" && !c.IsSet("format") {
		o.format = cfg.Format
	}
	if cfg.Scale != nil && !c.IsSet("modulesize") {
		o.moduleSize = *cfg.Scale
	}
	if cfg.Margin != nil && !c.IsSet("margin") {
		o.margin = *cfg.Margin
	}
	if cfg.Server.MaxContent != 0 && !c.IsSet("max-content") {
		o.maxContent = cfg.Server.MaxContent
	}
	if cfg.Log.Level != "" && !c.IsSet("log-level") {
		o.logLevel = cfg.Log.Level
	}
	if cfg.Log.Format != "" && !c.IsSet("log-format") {
		o.logFormat = cfg.Log.Format
	}
}

// serverOptions returns the server settings for o and cfg.
func (o *serveOptions) serverOptions(cfg *config.Config, log *slog.Logger) (server.Options, error) {
	l, err := qr.ParseLevel(o.level)
	if err != nil {
		return server.Options{}, err
	}
	pal, err := cfg.Palette()
	if err != nil {
		return server.Options{}, err
	}
	opts := server.Options{
		Level:      l,
		Format:     o.format,
		ModuleSize: o.moduleSize,
		Margin:     o.margin,
		Palette:    pal,
		Unit:       cfg.Unit,
		MaxContent: o.maxContent,
		Logger:     log,
	}
	if cfg.Ratio != nil {
		opts.Ratio = *cfg.Ratio
	}
	return opts, nil
}

// serveCmd returns the command, which resolves its settings and
// hands the server to start.
func serveCmd(logOut io.Writer,
	start func(context.Context, *serveOptions, *server.Server) error,
) *cli.Command {
	o := new(serveOptions)
	return &cli.Command{
		Name:  "qrserve",
		Usage: "serve QR codes over HTTP",
		Flags: o.flags(),
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := config.Load(o.cfgPath)
			if err != nil {
				return err
			}
			o.applyConfig(cmd, &cfg)

			log := newLogger(logOut, o.logFormat, o.logLevel)
			slog.SetDefault(log)

			opts, err := o.serverOptions(&cfg, log)
			if err != nil {
				return err
			}
			srv, err := server.New(opts)
			if err != nil {
				return err
			}
			return start(ctx, o, srv)
		},
	}
}

// listen serves srv until ctx is done.
func listen(ctx context.Context, o *serveOptions, srv *server.Server) error {
	e := srv.Echo()
	slog.Info("starting server", "address", o.addr)
	sc := echo.StartConfig{
		Address: o.addr,
		BeforeServeFunc: func(s *http.Server) error {
			s.ReadHeaderTimeout = o.readTimeout
			return nil
		},
	}
	return sc.Start(ctx, e)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := serveCmd(os.Stderr, listen).Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "qrserve:", err)
		os.Exit(1)
	}
}
