// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command linecanvasd serves linecanvas surfaces over HTTP.
//
// Canvas frames are coalesced on a shared frame queue that is drained at
// --hz; pass --hz 0 to paint synchronously with each request.
package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/frame"
	"github.com/gogpu/linecanvas/internal/logbridge"
	"github.com/gogpu/linecanvas/server"
)

type options struct {
	Host        string  `long:"host" default:"127.0.0.1" description:"listen host"`
	Port        int     `long:"port" default:"8080" description:"listen port (0 picks a free one)"`
	Backend     string  `long:"backend" description:"backend for new canvases (default: best available)"`
	Ratio       float64 `long:"ratio" default:"1" description:"default device pixel ratio"`
	Hz          int     `long:"hz" default:"60" description:"frame rate; 0 paints synchronously"`
	MaxCanvases int     `long:"max-canvases" default:"256" description:"live canvas limit (0 = unlimited)"`
	MaxBody     int64   `long:"max-body" default:"4194304" description:"request body limit in bytes"`
	MaxPixels   int64   `long:"max-backing-pixels" default:"16777216" description:"backing pixel limit per canvas"`
	LogLevel    string  `long:"log-level" default:"info" description:"log level"`
}

func main() {
	opts := getCLIArgs()
	lvl, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		log.WithError(err).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	linecanvas.SetLogger(logbridge.New(log.StandardLogger()))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.WithError(err).Fatal("linecanvasd failed")
	}
}

func getCLIArgs() options {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	return opts
}

func run(ctx context.Context, opts options) error {
	cfg := server.Config{
		Host:             opts.Host,
		Port:             opts.Port,
		Backend:          opts.Backend,
		Ratio:            opts.Ratio,
		MaxCanvases:      opts.MaxCanvases,
		MaxBodyBytes:     opts.MaxBody,
		MaxBackingPixels: opts.MaxPixels,
	}
	var queue *frame.Queue
	if opts.Hz > 0 {
		queue = frame.NewQueue()
		cfg.Scheduler = queue
	}

	srv := server.New(cfg)
	defer func() { _ = srv.Close() }()
	if err := srv.Listen(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(ctx)
	})
	if queue != nil {
		g.Go(func() error {
			return frame.Run(ctx, queue, frame.Config{
				Hz: opts.Hz,
				OnFrame: func(ran int) {
					if ran > 0 {
						log.Debugf("frame: ran %d callbacks", ran)
					}
				},
			})
		})
	}

	err := g.Wait()
	if errors.Is(err, context.Canceled) {
		log.Info("linecanvasd stopped")
		return nil
	}
	return err
}
