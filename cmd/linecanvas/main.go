// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command linecanvas renders a JSON command sequence to a PNG file.
//
//	linecanvas --width 200 --height 100 --ratio 2 -o out.png commands.json
//
// With no input file the commands are read from standard input.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/gogpu/gg"
	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/backend"
	_ "github.com/gogpu/linecanvas/backend/scanline"
	_ "github.com/gogpu/linecanvas/backend/software"
	"github.com/gogpu/linecanvas/internal/logbridge"
)

type options struct {
	Width    float64 `long:"width" default:"300" description:"logical width"`
	Height   float64 `long:"height" default:"150" description:"logical height"`
	Ratio    float64 `long:"ratio" default:"1" description:"device pixel ratio"`
	Backend  string  `long:"backend" description:"backend name (default: best available)"`
	Color    string  `long:"color" default:"#000000" description:"stroke color as #rgb, #rrggbb or #rrggbbaa"`
	Output   string  `short:"o" long:"output" default:"linecanvas.png" description:"output PNG file"`
	LogLevel string  `long:"log-level" default:"info" description:"log level"`
	List     bool    `long:"list-backends" description:"print registered backends and exit"`
}

func main() {
	opts, args := getCLIArgs()
	setLogLevel(opts.LogLevel)

	if opts.List {
		for _, name := range backend.Available() {
			fmt.Println(name)
		}
		return
	}

	if err := run(opts, args); err != nil {
		log.WithError(err).Fatal("Render failed")
	}
}

func getCLIArgs() (options, []string) {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	parser.Usage = "[OPTIONS] [commands.json]"
	args, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	return opts, args
}

func setLogLevel(level string) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		log.WithError(err).Warn("Unknown log level, using info")
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	linecanvas.SetLogger(logbridge.New(log.StandardLogger()))
}

func run(opts options, args []string) error {
	data, err := readInput(args)
	if err != nil {
		return err
	}
	seq, err := linecanvas.DecodeJSON(data)
	if err != nil {
		return err
	}
	stroke := gg.Hex(opts.Color).Color()

	b, name, err := newBackend(opts.Backend)
	if err != nil {
		return err
	}
	s := linecanvas.NewSurface(b,
		linecanvas.WithDisplayMetrics(linecanvas.FixedRatio(opts.Ratio)),
		linecanvas.WithStrokeColor(stroke),
	)
	defer func() { _ = s.Close() }()

	s.Configure(opts.Width, opts.Height)
	stats, err := s.Render(seq)
	if err != nil {
		return err
	}

	f, err := os.Create(opts.Output)
	if err != nil {
		return err
	}
	if err := s.EncodePNG(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	bw, bh := s.BackingSize()
	log.WithFields(log.Fields{
		"backend":  name,
		"backing":  fmt.Sprintf("%dx%d", bw, bh),
		"strokes":  stats.Strokes,
		"segments": stats.Segments,
		"unknown":  stats.Unrecognized,
	}).Infof("Wrote %s", opts.Output)
	return nil
}

func readInput(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(args[0])
}

func newBackend(name string) (backend.Backend, string, error) {
	if name == "" {
		return backend.Best()
	}
	b, err := backend.New(name)
	return b, name, err
}
