// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command linecanvas-view shows a JSON command sequence in a resizable
// window. The canvas follows the window size and the monitor's scale.
package main

import (
	"os"

	"github.com/gogpu/gg"
	"github.com/jessevdk/go-flags"
	log "github.com/sirupsen/logrus"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/backend"
	_ "github.com/gogpu/linecanvas/backend/scanline"
	_ "github.com/gogpu/linecanvas/backend/software"
	"github.com/gogpu/linecanvas/internal/logbridge"
	"github.com/gogpu/linecanvas/viewer"
)

type options struct {
	Width    int    `long:"width" default:"640" description:"initial window width"`
	Height   int    `long:"height" default:"480" description:"initial window height"`
	Backend  string `long:"backend" description:"backend name (default: best available)"`
	Color    string `long:"color" default:"#000000" description:"stroke color"`
	LogLevel string `long:"log-level" default:"info" description:"log level"`
	Args     struct {
		Commands string `positional-arg-name:"commands.json" required:"yes"`
	} `positional-args:"yes"`
}

func main() {
	var opts options
	if _, err := flags.NewParser(&opts, flags.Default).Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}
	lvl, err := log.ParseLevel(opts.LogLevel)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	linecanvas.SetLogger(logbridge.New(log.StandardLogger()))

	data, err := os.ReadFile(opts.Args.Commands)
	if err != nil {
		log.WithError(err).Fatal("Failed to read commands")
	}

	var b backend.Backend
	if opts.Backend != "" {
		if b, err = backend.New(opts.Backend); err != nil {
			log.WithError(err).Fatal("Failed to create backend")
		}
	}

	g := viewer.NewGame(b, linecanvas.WithStrokeColor(gg.Hex(opts.Color).Color()))
	if err := g.Element().SetCommandsJSON(data); err != nil {
		log.WithError(err).Fatal("Invalid commands")
	}

	err = viewer.Run(g, viewer.Config{
		Title:  "linecanvas - " + opts.Args.Commands,
		Width:  opts.Width,
		Height: opts.Height,
	})
	if err != nil {
		log.WithError(err).Fatal("Viewer failed")
	}
}
