// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

// Command linecanvas-wasm exposes linecanvas to page scripts as the global
// "linecanvas" object:
//
//	const c = linecanvas.canvas(el, 300, 150) // imperative ports
//	c.clear(); c.draw([{tag: "line", x1: 0, y1: 0, x2: 10, y2: 10}])
//	c.resize(600, 300); c.close()
//
//	const e = linecanvas.element(el) // follows width/height attributes
//	el.commands = [{tag: "moveTo", x: 0, y: 0}, {tag: "lineTo", x: 5, y: 5}]
//	e.release()
//
// Build with GOOS=js GOARCH=wasm and serve next to wasm_exec.js.
package main

import (
	"syscall/js"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/backend/browser"
)

func main() {
	linecanvas.SetLogger(consoleLogger())

	api := map[string]any{
		"canvas":  js.FuncOf(newCanvas),
		"element": js.FuncOf(newElement),
	}
	js.Global().Set("linecanvas", api)

	// Keep the exported functions alive.
	<-make(chan struct{})
}

func options() []linecanvas.Option {
	return []linecanvas.Option{
		linecanvas.WithDisplayMetrics(browser.DevicePixelRatio{}),
		linecanvas.WithFrameScheduler(browser.AnimationFrames{}),
	}
}

func newCanvas(_ js.Value, args []js.Value) any {
	if len(args) < 3 {
		return js.Global().Get("Error").New("linecanvas.canvas(element, width, height)")
	}
	c := linecanvas.NewCanvas(browser.New(args[0]), args[1].Float(), args[2].Float(), options()...)

	var funcs []js.Func
	export := func(fn func(args []js.Value) any) js.Func {
		f := js.FuncOf(func(_ js.Value, args []js.Value) any { return fn(args) })
		funcs = append(funcs, f)
		return f
	}
	return map[string]any{
		"clear": export(func([]js.Value) any {
			return browser.ErrorValue(c.Clear())
		}),
		"draw": export(func(args []js.Value) any {
			if len(args) == 0 {
				return nil
			}
			seq, err := browser.Decode(args[0])
			if err != nil {
				return err.Error()
			}
			return browser.ErrorValue(c.Draw(seq))
		}),
		"resize": export(func(args []js.Value) any {
			if len(args) < 2 {
				return nil
			}
			return browser.ErrorValue(c.Resize(args[0].Float(), args[1].Float()))
		}),
		"close": export(func([]js.Value) any {
			err := c.Close()
			for _, f := range funcs {
				f.Release()
			}
			return browser.ErrorValue(err)
		}),
	}
}

func newElement(_ js.Value, args []js.Value) any {
	if len(args) < 1 {
		return js.Global().Get("Error").New("linecanvas.element(element)")
	}
	el := linecanvas.NewElement(browser.New(args[0]), options()...)
	release := browser.Bind(args[0], el)

	var rel js.Func
	rel = js.FuncOf(func(js.Value, []js.Value) any {
		release()
		err := el.Close()
		rel.Release()
		return browser.ErrorValue(err)
	})
	return map[string]any{"release": rel}
}
