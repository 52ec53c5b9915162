// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package browser

import (
	"syscall/js"

	"github.com/gogpu/linecanvas"
)

// Bind mirrors host's observed attributes onto el and connects it.
// Attribute changes are picked up through a MutationObserver, and
// host.commands becomes a setter accepting a JSON string or an array of
// command objects. The returned function disconnects el and releases the
// JS callbacks.
func Bind(host js.Value, el *linecanvas.Element) (release func()) {
	for _, name := range linecanvas.ObservedAttributes {
		syncAttribute(host, el, name)
	}

	onMutation := js.FuncOf(func(_ js.Value, args []js.Value) any {
		records := args[0]
		for i := 0; i < records.Length(); i++ {
			syncAttribute(host, el, records.Index(i).Get("attributeName").String())
		}
		return nil
	})
	observer := js.Global().Get("MutationObserver").New(onMutation)
	filter := make([]any, len(linecanvas.ObservedAttributes))
	for i, name := range linecanvas.ObservedAttributes {
		filter[i] = name
	}
	observer.Call("observe", host, map[string]any{
		"attributes":      true,
		"attributeFilter": filter,
	})

	setCommands := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) == 0 {
			return nil
		}
		return ErrorValue(SetCommands(el, args[0]))
	})
	js.Global().Get("Object").Call("defineProperty", host, "commands", map[string]any{
		"set":          setCommands,
		"configurable": true,
	})

	el.Connect()
	return func() {
		el.Disconnect()
		observer.Call("disconnect")
		js.Global().Get("Reflect").Call("deleteProperty", host, "commands")
		onMutation.Release()
		setCommands.Release()
	}
}

func syncAttribute(host js.Value, el *linecanvas.Element, name string) {
	v := host.Call("getAttribute", name)
	if v.IsNull() {
		el.RemoveAttribute(name)
		return
	}
	el.SetAttribute(name, v.String())
}

// SetCommands assigns v, a JSON string or a JS array of command objects.
func SetCommands(el *linecanvas.Element, v js.Value) error {
	return el.SetCommandsJSON([]byte(jsonOf(v)))
}

// Decode decodes v, a JSON string or a JS array of command objects.
func Decode(v js.Value) (linecanvas.Sequence, error) {
	return linecanvas.DecodeJSON([]byte(jsonOf(v)))
}

// jsonOf returns v itself when it is a string, else JSON.stringify(v).
func jsonOf(v js.Value) string {
	if v.Type() == js.TypeString {
		return v.String()
	}
	return js.Global().Get("JSON").Call("stringify", v).String()
}

// ErrorValue converts err for returning to JS: nil stays undefined and
// anything else becomes its message.
func ErrorValue(err error) any {
	if err == nil {
		return nil
	}
	return err.Error()
}
