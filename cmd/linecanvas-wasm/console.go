// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build js && wasm

package main

import (
	"context"
	"log/slog"
	"strings"
	"syscall/js"
)

// consoleHandler writes records to the browser console.
type consoleHandler struct {
	attrs []slog.Attr
}

func consoleLogger() *slog.Logger { return slog.New(&consoleHandler{}) }

func (h *consoleHandler) Enabled(_ context.Context, l slog.Level) bool {
	return l >= slog.LevelInfo
}

func (h *consoleHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder
	b.WriteString(r.Message)
	write := func(a slog.Attr) bool {
		b.WriteString(" ")
		b.WriteString(a.Key)
		b.WriteString("=")
		b.WriteString(a.Value.String())
		return true
	}
	for _, a := range h.attrs {
		write(a)
	}
	r.Attrs(write)

	method := "log"
	switch {
	case r.Level >= slog.LevelError:
		method = "error"
	case r.Level >= slog.LevelWarn:
		method = "warn"
	}
	js.Global().Get("console").Call(method, b.String())
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &consoleHandler{attrs: append(append([]slog.Attr(nil), h.attrs...), attrs...)}
}

func (h *consoleHandler) WithGroup(string) slog.Handler { return h }
