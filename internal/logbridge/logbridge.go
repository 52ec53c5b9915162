// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package logbridge routes slog records into a logrus logger, so the
// library's slog output and the commands' logrus output share one format
// and one level setting.
package logbridge

import (
	"context"
	"log/slog"

	log "github.com/sirupsen/logrus"
)

// Handler is a slog.Handler writing to a logrus logger.
type Handler struct {
	logger *log.Logger
	attrs  log.Fields
	group  string
}

// New returns a slog.Logger backed by l, or by the logrus standard logger
// when l is nil.
func New(l *log.Logger) *slog.Logger {
	if l == nil {
		l = log.StandardLogger()
	}
	return slog.New(&Handler{logger: l, attrs: log.Fields{}})
}

// Level maps a slog level onto logrus.
func Level(l slog.Level) log.Level {
	switch {
	case l >= slog.LevelError:
		return log.ErrorLevel
	case l >= slog.LevelWarn:
		return log.WarnLevel
	case l >= slog.LevelInfo:
		return log.InfoLevel
	default:
		return log.DebugLevel
	}
}

// Enabled implements slog.Handler.
func (h *Handler) Enabled(_ context.Context, l slog.Level) bool {
	return h.logger.IsLevelEnabled(Level(l))
}

// Handle implements slog.Handler.
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	fields := make(log.Fields, len(h.attrs)+r.NumAttrs())
	for k, v := range h.attrs {
		fields[k] = v
	}
	r.Attrs(func(a slog.Attr) bool {
		h.add(fields, h.group, a)
		return true
	})
	h.logger.WithFields(fields).Log(Level(r.Level), r.Message)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := h.clone()
	for _, a := range attrs {
		h.add(next.attrs, h.group, a)
	}
	return next
}

// WithGroup implements slog.Handler.
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := h.clone()
	next.group = join(h.group, name)
	return next
}

func (h *Handler) clone() *Handler {
	attrs := make(log.Fields, len(h.attrs))
	for k, v := range h.attrs {
		attrs[k] = v
	}
	return &Handler{logger: h.logger, attrs: attrs, group: h.group}
}

func (h *Handler) add(fields log.Fields, prefix string, a slog.Attr) {
	v := a.Value.Resolve()
	if v.Kind() == slog.KindGroup {
		for _, ga := range v.Group() {
			h.add(fields, join(prefix, a.Key), ga)
		}
		return
	}
	if a.Key == "" {
		return
	}
	fields[join(prefix, a.Key)] = v.Any()
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
