// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/render"
	log "github.com/sirupsen/logrus"

	"github.com/gogpu/linecanvas"
)

type canvasHandler func(w http.ResponseWriter, r *http.Request, c *canvas)

func (s *Server) withCanvas(h canvasHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		c, ok := s.lookup(id)
		if !ok {
			sendError(w, r, http.StatusNotFound, errNotFound, fmt.Sprintf("canvas %q not found", id))
			return
		}
		h(w, r, c)
	}
}

func sendError(w http.ResponseWriter, r *http.Request, status int, errType, msg string) {
	render.Status(r, status)
	render.JSON(w, r, &ErrorResponse{ErrorType: errType, ErrorMessage: msg})
}

// statsHandler reports the canvas count and image cache counters.
func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, StatsResponse{
		Canvases:   s.Len(),
		ImageCache: s.pngs.stats(),
	})
}

func pingHandler(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("pong"))
}

func (s *Server) createHandler(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		sendError(w, r, http.StatusBadRequest, errInvalidRequest, fmt.Sprintf("invalid json: %s", err))
		return
	}

	ratio := req.Ratio
	if ratio <= 0 {
		ratio = s.cfg.Ratio
	}
	if err := s.checkBacking(req.Width, req.Height, ratio); err != nil {
		sendError(w, r, http.StatusBadRequest, errTooLarge, err.Error())
		return
	}

	b, name, err := s.newBackend(req.Backend)
	if err != nil {
		sendError(w, r, http.StatusServiceUnavailable, errBackend, err.Error())
		return
	}

	c := &canvas{
		id:      newID(),
		backend: name,
		ratio:   ratio,
		created: time.Now().UTC(),
	}
	c.diag = newDiagnostics(c.id)
	c.el = linecanvas.NewElement(b,
		linecanvas.WithDisplayMetrics(linecanvas.FixedRatio(ratio)),
		linecanvas.WithFrameScheduler(s.cfg.Scheduler),
		linecanvas.WithDiagnostics(c.diag),
	)
	c.el.SetSize(req.Width, req.Height)
	if len(req.Commands) > 0 {
		if err := c.el.SetCommandsJSON(req.Commands); err != nil {
			_ = c.el.Close()
			sendError(w, r, http.StatusBadRequest, errMalformed, err.Error())
			return
		}
	}

	if !s.add(c) {
		_ = c.el.Close()
		sendError(w, r, http.StatusTooManyRequests, errTooManyCanvases,
			fmt.Sprintf("at most %d canvases", s.cfg.MaxCanvases))
		return
	}
	c.el.Connect()

	log.WithFields(log.Fields{"canvas": c.id, "backend": name}).Info("canvas created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, c.view())
}

func (s *Server) listHandler(w http.ResponseWriter, r *http.Request) {
	canvases := s.sorted()
	views := make([]CanvasView, len(canvases))
	for i, c := range canvases {
		views[i] = c.view()
	}
	render.JSON(w, r, views)
}

func (s *Server) describeHandler(w http.ResponseWriter, r *http.Request, c *canvas) {
	render.JSON(w, r, c.view())
}

func (s *Server) deleteHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	c, ok := s.remove(id)
	if !ok {
		sendError(w, r, http.StatusNotFound, errNotFound, fmt.Sprintf("canvas %q not found", id))
		return
	}
	if err := c.el.Close(); err != nil {
		log.WithField("canvas", id).Warnf("close: %s", err)
	}
	log.WithField("canvas", id).Info("canvas deleted")
	w.WriteHeader(http.StatusNoContent)
}

// attributesHandler applies a JSON object of attribute values. A null value
// removes the attribute.
func (s *Server) attributesHandler(w http.ResponseWriter, r *http.Request, c *canvas) {
	var attrs map[string]*string
	if err := render.DecodeJSON(r.Body, &attrs); err != nil {
		sendError(w, r, http.StatusBadRequest, errInvalidRequest, fmt.Sprintf("invalid json: %s", err))
		return
	}
	width := attributeLength(c.el, attrs, linecanvas.AttrWidth)
	height := attributeLength(c.el, attrs, linecanvas.AttrHeight)
	if err := s.checkBacking(width, height, c.ratio); err != nil {
		sendError(w, r, http.StatusBadRequest, errTooLarge, err.Error())
		return
	}
	for name, value := range attrs {
		if value == nil {
			c.el.RemoveAttribute(name)
			continue
		}
		c.el.SetAttribute(name, *value)
	}
	render.JSON(w, r, c.view())
}

// attributeLength is the length name will have once update is applied.
func attributeLength(el *linecanvas.Element, update map[string]*string, name string) float64 {
	if v, ok := update[name]; ok {
		if v == nil {
			return 0
		}
		return linecanvas.ParseLength(*v)
	}
	v, _ := el.Attribute(name)
	return linecanvas.ParseLength(v)
}

func (s *Server) putCommandsHandler(w http.ResponseWriter, r *http.Request, c *canvas) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		sendError(w, r, http.StatusBadRequest, errInvalidRequest, fmt.Sprintf("failed to read full body: %s", err))
		return
	}
	if err := c.el.SetCommandsJSON(body); err != nil {
		status, errType := http.StatusInternalServerError, errRender
		if errors.Is(err, linecanvas.ErrMalformedSequence) {
			status, errType = http.StatusBadRequest, errMalformed
		}
		sendError(w, r, status, errType, err.Error())
		return
	}
	render.JSON(w, r, c.view())
}

func (s *Server) getCommandsHandler(w http.ResponseWriter, r *http.Request, c *canvas) {
	render.JSON(w, r, c.el.Commands())
}

func (s *Server) diagnosticsHandler(w http.ResponseWriter, r *http.Request, c *canvas) {
	render.JSON(w, r, c.diag.recent())
}

func (s *Server) imageHandler(w http.ResponseWriter, r *http.Request, c *canvas) {
	gen := c.el.Renders()
	etag := fmt.Sprintf("%q", fmt.Sprintf("%s-%d", c.id, gen))
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	data, ok := s.pngs.get(c.id, gen)
	if !ok {
		var buf bytes.Buffer
		if err := c.el.EncodePNG(&buf); err != nil {
			if errors.Is(err, linecanvas.ErrEmptySurface) {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			sendError(w, r, http.StatusInternalServerError, errRender, err.Error())
			return
		}
		data = buf.Bytes()
		// A frame may have landed while encoding; only cache a stable one.
		if c.el.Renders() != gen {
			etag = ""
		} else {
			s.pngs.put(c.id, gen, data)
		}
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	_, _ = w.Write(data)
}
