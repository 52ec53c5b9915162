// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package server exposes linecanvas elements over HTTP.
//
// Each canvas is a declarative Element identified by a UUID. Clients set its
// size attributes and command sequence with JSON requests and fetch the
// rendered pixels as PNG:
//
//	POST   /canvases                      create {"width":100,"height":50,"ratio":2}
//	GET    /canvases                      list
//	GET    /canvases/{id}                 describe
//	PUT    /canvases/{id}/attributes      {"width":"120","title":null}
//	PUT    /canvases/{id}/commands        [{"tag":"moveTo","x":0,"y":0}, ...]
//	GET    /canvases/{id}/commands
//	GET    /canvases/{id}/diagnostics     recently rejected commands
//	GET    /canvases/{id}/image.png           cached per render, with an ETag
//	DELETE /canvases/{id}
//	GET    /stats
//	GET    /ping
//
// Sizes whose backing buffer would exceed Config.MaxBackingPixels are
// rejected with 400 and error type "Client.CanvasTooLarge".
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/gogpu/linecanvas"
	"github.com/gogpu/linecanvas/backend"
	_ "github.com/gogpu/linecanvas/backend/scanline"
	_ "github.com/gogpu/linecanvas/backend/software"
	"github.com/gogpu/linecanvas/frame"
)

// Config controls a Server.
type Config struct {
	Host string
	Port int

	// Backend names the registry backend for new canvases. Empty selects
	// the best available one.
	Backend string

	// Ratio is the device pixel ratio of canvases that do not ask for one.
	Ratio float64

	// Scheduler runs canvas frames. Nil paints synchronously with each
	// request.
	Scheduler linecanvas.FrameScheduler

	// MaxCanvases bounds the number of live canvases. Zero means no limit.
	MaxCanvases int

	// MaxBodyBytes bounds request bodies. Zero selects 4 MiB.
	MaxBodyBytes int64

	// MaxBackingPixels bounds the backing buffer of one canvas, in device
	// pixels. Zero selects DefaultMaxBackingPixels.
	MaxBackingPixels int64

	// ImageCache is the number of encoded PNGs kept per cache shard. Zero
	// selects a small default.
	ImageCache int
}

// DefaultMaxBackingPixels allows a 4096x4096 backing buffer (64 MiB of RGBA).
const DefaultMaxBackingPixels = 4096 * 4096

// Server is the canvas HTTP service.
type Server struct {
	cfg Config

	mu       sync.RWMutex
	canvases map[string]*canvas
	pngs     *pngCache

	router   chi.Router
	server   *http.Server
	listener net.Listener
}

type canvas struct {
	id      string
	backend string
	ratio   float64
	created time.Time
	el      *linecanvas.Element
	diag    *diagnostics
}

// New returns a server with its routes installed. Call Listen and Serve to
// accept connections, or use Handler directly.
func New(cfg Config) *Server {
	if cfg.Ratio <= 0 {
		cfg.Ratio = 1
	}
	if cfg.Scheduler == nil {
		cfg.Scheduler = frame.Immediate{}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 4 << 20
	}
	if cfg.MaxBackingPixels <= 0 {
		cfg.MaxBackingPixels = DefaultMaxBackingPixels
	}
	s := &Server{
		cfg:      cfg,
		canvases: make(map[string]*canvas),
		pngs:     newPNGCache(cfg.ImageCache),
	}
	s.router = s.routes()
	s.server = &http.Server{Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(accessLogDecorator)
	r.Use(s.limitBody)

	r.Get("/ping", pingHandler)
	r.Get("/stats", s.statsHandler)
	r.Route("/canvases", func(r chi.Router) {
		r.Post("/", s.createHandler)
		r.Get("/", s.listHandler)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.withCanvas(s.describeHandler))
			r.Delete("/", s.deleteHandler)
			r.Put("/attributes", s.withCanvas(s.attributesHandler))
			r.Put("/commands", s.withCanvas(s.putCommandsHandler))
			r.Get("/commands", s.withCanvas(s.getCommandsHandler))
			r.Get("/diagnostics", s.withCanvas(s.diagnosticsHandler))
			r.Get("/image.png", s.withCanvas(s.imageHandler))
		})
	})
	return r
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Listen binds the listening socket. When Port is 0 the OS picks one.
func (s *Server) Listen() error {
	addr := net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	if s.cfg.Port == 0 {
		s.cfg.Port = ln.Addr().(*net.TCPAddr).Port
		log.WithField("port", s.cfg.Port).Info("Listening port was dynamically allocated")
	}
	log.Debugf("linecanvas server listening on %s", ln.Addr())
	return nil
}

// Port returns the bound port.
func (s *Server) Port() int {
	return s.cfg.Port
}

// Serve handles requests until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}
	errc := make(chan error, 1)
	go func() {
		errc <- s.server.Serve(s.listener)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			log.Errorf("linecanvas server shutdown: %s", err)
		}
		return ctx.Err()
	}
}

// Close closes every canvas and the listener.
func (s *Server) Close() error {
	s.mu.Lock()
	for id, c := range s.canvases {
		_ = c.el.Close()
		delete(s.canvases, id)
		s.pngs.remove(id)
	}
	s.mu.Unlock()
	return s.server.Close()
}

// Len returns the number of live canvases.
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.canvases)
}

func (s *Server) newBackend(name string) (backend.Backend, string, error) {
	if name == "" {
		name = s.cfg.Backend
	}
	if name == "" {
		return backend.Best()
	}
	b, err := backend.New(name)
	return b, name, err
}

func (s *Server) lookup(id string) (*canvas, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.canvases[id]
	return c, ok
}

func (s *Server) add(c *canvas) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cfg.MaxCanvases > 0 && len(s.canvases) >= s.cfg.MaxCanvases {
		return false
	}
	s.canvases[c.id] = c
	return true
}

func (s *Server) remove(id string) (*canvas, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.canvases[id]
	if ok {
		delete(s.canvases, id)
		s.pngs.remove(id)
	}
	return c, ok
}

func (s *Server) sorted() []*canvas {
	s.mu.RLock()
	out := make([]*canvas, 0, len(s.canvases))
	for _, c := range s.canvases {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].created.Equal(out[j].created) {
			return out[i].created.Before(out[j].created)
		}
		return out[i].id < out[j].id
	})
	return out
}

// checkBacking rejects sizes whose backing buffer would exceed
// MaxBackingPixels.
func (s *Server) checkBacking(width, height, ratio float64) error {
	bw, bh := linecanvas.BackingSize(width, height, ratio)
	if px := int64(bw) * int64(bh); px > s.cfg.MaxBackingPixels {
		return fmt.Errorf("canvas %gx%g at ratio %g needs %dx%d backing pixels, limit is %d",
			width, height, ratio, bw, bh, s.cfg.MaxBackingPixels)
	}
	return nil
}

func newID() string {
	return uuid.New().String()
}
