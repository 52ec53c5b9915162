// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package server

import (
	"net/http"

	"github.com/go-chi/chi/middleware"
	log "github.com/sirupsen/logrus"
)

func accessLogDecorator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Debugf("server: -> %s %s", r.Method, r.URL)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		if status/100 == 5 {
			log.Errorf("server: <- %s %s %d", r.Method, r.URL, status)
		} else {
			log.Debugf("server: <- %s %s %d", r.Method, r.URL, status)
		}
	})
}

func (s *Server) limitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)
		next.ServeHTTP(w, r)
	})
}
