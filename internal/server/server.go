// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

// Package server exposes a divider over HTTP.
//
// Routes:
//
//	GET  /health        liveness check
//	GET  /config        divider configuration and latency
//	POST /divide        {"dividend": a, "divisor": b}
//	POST /divide/batch  [{"dividend": a, "divisor": b}, ...]
//
// Every response carries an X-Request-Id header.
//
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/db47h/hwdiv"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader is the response header holding the request id.
const RequestIDHeader = "X-Request-Id"

// MaxBatch is the maximum number of divisions in a batch request.
const MaxBatch = 4096

const shutdownTimeout = 15 * time.Second

type ctxKey int

const keyLogger ctxKey = iota

// A Server serves division requests. Each request runs on its own Divider.
//
type Server struct {
	cfg    hwdiv.Config
	log    logrus.FieldLogger
	router *mux.Router
}

// New returns a new Server for the given divider configuration.
//
func New(cfg hwdiv.Config, log logrus.FieldLogger) (*Server, error) {
	d, err := hwdiv.New(cfg)
	if err != nil {
		return nil, err
	}
	s := &Server{cfg: d.Config(), log: log}
	r := mux.NewRouter()
	r.Use(s.requestID)
	r.Path("/health").Methods(http.MethodGet).HandlerFunc(s.handleHealth)
	r.Path("/config").Methods(http.MethodGet).HandlerFunc(s.handleConfig)
	r.Path("/divide").Methods(http.MethodPost).HandlerFunc(s.handleDivide)
	r.Path("/divide/batch").Methods(http.MethodPost).HandlerFunc(s.handleBatch)
	r.NotFoundHandler = s.requestID(http.HandlerFunc(s.handleNotFound))
	r.MethodNotAllowedHandler = s.requestID(http.HandlerFunc(s.handleMethodNotAllowed))
	s.router = r
	return s, nil
}

// ServeHTTP implements http.Handler.
//
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves HTTP requests on addr:port until ctx is done, then
// shuts the server down gracefully.
//
func (s *Server) ListenAndServe(ctx context.Context, addr string, port int) error {
	l, err := net.Listen("tcp", net.JoinHostPort(addr, strconv.Itoa(port)))
	if err != nil {
		return errors.Wrap(err, "listen")
	}
	return s.Serve(ctx, l)
}

// Serve is like ListenAndServe but accepts connections on l.
//
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(l)
	}()
	s.log.WithField("addr", l.Addr().String()).Info("listening")

	select {
	case err := <-errc:
		return errors.Wrap(err, "serve")
	case <-ctx.Done():
	}
	s.log.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return errors.Wrap(err, "shutdown")
	}
	if err := <-errc; err != http.ErrServerClosed {
		return errors.Wrap(err, "serve")
	}
	return nil
}

// requestID tags the request with a fresh id, sets the response header and
// stores a request logger in the context.
//
func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := xid.New().String()
		w.Header().Set(RequestIDHeader, id)
		log := s.log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     r.Method,
			"path":       r.URL.Path,
		})
		start := time.Now()
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), keyLogger, log)))
		log.WithField("duration", time.Since(start)).Debug("request served")
	})
}

func (s *Server) logger(r *http.Request) logrus.FieldLogger {
	if l, ok := r.Context().Value(keyLogger).(logrus.FieldLogger); ok {
		return l
	}
	return s.log
}
