// Package server exposes the TTS manager over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dooshek/mstts/internal/fileops"
	"github.com/dooshek/mstts/internal/logger"
	"github.com/dooshek/mstts/internal/stats"
	"github.com/dooshek/mstts/internal/tts"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	// maxRequestBody caps the POST /api/tts body
	maxRequestBody = 1 << 20
)

// StatsSource provides the statistics served at /api/stats
type StatsSource interface {
	GetStats() stats.Stats
}

// Server routes HTTP requests to a tts.Manager
type Server struct {
	manager *tts.Manager
	metrics http.Handler
	store   fileops.FileOps
	stats   StatsSource
}

// Option configures a Server
type Option func(*Server)

// WithMetrics serves h at /metrics
func WithMetrics(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithAudioStore saves every synthesized clip through store
func WithAudioStore(store fileops.FileOps) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithStats serves src at /api/stats
func WithStats(src StatsSource) Option {
	return func(s *Server) {
		s.stats = src
	}
}

// New creates a server for manager
func New(manager *tts.Manager, opts ...Option) *Server {
	s := &Server{manager: manager}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all routes and middleware
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(requestIDHeader)
	r.Use(chimiddleware.RealIP)
	r.Use(requestLogger)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.healthz)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/api/tts", func(r chi.Router) {
		r.Post("/", s.synthesize)
		r.Get("/platforms", s.platforms)
		r.Get("/languages", s.languages)
		if s.store != nil {
			r.Get("/audio", s.listAudio)
			r.Delete("/audio/{name}", s.deleteAudio)
		}
	})
	if s.stats != nil {
		r.Get("/api/stats", s.getStats)
	}

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down HTTP API")
		return srv.Shutdown(shutdownCtx)
	}
}
