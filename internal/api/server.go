package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"pacecalc/internal/service"
)

const (
	shutdownTimeout = 5 * time.Second
	maxBodyBytes    = 64 << 10
)

// Server is the JSON HTTP API over a CalculatorService
type Server struct {
	calc    *service.CalculatorService
	log     zerolog.Logger
	metrics *Metrics
	router  chi.Router
}

// New builds the API and its routes
func New(calc *service.CalculatorService, log zerolog.Logger) *Server {
	s := &Server{
		calc:    calc,
		log:     log,
		metrics: NewMetrics(),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(observe(s.metrics, s.log))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/paces", s.handlePaces)
		r.Post("/agegrade", s.handleAgeGrade)
		r.Post("/ranges", s.handleRanges)
		r.Post("/wbgt", s.handleWBGT)
		r.Get("/history", s.handleHistory)
		r.Delete("/history/{id}", s.handleDeleteTrial)
	})

	return r
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Metrics returns the server's collectors
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("api listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving api: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info().Msg("api shutting down")
	return srv.Shutdown(shutdownCtx)
}
