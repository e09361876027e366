// Package server exposes the HTTP API: generation, feedback, retrieval by
// opaque token, health, and the authenticated user endpoints.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"idea-path/internal/common/auth"
	"idea-path/internal/common/config"
	"idea-path/internal/common/logger"
	"idea-path/internal/common/observability"
	"idea-path/internal/pipeline"
	"idea-path/internal/storage"
)

// Server holds the request handlers and their dependencies.
type Server struct {
	pipeline *pipeline.Pipeline
	stores   *storage.Stores
	verifier *auth.Verifier
	log      logger.Logger
	cfg      *config.Config
	obs      *observability.Observability
}

func New(p *pipeline.Pipeline, stores *storage.Stores, verifier *auth.Verifier, log logger.Logger, cfg *config.Config, obs *observability.Observability) *Server {
	return &Server{pipeline: p, stores: stores, verifier: verifier, log: log, cfg: cfg, obs: obs}
}

// Router assembles the chi route tree with the cross-cutting middleware.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(s.requestLogging)
	r.Use(s.recoverer)
	r.Use(middleware.Timeout(90 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit.Enabled {
			limiter := newRateLimiter(s.cfg.RateLimit.Requests, time.Duration(s.cfg.RateLimit.WindowSeconds)*time.Second)
			r.Use(limiter.middleware)
		}

		r.Post("/generate", s.handleGenerate)
		r.Post("/feedback", s.handleFeedback)
		r.Get("/session/{id}", s.handleSession)
		r.Get("/result/{id}", s.handleResult)

		r.Group(func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Get("/user/profile", s.handleUserProfile)
			r.Get("/user/history", s.handleUserHistory)
		})
	})

	return r
}
