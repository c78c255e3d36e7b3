// Package server monta o roteador HTTP da API.
package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	httpHandlers "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/http/handlers"
	httpMiddleware "github.com/ballek12/youtube-video-analysis-saa-s/internal/adapters/http/middleware"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/domain"
	"github.com/ballek12/youtube-video-analysis-saa-s/internal/core/ports"
)

type Deps struct {
	Limiter  ports.RateLimiter
	Rule     domain.RateLimitRule
	Analyzer ports.Analyzer
	Clock    ports.Clock
	Logger   zerolog.Logger
}

// NewRouter registra /healthz fora do rate limit e as rotas /api atrás dele.
func NewRouter(deps Deps) http.Handler {
	analyze := httpHandlers.NewAnalyzeHandler(deps.Analyzer, deps.Logger)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(httpMiddleware.NewRequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", httpHandlers.HealthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(httpMiddleware.NewRateLimiterMiddleware(deps.Limiter, deps.Rule, deps.Clock))
		r.Post("/analyze", analyze.Analyze)
		r.Get("/history", analyze.History)
		r.Delete("/history/{id}", analyze.DeleteHistory)
	})

	return r
}
