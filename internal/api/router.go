// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/moodboard/internal/middleware"
)

// RouterConfig configures the middleware stack.
type RouterConfig struct {
	CORSOrigins          []string
	RateLimitRequests    int
	RateLimitWindow      time.Duration
	RateLimitDisabled    bool
	MetricsEnabled       bool
	SlowRequestThreshold time.Duration
}

// NewRouter builds the chi router serving h.
//
// Global middleware, outermost first: request id, real ip, panic recovery,
// Prometheus metrics, slow request logging, CORS. API routes add security
// headers, rate limiting and gzip.
func NewRouter(h *Handler, cfg RouterConfig) http.Handler {
	mw := NewChiMiddleware(&ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.CORSOrigins,
		CORSAllowedMethods: []string{"GET", "OPTIONS"},
		CORSAllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		CORSMaxAge:         86400,
		RateLimitRequests:  cfg.RateLimitRequests,
		RateLimitWindow:    cfg.RateLimitWindow,
		RateLimitDisabled:  cfg.RateLimitDisabled,
	})

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SlowRequests(cfg.SlowRequestThreshold))
	r.Use(mw.CORS())

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Resource not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, CodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Get("/health", h.Health)
		r.Get("/health/live", h.HealthLive)
	})

	if cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(mw.RateLimit("api"))
		r.Use(chimiddleware.Compress(5, "application/json"))

		r.Get("/items/{id}/similar", h.Similar)
		r.Get("/items/{id}/similar/features", h.SimilarByFeatures)
	})

	return r
}
