// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package api

import (
	"context"
	"sort"
	"time"

	"github.com/tomtom215/moodboard/internal/recommend"
)

// SimilarityService is the part of *recommend.Engine the handlers use.
type SimilarityService interface {
	FindSimilar(ctx context.Context, req recommend.Request) recommend.Result
	SimilarByFeaturesTo(ctx context.Context, id string, opts recommend.FeatureOptions) recommend.Result
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerReporter exposes a circuit breaker state ("closed", "open", "half-open").
type BreakerReporter interface {
	BreakerState() string
}

// Lener reports a size, e.g. the number of locally cached items.
type Lener interface {
	Len() int
}

// HandlerConfig holds request defaults and health settings.
type HandlerConfig struct {
	DefaultLimit  int
	MaxLimit      int
	HealthTimeout time.Duration
	Version       string
}

// DefaultHandlerConfig returns the defaults used when fields are zero.
func DefaultHandlerConfig() HandlerConfig {
	return HandlerConfig{
		DefaultLimit:  20,
		MaxLimit:      100,
		HealthTimeout: 5 * time.Second,
		Version:       "dev",
	}
}

// Handler serves the HTTP endpoints.
type Handler struct {
	engine     SimilarityService
	datastore  Pinger
	localCache Lener
	breakers   map[string]BreakerReporter
	config     HandlerConfig
	startTime  time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithDatastore enables the datastore reachability check in /health.
func WithDatastore(p Pinger) HandlerOption {
	return func(h *Handler) { h.datastore = p }
}

// WithLocalCache reports the local cache size in /health.
func WithLocalCache(c Lener) HandlerOption {
	return func(h *Handler) { h.localCache = c }
}

// WithBreaker reports a named circuit breaker in /health.
func WithBreaker(name string, b BreakerReporter) HandlerOption {
	return func(h *Handler) { h.breakers[name] = b }
}

// NewHandler creates a Handler. Zero config fields take their defaults.
func NewHandler(engine SimilarityService, cfg HandlerConfig, opts ...HandlerOption) *Handler {
	def := DefaultHandlerConfig()
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = def.DefaultLimit
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = def.MaxLimit
	}
	if cfg.HealthTimeout <= 0 {
		cfg.HealthTimeout = def.HealthTimeout
	}
	if cfg.Version == "" {
		cfg.Version = def.Version
	}

	h := &Handler{
		engine:    engine,
		breakers:  make(map[string]BreakerReporter),
		config:    cfg,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// breakerNames returns the registered breaker names in sorted order.
func (h *Handler) breakerNames() []string {
	names := make([]string, 0, len(h.breakers))
	for name := range h.breakers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
