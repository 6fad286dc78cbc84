// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/dedupe"
	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/models"
	"github.com/tomtom215/moodboard/internal/similarity"
)

// Dependencies are the collaborators of an Engine. Store, Cache and Extractor
// are required. A nil Embedder sends every request straight to the recent
// fallback; a nil Deduplicator skips deduplication.
type Dependencies struct {
	Embedder     Embedder
	Store        VectorStore
	Cache        LocalCache
	Deduplicator Deduplicator
	Extractor    FeatureExtractor
}

// Engine answers "find similar" requests. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger
	scorer *similarity.Scorer

	embedder  Embedder
	store     VectorStore
	cache     LocalCache
	dedup     Deduplicator
	extractor FeatureExtractor

	rerankers map[Path][]Reranker
	rrMu      sync.RWMutex
}

// NewEngine creates a new similarity engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, deps Dependencies, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	switch {
	case deps.Store == nil:
		return nil, errors.New("vector store is required")
	case deps.Cache == nil:
		return nil, errors.New("local cache is required")
	case deps.Extractor == nil:
		return nil, errors.New("feature extractor is required")
	}

	return &Engine{
		config:    cfg,
		logger:    logger.With().Str("component", "recommend").Logger(),
		scorer:    similarity.NewScorer(cfg.Weights, cfg.EmphasisBoost, cfg.EmphasisCap),
		embedder:  deps.Embedder,
		store:     deps.Store,
		cache:     deps.Cache,
		dedup:     deps.Deduplicator,
		extractor: deps.Extractor,
		rerankers: make(map[Path][]Reranker),
	}, nil
}

// RegisterReranker adds a reranker to the post-processing pipeline of path.
func (e *Engine) RegisterReranker(path Path, rr Reranker) {
	e.rrMu.Lock()
	defer e.rrMu.Unlock()

	e.rerankers[path] = append(e.rerankers[path], rr)
	e.logger.Info().
		Str("reranker", rr.Name()).
		Str("path", string(path)).
		Msg("registered reranker")
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// applyRerankers applies the rerankers registered on path. Without any the
// items are truncated to k.
func (e *Engine) applyRerankers(ctx context.Context, path Path, items []SimilarItem, k int) []SimilarItem {
	e.rrMu.RLock()
	rerankers := e.rerankers[path]
	e.rrMu.RUnlock()

	for _, rr := range rerankers {
		items = rr.Rerank(ctx, items, k)
	}

	return truncate(items, k)
}

// clampLimit applies the default and maximum limits.
func (e *Engine) clampLimit(limit int) int {
	if limit <= 0 {
		return e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		return e.config.Limits.MaxLimit
	}
	return limit
}

// requestLogger creates a logger carrying the request ID from ctx, or a
// fresh one when the caller did not set any.
func (e *Engine) requestLogger(ctx context.Context, path Path, itemID string) zerolog.Logger {
	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}
	return e.logger.With().
		Str("request_id", requestID).
		Str("path", string(path)).
		Str("item_id", itemID).
		Logger()
}

// resolveReference returns the reference item of req. The datastore is tried
// first, then the local cache. It returns nil when neither knows the item.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) resolveReference(ctx context.Context, req Request, logger zerolog.Logger) *models.ContentItem {
	if req.Item != nil {
		ref := req.Item.Clone()
		ref.Normalize()
		return &ref
	}
	if req.ItemID == "" {
		return nil
	}

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Datastore)
	item, err := e.store.Get(sctx, req.ItemID)
	cancel()
	if err == nil {
		return item
	}
	if !errors.Is(err, models.ErrNotFound) {
		logger.Warn().Err(err).Msg("Reference lookup failed in datastore, trying local cache")
	}

	item, err = e.cache.Get(ctx, req.ItemID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			logger.Warn().Err(err).Msg("Reference lookup failed in local cache")
		}
		return nil
	}
	return item
}

// dedupeItems runs the deduplicator. Its absence or failure is logged and the
// items pass through unchanged.
func (e *Engine) dedupeItems(items []SimilarItem, logger zerolog.Logger) []SimilarItem {
	if e.dedup == nil {
		logger.Warn().Int("items", len(items)).Msg("No deduplicator configured, skipping deduplication")
		return items
	}
	out, err := e.dedup.DedupeByURL(items)
	if err != nil {
		logger.Warn().Err(err).Int("items", len(items)).Msg("Deduplication failed, continuing with duplicates")
		return items
	}
	return out
}

// excludeReference drops the reference item, matched by id or canonical URL.
func excludeReference(items []SimilarItem, ref *models.ContentItem) []SimilarItem {
	refURL := dedupe.CanonicalURL(ref.ImageURL)
	out := make([]SimilarItem, 0, len(items))
	for i := range items {
		if items[i].ID == ref.ID || (refURL != "" && dedupe.CanonicalURL(items[i].ImageURL) == refURL) {
			continue
		}
		out = append(out, items[i])
	}
	return out
}

// zeroScored wraps unranked items with similarity 0.
func zeroScored(items []models.ContentItem) []SimilarItem {
	out := make([]SimilarItem, 0, len(items))
	for i := range items {
		out = append(out, SimilarItem{ContentItem: items[i]})
	}
	return out
}

func truncate(items []SimilarItem, k int) []SimilarItem {
	if k >= 0 && len(items) > k {
		return items[:k]
	}
	return items
}
