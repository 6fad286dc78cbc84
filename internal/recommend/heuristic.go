// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/dedupe"
	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// SimilarByFeatures scores every item of pool against ref with the
// six-dimension feature scorer and returns the best matches, diversified by
// match type when a diversifier is registered. The reference itself and
// duplicate images are removed from the pool first.
//
//nolint:gocritic // hugeParam: ref passed by value for immutability
func (e *Engine) SimilarByFeatures(ctx context.Context, ref models.ContentItem, pool []models.ContentItem, opts FeatureOptions) Result {
	start := time.Now()
	logger := e.requestLogger(ctx, PathFeatures, ref.ID)

	res := e.similarByFeatures(ctx, &ref, pool, opts, logger)

	metrics.RecordSimilarityRequest(string(PathFeatures), Kind(res), time.Since(start))
	return res
}

// SimilarByFeaturesTo resolves the reference by id and builds the candidate
// pool from the most recent datastore items, falling back to the local cache.
func (e *Engine) SimilarByFeaturesTo(ctx context.Context, id string, opts FeatureOptions) Result {
	start := time.Now()
	logger := e.requestLogger(ctx, PathFeatures, id)

	var res Result
	ref := e.resolveReference(ctx, Request{ItemID: id}, logger)
	switch {
	case ctx.Err() != nil:
		res = Empty{Reason: ReasonCanceled, Message: messageFor(ReasonCanceled)}
	case ref == nil:
		res = Empty{Reason: ReasonReferenceNotFound, Message: messageFor(ReasonReferenceNotFound)}
	default:
		pool := e.candidatePool(ctx, logger)
		res = e.similarByFeatures(ctx, ref, pool, opts, logger)
	}

	metrics.RecordSimilarityRequest(string(PathFeatures), Kind(res), time.Since(start))
	return res
}

// candidatePool returns up to MaxCandidates recent items.
func (e *Engine) candidatePool(ctx context.Context, logger zerolog.Logger) []models.ContentItem {
	limit := e.config.Limits.MaxCandidates

	sctx, cancel := context.WithTimeout(ctx, e.config.Timeouts.Datastore)
	items, err := e.store.Recent(sctx, limit)
	cancel()
	if err == nil {
		return items
	}

	logger.Warn().Err(err).Msg("Candidate pool unavailable from datastore, using local cache")
	all, err := e.cache.All(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Local cache read failed")
		return nil
	}

	pool := make([]models.ContentItem, 0, min(len(all), limit))
	for i := len(all) - 1; i >= 0 && len(pool) < limit; i-- {
		pool = append(pool, all[i])
	}
	return pool
}

func (e *Engine) similarByFeatures(ctx context.Context, ref *models.ContentItem, pool []models.ContentItem, opts FeatureOptions, logger zerolog.Logger) Result {
	limit := e.clampLimit(opts.Limit)

	candidates := make([]models.ContentItem, 0, len(pool))
	refURL := dedupe.CanonicalURL(ref.ImageURL)
	for i := range pool {
		if pool[i].ID == ref.ID || (refURL != "" && dedupe.CanonicalURL(pool[i].ImageURL) == refURL) {
			continue
		}
		candidates = append(candidates, pool[i])
	}
	candidates = dedupe.Dedupe(candidates, func(it models.ContentItem) string { return it.ImageURL })

	if len(candidates) == 0 {
		logger.Debug().Msg("Empty candidate pool")
		return Empty{Reason: ReasonEmptyCandidatePool, Message: messageFor(ReasonEmptyCandidatePool)}
	}

	refBundle := e.extractor.Extract(ctx, ref)
	bundles, err := e.extractor.ExtractAll(ctx, candidates)
	if err != nil {
		logger.Info().Err(err).Msg("Feature extraction interrupted")
		return Empty{Reason: ReasonCanceled, Message: messageFor(ReasonCanceled)}
	}

	matches := make([]SimilarItem, 0, len(candidates))
	for i := range candidates {
		m := e.scorer.Score(refBundle, bundles[i], opts.Emphasize)
		factors := m.Factors
		matches = append(matches, SimilarItem{
			ContentItem: candidates[i],
			Similarity:  m.Score,
			Factors:     &factors,
			MatchType:   m.MatchType,
		})
	}

	// Stable so equal scores keep pool order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Similarity > matches[j].Similarity
	})

	matches = e.applyRerankers(ctx, PathFeatures, matches, limit)

	logger.Debug().
		Int("candidates", len(candidates)).
		Int("returned", len(matches)).
		Str("emphasize", string(opts.Emphasize)).
		Msg("feature similarity complete")

	return Ranked{Items: matches, Source: SourceFeatures}
}
