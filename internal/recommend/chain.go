// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// chainState is a stage of the embedding retrieval chain.
type chainState string

const (
	stateEmbed          chainState = "EMBED"
	stateSearch         chainState = "SEARCH"
	stateFallbackRecent chainState = "FALLBACK_RECENT"
	stateFallbackCache  chainState = "FALLBACK_CACHE"
	stateDedupe         chainState = "DEDUPE"
)

var errEmbeddingDisabled = errors.New("no embedding service configured")

// chain carries one request through EMBED, SEARCH and the fallbacks to
// DEDUPE. Each stage runs once; there are no retries.
type chain struct {
	e      *Engine
	logger zerolog.Logger
	ref    *models.ContentItem
	limit  int
	fetch  int

	state     chainState
	vector    []float32
	items     []SimilarItem
	source    Source
	reason    Reason
	errorMode bool
}

// FindSimilar returns items similar to the reference of req using the
// embedding service and the vector datastore. Failures of either degrade to
// recent items and then to the local cache; FindSimilar never returns an
// error. Cancelling ctx yields an Empty result.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) FindSimilar(ctx context.Context, req Request) Result {
	start := time.Now()
	itemID := req.ItemID
	if req.Item != nil {
		itemID = req.Item.ID
	}
	logger := e.requestLogger(ctx, PathEmbedding, itemID)

	res := e.findSimilar(ctx, req, logger)

	metrics.RecordSimilarityRequest(string(PathEmbedding), Kind(res), time.Since(start))
	logger.Debug().
		Str("result", Kind(res)).
		Int("returned", len(Items(res))).
		Dur("latency", time.Since(start)).
		Msg("similarity request complete")
	return res
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) findSimilar(ctx context.Context, req Request, logger zerolog.Logger) Result {
	limit := e.clampLimit(req.Limit)

	ref := e.resolveReference(ctx, req, logger)
	if ctx.Err() != nil {
		return Empty{Reason: ReasonCanceled, Message: messageFor(ReasonCanceled)}
	}
	if ref == nil {
		logger.Info().Msg("Reference item not found")
		return Empty{Reason: ReasonReferenceNotFound, Message: messageFor(ReasonReferenceNotFound)}
	}

	c := &chain{
		e:      e,
		logger: logger,
		ref:    ref,
		limit:  limit,
		// One extra for the reference itself.
		fetch: limit*e.config.Limits.OverFetch + 1,
		state: stateEmbed,
	}
	return c.run(ctx)
}

func (c *chain) run(ctx context.Context) Result {
	for c.state != stateDedupe {
		if ctx.Err() != nil {
			c.logger.Info().Str("stage", string(c.state)).Msg("Similarity request canceled")
			return Empty{Reason: ReasonCanceled, Message: messageFor(ReasonCanceled)}
		}

		stage := c.state
		start := time.Now()
		switch c.state {
		case stateEmbed:
			c.embed(ctx)
		case stateSearch:
			c.search(ctx)
		case stateFallbackRecent:
			c.recent(ctx)
		case stateFallbackCache:
			c.fromCache(ctx)
		}
		metrics.RecordChainStage(string(stage), time.Since(start))
	}
	return c.finish(ctx)
}

// transition moves to the next state. err is the failure that caused it, if any.
func (c *chain) transition(to chainState, err error) {
	evt := c.logger.Debug()
	if err != nil {
		evt = c.logger.Warn().Err(err).Str("error_type", metrics.ErrorType(err))
	}
	evt.Str("from", string(c.state)).
		Str("to", string(to)).
		Str("stage", string(c.state)).
		Msg("Similarity chain transition")

	metrics.RecordChainTransition(string(c.state), string(to))
	c.state = to
}

func (c *chain) embed(ctx context.Context) {
	if c.e.embedder == nil {
		c.reason = ReasonEmbeddingUnavailable
		c.transition(stateFallbackRecent, errEmbeddingDisabled)
		return
	}

	ectx, cancel := context.WithTimeout(ctx, c.e.config.Timeouts.Embedding)
	defer cancel()

	vec, err := c.e.embedder.Embed(ectx, c.ref.ImageURL)
	if err == nil && len(vec) == 0 {
		err = fmt.Errorf("empty embedding vector: %w", models.ErrMalformedResponse)
	}
	if err != nil {
		c.reason = ReasonEmbeddingUnavailable
		c.transition(stateFallbackRecent, err)
		return
	}

	c.vector = vec
	c.transition(stateSearch, nil)
}

func (c *chain) search(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, c.e.config.Timeouts.Datastore)
	defer cancel()

	neighbors, err := c.e.store.SearchSimilar(sctx, c.vector, c.fetch)
	if err != nil {
		c.reason = ReasonDatastoreUnavailable
		c.errorMode = true
		c.transition(stateFallbackCache, err)
		return
	}

	c.items = make([]SimilarItem, 0, len(neighbors))
	for i := range neighbors {
		c.items = append(c.items, SimilarItem{
			ContentItem: neighbors[i].Item,
			Similarity:  neighbors[i].Similarity,
		})
	}
	c.source = SourceEmbedding
	c.transition(stateDedupe, nil)
}

func (c *chain) recent(ctx context.Context) {
	sctx, cancel := context.WithTimeout(ctx, c.e.config.Timeouts.Datastore)
	defer cancel()

	items, err := c.e.store.Recent(sctx, c.fetch)
	if err != nil {
		c.reason = ReasonDatastoreUnavailable
		c.errorMode = true
		c.transition(stateFallbackCache, err)
		return
	}

	c.items = zeroScored(items)
	c.source = SourceRecent
	c.transition(stateDedupe, nil)
}

// fromCache reads the newest local cache entries, keeping only the latest
// entry per item id. A failing cache counts as an empty one.
func (c *chain) fromCache(ctx context.Context) {
	all, err := c.e.cache.All(ctx)
	if err != nil {
		c.logger.Error().Err(err).Msg("Local cache read failed, treating as empty")
		all = nil
	}

	n := min(len(all), c.fetch)
	newest := make([]models.ContentItem, 0, n)
	seen := make(map[string]struct{}, n)
	for i := len(all) - 1; i >= 0 && len(newest) < n; i-- {
		if _, dup := seen[all[i].ID]; dup {
			continue
		}
		seen[all[i].ID] = struct{}{}
		newest = append(newest, all[i])
	}

	c.items = zeroScored(newest)
	c.source = SourceCache
	c.transition(stateDedupe, nil)
}

// finish is the DEDUPE state. It never fails.
func (c *chain) finish(ctx context.Context) Result {
	items := excludeReference(c.items, c.ref)
	items = c.e.dedupeItems(items, c.logger)

	if c.source == SourceEmbedding {
		items = c.e.applyRerankers(ctx, PathEmbedding, items, c.limit)
	} else {
		items = truncate(items, c.limit)
	}

	if len(items) == 0 {
		if c.reason == "" {
			return Empty{Reason: ReasonNoMatches, Message: messageFor(ReasonNoMatches)}
		}
		c.logger.Warn().
			Str("last_reason", string(c.reason)).
			Msg("All similarity sources exhausted")
		return Empty{
			Reason:    ReasonExhausted,
			Message:   messageFor(ReasonExhausted),
			ErrorMode: c.errorMode,
		}
	}

	if c.reason == "" {
		return Ranked{Items: items, Source: c.source}
	}
	return Degraded{
		Items:     items,
		Source:    c.source,
		Reason:    c.reason,
		ErrorMode: c.errorMode,
	}
}
