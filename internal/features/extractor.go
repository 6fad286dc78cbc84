// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"context"
	"errors"
	"image"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// DefaultConcurrency bounds parallel extraction in ExtractAll.
const DefaultConcurrency = 8

// Extractor computes feature bundles. It is safe for concurrent use.
type Extractor struct {
	fetcher     Fetcher
	cache       *Cache
	now         func() time.Time
	concurrency int
	logger      zerolog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithCache memoizes bundles in c.
func WithCache(c *Cache) Option {
	return func(e *Extractor) { e.cache = c }
}

// WithClock overrides the time source used for recency.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) { e.now = now }
}

// WithConcurrency bounds parallel extraction in ExtractAll.
func WithConcurrency(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewExtractor creates an extractor. A nil fetcher disables image analysis;
// the visual dimension then always uses defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewExtractor(fetcher Fetcher, logger zerolog.Logger, opts ...Option) *Extractor {
	e := &Extractor{
		fetcher:     fetcher,
		now:         time.Now,
		concurrency: DefaultConcurrency,
		logger:      logger.With().Str("component", "features").Logger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Cache returns the extractor's cache, or nil.
func (e *Extractor) Cache() *Cache { return e.cache }

// Extract returns the feature bundle for item. Failures in a dimension are
// logged and replaced with that dimension's defaults; Extract never fails.
// Bundles computed under a cancelled context are not cached.
func (e *Extractor) Extract(ctx context.Context, item *models.ContentItem) Bundle {
	if e.cache != nil {
		if b, ok := e.cache.Get(item); ok {
			return b
		}
	}

	b := e.extract(ctx, item)

	if e.cache != nil && ctx.Err() == nil {
		e.cache.Add(item, b)
	}
	return b
}

func (e *Extractor) extract(ctx context.Context, item *models.ContentItem) Bundle {
	b := Bundle{ItemID: item.ID}

	var img image.Image
	b.Visual, img = e.extractVisual(ctx, item)
	if img == nil {
		b.Defaulted = append(b.Defaulted, DimensionVisual)
	}

	start := time.Now()
	var ok bool
	b.Color, ok = ExtractColor(item, img)
	metrics.RecordFeatureExtraction(string(DimensionColor), time.Since(start), !ok)
	if !ok {
		b.Defaulted = append(b.Defaulted, DimensionColor)
	}

	start = time.Now()
	b.Semantic = ExtractSemantic(item)
	metrics.RecordFeatureExtraction(string(DimensionSemantic), time.Since(start), false)

	start = time.Now()
	b.Content = ExtractContent(item)
	metrics.RecordFeatureExtraction(string(DimensionContent), time.Since(start), false)

	start = time.Now()
	b.Style = ExtractStyle(item)
	metrics.RecordFeatureExtraction(string(DimensionStyle), time.Since(start), false)

	start = time.Now()
	b.Contextual = ExtractContextual(item, e.now())
	metrics.RecordFeatureExtraction(string(DimensionContextual), time.Since(start), false)

	return b
}

func (e *Extractor) extractVisual(ctx context.Context, item *models.ContentItem) (ImageFeatures, image.Image) {
	start := time.Now()
	if e.fetcher == nil {
		metrics.RecordFeatureExtraction(string(DimensionVisual), time.Since(start), true)
		return DefaultImageFeatures(), nil
	}

	feats, img, err := ExtractImage(ctx, e.fetcher, item)
	metrics.RecordFeatureExtraction(string(DimensionVisual), time.Since(start), err != nil)
	if err != nil {
		var de *DecodeError
		evt := e.logger.Warn()
		if errors.As(err, &de) {
			evt = evt.Str("image_url", de.URL)
		}
		evt.Err(err).
			Str("item_id", item.ID).
			Str("dimension", string(DimensionVisual)).
			Msg("Image analysis failed, using default visual features")
		return DefaultImageFeatures(), nil
	}
	return feats, img
}

// ExtractAll extracts bundles for items concurrently. The result is index
// aligned with items. It fails only when ctx is cancelled.
func (e *Extractor) ExtractAll(ctx context.Context, items []models.ContentItem) ([]Bundle, error) {
	out := make([]Bundle, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = e.Extract(gctx, &items[i])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
