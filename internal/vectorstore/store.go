// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package vectorstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/breaker"
	"github.com/tomtom215/moodboard/internal/models"
)

// Backend names accepted by Open.
const (
	BackendDuckDB        = "duckdb"
	BackendElasticsearch = "elasticsearch"
)

// Store is a vector-capable datastore of content items.
type Store interface {
	// SearchSimilar returns up to limit items ordered by descending cosine
	// similarity to vec. Items without an embedding of the same length are
	// never returned.
	SearchSimilar(ctx context.Context, vec []float32, limit int) ([]models.Neighbor, error)

	// Recent returns up to limit items, newest first.
	Recent(ctx context.Context, limit int) ([]models.ContentItem, error)

	// Get returns the item with the given id, or an error wrapping
	// models.ErrNotFound.
	Get(ctx context.Context, id string) (*models.ContentItem, error)

	// Upsert inserts or replaces an item and its embedding. A nil embedding
	// keeps the item out of similarity search.
	Upsert(ctx context.Context, item models.ContentItem, embedding []float32) error

	Close() error
}

// Config selects and configures a backend.
type Config struct {
	Backend       string
	DuckDB        DuckDBConfig
	Elasticsearch ElasticsearchConfig
	Breaker       breaker.Config
}

// Open creates the configured backend wrapped in a circuit breaker.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func Open(ctx context.Context, cfg Config, logger zerolog.Logger) (Store, error) {
	var (
		store Store
		err   error
	)

	switch strings.ToLower(cfg.Backend) {
	case "", BackendDuckDB:
		store, err = NewDuckDB(ctx, cfg.DuckDB, logger)
	case BackendElasticsearch:
		store, err = NewElasticsearch(ctx, cfg.Elasticsearch, logger)
	default:
		return nil, fmt.Errorf("unknown datastore backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = "datastore"
	}
	return WithBreaker(store, cfg.Breaker), nil
}

// unavailable wraps a backend failure in models.ErrServiceUnavailable.
func unavailable(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, models.ErrServiceUnavailable, err)
}

// normalizeLimit bounds limit to [1, max].
func normalizeLimit(limit, maxLimit int) int {
	if limit < 1 {
		return 1
	}
	return min(limit, maxLimit)
}
