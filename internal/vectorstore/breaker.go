// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package vectorstore

import (
	"context"

	"github.com/tomtom215/moodboard/internal/breaker"
	"github.com/tomtom215/moodboard/internal/models"
)

// Pinger is implemented by backends that support a health probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BreakerStore guards every call to the wrapped store with one shared
// circuit breaker, so reads and writes trip together.
type BreakerStore struct {
	next Store
	cb   *breaker.Breaker[any]
}

var _ Store = (*BreakerStore)(nil)

// WithBreaker wraps store with a circuit breaker.
func WithBreaker(store Store, cfg breaker.Config) *BreakerStore {
	return &BreakerStore{next: store, cb: breaker.New[any](cfg)}
}

// SearchSimilar implements Store.
func (b *BreakerStore) SearchSimilar(ctx context.Context, vec []float32, limit int) ([]models.Neighbor, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.SearchSimilar(ctx, vec, limit)
	})
	if err != nil {
		return nil, err
	}
	out, _ := v.([]models.Neighbor)
	return out, nil
}

// Recent implements Store.
func (b *BreakerStore) Recent(ctx context.Context, limit int) ([]models.ContentItem, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.Recent(ctx, limit)
	})
	if err != nil {
		return nil, err
	}
	out, _ := v.([]models.ContentItem)
	return out, nil
}

// Get implements Store.
func (b *BreakerStore) Get(ctx context.Context, id string) (*models.ContentItem, error) {
	v, err := b.cb.Execute(func() (any, error) {
		return b.next.Get(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	out, _ := v.(*models.ContentItem)
	if out == nil {
		return nil, models.ErrNotFound
	}
	return out, nil
}

// Upsert implements Store.
func (b *BreakerStore) Upsert(ctx context.Context, item models.ContentItem, embedding []float32) error {
	_, err := b.cb.Execute(func() (any, error) {
		return nil, b.next.Upsert(ctx, item, embedding)
	})
	return err
}

// Ping probes the wrapped store directly. Health checks bypass the breaker
// so they can observe recovery.
func (b *BreakerStore) Ping(ctx context.Context) error {
	if p, ok := b.next.(Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}

// BreakerState returns the breaker state.
func (b *BreakerStore) BreakerState() string {
	return b.cb.State()
}

// Close closes the wrapped store.
func (b *BreakerStore) Close() error {
	return b.next.Close()
}
