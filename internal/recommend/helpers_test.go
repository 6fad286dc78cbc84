// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/features"
	"github.com/tomtom215/moodboard/internal/models"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// testLogger returns a zerolog logger for testing.
func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

func testItem(id, imageURL string) models.ContentItem {
	it := models.ContentItem{
		ID:        id,
		ImageURL:  imageURL,
		Title:     "Item " + id,
		Tags:      []string{"minimal"},
		Colors:    []string{"#ffffff", "#000000"},
		CreatedAt: testNow.Add(-24 * time.Hour),
	}
	it.Normalize()
	return it
}

func numberedItems(prefix string, n int) []models.ContentItem {
	items := make([]models.ContentItem, n)
	for i := range items {
		id := fmt.Sprintf("%s%02d", prefix, i)
		items[i] = testItem(id, "https://cdn.example.com/"+id+".jpg")
	}
	return items
}

func neighborsOf(items []models.ContentItem) []models.Neighbor {
	out := make([]models.Neighbor, len(items))
	for i := range items {
		out[i] = models.Neighbor{Item: items[i], Similarity: 1 - float64(i)*0.01}
	}
	return out
}

// fakeEmbedder implements Embedder for testing.
type fakeEmbedder struct {
	vec   []float32
	err   error
	block bool
	calls atomic.Int32
}

func (f *fakeEmbedder) Embed(ctx context.Context, _ string) ([]float32, error) {
	f.calls.Add(1)
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.vec, nil
}

// fakeStore implements VectorStore for testing. items are newest first.
type fakeStore struct {
	items     []models.ContentItem
	neighbors []models.Neighbor
	searchErr error
	recentErr error
	getErr    error

	searchLimit atomic.Int32
	recentLimit atomic.Int32
}

func (f *fakeStore) SearchSimilar(_ context.Context, _ []float32, limit int) ([]models.Neighbor, error) {
	f.searchLimit.Store(int32(limit))
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	if len(f.neighbors) > limit {
		return f.neighbors[:limit], nil
	}
	return f.neighbors, nil
}

func (f *fakeStore) Recent(_ context.Context, limit int) ([]models.ContentItem, error) {
	f.recentLimit.Store(int32(limit))
	if f.recentErr != nil {
		return nil, f.recentErr
	}
	if len(f.items) > limit {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.ContentItem, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.items {
		if f.items[i].ID == id {
			it := f.items[i].Clone()
			return &it, nil
		}
	}
	for i := range f.neighbors {
		if f.neighbors[i].Item.ID == id {
			it := f.neighbors[i].Item.Clone()
			return &it, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
}

// fakeCache implements LocalCache for testing. items are in insertion order.
type fakeCache struct {
	items []models.ContentItem
	err   error
}

func (f *fakeCache) All(context.Context) ([]models.ContentItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

func (f *fakeCache) Get(_ context.Context, id string) (*models.ContentItem, error) {
	for i := range f.items {
		if f.items[i].ID == id {
			it := f.items[i].Clone()
			return &it, nil
		}
	}
	return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
}

// failingDeduplicator always fails.
type failingDeduplicator struct{}

func (failingDeduplicator) DedupeByURL([]SimilarItem) ([]SimilarItem, error) {
	return nil, errors.New("dedupe backend unavailable")
}

// mockReranker implements Reranker for testing.
type mockReranker struct {
	name  string
	calls atomic.Int32
}

func (m *mockReranker) Name() string {
	return m.name
}

func (m *mockReranker) Rerank(_ context.Context, items []SimilarItem, _ int) []SimilarItem {
	m.calls.Add(1)
	return items
}

type testDeps struct {
	embedder *fakeEmbedder
	store    *fakeStore
	cache    *fakeCache
}

func newTestEngine(t *testing.T, cfg *Config, d testDeps) *Engine {
	t.Helper()

	deps := Dependencies{
		Store:        d.store,
		Cache:        d.cache,
		Deduplicator: URLDeduplicator{},
		Extractor:    features.NewExtractor(nil, testLogger(), features.WithClock(func() time.Time { return testNow })),
	}
	if d.embedder != nil {
		deps.Embedder = d.embedder
	}

	engine, err := NewEngine(cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	return engine
}

func ids(items []SimilarItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}
