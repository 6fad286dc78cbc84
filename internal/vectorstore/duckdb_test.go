// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package vectorstore

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/models"
)

var baseTime = time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)

func newTestDuckDB(t *testing.T) *DuckDB {
	t.Helper()

	db, err := NewDuckDB(context.Background(), DuckDBConfig{Path: ":memory:", Threads: 1}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDuckDB() error = %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func storeItem(id string, age time.Duration) models.ContentItem {
	it := models.ContentItem{
		ID:        id,
		ImageURL:  "https://cdn.example.com/" + id + ".jpg",
		Title:     "Item " + id,
		Tags:      []string{"minimal"},
		CreatedAt: baseTime.Add(-age),
	}
	it.Normalize()
	return it
}

func seed(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	rows := []struct {
		item models.ContentItem
		vec  []float32
	}{
		{storeItem("east", 3*time.Hour), []float32{1, 0, 0}},
		{storeItem("north-east", 2*time.Hour), []float32{1, 1, 0}},
		{storeItem("north", time.Hour), []float32{0, 1, 0}},
		{storeItem("west", 4*time.Hour), []float32{-1, 0, 0}},
		{storeItem("no-vector", 0), nil},
		{storeItem("short-vector", 5*time.Hour), []float32{1, 0}},
	}
	for _, r := range rows {
		if err := s.Upsert(ctx, r.item, r.vec); err != nil {
			t.Fatalf("Upsert(%s) error = %v", r.item.ID, err)
		}
	}
}

func neighborIDs(ns []models.Neighbor) []string {
	out := make([]string, len(ns))
	for i := range ns {
		out[i] = ns[i].Item.ID
	}
	return out
}

func itemIDs(items []models.ContentItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestDuckDB_SearchSimilar(t *testing.T) {
	db := newTestDuckDB(t)
	seed(t, db)

	got, err := db.SearchSimilar(context.Background(), []float32{1, 0, 0}, 10)
	if err != nil {
		t.Fatalf("SearchSimilar() error = %v", err)
	}

	want := []string{"east", "north-east", "north", "west"}
	if !equalIDs(neighborIDs(got), want) {
		t.Fatalf("ids = %v, want %v", neighborIDs(got), want)
	}

	wantSim := []float64{1, 1 / math.Sqrt2, 0, -1}
	for i, n := range got {
		if math.Abs(n.Similarity-wantSim[i]) > 1e-5 {
			t.Errorf("%s similarity = %f, want %f", n.Item.ID, n.Similarity, wantSim[i])
		}
	}
	if got[0].Item.Title != "Item east" || got[0].Item.Tags[0] != "minimal" {
		t.Errorf("payload not round-tripped: %+v", got[0].Item)
	}
}

func TestDuckDB_SearchSimilar_Limit(t *testing.T) {
	db := newTestDuckDB(t)
	seed(t, db)

	got, err := db.SearchSimilar(context.Background(), []float32{0, 1, 0}, 2)
	if err != nil {
		t.Fatalf("SearchSimilar() error = %v", err)
	}
	if want := []string{"north", "north-east"}; !equalIDs(neighborIDs(got), want) {
		t.Errorf("ids = %v, want %v", neighborIDs(got), want)
	}
}

func TestDuckDB_SearchSimilar_InvalidVector(t *testing.T) {
	db := newTestDuckDB(t)

	tests := []struct {
		name string
		vec  []float32
	}{
		{"empty", nil},
		{"nan", []float32{float32(math.NaN()), 1}},
		{"inf", []float32{float32(math.Inf(1)), 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := db.SearchSimilar(context.Background(), tt.vec, 5)
			if !errors.Is(err, models.ErrInvalidItem) {
				t.Errorf("error = %v, want ErrInvalidItem", err)
			}
		})
	}
}

func TestDuckDB_Recent(t *testing.T) {
	db := newTestDuckDB(t)
	seed(t, db)

	got, err := db.Recent(context.Background(), 3)
	if err != nil {
		t.Fatalf("Recent() error = %v", err)
	}
	if want := []string{"no-vector", "north", "north-east"}; !equalIDs(itemIDs(got), want) {
		t.Errorf("ids = %v, want %v", itemIDs(got), want)
	}
}

func TestDuckDB_Get(t *testing.T) {
	db := newTestDuckDB(t)
	seed(t, db)
	ctx := context.Background()

	item, err := db.Get(ctx, "north")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item.ID != "north" || !item.CreatedAt.Equal(baseTime.Add(-time.Hour)) {
		t.Errorf("Get() = %+v", item)
	}

	_, err = db.Get(ctx, "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}

func TestDuckDB_UpsertReplaces(t *testing.T) {
	db := newTestDuckDB(t)
	seed(t, db)
	ctx := context.Background()

	updated := storeItem("west", 4*time.Hour)
	updated.Title = "Renamed"
	if err := db.Upsert(ctx, updated, []float32{1, 0, 0}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	item, err := db.Get(ctx, "west")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if item.Title != "Renamed" {
		t.Errorf("Title = %q, want Renamed", item.Title)
	}

	got, err := db.SearchSimilar(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("SearchSimilar() error = %v", err)
	}
	// Equal similarity: newer first.
	if want := []string{"east", "west"}; !equalIDs(neighborIDs(got), want) {
		t.Errorf("ids = %v, want %v", neighborIDs(got), want)
	}
}

func TestDuckDB_UpsertValidation(t *testing.T) {
	db := newTestDuckDB(t)
	ctx := context.Background()

	if err := db.Upsert(ctx, models.ContentItem{ImageURL: "https://x.test/a.jpg"}, nil); !errors.Is(err, models.ErrInvalidItem) {
		t.Errorf("missing id error = %v, want ErrInvalidItem", err)
	}
	if err := db.Upsert(ctx, storeItem("a", 0), []float32{float32(math.NaN())}); !errors.Is(err, models.ErrInvalidItem) {
		t.Errorf("nan vector error = %v, want ErrInvalidItem", err)
	}
}

func TestDuckDB_UpsertStampsCreatedAt(t *testing.T) {
	db := newTestDuckDB(t)
	ctx := context.Background()

	item := storeItem("fresh", 0)
	item.CreatedAt = time.Time{}
	before := time.Now().UTC().Add(-time.Second)

	if err := db.Upsert(ctx, item, nil); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	got, err := db.Get(ctx, "fresh")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.CreatedAt.Before(before) {
		t.Errorf("CreatedAt = %v, want after %v", got.CreatedAt, before)
	}
}

func TestDuckDB_FileBacked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "vectors.duckdb")
	ctx := context.Background()

	db, err := NewDuckDB(ctx, DuckDBConfig{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewDuckDB() error = %v", err)
	}
	if err := db.Upsert(ctx, storeItem("kept", 0), []float32{0.5, 0.5}); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := NewDuckDB(ctx, DuckDBConfig{Path: path}, zerolog.Nop())
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Get(ctx, "kept"); err != nil {
		t.Errorf("Get() after reopen error = %v", err)
	}
}

func TestDuckDB_Ping(t *testing.T) {
	db := newTestDuckDB(t)
	if err := db.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestVectorLiteral(t *testing.T) {
	t.Parallel()

	tests := []struct {
		vec  []float32
		want string
	}{
		{[]float32{1, 0, -1}, "[1,0,-1]"},
		{[]float32{0.5, 0.25}, "[0.5,0.25]"},
		{[]float32{}, "[]"},
	}
	for _, tt := range tests {
		if got := vectorLiteral(tt.vec); got != tt.want {
			t.Errorf("vectorLiteral(%v) = %q, want %q", tt.vec, got, tt.want)
		}
	}
}

func TestConnString(t *testing.T) {
	t.Parallel()

	got := connString("/data/v.duckdb", DuckDBConfig{Threads: 2, MaxMemory: "1GB"})
	want := "/data/v.duckdb?autoinstall_known_extensions=false&autoload_known_extensions=false&threads=2&max_memory=1GB"
	if got != want {
		t.Errorf("connString() = %q, want %q", got, want)
	}
}
