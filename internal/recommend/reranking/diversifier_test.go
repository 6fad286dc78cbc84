// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package reranking

import (
	"context"
	"fmt"
	"math/rand"
	"slices"
	"testing"

	"github.com/tomtom215/moodboard/internal/models"
	"github.com/tomtom215/moodboard/internal/recommend"
	"github.com/tomtom215/moodboard/internal/similarity"
)

func match(id string, sim float64, mt similarity.MatchType) recommend.SimilarItem {
	return recommend.SimilarItem{
		ContentItem: models.ContentItem{ID: id},
		Similarity:  sim,
		MatchType:   mt,
	}
}

func itemIDs(items []recommend.SimilarItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].ID
	}
	return out
}

func TestDiversifier_Name(t *testing.T) {
	if got := NewDiversifier().Name(); got != "diversifier" {
		t.Errorf("Name() = %q, want %q", got, "diversifier")
	}
}

func TestDiversifier_Rerank(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		items []recommend.SimilarItem
		k     int
		want  []string
	}{
		{
			name: "round robin in canonical order",
			items: []recommend.SimilarItem{
				match("c1", 0.9, similarity.MatchColor),
				match("c2", 0.8, similarity.MatchColor),
				match("v1", 0.7, similarity.MatchVisual),
				match("c3", 0.6, similarity.MatchColor),
				match("s1", 0.5, similarity.MatchSemantic),
			},
			k:    5,
			want: []string{"v1", "c1", "s1", "c2", "c3"},
		},
		{
			name: "limit stops mid round",
			items: []recommend.SimilarItem{
				match("c1", 0.9, similarity.MatchColor),
				match("v1", 0.7, similarity.MatchVisual),
				match("m1", 0.6, similarity.MatchMixed),
			},
			k:    2,
			want: []string{"v1", "c1"},
		},
		{
			name: "single type is truncation",
			items: []recommend.SimilarItem{
				match("a", 0.9, similarity.MatchStyle),
				match("b", 0.8, similarity.MatchStyle),
				match("c", 0.7, similarity.MatchStyle),
			},
			k:    2,
			want: []string{"a", "b"},
		},
		{
			name: "unknown types follow canonical ones",
			items: []recommend.SimilarItem{
				match("x1", 0.9, ""),
				match("t1", 0.8, similarity.MatchThematic),
				match("x2", 0.7, ""),
			},
			k:    3,
			want: []string{"t1", "x1", "x2"},
		},
		{
			name:  "k zero",
			items: []recommend.SimilarItem{match("a", 0.9, similarity.MatchStyle)},
			k:     0,
			want:  []string{},
		},
		{
			name:  "empty input",
			items: nil,
			k:     5,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NewDiversifier().Rerank(context.Background(), tt.items, tt.k)
			if ids := itemIDs(got); !slices.Equal(ids, tt.want) {
				t.Errorf("Rerank() = %v, want %v", ids, tt.want)
			}
		})
	}
}

// Output size is min(k, n), and each match type keeps its score order.
func TestDiversifier_Properties(t *testing.T) {
	t.Parallel()

	rng := rand.New(rand.NewSource(7)) //nolint:gosec // deterministic test data
	d := NewDiversifier()

	for round := 0; round < 200; round++ {
		n := rng.Intn(30)
		items := make([]recommend.SimilarItem, n)
		for i := range items {
			mt := similarity.MatchTypes[rng.Intn(len(similarity.MatchTypes))]
			items[i] = match(fmt.Sprintf("i%d", i), 1-float64(i)/100, mt)
		}
		k := rng.Intn(35) - 2

		got := d.Rerank(context.Background(), items, k)

		want := min(max(k, 0), n)
		if len(got) != want {
			t.Fatalf("round %d: len = %d, want min(%d, %d) = %d", round, len(got), k, n, want)
		}

		last := make(map[similarity.MatchType]float64)
		for _, it := range got {
			if prev, ok := last[it.MatchType]; ok && it.Similarity > prev {
				t.Fatalf("round %d: %s drained out of score order", round, it.MatchType)
			}
			last[it.MatchType] = it.Similarity
		}
	}
}

func TestDiversifier_InputUnchanged(t *testing.T) {
	t.Parallel()

	items := []recommend.SimilarItem{
		match("c1", 0.9, similarity.MatchColor),
		match("v1", 0.7, similarity.MatchVisual),
	}
	before := itemIDs(items)

	NewDiversifier().Rerank(context.Background(), items, 2)

	if after := itemIDs(items); !slices.Equal(before, after) {
		t.Errorf("input reordered: %v -> %v", before, after)
	}
}
