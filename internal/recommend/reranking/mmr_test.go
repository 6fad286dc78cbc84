// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package reranking

import (
	"context"
	"testing"

	"github.com/tomtom215/moodboard/internal/models"
	"github.com/tomtom215/moodboard/internal/recommend"
)

func tagged(id string, sim float64, tags ...string) recommend.SimilarItem {
	return recommend.SimilarItem{
		ContentItem: models.ContentItem{ID: id, Tags: tags},
		Similarity:  sim,
	}
}

func TestNewMMR(t *testing.T) {
	tests := []struct {
		name       string
		lambda     float64
		wantLambda float64
	}{
		{"normal value", 0.7, 0.7},
		{"zero value", 0.0, 0.0},
		{"one value", 1.0, 1.0},
		{"negative clamped to zero", -0.5, 0.0},
		{"above one clamped to one", 1.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmr := NewMMR(tt.lambda)
			if mmr == nil {
				t.Fatal("NewMMR() returned nil")
			}
			if mmr.lambda != tt.wantLambda {
				t.Errorf("lambda = %f, want %f", mmr.lambda, tt.wantLambda)
			}
		})
	}
}

func TestMMR_Name(t *testing.T) {
	mmr := NewMMR(0.7)
	if mmr.Name() != "mmr" {
		t.Errorf("Name() = %q, want %q", mmr.Name(), "mmr")
	}
}

func TestMMR_Rerank(t *testing.T) {
	items := []recommend.SimilarItem{
		tagged("1", 1.0, "minimal"),
		tagged("2", 0.9, "minimal"),
		tagged("3", 0.85, "retro"),
		tagged("4", 0.8, "minimal"),
		tagged("5", 0.75, "neon"),
		tagged("6", 0.7, "retro"),
	}

	tests := []struct {
		name    string
		lambda  float64
		k       int
		wantLen int
	}{
		{"pure relevance (lambda=1)", 1.0, 3, 3},
		{"balanced (lambda=0.7)", 0.7, 3, 3},
		{"k larger than items", 0.7, 10, 6},
		{"k zero returns input", 0.7, 0, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mmr := NewMMR(tt.lambda)
			result := mmr.Rerank(context.Background(), items, tt.k)

			if len(result) != tt.wantLen {
				t.Errorf("len(result) = %d, want %d", len(result), tt.wantLen)
			}
		})
	}
}

func TestMMR_Rerank_DiversityEffect(t *testing.T) {
	items := []recommend.SimilarItem{
		tagged("1", 1.0, "minimal"),
		tagged("2", 0.95, "minimal"),
		tagged("3", 0.9, "minimal"),
		tagged("4", 0.5, "retro"),
		tagged("5", 0.4, "neon"),
	}

	t.Run("pure relevance keeps datastore order", func(t *testing.T) {
		result := NewMMR(1.0).Rerank(context.Background(), items, 3)
		for i, item := range result {
			if item.ID != items[i].ID {
				t.Errorf("result[%d] = %s, want %s", i, item.ID, items[i].ID)
			}
		}
	})

	t.Run("low lambda promotes diversity", func(t *testing.T) {
		result := NewMMR(0.3).Rerank(context.Background(), items, 3)

		tagsSeen := make(map[string]bool)
		for _, item := range result {
			for _, tag := range item.Tags {
				tagsSeen[tag] = true
			}
		}
		if len(tagsSeen) < 2 {
			t.Errorf("expected tag diversity, only saw %v", tagsSeen)
		}
	})
}

func TestMMR_Rerank_EmptyInput(t *testing.T) {
	mmr := NewMMR(0.7)

	if result := mmr.Rerank(context.Background(), nil, 5); len(result) != 0 {
		t.Errorf("expected empty result for nil input, got %d items", len(result))
	}
	if result := mmr.Rerank(context.Background(), []recommend.SimilarItem{}, 5); len(result) != 0 {
		t.Errorf("expected empty result for empty slice, got %d items", len(result))
	}
}

func TestMMR_Rerank_PickOrder(t *testing.T) {
	items := []recommend.SimilarItem{
		tagged("1", 1.0, "minimal"),
		tagged("2", 0.95, "minimal"),
		tagged("3", 0.9, "minimal"),
		tagged("4", 0.5, "retro"),
		tagged("5", 0.4, "neon"),
	}

	// With lambda 0.5 the near duplicates of "1" score below zero once it is
	// picked, so the two distinct styles follow it.
	got := NewMMR(0.5).Rerank(context.Background(), items, 3)
	want := []string{"1", "4", "5"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
	if items[1].ID != "2" {
		t.Error("input slice was reordered")
	}
}

func TestMMR_Rerank_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []recommend.SimilarItem{tagged("1", 1, "a"), tagged("2", 0.5, "b")}
	if got := NewMMR(0.5).Rerank(ctx, items, 2); len(got) != 0 {
		t.Errorf("len = %d, want 0 for a canceled context", len(got))
	}
}

func TestDescriptorSet_Jaccard(t *testing.T) {
	tests := []struct {
		name     string
		a        []string
		b        []string
		expected float64
	}{
		{"identical", []string{"minimal", "clean"}, []string{"minimal", "clean"}, 1.0},
		{"no overlap", []string{"minimal"}, []string{"bold"}, 0.0},
		{"partial overlap", []string{"minimal", "clean"}, []string{"minimal", "bold"}, 1.0 / 3.0},
		{"both empty", nil, nil, 0.0},
		{"one empty", []string{"minimal"}, nil, 0.0},
		{"case insensitive", []string{"MINIMAL"}, []string{"minimal"}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b := tagged("a", 0, tt.a...), tagged("b", 0, tt.b...)
			result := descriptorSetOf(&a).jaccard(descriptorSetOf(&b))
			if result < tt.expected-0.01 || result > tt.expected+0.01 {
				t.Errorf("jaccard(%v, %v) = %f, want %f", tt.a, tt.b, result, tt.expected)
			}
		})
	}
}

func TestDescriptorSetOf(t *testing.T) {
	item := tagged("1", 1, "Minimal")
	item.Category = "Interior"

	got := descriptorSetOf(&item)
	for _, want := range []string{"minimal", "category:interior"} {
		if _, ok := got[want]; !ok {
			t.Errorf("descriptor set %v missing %q", got, want)
		}
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}
