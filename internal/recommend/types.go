// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"context"

	"github.com/tomtom215/moodboard/internal/dedupe"
	"github.com/tomtom215/moodboard/internal/features"
	"github.com/tomtom215/moodboard/internal/models"
	"github.com/tomtom215/moodboard/internal/similarity"
)

// SimilarItem is a content item with its similarity to a reference item.
// Factors and MatchType are only set by the feature-based path.
type SimilarItem struct {
	models.ContentItem
	Similarity float64              `json:"similarity"`
	Factors    *similarity.Factors  `json:"factors,omitempty"`
	MatchType  similarity.MatchType `json:"match_type,omitempty"`
}

// Source identifies where the items of a result came from.
type Source string

// Result sources.
const (
	SourceEmbedding Source = "embedding"
	SourceRecent    Source = "recent"
	SourceCache     Source = "cache"
	SourceFeatures  Source = "features"
	SourceNone      Source = "none"
)

// Reason explains a degraded or empty result.
type Reason string

// Degradation and empty-result reasons.
const (
	ReasonEmbeddingUnavailable Reason = "embedding_unavailable"
	ReasonDatastoreUnavailable Reason = "datastore_unavailable"
	ReasonExhausted            Reason = "all_sources_exhausted"
	ReasonNoMatches            Reason = "no_matches"
	ReasonEmptyCandidatePool   Reason = "empty_candidate_pool"
	ReasonReferenceNotFound    Reason = "reference_not_found"
	ReasonCanceled             Reason = "canceled"
)

// Result is the outcome of a similarity request. It is one of Ranked,
// Degraded or Empty; callers switch on the concrete type.
type Result interface {
	result()
}

// Ranked holds items ordered by a real similarity measure.
type Ranked struct {
	Items  []SimilarItem
	Source Source
}

// Degraded holds substitute items produced by a fallback source. Every item
// carries similarity 0. ErrorMode is set when the primary datastore could
// not be reached at all.
type Degraded struct {
	Items     []SimilarItem
	Source    Source
	Reason    Reason
	ErrorMode bool
}

// Empty is a well-formed result with no items.
type Empty struct {
	Reason    Reason
	Message   string
	ErrorMode bool
}

func (Ranked) result()   {}
func (Degraded) result() {}
func (Empty) result()    {}

// Items returns the items of any result variant.
func Items(r Result) []SimilarItem {
	switch v := r.(type) {
	case Ranked:
		return v.Items
	case Degraded:
		return v.Items
	default:
		return nil
	}
}

// Kind returns a short label for the result variant, used in metrics and logs.
func Kind(r Result) string {
	switch r.(type) {
	case Ranked:
		return "ranked"
	case Degraded:
		return "degraded"
	case Empty:
		return "empty"
	default:
		return "unknown"
	}
}

// ResponseEnvelope is the fixed-shape wire form of a Result. Every variant
// serializes to the same set of fields.
type ResponseEnvelope struct {
	Items        []SimilarItem `json:"items"`
	Count        int           `json:"count"`
	Source       Source        `json:"source"`
	FallbackMode bool          `json:"fallback_mode"`
	ErrorMode    bool          `json:"error_mode"`
	Reason       Reason        `json:"reason,omitempty"`
	Message      string        `json:"message,omitempty"`
}

// Envelope converts a Result into its wire form.
func Envelope(r Result) ResponseEnvelope {
	env := ResponseEnvelope{Items: []SimilarItem{}, Source: SourceNone}

	switch v := r.(type) {
	case Ranked:
		if v.Items != nil {
			env.Items = v.Items
		}
		env.Source = v.Source
	case Degraded:
		if v.Items != nil {
			env.Items = v.Items
		}
		env.Source = v.Source
		env.FallbackMode = true
		env.ErrorMode = v.ErrorMode
		env.Reason = v.Reason
		env.Message = messageFor(v.Reason)
	case Empty:
		env.FallbackMode = v.Reason == ReasonExhausted
		env.ErrorMode = v.ErrorMode
		env.Reason = v.Reason
		env.Message = v.Message
		if env.Message == "" {
			env.Message = messageFor(v.Reason)
		}
	}

	env.Count = len(env.Items)
	return env
}

func messageFor(r Reason) string {
	switch r {
	case ReasonEmbeddingUnavailable:
		return "similarity search unavailable, showing recent items"
	case ReasonDatastoreUnavailable:
		return "datastore unavailable, showing previously seen items"
	case ReasonExhausted:
		return "no items available from any source"
	case ReasonNoMatches:
		return "no similar items found"
	case ReasonEmptyCandidatePool:
		return "no candidates to compare"
	case ReasonReferenceNotFound:
		return "reference item not found"
	case ReasonCanceled:
		return "request canceled"
	default:
		return ""
	}
}

// Request is a similarity request on the embedding path.
type Request struct {
	// ItemID identifies the reference item.
	ItemID string

	// Item, when set, is used as the reference and ItemID is ignored.
	Item *models.ContentItem

	// Limit is the number of items wanted. Zero uses the configured default.
	Limit int
}

// FeatureOptions controls the feature-based path.
type FeatureOptions struct {
	Limit     int
	Emphasize features.Dimension
}

// Embedder turns an image into an embedding vector.
type Embedder interface {
	Embed(ctx context.Context, imageURL string) ([]float32, error)
}

// VectorStore is the vector-capable datastore.
type VectorStore interface {
	// SearchSimilar returns neighbors ordered by descending similarity.
	SearchSimilar(ctx context.Context, vector []float32, limit int) ([]models.Neighbor, error)

	// Recent returns the most recently ingested items, newest first.
	Recent(ctx context.Context, limit int) ([]models.ContentItem, error)

	// Get returns one item or an error wrapping models.ErrNotFound.
	Get(ctx context.Context, id string) (*models.ContentItem, error)
}

// LocalCache is the append-only local cache of previously seen items.
type LocalCache interface {
	// All returns every cached item in insertion order.
	All(ctx context.Context) ([]models.ContentItem, error)

	// Get returns one item or an error wrapping models.ErrNotFound.
	Get(ctx context.Context, id string) (*models.ContentItem, error)
}

// Deduplicator removes items sharing a canonical image URL.
type Deduplicator interface {
	DedupeByURL(items []SimilarItem) ([]SimilarItem, error)
}

// FeatureExtractor produces feature bundles for the heuristic path.
type FeatureExtractor interface {
	Extract(ctx context.Context, item *models.ContentItem) features.Bundle
	ExtractAll(ctx context.Context, items []models.ContentItem) ([]features.Bundle, error)
}

// Reranker post-processes an ordered list of similar items.
type Reranker interface {
	// Name returns the reranker identifier.
	Name() string

	// Rerank reorders items and returns at most k of them.
	Rerank(ctx context.Context, items []SimilarItem, k int) []SimilarItem
}

// URLDeduplicator is the default Deduplicator, keyed by dedupe.CanonicalURL.
type URLDeduplicator struct{}

// DedupeByURL keeps the first item for each canonical image URL.
func (URLDeduplicator) DedupeByURL(items []SimilarItem) ([]SimilarItem, error) {
	return dedupe.Dedupe(items, func(it SimilarItem) string { return it.ImageURL }), nil
}

// Path selects which pipeline a reranker is registered on.
type Path string

// Pipelines.
const (
	PathEmbedding Path = "embedding"
	PathFeatures  Path = "features"
)
