// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package reranking

import (
	"context"

	"github.com/tomtom215/moodboard/internal/recommend"
	"github.com/tomtom215/moodboard/internal/similarity"
)

// Diversifier spreads results across match types. Items are grouped into one
// queue per match type and the queues are drained round-robin, taking the
// front item of each non-empty queue in turn.
//
// Given input sorted by score descending:
//   - the output holds min(k, len(items)) items
//   - each queue is drained in score order
//   - a single match type reduces to plain top-k truncation
type Diversifier struct {
	order []similarity.MatchType
}

// NewDiversifier creates a diversifier using the canonical match type order.
func NewDiversifier() *Diversifier {
	return &Diversifier{order: similarity.MatchTypes}
}

// Name returns the reranker identifier.
func (d *Diversifier) Name() string {
	return "diversifier"
}

// Rerank interleaves items by match type and returns at most k of them.
// Match types outside the canonical set are queued after it in first-seen
// order.
//
//nolint:gocritic // rangeValCopy: SimilarItem passed by value in range, acceptable for clarity
func (d *Diversifier) Rerank(_ context.Context, items []recommend.SimilarItem, k int) []recommend.SimilarItem {
	if k <= 0 || len(items) == 0 {
		return []recommend.SimilarItem{}
	}
	if k > maxRerankSize {
		k = maxRerankSize
	}
	if k > len(items) {
		k = len(items)
	}

	queues := make(map[similarity.MatchType][]recommend.SimilarItem, len(d.order))
	order := make([]similarity.MatchType, 0, len(d.order))
	order = append(order, d.order...)
	for _, item := range items {
		if _, ok := queues[item.MatchType]; !ok && !containsType(order, item.MatchType) {
			order = append(order, item.MatchType)
		}
		queues[item.MatchType] = append(queues[item.MatchType], item)
	}

	out := make([]recommend.SimilarItem, 0, k)
	for len(out) < k {
		for _, mt := range order {
			q := queues[mt]
			if len(q) == 0 {
				continue
			}
			out = append(out, q[0])
			queues[mt] = q[1:]
			if len(out) == k {
				break
			}
		}
	}

	return out
}

func containsType(types []similarity.MatchType, mt similarity.MatchType) bool {
	for _, t := range types {
		if t == mt {
			return true
		}
	}
	return false
}

// Ensure Diversifier implements the interface.
var _ recommend.Reranker = (*Diversifier)(nil)
