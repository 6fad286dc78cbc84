// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package reranking

import (
	"context"
	"strings"

	"github.com/tomtom215/moodboard/internal/recommend"
)

// maxRerankSize caps how many items a single Rerank call will select.
const maxRerankSize = 10000

// MMR reranks embedding neighbors with Maximal Marginal Relevance:
//
//	next = argmax[lambda * similarity(i) - (1-lambda) * max(overlap(i, s)) for s in selected]
//
// similarity(i) is the neighbor's similarity to the reference item and
// overlap is the Jaccard index of tags plus category. Lambda 1 keeps the
// datastore order; lambda 0 ignores relevance after the first pick.
//
// Carbonell & Goldstein, "The Use of MMR, Diversity-Based Reranking for
// Reordering Documents and Producing Summaries", SIGIR 1998.
type MMR struct {
	lambda float64
}

// NewMMR creates an MMR reranker. Lambda is clamped to [0,1].
func NewMMR(lambda float64) *MMR {
	switch {
	case lambda < 0:
		lambda = 0
	case lambda > 1:
		lambda = 1
	}
	return &MMR{lambda: lambda}
}

// Name returns the reranker identifier.
func (m *MMR) Name() string {
	return "mmr"
}

// Rerank selects up to k items greedily. The input slice is not modified.
func (m *MMR) Rerank(ctx context.Context, items []recommend.SimilarItem, k int) []recommend.SimilarItem {
	if len(items) == 0 || k <= 0 {
		return items
	}
	k = min(k, len(items), maxRerankSize)

	if m.lambda >= 1 {
		return items[:k]
	}

	sets := make([]descriptorSet, len(items))
	for i := range items {
		sets[i] = descriptorSetOf(&items[i])
	}

	// maxOverlap[i] is candidate i's highest overlap with anything selected
	// so far; it only grows, so one pass per pick keeps it current.
	maxOverlap := make([]float64, len(items))
	taken := make([]bool, len(items))
	out := make([]recommend.SimilarItem, 0, k)

	for len(out) < k && ctx.Err() == nil {
		best, bestScore := -1, 0.0
		for i := range items {
			if taken[i] {
				continue
			}
			score := m.lambda*items[i].Similarity - (1-m.lambda)*maxOverlap[i]
			if best < 0 || score > bestScore {
				best, bestScore = i, score
			}
		}
		if best < 0 {
			break
		}

		taken[best] = true
		out = append(out, items[best])
		for i := range items {
			if !taken[i] {
				maxOverlap[i] = max(maxOverlap[i], sets[i].jaccard(sets[best]))
			}
		}
	}
	return out
}

// descriptorSet is the lowercased tags of an item plus "category:<name>".
type descriptorSet map[string]struct{}

func descriptorSetOf(item *recommend.SimilarItem) descriptorSet {
	set := make(descriptorSet, len(item.Tags)+1)
	for _, tag := range item.Tags {
		set[strings.ToLower(tag)] = struct{}{}
	}
	if item.Category != "" {
		set["category:"+strings.ToLower(item.Category)] = struct{}{}
	}
	return set
}

// jaccard returns |a∩b| / |a∪b|, or 0 when both are empty.
func (a descriptorSet) jaccard(b descriptorSet) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for d := range a {
		if _, ok := b[d]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(a)+len(b)-shared)
}

var _ recommend.Reranker = (*MMR)(nil)
