// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package reranking implements post-processing algorithms for result diversity.
//
// Rerankers operate on already-scored similar items and reorder them to
// balance relevance against variety:
//
//	Scorer / Datastore -> Initial Ranking -> Rerankers -> Final Ranking
//
// # Available Rerankers
//
// Diversifier (feature path):
//   - Groups items by match type (visual, color, semantic, style, thematic, mixed)
//   - Drains the groups round-robin in that fixed order
//   - Output size is always min(k, len(items))
//   - A single match type reduces to plain top-k truncation
//
// Maximal Marginal Relevance (embedding path):
//   - Balances datastore similarity against tag and category overlap
//   - Lambda 1.0 keeps the datastore order unchanged
//
// # Interface
//
// All rerankers implement the recommend.Reranker interface:
//
//	type Reranker interface {
//	    Name() string
//	    Rerank(ctx context.Context, items []SimilarItem, k int) []SimilarItem
//	}
//
// Rerankers are registered per path to avoid an import cycle:
//
//	engine.RegisterReranker(recommend.PathFeatures, reranking.NewDiversifier())
//	engine.RegisterReranker(recommend.PathEmbedding, reranking.NewMMR(cfg.Diversity.MMRLambda))
//
// # Performance
//
// Diversifier: O(n) time and space.
// MMR: O(k * n^2) time, O(n^2) space for the similarity matrix.
//
// # Thread Safety
//
// All rerankers are stateless and safe for concurrent use.
package reranking
