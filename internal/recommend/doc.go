// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package recommend answers "find items that look like this one".
//
// # Architecture
//
// Two paths share one Engine:
//
//   - Embedding path (FindSimilar): the reference image is embedded by an
//     external service and its nearest neighbors are read from the vector
//     datastore.
//   - Feature path (SimilarByFeatures, SimilarByFeaturesTo): reference and
//     candidates are reduced to six feature bundles and compared with the
//     weighted scorer from the similarity package.
//
// # Degradation Chain
//
// The embedding path is a small state machine. Every stage runs at most once
// and every transition is logged and counted:
//
//	EMBED --ok--> SEARCH --ok--> DEDUPE
//	  |             |
//	  fail          fail
//	  v             v
//	FALLBACK_RECENT --fail--> FALLBACK_CACHE --> DEDUPE
//	  |
//	  ok --> DEDUPE
//
// Fallback items carry similarity 0 and are returned as Degraded. When every
// source is empty the result is Empty with an explanatory message. No error
// ever reaches the caller.
//
// # Results
//
// Result is a closed set of variants: Ranked, Degraded and Empty. Callers
// switch on the concrete type, or use Envelope to obtain the fixed-shape
// wire form with fallback_mode and error_mode flags.
//
// # Usage
//
//	engine, err := recommend.NewEngine(cfg, recommend.Dependencies{
//	    Embedder:     embedClient,
//	    Store:        store,
//	    Cache:        cache,
//	    Deduplicator: recommend.URLDeduplicator{},
//	    Extractor:    extractor,
//	}, logger)
//	engine.RegisterReranker(recommend.PathFeatures, reranking.NewDiversifier())
//
//	res := engine.FindSimilar(ctx, recommend.Request{ItemID: id, Limit: 20})
//	switch r := res.(type) {
//	case recommend.Ranked:
//	    ...
//	}
//
// # Thread Safety
//
// The engine is safe for concurrent use. Reranker registration takes a
// write lock; requests only read.
package recommend
