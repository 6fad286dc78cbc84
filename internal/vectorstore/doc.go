// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package vectorstore is the boundary to the vector-capable datastore used by
the embedding retrieval path.

Two backends implement Store:

  - DuckDB (default): an embedded database file. Embeddings live in a
    FLOAT[] column and nearest neighbors are ranked with
    list_cosine_similarity. Suitable for a single process.
  - Elasticsearch: a dense_vector field with cosine similarity, queried with
    approximate kNN. Suitable when several processes share one index.

Both report raw cosine similarity in [-1, 1] in models.Neighbor.

# Errors

Connection, query and non-2xx failures wrap models.ErrServiceUnavailable.
Undecodable payloads wrap models.ErrMalformedResponse. Unknown ids wrap
models.ErrNotFound. WithBreaker adds a circuit breaker; Open applies it
automatically.

# Metrics

Every operation records vectorstore_query_duration_seconds and, on failure,
vectorstore_query_errors_total labeled by backend and operation.
*/
package vectorstore
