// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package api exposes the similarity engine over HTTP with the chi router.

Routes:

	GET /api/v1/items/{id}/similar?limit=N
	    Embedding retrieval with the degradation chain.
	GET /api/v1/items/{id}/similar/features?limit=N&emphasize=DIM
	    Six-dimension heuristic comparison against recent items.
	GET /health
	GET /health/live
	GET /metrics (when enabled)

Every similarity response wraps the same envelope in models.APIResponse.Data:

	{
	  "status": "success",
	  "data": {
	    "items": [...], "count": 3, "source": "recent",
	    "fallback_mode": true, "error_mode": false,
	    "reason": "embedding_unavailable",
	    "message": "similarity search unavailable, showing recent items"
	  },
	  "metadata": {"timestamp": "...", "query_time_ms": 12}
	}

Degraded results are still 200, and so is an exhausted chain: an empty item
list with fallback_mode, error_mode and message set. An unknown reference
item is 404 NOT_FOUND and a canceled request is 503 SERVICE_UNAVAILABLE; both
keep the envelope in data so clients can render a single shape.
*/
package api
