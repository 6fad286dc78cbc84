// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package main is the entry point for the moodboard similarity server.

Moodboard answers "more like this" for visual content items. Requests go
through an embedding path (embedding service plus vector datastore) and fall
back to recently ingested items from the local cache when either dependency
is unavailable. A second endpoint ranks items with heuristic visual features
instead of embeddings.

# Application Architecture

	RootSupervisor ("moodboard")
	├── DataSupervisor ("data-layer")
	│   └── GCService (local cache value-log GC)
	├── IngestSupervisor ("ingest-layer")
	│   └── IngestService (content.ingested consumer, when enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (chi router)

Initialization order:

 1. Configuration: koanf with defaults, config.yaml and environment
 2. Logging: zerolog, JSON or console
 3. Datastore: DuckDB or Elasticsearch behind a circuit breaker
 4. Local cache: Badger, append-only
 5. Embedding client (optional) and feature extractor
 6. Similarity engine with rerankers
 7. Supervisor tree and HTTP server

# Configuration

Core environment variables:

	HTTP_PORT=8080
	LOG_LEVEL=info
	LOG_FORMAT=json
	EMBEDDING_URL=http://embedder:9000/embed
	DATASTORE_BACKEND=duckdb
	DUCKDB_PATH=/data/moodboard.duckdb
	LOCALCACHE_DIR=/data/cache
	INGEST_ENABLED=true
	NATS_URL=nats://nats:4222
	NATS_EMBEDDED=false

With NATS_EMBEDDED=true the server runs JetStream in-process and stores
streams under NATS_STORE_DIR; NATS_URL is ignored.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains within
HTTP_SHUTDOWN_TIMEOUT. Stores close after every supervised service stopped.
*/
package main
