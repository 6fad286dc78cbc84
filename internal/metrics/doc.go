// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry at package init via
promauto and exposed by the API server at /metrics:

	curl http://localhost:8080/metrics

# Available Metrics

HTTP Metrics:
  - http_requests_total: Total HTTP requests (counter)
    Labels: method, endpoint, status
  - http_request_duration_seconds: Request latency (histogram)
  - http_requests_in_flight: Active requests (gauge)
  - http_rate_limit_hits_total: Rejected requests (counter)

Datastore Metrics:
  - vectorstore_query_duration_seconds: Query time (histogram)
    Labels: backend (duckdb, elasticsearch), operation
  - vectorstore_query_errors_total: Failed queries (counter)
    Labels: backend, operation, error_type

Feature Metrics:
  - feature_extraction_duration_seconds: Per-dimension extraction time
  - feature_defaults_applied_total: Dimensions replaced by neutral defaults
  - feature_cache_hits_total / feature_cache_misses_total
  - feature_cache_entries: Cached bundles (gauge)

Similarity Metrics:
  - similarity_requests_total: Requests by path and result kind
  - similarity_request_duration_seconds: End-to-end latency
  - degradation_chain_transitions_total: Labels: from, to
  - degradation_chain_stage_duration_seconds: Labels: stage
  - embedding_request_duration_seconds / embedding_errors_total

Circuit Breaker Metrics:
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Labels: name, result
  - circuit_breaker_state_transitions_total: Labels: name, from_state, to_state

Ingest Metrics:
  - ingest_messages_consumed_total / ingest_messages_processed_total
  - ingest_messages_rejected_total: Labels: reason
  - ingest_processing_duration_seconds

Local Cache Metrics:
  - local_cache_entries: Items in the fallback cache (gauge)
  - local_cache_gc_runs_total: Labels: result

# Alerting Examples

	groups:
	  - name: moodboard
	    rules:
	      - alert: SimilarityFallingBack
	        expr: rate(similarity_requests_total{result="degraded"}[5m]) > 0.5 * rate(similarity_requests_total[5m])
	        for: 10m
	      - alert: CircuitBreakerOpen
	        expr: circuit_breaker_state == 2
	        for: 1m
	        annotations:
	          summary: "Circuit breaker open for {{ $labels.name }}"
*/
package metrics
