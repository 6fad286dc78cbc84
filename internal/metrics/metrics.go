// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package metrics

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/tomtom215/moodboard/internal/models"
)

// Prometheus Metrics Integration for Production Observability
// This package provides instrumentation for:
// - Vector datastore query performance (DuckDB, Elasticsearch)
// - API endpoint latency and throughput
// - Feature extraction and the feature cache
// - The embedding retrieval path and its degradation chain
// - Content ingestion from the message bus

var (
	// Datastore Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "vectorstore_query_duration_seconds",
			Help:    "Duration of vector datastore queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"backend", "operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vectorstore_query_errors_total",
			Help: "Total number of vector datastore query errors",
		},
		[]string{"backend", "operation", "error_type"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_rate_limit_hits_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
		[]string{"endpoint"},
	)

	// Feature Metrics
	FeatureExtractionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "feature_extraction_duration_seconds",
			Help:    "Time spent extracting a feature dimension",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5},
		},
		[]string{"dimension"},
	)

	FeatureDefaultsApplied = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "feature_defaults_applied_total",
			Help: "Number of times a dimension fell back to neutral defaults",
		},
		[]string{"dimension"},
	)

	FeatureCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_hits_total",
			Help: "Total number of feature cache hits",
		},
	)

	FeatureCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "feature_cache_misses_total",
			Help: "Total number of feature cache misses",
		},
	)

	FeatureCacheSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "feature_cache_entries",
			Help: "Current number of cached feature bundles",
		},
	)

	// Similarity Metrics
	SimilarityRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "similarity_requests_total",
			Help: "Similarity requests by path and result kind",
		},
		[]string{"path", "result"}, // path: embedding, features; result: ranked, degraded, empty
	)

	SimilarityDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "similarity_request_duration_seconds",
			Help:    "End-to-end similarity request latency",
			Buckets: []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		},
		[]string{"path"},
	)

	ChainTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "degradation_chain_transitions_total",
			Help: "State transitions taken by the degradation chain",
		},
		[]string{"from", "to"},
	)

	ChainStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "degradation_chain_stage_duration_seconds",
			Help:    "Duration of each degradation chain stage",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"stage"},
	)

	EmbeddingRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "embedding_request_duration_seconds",
			Help:    "Latency of embedding service calls",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
	)

	EmbeddingErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "embedding_errors_total",
			Help: "Embedding service failures by kind",
		},
		[]string{"error_type"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)

	// Ingest Metrics
	IngestMessagesConsumed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_messages_consumed_total",
			Help: "Total number of ingest messages received",
		},
	)

	IngestMessagesProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_messages_processed_total",
			Help: "Total number of ingest messages stored successfully",
		},
	)

	IngestMessagesRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_messages_rejected_total",
			Help: "Total number of ingest messages dropped",
		},
		[]string{"reason"}, // parse, invalid, store
	)

	IngestProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ingest_processing_duration_seconds",
			Help:    "Time to process one ingest message",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1},
		},
	)

	// Local Cache Metrics
	LocalCacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "local_cache_entries",
			Help: "Items held in the local fallback cache",
		},
	)

	LocalCacheGCRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "local_cache_gc_runs_total",
			Help: "Value log garbage collection runs by outcome",
		},
		[]string{"result"}, // rewritten, nothing, error
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// RecordDBQuery records a vector datastore query metric
func RecordDBQuery(backend, operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(backend, operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(backend, operation, ErrorType(err)).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordFeatureExtraction records the time spent on one dimension.
func RecordFeatureExtraction(dimension string, duration time.Duration, defaulted bool) {
	FeatureExtractionDuration.WithLabelValues(dimension).Observe(duration.Seconds())
	if defaulted {
		FeatureDefaultsApplied.WithLabelValues(dimension).Inc()
	}
}

// RecordFeatureCache records a feature cache lookup.
func RecordFeatureCache(hit bool) {
	if hit {
		FeatureCacheHits.Inc()
	} else {
		FeatureCacheMisses.Inc()
	}
}

// RecordSimilarityRequest records the outcome of a similarity request.
func RecordSimilarityRequest(path, result string, duration time.Duration) {
	SimilarityRequests.WithLabelValues(path, result).Inc()
	SimilarityDuration.WithLabelValues(path).Observe(duration.Seconds())
}

// RecordChainTransition records a degradation chain state change.
func RecordChainTransition(from, to string) {
	ChainTransitions.WithLabelValues(from, to).Inc()
}

// RecordChainStage records how long a chain stage took.
func RecordChainStage(stage string, duration time.Duration) {
	ChainStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordEmbeddingRequest records an embedding service call.
func RecordEmbeddingRequest(duration time.Duration, err error) {
	EmbeddingRequestDuration.Observe(duration.Seconds())
	if err != nil {
		EmbeddingErrors.WithLabelValues(ErrorType(err)).Inc()
	}
}

// RecordIngest records the outcome of one ingest message. An empty reason
// means the message was stored.
func RecordIngest(duration time.Duration, reason string) {
	IngestMessagesConsumed.Inc()
	IngestProcessingDuration.Observe(duration.Seconds())
	if reason == "" {
		IngestMessagesProcessed.Inc()
		return
	}
	IngestMessagesRejected.WithLabelValues(reason).Inc()
}

// ErrorType maps an error to a low-cardinality label value.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, models.ErrServiceUnavailable):
		return "unavailable"
	case errors.Is(err, models.ErrMalformedResponse):
		return "malformed"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "other"
	}
}
