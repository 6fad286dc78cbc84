// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package metrics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"

	"github.com/tomtom215/moodboard/internal/models"
)

// TestRecordDBQuery tests datastore query metric recording
func TestRecordDBQuery(t *testing.T) {
	before := testutil.ToFloat64(DBQueryErrors.WithLabelValues("duckdb", "search", "unavailable"))

	RecordDBQuery("duckdb", "search", 10*time.Millisecond, nil)
	RecordDBQuery("duckdb", "search", 10*time.Millisecond, fmt.Errorf("open: %w", models.ErrServiceUnavailable))

	after := testutil.ToFloat64(DBQueryErrors.WithLabelValues("duckdb", "search", "unavailable"))
	if after-before != 1 {
		t.Errorf("expected one unavailable error recorded, got %v", after-before)
	}
}

// getSampleCount extracts the observation count from a Prometheus histogram
func getSampleCount(h prometheus.Histogram) uint64 {
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		return 0
	}
	return m.GetHistogram().GetSampleCount()
}

func TestRecordEmbeddingRequest(t *testing.T) {
	samples := getSampleCount(EmbeddingRequestDuration)
	errs := testutil.ToFloat64(EmbeddingErrors.WithLabelValues("unavailable"))

	RecordEmbeddingRequest(20*time.Millisecond, nil)
	RecordEmbeddingRequest(time.Second, fmt.Errorf("embed: %w", models.ErrServiceUnavailable))

	if got := getSampleCount(EmbeddingRequestDuration) - samples; got != 2 {
		t.Errorf("samples delta = %d, want 2", got)
	}
	if got := testutil.ToFloat64(EmbeddingErrors.WithLabelValues("unavailable")) - errs; got != 1 {
		t.Errorf("errors delta = %v, want 1", got)
	}
}

func TestErrorType(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"unavailable", fmt.Errorf("x: %w", models.ErrServiceUnavailable), "unavailable"},
		{"malformed", fmt.Errorf("x: %w", models.ErrMalformedResponse), "malformed"},
		{"not found", models.ErrNotFound, "not_found"},
		{"timeout", fmt.Errorf("x: %w", context.DeadlineExceeded), "timeout"},
		{"canceled", context.Canceled, "canceled"},
		{"other", errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorType(tt.err); got != tt.want {
				t.Errorf("ErrorType() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRecordFeatureCache(t *testing.T) {
	hits := testutil.ToFloat64(FeatureCacheHits)
	misses := testutil.ToFloat64(FeatureCacheMisses)

	RecordFeatureCache(true)
	RecordFeatureCache(false)
	RecordFeatureCache(false)

	if got := testutil.ToFloat64(FeatureCacheHits) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(FeatureCacheMisses) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestRecordFeatureExtraction(t *testing.T) {
	before := testutil.ToFloat64(FeatureDefaultsApplied.WithLabelValues("visual"))

	RecordFeatureExtraction("visual", time.Millisecond, false)
	RecordFeatureExtraction("visual", time.Millisecond, true)

	if got := testutil.ToFloat64(FeatureDefaultsApplied.WithLabelValues("visual")) - before; got != 1 {
		t.Errorf("defaults delta = %v, want 1", got)
	}
}

func TestRecordIngest(t *testing.T) {
	processed := testutil.ToFloat64(IngestMessagesProcessed)
	rejected := testutil.ToFloat64(IngestMessagesRejected.WithLabelValues("parse"))

	RecordIngest(time.Millisecond, "")
	RecordIngest(time.Millisecond, "parse")

	if got := testutil.ToFloat64(IngestMessagesProcessed) - processed; got != 1 {
		t.Errorf("processed delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(IngestMessagesRejected.WithLabelValues("parse")) - rejected; got != 1 {
		t.Errorf("rejected delta = %v, want 1", got)
	}
}

func TestRecordChain(t *testing.T) {
	before := testutil.ToFloat64(ChainTransitions.WithLabelValues("EMBED", "FALLBACK_RECENT"))

	RecordChainTransition("EMBED", "FALLBACK_RECENT")
	RecordChainStage("EMBED", 3*time.Millisecond)
	RecordSimilarityRequest("embedding", "degraded", 10*time.Millisecond)

	if got := testutil.ToFloat64(ChainTransitions.WithLabelValues("EMBED", "FALLBACK_RECENT")) - before; got != 1 {
		t.Errorf("transition delta = %v, want 1", got)
	}
}

// TestTrackActiveRequest_RequestLifecycle verifies the gauge returns to its starting value
func TestTrackActiveRequest_RequestLifecycle(t *testing.T) {
	start := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != start {
		t.Errorf("active requests = %v, want %v", got, start)
	}
}

// TestConcurrentMetricRecording tests thread safety of metric recording
func TestConcurrentMetricRecording(t *testing.T) {
	var wg sync.WaitGroup
	numGoroutines := 50
	operationsPerGoroutine := 50

	wg.Add(numGoroutines * 3)
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordDBQuery("duckdb", "recent", time.Duration(j)*time.Millisecond, nil)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordAPIRequest("GET", "/api/v1/items/{id}/similar", "200", time.Duration(j)*time.Millisecond)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < operationsPerGoroutine; j++ {
				RecordFeatureCache(j%2 == 0)
			}
		}()
	}
	wg.Wait()
}

func TestMetricsRegistration(t *testing.T) {
	collectors := []prometheus.Collector{
		DBQueryDuration,
		DBQueryErrors,
		APIRequestsTotal,
		APIRequestDuration,
		APIActiveRequests,
		APIRateLimitHits,
		FeatureExtractionDuration,
		FeatureDefaultsApplied,
		FeatureCacheHits,
		FeatureCacheMisses,
		FeatureCacheSize,
		SimilarityRequests,
		SimilarityDuration,
		ChainTransitions,
		ChainStageDuration,
		EmbeddingRequestDuration,
		EmbeddingErrors,
		CircuitBreakerState,
		CircuitBreakerRequests,
		CircuitBreakerTransitions,
		IngestMessagesConsumed,
		IngestMessagesProcessed,
		IngestMessagesRejected,
		IngestProcessingDuration,
		LocalCacheEntries,
		LocalCacheGCRuns,
		AppInfo,
		AppUptime,
	}

	for _, m := range collectors {
		ch := make(chan *prometheus.Desc, 10)
		m.Describe(ch)
		close(ch)

		count := 0
		for range ch {
			count++
		}
		if count == 0 {
			t.Errorf("Metric has no descriptors")
		}
	}
}

func BenchmarkRecordDBQuery(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordDBQuery("duckdb", "search", 10*time.Millisecond, nil)
	}
}

func BenchmarkRecordAPIRequest(b *testing.B) {
	for i := 0; i < b.N; i++ {
		RecordAPIRequest("GET", "/api/v1/items/{id}/similar", "200", 25*time.Millisecond)
	}
}
