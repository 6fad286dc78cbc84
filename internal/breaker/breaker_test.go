// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package breaker

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

var errRemote = fmt.Errorf("status 503: %w", models.ErrServiceUnavailable)

func TestBreaker_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	b := New[int](Config{Name: "test-opens", FailureThreshold: 3, Timeout: time.Hour})

	for i := 0; i < 3; i++ {
		if _, err := b.Execute(func() (int, error) { return 0, errRemote }); !errors.Is(err, errRemote) {
			t.Fatalf("call %d: error = %v, want the remote error", i, err)
		}
	}
	if got := b.State(); got != "open" {
		t.Fatalf("State() = %q, want open", got)
	}

	calls := 0
	_, err := b.Execute(func() (int, error) {
		calls++
		return 1, nil
	})
	if !errors.Is(err, models.ErrServiceUnavailable) {
		t.Errorf("open breaker error = %v, want ErrServiceUnavailable", err)
	}
	if calls != 0 {
		t.Errorf("fn called %d times while open, want 0", calls)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("state gauge = %v, want 2", got)
	}
}

func TestBreaker_IgnoredErrorsDoNotTrip(t *testing.T) {
	t.Parallel()

	b := New[int](Config{Name: "test-ignored", FailureThreshold: 2, Timeout: time.Hour})

	ignored := []error{
		fmt.Errorf("item x: %w", models.ErrNotFound),
		fmt.Errorf("bad: %w", models.ErrInvalidItem),
		context.Canceled,
	}
	for _, e := range ignored {
		for i := 0; i < 3; i++ {
			_, _ = b.Execute(func() (int, error) { return 0, e })
		}
	}
	if got := b.State(); got != "closed" {
		t.Errorf("State() = %q, want closed", got)
	}
}

func TestBreaker_SuccessPassesThrough(t *testing.T) {
	t.Parallel()

	b := New[[]float32](Config{Name: "test-success"})
	before := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-success", "success"))

	got, err := b.Execute(func() ([]float32, error) { return []float32{1, 2}, nil })
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("result = %v", got)
	}
	if after := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-success", "success")); after != before+1 {
		t.Errorf("success counter = %v, want %v", after, before+1)
	}
	if b.Name() != "test-success" {
		t.Errorf("Name() = %q", b.Name())
	}
}

func TestIsSuccessful(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want bool
	}{
		{nil, true},
		{models.ErrNotFound, true},
		{context.Canceled, true},
		{errRemote, false},
		{context.DeadlineExceeded, false},
		{models.ErrMalformedResponse, false},
	}
	for _, tt := range tests {
		if got := IsSuccessful(tt.err); got != tt.want {
			t.Errorf("IsSuccessful(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig("x")
	if cfg.Name != "x" || cfg.FailureThreshold == 0 || cfg.Timeout <= 0 || cfg.MaxRequests == 0 {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
}
