// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package breaker wraps sony/gobreaker with the service's error taxonomy and
// metrics. An open breaker surfaces as models.ErrServiceUnavailable so that
// callers handle it like any other outage.
package breaker

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// Config holds circuit breaker settings.
type Config struct {
	// Name labels logs and metrics.
	Name string `koanf:"-"`

	// MaxRequests is the number of trial requests allowed while half-open.
	MaxRequests uint32 `koanf:"max_requests"`

	// Interval resets the failure counts while closed. Zero never resets.
	Interval time.Duration `koanf:"interval"`

	// Timeout is how long the breaker stays open before going half-open.
	Timeout time.Duration `koanf:"timeout"`

	// FailureThreshold is the number of consecutive failures that opens the breaker.
	FailureThreshold uint32 `koanf:"failure_threshold"`
}

// DefaultConfig returns the default settings for a breaker named name.
func DefaultConfig(name string) Config {
	return Config{
		Name:             name,
		MaxRequests:      3,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 5,
	}
}

// Breaker protects calls returning T.
type Breaker[T any] struct {
	cb   *gobreaker.CircuitBreaker[T]
	name string
}

// New creates a breaker. Zero fields fall back to DefaultConfig.
func New[T any](cfg Config) *Breaker[T] {
	def := DefaultConfig(cfg.Name)
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[T](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := stateToString(from), stateToString(to)
			logging.Info().
				Str("breaker", name).
				Str("from", fromStr).
				Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
		IsSuccessful: IsSuccessful,
	})

	return &Breaker[T]{cb: cb, name: cfg.Name}
}

// IsSuccessful reports whether err should leave the breaker's failure count
// untouched. Missing items and caller cancellation say nothing about the
// health of the remote side.
func IsSuccessful(err error) bool {
	return err == nil ||
		errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidItem) ||
		errors.Is(err, context.Canceled)
}

// Execute runs fn under breaker protection. A rejected call returns an error
// wrapping models.ErrServiceUnavailable.
func (b *Breaker[T]) Execute(fn func() (T, error)) (T, error) {
	result, err := b.cb.Execute(fn)
	if err == nil {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		return result, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		var zero T
		return zero, fmt.Errorf("%s: %w: %w", b.name, models.ErrServiceUnavailable, err)
	}

	metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
	return result, err
}

// State returns the breaker state as "closed", "half-open" or "open".
func (b *Breaker[T]) State() string {
	return stateToString(b.cb.State())
}

// Name returns the breaker name.
func (b *Breaker[T]) Name() string {
	return b.name
}

// stateToFloat converts circuit breaker state to numeric value for metrics
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// stateToString converts circuit breaker state to string for logging
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
