// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package recommend

import (
	"fmt"
	"time"

	"github.com/tomtom215/moodboard/internal/similarity"
)

// Config contains all configuration for the similarity engine.
type Config struct {
	// Weights are the default per-dimension weights of the heuristic path.
	Weights similarity.Weights `json:"weights"`

	// EmphasisBoost is added to an emphasized dimension's weight.
	EmphasisBoost float64 `json:"emphasis_boost"`

	// EmphasisCap bounds an emphasized dimension's weight.
	EmphasisCap float64 `json:"emphasis_cap"`

	// Diversity contains parameters for reranking.
	Diversity DiversityConfig `json:"diversity"`

	// Limits contains operational limits.
	Limits LimitsConfig `json:"limits"`

	// Timeouts bound each call to an external collaborator.
	Timeouts TimeoutConfig `json:"timeouts"`
}

// DiversityConfig contains parameters for reranking.
type DiversityConfig struct {
	// Enabled registers the match-type diversifier on the feature path.
	Enabled bool `json:"enabled"`

	// MMRLambda balances relevance and tag diversity on the embedding path.
	// 1.0 keeps the datastore order unchanged.
	MMRLambda float64 `json:"mmr_lambda"`
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request does not set one.
	DefaultLimit int `json:"default_limit"`

	// MaxLimit caps any requested limit.
	MaxLimit int `json:"max_limit"`

	// OverFetch multiplies the limit when querying the datastore so that
	// deduplication losses still leave enough items.
	OverFetch int `json:"over_fetch"`

	// MaxCandidates caps the heuristic candidate pool.
	MaxCandidates int `json:"max_candidates"`
}

// TimeoutConfig bounds external calls.
type TimeoutConfig struct {
	Embedding time.Duration `json:"embedding"`
	Datastore time.Duration `json:"datastore"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Weights:       similarity.DefaultWeights(),
		EmphasisBoost: similarity.DefaultEmphasisBoost,
		EmphasisCap:   similarity.DefaultEmphasisCap,
		Diversity: DiversityConfig{
			Enabled:   true,
			MMRLambda: 1.0,
		},
		Limits: LimitsConfig{
			DefaultLimit:  20,
			MaxLimit:      100,
			OverFetch:     2,
			MaxCandidates: 500,
		},
		Timeouts: TimeoutConfig{
			Embedding: 10 * time.Second,
			Datastore: 5 * time.Second,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.Weights.Validate(); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if c.EmphasisBoost < 0 || c.EmphasisBoost > 1 {
		return fmt.Errorf("emphasis_boost must be in [0, 1], got %f", c.EmphasisBoost)
	}
	if c.EmphasisCap < 0 || c.EmphasisCap > 1 {
		return fmt.Errorf("emphasis_cap must be in [0, 1], got %f", c.EmphasisCap)
	}

	if c.Diversity.MMRLambda < 0 || c.Diversity.MMRLambda > 1 {
		return fmt.Errorf("diversity.mmr_lambda must be in [0, 1], got %f", c.Diversity.MMRLambda)
	}

	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.OverFetch < 1 {
		return fmt.Errorf("limits.over_fetch must be positive, got %d", c.Limits.OverFetch)
	}
	if c.Limits.MaxCandidates < 1 {
		return fmt.Errorf("limits.max_candidates must be positive, got %d", c.Limits.MaxCandidates)
	}

	if c.Timeouts.Embedding <= 0 {
		return fmt.Errorf("timeouts.embedding must be positive, got %v", c.Timeouts.Embedding)
	}
	if c.Timeouts.Datastore <= 0 {
		return fmt.Errorf("timeouts.datastore must be positive, got %v", c.Timeouts.Datastore)
	}

	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
