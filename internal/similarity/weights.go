// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package similarity

import (
	"fmt"
	"math"

	"github.com/tomtom215/moodboard/internal/features"
)

// Emphasis defaults.
const (
	DefaultEmphasisBoost = 0.15
	DefaultEmphasisCap   = 0.40
)

// weightTolerance bounds float error when checking that weights sum to 1.
const weightTolerance = 1e-9

// Weights assigns a share of the overall score to each dimension.
type Weights struct {
	Visual     float64 `json:"visual" koanf:"visual"`
	Color      float64 `json:"color" koanf:"color"`
	Semantic   float64 `json:"semantic" koanf:"semantic"`
	Style      float64 `json:"style" koanf:"style"`
	Content    float64 `json:"content" koanf:"content"`
	Contextual float64 `json:"contextual" koanf:"contextual"`
}

// DefaultWeights returns the standard dimension weights.
func DefaultWeights() Weights {
	return Weights{
		Visual:     0.25,
		Color:      0.20,
		Semantic:   0.20,
		Style:      0.15,
		Content:    0.12,
		Contextual: 0.08,
	}
}

// Get returns the weight of d.
func (w Weights) Get(d features.Dimension) float64 {
	switch d {
	case features.DimensionVisual:
		return w.Visual
	case features.DimensionColor:
		return w.Color
	case features.DimensionSemantic:
		return w.Semantic
	case features.DimensionStyle:
		return w.Style
	case features.DimensionContent:
		return w.Content
	case features.DimensionContextual:
		return w.Contextual
	default:
		return 0
	}
}

func (w *Weights) set(d features.Dimension, v float64) {
	switch d {
	case features.DimensionVisual:
		w.Visual = v
	case features.DimensionColor:
		w.Color = v
	case features.DimensionSemantic:
		w.Semantic = v
	case features.DimensionStyle:
		w.Style = v
	case features.DimensionContent:
		w.Content = v
	case features.DimensionContextual:
		w.Contextual = v
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Visual + w.Color + w.Semantic + w.Style + w.Content + w.Contextual
}

// Validate checks that every weight is in [0, 1] and that they sum to 1.
func (w Weights) Validate() error {
	for _, d := range features.Dimensions {
		if v := w.Get(d); v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("weight %s must be in [0, 1], got %v", d, v)
		}
	}
	if s := w.Sum(); math.Abs(s-1) > weightTolerance {
		return fmt.Errorf("weights must sum to 1, got %v", s)
	}
	return nil
}

// Emphasize returns weights with d boosted by boost, capped at limit. The
// remaining share is split evenly across the other five dimensions, so the
// result still sums to 1. An unknown dimension returns w unchanged.
func (w Weights) Emphasize(d features.Dimension, boost, limit float64) Weights {
	if _, ok := features.ParseDimension(string(d)); !ok {
		return w
	}
	boosted := math.Min(w.Get(d)+boost, limit)
	rest := (1 - boosted) / float64(len(features.Dimensions)-1)

	var out Weights
	for _, other := range features.Dimensions {
		if other == d {
			out.set(other, boosted)
		} else {
			out.set(other, rest)
		}
	}
	return out
}
