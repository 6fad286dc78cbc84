// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package similarity

import (
	"math"

	"github.com/tomtom215/moodboard/internal/features"
	"github.com/tomtom215/moodboard/internal/models"
)

// scorePrecision rounds scores so that float noise cannot push a perfect
// match below 1.
const scorePrecision = 1e9

// MatchType labels the dimension that contributed most to a match.
type MatchType string

// Match types, in tie-break order.
const (
	MatchVisual   MatchType = "visual"
	MatchColor    MatchType = "color"
	MatchSemantic MatchType = "semantic"
	MatchStyle    MatchType = "style"
	MatchThematic MatchType = "thematic"
	MatchMixed    MatchType = "mixed"
)

// MatchTypes lists every match type in canonical order.
var MatchTypes = []MatchType{MatchVisual, MatchColor, MatchSemantic, MatchStyle, MatchThematic, MatchMixed}

// MatchTypeFor maps a dimension to its match label.
func MatchTypeFor(d features.Dimension) MatchType {
	switch d {
	case features.DimensionVisual:
		return MatchVisual
	case features.DimensionColor:
		return MatchColor
	case features.DimensionSemantic:
		return MatchSemantic
	case features.DimensionStyle:
		return MatchStyle
	case features.DimensionContent:
		return MatchThematic
	default:
		return MatchMixed
	}
}

// Factors holds the per-dimension similarity, each in [0, 1].
type Factors struct {
	Visual     float64 `json:"visual"`
	Color      float64 `json:"color"`
	Semantic   float64 `json:"semantic"`
	Style      float64 `json:"style"`
	Content    float64 `json:"content"`
	Contextual float64 `json:"contextual"`
}

// Get returns the factor for d.
func (f Factors) Get(d features.Dimension) float64 {
	return Weights(f).Get(d)
}

// Match is the result of scoring one pair.
type Match struct {
	Score     float64   `json:"score"`
	Factors   Factors   `json:"factors"`
	MatchType MatchType `json:"match_type"`
}

// Scorer computes weighted similarity between bundles. The zero value is not
// usable; create one with NewScorer.
type Scorer struct {
	weights Weights
	boost   float64
	limit   float64
}

// NewScorer creates a scorer. Invalid weights fall back to DefaultWeights and
// non-positive emphasis settings to their defaults.
func NewScorer(w Weights, boost, limit float64) *Scorer {
	if w.Validate() != nil {
		w = DefaultWeights()
	}
	if boost <= 0 {
		boost = DefaultEmphasisBoost
	}
	if limit <= 0 || limit > 1 {
		limit = DefaultEmphasisCap
	}
	return &Scorer{weights: w, boost: boost, limit: limit}
}

// DefaultScorer returns a scorer with default weights and emphasis.
func DefaultScorer() *Scorer {
	return NewScorer(DefaultWeights(), DefaultEmphasisBoost, DefaultEmphasisCap)
}

// Weights returns the effective weights for an optional emphasized
// dimension. An empty dimension means no emphasis.
func (s *Scorer) Weights(emphasize features.Dimension) Weights {
	if emphasize == "" {
		return s.weights
	}
	return s.weights.Emphasize(emphasize, s.boost, s.limit)
}

// Score compares a and b. Score(a, b, d) == Score(b, a, d) for all inputs.
//
//nolint:gocritic // bundles are read-only values
func (s *Scorer) Score(a, b features.Bundle, emphasize features.Dimension) Match {
	f := Factors{
		Visual:     visualSimilarity(a.Visual, b.Visual),
		Color:      colorSimilarity(a.Color, b.Color),
		Semantic:   semanticSimilarity(a.Semantic, b.Semantic),
		Style:      styleSimilarity(a.Style, b.Style),
		Content:    contentSimilarity(a.Content, b.Content),
		Contextual: contextualSimilarity(a.Contextual, b.Contextual),
	}

	w := s.Weights(emphasize)
	var total float64
	for _, d := range features.Dimensions {
		total += w.Get(d) * f.Get(d)
	}
	total = math.Round(total*scorePrecision) / scorePrecision

	return Match{
		Score:     clamp01(total),
		Factors:   f,
		MatchType: dominantType(f),
	}
}

// dominantType returns the label of the highest factor; the first dimension
// in canonical order wins ties.
func dominantType(f Factors) MatchType {
	best := features.Dimensions[0]
	for _, d := range features.Dimensions[1:] {
		if f.Get(d) > f.Get(best) {
			best = d
		}
	}
	return MatchTypeFor(best)
}

func visualSimilarity(a, b features.ImageFeatures) float64 {
	return mean(
		numeric(a.Brightness, b.Brightness),
		numeric(a.Contrast, b.Contrast),
		numeric(a.Saturation, b.Saturation),
		numeric(a.EdgeDensity, b.EdgeDensity),
		numeric(a.TextureComplexity, b.TextureComplexity),
		categorical(a.Composition, b.Composition, models.CompositionBalanced),
		numeric(a.SpatialBalance, b.SpatialBalance),
	)
}

func colorSimilarity(a, b features.ColorPalette) float64 {
	return mean(
		categorical(a.Harmony, b.Harmony, ""),
		numeric(a.Temperature, b.Temperature),
		numeric(a.Vibrancy, b.Vibrancy),
		numeric(a.Contrast, b.Contrast),
	)
}

func semanticSimilarity(a, b features.SemanticFeatures) float64 {
	return mean(
		jaccard(a.Tags, b.Tags),
		categorical(a.Category, b.Category, "unknown"),
		jaccard(a.Concepts, b.Concepts),
		jaccard(a.Themes, b.Themes),
		categorical(a.Intent, b.Intent, features.DefaultIntent),
	)
}

func styleSimilarity(a, b features.StyleFeatures) float64 {
	return mean(
		categorical(a.Composition, b.Composition, models.CompositionBalanced),
		categorical(a.ColorTone, b.ColorTone, models.ToneNeutral),
		categorical(a.Shapes, b.Shapes, models.ShapesMixed),
		categorical(a.Mood, b.Mood, ""),
		categorical(a.DesignApproach, b.DesignApproach, ""),
		categorical(a.AestheticStyle, b.AestheticStyle, ""),
	)
}

func contentSimilarity(a, b features.ContentFeatures) float64 {
	return mean(
		numeric(a.TitleSentiment, b.TitleSentiment),
		categorical(a.AuthorStyle, b.AuthorStyle, features.AuthorUnknown),
		categorical(a.ContentType, b.ContentType, features.DefaultContentType),
		numeric(a.Complexity, b.Complexity),
	)
}

func contextualSimilarity(a, b features.ContextualFeatures) float64 {
	return mean(
		categorical(a.SourcePlatform, b.SourcePlatform, features.UnknownPlatform),
		numeric(a.Recency, b.Recency),
		numeric(a.Popularity, b.Popularity),
	)
}

func numeric(a, b float64) float64 {
	return 1 - math.Abs(clamp01(a)-clamp01(b))
}

// categorical compares two labels. A mismatch where either side is the
// neutral value scores 0.5 instead of 0.
func categorical(a, b, neutral string) float64 {
	switch {
	case a == b:
		return 1
	case neutral != "" && (a == neutral || b == neutral):
		return 0.5
	default:
		return 0
	}
}

// jaccard returns |a ∩ b| / |a ∪ b|; two empty sets are identical.
func jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1
	}
	set := make(map[string]struct{}, len(a))
	for _, x := range a {
		set[x] = struct{}{}
	}
	var inter int
	union := len(set)
	seen := make(map[string]struct{}, len(b))
	for _, x := range b {
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		if _, ok := set[x]; ok {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

func mean(vals ...float64) float64 {
	var s float64
	for _, v := range vals {
		s += v
	}
	return s / float64(len(vals))
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
