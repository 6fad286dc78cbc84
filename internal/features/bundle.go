// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import "math"

// Bundle holds every feature dimension for one item. Slices inside a Bundle
// may be shared with the feature cache and must be treated as read-only.
type Bundle struct {
	ItemID     string             `json:"item_id"`
	Visual     ImageFeatures      `json:"visual"`
	Color      ColorPalette       `json:"color"`
	Semantic   SemanticFeatures   `json:"semantic"`
	Content    ContentFeatures    `json:"content"`
	Style      StyleFeatures      `json:"style"`
	Contextual ContextualFeatures `json:"contextual"`

	// Defaulted lists dimensions that fell back to neutral defaults.
	Defaulted []Dimension `json:"defaulted,omitempty"`
}

// IsDefaulted reports whether d was substituted with defaults.
func (b *Bundle) IsDefaulted(d Dimension) bool {
	for _, x := range b.Defaulted {
		if x == d {
			return true
		}
	}
	return false
}

// ImageFeatures are pixel-level statistics of the item's image.
type ImageFeatures struct {
	Brightness        float64  `json:"brightness"`
	Contrast          float64  `json:"contrast"`
	Saturation        float64  `json:"saturation"`
	EdgeDensity       float64  `json:"edge_density"`
	TextureComplexity float64  `json:"texture_complexity"`
	Composition       string   `json:"composition"`
	DominantShapes    []string `json:"dominant_shapes"`
	SpatialBalance    float64  `json:"spatial_balance"`
}

// DefaultImageFeatures returns the mid-range values substituted when an
// image cannot be analyzed.
func DefaultImageFeatures() ImageFeatures {
	return ImageFeatures{
		Brightness:        0.5,
		Contrast:          0.5,
		Saturation:        0.5,
		EdgeDensity:       0.5,
		TextureComplexity: 0.5,
		Composition:       "balanced",
		DominantShapes:    []string{"mixed"},
		SpatialBalance:    0.5,
	}
}

// ColorPalette summarizes an item's colors.
type ColorPalette struct {
	Dominant     []string  `json:"dominant"`
	Harmony      string    `json:"harmony"`
	Temperature  float64   `json:"temperature"` // 0 cool, 0.5 neutral, 1 warm
	Vibrancy     float64   `json:"vibrancy"`
	Distribution []float64 `json:"distribution"`
	Contrast     float64   `json:"contrast"` // mean pairwise WCAG ratio mapped to [0,1]
}

// Harmony values.
const (
	HarmonyMonochromatic = "monochromatic"
	HarmonyAnalogous     = "analogous"
	HarmonyComplementary = "complementary"
	HarmonyTriadic       = "triadic"
)

// DefaultColorPalette returns the neutral palette used when no colors are
// known and no image could be analyzed.
func DefaultColorPalette() ColorPalette {
	return ColorPalette{
		Harmony:     HarmonyAnalogous,
		Temperature: 0.5,
		Vibrancy:    0.5,
		Contrast:    0.5,
	}
}

// SemanticFeatures describe what an item is about.
type SemanticFeatures struct {
	Tags     []string `json:"tags"`
	Category string   `json:"category"`
	Concepts []string `json:"concepts"`
	Themes   []string `json:"themes"`
	Keywords []string `json:"keywords"`
	Intent   string   `json:"intent"`
}

// ContentFeatures describe the item's textual metadata.
type ContentFeatures struct {
	TitleSentiment    float64 `json:"title_sentiment"` // 0 negative, 0.5 neutral, 1 positive
	DescriptionLength float64 `json:"description_length"`
	TagDensity        float64 `json:"tag_density"`
	AuthorStyle       string  `json:"author_style"`
	ContentType       string  `json:"content_type"`
	Complexity        float64 `json:"complexity"`
}

// StyleFeatures describe the declared and derived look of an item.
type StyleFeatures struct {
	Composition    string `json:"composition"`
	ColorTone      string `json:"color_tone"`
	Shapes         string `json:"shapes"`
	Mood           string `json:"mood"`
	DesignApproach string `json:"design_approach"`
	AestheticStyle string `json:"aesthetic_style"`
}

// ContextualFeatures describe where an item came from and how it performs.
type ContextualFeatures struct {
	SourcePlatform string  `json:"source_platform"`
	Likes          int64   `json:"likes"`
	Recency        float64 `json:"recency"`
	Popularity     float64 `json:"popularity"`
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
