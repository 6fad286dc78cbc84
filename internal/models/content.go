// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package models

import (
	"net/url"
	"slices"
	"strings"
	"time"
)

// Defaults applied by Normalize.
const (
	DefaultTitle    = "Untitled"
	DefaultAuthor   = "Unknown"
	DefaultCategory = "Unknown"
)

// Composition values.
const (
	CompositionCentered     = "centered"
	CompositionRuleOfThirds = "rule-of-thirds"
	CompositionBalanced     = "balanced"
	CompositionAsymmetric   = "asymmetric"
)

// ColorTone values.
const (
	ToneWarm    = "warm"
	ToneCool    = "cool"
	ToneNeutral = "neutral"
	ToneVibrant = "vibrant"
	ToneMuted   = "muted"
)

// Shapes values.
const (
	ShapesGeometric = "geometric"
	ShapesOrganic   = "organic"
	ShapesMixed     = "mixed"
)

// Mood values.
const (
	MoodCalm      = "calm"
	MoodEnergetic = "energetic"
	MoodDramatic  = "dramatic"
	MoodPlayful   = "playful"
	MoodElegant   = "elegant"
)

var (
	compositions = set(CompositionCentered, CompositionRuleOfThirds, CompositionBalanced, CompositionAsymmetric)
	colorTones   = set(ToneWarm, ToneCool, ToneNeutral, ToneVibrant, ToneMuted)
	shapeKinds   = set(ShapesGeometric, ShapesOrganic, ShapesMixed)
	moods        = set(MoodCalm, MoodEnergetic, MoodDramatic, MoodPlayful, MoodElegant)
)

// VisualStyle describes how an item looks. Each field is a closed enumeration;
// Normalize replaces unknown values with the neutral member.
type VisualStyle struct {
	Composition string `json:"composition"`
	ColorTone   string `json:"color_tone"`
	Shapes      string `json:"shapes"`
	Mood        string `json:"mood"`
}

// DefaultVisualStyle returns the neutral style used when an item carries none.
func DefaultVisualStyle() VisualStyle {
	return VisualStyle{
		Composition: CompositionBalanced,
		ColorTone:   ToneNeutral,
		Shapes:      ShapesMixed,
		Mood:        MoodCalm,
	}
}

// ContentItem is a single piece of visual content.
//
// Example JSON:
//
//	{
//	  "id": "a1b2c3",
//	  "image_url": "https://cdn.example.com/img/1.jpg",
//	  "source_url": "https://dribbble.com/shots/1",
//	  "title": "Soft pastel landing page",
//	  "author": "Studio North",
//	  "category": "web design",
//	  "tags": ["minimal", "pastel"],
//	  "colors": ["#f4e1d2", "#a8dadc"],
//	  "visual_style": {"composition": "centered", "color_tone": "muted", "shapes": "geometric", "mood": "calm"},
//	  "likes": 120,
//	  "created_at": "2026-01-02T15:04:05Z"
//	}
type ContentItem struct {
	ID          string            `json:"id" validate:"required"`
	ImageURL    string            `json:"image_url" validate:"required"`
	SourceURL   string            `json:"source_url,omitempty"`
	Title       string            `json:"title"`
	Author      string            `json:"author"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Platform    string            `json:"platform,omitempty"`
	Tags        []string          `json:"tags"`
	Colors      []string          `json:"colors"`
	VisualStyle VisualStyle       `json:"visual_style"`
	Likes       int64             `json:"likes" validate:"gte=0"`
	CreatedAt   time.Time         `json:"created_at"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Normalize fills defaults and canonicalizes free-form fields in place.
// Tags are lowercased, trimmed and de-duplicated preserving first occurrence.
// Colors are lowercased and trimmed. Unknown style values fall back to
// DefaultVisualStyle members.
func (c *ContentItem) Normalize() {
	c.ID = strings.TrimSpace(c.ID)
	c.ImageURL = strings.TrimSpace(c.ImageURL)
	c.SourceURL = strings.TrimSpace(c.SourceURL)

	c.Title = orDefault(c.Title, DefaultTitle)
	c.Author = orDefault(c.Author, DefaultAuthor)
	c.Category = orDefault(c.Category, DefaultCategory)
	c.Platform = strings.ToLower(strings.TrimSpace(c.Platform))
	if c.Platform == "" {
		c.Platform = platformFromURL(c.SourceURL)
	}

	c.Tags = normalizeList(c.Tags)
	c.Colors = normalizeList(c.Colors)

	def := DefaultVisualStyle()
	c.VisualStyle.Composition = oneOf(c.VisualStyle.Composition, compositions, def.Composition)
	c.VisualStyle.ColorTone = oneOf(c.VisualStyle.ColorTone, colorTones, def.ColorTone)
	c.VisualStyle.Shapes = oneOf(c.VisualStyle.Shapes, shapeKinds, def.Shapes)
	c.VisualStyle.Mood = oneOf(c.VisualStyle.Mood, moods, def.Mood)

	if c.Likes < 0 {
		c.Likes = 0
	}
	if !c.CreatedAt.IsZero() {
		c.CreatedAt = c.CreatedAt.UTC()
	}
}

// Clone returns a deep copy of the item.
func (c *ContentItem) Clone() ContentItem {
	out := *c
	out.Tags = slices.Clone(c.Tags)
	out.Colors = slices.Clone(c.Colors)
	if c.Metadata != nil {
		out.Metadata = make(map[string]string, len(c.Metadata))
		for k, v := range c.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Neighbor is a vector datastore hit. Similarity is the raw cosine
// similarity reported by the store, not a feature score.
type Neighbor struct {
	Item       ContentItem `json:"item"`
	Similarity float64     `json:"similarity"`
}

func orDefault(s, def string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	return s
}

func oneOf(v string, allowed map[string]struct{}, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if _, ok := allowed[v]; ok {
		return v
	}
	return def
}

func normalizeList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// platformFromURL derives a platform label from the source host,
// e.g. "https://www.dribbble.com/shots/1" -> "dribbble".
func platformFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	if i := strings.Index(host, "."); i > 0 {
		return host[:i]
	}
	return host
}

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}
