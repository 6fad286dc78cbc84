// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"strings"

	"github.com/tomtom215/moodboard/internal/models"
)

// DefaultIntent is used when no intent signal is present.
const DefaultIntent = "inspiration"

var conceptLexicon = newLexicon([]group{
	{"minimalism", []string{"minimal", "clean", "simple", "whitespace", "sparse", "flat"}},
	{"maximalism", []string{"maximal", "busy", "ornate", "pattern", "layered"}},
	{"nature", []string{"nature", "forest", "mountain", "ocean", "flower", "floral", "botanical", "landscape", "plant", "leaf"}},
	{"urban", []string{"city", "urban", "street", "architecture", "building", "skyline"}},
	{"vintage", []string{"vintage", "retro", "classic", "nostalgic", "analog", "film"}},
	{"futuristic", []string{"futuristic", "cyber", "neon", "sci fi", "space", "tech"}},
	{"abstract", []string{"abstract", "geometric", "shape", "gradient", "generative"}},
	{"portrait", []string{"portrait", "face", "person", "people", "fashion", "model"}},
	{"typography", []string{"typography", "type", "lettering", "font", "poster"}},
	{"interface", []string{"ui", "ux", "interface", "dashboard", "website", "app", "landing"}},
})

var themeLexicon = newLexicon([]group{
	{"calm", []string{"calm", "serene", "peaceful", "soft", "pastel", "quiet", "zen"}},
	{"energy", []string{"vibrant", "energetic", "dynamic", "bold", "bright", "loud"}},
	{"dark", []string{"dark", "moody", "noir", "night", "gothic", "shadow"}},
	{"warmth", []string{"warm", "sunset", "autumn", "golden", "cozy", "summer"}},
	{"cool", []string{"cool", "winter", "ice", "blue", "frost"}},
	{"playful", []string{"playful", "fun", "cute", "whimsical", "colorful", "kids"}},
	{"luxury", []string{"luxury", "elegant", "premium", "gold", "marble"}},
})

var intentLexicon = newLexicon([]group{
	{"tutorial", []string{"tutorial", "how to", "guide", "tips", "process", "step"}},
	{"product", []string{"product", "shop", "sale", "brand", "packaging", "mockup"}},
	{"portfolio", []string{"portfolio", "case study", "project", "showcase"}},
	{"art", []string{"art", "illustration", "painting", "drawing", "sketch"}},
	{"photography", []string{"photo", "photography", "camera", "shot"}},
})

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "the": {}, "of": {}, "in": {}, "on": {}, "for": {},
	"with": {}, "to": {}, "by": {}, "at": {}, "from": {}, "is": {}, "are": {}, "my": {},
	"our": {}, "your": {}, "this": {}, "that": {}, "untitled": {},
}

// ExtractSemantic derives semantic features from tags, title and category.
func ExtractSemantic(item *models.ContentItem) SemanticFeatures {
	text := normalizeText(item.Title + " " + strings.Join(item.Tags, " ") + " " + item.Category)

	return SemanticFeatures{
		Tags:     item.Tags,
		Category: strings.ToLower(strings.TrimSpace(item.Category)),
		Concepts: conceptLexicon.match(text),
		Themes:   themeLexicon.match(text),
		Keywords: keywords(item.Title),
		Intent:   intentLexicon.first(text, DefaultIntent),
	}
}

// keywords returns the title's distinct non-stopword tokens of three or more
// characters, in order of appearance.
func keywords(title string) []string {
	toks := tokens(title)
	out := make([]string, 0, len(toks))
	seen := make(map[string]struct{}, len(toks))
	for _, t := range toks {
		if len(t) < 3 {
			continue
		}
		if _, stop := stopwords[t]; stop {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
