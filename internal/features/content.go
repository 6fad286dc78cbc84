// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"strings"

	"github.com/tomtom215/moodboard/internal/models"
)

// Normalization scales for content features.
const (
	descriptionScale = 500.0 // characters
	tagDensityScale  = 10.0  // tags
	titleWordScale   = 12.0  // words
)

// Author style values.
const (
	AuthorStudio       = "studio"
	AuthorPhotographer = "photographer"
	AuthorArtist       = "artist"
	AuthorIndividual   = "individual"
	AuthorUnknown      = "unknown"
)

// DefaultContentType is used when no tag signals a content type.
const DefaultContentType = "graphic"

var contentTypeLexicon = newLexicon([]group{
	{"photography", []string{"photo", "photography", "camera", "film"}},
	{"illustration", []string{"illustration", "drawing", "painting", "sketch", "artwork"}},
	{"typography", []string{"typography", "lettering", "font", "poster"}},
	{"interface", []string{"ui", "ux", "web", "app", "interface", "dashboard"}},
	{"3d", []string{"3d", "render", "blender", "cgi"}},
	{"branding", []string{"logo", "brand", "identity", "packaging"}},
})

var authorLexicon = newLexicon([]group{
	{AuthorStudio, []string{"studio", "design", "agency", "collective", "labs"}},
	{AuthorPhotographer, []string{"photo", "camera", "lens", "shots"}},
	{AuthorArtist, []string{"artist", "artwork", "illustr", "draw", "paint", "ink"}},
})

var positiveWords = map[string]struct{}{
	"beautiful": {}, "bright": {}, "calm": {}, "clean": {}, "cozy": {}, "elegant": {},
	"fresh": {}, "fun": {}, "gorgeous": {}, "happy": {}, "joy": {}, "love": {},
	"lovely": {}, "peaceful": {}, "playful": {}, "serene": {}, "stunning": {},
	"sunny": {}, "vibrant": {}, "warm": {}, "wonderful": {}, "inspiring": {},
}

var negativeWords = map[string]struct{}{
	"angry": {}, "bleak": {}, "broken": {}, "cold": {}, "dark": {}, "dead": {},
	"decay": {}, "fear": {}, "gloomy": {}, "grim": {}, "lonely": {}, "lost": {},
	"sad": {}, "storm": {}, "ugly": {}, "war": {}, "abandoned": {}, "ruin": {},
}

// ExtractContent derives features from the item's textual metadata.
func ExtractContent(item *models.ContentItem) ContentFeatures {
	descLen := clamp01(float64(len([]rune(item.Description))) / descriptionScale)
	tagDensity := clamp01(float64(len(item.Tags)) / tagDensityScale)
	titleWords := clamp01(float64(len(tokens(item.Title))) / titleWordScale)

	return ContentFeatures{
		TitleSentiment:    sentiment(item.Title + " " + item.Description),
		DescriptionLength: descLen,
		TagDensity:        tagDensity,
		AuthorStyle:       authorStyle(item.Author),
		ContentType:       contentTypeLexicon.first(normalizeText(strings.Join(item.Tags, " ")+" "+item.Category), DefaultContentType),
		Complexity:        (descLen + tagDensity + titleWords) / 3,
	}
}

// sentiment scores text from 0 (negative) to 1 (positive); text without
// sentiment words scores 0.5.
func sentiment(text string) float64 {
	var pos, neg int
	for _, t := range tokens(text) {
		if _, ok := positiveWords[t]; ok {
			pos++
		}
		if _, ok := negativeWords[t]; ok {
			neg++
		}
	}
	if pos+neg == 0 {
		return 0.5
	}
	return clamp01(0.5 + 0.5*float64(pos-neg)/float64(pos+neg))
}

func authorStyle(author string) string {
	a := normalizeText(author)
	if a == "" || a == strings.ToLower(models.DefaultAuthor) {
		return AuthorUnknown
	}
	return authorLexicon.first(a, AuthorIndividual)
}
