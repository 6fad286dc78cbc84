// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import "github.com/tomtom215/moodboard/internal/models"

// ExtractStyle copies the declared visual style and derives a design approach
// and an aesthetic label from it.
func ExtractStyle(item *models.ContentItem) StyleFeatures {
	vs := item.VisualStyle
	def := models.DefaultVisualStyle()
	if vs.Composition == "" {
		vs.Composition = def.Composition
	}
	if vs.ColorTone == "" {
		vs.ColorTone = def.ColorTone
	}
	if vs.Shapes == "" {
		vs.Shapes = def.Shapes
	}
	if vs.Mood == "" {
		vs.Mood = def.Mood
	}

	return StyleFeatures{
		Composition:    vs.Composition,
		ColorTone:      vs.ColorTone,
		Shapes:         vs.Shapes,
		Mood:           vs.Mood,
		DesignApproach: designApproach(vs),
		AestheticStyle: aesthetic(vs),
	}
}

func designApproach(vs models.VisualStyle) string {
	switch {
	case vs.Shapes == models.ShapesGeometric && vs.Composition == models.CompositionCentered:
		return "structured"
	case vs.Shapes == models.ShapesGeometric:
		return "systematic"
	case vs.Shapes == models.ShapesOrganic:
		return "expressive"
	case vs.Composition == models.CompositionBalanced:
		return "harmonious"
	default:
		return "eclectic"
	}
}

func aesthetic(vs models.VisualStyle) string {
	switch {
	case vs.ColorTone == models.ToneMuted && vs.Mood == models.MoodCalm:
		return "minimalist"
	case vs.ColorTone == models.ToneVibrant && (vs.Mood == models.MoodEnergetic || vs.Mood == models.MoodPlayful):
		return "bold"
	case vs.Mood == models.MoodDramatic:
		return "dramatic"
	case vs.Mood == models.MoodElegant:
		return "refined"
	case vs.ColorTone == models.ToneWarm:
		return "warm"
	case vs.ColorTone == models.ToneCool:
		return "cool"
	default:
		return "classic"
	}
}
