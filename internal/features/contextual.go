// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"math"
	"time"

	"github.com/tomtom215/moodboard/internal/models"
)

const (
	// recencyHorizon is the age at which recency reaches zero.
	recencyHorizon = 365 * 24 * time.Hour

	// popularityCeiling is the like count at which popularity saturates.
	popularityCeiling = 1000
)

// UnknownPlatform is used when an item has no platform and no source URL.
const UnknownPlatform = "unknown"

// ExtractContextual derives source and engagement features relative to now.
func ExtractContextual(item *models.ContentItem, now time.Time) ContextualFeatures {
	platform := item.Platform
	if platform == "" {
		platform = UnknownPlatform
	}
	return ContextualFeatures{
		SourcePlatform: platform,
		Likes:          item.Likes,
		Recency:        Recency(item.CreatedAt, now),
		Popularity:     Popularity(item.Likes),
	}
}

// Recency is max(0, 1 - age/365d). Items from the future and items without a
// timestamp are handled as fresh and stale respectively.
func Recency(createdAt, now time.Time) float64 {
	if createdAt.IsZero() {
		return 0
	}
	age := now.Sub(createdAt)
	return clamp01(1 - float64(age)/float64(recencyHorizon))
}

// Popularity is min(1, log(likes+1)/log(1000)).
func Popularity(likes int64) float64 {
	if likes <= 0 {
		return 0
	}
	return clamp01(math.Log(float64(likes)+1) / math.Log(popularityCeiling))
}
