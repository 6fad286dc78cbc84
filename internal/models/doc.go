// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package models defines data structures shared across Moodboard.

Key Components:

  - ContentItem: A piece of visual content (image plus metadata) as stored
    in the vector datastore and the local cache
  - VisualStyle: Closed enumerations describing an item's look
  - Neighbor: A datastore hit carrying the raw embedding similarity
  - APIResponse: Standardized API response wrapper
  - Error taxonomy: sentinel errors used across service boundaries

ContentItem values are normalized on ingestion (see Normalize) so that every
downstream consumer can rely on non-empty titles, authors and categories and
on lowercase, de-duplicated tags.

Thread Safety:

All types in this package are plain values. They are safe to share between
goroutines as long as callers do not mutate slices in place.
*/
package models
