// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package features derives the six feature dimensions used for heuristic
// similarity: visual, color, semantic, style, content and contextual.
//
// # Dimensions
//
//   - Visual: pixel statistics of the decoded image (brightness, contrast,
//     saturation, edge density, texture, composition, spatial balance)
//   - Color: palette harmony, temperature, vibrancy and contrast, computed
//     from the item's declared colors or, when absent, from its pixels
//   - Semantic: tags, category, and concepts/themes/intent matched against
//     fixed lexicons
//   - Content: title sentiment, description length, tag density, author
//     style, content type and complexity
//   - Style: the declared visual style plus derived design approach and
//     aesthetic
//   - Contextual: source platform, recency and popularity
//
// All numeric features are normalized to [0, 1]. Categorical features draw
// from fixed vocabularies so equality comparisons are meaningful.
//
// # Failure Handling
//
// Only the visual dimension touches the network. When the image cannot be
// fetched or decoded the Extractor logs the DecodeError, records a metric and
// substitutes DefaultImageFeatures. Extraction itself never fails.
//
// # Caching
//
// Bundles are cached in an expiring LRU keyed by item ID plus a content hash
// so an item whose metadata changes is re-extracted.
package features
