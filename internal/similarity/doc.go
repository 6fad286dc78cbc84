// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package similarity scores pairs of feature bundles.
//
// Each of the six dimensions yields a factor in [0, 1] that is the plain
// average of its sub-similarities:
//
//   - continuous values: 1 - |a - b|
//   - sets: Jaccard index (two empty sets are identical)
//   - categorical values: 1 on match, 0 on mismatch, 0.5 when either side is
//     the neutral/unknown value
//
// The overall score is the weighted sum of the factors using Weights that sum
// to 1. Emphasizing a dimension boosts its weight and spreads the remainder
// evenly across the other five. Scores are symmetric, bounded to [0, 1], and
// an item compared with itself scores exactly 1.
//
// The match type names the highest-scoring factor; ties resolve in canonical
// dimension order.
package similarity
