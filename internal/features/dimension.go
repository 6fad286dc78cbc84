// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import "strings"

// Dimension names one of the six feature groups.
type Dimension string

// Feature dimensions, in canonical order.
const (
	DimensionVisual     Dimension = "visual"
	DimensionColor      Dimension = "color"
	DimensionSemantic   Dimension = "semantic"
	DimensionStyle      Dimension = "style"
	DimensionContent    Dimension = "content"
	DimensionContextual Dimension = "contextual"
)

// Dimensions lists every dimension in canonical order. Tie-breaks between
// dimensions follow this order.
var Dimensions = []Dimension{
	DimensionVisual,
	DimensionColor,
	DimensionSemantic,
	DimensionStyle,
	DimensionContent,
	DimensionContextual,
}

// ParseDimension parses a case-insensitive dimension name.
func ParseDimension(s string) (Dimension, bool) {
	d := Dimension(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Dimensions {
		if d == known {
			return d, true
		}
	}
	return "", false
}

func (d Dimension) String() string { return string(d) }
