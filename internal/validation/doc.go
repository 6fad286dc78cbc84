// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package validation wraps go-playground/validator v10 behind a shared,
// thread-safe validator instance.
//
// Besides the built-in tags it registers:
//
//   - dimension: a feature dimension name (visual, color, semantic, style,
//     content, contextual), case-insensitive
//   - finite: a float slice whose elements are all finite
//
// The same instance validates ingest events, HTTP query parameters and the
// loaded configuration:
//
//	type similarQuery struct {
//	    Limit     int    `validate:"min=1,max=100"`
//	    Emphasize string `validate:"omitempty,dimension"`
//	}
//
//	if verr := validation.ValidateStruct(&q); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    ...
//	}
package validation
