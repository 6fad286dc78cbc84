// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package models

import "errors"

// Error taxonomy shared by the embedding client, the datastores and the
// retrieval path. Boundary packages wrap these with %w so callers can match
// with errors.Is.
var (
	// ErrServiceUnavailable is returned when a remote dependency (embedding
	// service or vector datastore) is unreachable, times out, answers with a
	// non-2xx status, or its circuit breaker is open.
	ErrServiceUnavailable = errors.New("service unavailable")

	// ErrMalformedResponse is returned when a dependency answers successfully
	// but the payload is missing, empty or cannot be decoded.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrNotFound is returned when a referenced item does not exist.
	ErrNotFound = errors.New("item not found")

	// ErrInvalidItem is returned when an item fails validation on ingestion.
	ErrInvalidItem = errors.New("invalid content item")
)
