// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package localcache is the always-available item store consulted when the
// vector datastore cannot answer.
//
// Items are appended to BadgerDB under monotonically increasing sequence
// keys, so iteration order equals insertion order. A secondary id key points
// at the latest append for lookups by id. Nothing is ever updated in place.
//
// GCLoop reclaims value log space in the background; the supervisor runs it
// as a service.
package localcache
