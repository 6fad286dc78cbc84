// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package embedding is the HTTP client for the external embedding service.
//
// The service accepts
//
//	POST <url>
//	{"image_url": "https://..."}
//
// and answers with one vector:
//
//	{"data": [[0.12, -0.03, ...]]}
//
// Dimensionality is opaque to this package. Calls go through a client-side
// rate limiter (golang.org/x/time/rate) and a circuit breaker; failures are
// classified with the sentinel errors of the models package so that the
// recommend engine can degrade instead of failing.
package embedding
