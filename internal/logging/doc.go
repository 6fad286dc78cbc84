// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package logging provides the zerolog-based structured logger shared by
// every Moodboard component.
//
// JSON output is the default; console output is available for local runs.
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//
//	logging.Info().Str("item_id", id).Int("neighbors", n).Msg("Similar items served")
//	logging.Error().Err(err).Str("stage", "embedding").Msg("Stage failed")
//
// Components derive child loggers with a component field:
//
//	logger := logging.WithComponent("vectorstore")
//
// Request scoped logging reads correlation and request ids from the context:
//
//	ctx = logging.ContextWithRequestID(ctx, logging.GenerateRequestID())
//	logging.Ctx(ctx).Debug().Msg("Stage started")
//
// # Adapters
//
// Libraries that bring their own logging interface are bridged onto the same
// stream: NewSlogLogger for suture's sutureslog handler and
// NewWatermillAdapter for the ingest router and NATS subscriber.
package logging
