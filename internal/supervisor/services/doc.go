// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package services adapts moodboard components to suture.Service.

Each wrapper turns a component lifecycle into a context-aware Serve:

  - HTTPServerService: ListenAndServe/Shutdown for the similarity API.
  - GCService: Start/Stop for the local cache value-log GC loop.
  - IngestService: builds an ingest pipeline from a factory on every run,
    since watermill routers cannot be restarted.

Return values drive the supervisor:

	nil         -> stopped cleanly, not restarted
	error       -> crashed, restarted with backoff
	ctx.Err()   -> shutdown requested

All wrappers implement fmt.Stringer so suture log lines name the service.
*/
package services
