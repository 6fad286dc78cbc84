// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

/*
Package supervisor provides process supervision using suture v4.

Services are organized into three layers for failure isolation:

	RootSupervisor ("moodboard")
	├── DataSupervisor ("data-layer")
	│   └── GCService (local cache value-log GC)
	├── IngestSupervisor ("ingest-layer")
	│   └── IngestService (if ingest.enabled)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

A failing NATS connection restarts only the ingest pipeline; the API keeps
answering from the datastore and the local cache.

Supervisor events (restarts, backoff, timeouts) are logged through
sutureslog, which takes an *slog.Logger. logging.NewSlogLogger bridges it
to the global zerolog logger:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddDataService(services.NewGCService(localcache.NewGCLoop(cache)))
	tree.AddAPIService(services.NewHTTPServerService(server, 15*time.Second))
	err = tree.Serve(ctx)

Service wrappers live in the services subpackage.
*/
package supervisor
