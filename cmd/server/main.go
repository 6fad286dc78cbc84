// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tomtom215/moodboard/internal/api"
	"github.com/tomtom215/moodboard/internal/config"
	"github.com/tomtom215/moodboard/internal/localcache"
	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/supervisor"
	"github.com/tomtom215/moodboard/internal/supervisor/services"
	"github.com/tomtom215/moodboard/internal/vectorstore"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(cfg.LoggingConfig())
	logging.Info().
		Str("version", version).
		Str("datastore", cfg.Datastore.Backend).
		Bool("embedding_enabled", cfg.Embedding.URL != "").
		Bool("ingest_enabled", cfg.Ingest.Enabled).
		Msg("Starting moodboard with supervisor tree")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := vectorstore.Open(ctx, cfg.VectorStoreConfig(), logging.WithComponent("vectorstore"))
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to open datastore")
	}
	defer func() {
		if err := store.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing datastore")
		}
	}()

	cache, err := localcache.Open(cfg.LocalCacheConfig())
	if err != nil {
		_ = store.Close()
		logging.Fatal().Err(err).Msg("Failed to open local cache")
	}
	defer func() {
		if err := cache.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing local cache")
		}
	}()
	logging.Info().Int("items", cache.Len()).Msg("Local cache opened")

	engine, embedder, err := initEngine(cfg, store, cache)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize similarity engine")
	}

	handler := api.NewHandler(engine, cfg.APIHandlerConfig(version), handlerOptions(store, cache, embedder)...)

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           api.NewRouter(handler, cfg.APIRouterConfig()),
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	treeCfg := supervisor.DefaultTreeConfig()
	treeCfg.ShutdownTimeout = cfg.Server.ShutdownTimeout
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), treeCfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddDataService(services.NewGCService(localcache.NewGCLoop(cache)))

	if cfg.Ingest.Enabled {
		natsServer, natsURL, err := startEmbeddedNATS(cfg)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to start embedded NATS server")
		}
		if natsServer != nil {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
				defer cancel()
				if err := natsServer.Shutdown(shutdownCtx); err != nil {
					logging.Error().Err(err).Msg("Error shutting down embedded NATS server")
				}
			}()
		}

		tree.AddIngestService(services.NewIngestService(ingestFactory(cfg, natsURL, cache, store)))
		logging.Info().
			Str("nats_url", natsURL).
			Str("topic", cfg.Ingest.Topic).
			Msg("Ingest pipeline added to supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish...")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	stop()

	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Application stopped gracefully")
}
