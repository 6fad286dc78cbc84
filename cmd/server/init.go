// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/moodboard/internal/api"
	"github.com/tomtom215/moodboard/internal/config"
	"github.com/tomtom215/moodboard/internal/embedding"
	"github.com/tomtom215/moodboard/internal/features"
	"github.com/tomtom215/moodboard/internal/ingest"
	"github.com/tomtom215/moodboard/internal/localcache"
	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/recommend"
	"github.com/tomtom215/moodboard/internal/recommend/reranking"
	"github.com/tomtom215/moodboard/internal/supervisor/services"
	"github.com/tomtom215/moodboard/internal/vectorstore"
)

// initEngine builds the similarity engine and its collaborators. The
// returned embedding client is nil when no embedding URL is configured.
func initEngine(cfg *config.Config, store vectorstore.Store, cache *localcache.Store) (*recommend.Engine, *embedding.Client, error) {
	var (
		embedder recommend.Embedder
		client   *embedding.Client
	)
	if cfg.Embedding.URL != "" {
		c, err := embedding.NewClient(cfg.EmbeddingConfig(), logging.Logger())
		if err != nil {
			return nil, nil, fmt.Errorf("create embedding client: %w", err)
		}
		client, embedder = c, c
	} else {
		logging.Warn().Msg("Embedding service not configured; serving recent items only")
	}

	fc := cfg.Features
	extractor := features.NewExtractor(
		features.NewHTTPFetcher(fc.FetchTimeout, fc.MaxImageBytes),
		logging.Logger(),
		features.WithCache(features.NewCache(fc.CacheSize, fc.CacheTTL)),
		features.WithConcurrency(fc.Concurrency),
	)

	rc := cfg.RecommendConfig()
	engine, err := recommend.NewEngine(rc, recommend.Dependencies{
		Embedder:     embedder,
		Store:        store,
		Cache:        cache,
		Deduplicator: recommend.URLDeduplicator{},
		Extractor:    extractor,
	}, logging.Logger())
	if err != nil {
		return nil, nil, err
	}

	if rc.Diversity.Enabled {
		engine.RegisterReranker(recommend.PathFeatures, reranking.NewDiversifier())
	}
	if rc.Diversity.MMRLambda < 1 {
		engine.RegisterReranker(recommend.PathEmbedding, reranking.NewMMR(rc.Diversity.MMRLambda))
	}

	return engine, client, nil
}

// handlerOptions exposes dependency health to GET /health.
func handlerOptions(store vectorstore.Store, cache *localcache.Store, client *embedding.Client) []api.HandlerOption {
	opts := []api.HandlerOption{api.WithLocalCache(cache)}
	if p, ok := store.(api.Pinger); ok {
		opts = append(opts, api.WithDatastore(p))
	}
	if b, ok := store.(api.BreakerReporter); ok {
		opts = append(opts, api.WithBreaker("datastore", b))
	}
	if client != nil {
		opts = append(opts, api.WithBreaker("embedding", client))
	}
	return opts
}

// ingestFactory returns a builder for a fresh ingest pipeline. The
// supervisor calls it on every (re)start, so stream provisioning is retried
// along with the connection.
func ingestFactory(cfg *config.Config, natsURL string, cache *localcache.Store, store vectorstore.Store) services.RunnerFactory {
	return func(ctx context.Context) (services.Runner, error) {
		if err := ingest.EnsureStreams(ctx, natsURL, cfg.IngestStreams()...); err != nil {
			return nil, fmt.Errorf("ensure streams: %w", err)
		}

		wmLogger := logging.NewWatermillAdapter(logging.WithComponent("ingest"))
		subCfg := cfg.IngestSubscriberConfig()
		subCfg.URL = natsURL

		subscriber, err := ingest.NewSubscriber(subCfg, wmLogger)
		if err != nil {
			return nil, fmt.Errorf("create subscriber: %w", err)
		}

		poison, err := ingest.NewPoisonPublisher(subCfg, wmLogger)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("create poison publisher: %w", err), subscriber.Close())
		}

		consumer := ingest.NewConsumer(cache, store, logging.Logger())
		pipeline, err := ingest.NewPipeline(cfg.IngestRouterConfig(), cfg.Ingest.Topic, subscriber, poison, consumer, wmLogger)
		if err != nil {
			return nil, errors.Join(err, subscriber.Close(), poison.Close())
		}
		return pipeline, nil
	}
}

// startEmbeddedNATS starts the in-process JetStream server when configured
// and returns the URL the pipeline should use.
func startEmbeddedNATS(cfg *config.Config) (*ingest.EmbeddedServer, string, error) {
	if !cfg.Ingest.Embedded {
		return nil, cfg.Ingest.NATSURL, nil
	}
	srv, err := ingest.NewEmbeddedServer(cfg.IngestServerConfig())
	if err != nil {
		return nil, "", err
	}
	logging.Info().Str("url", srv.ClientURL()).Msg("Embedded NATS JetStream server started")
	return srv, srv.ClientURL(), nil
}
