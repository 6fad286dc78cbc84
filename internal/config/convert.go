// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package config

import (
	"net"
	"strconv"

	"github.com/tomtom215/moodboard/internal/api"
	"github.com/tomtom215/moodboard/internal/embedding"
	"github.com/tomtom215/moodboard/internal/ingest"
	"github.com/tomtom215/moodboard/internal/localcache"
	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/recommend"
	"github.com/tomtom215/moodboard/internal/vectorstore"
)

// Addr returns the HTTP listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// APIRouterConfig returns the HTTP router configuration.
func (c *Config) APIRouterConfig() api.RouterConfig {
	return api.RouterConfig{
		CORSOrigins:          c.Server.CORSOrigins,
		RateLimitRequests:    c.Server.RateLimitRequests,
		RateLimitWindow:      c.Server.RateLimitWindow,
		RateLimitDisabled:    c.Server.RateLimitDisabled,
		MetricsEnabled:       c.Server.MetricsEnabled,
		SlowRequestThreshold: c.Server.SlowRequestThreshold,
	}
}

// APIHandlerConfig returns the HTTP handler configuration.
func (c *Config) APIHandlerConfig(version string) api.HandlerConfig {
	return api.HandlerConfig{
		DefaultLimit:  c.Recommend.DefaultLimit,
		MaxLimit:      c.Recommend.MaxLimit,
		HealthTimeout: c.Datastore.QueryTimeout,
		Version:       version,
	}
}

// LoggingConfig returns the logging package configuration.
func (c *Config) LoggingConfig() logging.Config {
	return logging.Config{
		Level:     c.Logging.Level,
		Format:    c.Logging.Format,
		Caller:    c.Logging.Caller,
		Timestamp: c.Logging.Timestamp,
	}
}

// EmbeddingConfig returns the embedding client configuration.
func (c *Config) EmbeddingConfig() embedding.Config {
	b := c.Embedding.Breaker
	b.Name = "embedding"
	return embedding.Config{
		URL:              c.Embedding.URL,
		APIKey:           c.Embedding.APIKey,
		Timeout:          c.Embedding.Timeout,
		RateLimit:        c.Embedding.RateLimit,
		Burst:            c.Embedding.Burst,
		MaxResponseBytes: c.Embedding.MaxResponseBytes,
		Breaker:          b,
	}
}

// VectorStoreConfig returns the datastore configuration.
func (c *Config) VectorStoreConfig() vectorstore.Config {
	b := c.Datastore.Breaker
	b.Name = "datastore"
	es := c.Datastore.Elasticsearch
	return vectorstore.Config{
		Backend: c.Datastore.Backend,
		DuckDB: vectorstore.DuckDBConfig{
			Path:      c.Datastore.DuckDB.Path,
			Threads:   c.Datastore.DuckDB.Threads,
			MaxMemory: c.Datastore.DuckDB.MaxMemory,
		},
		Elasticsearch: vectorstore.ElasticsearchConfig{
			Addresses:  es.Addresses,
			Username:   es.Username,
			Password:   es.Password,
			APIKey:     es.APIKey,
			Index:      es.Index,
			MaxRetries: es.MaxRetries,
			Dimensions: es.Dimensions,
		},
		Breaker: b,
	}
}

// LocalCacheConfig returns the local cache configuration.
func (c *Config) LocalCacheConfig() localcache.Config {
	return localcache.Config{
		Dir:        c.LocalCache.Dir,
		InMemory:   c.LocalCache.InMemory,
		SyncWrites: c.LocalCache.SyncWrites,
		GCInterval: c.LocalCache.GCInterval,
		GCRatio:    c.LocalCache.GCRatio,
	}
}

// RecommendConfig returns the engine configuration.
func (c *Config) RecommendConfig() *recommend.Config {
	return &recommend.Config{
		Weights:       c.Similarity.Weights,
		EmphasisBoost: c.Similarity.EmphasisBoost,
		EmphasisCap:   c.Similarity.EmphasisCap,
		Diversity: recommend.DiversityConfig{
			Enabled:   c.Recommend.DiversityEnabled,
			MMRLambda: c.Recommend.MMRLambda,
		},
		Limits: recommend.LimitsConfig{
			DefaultLimit:  c.Recommend.DefaultLimit,
			MaxLimit:      c.Recommend.MaxLimit,
			OverFetch:     c.Recommend.OverFetch,
			MaxCandidates: c.Recommend.MaxCandidates,
		},
		Timeouts: recommend.TimeoutConfig{
			Embedding: c.Embedding.Timeout,
			Datastore: c.Datastore.QueryTimeout,
		},
	}
}

// IngestRouterConfig returns the ingest router configuration.
func (c *Config) IngestRouterConfig() ingest.RouterConfig {
	rc := ingest.DefaultRouterConfig()
	rc.CloseTimeout = c.Ingest.CloseTimeout
	rc.RetryMaxRetries = c.Ingest.RetryMaxRetries
	rc.RetryInitialInterval = c.Ingest.RetryInitialInterval
	rc.ThrottlePerSecond = c.Ingest.ThrottlePerSecond
	rc.PoisonQueueTopic = c.Ingest.PoisonQueueTopic
	return rc
}

// IngestSubscriberConfig returns the NATS subscriber configuration.
func (c *Config) IngestSubscriberConfig() ingest.SubscriberConfig {
	sc := ingest.DefaultSubscriberConfig(c.Ingest.NATSURL)
	sc.StreamName = c.Ingest.StreamName
	sc.DurableName = c.Ingest.DurableName
	sc.QueueGroup = c.Ingest.QueueGroup
	sc.SubscribersCount = c.Ingest.SubscribersCount
	sc.AckWaitTimeout = c.Ingest.AckWait
	sc.MaxDeliver = c.Ingest.MaxDeliver
	sc.CloseTimeout = c.Ingest.CloseTimeout
	return sc
}

// IngestServerConfig returns the embedded JetStream server configuration.
func (c *Config) IngestServerConfig() ingest.ServerConfig {
	return ingest.ServerConfig{
		Host:     c.Ingest.EmbeddedHost,
		Port:     c.Ingest.EmbeddedPort,
		StoreDir: c.Ingest.EmbeddedStoreDir,
	}
}

// IngestStreams returns the JetStream streams the ingest pipeline needs.
func (c *Config) IngestStreams() []ingest.StreamConfig {
	return ingest.Streams(c.Ingest.StreamName, c.Ingest.Topic, c.Ingest.PoisonQueueTopic)
}
