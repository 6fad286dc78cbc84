// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package config

import (
	"time"

	"github.com/tomtom215/moodboard/internal/breaker"
	"github.com/tomtom215/moodboard/internal/similarity"
)

// Config is the complete service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Embedding  EmbeddingConfig  `koanf:"embedding"`
	Datastore  DatastoreConfig  `koanf:"datastore"`
	LocalCache LocalCacheConfig `koanf:"localcache"`
	Features   FeaturesConfig   `koanf:"features"`
	Similarity SimilarityConfig `koanf:"similarity"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Ingest     IngestConfig     `koanf:"ingest"`
}

// ServerConfig configures the HTTP surface.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gte=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	CORSOrigins []string `koanf:"cors_origins"`

	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"gte=0"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gte=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// SlowRequestThreshold logs slower requests at warn level. 0 disables.
	SlowRequestThreshold time.Duration `koanf:"slow_request_threshold" validate:"gte=0"`
}

// LoggingConfig configures the global zerolog logger.
type LoggingConfig struct {
	Level     string `koanf:"level" validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format    string `koanf:"format" validate:"oneof=json console"`
	Caller    bool   `koanf:"caller"`
	Timestamp bool   `koanf:"timestamp"`
}

// EmbeddingConfig configures the embedding service client.
type EmbeddingConfig struct {
	// URL is the embedding endpoint. Empty disables the embedding path; every
	// request then goes straight to the recent-items fallback.
	URL              string         `koanf:"url" validate:"omitempty,url"`
	APIKey           string         `koanf:"api_key"`
	Timeout          time.Duration  `koanf:"timeout" validate:"gt=0"`
	RateLimit        float64        `koanf:"rate_limit" validate:"gte=0"`
	Burst            int            `koanf:"burst" validate:"gte=0"`
	MaxResponseBytes int64          `koanf:"max_response_bytes" validate:"gte=0"`
	Breaker          breaker.Config `koanf:"breaker"`
}

// DatastoreConfig selects and configures the vector datastore.
type DatastoreConfig struct {
	Backend string `koanf:"backend" validate:"oneof=duckdb elasticsearch"`

	// QueryTimeout bounds each datastore call made by the engine.
	QueryTimeout time.Duration `koanf:"query_timeout" validate:"gt=0"`

	DuckDB        DuckDBConfig        `koanf:"duckdb"`
	Elasticsearch ElasticsearchConfig `koanf:"elasticsearch"`
	Breaker       breaker.Config      `koanf:"breaker"`
}

// DuckDBConfig configures the embedded DuckDB backend.
type DuckDBConfig struct {
	Path      string `koanf:"path"`
	Threads   int    `koanf:"threads" validate:"gte=0"`
	MaxMemory string `koanf:"max_memory"`
}

// ElasticsearchConfig configures the Elasticsearch backend.
type ElasticsearchConfig struct {
	Addresses  []string `koanf:"addresses" validate:"dive,url"`
	Username   string   `koanf:"username"`
	Password   string   `koanf:"password"`
	APIKey     string   `koanf:"api_key"`
	Index      string   `koanf:"index"`
	MaxRetries int      `koanf:"max_retries" validate:"gte=0"`
	Dimensions int      `koanf:"dimensions" validate:"gte=0,lte=4096"`
}

// LocalCacheConfig configures the Badger-backed local cache.
type LocalCacheConfig struct {
	Dir        string        `koanf:"dir"`
	InMemory   bool          `koanf:"in_memory"`
	SyncWrites bool          `koanf:"sync_writes"`
	GCInterval time.Duration `koanf:"gc_interval" validate:"gt=0"`
	GCRatio    float64       `koanf:"gc_ratio" validate:"gt=0,lt=1"`
}

// FeaturesConfig configures feature extraction.
type FeaturesConfig struct {
	CacheSize     int           `koanf:"cache_size" validate:"min=1"`
	CacheTTL      time.Duration `koanf:"cache_ttl" validate:"gt=0"`
	FetchTimeout  time.Duration `koanf:"fetch_timeout" validate:"gt=0"`
	MaxImageBytes int64         `koanf:"max_image_bytes" validate:"gte=0"`
	Concurrency   int           `koanf:"concurrency" validate:"min=1,max=256"`
}

// SimilarityConfig configures the heuristic scorer.
type SimilarityConfig struct {
	Weights       similarity.Weights `koanf:"weights"`
	EmphasisBoost float64            `koanf:"emphasis_boost" validate:"gte=0,lte=1"`
	EmphasisCap   float64            `koanf:"emphasis_cap" validate:"gte=0,lte=1"`
}

// RecommendConfig configures the engine limits and rerankers.
type RecommendConfig struct {
	DefaultLimit     int     `koanf:"default_limit" validate:"min=1"`
	MaxLimit         int     `koanf:"max_limit" validate:"min=1"`
	OverFetch        int     `koanf:"over_fetch" validate:"min=1"`
	MaxCandidates    int     `koanf:"max_candidates" validate:"min=1"`
	DiversityEnabled bool    `koanf:"diversity_enabled"`
	MMRLambda        float64 `koanf:"mmr_lambda" validate:"gte=0,lte=1"`
}

// IngestConfig configures the content.ingested consumer.
type IngestConfig struct {
	Enabled bool   `koanf:"enabled"`
	NATSURL string `koanf:"nats_url"`
	Topic   string `koanf:"topic"`

	StreamName       string        `koanf:"stream_name" validate:"excludesall=.*>"`
	DurableName      string        `koanf:"durable_name"`
	QueueGroup       string        `koanf:"queue_group"`
	SubscribersCount int           `koanf:"subscribers_count" validate:"min=1"`
	AckWait          time.Duration `koanf:"ack_wait" validate:"gt=0"`
	MaxDeliver       int           `koanf:"max_deliver" validate:"gte=-1"`

	RetryMaxRetries      int           `koanf:"retry_max_retries" validate:"gte=0"`
	RetryInitialInterval time.Duration `koanf:"retry_initial_interval" validate:"gt=0"`
	ThrottlePerSecond    int64         `koanf:"throttle_per_second" validate:"gte=0"`
	PoisonQueueTopic     string        `koanf:"poison_queue_topic"`
	CloseTimeout         time.Duration `koanf:"close_timeout" validate:"gt=0"`

	// Embedded runs an in-process JetStream server; NATSURL is then ignored.
	Embedded         bool   `koanf:"embedded"`
	EmbeddedHost     string `koanf:"embedded_host"`
	EmbeddedPort     int    `koanf:"embedded_port" validate:"gte=-1,lte=65535"`
	EmbeddedStoreDir string `koanf:"embedded_store_dir" validate:"required_if=Embedded true"`
}
