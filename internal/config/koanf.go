// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/moodboard/internal/breaker"
	"github.com/tomtom215/moodboard/internal/ingest"
	"github.com/tomtom215/moodboard/internal/similarity"
	"github.com/tomtom215/moodboard/internal/vectorstore"
)

// DefaultConfigPaths lists the config file locations, first match wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/moodboard/config.yaml",
	"/etc/moodboard/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			CORSOrigins:       []string{"*"},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			MetricsEnabled:    true,

			SlowRequestThreshold: time.Second,
		},
		Logging: LoggingConfig{
			Level:     "info",
			Format:    "json",
			Timestamp: true,
		},
		Embedding: EmbeddingConfig{
			Timeout:          10 * time.Second,
			RateLimit:        20,
			Burst:            5,
			MaxResponseBytes: 4 << 20,
			Breaker:          breaker.DefaultConfig("embedding"),
		},
		Datastore: DatastoreConfig{
			Backend:      vectorstore.BackendDuckDB,
			QueryTimeout: 5 * time.Second,
			DuckDB: DuckDBConfig{
				Path:      "/data/moodboard.duckdb",
				MaxMemory: "1GB",
			},
			Elasticsearch: ElasticsearchConfig{
				Addresses:  []string{"http://localhost:9200"},
				Index:      vectorstore.DefaultIndex,
				MaxRetries: 3,
				Dimensions: 512,
			},
			Breaker: breaker.DefaultConfig("datastore"),
		},
		LocalCache: LocalCacheConfig{
			Dir:        "/data/localcache",
			SyncWrites: true,
			GCInterval: 10 * time.Minute,
			GCRatio:    0.5,
		},
		Features: FeaturesConfig{
			CacheSize:     10000,
			CacheTTL:      time.Hour,
			FetchTimeout:  10 * time.Second,
			MaxImageBytes: 20 << 20,
			Concurrency:   8,
		},
		Similarity: SimilarityConfig{
			Weights:       similarity.DefaultWeights(),
			EmphasisBoost: similarity.DefaultEmphasisBoost,
			EmphasisCap:   similarity.DefaultEmphasisCap,
		},
		Recommend: RecommendConfig{
			DefaultLimit:     20,
			MaxLimit:         100,
			OverFetch:        2,
			MaxCandidates:    500,
			DiversityEnabled: true,
			MMRLambda:        1.0,
		},
		Ingest: IngestConfig{
			Enabled:              false,
			NATSURL:              "nats://127.0.0.1:4222",
			Topic:                ingest.DefaultTopic,
			DurableName:          "moodboard-ingest",
			QueueGroup:           "moodboard",
			SubscribersCount:     2,
			AckWait:              30 * time.Second,
			MaxDeliver:           5,
			RetryMaxRetries:      5,
			RetryInitialInterval: time.Second,
			PoisonQueueTopic:     "",
			CloseTimeout:         30 * time.Second,
			StreamName:           "CONTENT",
			EmbeddedHost:         "127.0.0.1",
			EmbeddedPort:         4222,
			EmbeddedStoreDir:     "/data/nats",
		},
	}
}

// Load builds the configuration from defaults, the optional config file
// and the environment, then validates it.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, DUCKDB_PATH -> datastore.duckdb.path, ...
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated env values.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"datastore.elasticsearch.addresses",
}

// processSliceFields splits comma-separated strings for known slice fields.
// Slices loaded from YAML are left untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Unlisted variables are ignored.
var envMappings = map[string]string{
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"cors_origins":          "server.cors_origins",
	"rate_limit_requests":   "server.rate_limit_requests",
	"rate_limit_window":     "server.rate_limit_window",
	"disable_rate_limit":    "server.rate_limit_disabled",
	"metrics_enabled":       "server.metrics_enabled",
	"http_slow_threshold":   "server.slow_request_threshold",

	"log_level":     "logging.level",
	"log_format":    "logging.format",
	"log_caller":    "logging.caller",
	"log_timestamp": "logging.timestamp",

	"embedding_url":                       "embedding.url",
	"embedding_api_key":                   "embedding.api_key",
	"embedding_timeout":                   "embedding.timeout",
	"embedding_rate_limit":                "embedding.rate_limit",
	"embedding_burst":                     "embedding.burst",
	"embedding_breaker_failure_threshold": "embedding.breaker.failure_threshold",
	"embedding_breaker_timeout":           "embedding.breaker.timeout",

	"datastore_backend":                   "datastore.backend",
	"datastore_timeout":                   "datastore.query_timeout",
	"datastore_breaker_failure_threshold": "datastore.breaker.failure_threshold",
	"datastore_breaker_timeout":           "datastore.breaker.timeout",
	"duckdb_path":                         "datastore.duckdb.path",
	"duckdb_threads":                      "datastore.duckdb.threads",
	"duckdb_max_memory":                   "datastore.duckdb.max_memory",
	"elasticsearch_addresses":             "datastore.elasticsearch.addresses",
	"elasticsearch_username":              "datastore.elasticsearch.username",
	"elasticsearch_password":              "datastore.elasticsearch.password",
	"elasticsearch_api_key":               "datastore.elasticsearch.api_key",
	"elasticsearch_index":                 "datastore.elasticsearch.index",
	"embedding_dimensions":                "datastore.elasticsearch.dimensions",

	"localcache_dir":         "localcache.dir",
	"localcache_in_memory":   "localcache.in_memory",
	"localcache_sync_writes": "localcache.sync_writes",
	"localcache_gc_interval": "localcache.gc_interval",

	"feature_cache_size":    "features.cache_size",
	"feature_cache_ttl":     "features.cache_ttl",
	"feature_fetch_timeout": "features.fetch_timeout",
	"feature_concurrency":   "features.concurrency",

	"similarity_emphasis_boost": "similarity.emphasis_boost",
	"similarity_emphasis_cap":   "similarity.emphasis_cap",

	"recommend_default_limit":     "recommend.default_limit",
	"recommend_max_limit":         "recommend.max_limit",
	"recommend_max_candidates":    "recommend.max_candidates",
	"recommend_diversity_enabled": "recommend.diversity_enabled",
	"recommend_mmr_lambda":        "recommend.mmr_lambda",

	"ingest_enabled":            "ingest.enabled",
	"nats_url":                  "ingest.nats_url",
	"ingest_topic":              "ingest.topic",
	"ingest_stream_name":        "ingest.stream_name",
	"ingest_durable_name":       "ingest.durable_name",
	"ingest_subscribers":        "ingest.subscribers_count",
	"ingest_poison_queue_topic": "ingest.poison_queue_topic",
	"nats_embedded":             "ingest.embedded",
	"nats_embedded_port":        "ingest.embedded_port",
	"nats_store_dir":            "ingest.embedded_store_dir",
}

// envTransformFunc maps an environment variable name to a koanf path, or
// "" to skip it.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
