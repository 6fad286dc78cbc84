// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package config loads the Moodboard service configuration with koanf.
//
// Sources are layered, later ones overriding earlier ones:
//
//  1. Built-in defaults (defaultConfig)
//  2. An optional YAML file: CONFIG_PATH, else config.yaml, config.yml,
//     /etc/moodboard/config.yaml
//  3. Environment variables with explicit names (see envMappings)
//
// The result is validated with the shared validator (struct tags) and a set
// of cross-field checks, then converted into the per-package configuration
// types by the accessor methods (RecommendConfig, VectorStoreConfig, ...).
//
// Example config.yaml:
//
//	server:
//	  port: 8080
//	embedding:
//	  url: http://embedder:9000/embed
//	  timeout: 10s
//	datastore:
//	  backend: duckdb
//	  duckdb:
//	    path: /data/moodboard.duckdb
//	localcache:
//	  dir: /data/localcache
//	ingest:
//	  enabled: true
//	  nats_url: nats://nats:4222
package config
