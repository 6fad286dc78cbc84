// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package testinfra starts real dependencies in Docker for integration tests.
//
// Containers are managed with testcontainers-go and only built with the
// integration tag:
//
//	go test -tags integration ./internal/vectorstore/
//
// Tests are skipped when Docker is not available. Every helper registers
// container termination with t.Cleanup.
//
//	func TestElasticsearch_Integration(t *testing.T) {
//	    es := testinfra.NewElasticsearchContainer(t)
//	    store, err := vectorstore.NewElasticsearch(ctx, vectorstore.ElasticsearchConfig{
//	        Addresses: []string{es.URL},
//	    }, logger)
//	    ...
//	}
package testinfra
