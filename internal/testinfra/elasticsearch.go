// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

//go:build integration

package testinfra

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultElasticsearchImage supports dense_vector kNN search.
	DefaultElasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.15.3"

	elasticsearchPort = "9200/tcp"
)

// ElasticsearchContainer is a single-node cluster with security disabled.
type ElasticsearchContainer struct {
	testcontainers.Container
	URL string
}

// NewElasticsearchContainer starts a cluster and terminates it when t ends.
// The test is skipped without Docker.
func NewElasticsearchContainer(t *testing.T) *ElasticsearchContainer {
	t.Helper()
	SkipIfNoDocker(t)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        DefaultElasticsearchImage,
		ExposedPorts: []string{elasticsearchPort},
		Env: map[string]string{
			"discovery.type":         "single-node",
			"xpack.security.enabled": "false",
			"ES_JAVA_OPTS":           "-Xms512m -Xmx512m",
		},
		WaitingFor: wait.ForHTTP("/_cluster/health").
			WithPort(elasticsearchPort).
			WithStatusCodeMatcher(func(status int) bool { return status == http.StatusOK }).
			WithStartupTimeout(2 * time.Minute),
	}

	container, url, err := startContainer(ctx, req, "http", elasticsearchPort)
	if err != nil {
		t.Fatalf("elasticsearch container: %v", err)
	}
	CleanupContainer(t, container)

	return &ElasticsearchContainer{Container: container, URL: url}
}
