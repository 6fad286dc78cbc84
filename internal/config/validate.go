// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/moodboard/internal/validation"
	"github.com/tomtom215/moodboard/internal/vectorstore"
)

// Validate checks struct tags and the cross-field rules.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateSimilarity,
		c.validateRecommend,
		c.validateDatastore,
		c.validateLocalCache,
		c.validateIngest,
		c.validateServer,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateSimilarity() error {
	if err := c.Similarity.Weights.Validate(); err != nil {
		return fmt.Errorf("similarity.weights: %w", err)
	}
	return nil
}

func (c *Config) validateRecommend() error {
	if c.Recommend.MaxLimit < c.Recommend.DefaultLimit {
		return fmt.Errorf("recommend.max_limit (%d) must be >= recommend.default_limit (%d)",
			c.Recommend.MaxLimit, c.Recommend.DefaultLimit)
	}
	if c.Recommend.MaxCandidates < c.Recommend.MaxLimit {
		return fmt.Errorf("recommend.max_candidates (%d) must be >= recommend.max_limit (%d)",
			c.Recommend.MaxCandidates, c.Recommend.MaxLimit)
	}
	return nil
}

func (c *Config) validateDatastore() error {
	if c.Datastore.Backend != vectorstore.BackendElasticsearch {
		return nil
	}
	es := c.Datastore.Elasticsearch
	if len(es.Addresses) == 0 {
		return errors.New("datastore.elasticsearch.addresses is required for the elasticsearch backend")
	}
	if es.Dimensions < 1 {
		return errors.New("datastore.elasticsearch.dimensions is required for the elasticsearch backend")
	}
	if es.APIKey != "" && es.Username != "" {
		return errors.New("datastore.elasticsearch: set either api_key or username/password, not both")
	}
	return nil
}

func (c *Config) validateLocalCache() error {
	if !c.LocalCache.InMemory && c.LocalCache.Dir == "" {
		return errors.New("localcache.dir is required unless localcache.in_memory is set")
	}
	return nil
}

func (c *Config) validateIngest() error {
	if !c.Ingest.Enabled {
		return nil
	}
	if c.Ingest.NATSURL == "" && !c.Ingest.Embedded {
		return errors.New("ingest.nats_url is required when ingest is enabled without the embedded server")
	}
	if c.Ingest.Topic == "" {
		return errors.New("ingest.topic is required when ingest is enabled")
	}
	return nil
}

func (c *Config) validateServer() error {
	if !c.Server.RateLimitDisabled && (c.Server.RateLimitRequests < 1 || c.Server.RateLimitWindow <= 0) {
		return errors.New("server.rate_limit_requests and server.rate_limit_window must be positive unless rate limiting is disabled")
	}
	return nil
}
