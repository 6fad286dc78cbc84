// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package vectorstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

const (
	esBackend = "elasticsearch"

	// DefaultIndex is the index used when none is configured.
	DefaultIndex = "moodboard_content"

	// minNumCandidates is the kNN candidate floor per shard.
	minNumCandidates = 100

	// maxESLimit matches the default index.max_result_window.
	maxESLimit = 10000
)

// ElasticsearchConfig configures the Elasticsearch backend.
type ElasticsearchConfig struct {
	Addresses  []string
	Username   string
	Password   string
	APIKey     string
	Index      string
	MaxRetries int

	// Dimensions is the embedding length declared in the index mapping.
	Dimensions int

	// Transport overrides the HTTP transport. Nil uses the client default.
	Transport http.RoundTripper
}

// esDocument is the stored document shape. The item is kept as an opaque
// object; only embedding and created_at are indexed.
type esDocument struct {
	Item      models.ContentItem `json:"item"`
	Embedding []float32          `json:"embedding,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type esSearchResponse struct {
	Hits struct {
		Hits []struct {
			ID     string     `json:"_id"`
			Score  float64    `json:"_score"`
			Source esDocument `json:"_source"`
		} `json:"hits"`
	} `json:"hits"`
}

type esGetResponse struct {
	Found  bool       `json:"found"`
	Source esDocument `json:"_source"`
}

// Elasticsearch stores items in an index with a dense_vector field and
// queries them with approximate kNN.
type Elasticsearch struct {
	client *es.Client
	index  string
	dims   int
	logger zerolog.Logger
}

var _ Store = (*Elasticsearch)(nil)

// NewElasticsearch creates the client and makes sure the index exists.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewElasticsearch(ctx context.Context, cfg ElasticsearchConfig, logger zerolog.Logger) (*Elasticsearch, error) {
	if len(cfg.Addresses) == 0 {
		cfg.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.Index == "" {
		cfg.Index = DefaultIndex
	}

	clientConfig := es.Config{
		Addresses:  cfg.Addresses,
		MaxRetries: cfg.MaxRetries,
		Transport:  cfg.Transport,
	}
	if cfg.APIKey != "" {
		clientConfig.APIKey = cfg.APIKey
	} else if cfg.Username != "" && cfg.Password != "" {
		clientConfig.Username = cfg.Username
		clientConfig.Password = cfg.Password
	}

	client, err := es.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}

	s := &Elasticsearch{
		client: client,
		index:  cfg.Index,
		dims:   cfg.Dimensions,
		logger: logger.With().Str("component", "vectorstore").Str("backend", esBackend).Logger(),
	}

	if err := s.EnsureIndex(ctx); err != nil {
		return nil, err
	}

	s.logger.Info().Strs("addresses", cfg.Addresses).Str("index", cfg.Index).Msg("Elasticsearch vector store ready")
	return s, nil
}

// EnsureIndex creates the index with the vector mapping when it is missing.
func (s *Elasticsearch) EnsureIndex(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(esBackend, "ensure_index", time.Since(start), err) }()

	res, err := s.client.Indices.Exists([]string{s.index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return unavailable("index exists", err)
	}
	closeBody(res)
	if res.StatusCode == http.StatusOK {
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		return unavailable("index exists", fmt.Errorf("status %s", res.Status()))
	}

	body, err := json.Marshal(s.mapping())
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	res, err = s.client.Indices.Create(
		s.index,
		s.client.Indices.Create.WithContext(ctx),
		s.client.Indices.Create.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return unavailable("create index", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return unavailable("create index", fmt.Errorf("%s", res.String()))
	}
	s.logger.Info().Str("index", s.index).Int("dims", s.dims).Msg("Created vector index")
	return nil
}

func (s *Elasticsearch) mapping() map[string]any {
	vector := map[string]any{
		"type":       "dense_vector",
		"index":      true,
		"similarity": "cosine",
	}
	if s.dims > 0 {
		vector["dims"] = s.dims
	}
	return map[string]any{
		"mappings": map[string]any{
			"properties": map[string]any{
				"item":       map[string]any{"type": "object", "enabled": false},
				"embedding":  vector,
				"created_at": map[string]any{"type": "date"},
			},
		},
	}
}

// SearchSimilar runs an approximate kNN query. Elasticsearch reports cosine
// scores as (1+cos)/2; they are mapped back to raw cosine.
func (s *Elasticsearch) SearchSimilar(ctx context.Context, vec []float32, limit int) (_ []models.Neighbor, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(esBackend, "search_similar", time.Since(start), err) }()

	if err := checkVector(vec); err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}

	k := normalizeLimit(limit, maxESLimit)
	query := map[string]any{
		"knn": map[string]any{
			"field":          "embedding",
			"query_vector":   vec,
			"k":              k,
			"num_candidates": max(minNumCandidates, 4*k),
		},
		"size":    k,
		"_source": []string{"item", "created_at"},
	}

	hits, err := s.search(ctx, "search similar", query)
	if err != nil {
		return nil, err
	}

	out := make([]models.Neighbor, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		item := hit.Source.Item
		if item.ID == "" {
			item.ID = hit.ID
		}
		out = append(out, models.Neighbor{Item: item, Similarity: 2*hit.Score - 1})
	}
	return out, nil
}

// Recent returns the newest items by created_at.
func (s *Elasticsearch) Recent(ctx context.Context, limit int) (_ []models.ContentItem, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(esBackend, "recent", time.Since(start), err) }()

	query := map[string]any{
		"query": map[string]any{"match_all": map[string]any{}},
		"size":  normalizeLimit(limit, maxESLimit),
		"sort": []map[string]any{
			{"created_at": map[string]any{"order": "desc"}},
		},
		"_source": []string{"item", "created_at"},
	}

	hits, err := s.search(ctx, "recent", query)
	if err != nil {
		return nil, err
	}

	out := make([]models.ContentItem, 0, len(hits.Hits.Hits))
	for _, hit := range hits.Hits.Hits {
		item := hit.Source.Item
		if item.ID == "" {
			item.ID = hit.ID
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *Elasticsearch) search(ctx context.Context, op string, query map[string]any) (*esSearchResponse, error) {
	body, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer closeBody(res)

	if res.IsError() {
		return nil, unavailable(op, fmt.Errorf("%s", res.String()))
	}

	var out esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrMalformedResponse, err)
	}
	return &out, nil
}

// Get fetches one document by id.
func (s *Elasticsearch) Get(ctx context.Context, id string) (_ *models.ContentItem, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(esBackend, "get", time.Since(start), err) }()

	res, err := s.client.Get(s.index, id, s.client.Get.WithContext(ctx))
	if err != nil {
		return nil, unavailable("get", err)
	}
	defer closeBody(res)

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	if res.IsError() {
		return nil, unavailable("get", fmt.Errorf("%s", res.String()))
	}

	var doc esGetResponse
	if err := json.NewDecoder(res.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("get: %w: %w", models.ErrMalformedResponse, err)
	}
	if !doc.Found {
		return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}

	item := doc.Source.Item
	if item.ID == "" {
		item.ID = id
	}
	return &item, nil
}

// Upsert indexes the item under its id, replacing any previous version.
func (s *Elasticsearch) Upsert(ctx context.Context, item models.ContentItem, embedding []float32) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(esBackend, "upsert", time.Since(start), err) }()

	if item.ID == "" {
		return fmt.Errorf("upsert: %w: missing id", models.ErrInvalidItem)
	}
	if len(embedding) > 0 {
		if err := checkVector(embedding); err != nil {
			return fmt.Errorf("upsert %s: %w", item.ID, err)
		}
		if s.dims > 0 && len(embedding) != s.dims {
			return fmt.Errorf("upsert %s: %w: embedding has %d dims, index expects %d",
				item.ID, models.ErrInvalidItem, len(embedding), s.dims)
		}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(esDocument{Item: item, Embedding: embedding, CreatedAt: item.CreatedAt})
	if err != nil {
		return fmt.Errorf("failed to marshal document: %w", err)
	}

	res, err := s.client.Index(
		s.index,
		bytes.NewReader(body),
		s.client.Index.WithContext(ctx),
		s.client.Index.WithDocumentID(item.ID),
	)
	if err != nil {
		return unavailable("upsert", err)
	}
	defer closeBody(res)

	if res.IsError() {
		return unavailable("upsert", fmt.Errorf("%s", res.String()))
	}
	return nil
}

// Ping checks that the cluster answers.
func (s *Elasticsearch) Ping(ctx context.Context) error {
	res, err := s.client.Ping(s.client.Ping.WithContext(ctx))
	if err != nil {
		return unavailable("ping", err)
	}
	defer closeBody(res)
	if res.IsError() {
		return unavailable("ping", fmt.Errorf("status %s", res.Status()))
	}
	return nil
}

// Close is a no-op; the client holds no long-lived resources beyond its
// HTTP transport.
func (s *Elasticsearch) Close() error {
	return nil
}

func closeBody(res *esapi.Response) {
	if res != nil && res.Body != nil {
		_, _ = io.Copy(io.Discard, res.Body)
		_ = res.Body.Close()
	}
}
