// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/moodboard/internal/breaker"
	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

const (
	// DefaultTimeout bounds one embedding call.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxResponseBytes caps the decoded response body.
	DefaultMaxResponseBytes = 4 << 20

	breakerName = "embedding-service"
)

// Config configures the embedding client.
type Config struct {
	// URL is the endpoint that accepts POST {"image_url": ...}.
	URL string

	// APIKey is sent as a bearer token when set.
	APIKey string

	// Timeout bounds each HTTP call.
	Timeout time.Duration

	// RateLimit is the sustained requests per second. Zero disables limiting.
	RateLimit float64

	// Burst is the limiter bucket size.
	Burst int

	// MaxResponseBytes caps the decoded response body.
	MaxResponseBytes int64

	// Breaker configures the circuit breaker.
	Breaker breaker.Config
}

type embedRequest struct {
	ImageURL string `json:"image_url"`
}

type embedResponse struct {
	Data [][]float32 `json:"data"`
}

// Client calls the external embedding service. It is safe for concurrent use.
type Client struct {
	url      string
	apiKey   string
	maxBytes int64
	http     *http.Client
	limiter  *rate.Limiter
	breaker  *breaker.Breaker[[]float32]
	logger   zerolog.Logger
}

// NewClient creates an embedding client.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("invalid embedding service url %q", cfg.URL)
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxResponseBytes <= 0 {
		cfg.MaxResponseBytes = DefaultMaxResponseBytes
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker.Name = breakerName
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	return &Client{
		url:      u.String(),
		apiKey:   cfg.APIKey,
		maxBytes: cfg.MaxResponseBytes,
		http:     &http.Client{Timeout: cfg.Timeout},
		limiter:  limiter,
		breaker:  breaker.New[[]float32](cfg.Breaker),
		logger:   logger.With().Str("component", "embedding").Logger(),
	}, nil
}

// Embed returns the embedding vector of the image at imageURL.
//
// Transport failures, non-2xx statuses and an open breaker return errors
// wrapping models.ErrServiceUnavailable. An undecodable payload or an empty
// vector returns an error wrapping models.ErrMalformedResponse.
func (c *Client) Embed(ctx context.Context, imageURL string) ([]float32, error) {
	start := time.Now()
	vec, err := c.breaker.Execute(func() ([]float32, error) {
		return c.embed(ctx, imageURL)
	})
	metrics.RecordEmbeddingRequest(time.Since(start), err)

	if err != nil {
		c.logger.Debug().Err(err).Str("image_url", imageURL).Msg("embedding request failed")
		return nil, err
	}
	return vec, nil
}

// BreakerState reports the circuit breaker state for health checks.
func (c *Client) BreakerState() string {
	return c.breaker.State()
}

func (c *Client) embed(ctx context.Context, imageURL string) ([]float32, error) {
	if imageURL == "" {
		return nil, fmt.Errorf("empty image url: %w", models.ErrInvalidItem)
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	body, err := json.Marshal(embedRequest{ImageURL: imageURL})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, fmt.Errorf("embedding request: %w: %w", models.ErrServiceUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("embedding service returned status %d: %w", resp.StatusCode, models.ErrServiceUnavailable)
	}

	var out embedResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, c.maxBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode embedding response: %w: %w", models.ErrMalformedResponse, err)
	}
	if len(out.Data) == 0 || len(out.Data[0]) == 0 {
		return nil, fmt.Errorf("embedding response has no vector: %w", models.ErrMalformedResponse)
	}

	return out.Data[0], nil
}
