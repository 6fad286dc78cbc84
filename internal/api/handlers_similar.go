// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/moodboard/internal/features"
	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/models"
	"github.com/tomtom215/moodboard/internal/recommend"
)

type similarRequest struct {
	ItemID string `validate:"required,max=256"`
	Limit  int    `validate:"min=1"`
}

type featureSimilarRequest struct {
	ItemID    string `validate:"required,max=256"`
	Limit     int    `validate:"min=1"`
	Emphasize string `validate:"omitempty,dimension"`
}

// Similar handles GET /api/v1/items/{id}/similar.
//
// Items are retrieved by embedding similarity. When the embedding service or
// the datastore fails the response degrades to recent or cached items with
// fallback_mode set; it never fails outright while any source has items.
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := similarRequest{
		ItemID: chi.URLParam(r, "id"),
		Limit:  getIntParam(r, "limit", h.config.DefaultLimit),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	res := h.engine.FindSimilar(r.Context(), recommend.Request{
		ItemID: req.ItemID,
		Limit:  h.clampLimit(req.Limit),
	})
	h.respondResult(w, r, res, start)
}

// SimilarByFeatures handles GET /api/v1/items/{id}/similar/features.
//
// The optional emphasize parameter names one dimension (visual, color,
// semantic, style, content, contextual) whose weight is boosted.
func (h *Handler) SimilarByFeatures(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	req := featureSimilarRequest{
		ItemID:    chi.URLParam(r, "id"),
		Limit:     getIntParam(r, "limit", h.config.DefaultLimit),
		Emphasize: r.URL.Query().Get("emphasize"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	opts := recommend.FeatureOptions{Limit: h.clampLimit(req.Limit)}
	if req.Emphasize != "" {
		// Already validated by the dimension tag.
		opts.Emphasize, _ = features.ParseDimension(req.Emphasize)
	}

	res := h.engine.SimilarByFeaturesTo(r.Context(), req.ItemID, opts)
	h.respondResult(w, r, res, start)
}

func (h *Handler) clampLimit(limit int) int {
	if limit > h.config.MaxLimit {
		return h.config.MaxLimit
	}
	return limit
}

// respondResult writes any engine result as the shared envelope. Fallback
// responses are never cached by clients.
func (h *Handler) respondResult(w http.ResponseWriter, r *http.Request, res recommend.Result, start time.Time) {
	env := recommend.Envelope(res)
	status, apiErr := resultStatus(res, env)

	if env.FallbackMode || apiErr != nil {
		w.Header().Set("Cache-Control", "no-store")
	} else {
		w.Header().Set("Cache-Control", "private, max-age=60")
	}

	response := &models.APIResponse{
		Status: "success",
		Data:   env,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	}
	if apiErr != nil {
		response.Status = "error"
		response.Error = apiErr
	}

	logging.Ctx(r.Context()).Debug().
		Str("result", recommend.Kind(res)).
		Str("source", string(env.Source)).
		Bool("fallback_mode", env.FallbackMode).
		Int("count", env.Count).
		Int("status", status).
		Msg("Similarity response")

	respondJSON(w, status, response)
}

// resultStatus maps an engine result onto an HTTP status and, for failures,
// an APIError. Degraded results and an exhausted chain are successes; the
// envelope flags carry the degradation.
func resultStatus(res recommend.Result, env recommend.ResponseEnvelope) (int, *models.APIError) {
	empty, ok := res.(recommend.Empty)
	if !ok {
		return http.StatusOK, nil
	}

	switch {
	case empty.Reason == recommend.ReasonReferenceNotFound:
		return http.StatusNotFound, &models.APIError{Code: CodeNotFound, Message: env.Message}
	case empty.Reason == recommend.ReasonCanceled:
		return http.StatusServiceUnavailable, &models.APIError{Code: CodeServiceUnavailable, Message: env.Message}
	default:
		return http.StatusOK, nil
	}
}
