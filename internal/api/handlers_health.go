// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// Health status values.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// HealthStatus is the payload of GET /health.
type HealthStatus struct {
	Status             string            `json:"status"`
	Version            string            `json:"version"`
	Uptime             float64           `json:"uptime_seconds"`
	DatastoreConnected bool              `json:"datastore_connected"`
	DatastoreError     string            `json:"datastore_error,omitempty"`
	LocalCacheItems    int               `json:"local_cache_items"`
	Breakers           map[string]string `json:"breakers,omitempty"`
}

// Health handles GET /health.
//
// The service keeps answering from its fallbacks when the datastore or the
// embedding service is down, so the endpoint is always 200 and reports
// "degraded" instead of failing.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{
		Status:             StatusHealthy,
		Version:            h.config.Version,
		Uptime:             time.Since(h.startTime).Seconds(),
		DatastoreConnected: true,
	}
	metrics.AppUptime.Set(health.Uptime)

	if h.datastore != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.config.HealthTimeout)
		err := h.datastore.Ping(ctx)
		cancel()
		if err != nil {
			health.DatastoreConnected = false
			health.DatastoreError = sanitizeLogValue(err.Error())
			health.Status = StatusDegraded
		}
	}

	if h.localCache != nil {
		health.LocalCacheItems = h.localCache.Len()
	}

	if len(h.breakers) > 0 {
		health.Breakers = make(map[string]string, len(h.breakers))
		for _, name := range h.breakerNames() {
			state := h.breakers[name].BreakerState()
			health.Breakers[name] = state
			if state != "closed" {
				health.Status = StatusDegraded
			}
		}
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     health,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
