// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package localcache

import (
	"context"
	"sync"
	"time"

	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/metrics"
)

// GCLoop periodically reclaims value log space.
type GCLoop struct {
	store    *Store
	interval time.Duration

	// Control
	cancel context.CancelFunc
	wg     sync.WaitGroup

	// State
	mu      sync.Mutex
	running bool
	lastRun time.Time
}

// NewGCLoop creates a GC loop for store. A non-positive interval falls back
// to ten minutes.
func NewGCLoop(store *Store) *GCLoop {
	interval := store.Config().GCInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	return &GCLoop{store: store, interval: interval}
}

// Start begins the background loop.
func (g *GCLoop) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return nil
	}

	ctx, g.cancel = context.WithCancel(ctx)
	g.running = true
	g.mu.Unlock()

	g.wg.Add(1)
	go g.run(ctx)

	logging.Info().Dur("interval", g.interval).Msg("Local cache GC started")
	return nil
}

// Stop stops the loop and waits for it to exit.
func (g *GCLoop) Stop() {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return
	}
	g.cancel()
	g.running = false
	g.mu.Unlock()

	g.wg.Wait()
	logging.Info().Msg("Local cache GC stopped")
}

// IsRunning returns whether the loop is active.
func (g *GCLoop) IsRunning() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.running
}

// LastRun returns when GC last ran, zero if never.
func (g *GCLoop) LastRun() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastRun
}

func (g *GCLoop) run(ctx context.Context) {
	defer g.wg.Done()

	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.RunOnce()
		}
	}
}

// RunOnce performs one GC pass and records the outcome.
func (g *GCLoop) RunOnce() {
	rewritten, err := g.store.RunGC()

	g.mu.Lock()
	g.lastRun = time.Now()
	g.mu.Unlock()

	switch {
	case err != nil:
		metrics.LocalCacheGCRuns.WithLabelValues("error").Inc()
		logging.Error().Err(err).Msg("Local cache GC failed")
	case rewritten:
		metrics.LocalCacheGCRuns.WithLabelValues("rewritten").Inc()
		logging.Debug().Msg("Local cache GC rewrote value log files")
	default:
		metrics.LocalCacheGCRuns.WithLabelValues("nothing").Inc()
	}
}
