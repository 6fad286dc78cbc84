// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package services

import (
	"context"
	"fmt"
)

// StartStopper matches background loops with a Start/Stop lifecycle.
//
// Satisfied by *localcache.GCLoop.
type StartStopper interface {
	Start(ctx context.Context) error
	Stop()
	IsRunning() bool
}

// GCService runs the local cache's value-log garbage collector.
//
//	loop := localcache.NewGCLoop(cache)
//	tree.AddDataService(services.NewGCService(loop))
type GCService struct {
	loop StartStopper
	name string
}

// NewGCService wraps loop.
func NewGCService(loop StartStopper) *GCService {
	return &GCService{
		loop: loop,
		name: "localcache-gc",
	}
}

// Serve implements suture.Service. A failed Start is returned so the
// supervisor restarts the service with backoff.
func (s *GCService) Serve(ctx context.Context) error {
	if err := s.loop.Start(ctx); err != nil {
		return fmt.Errorf("local cache GC start failed: %w", err)
	}

	<-ctx.Done()

	// Blocks until the loop goroutine exits.
	s.loop.Stop()

	return ctx.Err()
}

// String implements fmt.Stringer.
func (s *GCService) String() string {
	return s.name
}
