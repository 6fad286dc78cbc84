// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/moodboard/internal/localcache"
)

var (
	_ suture.Service = (*GCService)(nil)
	_ suture.Service = (*IngestService)(nil)
	_ StartStopper   = (*localcache.GCLoop)(nil)
)

type fakeLoop struct {
	mu       sync.Mutex
	startErr error
	running  bool
	starts   int
	stops    int
}

func (f *fakeLoop) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.starts++
	if f.startErr != nil {
		return f.startErr
	}
	f.running = true
	return nil
}

func (f *fakeLoop) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stops++
	f.running = false
}

func (f *fakeLoop) IsRunning() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.running
}

func TestGCService_Serve(t *testing.T) {
	t.Parallel()

	t.Run("start failure", func(t *testing.T) {
		t.Parallel()

		startErr := errors.New("store closed")
		loop := &fakeLoop{startErr: startErr}
		err := NewGCService(loop).Serve(context.Background())
		if !errors.Is(err, startErr) {
			t.Errorf("Serve() = %v, want %v", err, startErr)
		}
		if loop.stops != 0 {
			t.Errorf("stops = %d, want 0", loop.stops)
		}
	})

	t.Run("stops on cancel", func(t *testing.T) {
		t.Parallel()

		loop := &fakeLoop{}
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := NewGCService(loop).Serve(ctx)
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("Serve() = %v, want context.DeadlineExceeded", err)
		}
		if loop.starts != 1 || loop.stops != 1 || loop.IsRunning() {
			t.Errorf("starts = %d, stops = %d, running = %v", loop.starts, loop.stops, loop.IsRunning())
		}
	})

	t.Run("local cache loop", func(t *testing.T) {
		t.Parallel()

		store, err := localcache.Open(localcache.Config{Dir: t.TempDir(), GCInterval: 5 * time.Millisecond})
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		defer store.Close()

		loop := localcache.NewGCLoop(store)
		svc := NewGCService(loop)
		if svc.String() != "localcache-gc" {
			t.Errorf("String() = %q", svc.String())
		}

		ctx, cancel := context.WithCancel(context.Background())
		errCh := make(chan error, 1)
		go func() { errCh <- svc.Serve(ctx) }()

		deadline := time.Now().Add(2 * time.Second)
		for loop.LastRun().IsZero() && time.Now().Before(deadline) {
			time.Sleep(5 * time.Millisecond)
		}
		if loop.LastRun().IsZero() {
			t.Error("GC never ran under the service")
		}

		cancel()
		if err := <-errCh; !errors.Is(err, context.Canceled) {
			t.Errorf("Serve() = %v, want context.Canceled", err)
		}
		if loop.IsRunning() {
			t.Error("loop still running after Serve returned")
		}
	})
}

type fakeRunner struct {
	runErr   error
	closeErr error
	exitNow  bool
	closed   atomic.Bool
}

func (f *fakeRunner) Run(ctx context.Context) error {
	if f.runErr != nil || f.exitNow {
		return f.runErr
	}
	<-ctx.Done()
	return nil
}

func (f *fakeRunner) Close() error {
	f.closed.Store(true)
	return f.closeErr
}

func TestIngestService_Serve(t *testing.T) {
	t.Parallel()

	runErr := errors.New("nats: connection closed")
	closeErr := errors.New("close failed")
	buildErr := errors.New("no servers available")

	tests := []struct {
		name     string
		runner   *fakeRunner
		buildErr error
		cancel   bool
		wantErr  error
	}{
		{name: "canceled", runner: &fakeRunner{}, cancel: true, wantErr: context.Canceled},
		{name: "run failure", runner: &fakeRunner{runErr: runErr}, wantErr: runErr},
		{name: "close failure", runner: &fakeRunner{exitNow: true, closeErr: closeErr}, wantErr: closeErr},
		{name: "unexpected stop", runner: &fakeRunner{exitNow: true}, wantErr: errRunnerStopped},
		{name: "build failure", buildErr: buildErr, wantErr: buildErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := NewIngestService(func(context.Context) (Runner, error) {
				if tt.buildErr != nil {
					return nil, tt.buildErr
				}
				return tt.runner, nil
			})

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if tt.cancel {
				time.AfterFunc(10*time.Millisecond, cancel)
			}

			err := svc.Serve(ctx)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Serve() = %v, want %v", err, tt.wantErr)
			}
			if tt.runner != nil && !tt.runner.closed.Load() {
				t.Error("runner was not closed")
			}
		})
	}
}

func TestIngestService_RebuildsOnRestart(t *testing.T) {
	t.Parallel()

	var builds atomic.Int32
	svc := NewIngestService(func(context.Context) (Runner, error) {
		if builds.Add(1) < 3 {
			return &fakeRunner{exitNow: true}, nil
		}
		return &fakeRunner{}, nil
	})
	if svc.String() != "ingest-pipeline" {
		t.Errorf("String() = %q", svc.String())
	}

	sup := suture.New("test-ingest", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   5 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := sup.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for builds.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if builds.Load() < 3 {
		t.Errorf("builds = %d, want at least 3", builds.Load())
	}
}
