// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
)

var errSimulated = errors.New("simulated failure")

// fakeService is a suture.Service that fails a set number of times before
// blocking on its context. failAlways makes it crash loop.
type fakeService struct {
	name       string
	failures   int32
	failAlways bool

	starts  atomic.Int32
	running atomic.Int32
	calls   atomic.Int32
}

func newFakeService(name string) *fakeService {
	return &fakeService{name: name}
}

func (f *fakeService) Serve(ctx context.Context) error {
	f.starts.Add(1)
	if f.failAlways || f.calls.Add(1) <= f.failures {
		return errSimulated
	}

	f.running.Add(1)
	defer f.running.Add(-1)
	<-ctx.Done()
	return ctx.Err()
}

func (f *fakeService) String() string { return f.name }

func (f *fakeService) Starts() int32 { return f.starts.Load() }

func (f *fakeService) Running() bool { return f.running.Load() > 0 }
