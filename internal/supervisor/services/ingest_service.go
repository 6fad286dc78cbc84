// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package services

import (
	"context"
	"errors"
	"fmt"
)

// Runner is a message pipeline that blocks in Run until stopped.
//
// Satisfied by *ingest.Pipeline.
type Runner interface {
	Run(ctx context.Context) error
	Close() error
}

// RunnerFactory builds a fresh Runner. Watermill routers cannot be run
// twice, so every supervised restart calls the factory again.
type RunnerFactory func(ctx context.Context) (Runner, error)

// errRunnerStopped is returned when a runner exits while the service
// context is still live, so suture treats it as a crash and restarts.
var errRunnerStopped = errors.New("ingest pipeline stopped unexpectedly")

// IngestService keeps the item ingest pipeline running.
//
//	svc := services.NewIngestService(func(ctx context.Context) (services.Runner, error) {
//	    return buildPipeline(ctx, cfg)
//	})
//	tree.AddIngestService(svc)
type IngestService struct {
	factory RunnerFactory
	name    string
}

// NewIngestService wraps factory.
func NewIngestService(factory RunnerFactory) *IngestService {
	return &IngestService{
		factory: factory,
		name:    "ingest-pipeline",
	}
}

// Serve implements suture.Service.
func (s *IngestService) Serve(ctx context.Context) error {
	runner, err := s.factory(ctx)
	if err != nil {
		return fmt.Errorf("ingest pipeline build failed: %w", err)
	}

	runErr := runner.Run(ctx)
	closeErr := runner.Close()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr != nil {
		return fmt.Errorf("ingest pipeline failed: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("ingest pipeline close failed: %w", closeErr)
	}
	return errRunnerStopped
}

// String implements fmt.Stringer.
func (s *IngestService) String() string {
	return s.name
}
