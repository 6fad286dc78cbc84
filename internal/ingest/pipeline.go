// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package ingest

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Pipeline is a Router bound to the subscriber and poison publisher it owns.
// A watermill Router cannot be restarted, so supervisors build a new
// Pipeline for every run.
type Pipeline struct {
	router     *Router
	subscriber message.Subscriber
	poison     message.Publisher
}

// NewPipeline wires consumer to topic. It takes ownership of subscriber and
// poison (which may be nil) and closes them in Close.
func NewPipeline(
	cfg RouterConfig,
	topic string,
	subscriber message.Subscriber,
	poison message.Publisher,
	consumer *Consumer,
	logger watermill.LoggerAdapter,
) (*Pipeline, error) {
	if subscriber == nil {
		return nil, errors.New("subscriber is required")
	}
	if consumer == nil {
		return nil, errors.New("consumer is required")
	}

	router, err := NewRouter(cfg, poison, logger)
	if err != nil {
		return nil, fmt.Errorf("create ingest router: %w", err)
	}
	router.AddConsumer(topic, subscriber, consumer)

	return &Pipeline{router: router, subscriber: subscriber, poison: poison}, nil
}

// Run processes messages until ctx is canceled or Close is called.
func (p *Pipeline) Run(ctx context.Context) error {
	return p.router.Run(ctx)
}

// Running returns a channel that closes once handlers are subscribed.
func (p *Pipeline) Running() <-chan struct{} {
	return p.router.Running()
}

// Close stops the router, then closes the subscriber and publisher.
func (p *Pipeline) Close() error {
	errs := []error{p.router.Close(), p.subscriber.Close()}
	if p.poison != nil {
		errs = append(errs, p.poison.Close())
	}
	return errors.Join(errs...)
}
