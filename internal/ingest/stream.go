// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package ingest

import (
	"context"
	"errors"
	"fmt"
	"time"

	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamConfig describes a JetStream stream. Stream names cannot contain
// dots, so streams are provisioned here rather than by watermill, which
// would name them after the topic.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	DuplicateWindow time.Duration
}

// JetStreamContext is the subset of jetstream.JetStream used to manage streams.
type JetStreamContext interface {
	Stream(ctx context.Context, name string) (jetstream.Stream, error)
	CreateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
	UpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// Streams returns the content stream and, when poisonTopic is set, its
// dead-letter stream.
func Streams(name, topic, poisonTopic string) []StreamConfig {
	streams := []StreamConfig{{
		Name:            name,
		Subjects:        []string{topic},
		MaxAge:          7 * 24 * time.Hour,
		DuplicateWindow: 2 * time.Minute,
	}}
	if poisonTopic != "" {
		streams = append(streams, StreamConfig{
			Name:     name + "_DLQ",
			Subjects: []string{poisonTopic},
			MaxAge:   30 * 24 * time.Hour,
		})
	}
	return streams
}

// EnsureStream creates the stream, or updates it when it already exists.
// It is idempotent.
func EnsureStream(ctx context.Context, js JetStreamContext, cfg StreamConfig) error {
	if cfg.Name == "" || len(cfg.Subjects) == 0 {
		return errors.New("stream name and subjects are required")
	}

	streamCfg := jetstream.StreamConfig{
		Name:       cfg.Name,
		Subjects:   cfg.Subjects,
		Retention:  jetstream.LimitsPolicy,
		MaxAge:     cfg.MaxAge,
		MaxBytes:   cfg.MaxBytes,
		Duplicates: cfg.DuplicateWindow,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
	}
	if streamCfg.MaxBytes == 0 {
		streamCfg.MaxBytes = -1
	}

	_, err := js.Stream(ctx, cfg.Name)
	switch {
	case err == nil:
		if _, err := js.UpdateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("update stream %s: %w", cfg.Name, err)
		}
		return nil
	case errors.Is(err, jetstream.ErrStreamNotFound):
		if _, err := js.CreateStream(ctx, streamCfg); err != nil {
			return fmt.Errorf("create stream %s: %w", cfg.Name, err)
		}
		return nil
	default:
		return fmt.Errorf("check stream %s: %w", cfg.Name, err)
	}
}

// EnsureStreams connects to url and ensures every stream exists.
func EnsureStreams(ctx context.Context, url string, streams ...StreamConfig) error {
	nc, err := natsgo.Connect(url)
	if err != nil {
		return fmt.Errorf("connect to NATS: %w", err)
	}
	defer nc.Close()

	js, err := jetstream.New(nc)
	if err != nil {
		return fmt.Errorf("create JetStream context: %w", err)
	}
	for _, s := range streams {
		if err := EnsureStream(ctx, js, s); err != nil {
			return err
		}
	}
	return nil
}
