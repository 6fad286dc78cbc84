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

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
	"github.com/tomtom215/moodboard/internal/validation"
)

const (
	metadataItemID = "item_id"

	// metadataCached marks a message whose item already reached the local
	// cache, so Retry redeliveries do not append it twice.
	metadataCached = "moodboard_cached"
)

// Rejection reasons recorded on ingest_messages_rejected_total.
const (
	reasonParse   = "parse"
	reasonInvalid = "invalid"
	reasonStore   = "store"
)

// Cache is the append-only local cache.
type Cache interface {
	Append(ctx context.Context, item models.ContentItem) error
}

// Upserter writes items with their embeddings into the vector datastore.
type Upserter interface {
	Upsert(ctx context.Context, item models.ContentItem, embedding []float32) error
}

// Consumer stores ingested items. It is safe for concurrent use.
type Consumer struct {
	cache  Cache
	store  Upserter
	logger zerolog.Logger
}

// NewConsumer creates a consumer. store may be nil, in which case items are
// only appended to the local cache.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewConsumer(cache Cache, store Upserter, logger zerolog.Logger) *Consumer {
	return &Consumer{
		cache:  cache,
		store:  store,
		logger: logger.With().Str("component", "ingest").Logger(),
	}
}

// Handle processes one message. It is a message.NoPublishHandlerFunc.
// A nil return acks the message; errors are left to the Retry middleware.
func (c *Consumer) Handle(msg *message.Message) error {
	start := time.Now()
	reason, err := c.handle(msg.Context(), msg)
	metrics.RecordIngest(time.Since(start), reason)

	log := c.logger.With().
		Str("message_uuid", msg.UUID).
		Str("item_id", msg.Metadata.Get(metadataItemID)).
		Logger()

	switch reason {
	case "":
		log.Debug().Msg("Ingested item stored")
		return nil
	case reasonParse, reasonInvalid:
		log.Warn().Err(err).Str("reason", reason).Msg("Dropping ingest message")
		return nil
	default:
		log.Error().Err(err).Str("reason", reason).Msg("Ingest message failed, will retry")
		return err
	}
}

func (c *Consumer) handle(ctx context.Context, msg *message.Message) (string, error) {
	ev, err := DecodeEvent(msg.Payload)
	if err != nil {
		return reasonParse, err
	}

	ev.Item.Normalize()
	if ev.Item.CreatedAt.IsZero() {
		ev.Item.CreatedAt = time.Now().UTC()
	}
	if verr := validation.ValidateStruct(&ev); verr != nil {
		return reasonInvalid, fmt.Errorf("%w: %w", models.ErrInvalidItem, verr)
	}
	item := ev.Item
	msg.Metadata.Set(metadataItemID, item.ID)

	if msg.Metadata.Get(metadataCached) == "" {
		if err := c.cache.Append(ctx, item); err != nil {
			return reasonStore, fmt.Errorf("append to local cache: %w", err)
		}
		msg.Metadata.Set(metadataCached, "true")
	}

	if c.store == nil || len(ev.Embedding) == 0 {
		return "", nil
	}
	if err := c.store.Upsert(ctx, item, ev.Embedding); err != nil {
		if errors.Is(err, models.ErrInvalidItem) {
			return reasonInvalid, err
		}
		return reasonStore, fmt.Errorf("upsert to datastore: %w", err)
	}
	return "", nil
}
