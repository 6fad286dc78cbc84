// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package ingest

import (
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moodboard/internal/models"
)

// Event is the payload of a content.ingested message.
type Event struct {
	Item      models.ContentItem `json:"item"`
	Embedding []float32          `json:"embedding,omitempty" validate:"omitempty,finite"`
}

// DecodeEvent parses a message payload.
func DecodeEvent(payload []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("decode ingest event: %w", err)
	}
	return ev, nil
}

// NewMessage encodes ev as a watermill message with a fresh UUID. The
// item id is copied into the metadata for log correlation.
func NewMessage(ev Event) (*message.Message, error) {
	payload, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode ingest event: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set(metadataItemID, ev.Item.ID)
	return msg, nil
}
