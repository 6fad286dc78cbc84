// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

// Package ingest consumes content items produced by the external ingestion
// pipeline.
//
// Each message on the content.ingested topic carries one Event:
//
//	{"item": {...ContentItem...}, "embedding": [0.12, -0.4, ...]}
//
// The Consumer normalizes and validates the item, appends it to the local
// cache and, when an embedding is present, upserts it into the vector
// datastore. Messages that can never succeed (undecodable payloads, invalid
// items) are acknowledged and dropped; datastore outages are returned as
// errors so the router's Retry middleware redelivers them.
//
// Messages arrive through a watermill Router fed by a NATS JetStream
// subscriber (NewSubscriber); tests feed the same Router from an in-process
// gochannel pub/sub.
package ingest
