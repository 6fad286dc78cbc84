// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package localcache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/moodboard/internal/logging"
	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// Key layout:
//
//	item:<20-digit sequence>:<id>  -> JSON item, one per append
//	id:<id>                        -> item key of the latest append
const (
	prefixItem  = "item:"
	prefixID    = "id:"
	sequenceKey = "meta:sequence"

	sequenceBandwidth = 100
)

// Errors
var (
	// ErrClosed is returned after Close.
	ErrClosed = errors.New("local cache is closed")
)

// Config configures the local cache.
type Config struct {
	// Dir is the Badger directory. Ignored when InMemory is set.
	Dir string

	// InMemory keeps everything in RAM; used in tests and ephemeral deployments.
	InMemory bool

	// SyncWrites fsyncs every append.
	SyncWrites bool

	// GCInterval is how often the value log GC runs.
	GCInterval time.Duration

	// GCRatio is the discard ratio passed to RunValueLogGC.
	GCRatio float64
}

// DefaultConfig returns production defaults for dir.
func DefaultConfig(dir string) Config {
	return Config{
		Dir:        dir,
		SyncWrites: true,
		GCInterval: 10 * time.Minute,
		GCRatio:    0.5,
	}
}

// Store is an append-only item log backed by BadgerDB. It never depends on
// a network service, which makes it the last fallback of the retrieval path.
type Store struct {
	db     *badger.DB
	seq    *badger.Sequence
	config Config
	count  atomic.Int64

	mu     sync.RWMutex
	closed bool
}

// Open opens (or creates) the cache.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, fmt.Errorf("local cache: dir is required unless in-memory")
	}
	if cfg.GCRatio <= 0 || cfg.GCRatio >= 1 {
		cfg.GCRatio = 0.5
	}

	opts := badger.DefaultOptions(cfg.Dir)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	seq, err := db.GetSequence([]byte(sequenceKey), sequenceBandwidth)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open sequence: %w", err)
	}

	s := &Store{db: db, seq: seq, config: cfg}

	n, err := s.countItems()
	if err != nil {
		_ = seq.Release()
		_ = db.Close()
		return nil, fmt.Errorf("count items: %w", err)
	}
	s.count.Store(n)
	metrics.LocalCacheEntries.Set(float64(n))

	logging.Info().
		Str("dir", cfg.Dir).
		Bool("in_memory", cfg.InMemory).
		Int64("items", n).
		Msg("Local cache opened")
	return s, nil
}

// Append stores a copy of item. Appending an existing id adds a new entry;
// Get returns the latest one and All returns every entry.
func (s *Store) Append(ctx context.Context, item models.ContentItem) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if item.ID == "" {
		return fmt.Errorf("append: %w: missing id", models.ErrInvalidItem)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}

	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("marshal item: %w", err)
	}

	n, err := s.seq.Next()
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	key := itemKey(n, item.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(key, data); err != nil {
			return err
		}
		return txn.Set([]byte(prefixID+item.ID), key)
	})
	if err != nil {
		return fmt.Errorf("write to BadgerDB: %w", err)
	}

	metrics.LocalCacheEntries.Set(float64(s.count.Add(1)))
	return nil
}

// All returns every entry in insertion order.
func (s *Store) All(ctx context.Context) ([]models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	items := make([]models.ContentItem, 0, s.count.Load())
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixItem)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			entry := it.Item()
			var item models.ContentItem
			err := entry.Value(func(val []byte) error {
				return json.Unmarshal(val, &item)
			})
			if err != nil {
				logging.Warn().Err(err).Str("key", string(entry.Key())).Msg("Local cache failed to unmarshal item")
				continue
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("iterate items: %w", err)
	}
	return items, nil
}

// Get returns the latest entry for id, or an error wrapping models.ErrNotFound.
func (s *Store) Get(_ context.Context, id string) (*models.ContentItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	var item models.ContentItem
	err := s.db.View(func(txn *badger.Txn) error {
		ref, err := txn.Get([]byte(prefixID + id))
		if err != nil {
			return err
		}
		key, err := ref.ValueCopy(nil)
		if err != nil {
			return err
		}
		entry, err := txn.Get(key)
		if err != nil {
			return err
		}
		return entry.Value(func(val []byte) error {
			return json.Unmarshal(val, &item)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("read item %s: %w", id, err)
	}
	return &item, nil
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return int(s.count.Load())
}

// RunGC runs value log garbage collection until nothing is left to rewrite.
// It reports whether any file was rewritten.
func (s *Store) RunGC() (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return false, ErrClosed
	}
	if s.config.InMemory {
		return false, nil
	}

	rewritten := false
	for {
		err := s.db.RunValueLogGC(s.config.GCRatio)
		if errors.Is(err, badger.ErrNoRewrite) {
			return rewritten, nil
		}
		if err != nil {
			return rewritten, fmt.Errorf("run GC: %w", err)
		}
		rewritten = true
	}
}

// Config returns the cache configuration.
func (s *Store) Config() Config {
	return s.config
}

// Close releases the sequence and closes BadgerDB. It is idempotent.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	var errs []error
	if err := s.seq.Release(); err != nil {
		errs = append(errs, fmt.Errorf("release sequence: %w", err))
	}
	if err := s.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close BadgerDB: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Store) countItems() (int64, error) {
	var n int64
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixItem)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// itemKey zero-pads the sequence so lexical order equals insertion order.
func itemKey(seq uint64, id string) []byte {
	s := strconv.FormatUint(seq, 10)
	pad := 20 - len(s)
	buf := make([]byte, 0, len(prefixItem)+20+1+len(id))
	buf = append(buf, prefixItem...)
	for range pad {
		buf = append(buf, '0')
	}
	buf = append(buf, s...)
	buf = append(buf, ':')
	buf = append(buf, id...)
	return buf
}
