// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package features

import (
	"encoding/hex"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

// Cache defaults.
const (
	DefaultCacheSize = 10000
	DefaultCacheTTL  = time.Hour
)

// CacheStats reports cache effectiveness.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

// Cache memoizes feature bundles. It is safe for concurrent use.
type Cache struct {
	lru    *expirable.LRU[string, Bundle]
	hits   atomic.Int64
	misses atomic.Int64
}

// NewCache creates a cache holding at most size bundles, each expiring after
// ttl. Non-positive values select the defaults.
func NewCache(size int, ttl time.Duration) *Cache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Cache{lru: expirable.NewLRU[string, Bundle](size, nil, ttl)}
}

// Get returns the cached bundle for item.
func (c *Cache) Get(item *models.ContentItem) (Bundle, bool) {
	b, ok := c.lru.Get(CacheKey(item))
	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	metrics.RecordFeatureCache(ok)
	return b, ok
}

// Add stores b for item.
func (c *Cache) Add(item *models.ContentItem, b Bundle) {
	c.lru.Add(CacheKey(item), b)
	metrics.FeatureCacheSize.Set(float64(c.lru.Len()))
}

// Len returns the number of live entries.
func (c *Cache) Len() int { return c.lru.Len() }

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
	metrics.FeatureCacheSize.Set(0)
}

// Stats returns hit/miss counters and the current size.
func (c *Cache) Stats() CacheStats {
	return CacheStats{Hits: c.hits.Load(), Misses: c.misses.Load(), Entries: c.lru.Len()}
}

// CacheKey identifies an item's feature bundle: the item ID plus a hash of
// every field that feeds extraction, so edited items miss the cache.
func CacheKey(item *models.ContentItem) string {
	var b strings.Builder
	for _, f := range []string{
		item.ImageURL, item.Title, item.Author, item.Category, item.Description, item.Platform,
		strings.Join(item.Tags, ","), strings.Join(item.Colors, ","),
		item.VisualStyle.Composition, item.VisualStyle.ColorTone, item.VisualStyle.Shapes, item.VisualStyle.Mood,
		strconv.FormatInt(item.Likes, 10), strconv.FormatInt(item.CreatedAt.Unix(), 10),
	} {
		b.WriteString(f)
		b.WriteByte(0)
	}
	sum := blake2b.Sum256([]byte(b.String()))
	return item.ID + ":" + hex.EncodeToString(sum[:12])
}
