// Moodboard - Visual Content Discovery
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moodboard

package vectorstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/moodboard/internal/metrics"
	"github.com/tomtom215/moodboard/internal/models"
)

const (
	duckdbBackend = "duckdb"

	// maxDuckDBLimit caps a single query.
	maxDuckDBLimit = 10000
)

// DuckDBConfig configures the embedded DuckDB backend.
type DuckDBConfig struct {
	// Path is the database file. Empty or ":memory:" opens an in-memory database.
	Path string

	// Threads is the DuckDB worker thread count. Zero uses NumCPU.
	Threads int

	// MaxMemory is the DuckDB memory limit, e.g. "1GB". Empty leaves the default.
	MaxMemory string
}

const schema = `
CREATE TABLE IF NOT EXISTS content_items (
	id VARCHAR PRIMARY KEY,
	image_url VARCHAR NOT NULL,
	payload VARCHAR NOT NULL,
	embedding FLOAT[],
	dims INTEGER NOT NULL DEFAULT 0,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL
)`

// DuckDB stores items and embeddings in an embedded DuckDB database.
type DuckDB struct {
	conn   *sql.DB
	logger zerolog.Logger
}

var _ Store = (*DuckDB)(nil)

// NewDuckDB opens (or creates) the database and applies the schema.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDuckDB(ctx context.Context, cfg DuckDBConfig, logger zerolog.Logger) (*DuckDB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		dir := filepath.Dir(path)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	conn, err := sql.Open("duckdb", connString(path, cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if _, err := conn.ExecContext(ctx, schema); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	d := &DuckDB{
		conn:   conn,
		logger: logger.With().Str("component", "vectorstore").Str("backend", duckdbBackend).Logger(),
	}
	d.logger.Info().Str("path", path).Msg("DuckDB vector store ready")
	return d, nil
}

// connString builds the DSN. Extension autoloading stays off; only core
// list functions are used.
func connString(path string, cfg DuckDBConfig) string {
	params := []string{
		"autoinstall_known_extensions=false",
		"autoload_known_extensions=false",
	}
	if cfg.Threads > 0 {
		params = append(params, "threads="+strconv.Itoa(cfg.Threads))
	}
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	return path + "?" + strings.Join(params, "&")
}

// SearchSimilar ranks items by list_cosine_similarity against vec. Ties are
// broken by recency.
func (d *DuckDB) SearchSimilar(ctx context.Context, vec []float32, limit int) (out []models.Neighbor, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(duckdbBackend, "search_similar", time.Since(start), err) }()

	if err := checkVector(vec); err != nil {
		return nil, fmt.Errorf("search similar: %w", err)
	}

	// The vector is inlined as a numeric list literal; checkVector guarantees
	// it holds only finite numbers.
	//nolint:gosec // G201: literal built from float32 values only
	query := fmt.Sprintf(`
		SELECT payload,
		       CAST(list_cosine_similarity(embedding, %s::FLOAT[]) AS DOUBLE) AS similarity
		FROM content_items
		WHERE embedding IS NOT NULL AND dims = ?
		ORDER BY similarity DESC, created_at DESC
		LIMIT ?`, vectorLiteral(vec))

	rows, err := d.conn.QueryContext(ctx, query, len(vec), normalizeLimit(limit, maxDuckDBLimit))
	if err != nil {
		return nil, unavailable("search similar", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var (
			payload string
			sim     sql.NullFloat64
		)
		if err := rows.Scan(&payload, &sim); err != nil {
			return nil, unavailable("search similar", err)
		}
		item, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, models.Neighbor{Item: item, Similarity: sim.Float64})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("search similar", err)
	}
	return out, nil
}

// Recent returns the newest items.
func (d *DuckDB) Recent(ctx context.Context, limit int) (out []models.ContentItem, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(duckdbBackend, "recent", time.Since(start), err) }()

	rows, err := d.conn.QueryContext(ctx, `
		SELECT payload FROM content_items
		ORDER BY created_at DESC, id
		LIMIT ?`, normalizeLimit(limit, maxDuckDBLimit))
	if err != nil {
		return nil, unavailable("recent", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, unavailable("recent", err)
		}
		item, err := decodePayload(payload)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("recent", err)
	}
	return out, nil
}

// Get returns one item by id.
func (d *DuckDB) Get(ctx context.Context, id string) (_ *models.ContentItem, err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(duckdbBackend, "get", time.Since(start), err) }()

	var payload string
	err = d.conn.QueryRowContext(ctx, `SELECT payload FROM content_items WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("item %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, unavailable("get", err)
	}

	item, err := decodePayload(payload)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Upsert inserts or replaces an item. Items without CreatedAt are stamped
// with the current time.
func (d *DuckDB) Upsert(ctx context.Context, item models.ContentItem, embedding []float32) (err error) {
	start := time.Now()
	defer func() { metrics.RecordDBQuery(duckdbBackend, "upsert", time.Since(start), err) }()

	if item.ID == "" {
		return fmt.Errorf("upsert: %w: missing id", models.ErrInvalidItem)
	}

	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("failed to encode item %s: %w", item.ID, err)
	}

	vec := "NULL"
	if len(embedding) > 0 {
		if err := checkVector(embedding); err != nil {
			return fmt.Errorf("upsert %s: %w", item.ID, err)
		}
		vec = vectorLiteral(embedding) + "::FLOAT[]"
	}

	//nolint:gosec // G201: literal built from float32 values only
	stmt := fmt.Sprintf(`
		INSERT INTO content_items (id, image_url, payload, embedding, dims, created_at, updated_at)
		VALUES (?, ?, ?, %s, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			image_url = excluded.image_url,
			payload = excluded.payload,
			embedding = excluded.embedding,
			dims = excluded.dims,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`, vec)

	_, err = d.conn.ExecContext(ctx, stmt,
		item.ID, item.ImageURL, string(payload), len(embedding), item.CreatedAt, now)
	if err != nil {
		return unavailable("upsert", err)
	}
	return nil
}

// Ping checks that the database answers.
func (d *DuckDB) Ping(ctx context.Context) error {
	if err := d.conn.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

// Close closes the database.
func (d *DuckDB) Close() error {
	return d.conn.Close()
}

// vectorLiteral renders vec as a DuckDB list literal, e.g. "[0.1,0.2]".
func vectorLiteral(vec []float32) string {
	var b strings.Builder
	b.Grow(len(vec) * 10)
	b.WriteByte('[')
	for i, v := range vec {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'g', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// checkVector rejects empty vectors and non-finite components.
func checkVector(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector", models.ErrInvalidItem)
	}
	for i, v := range vec {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite vector component at %d", models.ErrInvalidItem, i)
		}
	}
	return nil
}

func decodePayload(payload string) (models.ContentItem, error) {
	var item models.ContentItem
	if err := json.Unmarshal([]byte(payload), &item); err != nil {
		return models.ContentItem{}, fmt.Errorf("decode item: %w: %w", models.ErrMalformedResponse, err)
	}
	return item, nil
}

func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
