package vectordb

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of rows queued per insert batch.
	DefaultBatchSize = 100

	// insertConcurrency bounds how many insert batches are in flight at once.
	insertConcurrency = 4
)

// ErrUnknownCollection is returned by Stats and Query for collections that
// were never saved.
var ErrUnknownCollection = errors.New("vectordb: unknown collection")

const ddl = `
CREATE EXTENSION IF NOT EXISTS vector;

CREATE TABLE IF NOT EXISTS collections (
    name        TEXT         PRIMARY KEY,
    dimensions  INT          NOT NULL,
    created_at  TIMESTAMPTZ  NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS documents (
    id          BIGSERIAL    PRIMARY KEY,
    collection  TEXT         NOT NULL REFERENCES collections (name) ON DELETE CASCADE,
    idx         INT          NOT NULL,
    content     TEXT         NOT NULL,
    embedding   vector       NOT NULL,
    source      TEXT         NOT NULL DEFAULT '',
    length      INT          NOT NULL,
    UNIQUE (collection, idx)
);

CREATE INDEX IF NOT EXISTS idx_documents_collection
    ON documents (collection);
`

// CollectionInfo summarizes one stored collection.
type CollectionInfo struct {
	Name       string
	Documents  int64
	Dimensions int
}

// CollectionStats extends CollectionInfo with content statistics.
type CollectionStats struct {
	CollectionInfo
	AvgLength float64
}

// QueryResult is one ranked document from a similarity query. Distance is
// the cosine distance to the query vector; smaller is more similar.
type QueryResult struct {
	Content  string
	Source   string
	Distance float64
}

// Store persists embedded documents in PostgreSQL. All operations are safe
// for concurrent use.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore connects to the database at dsn, registers pgvector types on
// every connection, and ensures the schema exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("vectordb: parse dsn: %w", err)
	}
	cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("vectordb: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("vectordb: ping: %w", err)
	}

	if _, err := pool.Exec(ctx, ddl); err != nil {
		pool.Close()
		return nil, fmt.Errorf("vectordb: migrate: %w", err)
	}

	return &Store{pool: pool}, nil
}

// Close releases all pooled connections.
func (s *Store) Close() {
	s.pool.Close()
}

// SaveCSV loads the CSV file at path and stores its records under
// collection. Returns the number of stored documents.
func (s *Store) SaveCSV(ctx context.Context, path, collection string, batchSize int) (int, error) {
	records, err := LoadCSV(path)
	if err != nil {
		return 0, err
	}
	return s.SaveRecords(ctx, collection, filepath.Base(path), records, batchSize)
}

// SaveRecords stores records under collection, replacing documents that
// share a (collection, idx) slot. Batches are inserted concurrently; on any
// failure the first error is returned and remaining batches are abandoned.
func (s *Store) SaveRecords(ctx context.Context, collection, source string, records []Record, batchSize int) (int, error) {
	if collection == "" {
		return 0, fmt.Errorf("vectordb: collection name must not be empty")
	}
	if len(records) == 0 {
		return 0, fmt.Errorf("vectordb: no records to save")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	dims := len(records[0].Embedding)
	for i, rec := range records {
		if len(rec.Embedding) != dims {
			return 0, fmt.Errorf("vectordb: record %d has %d dimensions, want %d", i, len(rec.Embedding), dims)
		}
	}

	const upsertCollection = `
		INSERT INTO collections (name, dimensions)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET dimensions = EXCLUDED.dimensions`
	if _, err := s.pool.Exec(ctx, upsertCollection, collection, dims); err != nil {
		return 0, fmt.Errorf("vectordb: upsert collection %s: %w", collection, err)
	}

	const insertDocument = `
		INSERT INTO documents (collection, idx, content, embedding, source, length)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (collection, idx) DO UPDATE SET
		    content   = EXCLUDED.content,
		    embedding = EXCLUDED.embedding,
		    source    = EXCLUDED.source,
		    length    = EXCLUDED.length`

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(insertConcurrency)

	for start := 0; start < len(records); start += batchSize {
		end := min(start+batchSize, len(records))
		base, batch := start, records[start:end]

		g.Go(func() error {
			b := &pgx.Batch{}
			for i, rec := range batch {
				b.Queue(insertDocument,
					collection,
					base+i,
					rec.Text,
					pgvector.NewVector(rec.Embedding),
					source,
					len(rec.Text),
				)
			}
			if err := s.pool.SendBatch(ctx, b).Close(); err != nil {
				return fmt.Errorf("vectordb: insert batch at %d: %w", base, err)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(records), nil
}

// Collections lists all stored collections with their document counts.
func (s *Store) Collections(ctx context.Context) ([]CollectionInfo, error) {
	const q = `
		SELECT c.name, c.dimensions, count(d.id)
		FROM   collections c
		LEFT JOIN documents d ON d.collection = c.name
		GROUP  BY c.name, c.dimensions
		ORDER  BY c.name`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("vectordb: list collections: %w", err)
	}

	infos, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (CollectionInfo, error) {
		var info CollectionInfo
		err := row.Scan(&info.Name, &info.Dimensions, &info.Documents)
		return info, err
	})
	if err != nil {
		return nil, fmt.Errorf("vectordb: scan collections: %w", err)
	}
	return infos, nil
}

// Stats returns document count, dimensions, and average content length for
// one collection.
func (s *Store) Stats(ctx context.Context, collection string) (CollectionStats, error) {
	const q = `
		SELECT c.name, c.dimensions, count(d.id), COALESCE(avg(d.length), 0)
		FROM   collections c
		LEFT JOIN documents d ON d.collection = c.name
		WHERE  c.name = $1
		GROUP  BY c.name, c.dimensions`

	var stats CollectionStats
	err := s.pool.QueryRow(ctx, q, collection).Scan(
		&stats.Name, &stats.Dimensions, &stats.Documents, &stats.AvgLength)
	if errors.Is(err, pgx.ErrNoRows) {
		return CollectionStats{}, fmt.Errorf("%w: %s", ErrUnknownCollection, collection)
	}
	if err != nil {
		return CollectionStats{}, fmt.Errorf("vectordb: stats for %s: %w", collection, err)
	}
	return stats, nil
}

// Query returns the topK documents in collection closest to embedding,
// ordered by ascending cosine distance.
func (s *Store) Query(ctx context.Context, collection string, embedding []float32, topK int) ([]QueryResult, error) {
	if topK <= 0 {
		topK = 5
	}
	if _, err := s.Stats(ctx, collection); err != nil {
		return nil, err
	}

	const q = `
		SELECT content, source, embedding <=> $1 AS distance
		FROM   documents
		WHERE  collection = $2
		ORDER  BY distance
		LIMIT  $3`

	rows, err := s.pool.Query(ctx, q, pgvector.NewVector(embedding), collection, topK)
	if err != nil {
		return nil, fmt.Errorf("vectordb: query %s: %w", collection, err)
	}

	results, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (QueryResult, error) {
		var r QueryResult
		err := row.Scan(&r.Content, &r.Source, &r.Distance)
		return r, err
	})
	if err != nil {
		return nil, fmt.Errorf("vectordb: scan query results: %w", err)
	}
	return results, nil
}
