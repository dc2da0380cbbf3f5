package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"finergy-service/internal/docstore"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store keeps documents in a single JSONB table keyed by (collection, id).
// Merge runs as a read-modify-write inside one transaction so concurrent
// writers to the same document serialize on the row lock.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Get(ctx context.Context, collection, id string) (docstore.Document, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM documents WHERE collection=$1 AND id=$2`, collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, docstore.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	var doc docstore.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	return doc, nil
}

func (s *Store) Merge(ctx context.Context, collection, id string, fields docstore.Document) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin merge: %w", err)
	}
	defer tx.Rollback(ctx)

	var raw []byte
	current := docstore.Document{}
	err = tx.QueryRow(ctx, `SELECT data FROM documents WHERE collection=$1 AND id=$2 FOR UPDATE`, collection, id).Scan(&raw)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		// first write creates the document
	case err != nil:
		return fmt.Errorf("read for merge: %w", err)
	default:
		if err := json.Unmarshal(raw, &current); err != nil {
			return fmt.Errorf("unmarshal for merge: %w", err)
		}
	}

	merged := docstore.DeepMerge(current, fields)
	data, err := json.Marshal(merged)
	if err != nil {
		return fmt.Errorf("marshal merged document: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3::jsonb, now())
		ON CONFLICT (collection, id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		collection, id, string(data))
	if err != nil {
		return fmt.Errorf("write merged document: %w", err)
	}
	return tx.Commit(ctx)
}

func (s *Store) QueryEqual(ctx context.Context, collection string, fieldPath []string, value string) ([]docstore.Document, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM documents WHERE collection=$1 AND data #>> $2::text[] = $3`,
		collection, fieldPath, value)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var results []docstore.Document
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		var doc docstore.Document
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		results = append(results, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return results, nil
}
