// internal/store/postgres.go
// Postgres-backed local store: one row per collection.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// PostgresStore persists each collection as a jsonb payload row.
type PostgresStore struct {
	db *sqlx.DB
}

func NewPostgresStore(db *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the collections table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS collections (
			name       TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create collections table: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection string) ([]byte, error) {
	var payload []byte
	query := `SELECT payload FROM collections WHERE name = $1`

	err := s.db.GetContext(ctx, &payload, query, collection)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection %s: %w", collection, err)
	}
	return payload, nil
}

func (s *PostgresStore) Set(ctx context.Context, collection string, payload []byte) error {
	query := `
		INSERT INTO collections (name, payload, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (name)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
	`
	if _, err := s.db.ExecContext(ctx, query, collection, payload); err != nil {
		return fmt.Errorf("failed to write collection %s: %w", collection, err)
	}
	return nil
}
