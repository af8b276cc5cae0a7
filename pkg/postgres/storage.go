package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jaeyoung-onebird/workproof/pkg/storage"
)

// Storage implements storage.Storage on the client_storage table.
// Each environment writes under its own namespace.
type Storage struct {
	db        *DB
	namespace string
}

// NewStorage wraps db as a key/value store for the given environment
func NewStorage(db *DB, env string) *Storage {
	return &Storage{db: db, namespace: storage.Namespace(env)}
}

func (s *Storage) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := s.db.pool.QueryRow(ctx, `
		SELECT value FROM client_storage
		WHERE namespace = $1 AND key = $2
	`, s.namespace, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query %s: %w", key, err)
	}

	return value, true, nil
}

func (s *Storage) Set(ctx context.Context, key, value string) error {
	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO client_storage (namespace, key, value, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (namespace, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`, s.namespace, key, value)
	if err != nil {
		return fmt.Errorf("failed to upsert %s: %w", key, err)
	}

	return nil
}

func (s *Storage) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	_, err := s.db.pool.Exec(ctx, `
		DELETE FROM client_storage
		WHERE namespace = $1 AND key = ANY($2)
	`, s.namespace, keys)
	if err != nil {
		return fmt.Errorf("failed to delete keys: %w", err)
	}

	return nil
}
