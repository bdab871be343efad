package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"odinpos/infrastructure/sqlite"
	"odinpos/models"
)

// SQLiteStore persists values in the kv_entries table.
type SQLiteStore struct {
	db *sqlite.DB
}

func NewSQLiteStore(db *sqlite.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	var entry models.KVEntry
	err := s.db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&entry).Where("entry_key = ?", key).Limit(1).Scan(ctx)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("kv get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.ExecContext(ctx, `
INSERT INTO kv_entries (entry_key, entry_value, updated_at)
VALUES (?, ?, CURRENT_TIMESTAMP)
ON CONFLICT(entry_key) DO UPDATE SET
  entry_value = excluded.entry_value,
  updated_at = CURRENT_TIMESTAMP`, key, value)
		return err
	})
	if err != nil {
		return fmt.Errorf("kv set %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	err := s.db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewDelete().Model((*models.KVEntry)(nil)).Where("entry_key = ?", key).Exec(ctx)
		return err
	})
	if err != nil {
		return fmt.Errorf("kv remove %s: %w", key, err)
	}
	return nil
}
