// Package db provides SQLite connectivity, migrations, and a key-value table for bughunt state.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// Store persists opaque values by key in the kv table.
type Store struct {
	db *sql.DB
}

// NewStore creates a key-value store over an opened database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens the database at path and wraps it in a Store.
func OpenStore(path string) (*Store, error) {
	conn, err := Open(path)
	if err != nil {
		return nil, err
	}
	return NewStore(conn), nil
}

// Get returns the value for key, or nil if the key is absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	row := s.db.QueryRowContext(ctx, `SELECT value FROM kv WHERE key=?`, key)
	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("read key %q: %w", key, err)
	}
	return value, nil
}

// Set stores value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}
	now := time.Now().UTC().Format(time.RFC3339)
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin set %q: %w", key, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value=excluded.value, updated_at=excluded.updated_at`,
		key, value, now); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("upsert key %q: %w", key, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit set %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
