package sqlkv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dfryer1193/localblog/shared/db"
	"github.com/dfryer1193/localblog/shared/kv"
)

var _ kv.Store = (*Store)(nil)

// Store implements kv.Store on the kv table of a SQL database (SQLite)
type Store struct {
	database db.Database
}

// New wraps a connected database. Closing the store closes the database.
func New(database db.Database) *Store {
	return &Store{database: database}
}

const getQuery = `SELECT value FROM kv WHERE key = ?`

func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := db.Conn(ctx, s.database).QueryRowContext(ctx, getQuery, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, kv.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %s: %w", key, err)
	}
	return value, nil
}

const setQuery = `
	INSERT INTO kv (key, value, updated_at)
	VALUES (?, ?, ?)
	ON CONFLICT(key) DO UPDATE SET
		value = excluded.value,
		updated_at = excluded.updated_at
`

func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if value == nil {
		value = []byte{}
	}

	_, err := db.Conn(ctx, s.database).ExecContext(ctx, setQuery, key, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to set key %s: %w", key, err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.database.Ping(ctx)
}

func (s *Store) Close() error {
	return s.database.Close()
}
