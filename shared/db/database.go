package db

import (
	"context"
	"database/sql"
)

// Database owns a *sql.DB connection and its lifecycle.
// Connect must succeed before DB or Ping are used.
type Database interface {
	Connect() error
	Ping(ctx context.Context) error
	Close() error
	DB() *sql.DB
}
