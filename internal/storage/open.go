package storage

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/internal/config"
	"github.com/dfryer1193/localblog/shared/db/sqlite"
	"github.com/dfryer1193/localblog/shared/kv"
	"github.com/dfryer1193/localblog/shared/kv/memkv"
	"github.com/dfryer1193/localblog/shared/kv/pgkv"
	"github.com/dfryer1193/localblog/shared/kv/rediskv"
	"github.com/dfryer1193/localblog/shared/kv/s3kv"
	"github.com/dfryer1193/localblog/shared/kv/sqlkv"
)

// Open connects the key-value backend selected by cfg.Store.
func Open(ctx context.Context, cfg config.Config) (kv.Store, error) {
	var (
		store kv.Store
		err   error
	)

	switch cfg.Store {
	case config.StoreMemory:
		store = memkv.New()
	case config.StoreSQLite:
		store, err = openSQLite(cfg.SQLite)
	case config.StorePostgres:
		store, err = pgkv.Open(ctx, cfg.Postgres.DSN)
	case config.StoreRedis:
		store, err = rediskv.Open(ctx, rediskv.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.KeyPrefix,
		})
	case config.StoreS3:
		store, err = s3kv.Open(ctx, cfg.S3.Bucket, cfg.S3.Prefix)
	default:
		return nil, fmt.Errorf("unknown store %q", cfg.Store)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.Store, err)
	}

	log.Info().Str("store", cfg.Store).Msg("Opened post store")
	return store, nil
}

func openSQLite(cfg sqlite.SQLiteConfig) (kv.Store, error) {
	database := sqlite.NewSQLiteDB(&cfg)
	if err := database.Connect(); err != nil {
		return nil, err
	}
	return sqlkv.New(database), nil
}
