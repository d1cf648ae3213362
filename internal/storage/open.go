package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
)

type Options struct {
	Driver      string
	Dir         string
	RedisURL    string
	DatabaseURL string
}

// Open builds the Store named by opts.Driver. The returned close func is never
// nil.
func Open(ctx context.Context, opts Options) (Store, func() error, error) {
	noop := func() error { return nil }

	switch opts.Driver {
	case DriverMemory:
		return NewMemStore(), noop, nil

	case DriverFile, "":
		s, err := NewFileStore(opts.Dir)
		if err != nil {
			return nil, noop, err
		}
		return s, noop, nil

	case DriverRedis:
		s, err := NewRedisStore(opts.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil

	case DriverPostgres:
		db, err := sql.Open("pgx", opts.DatabaseURL)
		if err != nil {
			return nil, noop, fmt.Errorf("open postgres: %w", err)
		}
		s := NewPostgresStore(db)
		if err := s.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, noop, fmt.Errorf("migrate kv_slots: %w", err)
		}
		return s, db.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
