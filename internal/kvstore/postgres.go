package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// queryTimeout is the deadline for each read/write query.
const queryTimeout = 5 * time.Second

const createTable = `
	CREATE TABLE IF NOT EXISTS kv_store (
		key        TEXT PRIMARY KEY,
		value      TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`

// Postgres is a Store backed by a single kv_store table.
type Postgres struct {
	pool *pgxpool.Pool
}

// NewPool opens a connection pool with conservative sizing.
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}
	cfg.MaxConns = 5
	cfg.MinConns = 0
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.HealthCheckPeriod = 30 * time.Second
	cfg.ConnConfig.RuntimeParams["application_name"] = "freightbench"
	cfg.ConnConfig.RuntimeParams["timezone"] = "UTC"

	return pgxpool.NewWithConfig(ctx, cfg)
}

// NewPostgres creates the kv_store table if needed and returns the store.
func NewPostgres(ctx context.Context, pool *pgxpool.Pool) (*Postgres, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	if _, err := pool.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("kvstore: migrate: %w", err)
	}
	return &Postgres{pool: pool}, nil
}

func (s *Postgres) Get(ctx context.Context, key string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("kvstore: get: %w", err)
	}
	return value, nil
}

func (s *Postgres) Set(ctx context.Context, key, value string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	const q = `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`

	if _, err := s.pool.Exec(ctx, q, key, value); err != nil {
		return fmt.Errorf("kvstore: set: %w", err)
	}
	return nil
}

func (s *Postgres) SetIfAbsent(ctx context.Context, key, value string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO kv_store (key, value) VALUES ($1, $2) ON CONFLICT (key) DO NOTHING`,
		key, value)
	if err != nil {
		return false, fmt.Errorf("kvstore: set if absent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// incrementBelow inserts the counter at 1 or bumps it in place, in both
// cases only while it is below the limit. No row comes back when the
// limit is already reached.
const incrementBelow = `
	INSERT INTO kv_store (key, value, updated_at)
	SELECT $1, '1', NOW() WHERE $2::int > 0
	ON CONFLICT (key)
	DO UPDATE SET value = (kv_store.value::int + 1)::text, updated_at = NOW()
	WHERE kv_store.value::int < $2::int
	RETURNING value`

func (s *Postgres) IncrementBelow(ctx context.Context, key string, limit int) (int, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var value string
	err := s.pool.QueryRow(ctx, incrementBelow, key, limit).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		current, err := s.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			return 0, false, nil
		}
		if err != nil {
			return 0, false, err
		}
		n, err := ParseCounter(current)
		return n, false, err
	}
	if err != nil {
		return 0, false, fmt.Errorf("kvstore: increment: %w", err)
	}
	n, err := ParseCounter(value)
	return n, err == nil, err
}

var _ Store = (*Postgres)(nil)
