package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"foodintel/logger"
)

// Connect sets up the database connection pool and checks it answers.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}

	logger.Default().Info().Msg("Successfully connected to the database")
	return pool, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS reports (
    id         UUID PRIMARY KEY,
    kind       TEXT NOT NULL,
    title      TEXT NOT NULL,
    keyword    TEXT NOT NULL DEFAULT '',
    model      TEXT NOT NULL DEFAULT '',
    body       TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS reports_created_at_idx ON reports (created_at DESC);
`

// Migrate creates the archive tables when they do not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}
