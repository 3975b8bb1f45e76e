package database

import (
	"context"
	"database/sql"
	"errors"

	_ "github.com/lib/pq"
	"taskboard/pkg/logger"
)

// Open creates the Postgres connection pool and verifies it with a ping.
func Open(ctx context.Context, databaseURL string, poolSize int) (*sql.DB, error) {
	if databaseURL == "" {
		return nil, errors.New("DATABASE_URL is not set")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	if poolSize <= 0 {
		poolSize = 10
	}
	db.SetMaxOpenConns(poolSize)
	db.SetMaxIdleConns(poolSize / 2)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	logger.Info(ctx, "Database pool initialized", "max_open", poolSize)
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS tasks (
	id         TEXT PRIMARY KEY,
	title      TEXT NOT NULL CHECK (title <> ''),
	priority   TEXT NOT NULL DEFAULT 'Top Priority',
	deadline   DATE NOT NULL,
	completed  BOOLEAN NOT NULL DEFAULT FALSE,
	user_id    TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS tasks_user_created_idx ON tasks (user_id, created_at DESC);
`

// MigrateOrCreateSchema creates the tasks table if it does not exist.
func MigrateOrCreateSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		logger.Error(ctx, "Schema migration failed", "error", err)
		return err
	}
	return nil
}
