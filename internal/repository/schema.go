package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		role TEXT NOT NULL DEFAULT 'member',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL REFERENCES users(id),
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		priority TEXT NOT NULL DEFAULT 'medium',
		due_date TIMESTAMPTZ,
		status TEXT NOT NULL DEFAULT 'todo',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tasks_owner_created
		ON tasks (owner_id, created_at DESC)`,
}

// Migrate creates the tables if they do not exist yet.
func Migrate(ctx context.Context, db *pgxpool.Pool, logger *zap.Logger) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			logger.Error("Failed to apply schema statement", zap.Error(err))
			return err
		}
	}
	logger.Info("Database schema is up to date")
	return nil
}
