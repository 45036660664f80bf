package postgres

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	ierr "github.com/upassistify/upassistify/internal/errors"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

const createMigrationsTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version     TEXT PRIMARY KEY,
    applied_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate applies every embedded migration that has not been recorded yet.
// Each file runs in its own transaction.
func (db *DB) Migrate(ctx context.Context) ([]string, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create migrations table").
			Mark(ierr.ErrDatabase)
	}

	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	sort.Strings(names)

	applied := make([]string, 0, len(names))
	for _, name := range names {
		var exists bool
		if err := db.GetContext(ctx, &exists,
			`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE version = $1)`, name); err != nil {
			return applied, ierr.WithError(err).Mark(ierr.ErrDatabase)
		}
		if exists {
			continue
		}

		body, err := migrationFiles.ReadFile(name)
		if err != nil {
			return applied, ierr.WithError(err).Mark(ierr.ErrSystem)
		}

		err = db.WithTx(ctx, func(ctx context.Context) error {
			q := db.GetQuerier(ctx)
			if _, err := q.ExecContext(ctx, string(body)); err != nil {
				return err
			}
			_, err := q.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, name)
			return err
		})
		if err != nil {
			return applied, ierr.WithError(err).
				WithHintf("Failed to apply migration %s", name).
				Mark(ierr.ErrDatabase)
		}

		db.logger.Infow("applied migration", "version", name)
		applied = append(applied, name)
	}

	return applied, nil
}
