package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BizKey/webaggregator/internal/storage/postgres"
)

const createVersionTable = `
	CREATE TABLE IF NOT EXISTS schema_version (
		name       TEXT PRIMARY KEY,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// ApplyPostgres applies schema files not yet recorded in schema_version,
// each in its own transaction, and returns the names it applied.
func ApplyPostgres(ctx context.Context, pool *postgres.Pool) ([]string, error) {
	files, err := scripts(schemaFS, postgresDir)
	if err != nil {
		return nil, err
	}

	if _, err := pool.Exec(ctx, createVersionTable); err != nil {
		return nil, fmt.Errorf("create schema_version: %w", err)
	}

	done, err := appliedVersions(ctx, pool)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, f := range files {
		if done[f.name] {
			continue
		}
		if err := applyPostgresScript(ctx, pool, f); err != nil {
			return applied, err
		}
		applied = append(applied, f.name)
	}
	return applied, nil
}

func appliedVersions(ctx context.Context, pool *postgres.Pool) (map[string]bool, error) {
	rows, err := pool.Query(ctx, `SELECT name FROM schema_version`)
	if err != nil {
		return nil, fmt.Errorf("read schema_version: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan schema_version: %w", err)
	}

	done := make(map[string]bool, len(names))
	for _, n := range names {
		done[n] = true
	}
	return done, nil
}

func applyPostgresScript(ctx context.Context, pool *postgres.Pool, f script) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", f.name, err)
	}
	defer tx.Rollback(ctx)

	// no arguments: pgx sends the whole script over the simple protocol
	if _, err := tx.Exec(ctx, f.sql); err != nil {
		return fmt.Errorf("apply %s: %w", f.name, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_version (name) VALUES ($1)`, f.name); err != nil {
		return fmt.Errorf("record %s: %w", f.name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s: %w", f.name, err)
	}
	return nil
}
