package migrations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	chstore "github.com/BizKey/webaggregator/internal/storage/clickhouse"
)

// ApplyClickHouse creates the candle database named in dsn if needed, runs the
// ClickHouse schema statement by statement and returns a connection to that
// database. The schema only uses IF NOT EXISTS, so reruns are no-ops.
func ApplyClickHouse(ctx context.Context, dsn string) (*chstore.Conn, error) {
	dbName, err := databaseFromDSN(dsn)
	if err != nil {
		return nil, err
	}

	files, err := scripts(schemaFS, clickhouseDir)
	if err != nil {
		return nil, err
	}

	var batches [][]string
	for _, f := range files {
		stmts, err := statements(f.sql)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", f.name, err)
		}
		batches = append(batches, stmts)
	}

	if err := createDatabase(ctx, dsn, dbName); err != nil {
		return nil, err
	}

	conn, err := chstore.NewConnWithDatabase(ctx, dsn, dbName)
	if err != nil {
		return nil, fmt.Errorf("connect clickhouse %s: %w", dbName, err)
	}

	for i, stmts := range batches {
		for _, stmt := range stmts {
			if err := conn.Exec(ctx, stmt); err != nil {
				conn.Close()
				return nil, fmt.Errorf("apply %s: %w", files[i].name, err)
			}
		}
	}
	return conn, nil
}

func createDatabase(ctx context.Context, dsn, dbName string) error {
	admin, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return fmt.Errorf("connect clickhouse server: %w", err)
	}
	defer admin.Close()

	if err := admin.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+dbName); err != nil {
		return fmt.Errorf("create database %s: %w", dbName, err)
	}
	return nil
}

// databaseFromDSN returns the database path segment of a clickhouse:// DSN.
func databaseFromDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	db := strings.TrimPrefix(u.Path, "/")
	if db == "" {
		return "", fmt.Errorf("clickhouse dsn has no database")
	}
	return db, nil
}
