package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/BizKey/webaggregator/internal/domain"
	"github.com/BizKey/webaggregator/internal/storage"
)

// StatsStore reads activity counters from the PostgreSQL statistics views.
type StatsStore struct {
	pool *Pool
}

// NewStatsStore creates a new StatsStore.
func NewStatsStore(pool *Pool) *StatsStore {
	return &StatsStore{pool: pool}
}

// Compile-time interface check.
var _ storage.StatsStore = (*StatsStore)(nil)

// Stats collects connection counts, table and index activity, and relation sizes.
func (s *StatsStore) Stats(ctx context.Context) (*domain.DBStats, error) {
	var stats domain.DBStats

	err := s.pool.QueryRow(ctx, `
		SELECT count(*) AS total_connections,
			count(*) FILTER (WHERE state = 'active') AS active_connections
		FROM pg_stat_activity
	`).Scan(&stats.TotalConnections, &stats.ActiveConnections)
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}

	tables, err := queryAll(ctx, s.pool, "table activity", `
		SELECT schemaname, relname, seq_scan, seq_tup_read, idx_scan, idx_tup_fetch,
			n_tup_ins, n_tup_upd, n_tup_del, n_live_tup, n_dead_tup
		FROM pg_stat_user_tables
		ORDER BY schemaname, relname
	`, scanTableActivity)
	if err != nil {
		return nil, err
	}

	indexes, err := queryAll(ctx, s.pool, "index activity", `
		SELECT schemaname, relname, idx_scan, idx_tup_read, idx_tup_fetch
		FROM pg_stat_user_indexes
		ORDER BY schemaname, relname
	`, scanIndexActivity)
	if err != nil {
		return nil, err
	}

	sizes, err := queryAll(ctx, s.pool, "table sizes", `
		SELECT schemaname, relname,
			pg_size_pretty(pg_total_relation_size(relid)) AS total_size,
			pg_size_pretty(pg_relation_size(relid)) AS table_size,
			pg_size_pretty(pg_indexes_size(relid)) AS indexes_size
		FROM pg_stat_user_tables
		ORDER BY pg_total_relation_size(relid) DESC
	`, scanTableSize)
	if err != nil {
		return nil, err
	}

	stats.Tables = derefAll(tables)
	stats.Indexes = derefAll(indexes)
	stats.Sizes = derefAll(sizes)
	return &stats, nil
}

func scanTableActivity(row pgx.Row) (*domain.TableActivity, error) {
	var t domain.TableActivity
	err := row.Scan(
		&t.Schema, &t.Table, &t.SeqScan, &t.SeqTupRead, &t.IdxScan, &t.IdxTupFetch,
		&t.Inserted, &t.Updated, &t.Deleted, &t.LiveTuples, &t.DeadTuples,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func scanIndexActivity(row pgx.Row) (*domain.IndexActivity, error) {
	var i domain.IndexActivity
	if err := row.Scan(&i.Schema, &i.Table, &i.IdxScan, &i.IdxTupRead, &i.IdxTupFetch); err != nil {
		return nil, err
	}
	return &i, nil
}

func scanTableSize(row pgx.Row) (*domain.TableSize, error) {
	var t domain.TableSize
	if err := row.Scan(&t.Schema, &t.Table, &t.TotalSize, &t.TableSize, &t.IndexesSize); err != nil {
		return nil, err
	}
	return &t, nil
}

func derefAll[T any](rows []*T) []T {
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = *r
	}
	return out
}
