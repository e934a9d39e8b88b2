package domain

// DBStats is a snapshot of database activity counters.
type DBStats struct {
	TotalConnections  int64           `json:"total_connections"`
	ActiveConnections int64           `json:"active_connections"`
	Tables            []TableActivity `json:"tables"`
	Indexes           []IndexActivity `json:"indexes"`
	Sizes             []TableSize     `json:"sizes"`
}

// TableActivity mirrors a pg_stat_user_tables row.
type TableActivity struct {
	Schema      string `json:"schemaname"`
	Table       string `json:"relname"`
	SeqScan     int64  `json:"seq_scan"`
	SeqTupRead  int64  `json:"seq_tup_read"`
	IdxScan     *int64 `json:"idx_scan"`
	IdxTupFetch *int64 `json:"idx_tup_fetch"`
	Inserted    int64  `json:"n_tup_ins"`
	Updated     int64  `json:"n_tup_upd"`
	Deleted     int64  `json:"n_tup_del"`
	LiveTuples  int64  `json:"n_live_tup"`
	DeadTuples  int64  `json:"n_dead_tup"`
}

// IndexActivity mirrors a pg_stat_user_indexes row.
type IndexActivity struct {
	Schema      string `json:"schemaname"`
	Table       string `json:"relname"`
	IdxScan     int64  `json:"idx_scan"`
	IdxTupRead  int64  `json:"idx_tup_read"`
	IdxTupFetch int64  `json:"idx_tup_fetch"`
}

// TableSize holds human-readable relation sizes.
type TableSize struct {
	Schema      string `json:"schemaname"`
	Table       string `json:"relname"`
	TotalSize   string `json:"total_size"`
	TableSize   string `json:"table_size"`
	IndexesSize string `json:"indexes_size"`
}
