package repository

import (
	"context"
	"fmt"
	"strings"

	"FinSight/internal/domain/models"
	xch "FinSight/pkg/clickhouse"
)

// ClickHouseSink writes query events into a MergeTree table for offline
// analysis. Schema creation is idempotent and runs on construction.
type ClickHouseSink struct {
	client *xch.Client
	table  string
}

// NewClickHouseSink creates the sink and ensures the events table exists.
func NewClickHouseSink(ctx context.Context, client *xch.Client, database, table string) (*ClickHouseSink, error) {
	if table == "" {
		table = "query_events"
	}
	full := table
	if database != "" {
		full = database + "." + table
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
			session_id     String,
			asset_class    LowCardinality(String),
			symbol         String,
			strategy       LowCardinality(String),
			categories     Array(String),
			cache_hits     UInt32,
			upstream_calls UInt32,
			outcome        LowCardinality(String),
			duration_ms    UInt64,
			created_at     DateTime64(3, 'UTC')
		) ENGINE = MergeTree()
		PARTITION BY toYYYYMM(created_at)
		ORDER BY (created_at, session_id)`, full),
	}
	if err := client.InitSchema(ctx, stmts); err != nil {
		return nil, fmt.Errorf("clickhouse sink schema: %w", err)
	}
	return &ClickHouseSink{client: client, table: full}, nil
}

// Record inserts one query event.
func (s *ClickHouseSink) Record(ctx context.Context, ev *models.QueryEvent) error {
	query := fmt.Sprintf(`INSERT INTO %s
		(session_id, asset_class, symbol, strategy, categories,
		 cache_hits, upstream_calls, outcome, duration_ms, created_at)
		VALUES (?, ?, ?, ?, [%s], ?, ?, ?, ?, ?)`,
		s.table, placeholders(len(ev.Categories)))

	args := make([]interface{}, 0, 10+len(ev.Categories))
	args = append(args, ev.SessionID, ev.AssetClass, ev.Symbol, ev.Strategy)
	for _, c := range ev.Categories {
		args = append(args, c)
	}
	args = append(args,
		uint32(ev.CacheHits), uint32(ev.UpstreamCalls),
		ev.Outcome, uint64(ev.DurationMs), ev.CreatedAt,
	)

	if _, err := s.client.DB().ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert query event: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (s *ClickHouseSink) Close() error {
	return s.client.Close()
}

func placeholders(n int) string {
	if n == 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
