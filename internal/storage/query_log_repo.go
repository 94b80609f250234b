package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// QueryLogRepo appends search telemetry rows. Rows are never updated.
type QueryLogRepo struct {
	db *sql.DB
}

// NewQueryLogRepo creates a new QueryLogRepo.
func NewQueryLogRepo(db *sql.DB) *QueryLogRepo {
	return &QueryLogRepo{db: db}
}

// Record appends one search_queries row. CreatedAt defaults to now.
func (r *QueryLogRepo) Record(ctx context.Context, entry QueryLog) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now()
	}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO search_queries (query, query_type, results_count, response_time, created_at) VALUES (?, ?, ?, ?, ?)",
		entry.Query, entry.QueryType, entry.ResultsCount, entry.ResponseTime.Seconds(), entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to record search query: %w", err)
	}
	return nil
}

// Count returns the number of recorded queries.
func (r *QueryLogRepo) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM search_queries").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count search queries: %w", err)
	}
	return count, nil
}
