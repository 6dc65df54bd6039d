package domain

import (
	"context"
	"time"
)

// QueryEngine executes a SQL string against a session's table and returns
// the raw columns and row tuples the engine reports.
type QueryEngine interface {
	Query(ctx context.Context, sql string) (*QueryRows, error)
}

// QueryRows is the engine-shaped result before response assembly.
type QueryRows struct {
	Columns []string
	Rows    [][]interface{}
}

// HistoryEntry records one executed query for the governance trail.
type HistoryEntry struct {
	ID         int64
	TaskID     string
	Kind       string // "ANALYZE", "CUSTOM", "QUICK"
	SQL        string
	Status     string // "OK" or "ERROR"
	ErrorMsg   string
	DurationMs int64
	RowCount   int
	CreatedAt  time.Time
}

// HistoryFilter narrows a history listing.
type HistoryFilter struct {
	TaskID string
	Limit  int
	Offset int
}

// HistoryRepository persists the query history.
type HistoryRepository interface {
	Insert(ctx context.Context, e *HistoryEntry) error
	List(ctx context.Context, filter HistoryFilter) ([]HistoryEntry, error)
}
