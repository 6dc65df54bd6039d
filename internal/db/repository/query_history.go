// Package repository implements the persistence interfaces declared in the
// domain package over the SQLite history store.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"quackview/internal/domain"
)

// createdAtLayout matches the strftime default in the migration.
const createdAtLayout = "2006-01-02 15:04:05.000"

// QueryHistoryRepo persists executed queries.
type QueryHistoryRepo struct {
	db *sql.DB
}

var _ domain.HistoryRepository = (*QueryHistoryRepo)(nil)

func NewQueryHistoryRepo(db *sql.DB) *QueryHistoryRepo {
	return &QueryHistoryRepo{db: db}
}

// Insert records one executed query. The entry's ID and CreatedAt are
// populated on return.
func (r *QueryHistoryRepo) Insert(ctx context.Context, e *domain.HistoryEntry) error {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO query_history (task_id, kind, sql_text, status, error_msg, duration_ms, row_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.TaskID, e.Kind, e.SQL, e.Status, e.ErrorMsg, e.DurationMs, e.RowCount,
		now.Format(createdAtLayout),
	)
	if err != nil {
		return fmt.Errorf("insert query history: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert query history: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	return nil
}

// List returns entries for a task, newest first.
func (r *QueryHistoryRepo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, task_id, kind, sql_text, status, error_msg, duration_ms, row_count, created_at
		FROM query_history
		WHERE task_id = ?
		ORDER BY id DESC
		LIMIT ? OFFSET ?`,
		filter.TaskID, limit, filter.Offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	defer rows.Close()

	var entries []domain.HistoryEntry
	for rows.Next() {
		var e domain.HistoryEntry
		var createdAt string
		if err := rows.Scan(&e.ID, &e.TaskID, &e.Kind, &e.SQL, &e.Status,
			&e.ErrorMsg, &e.DurationMs, &e.RowCount, &createdAt); err != nil {
			return nil, fmt.Errorf("scan query history: %w", err)
		}
		if ts, err := time.Parse(createdAtLayout, createdAt); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list query history: %w", err)
	}
	return entries, nil
}
