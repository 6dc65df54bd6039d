package engine

import (
	"context"
	"database/sql"

	"quackview/internal/domain"
)

// Compile-time check.
var _ domain.QueryEngine = (*Executor)(nil)

// Executor runs SQL against a single DuckDB database and shapes results into
// column names plus row tuples. It makes no attempt to parse or classify the
// SQL it is given: compiled analysis queries and verbatim custom queries go
// through the same path.
type Executor struct {
	db *sql.DB
}

// NewExecutor wraps an open DuckDB handle.
func NewExecutor(db *sql.DB) *Executor {
	return &Executor{db: db}
}

// DB exposes the underlying handle for callers that need Exec access, such
// as table materialization and exports.
func (e *Executor) DB() *sql.DB {
	return e.db
}

// Query executes sqlQuery and returns all rows. Any driver error, including
// syntax errors in user-authored SQL, comes back as a single
// domain.SQLExecutionError without further classification.
func (e *Executor) Query(ctx context.Context, sqlQuery string) (*domain.QueryRows, error) {
	rows, err := e.db.QueryContext(ctx, sqlQuery)
	if err != nil {
		return nil, domain.ErrSQLExecution(err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, domain.ErrSQLExecution(err)
	}
	return result, nil
}

func scanRows(rows *sql.Rows) (*domain.QueryRows, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var resultRows [][]interface{}
	for rows.Next() {
		vals := make([]interface{}, len(cols))
		ptrs := make([]interface{}, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		// Convert byte slices to strings for JSON serialization
		row := make([]interface{}, len(vals))
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = v
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &domain.QueryRows{Columns: cols, Rows: resultRows}, nil
}
