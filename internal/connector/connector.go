// Package connector materializes uploaded spreadsheet files as DuckDB
// tables and reads their schemas back.
package connector

import (
	"context"
	"fmt"

	"quackview/internal/ddl"
	"quackview/internal/domain"
	"quackview/internal/engine"
)

// sampleLimit caps the preview rows returned for a freshly imported table.
const sampleLimit = 5

// Connector imports files into one DuckDB database and answers schema and
// preview questions about the resulting table.
type Connector struct {
	exec *engine.Executor
}

// New wraps an executor bound to the session's database.
func New(exec *engine.Executor) *Connector {
	return &Connector{exec: exec}
}

// ImportFile materializes the file at path as a table named after the file
// stem and returns the table name. The file must be xlsx, xls, or csv.
func (c *Connector) ImportFile(ctx context.Context, path string) (string, error) {
	table := ddl.TableNameFor(path)
	stmt, err := ddl.CreateTableFromFile(table, path)
	if err != nil {
		return "", domain.ErrValidation("%s", err.Error())
	}
	if _, err := c.exec.DB().ExecContext(ctx, stmt); err != nil {
		return "", fmt.Errorf("materialize %s: %w", table, err)
	}
	return table, nil
}

// Schema reads the table's column names and physical types via DESCRIBE.
func (c *Connector) Schema(ctx context.Context, table string) (*domain.Schema, error) {
	res, err := c.exec.Query(ctx,
		fmt.Sprintf("SELECT column_name, column_type FROM (%s)", ddl.Describe(table)))
	if err != nil {
		return nil, err
	}

	schema := &domain.Schema{TableName: table}
	for _, row := range res.Rows {
		name, _ := row[0].(string)
		typ, _ := row[1].(string)
		schema.Columns = append(schema.Columns, domain.ColumnInfo{Name: name, Type: typ})
	}
	if len(schema.Columns) == 0 {
		return nil, domain.ErrNotFound("table %q has no columns", table)
	}
	return schema, nil
}

// RowCount returns the table's row count.
func (c *Connector) RowCount(ctx context.Context, table string) (int64, error) {
	res, err := c.exec.Query(ctx, "SELECT COUNT(*) FROM "+ddl.QuoteIdentifier(table))
	if err != nil {
		return 0, err
	}
	if len(res.Rows) != 1 || len(res.Rows[0]) != 1 {
		return 0, fmt.Errorf("row count: unexpected result shape")
	}
	n, ok := res.Rows[0][0].(int64)
	if !ok {
		return 0, fmt.Errorf("row count: unexpected type %T", res.Rows[0][0])
	}
	return n, nil
}

// SampleRows returns the first few rows of the table for previews.
func (c *Connector) SampleRows(ctx context.Context, table string) (*domain.QueryRows, error) {
	return c.exec.Query(ctx,
		fmt.Sprintf("SELECT * FROM %s LIMIT %d", ddl.QuoteIdentifier(table), sampleLimit))
}
