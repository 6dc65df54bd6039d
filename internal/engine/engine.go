// Package engine opens DuckDB databases and executes SQL against them,
// translating driver errors into the domain error taxonomy.
package engine

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

// Open opens a DuckDB database at path. An empty path opens an in-memory
// database, which is how per-session databases are created.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	return db, nil
}

// OpenMemory opens a fresh in-memory DuckDB database.
func OpenMemory() (*sql.DB, error) {
	return Open("")
}

// InstallExtensions installs and loads the DuckDB extensions the service
// relies on. The excel extension backs both spreadsheet ingestion
// (read_xlsx) and workbook export (COPY ... FORMAT xlsx).
func InstallExtensions(ctx context.Context, db *sql.DB) error {
	extensions := []string{
		"INSTALL excel; LOAD excel;",
	}
	for _, ext := range extensions {
		if _, err := db.ExecContext(ctx, ext); err != nil {
			return fmt.Errorf("extension setup (%s): %w", ext, err)
		}
	}
	return nil
}
