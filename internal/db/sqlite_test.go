package db

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildDSN(t *testing.T) {
	dsn := buildDSN("/tmp/test.sqlite")

	assert.Contains(t, dsn, "_journal_mode=WAL")
	assert.Contains(t, dsn, "_busy_timeout=5000")
	assert.Contains(t, dsn, "_synchronous=NORMAL")
	assert.Contains(t, dsn, "_foreign_keys=on")
	assert.Contains(t, dsn, "_txlock=immediate")
	assert.True(t, strings.HasPrefix(dsn, "/tmp/test.sqlite?"))
}

func TestOpenSQLiteAndMigrate(t *testing.T) {
	conn := OpenTestSQLite(t)

	var journalMode string
	err := conn.QueryRow("PRAGMA journal_mode").Scan(&journalMode)
	require.NoError(t, err)
	assert.Equal(t, "wal", strings.ToLower(journalMode))

	// Migration must have created the history table.
	var name string
	err = conn.QueryRow(
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'query_history'",
	).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "query_history", name)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	conn := OpenTestSQLite(t)
	require.NoError(t, RunMigrations(conn))
}
