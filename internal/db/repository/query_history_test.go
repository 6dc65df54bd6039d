package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quackview/internal/db"
	"quackview/internal/domain"
)

func setupRepo(t *testing.T) (*QueryHistoryRepo, context.Context) {
	t.Helper()
	return NewQueryHistoryRepo(db.OpenTestSQLite(t)), context.Background()
}

func TestInsertPopulatesIDAndTimestamp(t *testing.T) {
	repo, ctx := setupRepo(t)

	e := &domain.HistoryEntry{
		TaskID:     "task-1",
		Kind:       "ANALYZE",
		SQL:        `SELECT SUM("Price") AS sum_Price FROM "t"`,
		Status:     "OK",
		DurationMs: 12,
		RowCount:   1,
	}
	require.NoError(t, repo.Insert(ctx, e))
	assert.NotZero(t, e.ID)
	assert.False(t, e.CreatedAt.IsZero())
}

func TestListFiltersByTaskNewestFirst(t *testing.T) {
	repo, ctx := setupRepo(t)

	for i := 0; i < 3; i++ {
		require.NoError(t, repo.Insert(ctx, &domain.HistoryEntry{
			TaskID: "task-a", Kind: "ANALYZE", SQL: fmt.Sprintf("SELECT %d", i), Status: "OK",
		}))
	}
	require.NoError(t, repo.Insert(ctx, &domain.HistoryEntry{
		TaskID: "task-b", Kind: "CUSTOM", SQL: "SELECT 99", Status: "ERROR", ErrorMsg: "boom",
	}))

	entries, err := repo.List(ctx, domain.HistoryFilter{TaskID: "task-a"})
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "SELECT 2", entries[0].SQL)
	assert.Equal(t, "SELECT 0", entries[2].SQL)

	entries, err = repo.List(ctx, domain.HistoryFilter{TaskID: "task-b"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "boom", entries[0].ErrorMsg)
}

func TestListPagination(t *testing.T) {
	repo, ctx := setupRepo(t)

	for i := 0; i < 5; i++ {
		require.NoError(t, repo.Insert(ctx, &domain.HistoryEntry{
			TaskID: "task-a", Kind: "QUICK", SQL: fmt.Sprintf("SELECT %d", i), Status: "OK",
		}))
	}

	entries, err := repo.List(ctx, domain.HistoryFilter{TaskID: "task-a", Limit: 2, Offset: 1})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "SELECT 3", entries[0].SQL)
	assert.Equal(t, "SELECT 2", entries[1].SQL)
}

func TestListUnknownTaskIsEmpty(t *testing.T) {
	repo, ctx := setupRepo(t)

	entries, err := repo.List(ctx, domain.HistoryFilter{TaskID: "nope"})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
