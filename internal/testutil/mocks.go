// Package testutil provides shared mock implementations of domain interfaces
// for use in tests across the codebase. This follows the Go convention of a
// shared test utility package (like net/http/httptest).
package testutil

import (
	"context"
	"sync"

	"quackview/internal/domain"
)

// === History Repository Mock ===

// MockHistoryRepo implements domain.HistoryRepository for testing.
type MockHistoryRepo struct {
	InsertFn func(ctx context.Context, e *domain.HistoryEntry) error
	ListFn   func(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error)

	mu      sync.Mutex
	Entries []*domain.HistoryEntry // collected entries for assertions
}

var _ domain.HistoryRepository = (*MockHistoryRepo)(nil)

// Insert implements the interface method for testing.
func (m *MockHistoryRepo) Insert(ctx context.Context, e *domain.HistoryEntry) error {
	if m.InsertFn != nil {
		if err := m.InsertFn(ctx, e); err != nil {
			return err
		}
	}
	m.mu.Lock()
	m.Entries = append(m.Entries, e)
	m.mu.Unlock()
	return nil
}

// List implements the interface method for testing.
func (m *MockHistoryRepo) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.HistoryEntry
	for _, e := range m.Entries {
		if filter.TaskID == "" || e.TaskID == filter.TaskID {
			out = append(out, *e)
		}
	}
	return out, nil
}

// LastEntry returns the last collected entry, or nil if none.
func (m *MockHistoryRepo) LastEntry() *domain.HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Entries) == 0 {
		return nil
	}
	return m.Entries[len(m.Entries)-1]
}

// === Query Engine Mock ===

// MockQueryEngine implements domain.QueryEngine for testing.
type MockQueryEngine struct {
	QueryFn func(ctx context.Context, sql string) (*domain.QueryRows, error)
	Queries []string // collected SQL for assertions
}

var _ domain.QueryEngine = (*MockQueryEngine)(nil)

// Query implements the interface method for testing.
func (m *MockQueryEngine) Query(ctx context.Context, sql string) (*domain.QueryRows, error) {
	m.Queries = append(m.Queries, sql)
	if m.QueryFn != nil {
		return m.QueryFn(ctx, sql)
	}
	return &domain.QueryRows{}, nil
}
