// Package history exposes the recorded query history.
package history

import (
	"context"

	"quackview/internal/domain"
)

// maxPageSize caps a single history page.
const maxPageSize = 200

// Service lists recorded queries.
type Service struct {
	repo domain.HistoryRepository
}

// NewService creates the history service.
func NewService(repo domain.HistoryRepository) *Service {
	return &Service{repo: repo}
}

// List returns a page of history for one task, newest first.
func (s *Service) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, error) {
	if filter.TaskID == "" {
		return nil, domain.ErrValidation("task_id is required")
	}
	if filter.Limit <= 0 || filter.Limit > maxPageSize {
		filter.Limit = 50
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.repo.List(ctx, filter)
}
