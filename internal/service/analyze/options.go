package analyze

import (
	"context"
	"time"

	"quackview/internal/analysis"
	"quackview/internal/domain"
)

// ColumnOptions describes what a single column supports: its semantic type,
// the legal operations, and the operation suggested by default.
type ColumnOptions struct {
	Column     string                 `json:"column"`
	Type       string                 `json:"type"`
	FieldType  domain.FieldType       `json:"field_type"`
	Operations []domain.OperationKind `json:"operations"`
	Default    domain.OperationKind   `json:"default"`
}

// SessionInfo is the metadata surface of one live session.
type SessionInfo struct {
	TaskID    string    `json:"task_id"`
	Filename  string    `json:"filename"`
	TableName string    `json:"table_name"`
	RowCount  int64     `json:"row_count"`
	Columns   int       `json:"columns"`
	CreatedAt time.Time `json:"created_at"`
}

// Schema returns the session's schema as read at import time.
func (s *Service) Schema(taskID string) (*domain.Schema, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return nil, err
	}
	return sess.Schema, nil
}

// Options lists, per column, the legal operations and the default one, in
// schema order.
func (s *Service) Options(_ context.Context, taskID string) ([]ColumnOptions, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return nil, err
	}

	opts := make([]ColumnOptions, 0, len(sess.Schema.Columns))
	for _, col := range sess.Schema.Columns {
		ft := analysis.Classify(col.Type)
		opts = append(opts, ColumnOptions{
			Column:     col.Name,
			Type:       col.Type,
			FieldType:  ft,
			Operations: analysis.LegalOperations(ft),
			Default:    analysis.DefaultOperation(ft),
		})
	}
	return opts, nil
}

// Info returns the session's metadata.
func (s *Service) Info(taskID string) (*SessionInfo, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return nil, err
	}
	return &SessionInfo{
		TaskID:    sess.TaskID,
		Filename:  sess.Filename,
		TableName: sess.TableName,
		RowCount:  sess.RowCount,
		Columns:   len(sess.Schema.Columns),
		CreatedAt: sess.CreatedAt,
	}, nil
}
