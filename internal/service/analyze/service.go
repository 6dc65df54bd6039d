// Package analyze orchestrates the analysis pipeline: session lookup,
// request validation, SQL compilation, execution, and response assembly.
package analyze

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"quackview/internal/analysis"
	"quackview/internal/domain"
	"quackview/internal/session"
)

// history entry kinds.
const (
	kindAnalyze = "ANALYZE"
	kindCustom  = "CUSTOM"
	kindQuick   = "QUICK"
)

// Service runs analysis requests against live sessions.
type Service struct {
	sessions *session.Registry
	history  domain.HistoryRepository
	logger   *slog.Logger
}

// NewService creates the analysis service. history may be nil, in which case
// executed queries are not recorded.
func NewService(sessions *session.Registry, history domain.HistoryRepository, logger *slog.Logger) *Service {
	return &Service{
		sessions: sessions,
		history:  history,
		logger:   logger.With("component", "analyze"),
	}
}

// Analyze validates the request against the session's schema, compiles it to
// SQL, executes it, and returns the shaped result. The sql_preview in the
// result is exactly the string that was executed.
func (s *Service) Analyze(ctx context.Context, taskID string, req *domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return nil, err
	}

	validated, err := analysis.Validate(sess.Schema, req)
	if err != nil {
		return nil, err
	}
	compiled := analysis.Compile(sess.TableName, validated)

	return s.run(ctx, sess, kindAnalyze, compiled.SQL)
}

// CustomQuery forwards user-authored SQL to the session's engine verbatim.
// The only check applied here is non-emptiness; everything else is the
// engine's verdict, reported as an SQLExecutionError.
func (s *Service) CustomQuery(ctx context.Context, taskID, sqlText string) (*domain.AnalysisResult, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(sqlText) == "" {
		return nil, domain.ErrValidation("sql must not be empty")
	}

	return s.run(ctx, sess, kindCustom, sqlText)
}

// run executes sqlQuery on the session and records the outcome.
func (s *Service) run(ctx context.Context, sess *session.Session, kind, sqlQuery string) (*domain.AnalysisResult, error) {
	start := time.Now()
	rows, err := sess.Exec.Query(ctx, sqlQuery)
	duration := time.Since(start)

	if err != nil {
		s.record(ctx, sess.TaskID, kind, sqlQuery, duration, 0, err)
		return nil, err
	}
	s.record(ctx, sess.TaskID, kind, sqlQuery, duration, len(rows.Rows), nil)

	return &domain.AnalysisResult{
		Columns:    rows.Columns,
		Rows:       rows.Rows,
		SQLPreview: sqlQuery,
	}, nil
}

func (s *Service) record(ctx context.Context, taskID, kind, sqlQuery string, duration time.Duration, rowCount int, execErr error) {
	if s.history == nil {
		return
	}
	entry := &domain.HistoryEntry{
		TaskID:     taskID,
		Kind:       kind,
		SQL:        sqlQuery,
		Status:     "OK",
		DurationMs: duration.Milliseconds(),
		RowCount:   rowCount,
	}
	if execErr != nil {
		entry.Status = "ERROR"
		entry.ErrorMsg = execErr.Error()
	}
	if err := s.history.Insert(ctx, entry); err != nil {
		s.logger.Warn("record query history", "task_id", taskID, "error", err)
	}
}
