// Package export produces downloadable artifacts from a session: a SQL
// script recreating the default query, and an xlsx workbook of the table.
package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"quackview/internal/ddl"
	"quackview/internal/engine"
	"quackview/internal/session"
)

// Service renders exports for live sessions.
type Service struct {
	sessions *session.Registry
	logger   *slog.Logger
}

// NewService creates the export service.
func NewService(sessions *session.Registry, logger *slog.Logger) *Service {
	return &Service{
		sessions: sessions,
		logger:   logger.With("component", "export"),
	}
}

// SQLScript renders a .sql script for the session: a commented header plus
// the full-table SELECT. Returns the suggested filename and content.
func (s *Service) SQLScript(taskID string) (string, []byte, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString("-- QuackView SQL export\n")
	fmt.Fprintf(&b, "-- Source file: %s\n", sess.Filename)
	fmt.Fprintf(&b, "-- Table: %s\n", sess.TableName)
	fmt.Fprintf(&b, "-- Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "SELECT * FROM %s;\n", ddl.QuoteIdentifier(sess.TableName))

	return sess.TableName + ".sql", []byte(b.String()), nil
}

// Excel writes the session's table to an xlsx workbook through DuckDB's
// excel extension and returns the file's bytes.
func (s *Service) Excel(ctx context.Context, taskID string) (string, []byte, error) {
	sess, err := s.sessions.Get(taskID)
	if err != nil {
		return "", nil, err
	}

	// CSV-backed sessions never loaded the extension at import time.
	if err := engine.InstallExtensions(ctx, sess.Exec.DB()); err != nil {
		return "", nil, err
	}

	dir, err := os.MkdirTemp("", "quackview-export-")
	if err != nil {
		return "", nil, err
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, sess.TableName+".xlsx")
	query := "SELECT * FROM " + ddl.QuoteIdentifier(sess.TableName)
	if _, err := sess.Exec.DB().ExecContext(ctx, ddl.CopyToXlsx(query, path)); err != nil {
		return "", nil, fmt.Errorf("export xlsx: %w", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return "", nil, err
	}

	s.logger.Info("exported workbook", "task_id", taskID, "bytes", len(content))
	return sess.TableName + ".xlsx", content, nil
}
