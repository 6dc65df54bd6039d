// Package session manages the lifecycle of upload-backed analysis sessions:
// one in-memory DuckDB database per uploaded file, keyed by task ID.
package session

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"quackview/internal/connector"
	"quackview/internal/domain"
	"quackview/internal/engine"
)

// Session holds everything tied to one uploaded file: the temp copy on disk,
// the in-memory database it was materialized into, and the schema read at
// import time. The schema is immutable for the session's lifetime.
type Session struct {
	TaskID    string
	Filename  string
	FilePath  string
	TableName string
	Schema    *domain.Schema
	RowCount  int64
	CreatedAt time.Time

	Exec *engine.Executor

	closeDB func() error
}

// Registry tracks live sessions and expires them after their TTL.
type Registry struct {
	ttl    time.Duration
	tmpDir string
	logger *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry creates an empty registry. tmpDir is where uploaded files are
// spooled; an empty string uses the OS default.
func NewRegistry(ttl time.Duration, tmpDir string, logger *slog.Logger) *Registry {
	return &Registry{
		ttl:      ttl,
		tmpDir:   tmpDir,
		logger:   logger.With("component", "session"),
		sessions: make(map[string]*Session),
	}
}

// Create spools the uploaded file to disk, materializes it into a fresh
// in-memory database, reads the schema, and registers the session under a
// new task ID.
func (r *Registry) Create(ctx context.Context, filename string, content io.Reader) (*Session, error) {
	path, err := r.spool(filename, content)
	if err != nil {
		return nil, err
	}

	db, err := engine.OpenMemory()
	if err != nil {
		os.RemoveAll(filepath.Dir(path))
		return nil, err
	}

	cleanup := func() {
		db.Close()
		os.RemoveAll(filepath.Dir(path))
	}

	if needsExcelExtension(filename) {
		if err := engine.InstallExtensions(ctx, db); err != nil {
			cleanup()
			return nil, err
		}
	}

	exec := engine.NewExecutor(db)
	conn := connector.New(exec)

	table, err := conn.ImportFile(ctx, path)
	if err != nil {
		cleanup()
		return nil, err
	}
	schema, err := conn.Schema(ctx, table)
	if err != nil {
		cleanup()
		return nil, err
	}
	rows, err := conn.RowCount(ctx, table)
	if err != nil {
		cleanup()
		return nil, err
	}

	s := &Session{
		TaskID:    uuid.NewString(),
		Filename:  filepath.Base(filename),
		FilePath:  path,
		TableName: table,
		Schema:    schema,
		RowCount:  rows,
		CreatedAt: time.Now(),
		Exec:      exec,
		closeDB:   db.Close,
	}

	r.mu.Lock()
	r.sessions[s.TaskID] = s
	r.mu.Unlock()

	r.logger.Info("session created",
		"task_id", s.TaskID, "table", table, "rows", rows, "columns", len(schema.Columns))
	return s, nil
}

// Get returns the live session for taskID.
func (r *Registry) Get(taskID string) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[taskID]
	r.mu.RUnlock()
	if !ok {
		return nil, &domain.SessionNotFoundError{TaskID: taskID}
	}
	return s, nil
}

// Close releases the session's database and temp file and forgets it.
func (r *Registry) Close(taskID string) error {
	r.mu.Lock()
	s, ok := r.sessions[taskID]
	if ok {
		delete(r.sessions, taskID)
	}
	r.mu.Unlock()
	if !ok {
		return &domain.SessionNotFoundError{TaskID: taskID}
	}

	r.release(s)
	r.logger.Info("session closed", "task_id", taskID)
	return nil
}

// CloseAll releases every live session. Called on shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		r.release(s)
	}
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes every session older than the TTL and reports how many it
// removed. A non-positive TTL disables expiry.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := time.Now().Add(-r.ttl)

	r.mu.Lock()
	var expired []*Session
	for id, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			expired = append(expired, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.release(s)
		r.logger.Info("session expired", "task_id", s.TaskID, "age", time.Since(s.CreatedAt))
	}
	return len(expired)
}

func (r *Registry) release(s *Session) {
	if err := s.closeDB(); err != nil {
		r.logger.Warn("close session db", "task_id", s.TaskID, "error", err)
	}
	if err := os.RemoveAll(filepath.Dir(s.FilePath)); err != nil {
		r.logger.Warn("remove session file", "task_id", s.TaskID, "error", err)
	}
}

// spool copies the upload to a temp file, keeping the original base name so
// the table name derives from it.
func (r *Registry) spool(filename string, content io.Reader) (string, error) {
	dir, err := os.MkdirTemp(r.tmpDir, "quackview-")
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(filename))
	f, err := os.Create(path)
	if err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.RemoveAll(dir)
		return "", err
	}
	if err := f.Close(); err != nil {
		os.RemoveAll(dir)
		return "", err
	}
	return path, nil
}

func needsExcelExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xls":
		return true
	}
	return false
}
