// Package api provides the HTTP handlers for the QuackView REST API.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"quackview/internal/service/analyze"
	"quackview/internal/service/export"
	"quackview/internal/service/history"
	"quackview/internal/session"
)

// Handler holds the service dependencies behind the REST endpoints.
type Handler struct {
	sessions       *session.Registry
	analyze        *analyze.Service
	export         *export.Service
	history        *history.Service
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewHandler creates a Handler with all required service dependencies.
func NewHandler(
	sessions *session.Registry,
	analyzeSvc *analyze.Service,
	exportSvc *export.Service,
	historySvc *history.Service,
	maxUploadBytes int64,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		sessions:       sessions,
		analyze:        analyzeSvc,
		export:         exportSvc,
		history:        historySvc,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With("component", "api"),
	}
}

// Routes mounts all API endpoints on a fresh chi router.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/connection", h.CreateConnection)
		r.Delete("/connection", h.DeleteConnection)
		r.Get("/schema", h.GetSchema)
		r.Get("/analysis-options", h.GetAnalysisOptions)
		r.Post("/analyze", h.Analyze)
		r.Post("/query/custom", h.CustomQuery)
		r.Get("/quick-analysis", h.QuickAnalysis)
		r.Get("/session-info", h.SessionInfo)
		r.Get("/export/sql", h.ExportSQL)
		r.Get("/export/excel", h.ExportExcel)
		r.Get("/history", h.History)
	})

	return r
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// taskIDParam extracts the mandatory task_id query parameter. A missing
// value writes a 400 response and returns false.
func taskIDParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	taskID := r.URL.Query().Get("task_id")
	if taskID == "" {
		writeBadRequest(w, "task_id query parameter is required")
		return "", false
	}
	return taskID, true
}
