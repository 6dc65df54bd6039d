package api

import (
	"encoding/json"
	"net/http"

	"quackview/internal/domain"
)

type analyzeRequest struct {
	TaskID string `json:"task_id"`
	domain.AnalysisRequest
}

type customQueryRequest struct {
	TaskID string `json:"task_id"`
	SQL    string `json:"sql"`
}

// GetSchema returns the column names and physical types of the session table.
func (h *Handler) GetSchema(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	schema, err := h.analyze.Schema(taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, schema)
}

// GetAnalysisOptions returns, per column, the legal operations and the
// suggested default.
func (h *Handler) GetAnalysisOptions(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	opts, err := h.analyze.Options(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"options": opts})
}

// Analyze validates a structured analysis request, compiles it to SQL, and
// executes it against the session table.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.TaskID == "" {
		writeBadRequest(w, "task_id is required")
		return
	}

	result, err := h.analyze.Analyze(r.Context(), req.TaskID, &req.AnalysisRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// CustomQuery executes caller-supplied SQL verbatim against the session table.
func (h *Handler) CustomQuery(w http.ResponseWriter, r *http.Request) {
	var req customQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body: "+err.Error())
		return
	}
	if req.TaskID == "" {
		writeBadRequest(w, "task_id is required")
		return
	}

	result, err := h.analyze.CustomQuery(r.Context(), req.TaskID, req.SQL)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// QuickAnalysis computes a one-shot average for every numeric column.
func (h *Handler) QuickAnalysis(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	cols, err := h.analyze.QuickAnalysis(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"results": cols})
}

// SessionInfo returns the metadata of one live session.
func (h *Handler) SessionInfo(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	info, err := h.analyze.Info(taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, info)
}
