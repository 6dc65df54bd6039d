package api

import (
	"net/http"
	"strconv"
	"time"

	"quackview/internal/domain"
)

type historyEntry struct {
	ID         int64     `json:"id"`
	TaskID     string    `json:"task_id"`
	Kind       string    `json:"kind"`
	SQL        string    `json:"sql"`
	Status     string    `json:"status"`
	ErrorMsg   string    `json:"error_msg,omitempty"`
	DurationMs int64     `json:"duration_ms"`
	RowCount   int       `json:"row_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func historyEntryToAPI(e domain.HistoryEntry) historyEntry {
	return historyEntry{
		ID:         e.ID,
		TaskID:     e.TaskID,
		Kind:       e.Kind,
		SQL:        e.SQL,
		Status:     e.Status,
		ErrorMsg:   e.ErrorMsg,
		DurationMs: e.DurationMs,
		RowCount:   e.RowCount,
		CreatedAt:  e.CreatedAt,
	}
}

// History lists executed queries for a session, newest first.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	filter := domain.HistoryFilter{TaskID: taskID}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "limit must be an integer")
			return
		}
		filter.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			writeBadRequest(w, "offset must be an integer")
			return
		}
		filter.Offset = n
	}

	entries, err := h.history.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]historyEntry, len(entries))
	for i, e := range entries {
		out[i] = historyEntryToAPI(e)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"history": out})
}
