package api

import "net/http"

// Health reports liveness and the number of open sessions.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}
