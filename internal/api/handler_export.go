package api

import (
	"fmt"
	"net/http"
)

// ExportSQL streams a SQL script that reproduces the session table query.
func (h *Handler) ExportSQL(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	name, script, err := h.export.SQLScript(taskID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/sql; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(script)
}

// ExportExcel streams the session table as an xlsx workbook.
func (h *Handler) ExportExcel(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	name, content, err := h.export.Excel(r.Context(), taskID)
	if err != nil {
		h.logger.Error("excel export failed", "task_id", taskID, "error", err)
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(content)
}
