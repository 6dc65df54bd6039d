package api

import (
	"errors"
	"net/http"
)

type createConnectionResponse struct {
	TaskID    string `json:"task_id"`
	Filename  string `json:"filename"`
	TableName string `json:"table_name"`
	RowCount  int64  `json:"row_count"`
}

// CreateConnection accepts a multipart spreadsheet upload and opens a new
// analysis session over it.
func (h *Handler) CreateConnection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeBadRequest(w, "uploaded file exceeds the size limit")
			return
		}
		writeBadRequest(w, "request must be multipart/form-data with a \"file\" part")
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		writeBadRequest(w, "missing \"file\" part in upload")
		return
	}
	defer file.Close()

	sess, err := h.sessions.Create(r.Context(), header.Filename, file)
	if err != nil {
		h.logger.Error("session create failed", "filename", header.Filename, "error", err)
		writeError(w, err)
		return
	}

	h.logger.Info("session created",
		"task_id", sess.TaskID,
		"filename", sess.Filename,
		"rows", sess.RowCount,
	)

	respondJSON(w, http.StatusCreated, createConnectionResponse{
		TaskID:    sess.TaskID,
		Filename:  sess.Filename,
		TableName: sess.TableName,
		RowCount:  sess.RowCount,
	})
}

// DeleteConnection closes a session and releases its database and temp files.
func (h *Handler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	taskID, ok := taskIDParam(w, r)
	if !ok {
		return
	}

	if err := h.sessions.Close(taskID); err != nil {
		writeError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "closed", "task_id": taskID})
}
