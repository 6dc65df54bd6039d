package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"quackview/internal/domain"
)

// errorResponse is the JSON body of every non-2xx response.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// httpStatusFromDomainError maps domain errors to HTTP status codes.
// Validation failures are 400, missing sessions/columns are 404, and
// requests that are well-formed but semantically impossible (illegal
// operation for the column type, SQL the engine rejects) are 422.
func httpStatusFromDomainError(err error) int {
	var (
		sessionNotFound *domain.SessionNotFoundError
		unknownColumn   *domain.UnknownColumnError
		notFound        *domain.NotFoundError
		emptyOps        *domain.EmptyOperationsError
		invalidFilter   *domain.InvalidFilterError
		invalidSort     *domain.InvalidSortFieldError
		validation      *domain.ValidationError
		unsupportedOp   *domain.UnsupportedOperationError
		sqlExec         *domain.SQLExecutionError
	)

	switch {
	case errors.As(err, &sessionNotFound),
		errors.As(err, &unknownColumn),
		errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &emptyOps),
		errors.As(err, &invalidFilter),
		errors.As(err, &invalidSort),
		errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &unsupportedOp),
		errors.As(err, &sqlExec):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// errorLabel returns the short machine-readable label for a domain error.
func errorLabel(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "validation failed"
	case http.StatusNotFound:
		return "not found"
	case http.StatusUnprocessableEntity:
		return "request cannot be processed"
	default:
		return "internal server error"
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := httpStatusFromDomainError(err)
	body := errorResponse{Error: errorLabel(status), Detail: err.Error()}
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs, not the response.
		body.Detail = ""
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeBadRequest(w http.ResponseWriter, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: "validation failed", Detail: detail})
}
