// Package api implements the HTTP surface as plain chi JSON handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"countystats/internal/domain"
)

type errorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP statuses. Anything unmapped is a 500
// with a generic message so internals do not leak.
func writeError(w http.ResponseWriter, err error) {
	var (
		validation *domain.ValidationError
		denied     *domain.AccessDeniedError
		notFound   *domain.NotFoundError
		conflict   *domain.ConflictError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Code: 400, Message: validation.Message})
	case errors.As(err, &denied):
		writeJSON(w, http.StatusForbidden, errorResponse{Code: 403, Message: denied.Message})
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Code: 404, Message: notFound.Message})
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, errorResponse{Code: 409, Message: conflict.Message})
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Code: 500, Message: "internal server error"})
	}
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return domain.ErrValidation("invalid JSON body: %v", err)
	}
	return nil
}
