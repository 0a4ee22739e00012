package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskstack/api/internal/core/domain"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// respondError maps the domain error taxonomy to HTTP statuses. Unknown
// errors become an opaque 500; internals are never sent to the client.
func respondError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var disallowedErr *domain.DisallowedFieldsError

	switch {
	case errors.As(err, &validationErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: validationErr.Fields,
		})
	case errors.As(err, &disallowedErr):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: disallowedErr.Error()})
	case errors.Is(err, domain.ErrEmailTaken):
		respondJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "validation failed",
			Fields: map[string]string{"email": domain.ErrEmailTaken.Error()},
		})
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: domain.ErrInvalidCredentials.Error()})
	case errors.Is(err, domain.ErrAuthenticationRequired):
		respondJSON(w, http.StatusUnauthorized, errorResponse{Error: domain.ErrAuthenticationRequired.Error()})
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrNotFound.Error()})
	default:
		respondJSON(w, http.StatusInternalServerError, errorResponse{Error: domain.ErrInternal.Error()})
	}
}
