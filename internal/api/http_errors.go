package api

import (
	"errors"
	"net/http"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Category  string `json:"category"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

// statusForCategory maps domain error categories to HTTP status codes.
// Generation failures surface as 502 because the upstream model, not
// this service, produced the failure.
func statusForCategory(cat core.ErrorCategory) int {
	switch cat {
	case core.ErrCatValidation:
		return http.StatusBadRequest
	case core.ErrCatNotFound:
		return http.StatusNotFound
	case core.ErrCatConflict:
		return http.StatusConflict
	case core.ErrCatState:
		return http.StatusUnprocessableEntity
	case core.ErrCatGeneration, core.ErrCatIntegrity:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError translates any error into a JSON error response. Domain
// errors keep their category and code; anything else becomes a generic
// internal error.
func respondError(w http.ResponseWriter, err error) {
	var domErr *core.DomainError
	if errors.As(err, &domErr) && domErr != nil {
		respondJSON(w, statusForCategory(domErr.Category), map[string]errorBody{
			"error": {
				Category:  string(domErr.Category),
				Code:      domErr.Code,
				Message:   domErr.Message,
				Retryable: domErr.Retryable,
			},
		})
		return
	}
	respondJSON(w, http.StatusInternalServerError, map[string]errorBody{
		"error": {
			Category: string(core.ErrCatInternal),
			Code:     "INTERNAL",
			Message:  err.Error(),
		},
	})
}

// respondBadRequest reports a malformed request body or parameter.
func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusBadRequest, map[string]errorBody{
		"error": {
			Category: string(core.ErrCatValidation),
			Code:     "BAD_REQUEST",
			Message:  message,
		},
	})
}
