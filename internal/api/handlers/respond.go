package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/wonny/natal/internal/contracts"
)

// maxBodyBytes bounds request bodies; a birth input is a few hundred bytes
const maxBodyBytes = 64 << 10

// ErrorResponse is the body of every non-2xx reply
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondPipelineError maps the error taxonomy onto HTTP status codes
func respondPipelineError(w http.ResponseWriter, err error) {
	respondJSON(w, StatusFor(err), ErrorResponse{
		Error: err.Error(),
		Kind:  contracts.ErrorKind(err),
	})
}

// StatusFor returns the HTTP status for a pipeline error
func StatusFor(err error) int {
	switch {
	case errors.Is(err, contracts.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, contracts.ErrInvalidInstant),
		errors.Is(err, contracts.ErrDegenerateHouseGeometry):
		return http.StatusUnprocessableEntity
	case errors.Is(err, contracts.ErrEphemerisUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a single JSON object, rejecting unknown fields
func decodeJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return fmt.Errorf("%w: request body: %v", contracts.ErrInvalidInput, err)
	}
	return nil
}
