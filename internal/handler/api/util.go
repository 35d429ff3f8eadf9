package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	imageService "github.com/fhuszti/stored-images-ms-go/internal/usecase/image"
)

const (
	msgImageNotFound    = "Image not found"
	msgValidationFailed = "Validation failed"
)

// Response is the success envelope shared by every endpoint.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Count   *int   `json:"count,omitempty"`
	Message string `json:"message,omitempty"`
}

type ErrorResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// WriteError logs with the request context, then writes the error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	if err != nil {
		logger.Errorf(r.Context(), "❌  %s: %v", msg, err)
	} else {
		logger.Warn(r.Context(), "❌  "+msg)
	}
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	RespondJSON(w, r, status, ErrorResponse{Success: false, Message: msg})
}

// WriteServiceError maps use case errors to a status code.
// Unexpected errors become a 500 whose message embeds the error text, prefixed by failMsg.
func WriteServiceError(w http.ResponseWriter, r *http.Request, failMsg string, err error) {
	var ve *imageService.ValidationError
	switch {
	case errors.Is(err, imageService.ErrNotFound):
		WriteError(w, r, http.StatusNotFound, msgImageNotFound, nil)
	case errors.As(err, &ve):
		logger.Warnf(r.Context(), "❌  %s: %v", failMsg, err)
		w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
		RespondJSON(w, r, http.StatusBadRequest, ErrorResponse{Success: false, Message: msgValidationFailed, Errors: ve.Fields})
	default:
		WriteError(w, r, http.StatusInternalServerError, fmt.Sprintf("%s: %v", failMsg, err), err)
	}
}

func RespondJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Errorf(r.Context(), "❌  Failed to encode JSON response: %v", err)
	}
}
