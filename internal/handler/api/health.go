package api

import (
	"context"
	"net/http"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		RespondJSON(w, r, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// ReadyHandler answers 503 as soon as one checker fails.
func ReadyHandler(timeout time.Duration, checkers ...port.HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(checkers))}
		status := http.StatusOK
		for _, c := range checkers {
			if err := c.Check(ctx); err != nil {
				resp.Checks[c.Name()] = err.Error()
				resp.Status = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[c.Name()] = "ok"
		}

		RespondJSON(w, r, status, resp)
	}
}
