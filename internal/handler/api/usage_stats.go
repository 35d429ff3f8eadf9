package api

import (
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/go-chi/chi/v5"
)

func UsageStatsHandler(svc port.UsageReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.UsageStatistics(r.Context(), chi.URLParam(r, "orgUnitId"))
		if err != nil {
			WriteServiceError(w, r, "Failed to get usage statistics", err)
			return
		}

		RespondJSON(w, r, http.StatusOK, Response{Success: true, Data: stats})
	}
}
