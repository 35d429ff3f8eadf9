package api

import (
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

// GetImageHandler returns an active image. Every successful call counts as a use of the image.
func GetImageHandler(svc port.ImageFetcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		img, err := svc.FetchAndRecordUsage(r.Context(), id)
		if err != nil {
			WriteServiceError(w, r, "Failed to retrieve image", err)
			return
		}

		RespondJSON(w, r, http.StatusOK, Response{Success: true, Data: img})
		logger.Infof(r.Context(), "✅  Returned image #%s, usage now %d", id, img.UsageCount)
	}
}
