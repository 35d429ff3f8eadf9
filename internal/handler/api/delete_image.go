package api

import (
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

// DeleteImageHandler soft-deletes an image by ID.
func DeleteImageHandler(svc port.ImageDeleter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		if err := svc.SoftDelete(r.Context(), id); err != nil {
			WriteServiceError(w, r, "Failed to delete image storage", err)
			return
		}

		RespondJSON(w, r, http.StatusOK, Response{Success: true, Message: "Image storage record deleted successfully"})
		logger.Infof(r.Context(), "✅  Successfully deleted image #%s", id)
	}
}
