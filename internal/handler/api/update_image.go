package api

import (
	"encoding/json"
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

func UpdateImageHandler(svc port.ImageUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := api_context.IDFromContext(r.Context())
		if !ok {
			WriteError(w, r, http.StatusBadRequest, "ID is required", nil)
			return
		}

		var patch map[string]json.RawMessage
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&patch); err != nil {
			WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
			return
		}

		img, err := svc.UpdateFields(r.Context(), id, patch)
		if err != nil {
			WriteServiceError(w, r, "Failed to update image storage", err)
			return
		}

		RespondJSON(w, r, http.StatusOK, Response{Success: true, Data: img, Message: "Image storage record updated successfully"})
		logger.Infof(r.Context(), "✅  Updated image #%s", id)
	}
}
