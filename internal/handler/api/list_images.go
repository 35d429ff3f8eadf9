package api

import (
	"net/http"
	"strconv"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/go-chi/chi/v5"
)

// ListImagesHandler lists the active images of an org unit.
// Query parameters: search, userId, limit. An unparsable limit falls back to the default.
func ListImagesHandler(svc port.ImageLister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		limit, err := strconv.Atoi(q.Get("limit"))
		if err != nil {
			limit = 0
		}

		in := port.ListImagesInput{
			OrgUnitID: chi.URLParam(r, "orgUnitId"),
			Search:    q.Get("search"),
			UserID:    q.Get("userId"),
			Limit:     limit,
		}
		images, err := svc.ListImages(r.Context(), in)
		if err != nil {
			WriteServiceError(w, r, "Failed to retrieve stored images", err)
			return
		}

		count := len(images)
		RespondJSON(w, r, http.StatusOK, Response{Success: true, Data: images, Count: &count})
		logger.Infof(r.Context(), "✅  Returned %d images for org unit %q", count, in.OrgUnitID)
	}
}
