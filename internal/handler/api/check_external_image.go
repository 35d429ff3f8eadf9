package api

import (
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/go-chi/chi/v5"
)

type ExistsResponse struct {
	Success bool               `json:"success"`
	Exists  bool               `json:"exists"`
	Data    *model.StoredImage `json:"data"`
}

// CheckExternalImageHandler tells whether a Mayo image is already stored, and active, in an org unit.
func CheckExternalImageHandler(svc port.ExternalImageFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, err := svc.FindByExternalID(r.Context(), chi.URLParam(r, "mayoImageId"), chi.URLParam(r, "orgUnitId"))
		if err != nil {
			WriteServiceError(w, r, "Failed to check image existence", err)
			return
		}

		RespondJSON(w, r, http.StatusOK, ExistsResponse{Success: true, Exists: img != nil, Data: img})
	}
}
