package api

import (
	"encoding/json"
	"net/http"

	"github.com/fhuszti/stored-images-ms-go/internal/api_context"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

const maxBodyBytes = 1 << 20

// CreateImageRequest lists the fields a client may set when storing an image.
type CreateImageRequest struct {
	MayoImageID      string     `json:"mayoImageId"`
	MayoImageTitle   string     `json:"mayoImageTitle"`
	MayoThumbnailURL string     `json:"mayoThumbnailUrl"`
	MayoFullImageURL string     `json:"mayoFullImageUrl"`
	MayoImageWidth   *int       `json:"mayoImageWidth"`
	MayoImageHeight  *int       `json:"mayoImageHeight"`
	MayoCreateDate   *string    `json:"mayoCreateDate"`
	D2LImageURL      string     `json:"d2lImageUrl"`
	D2LOrgUnitID     string     `json:"d2lOrgUnitId"`
	D2LModuleID      *string    `json:"d2lModuleId"`
	D2LTopicID       *string    `json:"d2lTopicId"`
	D2LFileName      string     `json:"d2lFileName"`
	D2LFilePath      string     `json:"d2lFilePath"`
	InsertedBy       string     `json:"insertedBy"`
	AltText          *string    `json:"altText"`
	IsDecorative     bool       `json:"isDecorative"`
	Title            *string    `json:"title"`
	ContentType      *string    `json:"contentType"`
	FileSize         *int64     `json:"fileSize"`
	Tags             model.Tags `json:"tags"`
}

func (req CreateImageRequest) toModel() *model.StoredImage {
	return &model.StoredImage{
		MayoImageID:      req.MayoImageID,
		MayoImageTitle:   req.MayoImageTitle,
		MayoThumbnailURL: req.MayoThumbnailURL,
		MayoFullImageURL: req.MayoFullImageURL,
		MayoImageWidth:   req.MayoImageWidth,
		MayoImageHeight:  req.MayoImageHeight,
		MayoCreateDate:   req.MayoCreateDate,
		D2LImageURL:      req.D2LImageURL,
		D2LOrgUnitID:     req.D2LOrgUnitID,
		D2LModuleID:      req.D2LModuleID,
		D2LTopicID:       req.D2LTopicID,
		D2LFileName:      req.D2LFileName,
		D2LFilePath:      req.D2LFilePath,
		InsertedBy:       req.InsertedBy,
		AltText:          req.AltText,
		IsDecorative:     req.IsDecorative,
		Title:            req.Title,
		ContentType:      req.ContentType,
		FileSize:         req.FileSize,
		Tags:             req.Tags.Normalise(),
	}
}

// CreateImageHandler stores an image, or records a new use of the copy already stored in the org unit.
// It answers 201 on creation and 200 on reuse.
func CreateImageHandler(svc port.ImageResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateImageRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			WriteError(w, r, http.StatusBadRequest, "Invalid request body", err)
			return
		}
		if req.InsertedBy == "" {
			if uid, ok := api_context.AuthUserIDFromContext(r.Context()); ok {
				req.InsertedBy = uid
			}
		}

		img, res, err := svc.ResolveOrCreate(r.Context(), req.toModel())
		if err != nil {
			WriteServiceError(w, r, "Failed to save image storage", err)
			return
		}

		if res == port.ResolutionReused {
			RespondJSON(w, r, http.StatusOK, Response{Success: true, Data: img, Message: "Image already exists, usage count updated"})
			logger.Infof(r.Context(), "✅  Reused image #%s, usage now %d", img.ID, img.UsageCount)
			return
		}

		RespondJSON(w, r, http.StatusCreated, Response{Success: true, Data: img, Message: "Image storage record created successfully"})
		logger.Infof(r.Context(), "✅  Stored mayo image %q as #%s in org unit %q", img.MayoImageID, img.ID, img.D2LOrgUnitID)
	}
}
