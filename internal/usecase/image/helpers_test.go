package image

import (
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func strPtr(s string) *string { return &s }

func candidate(mayoID, orgUnit string) *model.StoredImage {
	return &model.StoredImage{
		MayoImageID:      mayoID,
		MayoImageTitle:   "T",
		MayoThumbnailURL: "u1",
		MayoFullImageURL: "u2",
		D2LImageURL:      "d1",
		D2LOrgUnitID:     orgUnit,
		D2LFileName:      "f",
		D2LFilePath:      "/p",
		InsertedBy:       "u1",
	}
}

func storedImage(mayoID, orgUnit string, status model.ImageStatus, insertedAt time.Time) *model.StoredImage {
	img := candidate(mayoID, orgUnit)
	img.ID = uuid.NewUUID()
	img.Status = status
	img.UsageCount = 1
	img.Tags = model.Tags{}
	img.InsertedAt = insertedAt
	img.CreatedAt = insertedAt
	img.UpdatedAt = insertedAt
	img.LastUsed = insertedAt
	return img
}
