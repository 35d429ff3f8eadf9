package model

import (
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

type ImageStatus string

const (
	ImageStatusActive   ImageStatus = "active"
	ImageStatusDeleted  ImageStatus = "deleted"
	ImageStatusArchived ImageStatus = "archived"
)

func (s ImageStatus) IsValid() bool {
	switch s {
	case ImageStatusActive, ImageStatusDeleted, ImageStatusArchived:
		return true
	}
	return false
}

// CanTransitionTo reports whether a record in status s may be moved to next.
// Archived is a known status but nothing leads to it yet.
func (s ImageStatus) CanTransitionTo(next ImageStatus) bool {
	if s != ImageStatusActive {
		return false
	}
	return next == ImageStatusActive || next == ImageStatusDeleted
}

// StoredImage is a Mayo image imported into a D2L org unit.
type StoredImage struct {
	ID uuid.UUID `json:"id"`

	MayoImageID      string  `json:"mayoImageId" validate:"required,max=255"`
	MayoImageTitle   string  `json:"mayoImageTitle" validate:"required"`
	MayoThumbnailURL string  `json:"mayoThumbnailUrl" validate:"required"`
	MayoFullImageURL string  `json:"mayoFullImageUrl" validate:"required"`
	MayoImageWidth   *int    `json:"mayoImageWidth,omitempty" validate:"omitempty,min=0"`
	MayoImageHeight  *int    `json:"mayoImageHeight,omitempty" validate:"omitempty,min=0"`
	MayoCreateDate   *string `json:"mayoCreateDate,omitempty"`

	D2LImageURL  string  `json:"d2lImageUrl" validate:"required"`
	D2LOrgUnitID string  `json:"d2lOrgUnitId" validate:"required,max=255"`
	D2LModuleID  *string `json:"d2lModuleId,omitempty"`
	D2LTopicID   *string `json:"d2lTopicId,omitempty"`
	D2LFileName  string  `json:"d2lFileName" validate:"required"`
	D2LFilePath  string  `json:"d2lFilePath" validate:"required"`

	InsertedBy string    `json:"insertedBy" validate:"required,max=255"`
	InsertedAt time.Time `json:"insertedAt"`

	AltText      *string `json:"altText,omitempty"`
	IsDecorative bool    `json:"isDecorative"`
	Title        *string `json:"title,omitempty"`

	Status     ImageStatus `json:"status" validate:"imagestatus"`
	UsageCount int         `json:"usageCount" validate:"min=1"`
	LastUsed   time.Time   `json:"lastUsed"`

	ContentType *string `json:"contentType,omitempty"`
	FileSize    *int64  `json:"fileSize,omitempty" validate:"omitempty,min=0"`
	Tags        Tags    `json:"tags" validate:"dive,max=100"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *StoredImage) IsActive() bool {
	return i.Status == ImageStatusActive
}

// ImagePatch holds the editable fields of a stored image. Nil means unchanged.
type ImagePatch struct {
	AltText      *string
	IsDecorative *bool
	Title        *string
	Tags         *Tags
	Status       *ImageStatus
}

func (p ImagePatch) IsEmpty() bool {
	return p.AltText == nil && p.IsDecorative == nil && p.Title == nil && p.Tags == nil && p.Status == nil
}

// Apply copies every set field of p onto img.
func (p ImagePatch) Apply(img *StoredImage) {
	if p.AltText != nil {
		img.AltText = p.AltText
	}
	if p.IsDecorative != nil {
		img.IsDecorative = *p.IsDecorative
	}
	if p.Title != nil {
		img.Title = p.Title
	}
	if p.Tags != nil {
		img.Tags = p.Tags.Normalise()
	}
	if p.Status != nil {
		img.Status = *p.Status
	}
}

// ProbedMetadata is what the worker learns by downloading the D2L copy of an image.
type ProbedMetadata struct {
	ContentType string
	FileSize    int64
	Width       int
	Height      int
}
