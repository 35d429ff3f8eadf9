package port

import (
	"context"
	"encoding/json"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

type UUIDGen func() uuid.UUID

// Resolution tells whether ResolveOrCreate inserted a record or reused one.
type Resolution int

const (
	ResolutionCreated Resolution = iota
	ResolutionReused
)

// ImageResolver stores a Mayo image for an org unit, or bumps the usage of the active copy.
type ImageResolver interface {
	ResolveOrCreate(ctx context.Context, candidate *model.StoredImage) (*model.StoredImage, Resolution, error)
}

type ListImagesInput struct {
	OrgUnitID string
	Search    string
	UserID    string
	Limit     int
}

// ImageLister lists the active images of an org unit.
type ImageLister interface {
	ListImages(ctx context.Context, in ListImagesInput) ([]*model.StoredImage, error)
}

// ImageFetcher returns an active image by id.
// Fetching counts as a use: the usage count is incremented before the record is returned.
type ImageFetcher interface {
	FetchAndRecordUsage(ctx context.Context, id uuid.UUID) (*model.StoredImage, error)
}

// ExternalImageFinder looks up the active copy of a Mayo image in an org unit.
// A missing image is reported as nil without error.
type ExternalImageFinder interface {
	FindByExternalID(ctx context.Context, mayoImageID, orgUnitID string) (*model.StoredImage, error)
}

// ImageUpdater applies the editable fields of a raw patch to an active image.
type ImageUpdater interface {
	UpdateFields(ctx context.Context, id uuid.UUID, patch map[string]json.RawMessage) (*model.StoredImage, error)
}

// ImageDeleter soft-deletes an image.
type ImageDeleter interface {
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// UsageReporter computes usage statistics for an org unit.
type UsageReporter interface {
	UsageStatistics(ctx context.Context, orgUnitID string) (*model.UsageStats, error)
}

// ImageProber fills in the technical metadata of a stored image.
type ImageProber interface {
	ProbeImage(ctx context.Context, id uuid.UUID) error
}
