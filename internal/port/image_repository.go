package port

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

// ImageRepository defines persistence operations for stored images.
// Lookups by org unit only ever return active records; GetByID does not filter on status.
type ImageRepository interface {
	Insert(ctx context.Context, img *model.StoredImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.StoredImage, error)
	FindActiveByExternalID(ctx context.Context, mayoImageID, orgUnitID string) (*model.StoredImage, error)
	ListByOrgUnit(ctx context.Context, orgUnitID string, limit int) ([]*model.StoredImage, error)
	ListByUserAndOrgUnit(ctx context.Context, userID, orgUnitID string, limit int) ([]*model.StoredImage, error)
	Search(ctx context.Context, query, orgUnitID string, limit int) ([]*model.StoredImage, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ImagePatch) (*model.StoredImage, error)
	IncrementUsage(ctx context.Context, id uuid.UUID) (*model.StoredImage, error)
	MarkDeleted(ctx context.Context, id uuid.UUID) error
	AggregateUsage(ctx context.Context, orgUnitID string) (*model.UsageStats, error)
	SetProbedMetadata(ctx context.Context, id uuid.UUID, meta model.ProbedMetadata) error
}
