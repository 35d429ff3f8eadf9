package image

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

type imageDeleterSrv struct {
	repo port.ImageRepository
}

// NewImageDeleter constructs an ImageDeleter implementation.
func NewImageDeleter(repo port.ImageRepository) port.ImageDeleter {
	return &imageDeleterSrv{repo: repo}
}

// SoftDelete marks the image as deleted whatever its current status.
func (s *imageDeleterSrv) SoftDelete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.MarkDeleted(ctx, id)
}
