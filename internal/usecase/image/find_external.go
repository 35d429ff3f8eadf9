package image

import (
	"context"
	"errors"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

type externalImageFinderSrv struct {
	repo port.ImageRepository
}

// NewExternalImageFinder constructs an ExternalImageFinder implementation.
func NewExternalImageFinder(repo port.ImageRepository) port.ExternalImageFinder {
	return &externalImageFinderSrv{repo: repo}
}

func (s *externalImageFinderSrv) FindByExternalID(ctx context.Context, mayoImageID, orgUnitID string) (*model.StoredImage, error) {
	img, err := s.repo.FindActiveByExternalID(ctx, mayoImageID, orgUnitID)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}
