package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

type imageFetcherSrv struct {
	repo port.ImageRepository
}

// NewImageFetcher constructs an ImageFetcher implementation.
func NewImageFetcher(repo port.ImageRepository) port.ImageFetcher {
	return &imageFetcherSrv{repo: repo}
}

// FetchAndRecordUsage returns the active image with the given id and counts the fetch as a use.
// Images in any other status are reported as ErrNotFound, including one deleted while it is being fetched.
func (s *imageFetcherSrv) FetchAndRecordUsage(ctx context.Context, id uuid.UUID) (*model.StoredImage, error) {
	updated, err := s.repo.IncrementUsage(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("increment usage of image #%s: %w", id, err)
	}
	usageIncrementsTotal.Inc()

	if !updated.IsActive() {
		logger.Infof(ctx, "image #%s became %s after its usage was recorded", id, updated.Status)
		return nil, ErrNotFound
	}
	return updated, nil
}
