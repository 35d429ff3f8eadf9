package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/validation"
)

type imageResolverSrv struct {
	repo  port.ImageRepository
	tasks port.TaskDispatcher
	genID port.UUIDGen
}

// NewImageResolver constructs an ImageResolver implementation.
func NewImageResolver(repo port.ImageRepository, tasks port.TaskDispatcher, genID port.UUIDGen) port.ImageResolver {
	return &imageResolverSrv{repo: repo, tasks: tasks, genID: genID}
}

// ResolveOrCreate reuses the active record for the candidate's Mayo image and org unit,
// incrementing its usage, or inserts a new one.
func (s *imageResolverSrv) ResolveOrCreate(ctx context.Context, candidate *model.StoredImage) (*model.StoredImage, port.Resolution, error) {
	if candidate == nil {
		return nil, port.ResolutionCreated, fieldError("body", "required")
	}

	existing, err := s.repo.FindActiveByExternalID(ctx, candidate.MayoImageID, candidate.D2LOrgUnitID)
	switch {
	case err == nil:
		img, res, rerr := s.reuse(ctx, existing)
		if !errors.Is(rerr, ErrNotFound) {
			return img, res, rerr
		}
		logger.Infof(ctx, "image #%s was deleted before it could be reused, creating a new record", existing.ID)
	case !errors.Is(err, ErrNotFound):
		return nil, port.ResolutionCreated, fmt.Errorf("lookup of mayo image %q in org unit %q: %w", candidate.MayoImageID, candidate.D2LOrgUnitID, err)
	}

	img := *candidate
	img.ID = s.genID()
	img.Status = model.ImageStatusActive
	img.UsageCount = 1
	img.Tags = img.Tags.Normalise()

	if err := validation.ValidateStruct(img); err != nil {
		return nil, port.ResolutionCreated, NewValidationError(err)
	}

	if err := s.repo.Insert(ctx, &img); err != nil {
		if errors.Is(err, ErrDuplicateActive) {
			// lost a race against a concurrent create of the same pair
			logger.Infof(ctx, "mayo image %q already stored in org unit %q, reusing it", img.MayoImageID, img.D2LOrgUnitID)
			existing, ferr := s.repo.FindActiveByExternalID(ctx, img.MayoImageID, img.D2LOrgUnitID)
			if ferr != nil {
				return nil, port.ResolutionCreated, fmt.Errorf("reload of concurrently created image: %w", ferr)
			}
			reused, res, rerr := s.reuse(ctx, existing)
			if errors.Is(rerr, ErrNotFound) {
				return nil, res, fmt.Errorf("concurrently created image #%s was deleted before it could be reused", existing.ID)
			}
			return reused, res, rerr
		}
		return nil, port.ResolutionCreated, err
	}
	createdTotal.Inc()

	if err := s.tasks.EnqueueProbeImage(ctx, img.ID); err != nil {
		logger.Warnf(ctx, "failed to enqueue probe for image #%s: %v", img.ID, err)
	}

	return &img, port.ResolutionCreated, nil
}

func (s *imageResolverSrv) reuse(ctx context.Context, existing *model.StoredImage) (*model.StoredImage, port.Resolution, error) {
	updated, err := s.repo.IncrementUsage(ctx, existing.ID)
	if err != nil {
		return nil, port.ResolutionReused, fmt.Errorf("increment usage of image #%s: %w", existing.ID, err)
	}
	usageIncrementsTotal.Inc()
	if !updated.IsActive() {
		return nil, port.ResolutionReused, ErrNotFound
	}
	reusedTotal.Inc()
	return updated, port.ResolutionReused, nil
}
