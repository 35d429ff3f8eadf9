package image

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

type imageProberSrv struct {
	repo   port.ImageRepository
	prober port.Prober
}

// NewImageProber constructs an ImageProber implementation.
func NewImageProber(repo port.ImageRepository, prober port.Prober) port.ImageProber {
	return &imageProberSrv{repo: repo, prober: prober}
}

// ProbeImage downloads the D2L copy of the image and records its content type, size and dimensions.
// Images that are gone or no longer active are skipped.
func (s *imageProberSrv) ProbeImage(ctx context.Context, id uuid.UUID) error {
	img, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		logger.Warnf(ctx, "image #%s not found, skipping probe", id)
		return nil
	}
	if err != nil {
		return err
	}
	if !img.IsActive() {
		logger.Infof(ctx, "image #%s is %s, skipping probe", id, img.Status)
		return nil
	}

	meta, err := s.prober.Probe(ctx, img.D2LImageURL)
	if err != nil {
		return fmt.Errorf("probe image #%s at %q: %w", id, img.D2LImageURL, err)
	}

	if err := s.repo.SetProbedMetadata(ctx, id, meta); err != nil {
		return fmt.Errorf("save probed metadata for image #%s: %w", id, err)
	}
	logger.Infof(ctx, "✅  probed image #%s: %s, %d bytes, %dx%d", id, meta.ContentType, meta.FileSize, meta.Width, meta.Height)
	return nil
}
