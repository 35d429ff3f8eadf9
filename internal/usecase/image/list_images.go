package image

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

const DefaultListLimit = 50

type imageListerSrv struct {
	repo         port.ImageRepository
	defaultLimit int
	maxLimit     int
}

// NewImageLister constructs an ImageLister implementation.
// A non-positive defaultLimit falls back to DefaultListLimit; a non-positive maxLimit disables the cap.
func NewImageLister(repo port.ImageRepository, defaultLimit, maxLimit int) port.ImageLister {
	if defaultLimit <= 0 {
		defaultLimit = DefaultListLimit
	}
	return &imageListerSrv{repo: repo, defaultLimit: defaultLimit, maxLimit: maxLimit}
}

// ListImages dispatches to search first, then to the user filter, then to the plain org unit listing.
// Any non-empty search term counts, whitespace included.
func (s *imageListerSrv) ListImages(ctx context.Context, in port.ListImagesInput) ([]*model.StoredImage, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if s.maxLimit > 0 && limit > s.maxLimit {
		limit = s.maxLimit
	}

	var (
		images []*model.StoredImage
		err    error
	)
	switch {
	case in.Search != "":
		images, err = s.repo.Search(ctx, in.Search, in.OrgUnitID, limit)
	case in.UserID != "":
		images, err = s.repo.ListByUserAndOrgUnit(ctx, in.UserID, in.OrgUnitID, limit)
	default:
		images, err = s.repo.ListByOrgUnit(ctx, in.OrgUnitID, limit)
	}
	if err != nil {
		return nil, err
	}
	if images == nil {
		images = []*model.StoredImage{}
	}
	return images, nil
}
