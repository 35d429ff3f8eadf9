package mock

import (
	"context"
	"encoding/json"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

// ImageResolver implements port.ImageResolver for tests.
type ImageResolver struct {
	Out        *model.StoredImage
	Resolution port.Resolution
	Err        error

	Called bool
	In     *model.StoredImage
}

func (m *ImageResolver) ResolveOrCreate(ctx context.Context, candidate *model.StoredImage) (*model.StoredImage, port.Resolution, error) {
	m.Called = true
	m.In = candidate
	return m.Out, m.Resolution, m.Err
}

// ImageLister implements port.ImageLister for tests.
type ImageLister struct {
	Out []*model.StoredImage
	Err error

	Called bool
	In     port.ListImagesInput
}

func (m *ImageLister) ListImages(ctx context.Context, in port.ListImagesInput) ([]*model.StoredImage, error) {
	m.Called = true
	m.In = in
	return m.Out, m.Err
}

// ImageFetcher implements port.ImageFetcher for tests.
type ImageFetcher struct {
	Out *model.StoredImage
	Err error

	Called bool
	ID     uuid.UUID
}

func (m *ImageFetcher) FetchAndRecordUsage(ctx context.Context, id uuid.UUID) (*model.StoredImage, error) {
	m.Called = true
	m.ID = id
	return m.Out, m.Err
}

// ExternalImageFinder implements port.ExternalImageFinder for tests.
type ExternalImageFinder struct {
	Out *model.StoredImage
	Err error

	MayoImageID string
	OrgUnitID   string
}

func (m *ExternalImageFinder) FindByExternalID(ctx context.Context, mayoImageID, orgUnitID string) (*model.StoredImage, error) {
	m.MayoImageID = mayoImageID
	m.OrgUnitID = orgUnitID
	return m.Out, m.Err
}

// ImageUpdater implements port.ImageUpdater for tests.
type ImageUpdater struct {
	Out *model.StoredImage
	Err error

	Called bool
	ID     uuid.UUID
	Patch  map[string]json.RawMessage
}

func (m *ImageUpdater) UpdateFields(ctx context.Context, id uuid.UUID, patch map[string]json.RawMessage) (*model.StoredImage, error) {
	m.Called = true
	m.ID = id
	m.Patch = patch
	return m.Out, m.Err
}

// ImageDeleter implements port.ImageDeleter for tests.
type ImageDeleter struct {
	Err error

	Called bool
	ID     uuid.UUID
}

func (m *ImageDeleter) SoftDelete(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

// UsageReporter implements port.UsageReporter for tests.
type UsageReporter struct {
	Out *model.UsageStats
	Err error

	OrgUnitID string
}

func (m *UsageReporter) UsageStatistics(ctx context.Context, orgUnitID string) (*model.UsageStats, error) {
	m.OrgUnitID = orgUnitID
	return m.Out, m.Err
}

// ImageProber implements port.ImageProber for tests.
type ImageProber struct {
	Err error

	Called bool
	ID     uuid.UUID
}

func (m *ImageProber) ProbeImage(ctx context.Context, id uuid.UUID) error {
	m.Called = true
	m.ID = id
	return m.Err
}

var (
	_ port.ImageResolver       = (*ImageResolver)(nil)
	_ port.ImageLister         = (*ImageLister)(nil)
	_ port.ImageFetcher        = (*ImageFetcher)(nil)
	_ port.ExternalImageFinder = (*ExternalImageFinder)(nil)
	_ port.ImageUpdater        = (*ImageUpdater)(nil)
	_ port.ImageDeleter        = (*ImageDeleter)(nil)
	_ port.UsageReporter       = (*UsageReporter)(nil)
	_ port.ImageProber         = (*ImageProber)(nil)
)
