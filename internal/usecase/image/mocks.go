package image

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

// mockRepo is an in-memory ImageRepository with error injection.
type mockRepo struct {
	mu     sync.Mutex
	images map[uuid.UUID]*model.StoredImage

	findErr      error
	getErr       error
	insertErr    error
	incrementErr error
	updateErr    error
	deleteErr    error
	aggErr       error
	setMetaErr   error

	// returned by FindActiveByExternalID once, before the store is consulted
	findOnce []error

	// run under the lock around IncrementUsage to simulate a concurrent writer
	beforeIncrement func(img *model.StoredImage)
	afterIncrement  func(img *model.StoredImage)

	lastCall   string
	lastLimit  int
	lastQuery  string
	lastUserID string
	inserted   []*model.StoredImage
	patched    *model.ImagePatch
	probedMeta *model.ProbedMetadata
	stats      *model.UsageStats
}

var _ port.ImageRepository = (*mockRepo)(nil)

func newMockRepo(imgs ...*model.StoredImage) *mockRepo {
	m := &mockRepo{images: map[uuid.UUID]*model.StoredImage{}}
	for _, img := range imgs {
		m.images[img.ID] = img
	}
	return m
}

func clone(img *model.StoredImage) *model.StoredImage {
	cp := *img
	return &cp
}

func (m *mockRepo) Insert(ctx context.Context, img *model.StoredImage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	now := time.Now().UTC()
	img.InsertedAt, img.CreatedAt, img.UpdatedAt, img.LastUsed = now, now, now, now
	m.images[img.ID] = clone(img)
	m.inserted = append(m.inserted, clone(img))
	return nil
}

func (m *mockRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	img, ok := m.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	return clone(img), nil
}

func (m *mockRepo) FindActiveByExternalID(ctx context.Context, mayoImageID, orgUnitID string) (*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.findOnce) > 0 {
		err := m.findOnce[0]
		m.findOnce = m.findOnce[1:]
		if err != nil {
			return nil, err
		}
	}
	if m.findErr != nil {
		return nil, m.findErr
	}
	for _, img := range m.images {
		if img.MayoImageID == mayoImageID && img.D2LOrgUnitID == orgUnitID && img.IsActive() {
			return clone(img), nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) list(orgUnitID string, keep func(*model.StoredImage) bool, limit int) []*model.StoredImage {
	out := []*model.StoredImage{}
	for _, img := range m.images {
		if img.D2LOrgUnitID == orgUnitID && img.IsActive() && keep(img) {
			out = append(out, clone(img))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].InsertedAt.After(out[j].InsertedAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (m *mockRepo) ListByOrgUnit(ctx context.Context, orgUnitID string, limit int) ([]*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCall, m.lastLimit = "org", limit
	return m.list(orgUnitID, func(*model.StoredImage) bool { return true }, limit), nil
}

func (m *mockRepo) ListByUserAndOrgUnit(ctx context.Context, userID, orgUnitID string, limit int) ([]*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCall, m.lastLimit, m.lastUserID = "user", limit, userID
	return m.list(orgUnitID, func(img *model.StoredImage) bool { return img.InsertedBy == userID }, limit), nil
}

func (m *mockRepo) Search(ctx context.Context, query, orgUnitID string, limit int) ([]*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastCall, m.lastLimit, m.lastQuery = "search", limit, query
	q := strings.ToLower(query)
	return m.list(orgUnitID, func(img *model.StoredImage) bool {
		if strings.Contains(strings.ToLower(img.MayoImageTitle), q) {
			return true
		}
		if img.AltText != nil && strings.Contains(strings.ToLower(*img.AltText), q) {
			return true
		}
		for _, tag := range img.Tags {
			if strings.Contains(strings.ToLower(tag), q) {
				return true
			}
		}
		return false
	}, limit), nil
}

func (m *mockRepo) Update(ctx context.Context, id uuid.UUID, patch model.ImagePatch) (*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.updateErr != nil {
		return nil, m.updateErr
	}
	img, ok := m.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	m.patched = &patch
	patch.Apply(img)
	img.UpdatedAt = time.Now().UTC()
	return clone(img), nil
}

func (m *mockRepo) IncrementUsage(ctx context.Context, id uuid.UUID) (*model.StoredImage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.incrementErr != nil {
		return nil, m.incrementErr
	}
	img, ok := m.images[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.beforeIncrement != nil {
		m.beforeIncrement(img)
	}
	if !img.IsActive() {
		return nil, ErrNotFound
	}
	now := time.Now().UTC()
	img.UsageCount++
	img.LastUsed, img.UpdatedAt = now, now
	if m.afterIncrement != nil {
		m.afterIncrement(img)
	}
	return clone(img), nil
}

func (m *mockRepo) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	img, ok := m.images[id]
	if !ok {
		return ErrNotFound
	}
	img.Status = model.ImageStatusDeleted
	img.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *mockRepo) AggregateUsage(ctx context.Context, orgUnitID string) (*model.UsageStats, error) {
	if m.aggErr != nil {
		return nil, m.aggErr
	}
	return m.stats, nil
}

func (m *mockRepo) SetProbedMetadata(ctx context.Context, id uuid.UUID, meta model.ProbedMetadata) error {
	m.probedMeta = &meta
	return m.setMetaErr
}

type mockDispatcher struct {
	err      error
	enqueued []uuid.UUID
}

func (d *mockDispatcher) EnqueueProbeImage(ctx context.Context, id uuid.UUID) error {
	d.enqueued = append(d.enqueued, id)
	return d.err
}

type mockProber struct {
	meta   model.ProbedMetadata
	err    error
	called bool
	url    string
}

func (p *mockProber) Probe(ctx context.Context, url string) (model.ProbedMetadata, error) {
	p.called = true
	p.url = url
	return p.meta, p.err
}
