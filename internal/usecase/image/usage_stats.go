package image

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/model"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
)

type usageReporterSrv struct {
	repo port.ImageRepository
}

// NewUsageReporter constructs a UsageReporter implementation.
func NewUsageReporter(repo port.ImageRepository) port.UsageReporter {
	return &usageReporterSrv{repo: repo}
}

// UsageStatistics never returns a nil summary or nil top list, even for an empty org unit.
func (s *usageReporterSrv) UsageStatistics(ctx context.Context, orgUnitID string) (*model.UsageStats, error) {
	stats, err := s.repo.AggregateUsage(ctx, orgUnitID)
	if err != nil {
		return nil, err
	}
	if stats == nil {
		stats = &model.UsageStats{}
	}
	if stats.Summary.TotalImages == 0 {
		stats.Summary = model.UsageSummary{}
	}
	if stats.TopImages == nil {
		stats.TopImages = []model.TopImage{}
	}
	return stats, nil
}
