package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/task"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
	"github.com/hibiken/asynq"
)

// ProbeImageHandler handles an image:probe task.
// A payload without a valid image ID, or an image URL the prober refuses, is never retried.
func ProbeImageHandler(ctx context.Context, p task.ProbeImagePayload, svc port.ImageProber) error {
	id, err := uuid.Parse(p.ImageID)
	if err != nil {
		logger.Errorf(ctx, "❌  Invalid image ID %q: %v", p.ImageID, err)
		return fmt.Errorf("invalid image id %q: %v: %w", p.ImageID, err, asynq.SkipRetry)
	}

	if err := svc.ProbeImage(ctx, id); err != nil {
		if errors.Is(err, port.ErrURLNotAllowed) {
			logger.Warnf(ctx, "⚠️  Refused to probe image #%s: %v", id, err)
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		logger.Errorf(ctx, "❌  Failed to probe image #%s: %v", id, err)
		return err
	}

	logger.Infof(ctx, "✅  Successfully probed image #%s", id)
	return nil
}
