package port

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

// TaskDispatcher enqueues asynchronous tasks related to stored images.
type TaskDispatcher interface {
	EnqueueProbeImage(ctx context.Context, id uuid.UUID) error
}
