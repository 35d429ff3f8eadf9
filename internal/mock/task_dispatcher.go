package mock

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/port"
	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

// Dispatcher implements task dispatching for tests.
type Dispatcher struct {
	ProbeCalled bool
	ProbeIDs    []uuid.UUID
	ProbeErr    error
}

func (m *Dispatcher) EnqueueProbeImage(ctx context.Context, id uuid.UUID) error {
	m.ProbeCalled = true
	m.ProbeIDs = append(m.ProbeIDs, id)
	return m.ProbeErr
}

var _ port.TaskDispatcher = (*Dispatcher)(nil)
