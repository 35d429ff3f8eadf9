package mock

import "context"

// HealthChecker implements port.HealthChecker for tests.
type HealthChecker struct {
	CheckName string
	Err       error
}

func (m *HealthChecker) Name() string { return m.CheckName }

func (m *HealthChecker) Check(ctx context.Context) error { return m.Err }
