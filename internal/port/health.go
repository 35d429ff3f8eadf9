package port

import "context"

// HealthChecker reports whether a backing service is reachable.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}
