package api_context

import (
	"context"

	"github.com/fhuszti/stored-images-ms-go/internal/uuid"
)

type ctxKey string

const (
	IDKey         ctxKey = "id"
	AuthUserIDKey ctxKey = "authUserID"
	AuthRolesKey  ctxKey = "authRoles"
	RequestIDKey  ctxKey = "requestID"
)

func IDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(IDKey).(uuid.UUID)
	return id, ok
}

// AuthUserIDFromContext returns the LMS user identifier taken from the token subject.
func AuthUserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(AuthUserIDKey).(string)
	return id, ok && id != ""
}

func AuthRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(AuthRolesKey).([]string)
	return roles, ok
}

func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(RequestIDKey).(string)
	return id, ok && id != ""
}
