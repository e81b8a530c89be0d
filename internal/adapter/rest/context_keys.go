package rest

import (
	"context"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/listing/domain"
)

// ContextKey is a private type for request context keys.
type ContextKey string

const (
	UserIDCtxKey   = ContextKey("user_id")
	UserRoleCtxKey = ContextKey("user_role")
)

func withIdentity(ctx context.Context, userID string, role domain.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDCtxKey, userID)
	return context.WithValue(ctx, UserRoleCtxKey, role)
}

// UserIDFromContext returns the authenticated user id set by JWTAuth.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDCtxKey).(string)
	return id, ok && id != ""
}

func RoleFromContext(ctx context.Context) domain.Role {
	role, _ := ctx.Value(UserRoleCtxKey).(domain.Role)
	return role
}
