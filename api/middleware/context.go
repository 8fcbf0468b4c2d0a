package middleware

import (
	"context"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
)

type contextKey string

const (
	ctxClientID contextKey = "client_id"
	ctxRole     contextKey = "actor_role"
)

func ClientIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxClientID).(string); ok {
		return v
	}
	return ""
}

func RoleFromContext(ctx context.Context) enums.UserRole {
	if ctx == nil {
		return enums.RolePublic
	}
	if v, ok := ctx.Value(ctxRole).(enums.UserRole); ok {
		return v
	}
	return enums.RolePublic
}

// WithClientID injects the caller's client identifier into the context.
func WithClientID(ctx context.Context, clientID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxClientID, clientID)
}

// WithRole injects the resolved actor role into the context.
func WithRole(ctx context.Context, role enums.UserRole) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}
