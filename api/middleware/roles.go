package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/internal/session"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

const clientIDHeader = "X-Client-Id"

type roleResolver interface {
	Current(ctx context.Context, clientID string) (*session.RoleState, error)
}

// ResolveRole reads the caller's client id header, looks up the simulated
// role selection, and places both on the request context. No header means
// the public role. This simulates role-based access; it is not auth.
func ResolveRole(sessions roleResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			role := enums.RolePublic

			clientID := strings.TrimSpace(r.Header.Get(clientIDHeader))
			if clientID != "" {
				ctx = WithClientID(ctx, clientID)
				if sessions != nil {
					if state, err := sessions.Current(ctx, clientID); err == nil {
						role = state.Role
					}
				}
			}

			ctx = WithRole(ctx, role)
			if logg != nil {
				ctx = logg.WithActorRole(ctx, string(role))
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route to the given roles. Admin always passes.
func RequireRole(logg *logger.Logger, roles ...enums.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor := RoleFromContext(r.Context())
			if actor == enums.RoleAdmin {
				next.ServeHTTP(w, r)
				return
			}
			for _, role := range roles {
				if actor == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeForbidden, "role not permitted for this operation"))
		})
	}
}
