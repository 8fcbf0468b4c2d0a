package controllers

import (
	"net/http"

	"github.com/raditmaulana/bengkelhub-backend/api/middleware"
	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/api/validators"
	"github.com/raditmaulana/bengkelhub-backend/internal/session"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type switchRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// SwitchRole stores the caller's simulated role and returns the landing view.
func SwitchRole(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		clientID := middleware.ClientIDFromContext(r.Context())
		if clientID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Client-Id header required"))
			return
		}

		var req switchRoleRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		role, err := enums.ParseUserRole(req.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid role"))
			return
		}

		state, err := svc.Switch(r.Context(), clientID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}

// CurrentRole reads back the stored role selection.
func CurrentRole(svc session.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "session service unavailable"))
			return
		}

		clientID := middleware.ClientIDFromContext(r.Context())
		if clientID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "X-Client-Id header required"))
			return
		}

		state, err := svc.Current(r.Context(), clientID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, state)
	}
}
