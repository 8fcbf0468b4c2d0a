package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/internal/mechanics"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// ListMechanics returns the roster.
func ListMechanics(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mechanics service unavailable"))
			return
		}
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// ToggleMechanic flips a mechanic's availability flag (operator override).
func ToggleMechanic(svc mechanics.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "mechanics service unavailable"))
			return
		}
		mechanic, err := svc.Toggle(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, mechanic)
	}
}
