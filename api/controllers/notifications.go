package controllers

import (
	"net/http"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/internal/notifications"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// ListNotifications returns unexpired notifications, newest first.
func ListNotifications(svc notifications.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "notifications service unavailable"))
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
