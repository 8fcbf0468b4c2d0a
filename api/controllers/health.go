package controllers

import (
	"context"
	"net/http"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when every backing dependency answers.
func HealthReady(logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(r.Context()); err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable"))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
