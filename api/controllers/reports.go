package controllers

import (
	"net/http"
	"strings"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/api/validators"
	"github.com/raditmaulana/bengkelhub-backend/internal/reports"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// History lists paid records with free-text, date-range, and sort filters.
func History(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}

		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sortBy, err := validators.ParseQueryEnum(r, "sort_by", "date", "name", "code", "cost")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		sortDir, err := validators.ParseQueryEnum(r, "sort_dir", "asc", "desc")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.History(r.Context(), reports.HistoryParams{
			Query:   strings.TrimSpace(r.URL.Query().Get("q")),
			From:    from,
			To:      to,
			SortBy:  sortBy,
			SortDir: sortDir,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// Dashboard returns the admin landing-view summary.
func Dashboard(svc reports.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "reports service unavailable"))
			return
		}
		stats, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
