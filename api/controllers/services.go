package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/api/validators"
	"github.com/raditmaulana/bengkelhub-backend/internal/lifecycle"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type intakeRequest struct {
	CustomerName       string  `json:"customer_name" validate:"required"`
	LicensePlate       string  `json:"license_plate" validate:"required"`
	VehicleType        string  `json:"vehicle_type" validate:"required"`
	ProblemDescription string  `json:"problem_description" validate:"required"`
	MechanicCode       string  `json:"mechanic_code,omitempty"`
	EstimatedPickup    *string `json:"estimated_pickup,omitempty"`
	LaborCost          *int64  `json:"labor_cost,omitempty" validate:"omitempty,min=0"`
}

type updateServiceRequest struct {
	CustomerName       *string `json:"customer_name,omitempty"`
	LicensePlate       *string `json:"license_plate,omitempty"`
	VehicleType        *string `json:"vehicle_type,omitempty"`
	ProblemDescription *string `json:"problem_description,omitempty"`
	MechanicCode       *string `json:"mechanic_code,omitempty"`
	EstimatedPickup    *string `json:"estimated_pickup,omitempty"`
	LaborCost          *int64  `json:"labor_cost,omitempty" validate:"omitempty,min=0"`
}

// CreateService handles intake of a new service ticket.
func CreateService(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "records service unavailable"))
			return
		}

		var req intakeRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), records.IntakeInput{
			CustomerName:       req.CustomerName,
			LicensePlate:       req.LicensePlate,
			VehicleType:        req.VehicleType,
			ProblemDescription: req.ProblemDescription,
			MechanicCode:       req.MechanicCode,
			EstimatedPickup:    req.EstimatedPickup,
			LaborCost:          req.LaborCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// ListServices returns records, optionally filtered by status.
func ListServices(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "records service unavailable"))
			return
		}

		var statuses []enums.ServiceStatus
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			for _, part := range strings.Split(raw, ",") {
				status, err := enums.ParseServiceStatus(strings.TrimSpace(part))
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
					return
				}
				statuses = append(statuses, status)
			}
		}

		list, err := svc.ListByStatus(r.Context(), statuses...)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// GetService finds one record by code or license plate.
func GetService(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "records service unavailable"))
			return
		}

		record, err := svc.Find(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, record)
	}
}

// UpdateService patches a record's mutable fields, routing mechanic changes
// through the lifecycle controller.
func UpdateService(svc records.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "records service unavailable"))
			return
		}

		var req updateServiceRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Update(r.Context(), chi.URLParam(r, "code"), records.UpdateInput{
			CustomerName:       req.CustomerName,
			LicensePlate:       req.LicensePlate,
			VehicleType:        req.VehicleType,
			ProblemDescription: req.ProblemDescription,
			MechanicCode:       req.MechanicCode,
			EstimatedPickup:    req.EstimatedPickup,
			LaborCost:          req.LaborCost,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// StartService moves a queued job into progress.
func StartService(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lifecycle service unavailable"))
			return
		}
		result, err := svc.Start(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CompleteService moves an in-progress job to completed, freeing its mechanic.
func CompleteService(svc lifecycle.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "lifecycle service unavailable"))
			return
		}
		result, err := svc.Complete(r.Context(), chi.URLParam(r, "code"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
