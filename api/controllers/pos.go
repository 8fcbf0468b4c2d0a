package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/api/validators"
	"github.com/raditmaulana/bengkelhub-backend/internal/pos"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

const registerIDHeader = "X-Register-Id"

type selectRecordRequest struct {
	RecordCode string `json:"record_code" validate:"required"`
}

type addCartItemRequest struct {
	ItemID   string `json:"item_id" validate:"required,uuid"`
	Quantity int    `json:"quantity,omitempty" validate:"omitempty,min=1"`
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type setLaborRequest struct {
	Labor int64 `json:"labor" validate:"min=0"`
}

func registerID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(registerIDHeader))
	if id == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "X-Register-Id header required")
	}
	return id, nil
}

// ReadyForPayment lists completed records awaiting checkout.
func ReadyForPayment(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		list, err := svc.Ready(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SelectRecord opens a register session seeded from the record's line items.
func SelectRecord(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req selectRecordRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Select(r.Context(), register, req.RecordCode)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// CurrentSession returns the register's open session with a fresh quote.
func CurrentSession(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quote, err := svc.Current(r.Context(), register)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// AddCartItem adds an item to the cart, merging with an existing line.
func AddCartItem(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addCartItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuid.Parse(req.ItemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		quote, err := svc.AddItem(r.Context(), register, itemID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// SetCartQuantity pins a line's quantity; zero or below removes the line.
func SetCartQuantity(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		var req setQuantityRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.SetQuantity(r.Context(), register, itemID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// RemoveCartItem deletes a cart line.
func RemoveCartItem(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		itemID, err := uuid.Parse(chi.URLParam(r, "itemId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid item id"))
			return
		}

		quote, err := svc.RemoveItem(r.Context(), register, itemID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// SetLaborCost updates the labor charge on the open session.
func SetLaborCost(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req setLaborRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.SetLabor(r.Context(), register, req.Labor)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, quote)
	}
}

// Checkout commits the open session: record paid, stock decremented.
func Checkout(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Checkout(r.Context(), register)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// AbandonSession drops the register session without committing.
func AbandonSession(svc pos.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pos service unavailable"))
			return
		}
		register, err := registerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), register); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}
