package controllers

import (
	"net/http"
	"strings"

	"github.com/raditmaulana/bengkelhub-backend/api/responses"
	"github.com/raditmaulana/bengkelhub-backend/api/validators"
	"github.com/raditmaulana/bengkelhub-backend/internal/inventory"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type addItemRequest struct {
	SKU      string `json:"sku" validate:"required"`
	Name     string `json:"name" validate:"required"`
	Category string `json:"category" validate:"required"`
	Price    int64  `json:"price" validate:"min=0"`
	Stock    int    `json:"stock,omitempty" validate:"omitempty,min=0"`
}

// AddInventoryItem registers a new item on the ledger.
func AddInventoryItem(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		category, err := enums.ParseInventoryCategory(req.Category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
			return
		}

		item, err := svc.Add(r.Context(), inventory.AddItemInput{
			SKU:      req.SKU,
			Name:     req.Name,
			Category: category,
			Price:    req.Price,
			Stock:    req.Stock,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// ListInventory lists the ledger by category, or searches by name/sku
// substring when a query is present.
func ListInventory(svc inventory.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "inventory service unavailable"))
			return
		}

		if query := strings.TrimSpace(r.URL.Query().Get("q")); query != "" {
			items, err := svc.Search(r.Context(), query)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
			responses.WriteSuccess(w, items)
			return
		}

		var category enums.InventoryCategory
		if raw := strings.TrimSpace(r.URL.Query().Get("category")); raw != "" {
			parsed, err := enums.ParseInventoryCategory(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid category"))
				return
			}
			category = parsed
		}

		items, err := svc.ListByCategory(r.Context(), category)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}
