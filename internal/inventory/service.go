package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type notifier interface {
	Emit(ctx context.Context, kind enums.NotificationType, message string) error
}

// AddItemInput carries a new ledger entry.
type AddItemInput struct {
	SKU      string
	Name     string
	Category enums.InventoryCategory
	Price    int64
	Stock    int
}

// DecrementResult reports the outcome of one committed stock decrement.
type DecrementResult struct {
	Item       *models.InventoryItem
	Backorder  bool
	FinalStock int
}

// Service exposes ledger operations. Stock decrements happen only through
// DecrementTx, which only the checkout commit calls.
type Service interface {
	Add(ctx context.Context, input AddItemInput) (*models.InventoryItem, error)
	Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ListByCategory(ctx context.Context, category enums.InventoryCategory) ([]models.InventoryItem, error)
	Search(ctx context.Context, query string) ([]models.InventoryItem, error)
	DecrementTx(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, recordID uuid.UUID, transactionID string) (*DecrementResult, error)
}

type service struct {
	repo     Repository
	notifier notifier
	logg     *logger.Logger
}

// NewService wires ledger dependencies.
func NewService(repo Repository, notif notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "inventory repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, notifier: notif, logg: logg}, nil
}

func (s *service) Add(ctx context.Context, input AddItemInput) (*models.InventoryItem, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item name required")
	}
	if strings.TrimSpace(input.SKU) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item sku required")
	}
	if input.Price < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item price must be non-negative")
	}
	if !input.Category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}
	if input.Stock < 0 {
		input.Stock = 0
	}

	if existing, err := s.repo.FindBySKU(ctx, input.SKU); err == nil && existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "sku already registered").
			WithDetails(map[string]any{"sku": existing.SKU})
	}

	item := &models.InventoryItem{
		ID:       uuid.New(),
		SKU:      strings.TrimSpace(input.SKU),
		Name:     strings.TrimSpace(input.Name),
		Category: input.Category,
		Price:    input.Price,
		Stock:    input.Stock,
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create inventory item")
	}

	s.notify(ctx, "New inventory item added: "+item.Name)
	return item, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item id required")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) ListByCategory(ctx context.Context, category enums.InventoryCategory) ([]models.InventoryItem, error) {
	if category != "" && !category.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid item category")
	}
	return s.repo.ListByCategory(ctx, category)
}

func (s *service) Search(ctx context.Context, query string) ([]models.InventoryItem, error) {
	if strings.TrimSpace(query) == "" {
		return []models.InventoryItem{}, nil
	}
	return s.repo.Search(ctx, query)
}

// DecrementTx applies a sale decrement inside the caller's transaction.
// There is no sufficiency check: stock may go negative and the item is then
// flagged backordered for the caller to surface as a warning.
func (s *service) DecrementTx(ctx context.Context, tx *gorm.DB, itemID uuid.UUID, qty int, recordID uuid.UUID, transactionID string) (*DecrementResult, error) {
	if qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decrement quantity must be positive")
	}
	repo := s.repo.WithTx(tx)

	if _, err := repo.LockForUpdate(ctx, itemID); err != nil {
		return nil, err
	}
	item, err := repo.ApplyStockDelta(ctx, itemID, -qty)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply stock decrement")
	}

	movement := &models.StockMovement{
		ID:              uuid.New(),
		ItemID:          itemID,
		Quantity:        -qty,
		Reason:          enums.StockMovementSale,
		ServiceRecordID: &recordID,
		TransactionID:   &transactionID,
	}
	if err := repo.CreateMovement(ctx, movement); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record stock movement")
	}

	return &DecrementResult{
		Item:       item,
		Backorder:  item.Stock < 0,
		FinalStock: item.Stock,
	}, nil
}

func (s *service) notify(ctx context.Context, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, enums.NotificationTypeInventory, msg); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notification emit failed")
	}
}
