package inventory

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

// Repository exposes persistence helpers for the inventory ledger.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, item *models.InventoryItem) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error)
	ListByCategory(ctx context.Context, category enums.InventoryCategory) ([]models.InventoryItem, error)
	Search(ctx context.Context, query string) ([]models.InventoryItem, error)
	LockForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
	ApplyStockDelta(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error)
	CreateMovement(ctx context.Context, movement *models.StockMovement) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, item *models.InventoryItem) error {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return pkgerrors.New(pkgerrors.CodeConflict, "sku already registered")
		}
		return err
	}
	return nil
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("LOWER(sku) = ?", strings.ToLower(strings.TrimSpace(sku))).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *repositoryImpl) ListByCategory(ctx context.Context, category enums.InventoryCategory) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	query := r.db.WithContext(ctx).Model(&models.InventoryItem{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Order("sku ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Search matches case-insensitive substrings against name or SKU.
func (r *repositoryImpl) Search(ctx context.Context, query string) ([]models.InventoryItem, error) {
	needle := "%" + strings.ToLower(strings.TrimSpace(query)) + "%"
	var items []models.InventoryItem
	err := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", needle, needle).
		Order("sku ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// LockForUpdate loads the row under a row lock; call inside a transaction.
func (r *repositoryImpl) LockForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// ApplyStockDelta adjusts stock by delta and refreshes the backorder flag.
// Stock is deliberately not clamped at zero.
func (r *repositoryImpl) ApplyStockDelta(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	item, err := r.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	item.Stock += delta
	item.IsBackordered = item.Stock < 0
	if err := r.db.WithContext(ctx).
		Model(&models.InventoryItem{}).
		Where("id = ?", id).
		Updates(map[string]any{"stock": item.Stock, "is_backordered": item.IsBackordered}).Error; err != nil {
		return nil, err
	}
	return item, nil
}

func (r *repositoryImpl) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}
