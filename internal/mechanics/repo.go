package mechanics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

// Repository exposes persistence helpers for the mechanic roster.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, mechanic *models.Mechanic) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Mechanic, error)
	FindByCode(ctx context.Context, code string) (*models.Mechanic, error)
	List(ctx context.Context) ([]models.Mechanic, error)
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	CountAvailable(ctx context.Context) (int64, int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a roster repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, mechanic *models.Mechanic) error {
	return r.db.WithContext(ctx).Create(mechanic).Error
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	err := r.db.WithContext(ctx).First(&mechanic, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
	}
	if err != nil {
		return nil, err
	}
	return &mechanic, nil
}

func (r *repositoryImpl) FindByCode(ctx context.Context, code string) (*models.Mechanic, error) {
	var mechanic models.Mechanic
	err := r.db.WithContext(ctx).
		Where("LOWER(code) = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&mechanic).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
	}
	if err != nil {
		return nil, err
	}
	return &mechanic, nil
}

func (r *repositoryImpl) List(ctx context.Context) ([]models.Mechanic, error) {
	var mechanics []models.Mechanic
	if err := r.db.WithContext(ctx).Order("code ASC").Find(&mechanics).Error; err != nil {
		return nil, err
	}
	return mechanics, nil
}

// SetAvailability flips the availability flag; last write wins. The flag is
// a proxy, open assignments are the structural view.
func (r *repositoryImpl) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Mechanic{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_available": available, "updated_at": time.Now().UTC()})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "mechanic not found")
	}
	return nil
}

func (r *repositoryImpl) CountAvailable(ctx context.Context) (int64, int64, error) {
	var total, available int64
	if err := r.db.WithContext(ctx).Model(&models.Mechanic{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&models.Mechanic{}).Where("is_available = ?", true).Count(&available).Error; err != nil {
		return 0, 0, err
	}
	return available, total, nil
}
