package notifications

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

// Repository stores notification entries. Expiry is per entry; expired rows
// are hidden from reads immediately and physically removed by the sweep.
type Repository interface {
	Create(ctx context.Context, notification *models.Notification) error
	ListUnexpired(ctx context.Context, now time.Time) ([]models.Notification, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a GORM-backed notification repository.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) Create(ctx context.Context, notification *models.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create notification")
	}
	return nil
}

func (r *repositoryImpl) ListUnexpired(ctx context.Context, now time.Time) ([]models.Notification, error) {
	var out []models.Notification
	err := r.db.WithContext(ctx).
		Where("expires_at > ?", now).
		Order("created_at DESC").
		Find(&out).Error
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list notifications")
	}
	return out, nil
}

func (r *repositoryImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&models.Notification{})
	if result.Error != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, result.Error, "delete expired notifications")
	}
	return result.RowsAffected, nil
}
