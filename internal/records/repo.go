package records

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

// Repository persists service records and their line items.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, record *models.ServiceRecord) error
	Save(ctx context.Context, record *models.ServiceRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error)
	LockByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error)
	FindByCode(ctx context.Context, code string) (*models.ServiceRecord, error)
	FindByPlate(ctx context.Context, plate string) (*models.ServiceRecord, error)
	ListByStatuses(ctx context.Context, statuses []enums.ServiceStatus) ([]models.ServiceRecord, error)
	ListPaidBetween(ctx context.Context, from, to *time.Time) ([]models.ServiceRecord, error)
	CountByYear(ctx context.Context, year int) (int64, error)
	CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error)
	ReplaceLineItems(ctx context.Context, recordID uuid.UUID, items []models.ServiceLineItem) error
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository returns a GORM-backed record repository.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repositoryImpl{db: tx}
}

func (r *repositoryImpl) Create(ctx context.Context, record *models.ServiceRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repositoryImpl) Save(ctx context.Context, record *models.ServiceRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *repositoryImpl) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Mechanic").
		Preload("Items").
		Preload("Items.Item")
}

func (r *repositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	err := r.preloaded(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query service record")
	}
	return &record, nil
}

// LockByID loads a record under a row lock. Callers run this inside a
// transaction; preloads are skipped so the lock stays on the record row.
func (r *repositoryImpl) LockByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lock service record")
	}
	return &record, nil
}

func (r *repositoryImpl) FindByCode(ctx context.Context, code string) (*models.ServiceRecord, error) {
	var record models.ServiceRecord
	err := r.preloaded(ctx).
		Where("LOWER(code) = LOWER(?)", strings.TrimSpace(code)).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query service record by code")
	}
	return &record, nil
}

// FindByPlate matches license plates ignoring case and embedded whitespace,
// returning the most recent record for the vehicle.
func (r *repositoryImpl) FindByPlate(ctx context.Context, plate string) (*models.ServiceRecord, error) {
	normalized := strings.ToLower(strings.ReplaceAll(plate, " ", ""))
	var record models.ServiceRecord
	err := r.preloaded(ctx).
		Where("LOWER(REPLACE(license_plate, ' ', '')) = ?", normalized).
		Order("entry_time DESC").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "query service record by plate")
	}
	return &record, nil
}

func (r *repositoryImpl) ListByStatuses(ctx context.Context, statuses []enums.ServiceStatus) ([]models.ServiceRecord, error) {
	query := r.preloaded(ctx)
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	var out []models.ServiceRecord
	if err := query.Order("entry_time DESC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list service records")
	}
	return out, nil
}

func (r *repositoryImpl) ListPaidBetween(ctx context.Context, from, to *time.Time) ([]models.ServiceRecord, error) {
	query := r.preloaded(ctx).Where("status = ?", enums.ServiceStatusPaid)
	if from != nil {
		query = query.Where("payment_date >= ?", *from)
	}
	if to != nil {
		query = query.Where("payment_date <= ?", *to)
	}
	var out []models.ServiceRecord
	if err := query.Order("payment_date DESC").Find(&out).Error; err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list paid records")
	}
	return out, nil
}

func (r *repositoryImpl) CountByYear(ctx context.Context, year int) (int64, error) {
	prefix := fmt.Sprintf("SRV-%d-%%", year)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceRecord{}).
		Where("code LIKE ?", prefix).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count records by year")
	}
	return count, nil
}

func (r *repositoryImpl) CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.ServiceRecord{}).
		Where("entry_time >= ? AND entry_time <= ?", from, to).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count records by entry time")
	}
	return count, nil
}

// ReplaceLineItems swaps the record's consumed-item rows for the given set.
func (r *repositoryImpl) ReplaceLineItems(ctx context.Context, recordID uuid.UUID, items []models.ServiceLineItem) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("service_record_id = ?", recordID).Delete(&models.ServiceLineItem{}).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear line items")
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].ServiceRecordID = recordID
	}
	if err := db.Create(&items).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert line items")
	}
	return nil
}
