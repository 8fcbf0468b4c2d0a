package lifecycle

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

// AssignmentRepository tracks the job/mechanic assignment relation. An
// assignment is open while released_at is null; availability is derived from
// open assignments when checking for double-booking.
type AssignmentRepository interface {
	WithTx(tx *gorm.DB) AssignmentRepository
	Open(ctx context.Context, recordID, mechanicID uuid.UUID) error
	ReleaseByRecord(ctx context.Context, recordID uuid.UUID) error
	CountOpenByMechanic(ctx context.Context, mechanicID uuid.UUID) (int64, error)
}

type assignmentRepositoryImpl struct {
	db *gorm.DB
}

// NewAssignmentRepository returns a GORM-backed assignment repository.
func NewAssignmentRepository(db *gorm.DB) AssignmentRepository {
	return &assignmentRepositoryImpl{db: db}
}

func (r *assignmentRepositoryImpl) WithTx(tx *gorm.DB) AssignmentRepository {
	if tx == nil {
		return r
	}
	return &assignmentRepositoryImpl{db: tx}
}

func (r *assignmentRepositoryImpl) Open(ctx context.Context, recordID, mechanicID uuid.UUID) error {
	assignment := &models.JobAssignment{
		ID:              uuid.New(),
		ServiceRecordID: recordID,
		MechanicID:      mechanicID,
		AssignedAt:      time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(assignment).Error; err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open job assignment")
	}
	return nil
}

func (r *assignmentRepositoryImpl) ReleaseByRecord(ctx context.Context, recordID uuid.UUID) error {
	err := r.db.WithContext(ctx).
		Model(&models.JobAssignment{}).
		Where("service_record_id = ? AND released_at IS NULL", recordID).
		Update("released_at", time.Now()).Error
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "release job assignment")
	}
	return nil
}

func (r *assignmentRepositoryImpl) CountOpenByMechanic(ctx context.Context, mechanicID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.JobAssignment{}).
		Where("mechanic_id = ? AND released_at IS NULL", mechanicID).
		Count(&count).Error
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count open assignments")
	}
	return count, nil
}
