package lifecycle

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/internal/mechanics"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type notifier interface {
	Emit(ctx context.Context, kind enums.NotificationType, message string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// TransitionResult is the record after a lifecycle move plus any consistency
// warnings (double-booking) raised along the way.
type TransitionResult struct {
	Record   *models.ServiceRecord
	Warnings []string
}

// Service enforces the job state machine and keeps the roster's availability
// flag in step with assignments. Only this controller and the checkout commit
// mutate status or availability.
type Service interface {
	Assign(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicCode string) ([]string, error)
	Reassign(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicCode string) ([]string, error)
	Start(ctx context.Context, code string) (*TransitionResult, error)
	Complete(ctx context.Context, code string) (*TransitionResult, error)
}

type service struct {
	mechRepo   mechanics.Repository
	recordRepo records.Repository
	assignRepo AssignmentRepository
	db         txRunner
	notifier   notifier
	logg       *logger.Logger
}

// NewService wires the lifecycle controller.
func NewService(mechRepo mechanics.Repository, recordRepo records.Repository, assignRepo AssignmentRepository, runner txRunner, notif notifier, logg *logger.Logger) (Service, error) {
	if mechRepo == nil || recordRepo == nil || assignRepo == nil || runner == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "lifecycle service missing dependencies")
	}
	return &service{
		mechRepo:   mechRepo,
		recordRepo: recordRepo,
		assignRepo: assignRepo,
		db:         runner,
		notifier:   notif,
		logg:       logg,
	}, nil
}

// Assign occupies a mechanic for a record inside the caller's transaction.
// Unknown non-empty codes are a validation error, never silently ignored.
func (s *service) Assign(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicCode string) ([]string, error) {
	mechanic, err := s.resolveMechanic(ctx, tx, mechanicCode)
	if err != nil {
		return nil, err
	}

	warnings, err := s.occupy(ctx, tx, record, mechanic)
	if err != nil {
		return nil, err
	}

	record.MechanicID = &mechanic.ID
	if err := s.recordRepo.WithTx(tx).Save(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save assignment")
	}

	s.notify(ctx, enums.NotificationTypeJob,
		fmt.Sprintf("Mechanic %s assigned to %s", mechanic.Name, record.Code))
	return warnings, nil
}

// Reassign swaps the record's mechanic. An empty code unassigns; reassigning
// to the current mechanic changes nothing and toggles no availability.
func (s *service) Reassign(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicCode string) ([]string, error) {
	var next *models.Mechanic
	if mechanicCode != "" {
		resolved, err := s.resolveMechanic(ctx, tx, mechanicCode)
		if err != nil {
			return nil, err
		}
		next = resolved
	}

	if record.MechanicID != nil && next != nil && *record.MechanicID == next.ID {
		return nil, nil
	}
	if record.MechanicID == nil && next == nil {
		return nil, nil
	}

	if record.MechanicID != nil {
		if err := s.free(ctx, tx, record, *record.MechanicID); err != nil {
			return nil, err
		}
		record.MechanicID = nil
	}

	if next == nil {
		return nil, nil
	}

	warnings, err := s.occupy(ctx, tx, record, next)
	if err != nil {
		return nil, err
	}
	record.MechanicID = &next.ID

	s.notify(ctx, enums.NotificationTypeJob,
		fmt.Sprintf("Mechanic %s assigned to %s", next.Name, record.Code))
	return warnings, nil
}

func (s *service) Start(ctx context.Context, code string) (*TransitionResult, error) {
	return s.transition(ctx, code, enums.ServiceStatusInProgress)
}

func (s *service) Complete(ctx context.Context, code string) (*TransitionResult, error) {
	return s.transition(ctx, code, enums.ServiceStatusCompleted)
}

func (s *service) transition(ctx context.Context, code string, target enums.ServiceStatus) (*TransitionResult, error) {
	record, err := s.recordRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if !record.Status.CanTransitionTo(target) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move %s from %s to %s", record.Code, record.Status, target)).
			WithDetails(map[string]any{"status": record.Status, "target": target})
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		record.Status = target
		if err := s.recordRepo.WithTx(tx).Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save status transition")
		}
		if record.MechanicID == nil {
			return nil
		}
		switch target {
		case enums.ServiceStatusInProgress:
			return s.mechRepo.WithTx(tx).SetAvailability(ctx, *record.MechanicID, false)
		case enums.ServiceStatusCompleted:
			if err := s.mechRepo.WithTx(tx).SetAvailability(ctx, *record.MechanicID, true); err != nil {
				return err
			}
			return s.assignRepo.WithTx(tx).ReleaseByRecord(ctx, record.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithRecordCode(ctx, record.Code)
	s.logg.Info(s.logg.WithField(ctx, "status", string(target)), "job status advanced")
	s.notify(ctx, enums.NotificationTypeJob,
		fmt.Sprintf("Job %s is now %s", record.Code, target))

	stored, err := s.recordRepo.FindByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Record: stored}, nil
}

func (s *service) resolveMechanic(ctx context.Context, tx *gorm.DB, code string) (*models.Mechanic, error) {
	mechanic, err := s.mechRepo.WithTx(tx).FindByCode(ctx, code)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown mechanic code").
				WithDetails(map[string]any{"mechanic_code": code})
		}
		return nil, err
	}
	return mechanic, nil
}

// occupy marks the mechanic unavailable and opens the assignment relation.
// A mechanic already holding an open assignment is accepted but reported.
func (s *service) occupy(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanic *models.Mechanic) ([]string, error) {
	open, err := s.assignRepo.WithTx(tx).CountOpenByMechanic(ctx, mechanic.ID)
	if err != nil {
		return nil, err
	}

	var warnings []string
	if open > 0 {
		warning := fmt.Sprintf("mechanic %s already has %d open job(s)", mechanic.Code, open)
		warnings = append(warnings, warning)
		s.logg.Warn(s.logg.WithField(ctx, "mechanic_code", mechanic.Code), "double booking detected")
	}

	if err := s.mechRepo.WithTx(tx).SetAvailability(ctx, mechanic.ID, false); err != nil {
		return nil, err
	}
	if err := s.assignRepo.WithTx(tx).Open(ctx, record.ID, mechanic.ID); err != nil {
		return nil, err
	}
	return warnings, nil
}

func (s *service) free(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicID uuid.UUID) error {
	if err := s.mechRepo.WithTx(tx).SetAvailability(ctx, mechanicID, true); err != nil {
		return err
	}
	return s.assignRepo.WithTx(tx).ReleaseByRecord(ctx, record.ID)
}

func (s *service) notify(ctx context.Context, kind enums.NotificationType, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, kind, msg); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notification emit failed")
	}
}
