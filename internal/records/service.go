package records

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// assigner is the slice of the lifecycle controller the record store needs.
// Mechanic codes are resolved there; an empty code means "no mechanic".
type assigner interface {
	Assign(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicCode string) ([]string, error)
	Reassign(ctx context.Context, tx *gorm.DB, record *models.ServiceRecord, mechanicCode string) ([]string, error)
}

type notifier interface {
	Emit(ctx context.Context, kind enums.NotificationType, message string) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// IntakeInput is a new service ticket as entered at the front desk.
type IntakeInput struct {
	CustomerName       string
	LicensePlate       string
	VehicleType        string
	ProblemDescription string
	MechanicCode       string
	EstimatedPickup    *string
	LaborCost          *int64
}

// UpdateInput patches the mutable fields of an existing record. Nil pointers
// leave the field untouched; MechanicCode nil keeps the current assignment.
type UpdateInput struct {
	CustomerName       *string
	LicensePlate       *string
	VehicleType        *string
	ProblemDescription *string
	MechanicCode       *string
	EstimatedPickup    *string
	LaborCost          *int64
}

// CreateResult carries the stored record plus any consistency warnings
// produced while assigning a mechanic.
type CreateResult struct {
	Record   *models.ServiceRecord
	Warnings []string
}

// Service is the record store's write and read surface.
type Service interface {
	Create(ctx context.Context, input IntakeInput) (*CreateResult, error)
	Update(ctx context.Context, code string, input UpdateInput) (*CreateResult, error)
	Find(ctx context.Context, codeOrPlate string) (*models.ServiceRecord, error)
	ListByStatus(ctx context.Context, statuses ...enums.ServiceStatus) ([]models.ServiceRecord, error)
}

type service struct {
	repo     Repository
	db       txRunner
	assigner assigner
	notifier notifier
	logg     *logger.Logger
	now      func() time.Time
}

// NewService wires the record store.
func NewService(repo Repository, runner txRunner, asg assigner, notif notifier, logg *logger.Logger) (Service, error) {
	if repo == nil || runner == nil || asg == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "records service missing dependencies")
	}
	return &service{
		repo:     repo,
		db:       runner,
		assigner: asg,
		notifier: notif,
		logg:     logg,
		now:      time.Now,
	}, nil
}

func (s *service) Create(ctx context.Context, input IntakeInput) (*CreateResult, error) {
	if err := validateIntake(input); err != nil {
		return nil, err
	}

	now := s.now()
	seq, err := s.repo.CountByYear(ctx, now.Year())
	if err != nil {
		return nil, err
	}

	record := &models.ServiceRecord{
		ID:                 uuid.New(),
		Code:               fmt.Sprintf("SRV-%d-%03d", now.Year(), seq+1),
		CustomerName:       strings.TrimSpace(input.CustomerName),
		LicensePlate:       strings.TrimSpace(input.LicensePlate),
		VehicleType:        strings.TrimSpace(input.VehicleType),
		ProblemDescription: strings.TrimSpace(input.ProblemDescription),
		Status:             enums.ServiceStatusQueued,
		EntryTime:          now,
		EstimatedPickup:    input.EstimatedPickup,
		LaborCost:          input.LaborCost,
		TotalCost:          0,
	}

	var warnings []string
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.repo.WithTx(tx).Create(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create service record")
		}
		if input.MechanicCode != "" {
			w, err := s.assigner.Assign(ctx, tx, record, input.MechanicCode)
			if err != nil {
				return err
			}
			warnings = w
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	ctx = s.logg.WithRecordCode(ctx, record.Code)
	s.logg.Info(ctx, "service ticket created")
	s.notify(ctx, enums.NotificationTypeTicket,
		fmt.Sprintf("New service ticket %s created for %s", record.Code, record.CustomerName))

	stored, err := s.repo.FindByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Record: stored, Warnings: warnings}, nil
}

func (s *service) Update(ctx context.Context, code string, input UpdateInput) (*CreateResult, error) {
	record, err := s.repo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if record.Status == enums.ServiceStatusPaid {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "paid records cannot be edited")
	}

	applyPatch(record, input)

	var warnings []string
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		if input.MechanicCode != nil {
			w, err := s.assigner.Reassign(ctx, tx, record, *input.MechanicCode)
			if err != nil {
				return err
			}
			warnings = w
		}
		if err := s.repo.WithTx(tx).Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update service record")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	stored, err := s.repo.FindByID(ctx, record.ID)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Record: stored, Warnings: warnings}, nil
}

// Find resolves a free-text query against record codes first, then license
// plates with whitespace stripped. Both matches are case-insensitive.
func (s *service) Find(ctx context.Context, codeOrPlate string) (*models.ServiceRecord, error) {
	query := strings.TrimSpace(codeOrPlate)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lookup query required")
	}
	record, err := s.repo.FindByCode(ctx, query)
	if err == nil {
		return record, nil
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		return nil, err
	}
	return s.repo.FindByPlate(ctx, query)
}

func (s *service) ListByStatus(ctx context.Context, statuses ...enums.ServiceStatus) ([]models.ServiceRecord, error) {
	for _, status := range statuses {
		if !status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
		}
	}
	return s.repo.ListByStatuses(ctx, statuses)
}

func (s *service) notify(ctx context.Context, kind enums.NotificationType, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, kind, msg); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notification emit failed")
	}
}

func validateIntake(input IntakeInput) error {
	missing := []string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		missing = append(missing, "customer_name")
	}
	if strings.TrimSpace(input.LicensePlate) == "" {
		missing = append(missing, "license_plate")
	}
	if strings.TrimSpace(input.VehicleType) == "" {
		missing = append(missing, "vehicle_type")
	}
	if strings.TrimSpace(input.ProblemDescription) == "" {
		missing = append(missing, "problem_description")
	}
	if len(missing) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "missing required intake fields").
			WithDetails(map[string]any{"fields": missing})
	}
	if input.LaborCost != nil && *input.LaborCost < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "labor cost must be non-negative")
	}
	return nil
}

func applyPatch(record *models.ServiceRecord, input UpdateInput) {
	if input.CustomerName != nil && strings.TrimSpace(*input.CustomerName) != "" {
		record.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.LicensePlate != nil && strings.TrimSpace(*input.LicensePlate) != "" {
		record.LicensePlate = strings.TrimSpace(*input.LicensePlate)
	}
	if input.VehicleType != nil && strings.TrimSpace(*input.VehicleType) != "" {
		record.VehicleType = strings.TrimSpace(*input.VehicleType)
	}
	if input.ProblemDescription != nil && strings.TrimSpace(*input.ProblemDescription) != "" {
		record.ProblemDescription = strings.TrimSpace(*input.ProblemDescription)
	}
	if input.EstimatedPickup != nil {
		record.EstimatedPickup = input.EstimatedPickup
	}
	if input.LaborCost != nil && *input.LaborCost >= 0 {
		record.LaborCost = input.LaborCost
	}
}
