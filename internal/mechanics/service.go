package mechanics

import (
	"context"
	"fmt"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type notifier interface {
	Emit(ctx context.Context, kind enums.NotificationType, message string) error
}

// Service exposes roster reads and the manual availability override.
type Service interface {
	List(ctx context.Context) ([]models.Mechanic, error)
	GetByCode(ctx context.Context, code string) (*models.Mechanic, error)
	Toggle(ctx context.Context, code string) (*models.Mechanic, error)
}

type service struct {
	repo     Repository
	notifier notifier
	logg     *logger.Logger
}

// NewService wires roster dependencies.
func NewService(repo Repository, notif notifier, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "mechanics repository required")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "logger required")
	}
	return &service{repo: repo, notifier: notif, logg: logg}, nil
}

func (s *service) List(ctx context.Context) ([]models.Mechanic, error) {
	return s.repo.List(ctx)
}

func (s *service) GetByCode(ctx context.Context, code string) (*models.Mechanic, error) {
	if code == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "mechanic code required")
	}
	return s.repo.FindByCode(ctx, code)
}

// Toggle is the operator override: it flips the flag regardless of job state
// and the last write wins.
func (s *service) Toggle(ctx context.Context, code string) (*models.Mechanic, error) {
	mechanic, err := s.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	next := !mechanic.IsAvailable
	if err := s.repo.SetAvailability(ctx, mechanic.ID, next); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "toggle mechanic availability")
	}
	mechanic.IsAvailable = next

	s.notify(ctx, fmt.Sprintf("Mechanic %s marked %s", mechanic.Name, availabilityLabel(next)))
	return mechanic, nil
}

func (s *service) notify(ctx context.Context, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, enums.NotificationTypeJob, msg); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notification emit failed")
	}
}

func availabilityLabel(available bool) string {
	if available {
		return "available"
	}
	return "unavailable"
}
