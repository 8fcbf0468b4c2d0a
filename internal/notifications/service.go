package notifications

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// Service is the append-only, time-expiring event feed. Entries carry their
// own expiry instead of a shared drop-oldest timer, so a burst of inserts
// never evicts a fresh entry early.
type Service interface {
	Emit(ctx context.Context, kind enums.NotificationType, message string) error
	List(ctx context.Context) ([]models.Notification, error)
	SweepExpired(ctx context.Context) (int64, error)
}

type service struct {
	repo Repository
	ttl  time.Duration
	logg *logger.Logger
	now  func() time.Time
}

// NewService wires the sink. TTL zero or below falls back to five minutes.
func NewService(repo Repository, ttl time.Duration, logg *logger.Logger) (Service, error) {
	if repo == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notifications service missing dependencies")
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &service{repo: repo, ttl: ttl, logg: logg, now: time.Now}, nil
}

func (s *service) Emit(ctx context.Context, kind enums.NotificationType, message string) error {
	if !kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid notification type")
	}
	if strings.TrimSpace(message) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "notification message required")
	}
	now := s.now()
	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      kind,
		Message:   message,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.repo.Create(ctx, notification); err != nil {
		return err
	}
	s.logg.Debug(s.logg.WithField(ctx, "type", string(kind)), "notification emitted")
	return nil
}

func (s *service) List(ctx context.Context) ([]models.Notification, error) {
	return s.repo.ListUnexpired(ctx, s.now())
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}
