package tracking

import (
	"context"
	"strings"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// finder is the record-store slice the public tracker needs.
type finder interface {
	Find(ctx context.Context, codeOrPlate string) (*models.ServiceRecord, error)
}

// Service answers unauthenticated record lookups by code or license plate.
type Service interface {
	Track(ctx context.Context, query string) (*models.ServiceRecord, error)
}

type service struct {
	records finder
	logg    *logger.Logger
}

// NewService wires the public tracker.
func NewService(records finder, logg *logger.Logger) (Service, error) {
	if records == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "tracking service missing dependencies")
	}
	return &service{records: records, logg: logg}, nil
}

func (s *service) Track(ctx context.Context, query string) (*models.ServiceRecord, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "tracking query required")
	}
	record, err := s.records.Find(ctx, query)
	if err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
			s.logg.Debug(s.logg.WithField(ctx, "query", query), "tracking lookup missed")
		}
		return nil, err
	}
	return record, nil
}
