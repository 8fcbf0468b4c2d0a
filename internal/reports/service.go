package reports

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/raditmaulana/bengkelhub-backend/internal/mechanics"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// HistoryParams filters and orders the paid-record log. From is inclusive of
// the start date; To is inclusive of the entire end day.
type HistoryParams struct {
	Query   string
	From    *time.Time
	To      *time.Time
	SortBy  string
	SortDir string
}

// DashboardStats is the admin landing-view summary.
type DashboardStats struct {
	TicketsToday       int64                  `json:"tickets_today"`
	Revenue            decimal.Decimal        `json:"revenue"`
	AvailableMechanics int64                  `json:"available_mechanics"`
	TotalMechanics     int64                  `json:"total_mechanics"`
	RecentRecords      []models.ServiceRecord `json:"recent_records"`
}

// Service builds read-only reports over the stores.
type Service interface {
	History(ctx context.Context, params HistoryParams) ([]models.ServiceRecord, error)
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

type service struct {
	recordRepo records.Repository
	mechRepo   mechanics.Repository
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the reporting layer.
func NewService(recordRepo records.Repository, mechRepo mechanics.Repository, logg *logger.Logger) (Service, error) {
	if recordRepo == nil || mechRepo == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "reports service missing dependencies")
	}
	return &service{recordRepo: recordRepo, mechRepo: mechRepo, logg: logg, now: time.Now}, nil
}

var historySortKeys = map[string]bool{
	"date": true,
	"name": true,
	"code": true,
	"cost": true,
}

func (s *service) History(ctx context.Context, params HistoryParams) ([]models.ServiceRecord, error) {
	sortBy := params.SortBy
	if sortBy == "" {
		sortBy = "date"
	}
	if !historySortKeys[sortBy] {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid sort key").
			WithDetails(map[string]any{"sort_by": params.SortBy})
	}
	sortDir := strings.ToLower(params.SortDir)
	if sortDir == "" {
		sortDir = "desc"
	}
	if sortDir != "asc" && sortDir != "desc" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sort direction must be asc or desc")
	}

	var from, to *time.Time
	if params.From != nil {
		start := startOfDay(*params.From)
		from = &start
	}
	if params.To != nil {
		end := endOfDay(*params.To)
		to = &end
	}

	paid, err := s.recordRepo.ListPaidBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}

	filtered := paid
	if query := strings.ToLower(strings.TrimSpace(params.Query)); query != "" {
		filtered = filtered[:0]
		for _, record := range paid {
			if strings.Contains(strings.ToLower(record.CustomerName), query) ||
				strings.Contains(strings.ToLower(record.Code), query) {
				filtered = append(filtered, record)
			}
		}
	}

	sortHistory(filtered, sortBy, sortDir)
	return filtered, nil
}

func (s *service) Dashboard(ctx context.Context) (*DashboardStats, error) {
	now := s.now()
	ticketsToday, err := s.recordRepo.CountEnteredBetween(ctx, startOfDay(now), endOfDay(now))
	if err != nil {
		return nil, err
	}

	paid, err := s.recordRepo.ListPaidBetween(ctx, nil, nil)
	if err != nil {
		return nil, err
	}
	revenue := decimal.Zero
	for _, record := range paid {
		revenue = revenue.Add(decimal.NewFromInt(record.TotalCost))
	}

	available, total, err := s.mechRepo.CountAvailable(ctx)
	if err != nil {
		return nil, err
	}

	recent, err := s.recordRepo.ListByStatuses(ctx, nil)
	if err != nil {
		return nil, err
	}
	if len(recent) > 3 {
		recent = recent[:3]
	}

	return &DashboardStats{
		TicketsToday:       ticketsToday,
		Revenue:            revenue,
		AvailableMechanics: available,
		TotalMechanics:     total,
		RecentRecords:      recent,
	}, nil
}

func sortHistory(list []models.ServiceRecord, sortBy, sortDir string) {
	less := func(a, b models.ServiceRecord) bool {
		switch sortBy {
		case "name":
			return strings.ToLower(a.CustomerName) < strings.ToLower(b.CustomerName)
		case "code":
			return a.Code < b.Code
		case "cost":
			return a.TotalCost < b.TotalCost
		default:
			return paymentTime(a).Before(paymentTime(b))
		}
	}
	sort.SliceStable(list, func(i, j int) bool {
		if sortDir == "desc" {
			return less(list[j], list[i])
		}
		return less(list[i], list[j])
	})
}

func paymentTime(record models.ServiceRecord) time.Time {
	if record.PaymentDate != nil {
		return *record.PaymentDate
	}
	return record.EntryTime
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
