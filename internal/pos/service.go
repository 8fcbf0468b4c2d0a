package pos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/internal/inventory"
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

// Quote is the register session with its recomputed total. Totals are never
// persisted until checkout commits.
type Quote struct {
	Session *Session `json:"session"`
	Total   int64    `json:"total"`
}

// CheckoutResult is the outcome of a committed checkout.
type CheckoutResult struct {
	Record        *models.ServiceRecord `json:"record"`
	TransactionID string                `json:"transaction_id"`
	Total         int64                 `json:"total"`
	Warnings      []string              `json:"warnings,omitempty"`
}

// Service is the checkout engine: it builds a bill from a completed job and
// atomically commits the record, its line items, and the stock decrements.
type Service interface {
	Ready(ctx context.Context) ([]models.ServiceRecord, error)
	Select(ctx context.Context, registerID, recordCode string) (*Quote, error)
	Current(ctx context.Context, registerID string) (*Quote, error)
	AddItem(ctx context.Context, registerID string, itemID uuid.UUID, qty int) (*Quote, error)
	SetQuantity(ctx context.Context, registerID string, itemID uuid.UUID, qty int) (*Quote, error)
	RemoveItem(ctx context.Context, registerID string, itemID uuid.UUID) (*Quote, error)
	SetLabor(ctx context.Context, registerID string, labor int64) (*Quote, error)
	Checkout(ctx context.Context, registerID string) (*CheckoutResult, error)
	Clear(ctx context.Context, registerID string) error
}

type service struct {
	sessions   SessionStore
	recordRepo records.Repository
	invRepo    inventory.Repository
	invService inventory.Service
	db         txRunner
	notifier   notifier
	logg       *logger.Logger
	now        func() time.Time
}

// NewService wires the checkout engine.
func NewService(sessions SessionStore, recordRepo records.Repository, invRepo inventory.Repository, invService inventory.Service, runner txRunner, notif notifier, logg *logger.Logger) (Service, error) {
	if sessions == nil || recordRepo == nil || invRepo == nil || invService == nil || runner == nil || logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "pos service missing dependencies")
	}
	return &service{
		sessions:   sessions,
		recordRepo: recordRepo,
		invRepo:    invRepo,
		invService: invService,
		db:         runner,
		notifier:   notif,
		logg:       logg,
		now:        time.Now,
	}, nil
}

func (s *service) Ready(ctx context.Context) ([]models.ServiceRecord, error) {
	return s.recordRepo.ListByStatuses(ctx, []enums.ServiceStatus{enums.ServiceStatusCompleted})
}

// Select opens a register session for a completed record. The cart is seeded
// from the record's stored line items; entries whose item has vanished from
// the ledger are dropped without error.
func (s *service) Select(ctx context.Context, registerID, recordCode string) (*Quote, error) {
	if strings.TrimSpace(registerID) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "register id required")
	}
	record, err := s.recordRepo.FindByCode(ctx, recordCode)
	if err != nil {
		return nil, err
	}
	if record.Status != enums.ServiceStatusCompleted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "record is not ready for payment").
			WithDetails(map[string]any{"status": record.Status})
	}

	session := &Session{
		RegisterID:      registerID,
		ServiceRecordID: record.ID,
		RecordCode:      record.Code,
		CustomerName:    record.CustomerName,
		Cart:            []CartLine{},
		OpenedAt:        s.now(),
	}
	if record.LaborCost != nil {
		session.LaborCost = *record.LaborCost
	}
	for _, line := range record.Items {
		item, err := s.invRepo.FindByID(ctx, line.ItemID)
		if err != nil {
			if appErr := pkgerrors.As(err); appErr != nil && appErr.Code() == pkgerrors.CodeNotFound {
				continue
			}
			return nil, err
		}
		session.Cart = append(session.Cart, CartLine{
			ItemID:   item.ID,
			SKU:      item.SKU,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: line.Quantity,
		})
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &Quote{Session: session, Total: session.Total()}, nil
}

func (s *service) Current(ctx context.Context, registerID string) (*Quote, error) {
	session, err := s.sessions.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}
	return &Quote{Session: session, Total: session.Total()}, nil
}

// AddItem increments an existing cart line or inserts a new one. A zero
// quantity counts as one.
func (s *service) AddItem(ctx context.Context, registerID string, itemID uuid.UUID, qty int) (*Quote, error) {
	if qty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if qty == 0 {
		qty = 1
	}
	session, err := s.sessions.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}

	found := false
	for i := range session.Cart {
		if session.Cart[i].ItemID == itemID {
			session.Cart[i].Quantity += qty
			found = true
			break
		}
	}
	if !found {
		item, err := s.invRepo.FindByID(ctx, itemID)
		if err != nil {
			return nil, err
		}
		session.Cart = append(session.Cart, CartLine{
			ItemID:   item.ID,
			SKU:      item.SKU,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: qty,
		})
	}

	return s.persist(ctx, session)
}

// SetQuantity pins a cart line's quantity; zero or below removes the line.
func (s *service) SetQuantity(ctx context.Context, registerID string, itemID uuid.UUID, qty int) (*Quote, error) {
	session, err := s.sessions.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}
	if qty <= 0 {
		session.Cart = removeLine(session.Cart, itemID)
		return s.persist(ctx, session)
	}
	for i := range session.Cart {
		if session.Cart[i].ItemID == itemID {
			session.Cart[i].Quantity = qty
			return s.persist(ctx, session)
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "item not in cart")
}

func (s *service) RemoveItem(ctx context.Context, registerID string, itemID uuid.UUID) (*Quote, error) {
	session, err := s.sessions.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}
	session.Cart = removeLine(session.Cart, itemID)
	return s.persist(ctx, session)
}

func (s *service) SetLabor(ctx context.Context, registerID string, labor int64) (*Quote, error) {
	if labor < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "labor cost must be non-negative")
	}
	session, err := s.sessions.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}
	session.LaborCost = labor
	return s.persist(ctx, session)
}

// Checkout finalizes the bill in one transaction: the record moves to PAID
// with its totals and line items, and stock is decremented per cart line.
// Oversell is allowed; each line driven below zero adds a backorder warning.
func (s *service) Checkout(ctx context.Context, registerID string) (*CheckoutResult, error) {
	session, err := s.sessions.Load(ctx, registerID)
	if err != nil {
		return nil, err
	}
	for _, line := range session.Cart {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart quantities must be positive")
		}
	}

	now := s.now()
	transactionID := fmt.Sprintf("TRX-%d", now.UnixMilli())
	total := session.Total()
	labor := session.LaborCost

	var warnings []string
	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		recordRepo := s.recordRepo.WithTx(tx)

		record, err := recordRepo.LockByID(ctx, session.ServiceRecordID)
		if err != nil {
			return err
		}
		if record.Status != enums.ServiceStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "record is no longer ready for payment").
				WithDetails(map[string]any{"status": record.Status})
		}

		record.Status = enums.ServiceStatusPaid
		record.TotalCost = total
		record.LaborCost = &labor
		record.TransactionID = &transactionID
		record.PaymentDate = &now
		if err := recordRepo.Save(ctx, record); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save paid record")
		}

		items := make([]models.ServiceLineItem, 0, len(session.Cart))
		for _, line := range session.Cart {
			items = append(items, models.ServiceLineItem{
				ID:       uuid.New(),
				ItemID:   line.ItemID,
				Quantity: line.Quantity,
			})
		}
		if err := recordRepo.ReplaceLineItems(ctx, record.ID, items); err != nil {
			return err
		}

		for _, line := range session.Cart {
			result, err := s.invService.DecrementTx(ctx, tx, line.ItemID, line.Quantity, record.ID, transactionID)
			if err != nil {
				return err
			}
			if result.Backorder {
				warnings = append(warnings,
					fmt.Sprintf("item %s oversold: stock now %d", line.SKU, result.FinalStock))
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.sessions.Delete(ctx, registerID); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "register session cleanup failed")
	}

	ctx = s.logg.WithRecordCode(ctx, session.RecordCode)
	s.logg.Info(s.logg.WithField(ctx, "transaction_id", transactionID), "checkout committed")
	s.notify(ctx, enums.NotificationTypePayment,
		fmt.Sprintf("Payment received for %s (transaction %s)", session.RecordCode, transactionID))

	record, err := s.recordRepo.FindByID(ctx, session.ServiceRecordID)
	if err != nil {
		return nil, err
	}
	return &CheckoutResult{
		Record:        record,
		TransactionID: transactionID,
		Total:         total,
		Warnings:      warnings,
	}, nil
}

func (s *service) Clear(ctx context.Context, registerID string) error {
	return s.sessions.Delete(ctx, registerID)
}

func (s *service) persist(ctx context.Context, session *Session) (*Quote, error) {
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return &Quote{Session: session, Total: session.Total()}, nil
}

func (s *service) notify(ctx context.Context, kind enums.NotificationType, msg string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Emit(ctx, kind, msg); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "notification emit failed")
	}
}

func removeLine(cart []CartLine, itemID uuid.UUID) []CartLine {
	out := cart[:0]
	for _, line := range cart {
		if line.ItemID != itemID {
			out = append(out, line)
		}
	}
	return out
}
