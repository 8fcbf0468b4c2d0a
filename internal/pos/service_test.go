package pos

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/internal/inventory"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type memorySessionStore struct {
	sessions map[string]*Session
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{sessions: map[string]*Session{}}
}

func (s *memorySessionStore) Load(ctx context.Context, registerID string) (*Session, error) {
	session, ok := s.sessions[registerID]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no open register session")
	}
	clone := *session
	clone.Cart = append([]CartLine(nil), session.Cart...)
	return &clone, nil
}

func (s *memorySessionStore) Save(ctx context.Context, session *Session) error {
	s.sessions[session.RegisterID] = session
	return nil
}

func (s *memorySessionStore) Delete(ctx context.Context, registerID string) error {
	delete(s.sessions, registerID)
	return nil
}

type memoryRecordRepo struct {
	records map[uuid.UUID]*models.ServiceRecord
}

func newMemoryRecordRepo() *memoryRecordRepo {
	return &memoryRecordRepo{records: map[uuid.UUID]*models.ServiceRecord{}}
}

func (r *memoryRecordRepo) WithTx(tx *gorm.DB) records.Repository { return r }

func (r *memoryRecordRepo) Create(ctx context.Context, record *models.ServiceRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *memoryRecordRepo) Save(ctx context.Context, record *models.ServiceRecord) error {
	clone := *record
	r.records[record.ID] = &clone
	return nil
}

func (r *memoryRecordRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
	}
	clone := *record
	return &clone, nil
}

func (r *memoryRecordRepo) LockByID(ctx context.Context, id uuid.UUID) (*models.ServiceRecord, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryRecordRepo) FindByCode(ctx context.Context, code string) (*models.ServiceRecord, error) {
	for _, record := range r.records {
		if strings.EqualFold(record.Code, strings.TrimSpace(code)) {
			clone := *record
			return &clone, nil
		}
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
}

func (r *memoryRecordRepo) FindByPlate(ctx context.Context, plate string) (*models.ServiceRecord, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
}

func (r *memoryRecordRepo) ListByStatuses(ctx context.Context, statuses []enums.ServiceStatus) ([]models.ServiceRecord, error) {
	var out []models.ServiceRecord
	for _, record := range r.records {
		for _, status := range statuses {
			if record.Status == status {
				out = append(out, *record)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRecordRepo) ListPaidBetween(ctx context.Context, from, to *time.Time) ([]models.ServiceRecord, error) {
	return nil, nil
}

func (r *memoryRecordRepo) CountByYear(ctx context.Context, year int) (int64, error) { return 0, nil }

func (r *memoryRecordRepo) CountEnteredBetween(ctx context.Context, from, to time.Time) (int64, error) {
	return 0, nil
}

func (r *memoryRecordRepo) ReplaceLineItems(ctx context.Context, recordID uuid.UUID, items []models.ServiceLineItem) error {
	record, ok := r.records[recordID]
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "service record not found")
	}
	record.Items = items
	return nil
}

type memoryInventoryRepo struct {
	items     map[uuid.UUID]*models.InventoryItem
	movements []*models.StockMovement
}

func newMemoryInventoryRepo() *memoryInventoryRepo {
	return &memoryInventoryRepo{items: map[uuid.UUID]*models.InventoryItem{}}
}

func (r *memoryInventoryRepo) WithTx(tx *gorm.DB) inventory.Repository { return r }

func (r *memoryInventoryRepo) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	r.items[item.ID] = item
	return nil
}

func (r *memoryInventoryRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	clone := *item
	return &clone, nil
}

func (r *memoryInventoryRepo) FindBySKU(ctx context.Context, sku string) (*models.InventoryItem, error) {
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
}

func (r *memoryInventoryRepo) ListByCategory(ctx context.Context, category enums.InventoryCategory) ([]models.InventoryItem, error) {
	return nil, nil
}

func (r *memoryInventoryRepo) Search(ctx context.Context, query string) ([]models.InventoryItem, error) {
	return nil, nil
}

func (r *memoryInventoryRepo) LockForUpdate(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error) {
	return r.FindByID(ctx, id)
}

func (r *memoryInventoryRepo) ApplyStockDelta(ctx context.Context, id uuid.UUID, delta int) (*models.InventoryItem, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "inventory item not found")
	}
	item.Stock += delta
	item.IsBackordered = item.Stock < 0
	clone := *item
	return &clone, nil
}

func (r *memoryInventoryRepo) CreateMovement(ctx context.Context, movement *models.StockMovement) error {
	r.movements = append(r.movements, movement)
	return nil
}

type noTxRunner struct{}

func (noTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type posFixture struct {
	svc        *service
	sessions   *memorySessionStore
	recordRepo *memoryRecordRepo
	invRepo    *memoryInventoryRepo
}

func newPosFixture(t *testing.T) *posFixture {
	t.Helper()

	sessions := newMemorySessionStore()
	recordRepo := newMemoryRecordRepo()
	invRepo := newMemoryInventoryRepo()
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	invService, err := inventory.NewService(invRepo, nil, logg)
	require.NoError(t, err)

	svc, err := NewService(sessions, recordRepo, invRepo, invService, noTxRunner{}, nil, logg)
	require.NoError(t, err)
	return &posFixture{svc: svc.(*service), sessions: sessions, recordRepo: recordRepo, invRepo: invRepo}
}

func (f *posFixture) newItem(t *testing.T, sku, name string, price int64, stock int) *models.InventoryItem {
	t.Helper()

	item := &models.InventoryItem{
		ID:       uuid.New(),
		SKU:      sku,
		Name:     name,
		Category: enums.CategoryMotorcycle,
		Price:    price,
		Stock:    stock,
	}
	require.NoError(t, f.invRepo.Create(context.Background(), item))
	return item
}

func (f *posFixture) newCompletedRecord(t *testing.T, code string, labor *int64, items ...models.ServiceLineItem) *models.ServiceRecord {
	t.Helper()

	record := &models.ServiceRecord{
		ID:                 uuid.New(),
		Code:               code,
		CustomerName:       "Bu Siti",
		LicensePlate:       "AB 5678 CD",
		VehicleType:        "Honda Vario",
		ProblemDescription: "Rem bunyi",
		Status:             enums.ServiceStatusCompleted,
		EntryTime:          time.Now(),
		LaborCost:          labor,
		Items:              items,
	}
	require.NoError(t, f.recordRepo.Create(context.Background(), record))
	return record
}

func TestServiceSelect_seedsCartFromRecord(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	item := f.newItem(t, "MOTO-BRK-01", "Kampas Rem Depan", 75000, 30)
	vanished := uuid.New()
	labor := int64(25000)
	f.newCompletedRecord(t, "SRV-2026-002", &labor,
		models.ServiceLineItem{ItemID: item.ID, Quantity: 2},
		models.ServiceLineItem{ItemID: vanished, Quantity: 1},
	)

	quote, err := f.svc.Select(ctx, "REG-1", "SRV-2026-002")
	require.NoError(t, err)
	require.Len(t, quote.Session.Cart, 1)
	assert.Equal(t, "MOTO-BRK-01", quote.Session.Cart[0].SKU)
	assert.Equal(t, 2, quote.Session.Cart[0].Quantity)
	assert.Equal(t, int64(25000), quote.Session.LaborCost)
	assert.Equal(t, int64(75000*2+25000), quote.Total)
}

func TestServiceSelect_requiresCompletedRecord(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	record := f.newCompletedRecord(t, "SRV-2026-001", nil)
	record.Status = enums.ServiceStatusInProgress
	require.NoError(t, f.recordRepo.Save(ctx, record))

	_, err := f.svc.Select(ctx, "REG-1", "SRV-2026-001")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestServiceAddItem_mergesLines(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	item := f.newItem(t, "SNCK-DRK-01", "Teh Botol", 3000, 100)
	f.newCompletedRecord(t, "SRV-2026-002", nil)

	_, err := f.svc.Select(ctx, "REG-1", "SRV-2026-002")
	require.NoError(t, err)

	quote, err := f.svc.AddItem(ctx, "REG-1", item.ID, 0)
	require.NoError(t, err)
	require.Len(t, quote.Session.Cart, 1)
	assert.Equal(t, 1, quote.Session.Cart[0].Quantity)

	quote, err = f.svc.AddItem(ctx, "REG-1", item.ID, 3)
	require.NoError(t, err)
	require.Len(t, quote.Session.Cart, 1)
	assert.Equal(t, 4, quote.Session.Cart[0].Quantity)
	assert.Equal(t, int64(12000), quote.Total)

	_, err = f.svc.AddItem(ctx, "REG-1", item.ID, -1)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceSetQuantity(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	item := f.newItem(t, "SNCK-DRK-01", "Teh Botol", 3000, 100)
	f.newCompletedRecord(t, "SRV-2026-002", nil)

	_, err := f.svc.Select(ctx, "REG-1", "SRV-2026-002")
	require.NoError(t, err)
	_, err = f.svc.AddItem(ctx, "REG-1", item.ID, 2)
	require.NoError(t, err)

	quote, err := f.svc.SetQuantity(ctx, "REG-1", item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, quote.Session.Cart[0].Quantity)

	quote, err = f.svc.SetQuantity(ctx, "REG-1", item.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, quote.Session.Cart)

	_, err = f.svc.SetQuantity(ctx, "REG-1", uuid.New(), 2)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceCurrent_noSession(t *testing.T) {
	f := newPosFixture(t)

	_, err := f.svc.Current(context.Background(), "REG-1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceCheckout(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	item := f.newItem(t, "MOTO-BRK-01", "Kampas Rem Depan", 75000, 30)
	labor := int64(25000)
	record := f.newCompletedRecord(t, "SRV-2026-002", &labor,
		models.ServiceLineItem{ItemID: item.ID, Quantity: 1})

	_, err := f.svc.Select(ctx, "REG-1", "SRV-2026-002")
	require.NoError(t, err)

	result, err := f.svc.Checkout(ctx, "REG-1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.TransactionID, "TRX-"))
	assert.Equal(t, int64(100000), result.Total)
	assert.Empty(t, result.Warnings)

	paid, err := f.recordRepo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Equal(t, enums.ServiceStatusPaid, paid.Status)
	assert.Equal(t, int64(100000), paid.TotalCost)
	require.NotNil(t, paid.PaymentDate)
	require.NotNil(t, paid.TransactionID)
	assert.Equal(t, result.TransactionID, *paid.TransactionID)

	stock, err := f.invRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 29, stock.Stock)

	require.Len(t, f.invRepo.movements, 1)
	assert.Equal(t, -1, f.invRepo.movements[0].Quantity)

	_, err = f.svc.Current(ctx, "REG-1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestServiceCheckout_oversellWarns(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	item := f.newItem(t, "AUTO-FIL-01", "Filter Udara", 45000, 1)
	f.newCompletedRecord(t, "SRV-2026-003", nil,
		models.ServiceLineItem{ItemID: item.ID, Quantity: 3})

	_, err := f.svc.Select(ctx, "REG-1", "SRV-2026-003")
	require.NoError(t, err)

	result, err := f.svc.Checkout(ctx, "REG-1")
	require.NoError(t, err)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "AUTO-FIL-01")
	assert.Contains(t, result.Warnings[0], "-2")

	stock, err := f.invRepo.FindByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, -2, stock.Stock)
	assert.True(t, stock.IsBackordered)
}

func TestServiceCheckout_recordNoLongerCompleted(t *testing.T) {
	f := newPosFixture(t)
	ctx := context.Background()

	record := f.newCompletedRecord(t, "SRV-2026-002", nil)

	_, err := f.svc.Select(ctx, "REG-1", "SRV-2026-002")
	require.NoError(t, err)

	record.Status = enums.ServiceStatusPaid
	require.NoError(t, f.recordRepo.Save(ctx, record))

	_, err = f.svc.Checkout(ctx, "REG-1")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestSessionTotal_emptyCart(t *testing.T) {
	session := &Session{RegisterID: "REG-1"}
	assert.Zero(t, session.Total())

	session.LaborCost = 50000
	assert.Equal(t, int64(50000), session.Total())
}
