package records

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

func setupRecordsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	mechanics := `
CREATE TABLE IF NOT EXISTS mechanics (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  specialty TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  rating REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	items := `
CREATE TABLE IF NOT EXISTS inventory_items (
  id TEXT PRIMARY KEY,
  sku TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  category TEXT NOT NULL,
  price INTEGER NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  is_backordered INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`
	records := `
CREATE TABLE IF NOT EXISTS service_records (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  customer_name TEXT NOT NULL,
  license_plate TEXT NOT NULL,
  vehicle_type TEXT NOT NULL,
  problem_description TEXT NOT NULL,
  mechanic_id TEXT,
  status TEXT NOT NULL,
  entry_time DATETIME NOT NULL,
  estimated_pickup TEXT,
  total_cost INTEGER NOT NULL DEFAULT 0,
  labor_cost INTEGER,
  transaction_id TEXT,
  payment_date DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`
	lineItems := `
CREATE TABLE IF NOT EXISTS service_line_items (
  id TEXT PRIMARY KEY,
  service_record_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  UNIQUE (service_record_id, item_id)
);`
	require.NoError(t, db.Exec(mechanics).Error)
	require.NoError(t, db.Exec(items).Error)
	require.NoError(t, db.Exec(records).Error)
	require.NoError(t, db.Exec(lineItems).Error)
	return db
}

func newRecord(t *testing.T, db *gorm.DB, code, customer, plate string, status enums.ServiceStatus, entered time.Time) *models.ServiceRecord {
	t.Helper()

	record := &models.ServiceRecord{
		ID:                 uuid.New(),
		Code:               code,
		CustomerName:       customer,
		LicensePlate:       plate,
		VehicleType:        "Toyota Avanza",
		ProblemDescription: "Mesin kasar saat idle",
		Status:             status,
		EntryTime:          entered,
	}
	require.NoError(t, db.Create(record).Error)
	return record
}

func TestRepositoryFindByCode_caseInsensitive(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newRecord(t, db, "SRV-2026-001", "Pak Eko", "AB 1234 XY", enums.ServiceStatusQueued, time.Now())

	found, err := repo.FindByCode(ctx, "srv-2026-001")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = repo.FindByCode(ctx, "SRV-2026-999")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRepositoryFindByPlate_normalizesWhitespaceAndCase(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	older := newRecord(t, db, "SRV-2026-001", "Pak Eko", "AB 1234 XY", enums.ServiceStatusPaid, time.Now().Add(-48*time.Hour))
	newer := newRecord(t, db, "SRV-2026-002", "Pak Eko", "ab1234xy", enums.ServiceStatusQueued, time.Now())

	found, err := repo.FindByPlate(ctx, "AB1234XY")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
	assert.NotEqual(t, older.ID, found.ID)

	found, err = repo.FindByPlate(ctx, "ab 1234 xy")
	require.NoError(t, err)
	assert.Equal(t, newer.ID, found.ID)
}

func TestRepositoryListByStatuses(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	newRecord(t, db, "SRV-2026-001", "Pak Eko", "AB 1234 XY", enums.ServiceStatusQueued, now.Add(-2*time.Hour))
	newRecord(t, db, "SRV-2026-002", "Bu Siti", "AB 5678 CD", enums.ServiceStatusInProgress, now.Add(-1*time.Hour))
	newRecord(t, db, "SRV-2026-003", "Pak Joko", "B 11 AA", enums.ServiceStatusPaid, now)

	active, err := repo.ListByStatuses(ctx, []enums.ServiceStatus{enums.ServiceStatusQueued, enums.ServiceStatusInProgress})
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "SRV-2026-002", active[0].Code)
	assert.Equal(t, "SRV-2026-001", active[1].Code)

	all, err := repo.ListByStatuses(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "SRV-2026-003", all[0].Code)
}

func TestRepositoryCountByYear(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	newRecord(t, db, "SRV-2026-001", "Pak Eko", "AB 1234 XY", enums.ServiceStatusQueued, time.Now())
	newRecord(t, db, "SRV-2026-002", "Bu Siti", "AB 5678 CD", enums.ServiceStatusQueued, time.Now())
	newRecord(t, db, "SRV-2025-041", "Pak Joko", "B 11 AA", enums.ServiceStatusPaid, time.Now())

	count, err := repo.CountByYear(ctx, 2026)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = repo.CountByYear(ctx, 2024)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRepositoryListPaidBetween(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	first := newRecord(t, db, "SRV-2026-001", "Pak Eko", "AB 1234 XY", enums.ServiceStatusPaid, base)
	firstPaid := base.Add(2 * time.Hour)
	require.NoError(t, db.Model(first).Update("payment_date", firstPaid).Error)

	second := newRecord(t, db, "SRV-2026-002", "Bu Siti", "AB 5678 CD", enums.ServiceStatusPaid, base.AddDate(0, 0, 3))
	secondPaid := base.AddDate(0, 0, 3)
	require.NoError(t, db.Model(second).Update("payment_date", secondPaid).Error)

	newRecord(t, db, "SRV-2026-003", "Pak Joko", "B 11 AA", enums.ServiceStatusQueued, base)

	all, err := repo.ListPaidBetween(ctx, nil, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "SRV-2026-002", all[0].Code)

	from := base.AddDate(0, 0, 1)
	later, err := repo.ListPaidBetween(ctx, &from, nil)
	require.NoError(t, err)
	require.Len(t, later, 1)
	assert.Equal(t, "SRV-2026-002", later[0].Code)

	to := base.AddDate(0, 0, 1)
	earlier, err := repo.ListPaidBetween(ctx, nil, &to)
	require.NoError(t, err)
	require.Len(t, earlier, 1)
	assert.Equal(t, "SRV-2026-001", earlier[0].Code)
}

func TestRepositoryReplaceLineItems(t *testing.T) {
	db := setupRecordsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	item := &models.InventoryItem{
		ID:       uuid.New(),
		SKU:      "MOTO-BRK-01",
		Name:     "Kampas Rem Depan",
		Category: enums.CategoryMotorcycle,
		Price:    75000,
		Stock:    30,
	}
	require.NoError(t, db.Create(item).Error)

	record := newRecord(t, db, "SRV-2026-001", "Bu Siti", "AB 5678 CD", enums.ServiceStatusCompleted, time.Now())

	require.NoError(t, repo.ReplaceLineItems(ctx, record.ID, []models.ServiceLineItem{
		{ID: uuid.New(), ItemID: item.ID, Quantity: 1},
	}))

	found, err := repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 1, found.Items[0].Quantity)
	require.NotNil(t, found.Items[0].Item)
	assert.Equal(t, "MOTO-BRK-01", found.Items[0].Item.SKU)

	require.NoError(t, repo.ReplaceLineItems(ctx, record.ID, []models.ServiceLineItem{
		{ID: uuid.New(), ItemID: item.ID, Quantity: 3},
	}))

	found, err = repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.Len(t, found.Items, 1)
	assert.Equal(t, 3, found.Items[0].Quantity)

	require.NoError(t, repo.ReplaceLineItems(ctx, record.ID, nil))
	found, err = repo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	assert.Empty(t, found.Items)
}
