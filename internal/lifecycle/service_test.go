package lifecycle

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/internal/mechanics"
	"github.com/raditmaulana/bengkelhub-backend/internal/records"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

type gormRunner struct {
	db *gorm.DB
}

func (r gormRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func setupLifecycleTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{`
CREATE TABLE IF NOT EXISTS mechanics (
  id TEXT PRIMARY KEY,
  code TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  specialty TEXT NOT NULL,
  is_available INTEGER NOT NULL DEFAULT 1,
  rating REAL NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS service_line_items (
  id TEXT PRIMARY KEY,
  service_record_id TEXT NOT NULL,
  item_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME
);`, `
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
);`, `
CREATE TABLE IF NOT EXISTS job_assignments (
  id TEXT PRIMARY KEY,
  service_record_id TEXT NOT NULL,
  mechanic_id TEXT NOT NULL,
  assigned_at DATETIME NOT NULL,
  released_at DATETIME
);`}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type lifecycleFixture struct {
	db         *gorm.DB
	svc        Service
	mechRepo   mechanics.Repository
	recordRepo records.Repository
	assignRepo AssignmentRepository
}

func newLifecycleFixture(t *testing.T) *lifecycleFixture {
	t.Helper()

	db := setupLifecycleTestDB(t)
	mechRepo := mechanics.NewRepository(db)
	recordRepo := records.NewRepository(db)
	assignRepo := NewAssignmentRepository(db)
	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})

	svc, err := NewService(mechRepo, recordRepo, assignRepo, gormRunner{db: db}, nil, logg)
	require.NoError(t, err)
	return &lifecycleFixture{db: db, svc: svc, mechRepo: mechRepo, recordRepo: recordRepo, assignRepo: assignRepo}
}

func (f *lifecycleFixture) newMechanic(t *testing.T, code, name string) *models.Mechanic {
	t.Helper()

	mechanic := &models.Mechanic{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Specialty:   enums.SpecialtyAuto,
		IsAvailable: true,
		Rating:      4.5,
	}
	require.NoError(t, f.db.Create(mechanic).Error)
	return mechanic
}

func (f *lifecycleFixture) newRecord(t *testing.T, code string, status enums.ServiceStatus) *models.ServiceRecord {
	t.Helper()

	record := &models.ServiceRecord{
		ID:                 uuid.New(),
		Code:               code,
		CustomerName:       "Pak Eko",
		LicensePlate:       "AB 1234 XY",
		VehicleType:        "Toyota Avanza",
		ProblemDescription: "Mesin kasar saat idle",
		Status:             status,
		EntryTime:          time.Now(),
	}
	require.NoError(t, f.db.Create(record).Error)
	return record
}

func TestServiceAssign_marksMechanicUnavailable(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	mechanic := f.newMechanic(t, "M01", "Ahmad")
	record := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)

	warnings, err := f.svc.Assign(ctx, f.db, record, "M01")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	stored, err := f.mechRepo.FindByID(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.False(t, stored.IsAvailable)

	open, err := f.assignRepo.CountOpenByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)

	found, err := f.recordRepo.FindByID(ctx, record.ID)
	require.NoError(t, err)
	require.NotNil(t, found.MechanicID)
	assert.Equal(t, mechanic.ID, *found.MechanicID)
}

func TestServiceAssign_unknownCodeIsValidationError(t *testing.T) {
	f := newLifecycleFixture(t)
	record := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)

	_, err := f.svc.Assign(context.Background(), f.db, record, "M99")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceAssign_reportsDoubleBooking(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	mechanic := f.newMechanic(t, "M01", "Ahmad")
	first := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)
	second := f.newRecord(t, "SRV-2026-002", enums.ServiceStatusQueued)

	warnings, err := f.svc.Assign(ctx, f.db, first, "M01")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	warnings, err = f.svc.Assign(ctx, f.db, second, "M01")
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "M01")
	assert.Contains(t, warnings[0], "1 open job")

	open, err := f.assignRepo.CountOpenByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), open)
}

func TestServiceReassign_swapsMechanics(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	first := f.newMechanic(t, "M01", "Ahmad")
	second := f.newMechanic(t, "M02", "Budi")
	record := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)

	_, err := f.svc.Assign(ctx, f.db, record, "M01")
	require.NoError(t, err)

	_, err = f.svc.Reassign(ctx, f.db, record, "M02")
	require.NoError(t, err)
	require.NoError(t, f.db.Save(record).Error)

	freed, err := f.mechRepo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsAvailable)

	busy, err := f.mechRepo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, busy.IsAvailable)

	openFirst, err := f.assignRepo.CountOpenByMechanic(ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, openFirst)

	openSecond, err := f.assignRepo.CountOpenByMechanic(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), openSecond)
}

func TestServiceReassign_sameMechanicIsNoOp(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	mechanic := f.newMechanic(t, "M01", "Ahmad")
	record := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)

	_, err := f.svc.Assign(ctx, f.db, record, "M01")
	require.NoError(t, err)

	warnings, err := f.svc.Reassign(ctx, f.db, record, "M01")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	open, err := f.assignRepo.CountOpenByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), open)
}

func TestServiceReassign_emptyCodeUnassigns(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	mechanic := f.newMechanic(t, "M01", "Ahmad")
	record := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)

	_, err := f.svc.Assign(ctx, f.db, record, "M01")
	require.NoError(t, err)

	_, err = f.svc.Reassign(ctx, f.db, record, "")
	require.NoError(t, err)
	require.Nil(t, record.MechanicID)

	freed, err := f.mechRepo.FindByID(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsAvailable)

	open, err := f.assignRepo.CountOpenByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Zero(t, open)
}

func TestServiceStartAndComplete(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	mechanic := f.newMechanic(t, "M01", "Ahmad")
	record := f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)

	_, err := f.svc.Assign(ctx, f.db, record, "M01")
	require.NoError(t, err)

	started, err := f.svc.Start(ctx, "SRV-2026-001")
	require.NoError(t, err)
	assert.Equal(t, enums.ServiceStatusInProgress, started.Record.Status)

	busy, err := f.mechRepo.FindByID(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.False(t, busy.IsAvailable)

	completed, err := f.svc.Complete(ctx, "SRV-2026-001")
	require.NoError(t, err)
	assert.Equal(t, enums.ServiceStatusCompleted, completed.Record.Status)

	freed, err := f.mechRepo.FindByID(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.True(t, freed.IsAvailable)

	open, err := f.assignRepo.CountOpenByMechanic(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.Zero(t, open)
}

func TestServiceTransition_rejectsIllegalMoves(t *testing.T) {
	f := newLifecycleFixture(t)
	ctx := context.Background()

	f.newRecord(t, "SRV-2026-001", enums.ServiceStatusQueued)
	_, err := f.svc.Complete(ctx, "SRV-2026-001")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())

	f.newRecord(t, "SRV-2026-002", enums.ServiceStatusPaid)
	_, err = f.svc.Start(ctx, "SRV-2026-002")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.As(err).Code())
}

func TestServiceTransition_unknownRecord(t *testing.T) {
	f := newLifecycleFixture(t)

	_, err := f.svc.Start(context.Background(), "SRV-2026-404")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}
