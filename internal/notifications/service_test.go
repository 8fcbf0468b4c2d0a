package notifications

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

func setupNotificationsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS notifications (
  id TEXT PRIMARY KEY,
  type TEXT NOT NULL,
  message TEXT NOT NULL,
  expires_at DATETIME NOT NULL,
  created_at DATETIME
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newNotificationsService(t *testing.T, db *gorm.DB, ttl time.Duration) *service {
	t.Helper()

	logg := logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
	svc, err := NewService(NewRepository(db), ttl, logg)
	require.NoError(t, err)
	return svc.(*service)
}

func TestServiceEmitAndList(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db, 5*time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeTicket, "New service ticket SRV-2026-001 created for Pak Eko"))
	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeJob, "Job SRV-2026-001 is now IN_PROGRESS"))

	listed, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, listed, 2)
}

func TestServiceEmit_validation(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db, 5*time.Minute)
	ctx := context.Background()

	err := svc.Emit(ctx, enums.NotificationType("gossip"), "hello")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	err = svc.Emit(ctx, enums.NotificationTypeSystem, "   ")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestServiceList_hidesExpiredEntries(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db, 5*time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeTicket, "first"))

	svc.now = func() time.Time { return base.Add(3 * time.Minute) }
	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeTicket, "second"))

	svc.now = func() time.Time { return base.Add(6 * time.Minute) }
	listed, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "second", listed[0].Message)
}

func TestServiceSweepExpired_deletesByEntry(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db, 5*time.Minute)
	ctx := context.Background()

	base := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }
	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeTicket, "first"))
	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeTicket, "second"))

	svc.now = func() time.Time { return base.Add(2 * time.Minute) }
	require.NoError(t, svc.Emit(ctx, enums.NotificationTypeTicket, "third"))

	svc.now = func() time.Time { return base.Add(6 * time.Minute) }
	deleted, err := svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	var remaining int64
	require.NoError(t, db.Table("notifications").Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)
}

func TestNewService_defaultTTL(t *testing.T) {
	db := setupNotificationsTestDB(t)
	svc := newNotificationsService(t, db, 0)
	assert.Equal(t, 5*time.Minute, svc.ttl)
}
