package mechanics

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	pkgerrors "github.com/raditmaulana/bengkelhub-backend/pkg/errors"
)

func setupMechanicsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)

	schema := `
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
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func newMechanic(t *testing.T, db *gorm.DB, code, name string, available bool) *models.Mechanic {
	t.Helper()

	mechanic := &models.Mechanic{
		ID:          uuid.New(),
		Code:        code,
		Name:        name,
		Specialty:   enums.SpecialtyAuto,
		IsAvailable: available,
		Rating:      4.5,
	}
	require.NoError(t, db.Create(mechanic).Error)
	return mechanic
}

func TestRepositoryFindByCode_caseInsensitive(t *testing.T) {
	db := setupMechanicsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	created := newMechanic(t, db, "M01", "Ahmad", true)

	found, err := repo.FindByCode(ctx, "m01")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	found, err = repo.FindByCode(ctx, "  M01  ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}

func TestRepositoryFindByCode_notFound(t *testing.T) {
	db := setupMechanicsTestDB(t)
	repo := NewRepository(db)

	_, err := repo.FindByCode(context.Background(), "M99")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRepositorySetAvailability(t *testing.T) {
	db := setupMechanicsTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	mechanic := newMechanic(t, db, "M01", "Ahmad", true)

	require.NoError(t, repo.SetAvailability(ctx, mechanic.ID, false))

	found, err := repo.FindByID(ctx, mechanic.ID)
	require.NoError(t, err)
	assert.False(t, found.IsAvailable)

	err = repo.SetAvailability(ctx, uuid.New(), true)
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestRepositoryCountAvailable(t *testing.T) {
	db := setupMechanicsTestDB(t)
	repo := NewRepository(db)

	newMechanic(t, db, "M01", "Ahmad", true)
	newMechanic(t, db, "M02", "Budi", false)
	newMechanic(t, db, "M03", "Pak Cahyo", true)

	available, total, err := repo.CountAvailable(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), available)
	assert.Equal(t, int64(3), total)
}

func TestRepositoryList_orderedByCode(t *testing.T) {
	db := setupMechanicsTestDB(t)
	repo := NewRepository(db)

	newMechanic(t, db, "M03", "Pak Cahyo", true)
	newMechanic(t, db, "M01", "Ahmad", true)
	newMechanic(t, db, "M02", "Budi", false)

	listed, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, "M01", listed[0].Code)
	assert.Equal(t, "M02", listed[1].Code)
	assert.Equal(t, "M03", listed[2].Code)
}
