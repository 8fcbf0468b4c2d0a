package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/raditmaulana/bengkelhub-backend/pkg/config"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db"
	"github.com/raditmaulana/bengkelhub-backend/pkg/db/models"
	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
	"github.com/raditmaulana/bengkelhub-backend/pkg/logger"
)

// MaybeRunDev loads workshop fixtures in development when the seed flag is
// on. Seeding is skipped once mechanics exist, so restarts stay idempotent.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if cfg == nil || client == nil {
		return errors.New("seed requires config and db client")
	}
	if !cfg.App.IsDev() || !cfg.FeatureFlags.SeedDevData {
		return nil
	}

	gdb := client.DB()

	var count int64
	if err := gdb.WithContext(ctx).Model(&models.Mechanic{}).Count(&count).Error; err != nil {
		return fmt.Errorf("checking existing fixtures: %w", err)
	}
	if count > 0 {
		logg.Debug(ctx, "dev fixtures already present, skipping seed")
		return nil
	}

	var errs error
	mechanicsByCode := map[string]*models.Mechanic{}
	for _, mechanic := range devMechanics() {
		m := mechanic
		if err := gdb.WithContext(ctx).Create(&m).Error; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seed mechanic %s: %w", m.Code, err))
			continue
		}
		mechanicsByCode[m.Code] = &m
	}

	itemsBySKU := map[string]*models.InventoryItem{}
	for _, item := range devInventory() {
		i := item
		if err := gdb.WithContext(ctx).Create(&i).Error; err != nil {
			errs = multierr.Append(errs, fmt.Errorf("seed item %s: %w", i.SKU, err))
			continue
		}
		itemsBySKU[i.SKU] = &i
	}

	if err := seedRecords(ctx, gdb, mechanicsByCode, itemsBySKU); err != nil {
		errs = multierr.Append(errs, err)
	}

	if errs != nil {
		return errs
	}
	logg.Info(ctx, "dev fixtures seeded")
	return nil
}

func devMechanics() []models.Mechanic {
	return []models.Mechanic{
		{Code: "M01", Name: "Ahmad", Specialty: enums.SpecialtyAuto, IsAvailable: true, Rating: 4.8},
		{Code: "M02", Name: "Budi", Specialty: enums.SpecialtyMotorcycle, IsAvailable: false, Rating: 4.5},
		{Code: "M03", Name: "Pak Cahyo", Specialty: enums.SpecialtyGeneral, IsAvailable: true, Rating: 5.0},
		{Code: "M04", Name: "Dani", Specialty: enums.SpecialtyAuto, IsAvailable: true, Rating: 4.2},
	}
}

func devInventory() []models.InventoryItem {
	return []models.InventoryItem{
		{SKU: "AUTO-OIL-01", Name: "Oli Mesin 4L (Mobil)", Category: enums.CategoryAuto, Price: 350000, Stock: 20},
		{SKU: "AUTO-FIL-01", Name: "Filter Oli Avanza", Category: enums.CategoryAuto, Price: 45000, Stock: 15},
		{SKU: "MOTO-OIL-01", Name: "Oli Mesin 0.8L (Motor)", Category: enums.CategoryMotorcycle, Price: 55000, Stock: 50},
		{SKU: "MOTO-BRK-01", Name: "Kampas Rem Depan Vario", Category: enums.CategoryMotorcycle, Price: 75000, Stock: 30},
		{SKU: "SNCK-DRK-01", Name: "Air Mineral", Category: enums.CategoryConcession, Price: 3000, Stock: 100},
		{SKU: "SNCK-FD-01", Name: "Roti Bakar", Category: enums.CategoryConcession, Price: 12000, Stock: 10},
	}
}

func seedRecords(ctx context.Context, gdb *gorm.DB, mechanics map[string]*models.Mechanic, items map[string]*models.InventoryItem) error {
	now := time.Now()
	year := now.Year()

	var errs error

	inProgress := &models.ServiceRecord{
		Code:               fmt.Sprintf("SRV-%d-001", year),
		CustomerName:       "Pak Eko",
		LicensePlate:       "AB 1234 XY",
		VehicleType:        "Toyota Avanza",
		ProblemDescription: "Ganti oli dan service berkala",
		Status:             enums.ServiceStatusInProgress,
		EntryTime:          now.Add(-time.Hour),
	}
	if mechanic, ok := mechanics["M02"]; ok {
		inProgress.MechanicID = &mechanic.ID
	}
	if err := gdb.WithContext(ctx).Create(inProgress).Error; err != nil {
		errs = multierr.Append(errs, fmt.Errorf("seed record %s: %w", inProgress.Code, err))
	}

	pickup := "Segera"
	labor := int64(25000)
	completed := &models.ServiceRecord{
		Code:               fmt.Sprintf("SRV-%d-002", year),
		CustomerName:       "Bu Siti",
		LicensePlate:       "AB 5678 CD",
		VehicleType:        "Honda Vario",
		ProblemDescription: "Rem bunyi",
		Status:             enums.ServiceStatusCompleted,
		EntryTime:          now.Add(-2 * time.Hour),
		EstimatedPickup:    &pickup,
		LaborCost:          &labor,
	}
	if mechanic, ok := mechanics["M01"]; ok {
		completed.MechanicID = &mechanic.ID
	}
	if brakePads, ok := items["MOTO-BRK-01"]; ok {
		completed.Items = []models.ServiceLineItem{{ItemID: brakePads.ID, Quantity: 1}}
	}
	if err := gdb.WithContext(ctx).Create(completed).Error; err != nil {
		errs = multierr.Append(errs, fmt.Errorf("seed record %s: %w", completed.Code, err))
	}

	return errs
}
