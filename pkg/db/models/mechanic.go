package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
)

// Mechanic is one roster entry. IsAvailable is a best-effort single flag kept
// in sync by the lifecycle controller; manual toggles are allowed and the
// last write wins. Open JobAssignments are the structural source of truth for
// double-booking checks.
type Mechanic struct {
	ID          uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code        string                  `gorm:"column:code;uniqueIndex;not null" json:"code"`
	Name        string                  `gorm:"column:name;not null" json:"name"`
	Specialty   enums.MechanicSpecialty `gorm:"column:specialty;type:mechanic_specialty;not null" json:"specialty"`
	IsAvailable bool                    `gorm:"column:is_available;not null;default:true" json:"is_available"`
	Rating      float64                 `gorm:"column:rating;type:numeric(3,2);not null;default:0" json:"rating"`
	CreatedAt   time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
