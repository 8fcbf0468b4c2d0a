package models

import (
	"time"

	"github.com/google/uuid"
)

// JobAssignment is the explicit job-to-mechanic relation. An assignment with
// a nil ReleasedAt is open; a mechanic with more than one open assignment is
// double-booked, which is surfaced as a warning rather than rejected.
type JobAssignment struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceRecordID uuid.UUID  `gorm:"column:service_record_id;type:uuid;not null;index" json:"service_record_id"`
	MechanicID      uuid.UUID  `gorm:"column:mechanic_id;type:uuid;not null;index" json:"mechanic_id"`
	AssignedAt      time.Time  `gorm:"column:assigned_at;not null" json:"assigned_at"`
	ReleasedAt      *time.Time `gorm:"column:released_at" json:"released_at,omitempty"`
}
