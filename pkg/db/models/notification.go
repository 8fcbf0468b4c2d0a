package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
)

// Notification is one transient event message. Each entry carries its own
// expiry; listing excludes expired rows and the sweeper removes them by
// identity.
type Notification struct {
	ID        uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Type      enums.NotificationType `gorm:"column:type;type:notification_type;not null" json:"type"`
	Message   string                 `gorm:"column:message;not null" json:"message"`
	ExpiresAt time.Time              `gorm:"column:expires_at;not null;index" json:"expires_at"`
	CreatedAt time.Time              `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
