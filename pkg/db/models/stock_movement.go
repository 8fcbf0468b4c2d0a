package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
)

// StockMovement is the append-only audit trail behind every stock change.
// Sales carry a negative quantity and reference the paying transaction.
type StockMovement struct {
	ID              uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID          uuid.UUID                 `gorm:"column:item_id;type:uuid;not null;index" json:"item_id"`
	Quantity        int                       `gorm:"column:quantity;not null" json:"quantity"`
	Reason          enums.StockMovementReason `gorm:"column:reason;type:stock_movement_reason;not null" json:"reason"`
	ServiceRecordID *uuid.UUID                `gorm:"column:service_record_id;type:uuid" json:"service_record_id,omitempty"`
	TransactionID   *string                   `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	CreatedAt       time.Time                 `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
