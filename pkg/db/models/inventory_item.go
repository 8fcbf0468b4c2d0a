package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
)

// InventoryItem is one stocked part or concession product. Stock is only
// decremented by a committed checkout and may go negative; IsBackordered
// flags that state instead of clamping.
type InventoryItem struct {
	ID            uuid.UUID               `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SKU           string                  `gorm:"column:sku;uniqueIndex;not null" json:"sku"`
	Name          string                  `gorm:"column:name;not null" json:"name"`
	Category      enums.InventoryCategory `gorm:"column:category;type:inventory_category;not null" json:"category"`
	Price         int64                   `gorm:"column:price;not null" json:"price"`
	Stock         int                     `gorm:"column:stock;not null;default:0" json:"stock"`
	IsBackordered bool                    `gorm:"column:is_backordered;not null;default:false" json:"is_backordered"`
	CreatedAt     time.Time               `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time               `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
