package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/raditmaulana/bengkelhub-backend/pkg/enums"
)

// ServiceRecord is one vehicle-service work order from intake to payment.
// Records are never deleted; paid records form the history log.
type ServiceRecord struct {
	ID                 uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Code               string              `gorm:"column:code;uniqueIndex;not null" json:"code"`
	CustomerName       string              `gorm:"column:customer_name;not null" json:"customer_name"`
	LicensePlate       string              `gorm:"column:license_plate;not null" json:"license_plate"`
	VehicleType        string              `gorm:"column:vehicle_type;not null" json:"vehicle_type"`
	ProblemDescription string              `gorm:"column:problem_description;not null" json:"problem_description"`
	MechanicID         *uuid.UUID          `gorm:"column:mechanic_id;type:uuid" json:"mechanic_id,omitempty"`
	Mechanic           *Mechanic           `gorm:"foreignKey:MechanicID" json:"mechanic,omitempty"`
	Status             enums.ServiceStatus `gorm:"column:status;type:service_status;not null" json:"status"`
	EntryTime          time.Time           `gorm:"column:entry_time;not null" json:"entry_time"`
	EstimatedPickup    *string             `gorm:"column:estimated_pickup" json:"estimated_pickup,omitempty"`
	Items              []ServiceLineItem   `gorm:"foreignKey:ServiceRecordID;constraint:OnDelete:CASCADE" json:"items"`
	TotalCost          int64               `gorm:"column:total_cost;not null;default:0" json:"total_cost"`
	LaborCost          *int64              `gorm:"column:labor_cost" json:"labor_cost,omitempty"`
	TransactionID      *string             `gorm:"column:transaction_id" json:"transaction_id,omitempty"`
	PaymentDate        *time.Time          `gorm:"column:payment_date" json:"payment_date,omitempty"`
	CreatedAt          time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time           `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// ServiceLineItem records one consumed inventory item on a service record.
// An item appears at most once per record; quantities are positive.
type ServiceLineItem struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ServiceRecordID uuid.UUID      `gorm:"column:service_record_id;type:uuid;not null;uniqueIndex:idx_record_item" json:"service_record_id"`
	ItemID          uuid.UUID      `gorm:"column:item_id;type:uuid;not null;uniqueIndex:idx_record_item" json:"item_id"`
	Item            *InventoryItem `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	Quantity        int            `gorm:"column:quantity;not null" json:"quantity"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
