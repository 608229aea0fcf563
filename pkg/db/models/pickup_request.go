package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopcycle/loopcycle-backend/pkg/enums"
)

// PickupRequest is a customer's order for material collection.
type PickupRequest struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID      uuid.UUID           `gorm:"column:customer_id;type:uuid;not null"`
	AddressID       uuid.UUID           `gorm:"column:address_id;type:uuid;not null"`
	MaterialType    string              `gorm:"column:material_type;type:text;not null"`
	EstimatedWeight decimal.Decimal     `gorm:"column:estimated_weight;type:numeric(10,2);not null"`
	Status          enums.RequestStatus `gorm:"column:status;type:text;not null;default:'waiting'"`
	ScheduledFor    *time.Time          `gorm:"column:scheduled_for"`
	CompletedAt     *time.Time          `gorm:"column:completed_at"`
	Notes           *string             `gorm:"column:notes;type:text"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
