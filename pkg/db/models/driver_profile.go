package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DriverProfile extends a driver user with dispatch metadata.
type DriverProfile struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID        uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	VehicleType   string          `gorm:"column:vehicle_type;type:text;not null"`
	LicensePlate  *string         `gorm:"column:license_plate;type:text"`
	ServiceAreaID *uuid.UUID      `gorm:"column:service_area_id;type:uuid"`
	IsAvailable   bool            `gorm:"column:is_available;not null;default:true"`
	TotalTrips    int             `gorm:"column:total_trips;not null;default:0"`
	Rating        decimal.Decimal `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
