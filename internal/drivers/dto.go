package drivers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AvailableDriver is the admin-facing projection used when picking a driver
// for a pickup request.
type AvailableDriver struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	VehicleType string          `json:"vehicle_type"`
	TotalTrips  int             `json:"total_trips"`
	Rating      decimal.Decimal `json:"rating"`
	City        *string         `json:"city,omitempty"`
	Region      *string         `json:"region,omitempty"`
}
