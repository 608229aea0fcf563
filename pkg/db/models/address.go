package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a reusable street address owned by a user.
type Address struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID `gorm:"column:user_id;type:uuid;not null"`
	Line1      string    `gorm:"column:line1;type:text;not null"`
	Line2      *string   `gorm:"column:line2;type:text"`
	City       string    `gorm:"column:city;type:text;not null"`
	Region     string    `gorm:"column:region;type:text;not null"`
	PostalCode string    `gorm:"column:postal_code;type:text;not null"`
	Country    string    `gorm:"column:country;type:text;not null;default:'US'"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
