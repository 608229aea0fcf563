package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/loopcycle/loopcycle-backend/pkg/enums"
)

// Assignment captures driver assignment history for a pickup request. Records
// are never deleted; reassignment and rejection flip IsActive instead.
type Assignment struct {
	ID               uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID        uuid.UUID              `gorm:"column:request_id;type:uuid;not null"`
	DriverID         uuid.UUID              `gorm:"column:driver_id;type:uuid;not null"`
	AssignedByUserID uuid.UUID              `gorm:"column:assigned_by_user_id;type:uuid;not null"`
	Status           enums.AssignmentStatus `gorm:"column:status;type:text;not null;default:'assigned'"`
	IsActive         bool                   `gorm:"column:is_active;not null;default:true"`
	DriverNotes      *string                `gorm:"column:driver_notes;type:text"`
	AssignedAt       time.Time              `gorm:"column:assigned_at;autoCreateTime"`
	AcceptedAt       *time.Time             `gorm:"column:accepted_at"`
	RejectedAt       *time.Time             `gorm:"column:rejected_at"`
	StartedAt        *time.Time             `gorm:"column:started_at"`
	CompletedAt      *time.Time             `gorm:"column:completed_at"`
	CreatedAt        time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
