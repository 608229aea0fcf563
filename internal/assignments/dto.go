package assignments

import (
	"time"

	"github.com/google/uuid"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
)

// AssignInput pairs a pending pickup request with an available driver.
type AssignInput struct {
	RequestID       uuid.UUID
	DriverProfileID uuid.UUID
	AdminUserID     uuid.UUID
}

// RespondInput carries a driver's accept/reject decision.
type RespondInput struct {
	AssignmentID uuid.UUID
	Action       enums.DriverAction
	Notes        *string
	DriverUserID uuid.UUID
}

// CompleteInput marks an in-progress assignment as done.
type CompleteInput struct {
	AssignmentID uuid.UUID
	Notes        *string
	DriverUserID uuid.UUID
}

// ReassignInput retires the current assignment and hands the request to a
// different driver.
type ReassignInput struct {
	AssignmentID       uuid.UUID
	NewDriverProfileID uuid.UUID
	AdminUserID        uuid.UUID
	Reason             string
}

// DriverAssignmentFilters narrows a driver's assignment listing.
type DriverAssignmentFilters struct {
	Status *enums.AssignmentStatus
}

// AssignmentView is the API-facing shape of an assignment record.
type AssignmentView struct {
	ID               uuid.UUID              `json:"id"`
	RequestID        uuid.UUID              `json:"request_id"`
	DriverID         uuid.UUID              `json:"driver_id"`
	AssignedByUserID uuid.UUID              `json:"assigned_by_user_id"`
	Status           enums.AssignmentStatus `json:"status"`
	IsActive         bool                   `json:"is_active"`
	DriverNotes      *string                `json:"driver_notes,omitempty"`
	AssignedAt       time.Time              `json:"assigned_at"`
	AcceptedAt       *time.Time             `json:"accepted_at,omitempty"`
	RejectedAt       *time.Time             `json:"rejected_at,omitempty"`
	StartedAt        *time.Time             `json:"started_at,omitempty"`
	CompletedAt      *time.Time             `json:"completed_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// AssignmentList wraps paginated assignments plus the next cursor.
type AssignmentList struct {
	Assignments []AssignmentView `json:"assignments"`
	NextCursor  string           `json:"next_cursor,omitempty"`
}

func toView(m *models.Assignment) *AssignmentView {
	if m == nil {
		return nil
	}
	return &AssignmentView{
		ID:               m.ID,
		RequestID:        m.RequestID,
		DriverID:         m.DriverID,
		AssignedByUserID: m.AssignedByUserID,
		Status:           m.Status,
		IsActive:         m.IsActive,
		DriverNotes:      m.DriverNotes,
		AssignedAt:       m.AssignedAt,
		AcceptedAt:       m.AcceptedAt,
		RejectedAt:       m.RejectedAt,
		StartedAt:        m.StartedAt,
		CompletedAt:      m.CompletedAt,
		CreatedAt:        m.CreatedAt,
	}
}
