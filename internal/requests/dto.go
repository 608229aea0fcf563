package requests

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
)

// CreateInput captures a customer's new pickup request.
type CreateInput struct {
	CustomerID      uuid.UUID
	AddressID       uuid.UUID
	MaterialType    string
	EstimatedWeight decimal.Decimal
	ScheduledFor    *time.Time
	Notes           *string
}

// RequestView is the API-facing shape of a pickup request.
type RequestView struct {
	ID              uuid.UUID           `json:"id"`
	CustomerID      uuid.UUID           `json:"customer_id"`
	AddressID       uuid.UUID           `json:"address_id"`
	MaterialType    string              `json:"material_type"`
	EstimatedWeight decimal.Decimal     `json:"estimated_weight"`
	Status          enums.RequestStatus `json:"status"`
	ScheduledFor    *time.Time          `json:"scheduled_for,omitempty"`
	CompletedAt     *time.Time          `json:"completed_at,omitempty"`
	Notes           *string             `json:"notes,omitempty"`
	CreatedAt       time.Time           `json:"created_at"`
}

// RequestList wraps paginated requests plus the next cursor.
type RequestList struct {
	Requests   []RequestView `json:"requests"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

func toView(m *models.PickupRequest) *RequestView {
	if m == nil {
		return nil
	}
	return &RequestView{
		ID:              m.ID,
		CustomerID:      m.CustomerID,
		AddressID:       m.AddressID,
		MaterialType:    m.MaterialType,
		EstimatedWeight: m.EstimatedWeight,
		Status:          m.Status,
		ScheduledFor:    m.ScheduledFor,
		CompletedAt:     m.CompletedAt,
		Notes:           m.Notes,
		CreatedAt:       m.CreatedAt,
	}
}
