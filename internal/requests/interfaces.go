package requests

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

// Repository defines persistence operations for pickup requests.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, request *models.PickupRequest) (*models.PickupRequest, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PickupRequest, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.RequestStatus, completedAt *time.Time) error
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*RequestList, error)
}
