package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

// Repository defines persistence operations for assignment records. The
// partial unique index ux_assignments_request_active is the storage-level
// authority for the one-active-assignment rule; Create surfaces its
// violation as a raw error for the service to classify.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, assignment *models.Assignment) (*models.Assignment, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Assignment, error)
	FindActiveByRequest(ctx context.Context, requestID uuid.UUID) (*models.Assignment, error)
	ListByRequest(ctx context.Context, requestID uuid.UUID) ([]models.Assignment, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID, params pagination.Params, filters DriverAssignmentFilters) (*AssignmentList, error)
	ListStaleAssigned(ctx context.Context, cutoff time.Time) ([]models.Assignment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}
