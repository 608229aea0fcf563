package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
)

// Repository defines persistence operations for driver profiles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error)
	FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error)
	IncrementTrips(ctx context.Context, id uuid.UUID) error
	SetAvailability(ctx context.Context, id uuid.UUID, available bool) error
	ListAvailable(ctx context.Context) ([]AvailableDriver, error)
	HasActiveInProgress(ctx context.Context, driverID uuid.UUID) (bool, error)
}
