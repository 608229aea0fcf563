package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a driver repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error) {
	var profile models.DriverProfile
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

func (r *repository) IncrementTrips(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.DriverProfile{}).
		Where("id = ?", id).
		UpdateColumn("total_trips", gorm.Expr("total_trips + 1")).Error
}

func (r *repository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	return r.db.WithContext(ctx).
		Model(&models.DriverProfile{}).
		Where("id = ?", id).
		UpdateColumn("is_available", available).Error
}

func (r *repository) ListAvailable(ctx context.Context) ([]AvailableDriver, error) {
	var rows []AvailableDriver
	err := r.db.WithContext(ctx).
		Table("driver_profiles").
		Select(`driver_profiles.id,
			driver_profiles.user_id,
			users.first_name,
			users.last_name,
			driver_profiles.vehicle_type,
			driver_profiles.total_trips,
			driver_profiles.rating,
			addresses.city,
			addresses.region`).
		Joins("JOIN users ON users.id = driver_profiles.user_id").
		Joins("LEFT JOIN addresses ON addresses.id = driver_profiles.service_area_id").
		Where("driver_profiles.is_available AND users.is_active").
		Order("driver_profiles.total_trips DESC, driver_profiles.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) HasActiveInProgress(ctx context.Context, driverID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Assignment{}).
		Where("driver_id = ? AND is_active AND status = ?", driverID, enums.AssignmentStatusInProgress).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
