package drivers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgerrors "github.com/loopcycle/loopcycle-backend/pkg/errors"
)

// Service exposes driver directory operations.
type Service interface {
	ListAvailableDrivers(ctx context.Context) ([]AvailableDriver, error)
	SetAvailability(ctx context.Context, input SetAvailabilityInput) error
}

// SetAvailabilityInput toggles a driver's own availability flag.
type SetAvailabilityInput struct {
	DriverUserID uuid.UUID
	Available    bool
}

type service struct {
	repo Repository
}

// NewService builds the driver directory service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "drivers repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListAvailableDrivers(ctx context.Context) ([]AvailableDriver, error) {
	rows, err := s.repo.ListAvailable(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list available drivers")
	}
	return rows, nil
}

func (s *service) SetAvailability(ctx context.Context, input SetAvailabilityInput) error {
	if input.DriverUserID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	profile, err := s.repo.FindByUserID(ctx, input.DriverUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "driver profile not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
	}

	if profile.IsAvailable == input.Available {
		return nil
	}

	// A driver mid-pickup cannot flip to unavailable; the reassignment flow
	// handles pulling them off the job first.
	if !input.Available {
		busy, err := s.repo.HasActiveInProgress(ctx, profile.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active assignments")
		}
		if busy {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver has a pickup in progress")
		}
	}

	if err := s.repo.SetAvailability(ctx, profile.ID, input.Available); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update availability")
	}
	return nil
}
