package drivers

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	pkgerrors "github.com/loopcycle/loopcycle-backend/pkg/errors"
)

type stubRepository struct {
	findByIDFn        func(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error)
	findByUserIDFn    func(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error)
	incrementTripsFn  func(ctx context.Context, id uuid.UUID) error
	setAvailabilityFn func(ctx context.Context, id uuid.UUID, available bool) error
	listAvailableFn   func(ctx context.Context) ([]AvailableDriver, error)
	hasInProgressFn   func(ctx context.Context, driverID uuid.UUID) (bool, error)
}

func (s *stubRepository) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error) {
	if s.findByIDFn != nil {
		return s.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*models.DriverProfile, error) {
	if s.findByUserIDFn != nil {
		return s.findByUserIDFn(ctx, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRepository) IncrementTrips(ctx context.Context, id uuid.UUID) error {
	if s.incrementTripsFn != nil {
		return s.incrementTripsFn(ctx, id)
	}
	return nil
}

func (s *stubRepository) SetAvailability(ctx context.Context, id uuid.UUID, available bool) error {
	if s.setAvailabilityFn != nil {
		return s.setAvailabilityFn(ctx, id, available)
	}
	return nil
}

func (s *stubRepository) ListAvailable(ctx context.Context) ([]AvailableDriver, error) {
	if s.listAvailableFn != nil {
		return s.listAvailableFn(ctx)
	}
	return nil, nil
}

func (s *stubRepository) HasActiveInProgress(ctx context.Context, driverID uuid.UUID) (bool, error) {
	if s.hasInProgressFn != nil {
		return s.hasInProgressFn(ctx, driverID)
	}
	return false, nil
}

func newService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return svc
}

func TestListAvailableDrivers(t *testing.T) {
	want := []AvailableDriver{{ID: uuid.New(), FirstName: "Ana"}}
	svc := newService(t, &stubRepository{
		listAvailableFn: func(ctx context.Context) ([]AvailableDriver, error) {
			return want, nil
		},
	})

	got, err := svc.ListAvailableDrivers(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID {
		t.Fatalf("unexpected projection %+v", got)
	}
}

func TestSetAvailability_TogglesFlag(t *testing.T) {
	userID := uuid.New()
	profileID := uuid.New()
	var toggledTo *bool
	svc := newService(t, &stubRepository{
		findByUserIDFn: func(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error) {
			return &models.DriverProfile{ID: profileID, UserID: userID, IsAvailable: true}, nil
		},
		setAvailabilityFn: func(ctx context.Context, id uuid.UUID, available bool) error {
			if id != profileID {
				t.Fatalf("unexpected profile id %s", id)
			}
			toggledTo = &available
			return nil
		},
	})

	if err := svc.SetAvailability(context.Background(), SetAvailabilityInput{DriverUserID: userID, Available: false}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if toggledTo == nil || *toggledTo {
		t.Fatal("expected availability set to false")
	}
}

func TestSetAvailability_NoopWhenUnchanged(t *testing.T) {
	svc := newService(t, &stubRepository{
		findByUserIDFn: func(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error) {
			return &models.DriverProfile{ID: uuid.New(), IsAvailable: true}, nil
		},
		setAvailabilityFn: func(ctx context.Context, id uuid.UUID, available bool) error {
			t.Fatal("update should not run when flag is unchanged")
			return nil
		},
	})

	if err := svc.SetAvailability(context.Background(), SetAvailabilityInput{DriverUserID: uuid.New(), Available: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSetAvailability_BlockedMidPickup(t *testing.T) {
	svc := newService(t, &stubRepository{
		findByUserIDFn: func(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error) {
			return &models.DriverProfile{ID: uuid.New(), IsAvailable: true}, nil
		},
		hasInProgressFn: func(ctx context.Context, driverID uuid.UUID) (bool, error) {
			return true, nil
		},
	})

	err := svc.SetAvailability(context.Background(), SetAvailabilityInput{DriverUserID: uuid.New(), Available: false})
	if err == nil {
		t.Fatal("expected state conflict")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSetAvailability_ProfileMissing(t *testing.T) {
	svc := newService(t, &stubRepository{})
	err := svc.SetAvailability(context.Background(), SetAvailabilityInput{DriverUserID: uuid.New(), Available: false})
	if err == nil {
		t.Fatal("expected not found")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetAvailability_RepoErrorWrapped(t *testing.T) {
	svc := newService(t, &stubRepository{
		findByUserIDFn: func(ctx context.Context, id uuid.UUID) (*models.DriverProfile, error) {
			return nil, errors.New("timeout")
		},
	})
	err := svc.SetAvailability(context.Background(), SetAvailabilityInput{DriverUserID: uuid.New(), Available: false})
	if err == nil {
		t.Fatal("expected error")
	}
	if pkgerrors.As(err).Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}
