package notifications

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard})
}

func TestDispatcher_SendToUserPersistsRow(t *testing.T) {
	var created *models.Notification
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			created = notification
			return nil
		},
	}

	d, err := NewDispatcher(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	userID := uuid.New()
	entityID := uuid.New()
	d.SendToUser(context.Background(), userID, Payload{
		Title:             "New Assignment",
		Message:           "You have been assigned a pickup",
		Type:              enums.NotificationTypeAssignmentAlert,
		RelatedEntityType: "assignment",
		RelatedEntityID:   entityID,
	})

	if created == nil {
		t.Fatal("expected a notification row")
	}
	if created.UserID != userID {
		t.Fatalf("expected recipient %s, got %s", userID, created.UserID)
	}
	if created.RelatedEntityID == nil || *created.RelatedEntityID != entityID {
		t.Fatal("expected related entity id to be recorded")
	}
	if created.Type != enums.NotificationTypeAssignmentAlert {
		t.Fatalf("unexpected type %s", created.Type)
	}
}

func TestDispatcher_SendToUserSwallowsErrors(t *testing.T) {
	repo := &fakeRepository{
		createFn: func(ctx context.Context, notification *models.Notification) error {
			return errors.New("db down")
		},
	}

	d, err := NewDispatcher(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// must not panic or surface the failure
	d.SendToUser(context.Background(), uuid.New(), Payload{Title: "x", Message: "y", Type: enums.NotificationTypePickupAlert})
}

func TestDispatcher_SendToRoleFansOut(t *testing.T) {
	admins := []uuid.UUID{uuid.New(), uuid.New()}
	var batch []models.Notification
	repo := &fakeRepository{
		userIDsByRoleFn: func(ctx context.Context, role enums.UserRole) ([]uuid.UUID, error) {
			if role != enums.UserRoleAdmin {
				t.Fatalf("unexpected role %s", role)
			}
			return admins, nil
		},
		createBatchFn: func(ctx context.Context, notifications []models.Notification) error {
			batch = notifications
			return nil
		},
	}

	d, err := NewDispatcher(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	d.SendToRole(context.Background(), enums.UserRoleAdmin, Payload{
		Title:   "Driver Rejected Assignment",
		Message: "too far",
		Type:    enums.NotificationTypeAssignmentAlert,
	})

	if len(batch) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(batch))
	}
	if batch[0].UserID != admins[0] || batch[1].UserID != admins[1] {
		t.Fatal("recipients do not match admin users")
	}
}

func TestDispatcher_SendToRoleInvalidRole(t *testing.T) {
	repo := &fakeRepository{
		userIDsByRoleFn: func(ctx context.Context, role enums.UserRole) ([]uuid.UUID, error) {
			t.Fatal("lookup should not run for invalid role")
			return nil, nil
		},
	}

	d, err := NewDispatcher(repo, testLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.SendToRole(context.Background(), enums.UserRole("nobody"), Payload{Title: "x", Message: "y"})
}
