package notifications

import (
	"context"

	"github.com/google/uuid"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
)

// Payload carries the displayable content of an in-app notification.
type Payload struct {
	Title             string
	Message           string
	Type              enums.NotificationType
	RelatedEntityType string
	RelatedEntityID   uuid.UUID
}

// Dispatcher delivers notifications outside the caller's transaction.
// Delivery is best-effort: failures are logged and swallowed so a broken
// notification path never rolls back a committed business fact.
type Dispatcher interface {
	SendToUser(ctx context.Context, userID uuid.UUID, payload Payload)
	SendToRole(ctx context.Context, role enums.UserRole, payload Payload)
}

type dispatcher struct {
	repo Repository
	logg *logger.Logger
}

// NewDispatcher wires the persistent in-app notification dispatcher.
func NewDispatcher(repo Repository, logg *logger.Logger) (Dispatcher, error) {
	if repo == nil {
		return nil, errRepoRequired
	}
	if logg == nil {
		return nil, errLoggerRequired
	}
	return &dispatcher{repo: repo, logg: logg}, nil
}

func (d *dispatcher) SendToUser(ctx context.Context, userID uuid.UUID, payload Payload) {
	if userID == uuid.Nil {
		d.logg.Warn(ctx, "notification dropped: missing recipient")
		return
	}
	if err := d.repo.Create(ctx, d.buildRow(userID, payload)); err != nil {
		ctx = d.logg.WithField(ctx, "notification_title", payload.Title)
		d.logg.Error(ctx, "notification delivery failed", err)
	}
}

func (d *dispatcher) SendToRole(ctx context.Context, role enums.UserRole, payload Payload) {
	if !role.IsValid() {
		d.logg.Warn(ctx, "notification dropped: invalid role target")
		return
	}

	ids, err := d.repo.ListUserIDsByRole(ctx, role)
	if err != nil {
		ctx = d.logg.WithField(ctx, "role", role.String())
		d.logg.Error(ctx, "resolving role recipients failed", err)
		return
	}

	rows := make([]models.Notification, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, *d.buildRow(id, payload))
	}
	if err := d.repo.CreateBatch(ctx, rows); err != nil {
		ctx = d.logg.WithFields(ctx, map[string]any{
			"role":               role.String(),
			"notification_title": payload.Title,
		})
		d.logg.Error(ctx, "notification delivery failed", err)
	}
}

func (d *dispatcher) buildRow(userID uuid.UUID, payload Payload) *models.Notification {
	row := &models.Notification{
		UserID:  userID,
		Type:    payload.Type,
		Title:   payload.Title,
		Message: payload.Message,
	}
	if payload.RelatedEntityType != "" {
		entityType := payload.RelatedEntityType
		row.RelatedEntityType = &entityType
	}
	if payload.RelatedEntityID != uuid.Nil {
		entityID := payload.RelatedEntityID
		row.RelatedEntityID = &entityID
	}
	return row
}
