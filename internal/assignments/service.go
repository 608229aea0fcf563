package assignments

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/internal/drivers"
	"github.com/loopcycle/loopcycle-backend/internal/notifications"
	"github.com/loopcycle/loopcycle-backend/internal/requests"
	"github.com/loopcycle/loopcycle-backend/pkg/db"
	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	pkgerrors "github.com/loopcycle/loopcycle-backend/pkg/errors"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

// activeConstraint names the partial unique index enforcing one active
// assignment per request.
const activeConstraint = "ux_assignments_request_active"

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service is the assignment engine: a state machine over assignment records
// with role-gated transitions. Every mutation writes the assignment row and
// its dependent pickup-request update in one transaction; notifications go
// out after commit and never abort the core change.
type Service interface {
	AssignDriver(ctx context.Context, input AssignInput) (*AssignmentView, error)
	Respond(ctx context.Context, input RespondInput) (*AssignmentView, error)
	Complete(ctx context.Context, input CompleteInput) (*AssignmentView, error)
	Reassign(ctx context.Context, input ReassignInput) (*AssignmentView, error)

	GetByID(ctx context.Context, assignmentID uuid.UUID) (*AssignmentView, error)
	ListByDriver(ctx context.Context, driverID uuid.UUID, params pagination.Params, filters DriverAssignmentFilters) (*AssignmentList, error)
	ListByDriverUser(ctx context.Context, driverUserID uuid.UUID, params pagination.Params, filters DriverAssignmentFilters) (*AssignmentList, error)
	HistoryByRequest(ctx context.Context, requestID uuid.UUID) ([]AssignmentView, error)
	ActiveByRequest(ctx context.Context, requestID uuid.UUID) (*AssignmentView, error)
}

type service struct {
	repo     Repository
	requests requests.Repository
	drivers  drivers.Repository
	tx       txRunner
	notifier notifications.Dispatcher
}

// NewService wires the assignment engine with its collaborators.
func NewService(repo Repository, requestsRepo requests.Repository, driversRepo drivers.Repository, tx txRunner, notifier notifications.Dispatcher) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "assignments repository required")
	}
	if requestsRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "requests repository required")
	}
	if driversRepo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "drivers repository required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction runner required")
	}
	if notifier == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "notification dispatcher required")
	}
	return &service{
		repo:     repo,
		requests: requestsRepo,
		drivers:  driversRepo,
		tx:       tx,
		notifier: notifier,
	}, nil
}

func (s *service) AssignDriver(ctx context.Context, input AssignInput) (*AssignmentView, error) {
	if input.RequestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if input.DriverProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver profile id required")
	}
	if input.AdminUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		created      *models.Assignment
		ownerID      uuid.UUID
		driverUserID uuid.UUID
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		requestsRepo := s.requests.WithTx(tx)
		driversRepo := s.drivers.WithTx(tx)

		request, err := requestsRepo.FindByID(ctx, input.RequestID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "pickup request not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup request")
		}
		if request.Status != enums.RequestStatusPending {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "request is not awaiting assignment")
		}
		ownerID = request.CustomerID

		active, err := repo.FindActiveByRequest(ctx, input.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check active assignment")
		}
		if active != nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "request already has an active assignment")
		}

		driver, err := driversRepo.FindByID(ctx, input.DriverProfileID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
		}
		if !driver.IsAvailable {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver is not available")
		}
		driverUserID = driver.UserID

		assignment := &models.Assignment{
			RequestID:        input.RequestID,
			DriverID:         driver.ID,
			AssignedByUserID: input.AdminUserID,
			Status:           enums.AssignmentStatusAssigned,
			IsActive:         true,
			AssignedAt:       time.Now().UTC(),
		}
		created, err = repo.Create(ctx, assignment)
		if err != nil {
			if db.IsUniqueViolation(err, activeConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "request already has an active assignment")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create assignment")
		}

		if err := requestsRepo.UpdateStatus(ctx, input.RequestID, enums.RequestStatusAssigned, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendToUser(ctx, ownerID, notifications.Payload{
		Title:             "Driver Assigned",
		Message:           "A driver has been assigned to your pickup request",
		Type:              enums.NotificationTypePickupAlert,
		RelatedEntityType: "pickup_request",
		RelatedEntityID:   input.RequestID,
	})
	s.notifier.SendToUser(ctx, driverUserID, notifications.Payload{
		Title:             "New Assignment",
		Message:           "You have been assigned a pickup",
		Type:              enums.NotificationTypeAssignmentAlert,
		RelatedEntityType: "assignment",
		RelatedEntityID:   created.ID,
	})

	return toView(created), nil
}

func (s *service) Respond(ctx context.Context, input RespondInput) (*AssignmentView, error) {
	if input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "action must be accept or reject")
	}
	if input.DriverUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		assignment *models.Assignment
		ownerID    uuid.UUID
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		requestsRepo := s.requests.WithTx(tx)

		loaded, err := s.loadOwnedAssignment(ctx, tx, input.AssignmentID, input.DriverUserID)
		if err != nil {
			return err
		}
		assignment = loaded

		if !assignment.IsActive || assignment.Status != enums.AssignmentStatusAssigned {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is not awaiting a response")
		}

		request, err := requestsRepo.FindByID(ctx, assignment.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup request")
		}
		ownerID = request.CustomerID

		now := time.Now().UTC()
		switch input.Action {
		case enums.DriverActionAccept:
			updates := map[string]any{
				"status":      enums.AssignmentStatusInProgress,
				"accepted_at": now,
				"started_at":  now,
			}
			if input.Notes != nil {
				updates["driver_notes"] = *input.Notes
			}
			if err := repo.Update(ctx, assignment.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "accept assignment")
			}
			if err := requestsRepo.UpdateStatus(ctx, assignment.RequestID, enums.RequestStatusPickedUp, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
			}
			assignment.Status = enums.AssignmentStatusInProgress
			assignment.AcceptedAt = &now
			assignment.StartedAt = &now

		case enums.DriverActionReject:
			updates := map[string]any{
				"status":      enums.AssignmentStatusRejected,
				"is_active":   false,
				"rejected_at": now,
			}
			if input.Notes != nil {
				updates["driver_notes"] = *input.Notes
			}
			if err := repo.Update(ctx, assignment.ID, updates); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reject assignment")
			}
			if err := requestsRepo.UpdateStatus(ctx, assignment.RequestID, enums.RequestStatusPending, nil); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
			}
			assignment.Status = enums.AssignmentStatusRejected
			assignment.IsActive = false
			assignment.RejectedAt = &now
		}
		if input.Notes != nil {
			assignment.DriverNotes = input.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch input.Action {
	case enums.DriverActionAccept:
		s.notifier.SendToUser(ctx, ownerID, notifications.Payload{
			Title:             "Driver En Route",
			Message:           "Your driver has accepted the pickup and is on the way",
			Type:              enums.NotificationTypePickupAlert,
			RelatedEntityType: "pickup_request",
			RelatedEntityID:   assignment.RequestID,
		})
	case enums.DriverActionReject:
		message := "A driver rejected an assignment"
		if input.Notes != nil && *input.Notes != "" {
			message = "A driver rejected an assignment: " + *input.Notes
		}
		s.notifier.SendToRole(ctx, enums.UserRoleAdmin, notifications.Payload{
			Title:             "Driver Rejected Assignment",
			Message:           message,
			Type:              enums.NotificationTypeAssignmentAlert,
			RelatedEntityType: "assignment",
			RelatedEntityID:   assignment.ID,
		})
	}

	return toView(assignment), nil
}

func (s *service) Complete(ctx context.Context, input CompleteInput) (*AssignmentView, error) {
	if input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	if input.DriverUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		assignment *models.Assignment
		ownerID    uuid.UUID
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		requestsRepo := s.requests.WithTx(tx)
		driversRepo := s.drivers.WithTx(tx)

		loaded, err := s.loadOwnedAssignment(ctx, tx, input.AssignmentID, input.DriverUserID)
		if err != nil {
			return err
		}
		assignment = loaded

		if !assignment.IsActive || assignment.Status != enums.AssignmentStatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "assignment is not in progress")
		}

		request, err := requestsRepo.FindByID(ctx, assignment.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup request")
		}
		ownerID = request.CustomerID

		now := time.Now().UTC()
		updates := map[string]any{
			"status":       enums.AssignmentStatusCompleted,
			"is_active":    false,
			"completed_at": now,
		}
		if input.Notes != nil {
			updates["driver_notes"] = *input.Notes
		}
		if err := repo.Update(ctx, assignment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete assignment")
		}
		if err := requestsRepo.UpdateStatus(ctx, assignment.RequestID, enums.RequestStatusCompleted, &now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		if err := driversRepo.IncrementTrips(ctx, assignment.DriverID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment driver trips")
		}

		assignment.Status = enums.AssignmentStatusCompleted
		assignment.IsActive = false
		assignment.CompletedAt = &now
		if input.Notes != nil {
			assignment.DriverNotes = input.Notes
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifier.SendToUser(ctx, ownerID, notifications.Payload{
		Title:             "Pickup Completed",
		Message:           "Your pickup is complete. Please review your driver",
		Type:              enums.NotificationTypeReviewPrompt,
		RelatedEntityType: "pickup_request",
		RelatedEntityID:   assignment.RequestID,
	})
	s.notifier.SendToRole(ctx, enums.UserRoleAdmin, notifications.Payload{
		Title:             "Ready for Review",
		Message:           "A pickup was completed and is ready for review",
		Type:              enums.NotificationTypePickupAlert,
		RelatedEntityType: "pickup_request",
		RelatedEntityID:   assignment.RequestID,
	})

	return toView(assignment), nil
}

func (s *service) Reassign(ctx context.Context, input ReassignInput) (*AssignmentView, error) {
	if input.AssignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	if input.NewDriverProfileID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "new driver profile id required")
	}
	if input.AdminUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	var (
		created         *models.Assignment
		ownerID         uuid.UUID
		oldDriverUserID uuid.UUID
		newDriverUserID uuid.UUID
	)
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		requestsRepo := s.requests.WithTx(tx)
		driversRepo := s.drivers.WithTx(tx)

		current, err := repo.FindByID(ctx, input.AssignmentID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
		}
		if !current.IsActive || current.Status.IsTerminal() {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only an active assignment can be reassigned")
		}
		if current.DriverID == input.NewDriverProfileID {
			return pkgerrors.New(pkgerrors.CodeValidation, "new driver must differ from the current driver")
		}

		oldDriver, err := driversRepo.FindByID(ctx, current.DriverID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load current driver")
		}
		oldDriverUserID = oldDriver.UserID

		newDriver, err := driversRepo.FindByID(ctx, input.NewDriverProfileID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "driver profile not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
		}
		if !newDriver.IsAvailable {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "driver is not available")
		}
		newDriverUserID = newDriver.UserID

		request, err := requestsRepo.FindByID(ctx, current.RequestID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup request")
		}
		ownerID = request.CustomerID

		// The retired record keeps its status; only the active flag flips
		// and the reason is captured for the audit trail.
		updates := map[string]any{"is_active": false}
		if input.Reason != "" {
			updates["driver_notes"] = input.Reason
		}
		if err := repo.Update(ctx, current.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "retire assignment")
		}

		replacement := &models.Assignment{
			RequestID:        current.RequestID,
			DriverID:         newDriver.ID,
			AssignedByUserID: input.AdminUserID,
			Status:           enums.AssignmentStatusAssigned,
			IsActive:         true,
			AssignedAt:       time.Now().UTC(),
		}
		created, err = repo.Create(ctx, replacement)
		if err != nil {
			if db.IsUniqueViolation(err, activeConstraint) {
				return pkgerrors.New(pkgerrors.CodeConflict, "request already has an active assignment")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create replacement assignment")
		}

		if err := requestsRepo.UpdateStatus(ctx, current.RequestID, enums.RequestStatusAssigned, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update request status")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	cancelledMessage := "Your assignment was reassigned to another driver"
	if input.Reason != "" {
		cancelledMessage = "Your assignment was reassigned: " + input.Reason
	}
	s.notifier.SendToUser(ctx, oldDriverUserID, notifications.Payload{
		Title:             "Assignment Cancelled",
		Message:           cancelledMessage,
		Type:              enums.NotificationTypeAssignmentAlert,
		RelatedEntityType: "assignment",
		RelatedEntityID:   input.AssignmentID,
	})
	s.notifier.SendToUser(ctx, ownerID, notifications.Payload{
		Title:             "Driver Changed",
		Message:           "A different driver will handle your pickup",
		Type:              enums.NotificationTypePickupAlert,
		RelatedEntityType: "pickup_request",
		RelatedEntityID:   created.RequestID,
	})
	s.notifier.SendToUser(ctx, newDriverUserID, notifications.Payload{
		Title:             "New Assignment",
		Message:           "You have been assigned a pickup",
		Type:              enums.NotificationTypeAssignmentAlert,
		RelatedEntityType: "assignment",
		RelatedEntityID:   created.ID,
	})

	return toView(created), nil
}

func (s *service) GetByID(ctx context.Context, assignmentID uuid.UUID) (*AssignmentView, error) {
	if assignmentID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "assignment id required")
	}
	assignment, err := s.repo.FindByID(ctx, assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}
	return toView(assignment), nil
}

func (s *service) ListByDriver(ctx context.Context, driverID uuid.UUID, params pagination.Params, filters DriverAssignmentFilters) (*AssignmentList, error) {
	if driverID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "driver id required")
	}
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid status filter")
	}
	list, err := s.repo.ListByDriver(ctx, driverID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list driver assignments")
	}
	return list, nil
}

// ListByDriverUser resolves the caller's driver profile before listing.
func (s *service) ListByDriverUser(ctx context.Context, driverUserID uuid.UUID, params pagination.Params, filters DriverAssignmentFilters) (*AssignmentList, error) {
	if driverUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	profile, err := s.drivers.FindByUserID(ctx, driverUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "caller has no driver profile")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
	}
	return s.ListByDriver(ctx, profile.ID, params, filters)
}

func (s *service) HistoryByRequest(ctx context.Context, requestID uuid.UUID) ([]AssignmentView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	rows, err := s.repo.ListByRequest(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list request assignments")
	}
	views := make([]AssignmentView, 0, len(rows))
	for i := range rows {
		views = append(views, *toView(&rows[i]))
	}
	return views, nil
}

// ActiveByRequest returns nil without error when the request has no active
// assignment.
func (s *service) ActiveByRequest(ctx context.Context, requestID uuid.UUID) (*AssignmentView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	assignment, err := s.repo.FindActiveByRequest(ctx, requestID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active assignment")
	}
	if assignment == nil {
		return nil, nil
	}
	return toView(assignment), nil
}

// loadOwnedAssignment resolves the caller's driver profile and verifies it
// owns the assignment.
func (s *service) loadOwnedAssignment(ctx context.Context, tx *gorm.DB, assignmentID, driverUserID uuid.UUID) (*models.Assignment, error) {
	repo := s.repo.WithTx(tx)
	driversRepo := s.drivers.WithTx(tx)

	assignment, err := repo.FindByID(ctx, assignmentID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "assignment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load assignment")
	}

	profile, err := driversRepo.FindByUserID(ctx, driverUserID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "assignment does not belong to caller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load driver profile")
	}
	if assignment.DriverID != profile.ID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "assignment does not belong to caller")
	}
	return assignment, nil
}
