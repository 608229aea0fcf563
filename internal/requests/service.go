package requests

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/loopcycle/loopcycle-backend/pkg/db/models"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	pkgerrors "github.com/loopcycle/loopcycle-backend/pkg/errors"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

// Service exposes pickup-request lifecycle operations outside the
// assignment flow: intake, admin approval, and customer cancellation.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*RequestView, error)
	Approve(ctx context.Context, requestID, adminUserID uuid.UUID) (*RequestView, error)
	Cancel(ctx context.Context, requestID, customerID uuid.UUID) (*RequestView, error)
	GetByID(ctx context.Context, requestID uuid.UUID) (*RequestView, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*RequestList, error)
}

type service struct {
	repo Repository
}

// NewService builds the pickup request service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "requests repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*RequestView, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.AddressID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "address id required")
	}
	if strings.TrimSpace(input.MaterialType) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "material type required")
	}
	if input.EstimatedWeight.LessThan(decimal.Zero) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated weight cannot be negative")
	}

	request := &models.PickupRequest{
		CustomerID:      input.CustomerID,
		AddressID:       input.AddressID,
		MaterialType:    strings.TrimSpace(input.MaterialType),
		EstimatedWeight: input.EstimatedWeight,
		Status:          enums.RequestStatusWaiting,
		ScheduledFor:    input.ScheduledFor,
		Notes:           input.Notes,
	}
	created, err := s.repo.Create(ctx, request)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create pickup request")
	}
	return toView(created), nil
}

func (s *service) Approve(ctx context.Context, requestID, adminUserID uuid.UUID) (*RequestView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if adminUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != enums.RequestStatusWaiting {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "only waiting requests can be approved")
	}

	if err := s.repo.UpdateStatus(ctx, requestID, enums.RequestStatusPending, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "approve request")
	}
	request.Status = enums.RequestStatusPending
	return toView(request), nil
}

func (s *service) Cancel(ctx context.Context, requestID, customerID uuid.UUID) (*RequestView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}

	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.CustomerID != customerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "request does not belong to caller")
	}
	switch request.Status {
	case enums.RequestStatusWaiting, enums.RequestStatusPending:
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "request can no longer be cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, requestID, enums.RequestStatusCancelled, nil); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel request")
	}
	request.Status = enums.RequestStatusCancelled
	return toView(request), nil
}

func (s *service) GetByID(ctx context.Context, requestID uuid.UUID) (*RequestView, error) {
	if requestID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "request id required")
	}
	request, err := s.loadRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return toView(request), nil
}

func (s *service) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*RequestList, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	list, err := s.repo.ListByCustomer(ctx, customerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list pickup requests")
	}
	return list, nil
}

func (s *service) loadRequest(ctx context.Context, requestID uuid.UUID) (*models.PickupRequest, error) {
	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "pickup request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load pickup request")
	}
	return request, nil
}
