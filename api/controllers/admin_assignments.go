package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/loopcycle/loopcycle-backend/api/responses"
	"github.com/loopcycle/loopcycle-backend/api/validators"
	"github.com/loopcycle/loopcycle-backend/internal/assignments"
	"github.com/loopcycle/loopcycle-backend/internal/drivers"
	pkgerrors "github.com/loopcycle/loopcycle-backend/pkg/errors"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
)

type assignDriverBody struct {
	RequestID       string `json:"request_id" validate:"required,uuid"`
	DriverProfileID string `json:"driver_profile_id" validate:"required,uuid"`
}

type reassignDriverBody struct {
	NewDriverProfileID string `json:"new_driver_profile_id" validate:"required,uuid"`
	Reason             string `json:"reason" validate:"omitempty,max=500"`
}

// AssignDriver pairs a pending pickup request with an available driver.
func AssignDriver(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := callerUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body assignDriverBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		requestID, err := uuid.Parse(body.RequestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid request id"))
			return
		}
		driverProfileID, err := uuid.Parse(body.DriverProfileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver profile id"))
			return
		}

		view, err := svc.AssignDriver(r.Context(), assignments.AssignInput{
			RequestID:       requestID,
			DriverProfileID: driverProfileID,
			AdminUserID:     adminID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// ReassignDriver retires the active assignment and hands the request to a
// different driver. The retired record stays in the request's history.
func ReassignDriver(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		adminID, err := callerUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body reassignDriverBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		newDriverProfileID, err := uuid.Parse(body.NewDriverProfileID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid driver profile id"))
			return
		}

		view, err := svc.Reassign(r.Context(), assignments.ReassignInput{
			AssignmentID:       assignmentID,
			NewDriverProfileID: newDriverProfileID,
			AdminUserID:        adminID,
			Reason:             validators.SanitizeString(body.Reason, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// AssignmentDetail returns a single assignment record.
func AssignmentDetail(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assignmentID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetByID(r.Context(), assignmentID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// RequestAssignmentHistory returns every assignment a request has ever had,
// newest first.
func RequestAssignmentHistory(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		history, err := svc.HistoryByRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignments": history})
	}
}

// RequestActiveAssignment returns the request's current assignment, or null
// when no driver is assigned.
func RequestActiveAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.ActiveByRequest(r.Context(), requestID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"assignment": view})
	}
}

// AvailableDrivers lists driver profiles currently open for assignment.
func AvailableDrivers(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.ListAvailableDrivers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"drivers": list})
	}
}
