package controllers

import (
	"net/http"
	"strings"

	"github.com/loopcycle/loopcycle-backend/api/responses"
	"github.com/loopcycle/loopcycle-backend/api/validators"
	"github.com/loopcycle/loopcycle-backend/internal/assignments"
	"github.com/loopcycle/loopcycle-backend/internal/drivers"
	"github.com/loopcycle/loopcycle-backend/pkg/enums"
	pkgerrors "github.com/loopcycle/loopcycle-backend/pkg/errors"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

type respondAssignmentBody struct {
	Action string  `json:"action" validate:"required,oneof=accept reject"`
	Notes  *string `json:"notes" validate:"omitempty,max=500"`
}

type completeAssignmentBody struct {
	Notes *string `json:"notes" validate:"omitempty,max=500"`
}

type setAvailabilityBody struct {
	Available *bool `json:"available" validate:"required"`
}

// RespondAssignment records the driver's accept or reject decision on their
// pending assignment.
func RespondAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverUserID, err := callerUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body respondAssignmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		action, err := enums.ParseDriverAction(body.Action)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		view, err := svc.Respond(r.Context(), assignments.RespondInput{
			AssignmentID: assignmentID,
			Action:       action,
			Notes:        body.Notes,
			DriverUserID: driverUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// CompleteAssignment closes out an in-progress pickup.
func CompleteAssignment(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverUserID, err := callerUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		assignmentID, err := pathUUID(r, "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body completeAssignmentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Complete(r.Context(), assignments.CompleteInput{
			AssignmentID: assignmentID,
			Notes:        body.Notes,
			DriverUserID: driverUserID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// ListMyAssignments returns the caller's assignments, optionally filtered by
// status, newest first.
func ListMyAssignments(svc assignments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverUserID, err := callerUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var filters assignments.DriverAssignmentFilters
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status, err := enums.ParseAssignmentStatus(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid status filter"))
				return
			}
			filters.Status = &status
		}

		list, err := svc.ListByDriverUser(r.Context(), driverUserID, pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(r.URL.Query().Get("cursor")),
		}, filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

// SetAvailability toggles whether the calling driver can receive new
// assignments.
func SetAvailability(svc drivers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		driverUserID, err := callerUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setAvailabilityBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.SetAvailability(r.Context(), drivers.SetAvailabilityInput{
			DriverUserID: driverUserID,
			Available:    *body.Available,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"available": *body.Available})
	}
}
