package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/loopcycle/loopcycle-backend/internal/assignments"
	"github.com/loopcycle/loopcycle-backend/internal/drivers"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

type testAssignmentsService struct {
	assignFn           func(ctx context.Context, input assignments.AssignInput) (*assignments.AssignmentView, error)
	respondFn          func(ctx context.Context, input assignments.RespondInput) (*assignments.AssignmentView, error)
	completeFn         func(ctx context.Context, input assignments.CompleteInput) (*assignments.AssignmentView, error)
	reassignFn         func(ctx context.Context, input assignments.ReassignInput) (*assignments.AssignmentView, error)
	getByIDFn          func(ctx context.Context, assignmentID uuid.UUID) (*assignments.AssignmentView, error)
	listByDriverUserFn func(ctx context.Context, driverUserID uuid.UUID, params pagination.Params, filters assignments.DriverAssignmentFilters) (*assignments.AssignmentList, error)
	historyFn          func(ctx context.Context, requestID uuid.UUID) ([]assignments.AssignmentView, error)
	activeFn           func(ctx context.Context, requestID uuid.UUID) (*assignments.AssignmentView, error)
}

func (s *testAssignmentsService) AssignDriver(ctx context.Context, input assignments.AssignInput) (*assignments.AssignmentView, error) {
	if s.assignFn != nil {
		return s.assignFn(ctx, input)
	}
	return &assignments.AssignmentView{}, nil
}

func (s *testAssignmentsService) Respond(ctx context.Context, input assignments.RespondInput) (*assignments.AssignmentView, error) {
	if s.respondFn != nil {
		return s.respondFn(ctx, input)
	}
	return &assignments.AssignmentView{}, nil
}

func (s *testAssignmentsService) Complete(ctx context.Context, input assignments.CompleteInput) (*assignments.AssignmentView, error) {
	if s.completeFn != nil {
		return s.completeFn(ctx, input)
	}
	return &assignments.AssignmentView{}, nil
}

func (s *testAssignmentsService) Reassign(ctx context.Context, input assignments.ReassignInput) (*assignments.AssignmentView, error) {
	if s.reassignFn != nil {
		return s.reassignFn(ctx, input)
	}
	return &assignments.AssignmentView{}, nil
}

func (s *testAssignmentsService) GetByID(ctx context.Context, assignmentID uuid.UUID) (*assignments.AssignmentView, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, assignmentID)
	}
	return &assignments.AssignmentView{}, nil
}

func (s *testAssignmentsService) ListByDriver(ctx context.Context, driverID uuid.UUID, params pagination.Params, filters assignments.DriverAssignmentFilters) (*assignments.AssignmentList, error) {
	return &assignments.AssignmentList{}, nil
}

func (s *testAssignmentsService) ListByDriverUser(ctx context.Context, driverUserID uuid.UUID, params pagination.Params, filters assignments.DriverAssignmentFilters) (*assignments.AssignmentList, error) {
	if s.listByDriverUserFn != nil {
		return s.listByDriverUserFn(ctx, driverUserID, params, filters)
	}
	return &assignments.AssignmentList{}, nil
}

func (s *testAssignmentsService) HistoryByRequest(ctx context.Context, requestID uuid.UUID) ([]assignments.AssignmentView, error) {
	if s.historyFn != nil {
		return s.historyFn(ctx, requestID)
	}
	return nil, nil
}

func (s *testAssignmentsService) ActiveByRequest(ctx context.Context, requestID uuid.UUID) (*assignments.AssignmentView, error) {
	if s.activeFn != nil {
		return s.activeFn(ctx, requestID)
	}
	return nil, nil
}

type testDriversService struct {
	listAvailableFn   func(ctx context.Context) ([]drivers.AvailableDriver, error)
	setAvailabilityFn func(ctx context.Context, input drivers.SetAvailabilityInput) error
}

func (s *testDriversService) ListAvailableDrivers(ctx context.Context) ([]drivers.AvailableDriver, error) {
	if s.listAvailableFn != nil {
		return s.listAvailableFn(ctx)
	}
	return nil, nil
}

func (s *testDriversService) SetAvailability(ctx context.Context, input drivers.SetAvailabilityInput) error {
	if s.setAvailabilityFn != nil {
		return s.setAvailabilityFn(ctx, input)
	}
	return nil
}

func TestAssignDriverSuccess(t *testing.T) {
	adminID := uuid.New()
	requestID := uuid.New()
	driverProfileID := uuid.New()
	svc := &testAssignmentsService{
		assignFn: func(ctx context.Context, input assignments.AssignInput) (*assignments.AssignmentView, error) {
			if input.RequestID != requestID {
				t.Fatalf("unexpected request %s", input.RequestID)
			}
			if input.DriverProfileID != driverProfileID {
				t.Fatalf("unexpected driver %s", input.DriverProfileID)
			}
			if input.AdminUserID != adminID {
				t.Fatalf("unexpected admin %s", input.AdminUserID)
			}
			return &assignments.AssignmentView{ID: uuid.New(), RequestID: requestID}, nil
		},
	}

	body := `{"request_id":"` + requestID.String() + `","driver_profile_id":"` + driverProfileID.String() + `"}`
	req := authedRequest(http.MethodPost, "/api/v1/admin/assignments", body, adminID)
	resp := httptest.NewRecorder()
	AssignDriver(svc, testLogger())(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAssignDriverRejectsMalformedIDs(t *testing.T) {
	body := `{"request_id":"not-a-uuid","driver_profile_id":"also-bad"}`
	req := authedRequest(http.MethodPost, "/api/v1/admin/assignments", body, uuid.New())
	resp := httptest.NewRecorder()
	AssignDriver(&testAssignmentsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestReassignDriverSuccess(t *testing.T) {
	adminID := uuid.New()
	assignmentID := uuid.New()
	newDriverProfileID := uuid.New()
	svc := &testAssignmentsService{
		reassignFn: func(ctx context.Context, input assignments.ReassignInput) (*assignments.AssignmentView, error) {
			if input.AssignmentID != assignmentID {
				t.Fatalf("unexpected assignment %s", input.AssignmentID)
			}
			if input.NewDriverProfileID != newDriverProfileID {
				t.Fatalf("unexpected driver %s", input.NewDriverProfileID)
			}
			if input.Reason != "driver overloaded" {
				t.Fatalf("unexpected reason %q", input.Reason)
			}
			return &assignments.AssignmentView{ID: uuid.New()}, nil
		},
	}

	body := `{"new_driver_profile_id":"` + newDriverProfileID.String() + `","reason":"driver overloaded"}`
	req := authedRequest(http.MethodPost, "/api/v1/admin/assignments/"+assignmentID.String()+"/reassign", body, adminID)
	req = addRouteParam(req, "id", assignmentID.String())
	resp := httptest.NewRecorder()
	ReassignDriver(svc, testLogger())(resp, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}

func TestRequestActiveAssignmentNullWhenUnassigned(t *testing.T) {
	requestID := uuid.New()
	req := authedRequest(http.MethodGet, "/api/v1/requests/"+requestID.String()+"/assignments/active", "", uuid.New())
	req = addRouteParam(req, "id", requestID.String())
	resp := httptest.NewRecorder()
	RequestActiveAssignment(&testAssignmentsService{}, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data map[string]json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if string(envelope.Data["assignment"]) != "null" {
		t.Fatalf("expected null assignment, got %s", envelope.Data["assignment"])
	}
}

func TestRequestAssignmentHistoryReturnsAll(t *testing.T) {
	requestID := uuid.New()
	svc := &testAssignmentsService{
		historyFn: func(ctx context.Context, rid uuid.UUID) ([]assignments.AssignmentView, error) {
			if rid != requestID {
				t.Fatalf("unexpected request %s", rid)
			}
			return []assignments.AssignmentView{{ID: uuid.New()}, {ID: uuid.New()}}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/requests/"+requestID.String()+"/assignments", "", uuid.New())
	req = addRouteParam(req, "id", requestID.String())
	resp := httptest.NewRecorder()
	RequestAssignmentHistory(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Assignments []assignments.AssignmentView `json:"assignments"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Assignments) != 2 {
		t.Fatalf("expected 2 assignments, got %d", len(envelope.Data.Assignments))
	}
}

func TestAvailableDriversSuccess(t *testing.T) {
	svc := &testDriversService{
		listAvailableFn: func(ctx context.Context) ([]drivers.AvailableDriver, error) {
			return []drivers.AvailableDriver{{ID: uuid.New(), FirstName: "Sam"}}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/admin/drivers/available", "", uuid.New())
	resp := httptest.NewRecorder()
	AvailableDrivers(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data struct {
			Drivers []drivers.AvailableDriver `json:"drivers"`
		} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if len(envelope.Data.Drivers) != 1 {
		t.Fatalf("expected 1 driver, got %d", len(envelope.Data.Drivers))
	}
}
