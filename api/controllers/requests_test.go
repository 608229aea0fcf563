package controllers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/loopcycle/loopcycle-backend/api/middleware"
	"github.com/loopcycle/loopcycle-backend/internal/requests"
	"github.com/loopcycle/loopcycle-backend/pkg/logger"
	"github.com/loopcycle/loopcycle-backend/pkg/pagination"
)

type testRequestsService struct {
	createFn         func(ctx context.Context, input requests.CreateInput) (*requests.RequestView, error)
	approveFn        func(ctx context.Context, requestID, adminUserID uuid.UUID) (*requests.RequestView, error)
	cancelFn         func(ctx context.Context, requestID, customerID uuid.UUID) (*requests.RequestView, error)
	getByIDFn        func(ctx context.Context, requestID uuid.UUID) (*requests.RequestView, error)
	listByCustomerFn func(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*requests.RequestList, error)
}

func (s *testRequestsService) Create(ctx context.Context, input requests.CreateInput) (*requests.RequestView, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &requests.RequestView{}, nil
}

func (s *testRequestsService) Approve(ctx context.Context, requestID, adminUserID uuid.UUID) (*requests.RequestView, error) {
	if s.approveFn != nil {
		return s.approveFn(ctx, requestID, adminUserID)
	}
	return &requests.RequestView{}, nil
}

func (s *testRequestsService) Cancel(ctx context.Context, requestID, customerID uuid.UUID) (*requests.RequestView, error) {
	if s.cancelFn != nil {
		return s.cancelFn(ctx, requestID, customerID)
	}
	return &requests.RequestView{}, nil
}

func (s *testRequestsService) GetByID(ctx context.Context, requestID uuid.UUID) (*requests.RequestView, error) {
	if s.getByIDFn != nil {
		return s.getByIDFn(ctx, requestID)
	}
	return &requests.RequestView{}, nil
}

func (s *testRequestsService) ListByCustomer(ctx context.Context, customerID uuid.UUID, params pagination.Params) (*requests.RequestList, error) {
	if s.listByCustomerFn != nil {
		return s.listByCustomerFn(ctx, customerID, params)
	}
	return &requests.RequestList{}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func addRouteParam(req *http.Request, key, value string) *http.Request {
	routeCtx := chi.NewRouteContext()
	routeCtx.URLParams.Add(key, value)
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func authedRequest(method, target, body string, userID uuid.UUID) *http.Request {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	return req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
}

func TestCreateRequestSuccess(t *testing.T) {
	customerID := uuid.New()
	addressID := uuid.New()
	called := false
	svc := &testRequestsService{
		createFn: func(ctx context.Context, input requests.CreateInput) (*requests.RequestView, error) {
			called = true
			if input.CustomerID != customerID {
				t.Fatalf("unexpected customer %s", input.CustomerID)
			}
			if input.AddressID != addressID {
				t.Fatalf("unexpected address %s", input.AddressID)
			}
			if input.MaterialType != "plastic" {
				t.Fatalf("unexpected material %q", input.MaterialType)
			}
			if !input.EstimatedWeight.Equal(decimal.NewFromFloat(12.5)) {
				t.Fatalf("unexpected weight %s", input.EstimatedWeight)
			}
			return &requests.RequestView{ID: uuid.New()}, nil
		},
	}

	body := `{"address_id":"` + addressID.String() + `","material_type":"plastic","estimated_weight":12.5}`
	req := authedRequest(http.MethodPost, "/api/v1/requests", body, customerID)
	resp := httptest.NewRecorder()
	CreateRequest(svc, testLogger())(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
	if !called {
		t.Fatal("expected service called")
	}
}

func TestCreateRequestMissingMaterial(t *testing.T) {
	body := `{"address_id":"` + uuid.NewString() + `","estimated_weight":3}`
	req := authedRequest(http.MethodPost, "/api/v1/requests", body, uuid.New())
	resp := httptest.NewRecorder()
	CreateRequest(&testRequestsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCreateRequestMissingUser(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/requests", strings.NewReader(`{}`))
	resp := httptest.NewRecorder()
	CreateRequest(&testRequestsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestListMyRequestsPassesPagination(t *testing.T) {
	customerID := uuid.New()
	svc := &testRequestsService{
		listByCustomerFn: func(ctx context.Context, cid uuid.UUID, params pagination.Params) (*requests.RequestList, error) {
			if cid != customerID {
				t.Fatalf("unexpected customer %s", cid)
			}
			if params.Limit != 5 {
				t.Fatalf("unexpected limit %d", params.Limit)
			}
			if params.Cursor != "abc" {
				t.Fatalf("unexpected cursor %q", params.Cursor)
			}
			return &requests.RequestList{NextCursor: "next"}, nil
		},
	}

	req := authedRequest(http.MethodGet, "/api/v1/requests?limit=5&cursor=abc", "", customerID)
	resp := httptest.NewRecorder()
	ListMyRequests(svc, testLogger())(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	var envelope struct {
		Data requests.RequestList `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if envelope.Data.NextCursor != "next" {
		t.Fatalf("expected cursor in response, got %q", envelope.Data.NextCursor)
	}
}

func TestCancelRequestInvalidID(t *testing.T) {
	req := authedRequest(http.MethodPost, "/api/v1/requests/bad/cancel", "", uuid.New())
	req = addRouteParam(req, "id", "bad")
	resp := httptest.NewRecorder()
	CancelRequest(&testRequestsService{}, testLogger())(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestApproveRequestSuccess(t *testing.T) {
	adminID := uuid.New()
	requestID := uuid.New()
	svc := &testRequestsService{
		approveFn: func(ctx context.Context, rid, aid uuid.UUID) (*requests.RequestView, error) {
			if rid != requestID {
				t.Fatalf("unexpected request %s", rid)
			}
			if aid != adminID {
				t.Fatalf("unexpected admin %s", aid)
			}
			return &requests.RequestView{ID: requestID}, nil
		},
	}

	req := authedRequest(http.MethodPost, "/api/v1/admin/requests/"+requestID.String()+"/approve", "", adminID)
	req = addRouteParam(req, "id", requestID.String())
	resp := httptest.NewRecorder()
	ApproveRequest(svc, testLogger())(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d: %s", resp.Code, resp.Body.String())
	}
}
