package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/domain"
	"github.com/viabcheck/eco-backend/internal/services"
)

func requestRoutes(r *gin.Engine, h *Handlers) {
	r.POST("/requests", h.SubmitRequest)
	r.GET("/users/:id/request", h.GetUserRequest)
	r.GET("/requests", h.ListRequests)
}

func TestSubmitRequest_OK(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		submit: func(userID, buildingID, status string) (*domain.Request, error) {
			if userID != "u1" || buildingID != "b1" || status != "" {
				t.Fatalf("userID=%q buildingID=%q status=%q", userID, buildingID, status)
			}
			return &domain.Request{ID: "r1", UserID: userID, BuildingID: buildingID, Status: "pending"}, nil
		},
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodPost, "/requests", `{"user_id":"u1","building_id":"b1"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}
	var r domain.Request
	if err := json.Unmarshal(w.Body.Bytes(), &r); err != nil {
		t.Fatalf("json: %v", err)
	}
	if r.ID != "r1" || r.Status != "pending" {
		t.Fatalf("request = %+v", r)
	}
}

func TestSubmitRequest_BindingError(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		submit: func(string, string, string) (*domain.Request, error) {
			t.Fatalf("service should not be called on binding error")
			return nil, nil
		},
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodPost, "/requests", `{"user_id":"u1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestSubmitRequest_UnknownUser(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		submit: func(string, string, string) (*domain.Request, error) {
			return nil, services.ErrUserNotFound
		},
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodPost, "/requests", `{"user_id":"nope","building_id":"b1"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestGetUserRequest_NotFound(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		getByUser: func(string) (*domain.Request, error) { return nil, services.ErrRequestNotFound },
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodGet, "/users/u1/request", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListRequests_RequiresFilter(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		list: func(string) ([]domain.Request, error) {
			t.Fatalf("service should not be called without a filter")
			return nil, nil
		},
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodGet, "/requests", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListRequests_ByUser(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		getByUser: func(userID string) (*domain.Request, error) {
			if userID != "u1" {
				t.Fatalf("userID = %q", userID)
			}
			return &domain.Request{ID: "r1", UserID: userID}, nil
		},
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodGet, "/requests?user_id=u1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Requests []domain.Request `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Requests) != 1 || body.Requests[0].UserID != "u1" {
		t.Fatalf("requests = %+v", body.Requests)
	}
}

func TestListRequests_ByUser_NoRequestYieldsEmptyList(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		getByUser: func(string) (*domain.Request, error) { return nil, services.ErrRequestNotFound },
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodGet, "/requests?user_id=u-none", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Requests []domain.Request `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Requests) != 0 {
		t.Fatalf("requests = %+v", body.Requests)
	}
}

func TestListRequests_OK(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{
		list: func(buildingID string) ([]domain.Request, error) {
			return []domain.Request{{ID: "r1", BuildingID: buildingID}}, nil
		},
	}, stubRecSvc{})

	w := serve(h, requestRoutes, http.MethodGet, "/requests?building_id=b1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Requests []domain.Request `json:"requests"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Requests) != 1 || body.Requests[0].BuildingID != "b1" {
		t.Fatalf("requests = %+v", body.Requests)
	}
}
