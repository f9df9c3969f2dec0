package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/domain"
	"github.com/viabcheck/eco-backend/internal/repo"
	"github.com/viabcheck/eco-backend/internal/services"
)

// ---- stubs to satisfy handlers.New() dependencies ----

type stubBuildingSvc struct {
	getBySlug    func(slug string) (*services.BuildingDetail, error)
	search       func(query string, limit int) []domain.BuildingSummary
	streets      func(postalCode string) []string
	houseNumbers func(postalCode, street string) []string
	list         func(postalCode, street string) []domain.BuildingSummary
	measures     func(slug string, costFactor, heatPrice float64) ([]domain.MeasureResult, error)
}

func (s stubBuildingSvc) GetBySlug(slug string) (*services.BuildingDetail, error) {
	if s.getBySlug != nil {
		return s.getBySlug(slug)
	}
	return nil, nil
}

func (s stubBuildingSvc) Search(query string, limit int) []domain.BuildingSummary {
	if s.search != nil {
		return s.search(query, limit)
	}
	return nil
}

func (s stubBuildingSvc) Streets(postalCode string) []string {
	if s.streets != nil {
		return s.streets(postalCode)
	}
	return nil
}

func (s stubBuildingSvc) HouseNumbers(postalCode, street string) []string {
	if s.houseNumbers != nil {
		return s.houseNumbers(postalCode, street)
	}
	return nil
}

func (s stubBuildingSvc) List(postalCode, street string) []domain.BuildingSummary {
	if s.list != nil {
		return s.list(postalCode, street)
	}
	return nil
}

func (s stubBuildingSvc) MeasuresForSlug(slug string, costFactor, heatPrice float64) ([]domain.MeasureResult, error) {
	if s.measures != nil {
		return s.measures(slug, costFactor, heatPrice)
	}
	return nil, nil
}

type stubCalcSvc struct {
	run func(buildingID, subType string, ov services.CalculatorOverrides) (*domain.CalculatorResult, error)
}

func (s stubCalcSvc) Run(buildingID, subType string, ov services.CalculatorOverrides) (*domain.CalculatorResult, error) {
	if s.run != nil {
		return s.run(buildingID, subType, ov)
	}
	return nil, nil
}

type stubUserSvc struct {
	create  func(in services.CreateUserInput) (*domain.User, error)
	get     func(id string) (*domain.User, error)
	profile func(id string, p repo.UserProfile) (*domain.User, error)
}

func (s stubUserSvc) Create(in services.CreateUserInput) (*domain.User, error) {
	if s.create != nil {
		return s.create(in)
	}
	return nil, nil
}

func (s stubUserSvc) Get(id string) (*domain.User, error) {
	if s.get != nil {
		return s.get(id)
	}
	return nil, nil
}

func (s stubUserSvc) UpdateProfile(id string, p repo.UserProfile) (*domain.User, error) {
	if s.profile != nil {
		return s.profile(id, p)
	}
	return nil, nil
}

type stubRequestSvc struct {
	submit    func(userID, buildingID, status string) (*domain.Request, error)
	getByUser func(userID string) (*domain.Request, error)
	list      func(buildingID string) ([]domain.Request, error)
}

func (s stubRequestSvc) Submit(userID, buildingID, status string) (*domain.Request, error) {
	if s.submit != nil {
		return s.submit(userID, buildingID, status)
	}
	return nil, nil
}

func (s stubRequestSvc) GetByUser(userID string) (*domain.Request, error) {
	if s.getByUser != nil {
		return s.getByUser(userID)
	}
	return nil, nil
}

func (s stubRequestSvc) ListByBuilding(buildingID string) ([]domain.Request, error) {
	if s.list != nil {
		return s.list(buildingID)
	}
	return nil, nil
}

type stubRecSvc struct {
	generate func(ctx context.Context, buildingID string) (*domain.Recommendation, error)
	latest   func(buildingID string) (*domain.Recommendation, error)
}

func (s stubRecSvc) Generate(ctx context.Context, buildingID string) (*domain.Recommendation, error) {
	if s.generate != nil {
		return s.generate(ctx, buildingID)
	}
	return nil, nil
}

func (s stubRecSvc) Latest(buildingID string) (*domain.Recommendation, error) {
	if s.latest != nil {
		return s.latest(buildingID)
	}
	return nil, nil
}

func newStubHandlers(b stubBuildingSvc, c stubCalcSvc, u stubUserSvc, rq stubRequestSvc, rc stubRecSvc) *Handlers {
	return New(b, c, u, rq, rc)
}

func serve(h *Handlers, register func(*gin.Engine, *Handlers), method, path, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	register(r, h)
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	r.ServeHTTP(w, req)
	return w
}

// ---- tests ----

func TestGetBuilding_OK(t *testing.T) {
	want := &services.BuildingDetail{
		Building: domain.Building{ID: "b1", AddressSlug: "10317-landsberger-allee-36"},
	}
	h := newStubHandlers(stubBuildingSvc{
		getBySlug: func(slug string) (*services.BuildingDetail, error) {
			if slug != "10317-landsberger-allee-36" {
				t.Fatalf("slug = %q", slug)
			}
			return want, nil
		},
	}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/:slug", h.GetBuilding) },
		http.MethodGet, "/buildings/10317-landsberger-allee-36", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var got services.BuildingDetail
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json: %v", err)
	}
	if got.ID != "b1" || got.AddressSlug != want.AddressSlug {
		t.Fatalf("body = %+v", got)
	}
}

func TestGetBuilding_NotFound(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{
		getBySlug: func(string) (*services.BuildingDetail, error) {
			return nil, services.ErrBuildingNotFound
		},
	}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/:slug", h.GetBuilding) },
		http.MethodGet, "/buildings/unknown-slug", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d", w.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("json: %v", err)
	}
	if er.Code != ErrCodeNotFound {
		t.Fatalf("code = %q", er.Code)
	}
}

func TestSearchBuildings_PassesQueryAndLimit(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{
		search: func(query string, limit int) []domain.BuildingSummary {
			if query != "lands" || limit != 5 {
				t.Fatalf("query=%q limit=%d", query, limit)
			}
			return []domain.BuildingSummary{{ID: "b1"}}
		},
	}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/search", h.SearchBuildings) },
		http.MethodGet, "/buildings/search?q=lands&limit=5", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Results []domain.BuildingSummary `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Results) != 1 || body.Results[0].ID != "b1" {
		t.Fatalf("results = %+v", body.Results)
	}
}

func TestListStreets_RequiresPostalCode(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{
		streets: func(string) []string {
			t.Fatalf("service should not be called without postal_code")
			return nil
		},
	}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/streets", h.ListStreets) },
		http.MethodGet, "/buildings/streets", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListHouseNumbers_RequiresBothParams(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/numbers", h.ListHouseNumbers) },
		http.MethodGet, "/buildings/numbers?postal_code=10317", "")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}

func TestListBuildingMeasures_ErrorMappings(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not_found", services.ErrBuildingNotFound, http.StatusNotFound, ErrCodeNotFound},
		{"no_applicable", services.ErrNoApplicableMeasures, http.StatusUnprocessableEntity, ErrCodeNoApplicableMeasures},
		{"internal", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newStubHandlers(stubBuildingSvc{
				measures: func(string, float64, float64) ([]domain.MeasureResult, error) {
					return nil, tc.err
				},
			}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

			w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/:slug/measures", h.ListBuildingMeasures) },
				http.MethodGet, "/buildings/some-slug/measures", "")
			if w.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tc.wantStatus)
			}
			var er ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
				t.Fatalf("json: %v", err)
			}
			if er.Code != tc.wantCode {
				t.Fatalf("code = %q, want %q", er.Code, tc.wantCode)
			}
		})
	}
}

func TestListBuildingMeasures_PassesOverrides(t *testing.T) {
	h := newStubHandlers(stubBuildingSvc{
		measures: func(slug string, costFactor, heatPrice float64) ([]domain.MeasureResult, error) {
			if slug != "s1" || costFactor != 0.2 || heatPrice != 0.15 {
				t.Fatalf("slug=%q costFactor=%v heatPrice=%v", slug, costFactor, heatPrice)
			}
			return []domain.MeasureResult{{MeasureID: "m1"}}, nil
		},
	}, stubCalcSvc{}, stubUserSvc{}, stubRequestSvc{}, stubRecSvc{})

	w := serve(h, func(r *gin.Engine, h *Handlers) { r.GET("/buildings/:slug/measures", h.ListBuildingMeasures) },
		http.MethodGet, "/buildings/s1/measures?cost_factor=0.2&heat_price=0.15", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var body MeasureListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Slug != "s1" || len(body.Measures) != 1 {
		t.Fatalf("body = %+v", body)
	}
}
