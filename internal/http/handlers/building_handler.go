// Building HTTP handlers.
//
// This file exposes REST endpoints for the building catalog:
//   - GET /buildings                    (list by postal code + street)
//   - GET /buildings/search             (autocomplete)
//   - GET /buildings/streets            (address cascade: streets)
//   - GET /buildings/numbers            (address cascade: house numbers)
//   - GET /buildings/{slug}             (single building with prefill)
//   - GET /buildings/{slug}/measures    (applicable measures with economics)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses.
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/domain"
	"github.com/viabcheck/eco-backend/internal/repo"
	"github.com/viabcheck/eco-backend/internal/services"
	"github.com/viabcheck/eco-backend/internal/utils"
)

//
// Service contracts
//

// BuildingService defines catalog lookups consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use.
type BuildingService interface {
	// GetBySlug resolves a building by its address slug, with prefill values.
	GetBySlug(slug string) (*services.BuildingDetail, error)
	// Search returns summaries matching a free-text query.
	Search(query string, limit int) []domain.BuildingSummary
	// Streets lists the street names for a postal code, sorted.
	Streets(postalCode string) []string
	// HouseNumbers lists the house numbers for a postal code and street.
	HouseNumbers(postalCode, street string) []string
	// List returns summaries for a postal code and street.
	List(postalCode, street string) []domain.BuildingSummary
	// MeasuresForSlug computes the applicable measure economics for a building.
	MeasuresForSlug(slug string, costFactor, heatPrice float64) ([]domain.MeasureResult, error)
}

// CalculatorService defines the window retrofit calculation.
type CalculatorService interface {
	Run(buildingID, subType string, ov services.CalculatorOverrides) (*domain.CalculatorResult, error)
}

// UserService defines user registration and profile operations.
type UserService interface {
	Create(in services.CreateUserInput) (*domain.User, error)
	Get(id string) (*domain.User, error)
	UpdateProfile(id string, profile repo.UserProfile) (*domain.User, error)
}

// RequestService defines retrofit interest request operations.
type RequestService interface {
	Submit(userID, buildingID, status string) (*domain.Request, error)
	GetByUser(userID string) (*domain.Request, error)
	ListByBuilding(buildingID string) ([]domain.Request, error)
}

// RecommendationService defines recommendation generation and retrieval.
type RecommendationService interface {
	Generate(ctx context.Context, buildingID string) (*domain.Recommendation, error)
	Latest(buildingID string) (*domain.Recommendation, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints of the public API. It depends on
// abstract service interfaces to keep transport concerns separate from
// business logic.
type Handlers struct {
	buildings BuildingService
	calc      CalculatorService
	users     UserService
	requests  RequestService
	recs      RecommendationService
}

// New constructs a Handlers instance bound to the given services.
func New(buildings BuildingService, calc CalculatorService, users UserService, requests RequestService, recs RecommendationService) *Handlers {
	return &Handlers{
		buildings: buildings,
		calc:      calc,
		users:     users,
		requests:  requests,
		recs:      recs,
	}
}

//
// DTOs
//

// MeasureListResponse wraps the computed measure economics for a building.
type MeasureListResponse struct {
	Slug     string                 `json:"address_slug"`
	Measures []domain.MeasureResult `json:"measures"`
}

//
// Handlers
//

// GetBuilding returns a single building by address slug, enriched with
// calculator prefill values.
//
// GET /buildings/{slug}
func (h *Handlers) GetBuilding(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	if slug == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "address slug required")
		return
	}
	b, err := h.buildings.GetBySlug(slug)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, b)
}

// SearchBuildings returns summaries matching the query parameter ("query",
// with "q" accepted as a shorthand).
//
// GET /buildings/search?query=landsberger&limit=10
func (h *Handlers) SearchBuildings(c *gin.Context) {
	q := c.Query("query")
	if q == "" {
		q = c.Query("q")
	}
	limit := utils.AtoiDefault(c.Query("limit"), 0)
	ok(c, http.StatusOK, gin.H{"results": h.buildings.Search(q, limit)})
}

// ListStreets returns the street names for a postal code.
//
// GET /buildings/streets?postal_code=10317
func (h *Handlers) ListStreets(c *gin.Context) {
	pc := strings.TrimSpace(c.Query("postal_code"))
	if pc == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "postal_code required")
		return
	}
	ok(c, http.StatusOK, gin.H{"postal_code": pc, "streets": h.buildings.Streets(pc)})
}

// ListHouseNumbers returns the house numbers for a postal code and street.
//
// GET /buildings/numbers?postal_code=10317&street=Landsberger%20Allee
func (h *Handlers) ListHouseNumbers(c *gin.Context) {
	pc := strings.TrimSpace(c.Query("postal_code"))
	street := strings.TrimSpace(c.Query("street"))
	if pc == "" || street == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "postal_code and street required")
		return
	}
	ok(c, http.StatusOK, gin.H{
		"postal_code":   pc,
		"street":        street,
		"house_numbers": h.buildings.HouseNumbers(pc, street),
	})
}

// ListBuildings returns summaries for every building at a postal code and
// street.
//
// GET /buildings?postal_code=10317&street=Landsberger%20Allee
func (h *Handlers) ListBuildings(c *gin.Context) {
	pc := strings.TrimSpace(c.Query("postal_code"))
	street := strings.TrimSpace(c.Query("street"))
	if pc == "" || street == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "postal_code and street required")
		return
	}
	ok(c, http.StatusOK, gin.H{"buildings": h.buildings.List(pc, street)})
}

// ListBuildingMeasures computes the applicable measures and their economics
// for a building. cost_factor and heat_price query parameters override the
// calculation defaults when positive.
//
// GET /buildings/{slug}/measures?cost_factor=0.14&heat_price=0.12
func (h *Handlers) ListBuildingMeasures(c *gin.Context) {
	slug := strings.TrimSpace(c.Param("slug"))
	costFactor := utils.FloatDefault(c.Query("cost_factor"), 0)
	heatPrice := utils.FloatDefault(c.Query("heat_price"), 0)

	results, err := h.buildings.MeasuresForSlug(slug, costFactor, heatPrice)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, MeasureListResponse{Slug: strings.ToLower(slug), Measures: results})
}
