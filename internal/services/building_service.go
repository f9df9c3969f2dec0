package services

import (
	"github.com/viabcheck/eco-backend/internal/domain"
)

// BuildingCatalog is the read side of the building catalog consumed by the
// building service.
type BuildingCatalog interface {
	GetBySlug(slug string) (*domain.Building, error)
	GetByID(buildingID string) (*domain.Building, error)
	Search(query string, limit int) []domain.BuildingSummary
	StreetsByPostalCode(postalCode string) []string
	HouseNumbersByStreet(postalCode, street string) []string
	ListByPostalCodeAndStreet(postalCode, street string) []domain.BuildingSummary
}

// BuildingDetail is a catalog building enriched with prefill values for the
// calculator form: the estimated facade area and the rent/energy figures a
// default triple-glazing calculation would resolve for this building.
type BuildingDetail struct {
	domain.Building

	FacadeSqmSuggestion *float64 `json:"facade_sqm_suggestion"`
	RentPerUnit         float64  `json:"rent_per_unit"`
	EnergyCostsPerMonth float64  `json:"energy_costs_per_month"`
}

// BuildingService answers building lookups and the address cascade, and
// enriches single-building responses with calculator prefill values.
type BuildingService struct {
	Catalog  BuildingCatalog
	Calc     *CalculatorService
	Measures MeasureSource
	Econ     *MeasureService
}

// GetBySlug returns the enriched building for an address slug.
func (s *BuildingService) GetBySlug(slug string) (*BuildingDetail, error) {
	b, err := s.Catalog.GetBySlug(slug)
	if err != nil {
		return nil, ErrBuildingNotFound
	}
	return s.detail(b), nil
}

// GetByID returns the enriched building for a catalog identifier.
func (s *BuildingService) GetByID(buildingID string) (*BuildingDetail, error) {
	b, err := s.Catalog.GetByID(buildingID)
	if err != nil {
		return nil, ErrBuildingNotFound
	}
	return s.detail(b), nil
}

// Search proxies the catalog substring search.
func (s *BuildingService) Search(query string, limit int) []domain.BuildingSummary {
	return s.Catalog.Search(query, limit)
}

// Streets returns the sorted street names for a postal code.
func (s *BuildingService) Streets(postalCode string) []string {
	return s.Catalog.StreetsByPostalCode(postalCode)
}

// HouseNumbers returns the sorted house numbers for a postal code and street.
func (s *BuildingService) HouseNumbers(postalCode, street string) []string {
	return s.Catalog.HouseNumbersByStreet(postalCode, street)
}

// List returns summaries for every building at a postal code and street.
func (s *BuildingService) List(postalCode, street string) []domain.BuildingSummary {
	return s.Catalog.ListByPostalCodeAndStreet(postalCode, street)
}

// MeasuresForSlug computes the applicable measure economics for the building
// behind an address slug. costFactor and heatPrice are optional overrides;
// zero values fall back to the service defaults.
func (s *BuildingService) MeasuresForSlug(slug string, costFactor, heatPrice float64) ([]domain.MeasureResult, error) {
	b, err := s.Catalog.GetBySlug(slug)
	if err != nil {
		return nil, ErrBuildingNotFound
	}
	return s.Econ.Compute(b, s.Measures.All(), costFactor, heatPrice), nil
}

// detail enriches a building with prefill values. Prefill is best effort:
// a building without energy or rent data still resolves through the
// calculator's default chain, so the fields are always populated.
func (s *BuildingService) detail(b *domain.Building) *BuildingDetail {
	d := &BuildingDetail{Building: *b}
	if s.Calc == nil {
		return d
	}
	if facade, err := s.Calc.FacadeSqmSuggestion(b.ID); err == nil {
		d.FacadeSqmSuggestion = facade
	}
	if res, err := s.Calc.Run(b.ID, "Window replacement - triple glazing", CalculatorOverrides{}); err == nil {
		d.RentPerUnit = res.RentPerUnit
		d.EnergyCostsPerMonth = res.EnergyCostsPerMonth
	}
	return d
}
