package services

import (
	"errors"
	"testing"

	"github.com/viabcheck/eco-backend/internal/domain"
)

type fakeCatalog struct {
	fakeBuildings
	bySlug map[string]string
}

func (f fakeCatalog) GetBySlug(slug string) (*domain.Building, error) {
	id, ok := f.bySlug[slug]
	if !ok {
		return nil, errors.New("missing")
	}
	return f.fakeBuildings.GetByID(id)
}

func (f fakeCatalog) Search(string, int) []domain.BuildingSummary          { return nil }
func (f fakeCatalog) StreetsByPostalCode(string) []string                  { return nil }
func (f fakeCatalog) HouseNumbersByStreet(string, string) []string         { return nil }
func (f fakeCatalog) ListByPostalCodeAndStreet(string, string) []domain.BuildingSummary {
	return nil
}

func TestBuildingService_PrefillEnrichment(t *testing.T) {
	calc := calcFixture()
	catalog := fakeCatalog{
		fakeBuildings: calc.Buildings.(fakeBuildings),
		bySlug:        map[string]string{"10317-landsberger-allee-36": "b1"},
	}
	svc := &BuildingService{Catalog: catalog, Calc: calc}

	d, err := svc.GetBySlug("10317-landsberger-allee-36")
	if err != nil {
		t.Fatalf("GetBySlug: %v", err)
	}
	if d.ID != "b1" {
		t.Fatalf("ID = %q; want b1", d.ID)
	}
	if d.FacadeSqmSuggestion == nil || *d.FacadeSqmSuggestion != 1018.23 {
		t.Fatalf("FacadeSqmSuggestion = %v; want 1018.23", d.FacadeSqmSuggestion)
	}
	// derived rent: 10 EUR/m² × 1000 m² / 10 units
	if d.RentPerUnit != 1000 {
		t.Fatalf("RentPerUnit = %v; want 1000", d.RentPerUnit)
	}
	if d.EnergyCostsPerMonth != 200 {
		t.Fatalf("EnergyCostsPerMonth = %v; want 200", d.EnergyCostsPerMonth)
	}

	if _, err := svc.GetBySlug("nope"); !errors.Is(err, ErrBuildingNotFound) {
		t.Fatalf("expected ErrBuildingNotFound, got %v", err)
	}
	if _, err := svc.GetByID("nope"); !errors.Is(err, ErrBuildingNotFound) {
		t.Fatalf("expected ErrBuildingNotFound, got %v", err)
	}
}
