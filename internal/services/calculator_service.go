// Package services – CalculatorService
//
// This file implements the whole-building window retrofit calculation: a
// choice between double and triple glazing, priced over the building's
// window area and weighed against the landlord's rent-increase economics.
//
// Every input resolves through an explicit prioritized chain
// (override → building field → derived value → hardcoded default) so the
// precedence is auditable and testable in isolation.
package services

import (
	"math"
	"strings"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// Window calculator defaults, used when neither an override, a stored
// parameter, nor catalog data provides a value.
const (
	DefaultWindowToFloorRatio     = 0.14
	DefaultWindowSubsidyParameter = 0.65
	DefaultRentIncreasePct        = 0.04
	DefaultRentPerUnitEUR         = 800

	DefaultDoubleGlazingCostEURM2 = 450
	DefaultDoubleGlazingSavingsPct = 12
	DefaultTripleGlazingCostEURM2 = 550
	DefaultTripleGlazingSavingsPct = 15

	// InterFloorSlabM is added to the era-specific interior ceiling height
	// when estimating facade area from the floor count.
	InterFloorSlabM = 0.4
)

// interiorHeightByEra maps a building type/era to its typical interior
// ceiling height in meters.
var interiorHeightByEra = map[string]float64{
	"Altbau":      3.2,
	"Gründerzeit": 3.3,
	"Modern":      2.8,
	"1970s block": 2.6,
	"1980s block": 2.7,
	"Post-war":    2.8,
	"Plattenbau":  2.6,
}

const defaultInteriorHeightM = 2.8

// BuildingSource resolves buildings by identifier.
type BuildingSource interface {
	GetByID(buildingID string) (*domain.Building, error)
}

// MonthlyCostSource provides the average monthly energy cost per building.
type MonthlyCostSource interface {
	AvgMonthlyCostEUR(buildingID string) (eur float64, ok bool)
}

// RentSource provides the average rent per m² per building.
type RentSource interface {
	AvgRentEURM2(buildingID string) (rent float64, ok bool)
}

// ParameterSource provides named calculator parameters.
type ParameterSource interface {
	Value(name string) (v float64, ok bool)
}

// MeasureSource lists the measure catalog (for glazing cost/savings rows).
type MeasureSource interface {
	All() []domain.Measure
}

// CalculatorOverrides carries the caller-supplied inputs of a calculator
// run. Nil fields fall through to the next resolver in the chain.
type CalculatorOverrides struct {
	TotalSqm            *float64 `json:"TotalSqm,omitempty"`
	NrUnits             *int     `json:"NrUnits,omitempty"`
	WindowType          *string  `json:"WindowType,omitempty"`
	EnergyCostsPerMonth *float64 `json:"EnergyCostsPerMonth,omitempty"`
	RentPerUnit         *float64 `json:"RentPerUnit,omitempty"`
	WindowToFloorRatio  *float64 `json:"WindowToFloorRatio,omitempty"`
}

// CalculatorService runs the window retrofit payback calculation and the
// facade-area estimate.
type CalculatorService struct {
	Buildings  BuildingSource
	Energy     MonthlyCostSource
	Financials RentSource
	Params     ParameterSource
	Measures   MeasureSource
}

// floatResolver is one step of a prioritized lookup chain. ok reports
// whether this step can supply the value.
type floatResolver func() (v float64, ok bool)

// resolveFloat walks the chain in order and returns the first supplied
// value; the last step should always supply one.
func resolveFloat(chain ...floatResolver) float64 {
	for _, r := range chain {
		if v, ok := r(); ok {
			return v
		}
	}
	return 0
}

// fromPtr supplies an explicit override when present.
func fromPtr(p *float64) floatResolver {
	return func() (float64, bool) {
		if p == nil {
			return 0, false
		}
		return *p, true
	}
}

// fromPositive supplies v only when it is positive, so zero-valued building
// fields fall through to the derived value or default.
func fromPositive(v float64) floatResolver {
	return func() (float64, bool) { return v, v > 0 }
}

// fromConst terminates a chain with a hardcoded default.
func fromConst(v float64) floatResolver {
	return func() (float64, bool) { return v, true }
}

// Run executes the calculation for the given building and glazing sub-type
// ("Window replacement - double glazing" / "... - triple glazing"; any
// sub-type not mentioning "double" prices as triple). It returns
// ErrBuildingNotFound when the building cannot be resolved — the calculator
// never silently falls back to defaults for the building itself.
func (s *CalculatorService) Run(buildingID, subType string, ov CalculatorOverrides) (*domain.CalculatorResult, error) {
	b, err := s.Buildings.GetByID(buildingID)
	if err != nil {
		return nil, ErrBuildingNotFound
	}

	totalSqm := resolveFloat(
		fromPtr(ov.TotalSqm),
		fromPositive(b.TotalAreaM2),
		fromConst(0),
	)
	nrUnits := b.NumUnits
	if ov.NrUnits != nil {
		nrUnits = *ov.NrUnits
	}
	windowType := b.WindowType
	if ov.WindowType != nil {
		windowType = *ov.WindowType
	}
	windowType = normalizeWindowType(windowType)

	energyPerMonth := resolveFloat(
		fromPtr(ov.EnergyCostsPerMonth),
		s.meteredMonthlyCost(b.ID),
		fromConst(0),
	)
	rentPerUnit := resolveFloat(
		fromPtr(ov.RentPerUnit),
		s.derivedRentPerUnit(b.ID, totalSqm, nrUnits),
		fromConst(DefaultRentPerUnitEUR),
	)

	windowToFloor := resolveFloat(
		fromPtr(ov.WindowToFloorRatio),
		s.param("WindowToFloorRatio"),
		fromConst(DefaultWindowToFloorRatio),
	)
	subsidyParam := resolveFloat(
		s.param("WindowSubsidyParameter"),
		fromConst(DefaultWindowSubsidyParameter),
	)
	rentIncreasePct := resolveFloat(
		s.param("RentIncreasePct"),
		fromConst(DefaultRentIncreasePct),
	)

	costPerM2, savingsPct := s.glazing(subType)

	costTotal := costPerM2 * totalSqm * windowToFloor
	costAfterSubsidy := costTotal * subsidyParam
	monthlySavings := energyPerMonth * savingsPct / 100

	breakeven := 0.0
	if monthlySavings > 0 {
		breakeven = costAfterSubsidy / (monthlySavings * 12)
	}
	savingsPerUnit := 0.0
	if nrUnits > 0 {
		savingsPerUnit = monthlySavings / float64(nrUnits)
	}
	rentIncreasePerUnit := rentIncreasePct * rentPerUnit
	tenantNet := savingsPerUnit - rentIncreasePerUnit
	yearlyExtraIncome := rentIncreasePerUnit * float64(nrUnits) * 12
	breakevenRent := 0.0
	if yearlyExtraIncome > 0 {
		breakevenRent = costAfterSubsidy / yearlyExtraIncome
	}

	years := int(breakevenRent)
	months := int(math.Round((breakevenRent - float64(years)) * 12))

	return &domain.CalculatorResult{
		TotalSqm:                        round2(totalSqm),
		NrUnits:                         nrUnits,
		WindowType:                      windowType,
		EnergyCostsPerMonth:             round2(energyPerMonth),
		RentPerUnit:                     round2(rentPerUnit),
		SubTypeOfRetrofit:               subType,
		RetrofitCostTotal:               round2(costTotal),
		RetrofitCostTotalAfterSubsidy:   round2(costAfterSubsidy),
		EnergySavingsPerMonth:           round2(monthlySavings),
		YearUntilBreakeven:              round2(breakeven),
		SavingsPerUnit:                  round2(savingsPerUnit),
		RentIncreasePerUnit:             round2(rentIncreasePerUnit),
		TenantSavingsPerUnit:            round2(tenantNet),
		YearlyExtraIncome:               round2(yearlyExtraIncome),
		YearsUntilBreakevenRentIncrease: round2(breakevenRent),
		EnergySavingsPct:                round2(savingsPct),
		YearsUntilBreakEven:             years,
		MonthsUntilBreakEven:            months,
	}, nil
}

// FacadeSqmSuggestion estimates a building's facade area from its footprint
// and floor count: 4 × √(area/floors) × floorHeight × floors, with the floor
// height taken from the building era plus the inter-floor slab. It returns
// nil when area or floor count cannot yield a positive footprint, and
// ErrBuildingNotFound for an unknown building.
func (s *CalculatorService) FacadeSqmSuggestion(buildingID string) (*float64, error) {
	b, err := s.Buildings.GetByID(buildingID)
	if err != nil {
		return nil, ErrBuildingNotFound
	}
	floors := b.NumFloors
	if floors < 1 {
		floors = 1
	}
	if b.TotalAreaM2 <= 0 {
		return nil, nil
	}
	interior, ok := interiorHeightByEra[b.BuildingType]
	if !ok {
		interior = defaultInteriorHeightM
	}
	floorHeight := interior + InterFloorSlabM
	side := math.Sqrt(b.TotalAreaM2 / float64(floors))
	if side <= 0 {
		return nil, nil
	}
	v := round2(4 * side * floorHeight * float64(floors))
	return &v, nil
}

// meteredMonthlyCost adapts the energy store to a resolver step.
func (s *CalculatorService) meteredMonthlyCost(buildingID string) floatResolver {
	return func() (float64, bool) {
		if s.Energy == nil {
			return 0, false
		}
		v, ok := s.Energy.AvgMonthlyCostEUR(buildingID)
		return v, ok && v > 0
	}
}

// derivedRentPerUnit derives rent per unit from the financials catalog:
// avg rent per m² × total area / unit count.
func (s *CalculatorService) derivedRentPerUnit(buildingID string, totalSqm float64, nrUnits int) floatResolver {
	return func() (float64, bool) {
		if s.Financials == nil || nrUnits <= 0 || totalSqm <= 0 {
			return 0, false
		}
		rentPerSqm, ok := s.Financials.AvgRentEURM2(buildingID)
		if !ok || rentPerSqm <= 0 {
			return 0, false
		}
		return rentPerSqm * totalSqm / float64(nrUnits), true
	}
}

// param adapts the parameter store to a resolver step.
func (s *CalculatorService) param(name string) floatResolver {
	return func() (float64, bool) {
		if s.Params == nil {
			return 0, false
		}
		return s.Params.Value(name)
	}
}

// glazing resolves cost per m² and savings percentage for a glazing
// sub-type from the measure catalog, falling back to the spreadsheet
// defaults when no matching catalog row exists.
func (s *CalculatorService) glazing(subType string) (costPerM2, savingsPct float64) {
	double := strings.Contains(strings.ToLower(subType), "double")
	if double {
		costPerM2, savingsPct = DefaultDoubleGlazingCostEURM2, DefaultDoubleGlazingSavingsPct
	} else {
		costPerM2, savingsPct = DefaultTripleGlazingCostEURM2, DefaultTripleGlazingSavingsPct
	}
	if s.Measures == nil {
		return costPerM2, savingsPct
	}
	want := "triple"
	if double {
		want = "double"
	}
	for _, m := range s.Measures.All() {
		name := strings.ToLower(m.Name)
		if !strings.Contains(name, "glaz") || !strings.Contains(name, want) {
			continue
		}
		if m.TypicalCostEURM2 > 0 {
			costPerM2 = m.TypicalCostEURM2
		}
		if m.ExpectedSavingsPct > 0 {
			savingsPct = m.ExpectedSavingsPct
		}
	}
	return costPerM2, savingsPct
}

// normalizeWindowType maps free-text window descriptions onto the three
// canonical labels; unrecognized non-empty values pass through unchanged.
func normalizeWindowType(wt string) string {
	s := strings.TrimSpace(wt)
	if s == "" || strings.EqualFold(s, "nan") {
		return "Single-pane"
	}
	lower := strings.ToLower(s)
	switch {
	case strings.Contains(lower, "single"):
		return "Single-pane"
	case strings.Contains(lower, "double"):
		return "Double-pane"
	case strings.Contains(lower, "triple"):
		return "Triple-pane"
	}
	return s
}
