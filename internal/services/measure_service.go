// Package services – MeasureService
//
// This file implements the retrofit economics core: the applicability filter
// that drops measures a building has already satisfied, and the per-measure
// cost/subsidy/savings/payback calculation.
//
// The formulas replicate the planning spreadsheet the product started from:
// per-m² costs below a threshold scale with building area and a cost factor,
// larger figures are one-time costs, and the subsidy is a flat share of the
// estimated cost.
package services

import (
	"math"
	"strings"

	"github.com/viabcheck/eco-backend/internal/domain"
)

const (
	// CostThresholdEUR splits per-m² unit costs from one-time costs: below
	// the threshold the cost scales with building area, at or above it the
	// figure is taken as-is.
	CostThresholdEUR = 900

	// DefaultCostFactor scales per-m² costs (spreadsheet cell E6).
	DefaultCostFactor = 0.14

	// DefaultHeatPriceEURPerKWh converts yearly heating energy to money.
	DefaultHeatPriceEURPerKWh = 0.12

	// SubsidyRate is the share of the estimated cost covered by subsidy.
	SubsidyRate = 0.6

	// SubsidyProgramLabel is attached to measures eligible for either of
	// the two public subsidy schemes.
	SubsidyProgramLabel = "KfW/Bafa"
)

// wholeBuildingCategories are measure categories a single tenant cannot
// carry out alone.
var wholeBuildingCategories = map[string]struct{}{
	"Envelope": {},
	"Heating":  {},
}

// EnergySource provides metered heating consumption per building.
type EnergySource interface {
	// LatestYearHeatingKWh returns the most recent year's total heating
	// consumption; ok is false when the building has no records.
	LatestYearHeatingKWh(buildingID string) (kwh float64, ok bool)
}

// MeasureService computes which catalog measures still apply to a building
// and what they would cost, save, and pay back.
type MeasureService struct {
	// Energy is the metered consumption source; the per-area fallback on
	// the building itself is used when it has no data.
	Energy EnergySource

	// CostFactor scales per-m² costs; zero means DefaultCostFactor.
	CostFactor float64
	// HeatPriceEURPerKWh converts kWh to EUR; zero means the default.
	HeatPriceEURPerKWh float64
}

// NewMeasureService constructs a MeasureService with the spreadsheet
// defaults for cost factor and heat price.
func NewMeasureService(energy EnergySource) *MeasureService {
	return &MeasureService{
		Energy:             energy,
		CostFactor:         DefaultCostFactor,
		HeatPriceEURPerKWh: DefaultHeatPriceEURPerKWh,
	}
}

// IsApplicable reports whether a measure is still relevant for a building.
//
// Every rule is an exclusion and the default is applicable: only measures
// whose work is unambiguously already done are dropped, everything else is
// surfaced for manual or advisor-assisted triage. Free-text prerequisites
// are informational and never exclude.
func (s *MeasureService) IsApplicable(m *domain.Measure, b *domain.Building) bool {
	name := strings.ToLower(m.Name)

	if strings.Contains(name, "roof") && b.InsulationRoof == "Full" {
		return false
	}
	if strings.Contains(name, "window") && strings.Contains(strings.ToLower(b.WindowType), "triple") {
		return false
	}
	if strings.Contains(name, "facade") && b.InsulationWalls == "Full" {
		return false
	}
	if strings.Contains(name, "basement") && b.InsulationBasement == "Full" {
		return false
	}
	return true
}

// Compute returns the economics for every applicable measure, preserving
// catalog order. costFactor and heatPrice override the service defaults when
// positive.
//
// The yearly heating cost comes from the metered series (latest year) and
// falls back to consumption-per-m² × area; a building with neither yields
// zero savings and nil paybacks for every measure.
func (s *MeasureService) Compute(b *domain.Building, measures []domain.Measure, costFactor, heatPrice float64) []domain.MeasureResult {
	if costFactor <= 0 {
		costFactor = s.CostFactor
	}
	if heatPrice <= 0 {
		heatPrice = s.HeatPriceEURPerKWh
	}

	yearlyKWh := s.yearlyHeatKWh(b)
	yearlyEUR := 0.0
	if yearlyKWh > 0 {
		yearlyEUR = yearlyKWh * heatPrice
	}

	results := make([]domain.MeasureResult, 0, len(measures))
	for i := range measures {
		m := &measures[i]
		if !s.IsApplicable(m, b) {
			continue
		}

		cost := estimatedCost(m, b, costFactor)
		subsidy := cost * SubsidyRate
		costAfter := cost - subsidy

		savings := 0.0
		if yearlyEUR > 0 {
			savings = yearlyEUR * m.ExpectedSavingsPct / 100
		}

		var payback, paybackAfter *float64
		if savings > 0 {
			payback = round1p(cost / savings)
			paybackAfter = round1p(costAfter / savings)
		}

		_, wholeBuilding := wholeBuildingCategories[m.Category]

		label := ""
		if m.KfWEligible || m.BafaEligible {
			label = SubsidyProgramLabel
		}

		results = append(results, domain.MeasureResult{
			MeasureID:                     m.ID,
			MeasureName:                   m.Name,
			Category:                      m.Category,
			EstimatedCost:                 round2(cost),
			CostAfterSubsidyEUR:           round2(costAfter),
			SubsidyEUR:                    round2(subsidy),
			SubsidyPct:                    SubsidyRate,
			EstimatedSavingsPct:           m.ExpectedSavingsPct,
			EstimatedSavingsEURPerYear:    round2(savings),
			PaybackYears:                  payback,
			PaybackYearsAfterSubsidy:      paybackAfter,
			SubsidyInfo:                   label,
			RequiresWholeBuildingLandlord: wholeBuilding,
		})
	}
	return results
}

// yearlyHeatKWh resolves the building's yearly heating energy: metered
// latest-year total first, then the per-area fallback, then zero.
func (s *MeasureService) yearlyHeatKWh(b *domain.Building) float64 {
	if s.Energy != nil {
		if kwh, ok := s.Energy.LatestYearHeatingKWh(b.ID); ok {
			return kwh
		}
	}
	if b.EnergyConsumptionKWhM2 == nil {
		return 0
	}
	return *b.EnergyConsumptionKWhM2 * b.TotalAreaM2
}

// estimatedCost applies the cost rule: unit costs below the threshold scale
// with area and the cost factor (only when the building has positive area);
// everything else is a one-time figure.
func estimatedCost(m *domain.Measure, b *domain.Building, factor float64) float64 {
	tc := m.TypicalCostEURM2
	if tc < CostThresholdEUR && b.TotalAreaM2 > 0 {
		return tc * b.TotalAreaM2 * factor
	}
	return tc
}

// round2 rounds money to cents; rounding happens at the output boundary
// only, all intermediate math keeps full precision.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round1p(v float64) *float64 {
	r := round1(v)
	return &r
}
