package services

import (
	"context"
	"math"

	"github.com/rs/zerolog/log"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// LandlordNote is attached to whole-building measures in a recommendation.
const LandlordNote = "Requires landlord approval (whole-building measure)"

// diyCostTargets are the price points the rule-based selection aims for when
// picking the do-it-yourself track.
var diyCostTargets = []float64{100, 200, 300}

// diyCostCeilingEUR caps what still counts as a do-it-yourself measure.
const diyCostCeilingEUR = 1000

// Advisor turns a building and its computed measure economics into a
// recommendation payload. Implementations may call out to an external
// service; the rule-based advisor is the in-process default and fallback.
type Advisor interface {
	Select(ctx context.Context, b *domain.Building, results []domain.MeasureResult) (*domain.RecommendationPayload, error)
}

// RecommendationRecords is the append-only recommendation store consumed by
// the recommendation service.
type RecommendationRecords interface {
	Append(buildingID string, payload domain.RecommendationPayload, estimatedCost, monthlySavings *float64) (*domain.Recommendation, error)
	LatestByBuilding(buildingID string) (*domain.Recommendation, error)
}

// RecommendationService generates and stores per-building recommendations.
type RecommendationService struct {
	Buildings BuildingSource
	Measures  MeasureSource
	Econ      *MeasureService
	Advisor   Advisor
	Store     RecommendationRecords
}

// Generate computes the applicable measures for a building, asks the advisor
// to pick a recommendation, and appends the result to the history. When the
// advisor fails, the rule-based selection takes over; ErrNoApplicableMeasures
// is returned when nothing is left to recommend.
func (s *RecommendationService) Generate(ctx context.Context, buildingID string) (*domain.Recommendation, error) {
	b, err := s.Buildings.GetByID(buildingID)
	if err != nil {
		return nil, ErrBuildingNotFound
	}

	results := s.Econ.Compute(b, s.Measures.All(), 0, 0)
	if len(results) == 0 {
		return nil, ErrNoApplicableMeasures
	}

	payload, err := s.advise(ctx, b, results)
	if err != nil {
		return nil, err
	}
	payload.BuildingID = b.ID

	cost, savings := payloadTotals(payload, results)
	return s.Store.Append(b.ID, *payload, cost, savings)
}

// Latest returns the most recent stored recommendation for a building.
func (s *RecommendationService) Latest(buildingID string) (*domain.Recommendation, error) {
	rec, err := s.Store.LatestByBuilding(buildingID)
	if err != nil {
		return nil, ErrRecommendationNotFound
	}
	return rec, nil
}

// advise runs the configured advisor and falls back to the rule-based
// selection on error.
func (s *RecommendationService) advise(ctx context.Context, b *domain.Building, results []domain.MeasureResult) (*domain.RecommendationPayload, error) {
	if s.Advisor != nil {
		payload, err := s.Advisor.Select(ctx, b, results)
		if err == nil && payload != nil {
			return payload, nil
		}
		if err != nil {
			log.Warn().Err(err).Str("building_id", b.ID).Msg("advisor failed, using rule-based selection")
		}
	}
	return RuleBasedAdvisor{}.Select(ctx, b, results)
}

// payloadTotals sums the estimated cost of every selected measure and the
// monthly savings of the DIY track.
func payloadTotals(p *domain.RecommendationPayload, results []domain.MeasureResult) (cost, monthlySavings *float64) {
	yearlyByID := make(map[string]float64, len(results))
	for i := range results {
		yearlyByID[results[i].MeasureID] = results[i].EstimatedSavingsEURPerYear
	}

	totalCost := 0.0
	yearly := 0.0
	for _, m := range p.DIYMeasures {
		totalCost += m.EstimatedCostEUR
		yearly += yearlyByID[m.MeasureID]
	}
	for _, m := range p.WholeBuildingMeasures {
		totalCost += m.EstimatedCostEUR
	}

	c := round2(totalCost)
	s := round2(yearly / 12)
	return &c, &s
}

// RuleBasedAdvisor is the deterministic in-process selection: up to three
// affordable DIY measures spread across the cost targets, plus up to three
// whole-building measures in catalog order.
type RuleBasedAdvisor struct{}

// Select implements Advisor.
func (RuleBasedAdvisor) Select(_ context.Context, _ *domain.Building, results []domain.MeasureResult) (*domain.RecommendationPayload, error) {
	payload := &domain.RecommendationPayload{
		DIYMeasures:           []domain.SelectedMeasure{},
		WholeBuildingMeasures: []domain.SelectedMeasure{},
	}

	diy := []domain.MeasureResult{}
	for _, r := range results {
		if r.RequiresWholeBuildingLandlord {
			if len(payload.WholeBuildingMeasures) < len(diyCostTargets) {
				payload.WholeBuildingMeasures = append(payload.WholeBuildingMeasures, selected(&r, LandlordNote))
			}
			continue
		}
		if r.EstimatedCost < diyCostCeilingEUR {
			diy = append(diy, r)
		}
	}

	used := make(map[int]bool, len(diy))
	for _, target := range diyCostTargets {
		best := -1
		for i := range diy {
			if used[i] {
				continue
			}
			if best < 0 || math.Abs(diy[i].EstimatedCost-target) < math.Abs(diy[best].EstimatedCost-target) {
				best = i
			}
		}
		if best < 0 {
			break
		}
		used[best] = true
		payload.DIYMeasures = append(payload.DIYMeasures, selected(&diy[best], ""))
	}

	return payload, nil
}

func selected(r *domain.MeasureResult, note string) domain.SelectedMeasure {
	return domain.SelectedMeasure{
		MeasureID:                r.MeasureID,
		MeasureName:              r.MeasureName,
		EstimatedCostEUR:         r.EstimatedCost,
		ExpectedSavingsPct:       r.EstimatedSavingsPct,
		NoteLandlordIfApplicable: note,
	}
}
