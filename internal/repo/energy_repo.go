package repo

import (
	"github.com/rs/zerolog/log"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// EnergyStore is the in-memory metered energy-consumption time series,
// loaded once from energy_consumption.csv. Immutable after construction.
type EnergyStore struct {
	records []domain.EnergyRecord
}

// NewEnergyStore loads the series from the CSV at path, degrading to an
// empty store with a warning log when the file is missing or unreadable.
func NewEnergyStore(path string) *EnergyStore {
	s := &EnergyStore{}
	t, err := readTable(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("energy series unavailable, starting empty")
		return s
	}
	for _, row := range t.rows {
		s.records = append(s.records, domain.EnergyRecord{
			BuildingID:   fieldStr(row, "building_id"),
			Year:         fieldInt(row, "year"),
			Month:        fieldInt(row, "month"),
			HeatingKWh:   fieldFloat(row, "heating_kwh"),
			TotalCostEUR: fieldFloat(row, "total_cost_eur"),
		})
	}
	log.Info().Int("count", len(s.records)).Str("path", path).Msg("energy series loaded")
	return s
}

// LatestYearHeatingKWh sums the heating consumption per year for a building
// and returns the most recent year's total. ok is false when the building
// has no records at all.
func (s *EnergyStore) LatestYearHeatingKWh(buildingID string) (kwh float64, ok bool) {
	byYear := make(map[int]float64)
	for i := range s.records {
		r := &s.records[i]
		if r.BuildingID == buildingID {
			byYear[r.Year] += r.HeatingKWh
		}
	}
	if len(byYear) == 0 {
		return 0, false
	}
	latest := 0
	first := true
	for y := range byYear {
		if first || y > latest {
			latest = y
			first = false
		}
	}
	return byYear[latest], true
}

// AvgMonthlyCostEUR averages the total energy cost across all records for a
// building. ok is false when the building has no records.
func (s *EnergyStore) AvgMonthlyCostEUR(buildingID string) (eur float64, ok bool) {
	var sum float64
	var n int
	for i := range s.records {
		r := &s.records[i]
		if r.BuildingID == buildingID {
			sum += r.TotalCostEUR
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
