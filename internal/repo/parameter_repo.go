package repo

import (
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// FinancialStore is the in-memory per-building financials catalog, loaded
// once from financials.csv.
type FinancialStore struct {
	byBuilding map[string]domain.Financial
}

// NewFinancialStore loads the catalog from the CSV at path, degrading to an
// empty store with a warning log when the file is missing or unreadable.
func NewFinancialStore(path string) *FinancialStore {
	s := &FinancialStore{byBuilding: make(map[string]domain.Financial)}
	t, err := readTable(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("financials catalog unavailable, starting empty")
		return s
	}
	for _, row := range t.rows {
		f := domain.Financial{
			BuildingID:   fieldStr(row, "building_id"),
			AvgRentEURM2: fieldFloat(row, "avg_rent_eur_m2"),
		}
		if f.BuildingID != "" {
			s.byBuilding[f.BuildingID] = f
		}
	}
	log.Info().Int("count", len(s.byBuilding)).Str("path", path).Msg("financials catalog loaded")
	return s
}

// AvgRentEURM2 returns the average rent per m² for a building. ok is false
// when the building has no financials row.
func (s *FinancialStore) AvgRentEURM2(buildingID string) (rent float64, ok bool) {
	f, ok := s.byBuilding[strings.TrimSpace(buildingID)]
	if !ok {
		return 0, false
	}
	return f.AvgRentEURM2, true
}

// ParameterStore holds named calculator parameters (window-to-floor ratio,
// subsidy parameter, rent increase percentage) loaded once from
// parameters.csv. The file keeps the "Variables"/"Value" column names of the
// spreadsheet it is exported from.
type ParameterStore struct {
	values map[string]float64
}

// NewParameterStore loads the parameters from the CSV at path, degrading to
// an empty store with a warning log when the file is missing or unreadable.
// Rows with a blank name or non-numeric value are skipped.
func NewParameterStore(path string) *ParameterStore {
	s := &ParameterStore{values: make(map[string]float64)}
	t, err := readTable(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("parameters unavailable, using defaults")
		return s
	}
	for _, row := range t.rows {
		name := fieldStr(row, "Variables")
		if name == "" {
			continue
		}
		v, err := strconv.ParseFloat(fieldStr(row, "Value"), 64)
		if err != nil {
			continue
		}
		s.values[name] = v
	}
	log.Info().Int("count", len(s.values)).Str("path", path).Msg("parameters loaded")
	return s
}

// Value returns the parameter with the given name; ok is false when absent.
func (s *ParameterStore) Value(name string) (v float64, ok bool) {
	v, ok = s.values[name]
	return v, ok
}
