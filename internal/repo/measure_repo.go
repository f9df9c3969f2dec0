package repo

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// MeasureStore is the in-memory retrofit measure catalog, loaded once from
// retrofit_measures.csv. Immutable after construction.
type MeasureStore struct {
	measures []domain.Measure
	byID     map[string]int
}

// NewMeasureStore loads the catalog from the CSV at path, degrading to an
// empty catalog with a warning log when the file is missing or unreadable.
func NewMeasureStore(path string) *MeasureStore {
	s := &MeasureStore{byID: make(map[string]int)}
	t, err := readTable(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("measure catalog unavailable, starting empty")
		return s
	}
	for _, row := range t.rows {
		m := domain.Measure{
			ID:                 fieldStr(row, "measure_id"),
			Name:               fieldStr(row, "measure_name"),
			Category:           fieldStr(row, "category"),
			TypicalCostEURM2:   fieldFloat(row, "typical_cost_eur_m2"),
			ExpectedSavingsPct: fieldFloat(row, "expected_savings_pct"),
			KfWEligible:        fieldBool(row, "kfw_eligible"),
			BafaEligible:       fieldBool(row, "bafa_eligible"),
			Prerequisites:      fieldStr(row, "prerequisites"),
		}
		s.measures = append(s.measures, m)
		if m.ID != "" {
			s.byID[m.ID] = len(s.measures) - 1
		}
	}
	log.Info().Int("count", len(s.measures)).Str("path", path).Msg("measure catalog loaded")
	return s
}

// All returns every measure in catalog order. The returned slice is a copy;
// callers may not mutate catalog state through it.
func (s *MeasureStore) All() []domain.Measure {
	out := make([]domain.Measure, len(s.measures))
	copy(out, s.measures)
	return out
}

// GetByID returns one measure by its identifier, or ErrNotFound.
func (s *MeasureStore) GetByID(measureID string) (*domain.Measure, error) {
	i, ok := s.byID[strings.TrimSpace(measureID)]
	if !ok {
		return nil, ErrNotFound
	}
	m := s.measures[i]
	return &m, nil
}
