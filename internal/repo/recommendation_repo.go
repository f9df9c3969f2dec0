package repo

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// recommendationColumns is the fixed column set of recommendations.csv.
// The payload column carries the JSON-encoded recommendation structure.
var recommendationColumns = []string{
	"building_id",
	"payload",
	"estimated_cost",
	"monthly_savings",
	"created_at",
}

// RecommendationStore is the append-only, CSV-backed recommendation history.
// Every computation appends a row; reads return the most recently appended
// row per building. History is preserved and never compacted.
type RecommendationStore struct {
	mu   sync.Mutex
	path string
}

// NewRecommendationStore opens (or creates with a header row) the
// recommendations file at path.
func NewRecommendationStore(path string) (*RecommendationStore, error) {
	if err := ensureFile(path, recommendationColumns); err != nil {
		return nil, err
	}
	return &RecommendationStore{path: path}, nil
}

// Append adds a new recommendation row with a UTC creation timestamp.
func (s *RecommendationStore) Append(buildingID string, payload domain.RecommendationPayload, estimatedCost, monthlySavings *float64) (*domain.Recommendation, error) {
	rec := domain.Recommendation{
		BuildingID:     strings.TrimSpace(buildingID),
		Payload:        payload,
		EstimatedCost:  estimatedCost,
		MonthlySavings: monthlySavings,
		CreatedAt:      nowUTC(),
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	rows := append(t.rows, map[string]string{
		"building_id":     rec.BuildingID,
		"payload":         string(encoded),
		"estimated_cost":  formatOptFloat(rec.EstimatedCost),
		"monthly_savings": formatOptFloat(rec.MonthlySavings),
		"created_at":      formatTime(rec.CreatedAt),
	})
	if err := writeTable(s.path, recommendationColumns, rows); err != nil {
		return nil, err
	}
	return &rec, nil
}

// LatestByBuilding returns the most recently appended recommendation for a
// building, or ErrNotFound when none exists. A payload that fails to decode
// is returned with an empty payload rather than an error.
func (s *RecommendationStore) LatestByBuilding(buildingID string) (*domain.Recommendation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	bid := strings.TrimSpace(buildingID)
	for i := len(t.rows) - 1; i >= 0; i-- {
		row := t.rows[i]
		if row["building_id"] != bid {
			continue
		}
		rec := domain.Recommendation{
			BuildingID:     row["building_id"],
			EstimatedCost:  fieldOptFloat(row, "estimated_cost"),
			MonthlySavings: fieldOptFloat(row, "monthly_savings"),
			CreatedAt:      fieldTime(row, "created_at"),
		}
		// best effort: a malformed payload still returns the row
		_ = json.Unmarshal([]byte(row["payload"]), &rec.Payload)
		return &rec, nil
	}
	return nil, ErrNotFound
}
