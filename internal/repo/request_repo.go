package repo

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// requestColumns is the fixed column set of requests.csv.
var requestColumns = []string{
	"id",
	"user_id",
	"building_id",
	"status",
	"created_at",
	"updated_at",
}

// DefaultRequestStatus is applied when a submission carries no status.
const DefaultRequestStatus = "pending"

// RequestStore is the mutable, CSV-backed request record store. A user has
// at most one request: a second submission overwrites building ID, status,
// and updated-at in place rather than creating a second row.
type RequestStore struct {
	mu   sync.Mutex
	path string
}

// NewRequestStore opens (or creates with a header row) the requests file at path.
func NewRequestStore(path string) (*RequestStore, error) {
	if err := ensureFile(path, requestColumns); err != nil {
		return nil, err
	}
	return &RequestStore{path: path}, nil
}

// Upsert creates the request for userID, or fully replaces the building ID
// and status of an existing one (CreatedAt and the record ID are kept).
func (s *RequestStore) Upsert(userID, buildingID, status string) (*domain.Request, error) {
	uid := strings.TrimSpace(userID)
	bid := strings.TrimSpace(buildingID)
	if status == "" {
		status = DefaultRequestStatus
	}
	now := nowUTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	rows := t.rows
	for i, row := range rows {
		if row["user_id"] != uid {
			continue
		}
		r := rowToRequest(row)
		r.BuildingID = bid
		r.Status = status
		r.UpdatedAt = now
		rows[i] = requestToRow(&r)
		if err := writeTable(s.path, requestColumns, rows); err != nil {
			return nil, err
		}
		return &r, nil
	}

	r := domain.Request{
		ID:         uuid.NewString(),
		UserID:     uid,
		BuildingID: bid,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	rows = append(rows, requestToRow(&r))
	if err := writeTable(s.path, requestColumns, rows); err != nil {
		return nil, err
	}
	return &r, nil
}

// GetByUser returns the single request for a user, or ErrNotFound.
func (s *RequestStore) GetByUser(userID string) (*domain.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	uid := strings.TrimSpace(userID)
	for _, row := range t.rows {
		if row["user_id"] == uid {
			r := rowToRequest(row)
			return &r, nil
		}
	}
	return nil, ErrNotFound
}

// ListByBuilding returns every request targeting the given building.
func (s *RequestStore) ListByBuilding(buildingID string) ([]domain.Request, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	bid := strings.TrimSpace(buildingID)
	out := []domain.Request{}
	for _, row := range t.rows {
		if row["building_id"] == bid {
			out = append(out, rowToRequest(row))
		}
	}
	return out, nil
}

func requestToRow(r *domain.Request) map[string]string {
	return map[string]string{
		"id":          r.ID,
		"user_id":     r.UserID,
		"building_id": r.BuildingID,
		"status":      r.Status,
		"created_at":  formatTime(r.CreatedAt),
		"updated_at":  formatTime(r.UpdatedAt),
	}
}

func rowToRequest(row map[string]string) domain.Request {
	return domain.Request{
		ID:         row["id"],
		UserID:     row["user_id"],
		BuildingID: row["building_id"],
		Status:     row["status"],
		CreatedAt:  fieldTime(row, "created_at"),
		UpdatedAt:  fieldTime(row, "updated_at"),
	}
}
