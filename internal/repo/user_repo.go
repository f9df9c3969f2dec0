package repo

import (
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// userColumns is the fixed column set of users.csv. The on-disk order is
// part of the persistence contract.
var userColumns = []string{
	"id",
	"name",
	"email",
	"building_id",
	"subscription_status",
	"warmmiete",
	"kaltmiete",
	"apartment_area_m2",
	"profile_updated_at",
	"created_at",
}

// UserProfile carries the optional profile fields of a user. Nil fields are
// left untouched on update.
type UserProfile struct {
	Warmmiete       *float64
	Kaltmiete       *float64
	ApartmentAreaM2 *float64
}

// UserStore is the mutable, CSV-backed user record store. Every write reads
// all rows, mutates in memory, and rewrites the whole file; the mutex keeps
// concurrent in-process writers from losing updates.
type UserStore struct {
	mu   sync.Mutex
	path string
}

// NewUserStore opens (or creates with a header row) the users file at path.
func NewUserStore(path string) (*UserStore, error) {
	if err := ensureFile(path, userColumns); err != nil {
		return nil, err
	}
	return &UserStore{path: path}, nil
}

// Create appends a new user with a generated ID and UTC creation timestamp.
func (s *UserStore) Create(name, email, buildingID, subscriptionStatus string, profile UserProfile) (*domain.User, error) {
	u := domain.User{
		ID:                 uuid.NewString(),
		Name:               strings.TrimSpace(name),
		Email:              strings.TrimSpace(email),
		BuildingID:         strings.TrimSpace(buildingID),
		SubscriptionStatus: subscriptionStatus,
		Warmmiete:          profile.Warmmiete,
		Kaltmiete:          profile.Kaltmiete,
		ApartmentAreaM2:    profile.ApartmentAreaM2,
		CreatedAt:          nowUTC(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	rows = append(rows, userToRow(&u))
	if err := writeTable(s.path, userColumns, rows); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID returns the user with the given ID, or ErrNotFound.
func (s *UserStore) GetByID(id string) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row["id"] == id {
			u := rowToUser(row)
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

// ListByBuilding returns every user registered for the given building.
func (s *UserStore) ListByBuilding(buildingID string) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	bid := strings.TrimSpace(buildingID)
	out := []domain.User{}
	for _, row := range rows {
		if row["building_id"] == bid {
			out = append(out, rowToUser(row))
		}
	}
	return out, nil
}

// CountByBuilding counts users registered for the given building.
func (s *UserStore) CountByBuilding(buildingID string) (int, error) {
	users, err := s.ListByBuilding(buildingID)
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

// UpdateProfile updates the optional profile fields of a user in place.
// ProfileUpdatedAt is set only when at least one field actually changes
// value; a no-op update leaves it untouched. Returns ErrNotFound for an
// unknown user ID.
func (s *UserStore) UpdateProfile(id string, profile UserProfile) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rows, err := s.readRows()
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if row["id"] != id {
			continue
		}
		u := rowToUser(row)
		changed := false
		if profile.Warmmiete != nil && !floatEq(u.Warmmiete, profile.Warmmiete) {
			u.Warmmiete = profile.Warmmiete
			changed = true
		}
		if profile.Kaltmiete != nil && !floatEq(u.Kaltmiete, profile.Kaltmiete) {
			u.Kaltmiete = profile.Kaltmiete
			changed = true
		}
		if profile.ApartmentAreaM2 != nil && !floatEq(u.ApartmentAreaM2, profile.ApartmentAreaM2) {
			u.ApartmentAreaM2 = profile.ApartmentAreaM2
			changed = true
		}
		if changed {
			now := nowUTC()
			u.ProfileUpdatedAt = &now
		}
		rows[i] = userToRow(&u)
		if err := writeTable(s.path, userColumns, rows); err != nil {
			return nil, err
		}
		return &u, nil
	}
	return nil, ErrNotFound
}

func (s *UserStore) readRows() ([]map[string]string, error) {
	t, err := readTable(s.path)
	if err != nil {
		return nil, err
	}
	return t.rows, nil
}

func userToRow(u *domain.User) map[string]string {
	return map[string]string{
		"id":                  u.ID,
		"name":                u.Name,
		"email":               u.Email,
		"building_id":         u.BuildingID,
		"subscription_status": u.SubscriptionStatus,
		"warmmiete":           formatOptFloat(u.Warmmiete),
		"kaltmiete":           formatOptFloat(u.Kaltmiete),
		"apartment_area_m2":   formatOptFloat(u.ApartmentAreaM2),
		"profile_updated_at":  formatOptTime(u.ProfileUpdatedAt),
		"created_at":          formatTime(u.CreatedAt),
	}
}

func rowToUser(row map[string]string) domain.User {
	return domain.User{
		ID:                 row["id"],
		Name:               row["name"],
		Email:              row["email"],
		BuildingID:         row["building_id"],
		SubscriptionStatus: row["subscription_status"],
		Warmmiete:          fieldOptFloat(row, "warmmiete"),
		Kaltmiete:          fieldOptFloat(row, "kaltmiete"),
		ApartmentAreaM2:    fieldOptFloat(row, "apartment_area_m2"),
		ProfileUpdatedAt:   fieldOptTime(row, "profile_updated_at"),
		CreatedAt:          fieldTime(row, "created_at"),
	}
}

func floatEq(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
