package services

import (
	"strings"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// RequestRecords is the mutable request store consumed by the request service.
type RequestRecords interface {
	Upsert(userID, buildingID, status string) (*domain.Request, error)
	GetByUser(userID string) (*domain.Request, error)
	ListByBuilding(buildingID string) ([]domain.Request, error)
}

// UserLookup resolves users by ID.
type UserLookup interface {
	GetByID(id string) (*domain.User, error)
}

// RequestService handles retrofit interest requests. A user has at most one
// request; resubmitting replaces the building and status in place.
type RequestService struct {
	Requests  RequestRecords
	Users     UserLookup
	Buildings BuildingSource
}

// Submit records (or replaces) the request of a user for a building. The user
// and the building must both exist.
func (s *RequestService) Submit(userID, buildingID, status string) (*domain.Request, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(buildingID) == "" {
		return nil, ErrMissingField
	}
	if _, err := s.Users.GetByID(userID); err != nil {
		return nil, ErrUserNotFound
	}
	if _, err := s.Buildings.GetByID(buildingID); err != nil {
		return nil, ErrBuildingNotFound
	}
	return s.Requests.Upsert(userID, buildingID, status)
}

// GetByUser returns the single request of a user.
func (s *RequestService) GetByUser(userID string) (*domain.Request, error) {
	r, err := s.Requests.GetByUser(userID)
	if err != nil {
		return nil, ErrRequestNotFound
	}
	return r, nil
}

// ListByBuilding returns every request targeting a building.
func (s *RequestService) ListByBuilding(buildingID string) ([]domain.Request, error) {
	return s.Requests.ListByBuilding(buildingID)
}
