package services

import (
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/viabcheck/eco-backend/internal/domain"
	"github.com/viabcheck/eco-backend/internal/repo"
)

// CreateUserInput is the validated shape of a registration.
type CreateUserInput struct {
	Name               string
	Email              string
	BuildingID         string
	SubscriptionStatus string
	Profile            repo.UserProfile
}

// UserRecords is the mutable user store consumed by the user service.
type UserRecords interface {
	Create(name, email, buildingID, subscriptionStatus string, profile repo.UserProfile) (*domain.User, error)
	GetByID(id string) (*domain.User, error)
	UpdateProfile(id string, profile repo.UserProfile) (*domain.User, error)
	CountByBuilding(buildingID string) (int, error)
}

// UserService handles registration and profile updates.
type UserService struct {
	Users     UserRecords
	Buildings BuildingSource
}

// Create validates and registers a new user. Name, email, and building ID are
// required; the building must exist in the catalog. After a successful
// registration the number of neighbors already registered for the same
// building is logged for the engagement funnel.
func (s *UserService) Create(in CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(in.Name) == "" ||
		strings.TrimSpace(in.Email) == "" ||
		strings.TrimSpace(in.BuildingID) == "" {
		return nil, ErrMissingField
	}
	if !strings.Contains(in.Email, "@") {
		return nil, ErrMissingField
	}
	if _, err := s.Buildings.GetByID(in.BuildingID); err != nil {
		return nil, ErrBuildingNotFound
	}

	u, err := s.Users.Create(in.Name, in.Email, in.BuildingID, in.SubscriptionStatus, in.Profile)
	if err != nil {
		return nil, err
	}

	if n, err := s.Users.CountByBuilding(u.BuildingID); err == nil {
		log.Info().
			Str("user_id", u.ID).
			Str("building_id", u.BuildingID).
			Int("registered_neighbors", n-1).
			Msg("user registered")
	}
	return u, nil
}

// Get returns a user by ID.
func (s *UserService) Get(id string) (*domain.User, error) {
	u, err := s.Users.GetByID(id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// UpdateProfile applies the non-nil profile fields to a user.
func (s *UserService) UpdateProfile(id string, profile repo.UserProfile) (*domain.User, error) {
	u, err := s.Users.UpdateProfile(id, profile)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// NeighborCount returns how many users are registered for a building.
func (s *UserService) NeighborCount(buildingID string) (int, error) {
	return s.Users.CountByBuilding(buildingID)
}
