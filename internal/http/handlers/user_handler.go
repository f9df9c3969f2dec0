// User HTTP handlers.
//
// This file exposes REST endpoints for user registration and profile
// maintenance:
//   - POST  /users                (register)
//   - GET   /users/{id}           (fetch)
//   - PATCH /users/{id}           (update rent/area profile)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/repo"
	"github.com/viabcheck/eco-backend/internal/services"
)

// CreateUserRequest is the JSON payload for registering a user.
type CreateUserRequest struct {
	Name               string   `json:"name" binding:"required" example:"Ada Lovelace"`
	Email              string   `json:"email" binding:"required" example:"ada@example.com"`
	BuildingID         string   `json:"building_id" binding:"required" example:"b1"`
	SubscriptionStatus string   `json:"subscription_status" example:"free"`
	Warmmiete          *float64 `json:"warmmiete,omitempty"`
	Kaltmiete          *float64 `json:"kaltmiete,omitempty"`
	ApartmentAreaM2    *float64 `json:"apartment_area_m2,omitempty"`
}

// UpdateProfileRequest is the JSON payload for a profile update. Absent
// fields are left untouched.
type UpdateProfileRequest struct {
	Warmmiete       *float64 `json:"warmmiete,omitempty"`
	Kaltmiete       *float64 `json:"kaltmiete,omitempty"`
	ApartmentAreaM2 *float64 `json:"apartment_area_m2,omitempty"`
}

// CreateUser registers a new user for a building.
//
// POST /users
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.Create(services.CreateUserInput{
		Name:               req.Name,
		Email:              req.Email,
		BuildingID:         req.BuildingID,
		SubscriptionStatus: req.SubscriptionStatus,
		Profile: repo.UserProfile{
			Warmmiete:       req.Warmmiete,
			Kaltmiete:       req.Kaltmiete,
			ApartmentAreaM2: req.ApartmentAreaM2,
		},
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetUser returns a user by ID.
//
// GET /users/{id}
func (h *Handlers) GetUser(c *gin.Context) {
	u, err := h.users.Get(c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}

// UpdateUserProfile applies the provided profile fields to a user.
//
// PATCH /users/{id}
func (h *Handlers) UpdateUserProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	u, err := h.users.UpdateProfile(c.Param("id"), repo.UserProfile{
		Warmmiete:       req.Warmmiete,
		Kaltmiete:       req.Kaltmiete,
		ApartmentAreaM2: req.ApartmentAreaM2,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, u)
}
