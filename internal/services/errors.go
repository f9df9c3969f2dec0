// Package services implements the business logic of the retrofit backend:
// measure applicability and economics, the window retrofit calculator,
// building lookups with prefill, and the user/request/recommendation
// lifecycles. This file centralizes the service-level error values so that
// handlers can map them to HTTP responses consistently.
package services

import "errors"

var (
	// ErrBuildingNotFound indicates that no building matches the given
	// address slug or building identifier.
	ErrBuildingNotFound = errors.New("building not found")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrMeasureNotFound indicates that the requested measure does not
	// exist in the catalog.
	ErrMeasureNotFound = errors.New("measure not found")

	// ErrNoApplicableMeasures is returned when a recommendation is requested
	// for a building that has no applicable measures left.
	ErrNoApplicableMeasures = errors.New("no applicable measures for this building")

	// ErrRecommendationNotFound indicates that a building has no stored
	// recommendation yet.
	ErrRecommendationNotFound = errors.New("no recommendation for this building")

	// ErrRequestNotFound indicates that a user has no submitted request.
	ErrRequestNotFound = errors.New("request not found")

	// ErrMissingField is returned when a required request field is blank.
	ErrMissingField = errors.New("required field missing")
)
