// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP responses
// (via the `fail()` helper in this package). These codes provide clients with a stable,
// machine-readable error taxonomy that supplements human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and domain-agnostic unless explicitly noted.
//   - Generic codes (e.g., bad_request, conflict) mirror common HTTP status
//     semantics to aid interoperability.
//   - Domain-specific codes (e.g., no_applicable_measures) are reserved for
//     business logic errors that cannot be conveyed by status alone.
//   - All error responses must include both an HTTP status and one of these codes.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/services"
)

const (
	ErrCodeBadRequest   = "bad_request"
	ErrCodeUnauthorized = "unauthorized"
	ErrCodeForbidden    = "forbidden"
	ErrCodeNotFound     = "not_found"
	ErrCodeConflict     = "conflict"
	ErrCodeRateLimited  = "too_many_requests"
	ErrCodeInternal     = "internal_error"

	// Domain-specific:
	ErrCodeCreateFailed         = "create_failed"
	ErrCodeCalculationFailed    = "calculation_failed"
	ErrCodeNoApplicableMeasures = "no_applicable_measures"
	ErrCodeMethodNotAllowed     = "method_not_allowed"
)

// failService maps a service-layer error onto the HTTP error taxonomy. Every
// handler that delegates to a service routes its error through here so the
// status/code pairing stays uniform across endpoints.
func failService(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrMissingField):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrBuildingNotFound),
		errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrMeasureNotFound),
		errors.Is(err, services.ErrRequestNotFound),
		errors.Is(err, services.ErrRecommendationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, services.ErrNoApplicableMeasures):
		fail(c, http.StatusUnprocessableEntity, ErrCodeNoApplicableMeasures, err.Error())
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
	}
}
