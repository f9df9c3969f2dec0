// Recommendation HTTP handlers.
//
// This file exposes REST endpoints for stored recommendations:
//   - POST /recommendations                      (generate and append)
//   - GET  /recommendations/{building_id}        (latest for a building)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GenerateRecommendationRequest is the JSON payload for a recommendation run.
type GenerateRecommendationRequest struct {
	BuildingID string `json:"building_id" binding:"required" example:"b1"`
}

// GenerateRecommendation computes and stores a recommendation for a building.
//
// POST /recommendations
func (h *Handlers) GenerateRecommendation(c *gin.Context) {
	var req GenerateRecommendationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	rec, err := h.recs.Generate(c.Request.Context(), req.BuildingID)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, rec)
}

// GetLatestRecommendation returns the most recent recommendation stored for
// a building.
//
// GET /recommendations/{building_id}
func (h *Handlers) GetLatestRecommendation(c *gin.Context) {
	rec, err := h.recs.Latest(c.Param("building_id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, rec)
}
