// Request HTTP handlers.
//
// This file exposes REST endpoints for retrofit interest requests:
//   - POST /requests                   (submit or replace)
//   - GET  /users/{id}/request         (the user's single request)
//   - GET  /requests?building_id=b1    (requests targeting a building)
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/domain"
)

// SubmitRequestRequest is the JSON payload for submitting a retrofit
// interest request. A user has at most one request; resubmitting moves it.
type SubmitRequestRequest struct {
	UserID     string `json:"user_id" binding:"required" example:"141add05-4415-4938-b5a1-17e0d3171aff"`
	BuildingID string `json:"building_id" binding:"required" example:"b1"`
	Status     string `json:"status" example:"pending"`
}

// SubmitRequest records or replaces the retrofit request of a user.
//
// POST /requests
func (h *Handlers) SubmitRequest(c *gin.Context) {
	var req SubmitRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	r, err := h.requests.Submit(req.UserID, req.BuildingID, req.Status)
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusCreated, r)
}

// GetUserRequest returns the single request of a user.
//
// GET /users/{id}/request
func (h *Handlers) GetUserRequest(c *gin.Context) {
	r, err := h.requests.GetByUser(c.Param("id"))
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, r)
}

// ListRequests returns requests filtered by user or building. With user_id
// the result holds at most the user's single request.
//
// GET /requests?user_id=u1 or GET /requests?building_id=b1
func (h *Handlers) ListRequests(c *gin.Context) {
	uid := strings.TrimSpace(c.Query("user_id"))
	bid := strings.TrimSpace(c.Query("building_id"))

	switch {
	case uid != "":
		list := []domain.Request{}
		r, err := h.requests.GetByUser(uid)
		if err == nil {
			list = append(list, *r)
		}
		ok(c, http.StatusOK, gin.H{"requests": list})
	case bid != "":
		list, err := h.requests.ListByBuilding(bid)
		if err != nil {
			failService(c, err)
			return
		}
		ok(c, http.StatusOK, gin.H{"requests": list})
	default:
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id or building_id required")
	}
}
