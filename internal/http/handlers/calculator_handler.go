// Calculator HTTP handler.
//
// POST /calculator runs the whole-building window retrofit calculation:
// glazing cost over the window area, subsidy, energy savings, and the
// landlord's rent-increase break-even.
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/viabcheck/eco-backend/internal/services"
)

// CalculatorRequest is the JSON payload for a calculator run. All override
// fields are optional; absent fields resolve from building data, derived
// values, or defaults.
type CalculatorRequest struct {
	// BuildingID identifies the catalog building the calculation is for.
	BuildingID string `json:"building_id" binding:"required" example:"b1"`
	// SubTypeOfRetrofit selects the glazing variant.
	SubTypeOfRetrofit string `json:"SubTypeOfRetrofit" example:"Window replacement - triple glazing"`

	TotalSqm            *float64 `json:"TotalSqm,omitempty"`
	NrUnits             *int     `json:"NrUnits,omitempty"`
	WindowType          *string  `json:"WindowType,omitempty"`
	EnergyCostsPerMonth *float64 `json:"EnergyCostsPerMonth,omitempty"`
	RentPerUnit         *float64 `json:"RentPerUnit,omitempty"`
	WindowToFloorRatio  *float64 `json:"WindowToFloorRatio,omitempty"`
}

// RunCalculator executes the window retrofit calculation.
//
// POST /calculator
func (h *Handlers) RunCalculator(c *gin.Context) {
	var req CalculatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	subType := strings.TrimSpace(req.SubTypeOfRetrofit)
	if subType == "" {
		subType = "Window replacement - triple glazing"
	}

	res, err := h.calc.Run(req.BuildingID, subType, services.CalculatorOverrides{
		TotalSqm:            req.TotalSqm,
		NrUnits:             req.NrUnits,
		WindowType:          req.WindowType,
		EnergyCostsPerMonth: req.EnergyCostsPerMonth,
		RentPerUnit:         req.RentPerUnit,
		WindowToFloorRatio:  req.WindowToFloorRatio,
	})
	if err != nil {
		failService(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}
