package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-insights/internal/models"
)

type optimizeRouteRequest struct {
	VehicleID models.ID `json:"vehicle_id"`
}

// OptimizeRoute returns the simulated savings for a vehicle. The id comes
// from the JSON body or, failing that, the vehicle_id query parameter.
func (h *Handler) OptimizeRoute(c *gin.Context) {
	var req optimizeRouteRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "invalid request body")
			return
		}
	}
	if req.VehicleID.IsZero() {
		req.VehicleID = models.ID(c.Query("vehicle_id"))
	}
	if req.VehicleID.IsZero() {
		badRequest(c, "vehicle_id is required")
		return
	}

	est, err := h.estimator.Estimate(c.Request.Context(), req.VehicleID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, est)
}
