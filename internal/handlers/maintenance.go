package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/maintenance"
	"github.com/ukydev/fleet-insights/internal/models"
)

type urgencyResponse struct {
	VehicleID            models.ID           `json:"vehicle_id"`
	RegistrationNumber   string              `json:"registration_number"`
	MaintenanceScore     float64             `json:"maintenance_score"`
	DaysSinceMaintenance int                 `json:"days_since_maintenance"`
	Status               maintenance.Urgency `json:"status"`
}

func (h *Handler) urgencyOf(v models.Vehicle) urgencyResponse {
	now := h.now()
	return urgencyResponse{
		VehicleID:            v.ID,
		RegistrationNumber:   v.RegistrationNumber,
		MaintenanceScore:     maintenance.ClampScore(v.MaintenanceScore),
		DaysSinceMaintenance: maintenance.DaysSince(v.LastMaintenance, now),
		Status:               maintenance.ClassifyAt(v, now),
	}
}

// VehicleMaintenance classifies one vehicle.
func (h *Handler) VehicleMaintenance(c *gin.Context) {
	id := models.ID(c.Param("id"))
	v, err := h.vehicles.FindVehicleByID(c.Request.Context(), id)
	if err == nil && v == nil {
		err = fmt.Errorf("vehicle %s: %w", id, fleet.ErrNotFound)
	}
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.urgencyOf(*v))
}

// MaintenanceUrgency classifies every vehicle and counts each level.
func (h *Handler) MaintenanceUrgency(c *gin.Context) {
	vehicles, err := h.source.ListVehicles(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	counts := make(map[maintenance.Urgency]int, len(maintenance.Levels))
	for _, level := range maintenance.Levels {
		counts[level] = 0
	}
	items := make([]urgencyResponse, 0, len(vehicles))
	for _, v := range vehicles {
		u := h.urgencyOf(v)
		counts[u.Status]++
		items = append(items, u)
	}
	c.JSON(http.StatusOK, gin.H{"counts": counts, "vehicles": items})
}
