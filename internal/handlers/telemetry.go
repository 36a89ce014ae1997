package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-insights/internal/aggregate"
	"github.com/ukydev/fleet-insights/internal/telemetry"
)

// Telemetry returns the latest snapshot.
func (h *Handler) Telemetry(c *gin.Context) {
	snap := h.snapshots.Load()
	if snap == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "telemetry not available yet"})
		return
	}
	if h.snapshots.Stale() {
		c.Header(StaleHeader, "true")
	}
	c.JSON(http.StatusOK, snapshotResponse(snap))
}

type telemetryResponse struct {
	ID       string                  `json:"id"`
	Sequence uint64                  `json:"sequence"`
	TakenAt  time.Time               `json:"taken_at"`
	Vehicles []telemetry.LiveVehicle `json:"vehicles"`
	Drivers  []telemetry.LiveDriver  `json:"drivers"`
	Summary  aggregate.FleetSummary  `json:"summary"`
}

func snapshotResponse(snap *telemetry.Snapshot) telemetryResponse {
	resp := telemetryResponse{
		ID:       snap.ID.String(),
		Sequence: snap.Sequence,
		TakenAt:  snap.TakenAt,
		Vehicles: make([]telemetry.LiveVehicle, 0, len(snap.VehicleIDs)),
		Drivers:  make([]telemetry.LiveDriver, 0, len(snap.DriverIDs)),
		Summary:  aggregate.Summarize(snap.VehicleRecords()),
	}
	for _, id := range snap.VehicleIDs {
		resp.Vehicles = append(resp.Vehicles, snap.Vehicles[id])
	}
	for _, id := range snap.DriverIDs {
		resp.Drivers = append(resp.Drivers, snap.Drivers[id])
	}
	return resp
}

// Summary returns the fleet dashboard figures, from the live snapshot when
// one exists and from the fleet records otherwise.
func (h *Handler) Summary(c *gin.Context) {
	if snap := h.snapshots.Load(); snap != nil {
		c.JSON(http.StatusOK, gin.H{"source": "telemetry", "summary": aggregate.Summarize(snap.VehicleRecords())})
		return
	}
	vehicles, err := h.source.ListVehicles(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"source": "records", "summary": aggregate.Summarize(vehicles)})
}
