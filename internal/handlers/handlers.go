// Package handlers exposes the fleet insights over HTTP.
package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/ukydev/fleet-insights/internal/export"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/report"
	"github.com/ukydev/fleet-insights/internal/route"
	"github.com/ukydev/fleet-insights/internal/telemetry"
)

// StaleHeader is set on telemetry responses served from a snapshot whose
// last refresh failed.
const StaleHeader = "X-Telemetry-Stale"

// Handler serves the insights API.
type Handler struct {
	snapshots *telemetry.SnapshotStore
	source    fleet.Source
	vehicles  fleet.VehicleLookup
	estimator *route.Estimator
	reports   *report.Builder
	log       logrus.FieldLogger
	now       func() time.Time
}

// Deps are the collaborators of a Handler.
type Deps struct {
	Snapshots *telemetry.SnapshotStore
	Source    fleet.Source
	Vehicles  fleet.VehicleLookup
	Estimator *route.Estimator
	Reports   *report.Builder
	Log       logrus.FieldLogger
}

// New creates a handler.
func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		snapshots: d.Snapshots,
		source:    d.Source,
		vehicles:  d.Vehicles,
		estimator: d.Estimator,
		reports:   d.Reports,
		log:       log,
		now:       time.Now,
	}
}

// Register mounts the routes on r.
func (h *Handler) Register(r gin.IRouter) {
	r.GET("/health", h.Health)

	api := r.Group("/api")
	api.GET("/telemetry", h.Telemetry)
	api.GET("/summary", h.Summary)
	api.GET("/vehicles/:id/maintenance", h.VehicleMaintenance)
	api.GET("/maintenance/urgency", h.MaintenanceUrgency)
	api.POST("/optimize-route", h.OptimizeRoute)
	api.GET("/reports", h.ListReports)
	api.GET("/reports/:type", h.Report)
	api.GET("/reports/:type/export", h.ExportReport)
}

// Health reports liveness and the telemetry state.
func (h *Handler) Health(c *gin.Context) {
	body := gin.H{"status": "ok", "time": h.now().UTC()}
	if snap := h.snapshots.Load(); snap != nil {
		body["snapshot_sequence"] = snap.Sequence
		body["snapshot_taken_at"] = snap.TakenAt
	}
	body["telemetry_stale"] = h.snapshots.Stale()
	c.JSON(http.StatusOK, body)
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fleet.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, report.ErrUnknownReport):
		status = http.StatusNotFound
	case errors.Is(err, fleet.ErrInvalidRange), errors.Is(err, export.ErrUnsupportedFormat):
		status = http.StatusBadRequest
	case errors.Is(err, fleet.ErrDataUnavailable):
		status = http.StatusServiceUnavailable
	}

	entry := h.log.WithError(err).WithField("path", c.Request.URL.Path)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": msg})
}
