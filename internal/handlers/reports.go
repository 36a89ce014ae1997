package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ukydev/fleet-insights/internal/aggregate"
	"github.com/ukydev/fleet-insights/internal/export"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
	"github.com/ukydev/fleet-insights/internal/report"
)

// ListReports lists the available report types.
func (h *Handler) ListReports(c *gin.Context) {
	out := make([]gin.H, 0, len(report.Types))
	for _, t := range report.Types {
		out = append(out, gin.H{"type": t, "title": t.Title()})
	}
	c.JSON(http.StatusOK, out)
}

// Report builds a report as JSON.
func (h *Handler) Report(c *gin.Context) {
	p, ok := h.buildReport(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, p)
}

// ExportReport builds a report and returns it as a file download.
func (h *Handler) ExportReport(c *gin.Context) {
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	p, ok := h.buildReport(c)
	if !ok {
		return
	}

	body, err := export.Render(p, format)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, export.FileName(p, format)))
	c.Data(http.StatusOK, format.ContentType(), body)
}

func (h *Handler) buildReport(c *gin.Context) (*report.Payload, bool) {
	t, err := report.ParseType(c.Param("type"))
	if err != nil {
		h.handleError(c, fmt.Errorf("%w: %q", err, c.Param("type")))
		return nil, false
	}
	dateRange, err := parseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		badRequest(c, err.Error())
		return nil, false
	}

	entities, err := fleet.LoadEntities(c.Request.Context(), h.source)
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	p, err := h.reports.Build(t, entities, dateRange)
	if err != nil {
		h.handleError(c, err)
		return nil, false
	}
	return p, true
}

// parseRange reads optional from/to dates. The to date covers its whole day.
func parseRange(from, to string) (*aggregate.Range, error) {
	if from == "" && to == "" {
		return nil, nil
	}
	var start, end *time.Time
	if from != "" {
		d, err := models.ParseDate(from)
		if err != nil {
			return nil, fmt.Errorf("invalid from date %q", from)
		}
		start = &d.Time
	}
	if to != "" {
		d, err := models.ParseDate(to)
		if err != nil {
			return nil, fmt.Errorf("invalid to date %q", to)
		}
		t := d.Time
		if len(to) == len(time.DateOnly) {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		end = &t
	}
	r := aggregate.NewRange(start, end)
	return &r, nil
}
