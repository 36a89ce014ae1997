// Package maintenance classifies how urgently a vehicle needs servicing.
package maintenance

import (
	"time"

	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
)

// Urgency is the three-way maintenance classification.
type Urgency string

const (
	NeedsService Urgency = "Needs Service"
	ScheduleSoon Urgency = "Schedule Soon"
	Good         Urgency = "Good"
)

// Levels lists every urgency from most to least urgent.
var Levels = []Urgency{NeedsService, ScheduleSoon, Good}

const (
	// NeverServicedDays is assumed when a vehicle has no maintenance date.
	NeverServicedDays = 365

	needsServiceScore = 30
	needsServiceDays  = 180
	scheduleSoonScore = 50
	scheduleSoonDays  = 120
)

// Classify evaluates v against the current time.
func Classify(v models.Vehicle) Urgency {
	return ClassifyAt(v, time.Now())
}

// ClassifyAt evaluates v as of now. The first matching rule wins.
func ClassifyAt(v models.Vehicle, now time.Time) Urgency {
	score := ClampScore(v.MaintenanceScore)
	days := DaysSince(v.LastMaintenance, now)

	switch {
	case score < needsServiceScore || days > needsServiceDays:
		return NeedsService
	case score < scheduleSoonScore || days > scheduleSoonDays:
		return ScheduleSoon
	default:
		return Good
	}
}

// DaysSince returns whole days elapsed between last and now. A missing date
// counts as NeverServicedDays and a future date as zero.
func DaysSince(last *models.Date, now time.Time) int {
	if last == nil || last.IsZero() {
		return NeverServicedDays
	}
	elapsed := now.Sub(last.Time)
	if elapsed <= 0 {
		return 0
	}
	return int(elapsed / (24 * time.Hour))
}

// ClampScore bounds a maintenance score to [0, 100]. NaN counts as zero.
func ClampScore(score float64) float64 {
	return fleet.ClampPercent(score)
}
