package maintenance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-insights/internal/models"
)

var now = time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *models.Date {
	d := models.NewDate(now.Add(-time.Duration(n) * 24 * time.Hour))
	return &d
}

func TestClassifyAt(t *testing.T) {
	tests := []struct {
		name     string
		score    float64
		last     *models.Date
		expected Urgency
	}{
		{"low score never serviced", 25, nil, NeedsService},
		{"healthy and recent", 60, daysAgo(10), Good},
		{"healthy but never serviced", 90, nil, NeedsService},
		{"score just below 30", 29.9, daysAgo(1), NeedsService},
		{"score at 30 is schedule soon", 30, daysAgo(1), ScheduleSoon},
		{"score at 50 is good", 50, daysAgo(1), Good},
		{"181 days", 90, daysAgo(181), NeedsService},
		{"180 days is schedule soon", 90, daysAgo(180), ScheduleSoon},
		{"121 days", 90, daysAgo(121), ScheduleSoon},
		{"120 days is good", 90, daysAgo(120), Good},
		{"future maintenance date", 90, daysAgo(-5), Good},
		{"negative score clamps to zero", -40, daysAgo(1), NeedsService},
		{"score above range clamps to 100", 250, daysAgo(1), Good},
		{"NaN score", math.NaN(), daysAgo(1), NeedsService},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := models.Vehicle{MaintenanceScore: tt.score, LastMaintenance: tt.last}
			assert.Equal(t, tt.expected, ClassifyAt(v, now))
		})
	}
}

func TestClassifyAt_IsTotal(t *testing.T) {
	for score := -50.0; score <= 150; score += 7.5 {
		for _, days := range []int{-30, 0, 60, 121, 181, 400} {
			got := ClassifyAt(models.Vehicle{MaintenanceScore: score, LastMaintenance: daysAgo(days)}, now)
			assert.Contains(t, Levels, got)
		}
	}
}

func TestDaysSince(t *testing.T) {
	assert.Equal(t, NeverServicedDays, DaysSince(nil, now))
	assert.Equal(t, NeverServicedDays, DaysSince(&models.Date{}, now))
	assert.Equal(t, 0, DaysSince(daysAgo(-3), now))

	partial := models.NewDate(now.Add(-(47 * time.Hour)))
	assert.Equal(t, 1, DaysSince(&partial, now))
}

func TestClassify_UsesWallClock(t *testing.T) {
	recent := models.NewDate(time.Now().Add(-24 * time.Hour))
	assert.Equal(t, Good, Classify(models.Vehicle{MaintenanceScore: 80, LastMaintenance: &recent}))
}
