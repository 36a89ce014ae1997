package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(t time.Time) *time.Time { return &t }

func records() []models.Maintenance {
	return []models.Maintenance{
		{ID: "1", Date: models.NewDate(day(2024, time.January, 1))},
		{ID: "2", Date: models.NewDate(day(2024, time.February, 10))},
		{ID: "3", Date: models.NewDate(day(2024, time.March, 31))},
		{ID: "4", Date: models.NewDate(day(2024, time.April, 2))},
	}
}

func recordDate(m models.Maintenance) time.Time { return m.Date.Time }

func ids(recs []models.Maintenance) []models.ID {
	out := make([]models.ID, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.ID)
	}
	return out
}

func TestFilterByDateRange(t *testing.T) {
	tests := []struct {
		name     string
		r        Range
		expected []models.ID
	}{
		{"inclusive bounds", NewRange(ptr(day(2024, time.January, 1)), ptr(day(2024, time.March, 31))), []models.ID{"1", "2", "3"}},
		{"missing start is unfiltered", NewRange(nil, ptr(day(2024, time.January, 1))), []models.ID{"1", "2", "3", "4"}},
		{"missing end is unfiltered", NewRange(ptr(day(2024, time.April, 1)), nil), []models.ID{"1", "2", "3", "4"}},
		{"single day", NewRange(ptr(day(2024, time.February, 10)), ptr(day(2024, time.February, 10))), []models.ID{"2"}},
		{"inverted range is empty", NewRange(ptr(day(2024, time.March, 1)), ptr(day(2024, time.January, 1))), []models.ID{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByDateRange(records(), tt.r, recordDate)
			assert.Equal(t, tt.expected, ids(got))
		})
	}
}

func TestFilterByDateRange_Idempotent(t *testing.T) {
	r := NewRange(ptr(day(2024, time.February, 1)), ptr(day(2024, time.April, 30)))
	once := FilterByDateRange(records(), r, recordDate)
	twice := FilterByDateRange(once, r, recordDate)
	assert.Equal(t, once, twice)
}

func TestRange_Validate(t *testing.T) {
	assert.NoError(t, Range{}.Validate())
	assert.NoError(t, NewRange(ptr(day(2024, 1, 1)), ptr(day(2024, 1, 1))).Validate())
	assert.ErrorIs(t, NewRange(ptr(day(2024, 2, 1)), ptr(day(2024, 1, 1))).Validate(), fleet.ErrInvalidRange)
}

func TestMonthKey(t *testing.T) {
	assert.Equal(t, "2024-JAN", MonthOf(day(2024, time.January, 31)).String())
	assert.Equal(t, "0999-DEC", MonthKey{Year: 999, Month: time.December}.String())

	nairobi := time.FixedZone("EAT", 3*60*60)
	lateUTC := time.Date(2024, time.January, 31, 22, 0, 0, 0, time.UTC)
	assert.Equal(t, MonthKey{2024, time.February}, MonthOf(lateUTC.In(nairobi)), "month follows the record's location")
}

func TestSumByKey_CostByMonth(t *testing.T) {
	costs := []models.Cost{
		{Date: models.NewDate(day(2024, time.March, 3)), Amount: 10},
		{Date: models.NewDate(day(2024, time.January, 9)), Amount: 5},
		{Date: models.NewDate(day(2024, time.March, 20)), Amount: 7},
	}
	got := SumByKey(costs, func(c models.Cost) MonthKey { return MonthOf(c.Date.Time) }, func(c models.Cost) float64 { return c.Amount })

	assert.Equal(t, []MonthKey{{2024, time.March}, {2024, time.January}}, got.Keys())
	assert.Equal(t, []float64{17, 5}, got.Values())
}
