package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukydev/fleet-insights/internal/models"
)

func TestSumByKey_CostByCategory(t *testing.T) {
	costs := []models.Cost{
		{Category: models.CostFuel, Amount: 100},
		{Category: models.CostFuel, Amount: 50},
		{Category: models.CostTolls, Amount: 20},
	}

	got := SumByKey(costs,
		func(c models.Cost) models.CostCategory { return c.Category },
		func(c models.Cost) float64 { return c.Amount })

	assert.Equal(t, []models.CostCategory{models.CostFuel, models.CostTolls}, got.Keys())
	assert.Equal(t, []float64{150, 20}, got.Values())
	assert.Equal(t, 170.0, got.Total())

	_, ok := got.Get(models.CostParking)
	assert.False(t, ok, "absent keys are not zero-filled")
}

func TestSumByKey_KeepsFirstOccurrenceOrder(t *testing.T) {
	type rec struct {
		k string
		v float64
	}
	records := []rec{{"b", 1}, {"a", 5}, {"b", 4}, {"c", 5}}

	got := SumByKey(records, func(r rec) string { return r.k }, func(r rec) float64 { return r.v })

	assert.Equal(t, []Entry[string, float64]{{"b", 5}, {"a", 5}, {"c", 5}}, got.Entries())
}

func TestCountByKey_VehicleStatus(t *testing.T) {
	vehicles := []models.Vehicle{
		{Status: models.VehicleActive},
		{Status: models.VehicleActive},
		{Status: models.VehicleIdle},
	}

	got := CountByKey(vehicles, func(v models.Vehicle) models.VehicleStatus { return v.Status })

	assert.Equal(t, []models.VehicleStatus{models.VehicleActive, models.VehicleIdle}, got.Keys())
	assert.Equal(t, []int{2, 1}, got.Values())
}

func TestEmptyInputs(t *testing.T) {
	var none []models.Cost
	amount := func(c models.Cost) float64 { return c.Amount }

	sums := SumByKey(none, func(c models.Cost) models.CostCategory { return c.Category }, amount)
	require.NotNil(t, sums)
	assert.Equal(t, 0, sums.Len())
	assert.Empty(t, sums.Entries())

	counts := CountByKey(none, func(c models.Cost) models.CostCategory { return c.Category })
	assert.Equal(t, 0, counts.Len())

	assert.Equal(t, 0.0, Average(none, amount))
	assert.Equal(t, 0.0, Sum(none, amount))
}

func TestAverage(t *testing.T) {
	vals := []float64{2, 4, 9}
	assert.InDelta(t, 5.0, Average(vals, func(v float64) float64 { return v }), 1e-9)
}

func TestSumByKey_DoesNotMutateInput(t *testing.T) {
	costs := []models.Cost{{Category: models.CostFuel, Amount: 1}, {Category: models.CostOther, Amount: 2}}
	before := append([]models.Cost(nil), costs...)

	SumByKey(costs, func(c models.Cost) models.CostCategory { return c.Category }, func(c models.Cost) float64 { return c.Amount })

	assert.Equal(t, before, costs)
}
