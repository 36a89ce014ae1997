package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukydev/fleet-insights/internal/models"
)

func TestSummarize(t *testing.T) {
	vehicles := []models.Vehicle{
		{RegistrationNumber: "KAA 001", Status: models.VehicleActive, FuelLevel: 50, Speed: 60},
		{RegistrationNumber: "KAA 002", Status: models.VehicleIdle, FuelLevel: 100, Speed: 0},
		{RegistrationNumber: "KAA 003", Status: models.VehicleActive, FuelLevel: 130, Speed: 300},
	}

	got := Summarize(vehicles)

	assert.Equal(t, 3, got.VehicleCount)
	assert.Equal(t, 2, got.ActiveVehicles)
	assert.InDelta(t, 250.0/3, got.AverageFuelLevel, 1e-9)
	assert.InDelta(t, 220.0/3, got.AverageSpeed, 1e-9)
	assert.InDelta(t, 250*2.68, got.TotalCarbonKg, 1e-9)
	assert.Len(t, got.CarbonByVehicle, 3)
	assert.Equal(t, "KAA 001", got.CarbonByVehicle[0].RegistrationNumber)
	assert.InDelta(t, 134.0, got.CarbonByVehicle[0].CarbonKg, 1e-9)
}

func TestSummarize_CarbonPerVehicleNotMerged(t *testing.T) {
	vehicles := []models.Vehicle{
		{ID: "1", RegistrationNumber: "KAA 001", FuelLevel: 10},
		{ID: "2", RegistrationNumber: "KAA 001", FuelLevel: 20},
		{ID: "3", FuelLevel: 30},
		{ID: "4", FuelLevel: 40},
	}

	got := Summarize(vehicles)

	assert.Len(t, got.CarbonByVehicle, 4)
	for i, vc := range got.CarbonByVehicle {
		assert.Equal(t, vehicles[i].ID, vc.VehicleID)
		assert.InDelta(t, vehicles[i].FuelLevel*2.68, vc.CarbonKg, 1e-9)
	}
}

func TestSummarize_Empty(t *testing.T) {
	got := Summarize(nil)
	assert.Equal(t, 0, got.VehicleCount)
	assert.Equal(t, 0, got.ActiveVehicles)
	assert.Equal(t, 0.0, got.AverageFuelLevel)
	assert.Equal(t, 0.0, got.TotalCarbonKg)
}

func TestCostStats(t *testing.T) {
	got := CostStats([]models.Cost{{Amount: 10}, {Amount: 30}})
	assert.Equal(t, CostSummary{Total: 40, Average: 20, Count: 2}, got)
	assert.Equal(t, CostSummary{}, CostStats(nil))
}
