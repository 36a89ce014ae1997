package aggregate

import (
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
)

// FleetSummary holds the fleet-wide dashboard figures.
type FleetSummary struct {
	VehicleCount     int             `json:"vehicle_count"`
	ActiveVehicles   int             `json:"active_vehicles"`
	AverageFuelLevel float64         `json:"average_fuel_level"`
	AverageSpeed     float64         `json:"average_speed"`
	TotalCarbonKg    float64         `json:"total_carbon_kg"`
	CarbonByVehicle  []VehicleCarbon `json:"carbon_by_vehicle"`
}

// VehicleCarbon is one vehicle's carbon estimate.
type VehicleCarbon struct {
	VehicleID          models.ID `json:"vehicle_id"`
	RegistrationNumber string    `json:"registration_number"`
	CarbonKg           float64   `json:"carbon_kg"`
}

// Summarize computes the fleet summary. Fuel levels and speeds are clamped
// before averaging.
func Summarize(vehicles []models.Vehicle) FleetSummary {
	fuel := func(v models.Vehicle) float64 { return fleet.ClampPercent(v.FuelLevel) }
	speed := func(v models.Vehicle) float64 { return fleet.Clamp(v.Speed, 0, MaxSpeedKmh) }
	carbon := func(v models.Vehicle) float64 { return fleet.CarbonEstimateKg(v.FuelLevel) }

	perVehicle := make([]VehicleCarbon, 0, len(vehicles))
	for _, v := range vehicles {
		perVehicle = append(perVehicle, VehicleCarbon{VehicleID: v.ID, RegistrationNumber: v.RegistrationNumber, CarbonKg: carbon(v)})
	}

	active, _ := CountByKey(vehicles, func(v models.Vehicle) models.VehicleStatus { return v.Status }).Get(models.VehicleActive)

	return FleetSummary{
		VehicleCount:     len(vehicles),
		ActiveVehicles:   active,
		AverageFuelLevel: Average(vehicles, fuel),
		AverageSpeed:     Average(vehicles, speed),
		TotalCarbonKg:    Sum(vehicles, carbon),
		CarbonByVehicle:  perVehicle,
	}
}

// MaxSpeedKmh is the upper bound applied to reported speeds.
const MaxSpeedKmh = 160

// CostSummary holds aggregate cost figures.
type CostSummary struct {
	Total   float64 `json:"total"`
	Average float64 `json:"average"`
	Count   int     `json:"count"`
}

// CostStats totals, averages and counts costs.
func CostStats(costs []models.Cost) CostSummary {
	amount := func(c models.Cost) float64 { return c.Amount }
	return CostSummary{
		Total:   Sum(costs, amount),
		Average: Average(costs, amount),
		Count:   len(costs),
	}
}
