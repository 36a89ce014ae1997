package fleet

import "math"

// CarbonKgPerFuelUnit converts one percent-unit of fuel into kilograms of CO2.
const CarbonKgPerFuelUnit = 2.68

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// ClampPercent bounds v to [0, 100].
func ClampPercent(v float64) float64 {
	return Clamp(v, 0, 100)
}

// CarbonEstimateKg is the fleet-wide CO2 convention applied to a fuel level.
func CarbonEstimateKg(fuelLevel float64) float64 {
	return ClampPercent(fuelLevel) * CarbonKgPerFuelUnit
}
