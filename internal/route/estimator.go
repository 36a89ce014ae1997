// Package route estimates the savings of an optimized route.
//
// The estimate is a simulation: savings are sampled from a seeded random
// source rather than computed by a routing engine. Replace the Estimator
// wholesale if a real optimizer becomes available.
package route

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
)

// MaxSavingPercent bounds the sampled fuel and time savings.
const MaxSavingPercent = 25.0

// Estimate is the simulated improvement for one vehicle.
type Estimate struct {
	VehicleID         models.ID `json:"vehicle_id"`
	FuelSavedPercent  float64   `json:"fuel_saved_percent"`
	TimeSavedPercent  float64   `json:"time_saved_percent"`
	CarbonReductionKg float64   `json:"carbon_reduction"`
}

// Estimator produces route estimates. It never writes to the fleet store.
type Estimator struct {
	vehicles fleet.VehicleLookup
	seed     int64
}

// NewEstimator creates an estimator whose samples are fixed by seed.
func NewEstimator(vehicles fleet.VehicleLookup, seed int64) *Estimator {
	return &Estimator{vehicles: vehicles, seed: seed}
}

// Estimate returns the simulated savings for vehicleID. Unknown vehicles
// yield fleet.ErrNotFound; lookup failures yield fleet.ErrDataUnavailable.
func (e *Estimator) Estimate(ctx context.Context, vehicleID models.ID) (Estimate, error) {
	vehicle, err := e.vehicles.FindVehicleByID(ctx, vehicleID)
	switch {
	case errors.Is(err, fleet.ErrNotFound):
		return Estimate{}, fmt.Errorf("vehicle %s: %w", vehicleID, fleet.ErrNotFound)
	case err != nil:
		if errors.Is(err, fleet.ErrDataUnavailable) {
			return Estimate{}, fmt.Errorf("lookup vehicle %s: %w", vehicleID, err)
		}
		return Estimate{}, fmt.Errorf("lookup vehicle %s: %w: %v", vehicleID, fleet.ErrDataUnavailable, err)
	case vehicle == nil:
		return Estimate{}, fmt.Errorf("vehicle %s: %w", vehicleID, fleet.ErrNotFound)
	}
	return e.estimateFor(*vehicle), nil
}

func (e *Estimator) estimateFor(v models.Vehicle) Estimate {
	rng := rand.New(rand.NewSource(fleet.DeriveSeed(e.seed, v.ID.String())))
	fuelSaved := rng.Float64() * MaxSavingPercent
	timeSaved := rng.Float64() * MaxSavingPercent

	return Estimate{
		VehicleID:         v.ID,
		FuelSavedPercent:  fuelSaved,
		TimeSavedPercent:  timeSaved,
		CarbonReductionKg: CarbonReduction(fuelSaved, v.FuelLevel),
	}
}

// CarbonReduction converts a fuel saving into kilograms of CO2 for a vehicle
// at fuelLevel percent.
func CarbonReduction(fuelSavedPercent, fuelLevel float64) float64 {
	return fuelSavedPercent / 100 * fleet.CarbonEstimateKg(fuelLevel)
}
