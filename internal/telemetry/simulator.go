// Package telemetry simulates the live tracking feed: it refreshes vehicle and
// driver state on a schedule and publishes immutable snapshots.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/models"
)

const (
	// MaxSpeedKmh and MaxFuelLevel bound the simulated values.
	MaxSpeedKmh  = 160.0
	MaxFuelLevel = 100.0
	MaxRating    = 5.0

	activeSpeedKmh   = 80.0
	positionJitter   = 0.01
	fuelBurnPerTick  = 0.5
	wearPerTick      = 0.2
	ratingGainOnTrip = 0.1
)

// Refresher produces the next snapshot from the previous one.
type Refresher interface {
	Refresh(ctx context.Context, previous *Snapshot) (*Snapshot, error)
}

// Simulator perturbs the fleet state returned by a TelemetryFeed. It stands
// in for a GPS feed; the output is fully determined by the seed, the feed
// payload and the previous snapshot.
type Simulator struct {
	feed fleet.TelemetryFeed
	seed int64
	now  func() time.Time
}

// NewSimulator creates a simulator reading from feed.
func NewSimulator(feed fleet.TelemetryFeed, seed int64) *Simulator {
	return &Simulator{feed: feed, seed: seed, now: time.Now}
}

// WithNow replaces the timestamp source used for TakenAt.
func (s *Simulator) WithNow(now func() time.Time) *Simulator {
	s.now = now
	return s
}

// Refresh fetches the fleet and returns a new snapshot. previous may be nil.
// Feed failures are reported as fleet.ErrDataUnavailable and no snapshot is
// returned; the caller keeps its last good one.
func (s *Simulator) Refresh(ctx context.Context, previous *Snapshot) (*Snapshot, error) {
	state, err := s.feed.FetchTelemetry(ctx)
	if err != nil {
		if errors.Is(err, fleet.ErrDataUnavailable) {
			return nil, fmt.Errorf("fetch telemetry: %w", err)
		}
		return nil, fmt.Errorf("fetch telemetry: %w: %v", fleet.ErrDataUnavailable, err)
	}
	if state == nil {
		return nil, fmt.Errorf("fetch telemetry: %w: empty payload", fleet.ErrDataUnavailable)
	}

	seq := uint64(1)
	if previous != nil {
		seq = previous.Sequence + 1
	}
	rng := rand.New(rand.NewSource(s.seed + int64(seq)*7919))

	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return nil, fmt.Errorf("snapshot id: %w", err)
	}

	next := &Snapshot{
		ID:         id,
		Sequence:   seq,
		TakenAt:    s.now(),
		VehicleIDs: make([]models.ID, 0, len(state.Vehicles)),
		DriverIDs:  make([]models.ID, 0, len(state.Drivers)),
		Vehicles:   make(map[models.ID]LiveVehicle, len(state.Vehicles)),
		Drivers:    make(map[models.ID]LiveDriver, len(state.Drivers)),
	}

	for _, v := range state.Vehicles {
		if _, dup := next.Vehicles[v.ID]; dup {
			continue
		}
		prev, ok := previous.Vehicle(v.ID)
		next.VehicleIDs = append(next.VehicleIDs, v.ID)
		next.Vehicles[v.ID] = perturbVehicle(rng, v, prev, ok)
	}
	for _, d := range state.Drivers {
		if _, dup := next.Drivers[d.ID]; dup {
			continue
		}
		prev, ok := previous.Driver(d.ID)
		next.DriverIDs = append(next.DriverIDs, d.ID)
		next.Drivers[d.ID] = perturbDriver(rng, d, prev, ok)
	}
	return next, nil
}

func perturbVehicle(rng *rand.Rand, v models.Vehicle, prev LiveVehicle, hasPrev bool) LiveVehicle {
	pos, ok := v.Position()
	if !ok {
		pos = models.DefaultLocation
	}
	fuel, score := v.FuelLevel, v.MaintenanceScore
	if hasPrev {
		pos, fuel, score = prev.Location, prev.FuelLevel, prev.MaintenanceScore
	}

	pos.Lat += jitter(rng, positionJitter)
	pos.Lon += jitter(rng, positionJitter)
	pos.Lat = fleet.Clamp(pos.Lat, -90, 90)
	pos.Lon = fleet.Clamp(pos.Lon, -180, 180)

	status := models.VehicleStatuses[rng.Intn(len(models.VehicleStatuses))]
	speed := 0.0
	if status == models.VehicleActive {
		speed = rng.Float64() * activeSpeedKmh
	}

	return LiveVehicle{
		VehicleID:          v.ID,
		RegistrationNumber: v.RegistrationNumber,
		VehicleType:        v.VehicleType,
		FuelType:           v.FuelType,
		Capacity:           v.Capacity,
		Status:             status,
		Location:           pos,
		Speed:              fleet.Clamp(speed, 0, MaxSpeedKmh),
		FuelLevel:          fleet.Clamp(fuel-rng.Float64()*fuelBurnPerTick, 0, MaxFuelLevel),
		MaintenanceScore:   fleet.ClampPercent(score - rng.Float64()*wearPerTick),
		LastMaintenance:    v.LastMaintenance,
		DriverID:           v.DriverID,
	}
}

func perturbDriver(rng *rand.Rand, d models.Driver, prev LiveDriver, hasPrev bool) LiveDriver {
	trips, rating := d.TotalTrips, d.Rating
	if hasPrev {
		trips, rating = prev.TotalTrips, prev.Rating
	}
	if trips < 0 {
		trips = 0
	}

	status := models.DriverStatuses[rng.Intn(len(models.DriverStatuses))]
	if status == models.DriverOnTrip {
		trips++
		rating += rng.Float64() * ratingGainOnTrip
	}

	return LiveDriver{
		DriverID:   d.ID,
		Name:       d.Name,
		Status:     status,
		TotalTrips: trips,
		Rating:     fleet.Clamp(rating, 0, MaxRating),
		RestHours:  d.RestHours,
	}
}

func jitter(rng *rand.Rand, amount float64) float64 {
	return (rng.Float64()*2 - 1) * amount
}
