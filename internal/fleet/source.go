// Package fleet defines the read contract between the analytics core and the
// fleet API that owns vehicles, drivers, costs and maintenance records.
package fleet

import (
	"context"
	"errors"
	"fmt"

	"github.com/ukydev/fleet-insights/internal/models"
)

// Source lists the entity collections the reports are built from.
type Source interface {
	ListVehicles(ctx context.Context) ([]models.Vehicle, error)
	ListDrivers(ctx context.Context) ([]models.Driver, error)
	ListCosts(ctx context.Context) ([]models.Cost, error)
	ListMaintenanceRecords(ctx context.Context) ([]models.Maintenance, error)
}

// TelemetryFeed returns the current vehicles and drivers for a telemetry refresh.
type TelemetryFeed interface {
	FetchTelemetry(ctx context.Context) (*FleetState, error)
}

// VehicleLookup resolves a single vehicle. Implementations return an error
// wrapping ErrNotFound when the id does not exist.
type VehicleLookup interface {
	FindVehicleByID(ctx context.Context, id models.ID) (*models.Vehicle, error)
}

// FleetState is the payload of the telemetry feed.
type FleetState struct {
	Vehicles []models.Vehicle `json:"vehicles"`
	Drivers  []models.Driver  `json:"drivers"`
}

// Entities bundles every collection a report may need.
type Entities struct {
	Vehicles    []models.Vehicle
	Drivers     []models.Driver
	Costs       []models.Cost
	Maintenance []models.Maintenance
}

// VehicleIndex maps vehicle ids to vehicles.
func (e Entities) VehicleIndex() map[models.ID]models.Vehicle {
	idx := make(map[models.ID]models.Vehicle, len(e.Vehicles))
	for _, v := range e.Vehicles {
		idx[v.ID] = v
	}
	return idx
}

// DriverIndex maps driver ids to drivers.
func (e Entities) DriverIndex() map[models.ID]models.Driver {
	idx := make(map[models.ID]models.Driver, len(e.Drivers))
	for _, d := range e.Drivers {
		idx[d.ID] = d
	}
	return idx
}

// LoadEntities reads all four collections from src. Any failure is reported
// as ErrDataUnavailable.
func LoadEntities(ctx context.Context, src Source) (Entities, error) {
	var (
		out Entities
		err error
	)
	if out.Vehicles, err = src.ListVehicles(ctx); err != nil {
		return Entities{}, unavailable("vehicles", err)
	}
	if out.Drivers, err = src.ListDrivers(ctx); err != nil {
		return Entities{}, unavailable("drivers", err)
	}
	if out.Costs, err = src.ListCosts(ctx); err != nil {
		return Entities{}, unavailable("costs", err)
	}
	if out.Maintenance, err = src.ListMaintenanceRecords(ctx); err != nil {
		return Entities{}, unavailable("maintenance records", err)
	}
	return out, nil
}

func unavailable(what string, err error) error {
	if errors.Is(err, ErrDataUnavailable) {
		return fmt.Errorf("list %s: %w", what, err)
	}
	return fmt.Errorf("list %s: %w: %v", what, ErrDataUnavailable, err)
}
