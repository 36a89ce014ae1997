package telemetry

import (
	"time"

	"github.com/google/uuid"
	"github.com/ukydev/fleet-insights/internal/models"
)

// LiveVehicle is the dynamic state of one vehicle plus the identity fields
// needed to classify and report on it.
type LiveVehicle struct {
	VehicleID          models.ID            `json:"vehicle_id"`
	RegistrationNumber string               `json:"registration_number"`
	VehicleType        string               `json:"vehicle_type"`
	FuelType           string               `json:"fuel_type"`
	Capacity           float64              `json:"capacity"`
	Status             models.VehicleStatus `json:"status"`
	Location           models.Location      `json:"location"`
	Speed              float64              `json:"speed"`
	FuelLevel          float64              `json:"fuel_level"`
	MaintenanceScore   float64              `json:"maintenance_score"`
	LastMaintenance    *models.Date         `json:"last_maintenance,omitempty"`
	DriverID           *models.ID           `json:"driver_id,omitempty"`
}

// Vehicle converts the live state back into a vehicle record.
func (lv LiveVehicle) Vehicle() models.Vehicle {
	lat, lon := lv.Location.Lat, lv.Location.Lon
	return models.Vehicle{
		ID:                 lv.VehicleID,
		RegistrationNumber: lv.RegistrationNumber,
		VehicleType:        lv.VehicleType,
		FuelType:           lv.FuelType,
		Capacity:           lv.Capacity,
		Status:             lv.Status,
		Latitude:           &lat,
		Longitude:          &lon,
		Speed:              lv.Speed,
		FuelLevel:          lv.FuelLevel,
		MaintenanceScore:   lv.MaintenanceScore,
		LastMaintenance:    lv.LastMaintenance,
		DriverID:           lv.DriverID,
	}
}

// LiveDriver is the dynamic state of one driver.
type LiveDriver struct {
	DriverID   models.ID           `json:"driver_id"`
	Name       string              `json:"name"`
	Status     models.DriverStatus `json:"status"`
	TotalTrips int                 `json:"total_trips"`
	Rating     float64             `json:"rating"`
	RestHours  float64             `json:"rest_hours"`
}

// Driver converts the live state back into a driver record.
func (ld LiveDriver) Driver() models.Driver {
	return models.Driver{
		ID:         ld.DriverID,
		Name:       ld.Name,
		Status:     ld.Status,
		TotalTrips: ld.TotalTrips,
		Rating:     ld.Rating,
		RestHours:  ld.RestHours,
	}
}

// Snapshot is one immutable refresh of the fleet's live state. Vehicles and
// Drivers are keyed by id; the order slices keep the feed's ordering.
type Snapshot struct {
	ID         uuid.UUID                 `json:"id"`
	Sequence   uint64                    `json:"sequence"`
	TakenAt    time.Time                 `json:"taken_at"`
	VehicleIDs []models.ID               `json:"vehicle_ids"`
	DriverIDs  []models.ID               `json:"driver_ids"`
	Vehicles   map[models.ID]LiveVehicle `json:"vehicles"`
	Drivers    map[models.ID]LiveDriver  `json:"drivers"`
}

// Vehicle returns the live state of id.
func (s *Snapshot) Vehicle(id models.ID) (LiveVehicle, bool) {
	if s == nil {
		return LiveVehicle{}, false
	}
	lv, ok := s.Vehicles[id]
	return lv, ok
}

// Driver returns the live state of id.
func (s *Snapshot) Driver(id models.ID) (LiveDriver, bool) {
	if s == nil {
		return LiveDriver{}, false
	}
	ld, ok := s.Drivers[id]
	return ld, ok
}

// VehicleRecords lists the vehicles as records, in feed order.
func (s *Snapshot) VehicleRecords() []models.Vehicle {
	if s == nil {
		return nil
	}
	out := make([]models.Vehicle, 0, len(s.VehicleIDs))
	for _, id := range s.VehicleIDs {
		out = append(out, s.Vehicles[id].Vehicle())
	}
	return out
}

// DriverRecords lists the drivers as records, in feed order.
func (s *Snapshot) DriverRecords() []models.Driver {
	if s == nil {
		return nil
	}
	out := make([]models.Driver, 0, len(s.DriverIDs))
	for _, id := range s.DriverIDs {
		out = append(out, s.Drivers[id].Driver())
	}
	return out
}

// ActiveDriver returns the driver of the first active vehicle that has one.
func (s *Snapshot) ActiveDriver() (LiveDriver, bool) {
	if s == nil {
		return LiveDriver{}, false
	}
	for _, id := range s.VehicleIDs {
		lv := s.Vehicles[id]
		if lv.Status != models.VehicleActive || lv.DriverID == nil {
			continue
		}
		return s.Driver(*lv.DriverID)
	}
	return LiveDriver{}, false
}
