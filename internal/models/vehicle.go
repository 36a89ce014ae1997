package models

// VehicleStatus is the operating state of a vehicle.
type VehicleStatus string

const (
	VehicleIdle        VehicleStatus = "Idle"
	VehicleActive      VehicleStatus = "Active"
	VehicleMaintenance VehicleStatus = "Maintenance"
)

// VehicleStatuses lists every vehicle status in display order.
var VehicleStatuses = []VehicleStatus{VehicleActive, VehicleIdle, VehicleMaintenance}

// Vehicle represents a fleet vehicle as served by the fleet API.
type Vehicle struct {
	ID                 ID            `bson:"_id,omitempty" json:"id"`
	RegistrationNumber string        `bson:"registration_number" json:"registration_number"`
	VehicleType        string        `bson:"vehicle_type" json:"vehicle_type"` // "Truck", "Van", ...
	Capacity           float64       `bson:"capacity" json:"capacity"`
	FuelType           string        `bson:"fuel_type" json:"fuel_type"` // "Diesel", "Petrol", ...
	Status             VehicleStatus `bson:"status" json:"status"`
	Latitude           *float64      `bson:"latitude,omitempty" json:"latitude,omitempty"`
	Longitude          *float64      `bson:"longitude,omitempty" json:"longitude,omitempty"`
	Speed              float64       `bson:"speed" json:"speed"`                         // km/h
	FuelLevel          float64       `bson:"fuel_level" json:"fuel_level"`               // percent
	MaintenanceScore   float64       `bson:"maintenance_score" json:"maintenance_score"` // 0-100, higher is healthier
	LastMaintenance    *Date         `bson:"last_maintenance,omitempty" json:"last_maintenance,omitempty"`
	DriverID           *ID           `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
}

// Position returns the reported position, if both coordinates are present.
func (v Vehicle) Position() (Location, bool) {
	if v.Latitude == nil || v.Longitude == nil {
		return Location{}, false
	}
	return Location{Lat: *v.Latitude, Lon: *v.Longitude}, true
}
