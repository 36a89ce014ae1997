package models

// DriverStatus is the duty state of a driver.
type DriverStatus string

const (
	DriverAvailable DriverStatus = "Available"
	DriverOnTrip    DriverStatus = "On Trip"
	DriverOffDuty   DriverStatus = "Off Duty"
)

// DriverStatuses lists every driver status in display order.
var DriverStatuses = []DriverStatus{DriverAvailable, DriverOnTrip, DriverOffDuty}

// Driver represents a fleet driver.
type Driver struct {
	ID            ID           `bson:"_id,omitempty" json:"id"`
	Name          string       `bson:"name" json:"name"`
	LicenseNumber string       `bson:"license_number" json:"license_number"`
	LicenseExpiry *Date        `bson:"license_expiry,omitempty" json:"license_expiry,omitempty"`
	Phone         string       `bson:"phone" json:"phone,omitempty"`
	Email         string       `bson:"email" json:"email,omitempty"`
	Status        DriverStatus `bson:"status" json:"status"`
	TotalTrips    int          `bson:"total_trips" json:"total_trips"`
	Rating        float64      `bson:"rating" json:"rating"` // 0.0-5.0
	RestHours     float64      `bson:"rest_hours" json:"rest_hours"`
}
