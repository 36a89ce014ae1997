package models

// MaintenanceType is the kind of work done in a maintenance record.
type MaintenanceType string

const (
	MaintenanceRegularService  MaintenanceType = "Regular Service"
	MaintenanceOilChange       MaintenanceType = "Oil Change"
	MaintenanceTireReplacement MaintenanceType = "Tire Replacement"
	MaintenanceBrakeService    MaintenanceType = "Brake Service"
	MaintenanceMajorRepair     MaintenanceType = "Major Repair"
	MaintenanceInspection      MaintenanceType = "Inspection"
	MaintenanceOther           MaintenanceType = "Other"
)

// MaintenanceStatus is the progress of a maintenance record.
type MaintenanceStatus string

const (
	MaintenanceScheduled  MaintenanceStatus = "Scheduled"
	MaintenanceInProgress MaintenanceStatus = "In Progress"
	MaintenanceCompleted  MaintenanceStatus = "Completed"
	MaintenanceCancelled  MaintenanceStatus = "Cancelled"
)

// Maintenance represents a vehicle maintenance record.
type Maintenance struct {
	ID                  ID                `bson:"_id,omitempty" json:"record_id"`
	VehicleID           ID                `bson:"vehicle_id" json:"vehicle_id"`
	MaintenanceType     MaintenanceType   `bson:"maintenance_type" json:"maintenance_type"`
	Date                Date              `bson:"date" json:"date"`
	Cost                float64           `bson:"cost" json:"cost"` // missing cost counts as zero
	NextMaintenanceDate *Date             `bson:"next_maintenance_date,omitempty" json:"next_maintenance_date,omitempty"`
	Status              MaintenanceStatus `bson:"status" json:"status"`
	Notes               string            `bson:"notes" json:"notes,omitempty"`
}
