package models

// CostCategory classifies a cost entry.
type CostCategory string

const (
	CostFuel        CostCategory = "Fuel"
	CostMaintenance CostCategory = "Maintenance"
	CostServicing   CostCategory = "Servicing"
	CostInsurance   CostCategory = "Insurance"
	CostRepairs     CostCategory = "Repairs"
	CostTolls       CostCategory = "Tolls"
	CostParking     CostCategory = "Parking"
	CostOther       CostCategory = "Other"
)

// CostStatus is the approval state of a cost entry.
type CostStatus string

const (
	CostPending  CostStatus = "Pending"
	CostApproved CostStatus = "Approved"
	CostRejected CostStatus = "Rejected"
)

// Cost represents a fleet cost record.
type Cost struct {
	ID          ID           `bson:"_id,omitempty" json:"cost_id"`
	Date        Date         `bson:"date" json:"date"`
	Category    CostCategory `bson:"category" json:"category"`
	Amount      float64      `bson:"amount" json:"amount"`
	Description string       `bson:"description" json:"description,omitempty"`
	VehicleID   *ID          `bson:"vehicle_id,omitempty" json:"vehicle_id,omitempty"`
	DriverID    *ID          `bson:"driver_id,omitempty" json:"driver_id,omitempty"`
	ReceiptPath string       `bson:"receipt_path" json:"receipt_path,omitempty"`
	Status      CostStatus   `bson:"status" json:"status"`
}
