package report

import (
	"fmt"
	"math/rand"
	"sort"
	"strconv"
	"time"

	"github.com/ukydev/fleet-insights/internal/aggregate"
	"github.com/ukydev/fleet-insights/internal/fleet"
	"github.com/ukydev/fleet-insights/internal/maintenance"
	"github.com/ukydev/fleet-insights/internal/models"
)

const (
	minFuelEfficiency = 5.0
	maxFuelEfficiency = 15.0

	unknownVehicle = "Unknown"
)

// Builder builds report payloads. Simulated figures are drawn from seed so
// the same inputs always produce the same report.
type Builder struct {
	seed int64
	now  func() time.Time
}

// NewBuilder creates a builder.
func NewBuilder(seed int64) *Builder {
	return &Builder{seed: seed, now: time.Now}
}

// WithNow replaces the clock used for GeneratedAt and maintenance ages.
func (b *Builder) WithNow(now func() time.Time) *Builder {
	b.now = now
	return b
}

// Build assembles the report t. A nil or half-open dateRange does not filter;
// an inverted one yields empty date-filtered data and a warning.
func (b *Builder) Build(t Type, e fleet.Entities, dateRange *aggregate.Range) (*Payload, error) {
	if _, ok := titles[t]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, t)
	}

	now := b.now()
	p := &Payload{
		Type:        t,
		Title:       t.Title(),
		GeneratedAt: now,
		Series:      []Series{},
		Summary:     []SummaryItem{},
	}

	var r aggregate.Range
	if dateRange != nil {
		r = *dateRange
		if err := r.Validate(); err != nil {
			p.Warnings = append(p.Warnings, err.Error())
		}
	}

	switch t {
	case FleetPerformance:
		b.fleetPerformance(p, e, now)
	case CostAnalysis:
		costAnalysis(p, e, r)
	case DriverPerformance:
		driverPerformance(p, e)
	case MaintenanceHistory:
		maintenanceHistory(p, e, r)
	}
	return p, nil
}

// FuelEfficiency returns the simulated efficiency of a vehicle in km/l.
func (b *Builder) FuelEfficiency(v models.Vehicle) float64 {
	rng := rand.New(rand.NewSource(fleet.DeriveSeed(b.seed, v.ID.String())))
	return minFuelEfficiency + rng.Float64()*(maxFuelEfficiency-minFuelEfficiency)
}

func (b *Builder) fleetPerformance(p *Payload, e fleet.Entities, now time.Time) {
	byStatus := aggregate.CountByKey(e.Vehicles, func(v models.Vehicle) string { return string(v.Status) })
	byUrgency := aggregate.CountByKey(e.Vehicles, func(v models.Vehicle) string {
		return string(maintenance.ClassifyAt(v, now))
	})

	labels := make([]string, 0, len(e.Vehicles))
	efficiency := make([]float64, 0, len(e.Vehicles))
	p.Table.Columns = []string{"Registration", "Type", "Status", "Fuel Level", "Speed",
		"Maintenance Score", "Maintenance Status", "Fuel Efficiency (km/l)"}
	p.Table.Rows = make([][]string, 0, len(e.Vehicles))
	for _, v := range e.Vehicles {
		eff := b.FuelEfficiency(v)
		labels = append(labels, v.RegistrationNumber)
		efficiency = append(efficiency, eff)
		p.Table.Rows = append(p.Table.Rows, []string{
			v.RegistrationNumber,
			v.VehicleType,
			string(v.Status),
			formatFloat(fleet.ClampPercent(v.FuelLevel)),
			formatFloat(fleet.Clamp(v.Speed, 0, aggregate.MaxSpeedKmh)),
			formatFloat(maintenance.ClampScore(v.MaintenanceScore)),
			string(maintenance.ClassifyAt(v, now)),
			formatFloat(eff),
		})
	}

	p.Series = append(p.Series,
		Series{Name: "vehicle_status", Title: "Vehicle Status Distribution", Kind: Pie,
			Labels: byStatus.Keys(), Values: intsToFloats(byStatus.Values())},
		Series{Name: "maintenance_status", Title: "Maintenance Status Distribution", Kind: Pie,
			Labels: byUrgency.Keys(), Values: intsToFloats(byUrgency.Values())},
		Series{Name: "fuel_efficiency", Title: "Fuel Efficiency (km/l)", Kind: Bar,
			XLabel: "Vehicle", YLabel: "Efficiency", Labels: labels, Values: efficiency},
	)

	summary := aggregate.Summarize(e.Vehicles)
	p.Summary = append(p.Summary,
		SummaryItem{Label: "Vehicles", Value: float64(summary.VehicleCount)},
		SummaryItem{Label: "Active Vehicles", Value: float64(summary.ActiveVehicles)},
		SummaryItem{Label: "Average Fuel Level", Value: summary.AverageFuelLevel},
		SummaryItem{Label: "Average Speed", Value: summary.AverageSpeed},
		SummaryItem{Label: "Total Carbon (kg)", Value: summary.TotalCarbonKg},
	)
}

func costAnalysis(p *Payload, e fleet.Entities, r aggregate.Range) {
	costs := aggregate.FilterByDateRange(e.Costs, r, func(c models.Cost) time.Time { return c.Date.Time })
	amount := func(c models.Cost) float64 { return c.Amount }

	byCategory := aggregate.SumByKey(costs, func(c models.Cost) string { return string(c.Category) }, amount)
	// Undated costs count toward the totals but have no month.
	dated := make([]models.Cost, 0, len(costs))
	for _, c := range costs {
		if !c.Date.IsZero() {
			dated = append(dated, c)
		}
	}
	byMonth := aggregate.SumByKey(dated, func(c models.Cost) aggregate.MonthKey { return aggregate.MonthOf(c.Date.Time) }, amount)

	months := byMonth.Entries()
	sort.SliceStable(months, func(i, j int) bool { return monthIndex(months[i].Key) < monthIndex(months[j].Key) })
	monthLabels := make([]string, len(months))
	monthValues := make([]float64, len(months))
	for i, m := range months {
		monthLabels[i] = m.Key.String()
		monthValues[i] = m.Value
	}

	p.Series = append(p.Series,
		Series{Name: "cost_by_category", Title: "Cost Distribution by Category", Kind: Pie,
			Labels: byCategory.Keys(), Values: byCategory.Values()},
		Series{Name: "monthly_costs", Title: "Monthly Cost Trends", Kind: Line,
			XLabel: "Month", YLabel: "Total Cost", Labels: monthLabels, Values: monthValues},
	)

	stats := aggregate.CostStats(costs)
	p.Summary = append(p.Summary,
		SummaryItem{Label: "Total Costs", Value: stats.Total},
		SummaryItem{Label: "Average Cost", Value: stats.Average},
		SummaryItem{Label: "Cost Entries", Value: float64(stats.Count)},
	)

	vehicles := e.VehicleIndex()
	p.Table.Columns = []string{"Date", "Category", "Amount", "Vehicle", "Status", "Description"}
	p.Table.Rows = make([][]string, 0, len(costs))
	for _, c := range costs {
		vehicle := ""
		if c.VehicleID != nil {
			vehicle = registrationOf(vehicles, *c.VehicleID)
		}
		p.Table.Rows = append(p.Table.Rows, []string{
			formatDate(c.Date),
			string(c.Category),
			formatFloat(c.Amount),
			vehicle,
			string(c.Status),
			c.Description,
		})
	}
}

func driverPerformance(p *Payload, e fleet.Entities) {
	names := make([]string, 0, len(e.Drivers))
	ratings := make([]float64, 0, len(e.Drivers))
	trips := make([]float64, 0, len(e.Drivers))
	p.Table.Columns = []string{"Name", "License Number", "Status", "Total Trips", "Rating", "Rest Hours"}
	p.Table.Rows = make([][]string, 0, len(e.Drivers))

	for _, d := range e.Drivers {
		rating := fleet.Clamp(d.Rating, 0, 5)
		names = append(names, d.Name)
		ratings = append(ratings, rating)
		trips = append(trips, float64(d.TotalTrips))
		p.Table.Rows = append(p.Table.Rows, []string{
			d.Name,
			d.LicenseNumber,
			string(d.Status),
			strconv.Itoa(d.TotalTrips),
			formatFloat(rating),
			formatFloat(d.RestHours),
		})
	}

	p.Series = append(p.Series,
		Series{Name: "driver_ratings", Title: "Driver Ratings", Kind: Bar,
			XLabel: "Driver", YLabel: "Rating", Labels: names, Values: ratings},
		Series{Name: "driver_trips", Title: "Total Trips Completed", Kind: Bar,
			XLabel: "Driver", YLabel: "Trips", Labels: names, Values: trips},
	)

	p.Summary = append(p.Summary,
		SummaryItem{Label: "Drivers", Value: float64(len(e.Drivers))},
		SummaryItem{Label: "Average Rating", Value: aggregate.Average(ratings, func(r float64) float64 { return r })},
		SummaryItem{Label: "Total Trips", Value: aggregate.Sum(trips, func(t float64) float64 { return t })},
	)
}

func maintenanceHistory(p *Payload, e fleet.Entities, r aggregate.Range) {
	records := aggregate.FilterByDateRange(e.Maintenance, r, func(m models.Maintenance) time.Time { return m.Date.Time })
	vehicles := e.VehicleIndex()
	cost := func(m models.Maintenance) float64 { return m.Cost }

	byType := aggregate.SumByKey(records, func(m models.Maintenance) string { return string(m.MaintenanceType) }, cost)
	byVehicle := aggregate.SumByKey(records, func(m models.Maintenance) string { return registrationOf(vehicles, m.VehicleID) }, cost)

	p.Series = append(p.Series,
		Series{Name: "maintenance_cost_by_type", Title: "Maintenance Costs by Type", Kind: Pie,
			Labels: byType.Keys(), Values: byType.Values()},
		Series{Name: "maintenance_cost_by_vehicle", Title: "Maintenance Costs by Vehicle", Kind: Bar,
			XLabel: "Vehicle", YLabel: "Cost", Labels: byVehicle.Keys(), Values: byVehicle.Values()},
	)

	p.Summary = append(p.Summary,
		SummaryItem{Label: "Records", Value: float64(len(records))},
		SummaryItem{Label: "Total Cost", Value: byType.Total()},
	)

	p.Table.Columns = []string{"Vehicle", "Type", "Date", "Cost", "Status", "Notes"}
	p.Table.Rows = make([][]string, 0, len(records))
	for _, m := range records {
		p.Table.Rows = append(p.Table.Rows, []string{
			registrationOf(vehicles, m.VehicleID),
			string(m.MaintenanceType),
			formatDate(m.Date),
			formatFloat(m.Cost),
			string(m.Status),
			m.Notes,
		})
	}
}

func registrationOf(vehicles map[models.ID]models.Vehicle, id models.ID) string {
	if v, ok := vehicles[id]; ok && v.RegistrationNumber != "" {
		return v.RegistrationNumber
	}
	return unknownVehicle
}

func monthIndex(m aggregate.MonthKey) int {
	return m.Year*12 + int(m.Month)
}

func intsToFloats(in []int) []float64 {
	out := make([]float64, len(in))
	for i, v := range in {
		out[i] = float64(v)
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

func formatDate(d models.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}
