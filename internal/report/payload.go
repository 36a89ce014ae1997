// Package report assembles the four analytics reports from fleet entities.
package report

import (
	"errors"
	"time"
)

// ErrUnknownReport is returned for a report type Build does not know.
var ErrUnknownReport = errors.New("unknown report type")

// Type identifies a report.
type Type string

const (
	FleetPerformance   Type = "fleet_performance"
	CostAnalysis       Type = "cost_analysis"
	DriverPerformance  Type = "driver_performance"
	MaintenanceHistory Type = "maintenance_history"
)

// Types lists the supported reports.
var Types = []Type{FleetPerformance, CostAnalysis, DriverPerformance, MaintenanceHistory}

var titles = map[Type]string{
	FleetPerformance:   "Fleet Performance",
	CostAnalysis:       "Cost Analysis",
	DriverPerformance:  "Driver Performance",
	MaintenanceHistory: "Maintenance History",
}

// fileKinds names the export file of each report.
var fileKinds = map[Type]string{
	FleetPerformance:   "fleet",
	CostAnalysis:       "cost",
	DriverPerformance:  "driver",
	MaintenanceHistory: "maintenance",
}

// ParseType validates s as a report type.
func ParseType(s string) (Type, error) {
	t := Type(s)
	if _, ok := titles[t]; !ok {
		return "", ErrUnknownReport
	}
	return t, nil
}

// Title returns the display title.
func (t Type) Title() string {
	return titles[t]
}

// FileKind returns the prefix used in export file names.
func (t Type) FileKind() string {
	return fileKinds[t]
}

// ChartKind tells a renderer how to draw a series.
type ChartKind string

const (
	Pie  ChartKind = "pie"
	Bar  ChartKind = "bar"
	Line ChartKind = "line"
)

// Series is one chart: labels aligned with values.
type Series struct {
	Name   string    `json:"name"`
	Title  string    `json:"title"`
	Kind   ChartKind `json:"kind"`
	XLabel string    `json:"x_label,omitempty"`
	YLabel string    `json:"y_label,omitempty"`
	Labels []string  `json:"labels"`
	Values []float64 `json:"values"`
}

// SummaryItem is a headline figure.
type SummaryItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Table is the tabular body of a report, already formatted as strings.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Payload is a built report. It is plain data so any renderer can draw it.
type Payload struct {
	Type        Type          `json:"type"`
	Title       string        `json:"title"`
	GeneratedAt time.Time     `json:"generated_at"`
	Series      []Series      `json:"series"`
	Summary     []SummaryItem `json:"summary"`
	Table       Table         `json:"table"`
	Warnings    []string      `json:"warnings,omitempty"`
}

// SeriesByName returns the named series.
func (p *Payload) SeriesByName(name string) (Series, bool) {
	for _, s := range p.Series {
		if s.Name == name {
			return s, true
		}
	}
	return Series{}, false
}

// SummaryValue returns the named summary figure.
func (p *Payload) SummaryValue(label string) (float64, bool) {
	for _, item := range p.Summary {
		if item.Label == label {
			return item.Value, true
		}
	}
	return 0, false
}

// FileName returns the export file name for ext, e.g.
// fleet_report_2024-03-01.csv.
func (p *Payload) FileName(ext string) string {
	return p.Type.FileKind() + "_report_" + p.GeneratedAt.Format(time.DateOnly) + "." + ext
}
