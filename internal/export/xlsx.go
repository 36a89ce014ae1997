package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/ukydev/fleet-insights/internal/report"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	dataSheet    = "Data"
)

// XLSX writes a workbook with a summary sheet, the report table, and one
// sheet per chart series.
func XLSX(p *report.Payload) ([]byte, error) {
	file := excelize.NewFile()
	defer file.Close()

	if err := file.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	writeSummary(file, p)

	if _, err := file.NewSheet(dataSheet); err != nil {
		return nil, err
	}
	if err := writeTable(file, dataSheet, p.Table.Columns, p.Table.Rows); err != nil {
		return nil, err
	}

	for _, s := range p.Series {
		name := sheetName(s.Title)
		if _, err := file.NewSheet(name); err != nil {
			return nil, err
		}
		rows := make([][]string, 0, len(s.Labels))
		for i, label := range s.Labels {
			rows = append(rows, []string{label, fmt.Sprintf("%.2f", s.Values[i])})
		}
		if err := writeTable(file, name, []string{axisOr(s.XLabel, "Label"), axisOr(s.YLabel, "Value")}, rows); err != nil {
			return nil, err
		}
	}

	file.SetActiveSheet(0)
	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSummary(file *excelize.File, p *report.Payload) {
	set := func(cell string, value interface{}) {
		_ = file.SetCellValue(summarySheet, cell, value)
	}

	set("A1", "Report")
	set("B1", p.Title)
	set("A2", "Generated")
	set("B2", p.GeneratedAt.Format(time.RFC3339))

	row := 4
	for _, item := range p.Summary {
		set(fmt.Sprintf("A%d", row), item.Label)
		set(fmt.Sprintf("B%d", row), item.Value)
		row++
	}
	for _, w := range p.Warnings {
		set(fmt.Sprintf("A%d", row), "Warning")
		set(fmt.Sprintf("B%d", row), w)
		row++
	}

	_ = file.SetColWidth(summarySheet, "A", "A", 24)
	_ = file.SetColWidth(summarySheet, "B", "B", 40)
}

func writeTable(file *excelize.File, sheet string, header []string, rows [][]string) error {
	for i, h := range header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := file.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	for r, row := range rows {
		for c, value := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	if len(header) > 0 {
		last, _ := excelize.ColumnNumberToName(len(header))
		_ = file.SetColWidth(sheet, "A", last, 18)
	}
	return nil
}

var sheetNameReplacer = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")

// sheetName makes a title a valid sheet name: no reserved characters and at
// most 31 characters.
func sheetName(title string) string {
	r := []rune(sheetNameReplacer.Replace(title))
	if len(r) > 31 {
		r = r[:31]
	}
	return string(r)
}

func axisOr(label, fallback string) string {
	if label == "" {
		return fallback
	}
	return label
}
