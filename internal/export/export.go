// Package export renders report payloads to downloadable documents.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukydev/fleet-insights/internal/report"
)

// ErrUnsupportedFormat is returned for an unknown export format.
var ErrUnsupportedFormat = errors.New("unsupported export format")

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat accepts a format name, case-insensitively. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatCSV, nil
	case FormatCSV, FormatXLSX, FormatPDF:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv"
	}
}

// Render dispatches to the renderer for f.
func Render(p *report.Payload, f Format) ([]byte, error) {
	switch f {
	case FormatCSV:
		return CSV(p)
	case FormatXLSX:
		return XLSX(p)
	case FormatPDF:
		return PDF(p)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// FileName returns the download name, e.g. cost_report_2024-03-01.xlsx.
func FileName(p *report.Payload, f Format) string {
	return p.FileName(string(f))
}
