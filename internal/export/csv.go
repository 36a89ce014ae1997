package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/ukydev/fleet-insights/internal/report"
)

// CSV writes the report table with a header row.
func CSV(p *report.Payload) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(p.Table.Columns); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	if err := w.WriteAll(p.Table.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	return buf.Bytes(), nil
}
