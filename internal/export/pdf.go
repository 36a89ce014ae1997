package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/ukydev/fleet-insights/internal/report"
)

const (
	pdfFont     = "Helvetica"
	pageWidthMM = 277 // A4 landscape minus margins
)

// PDF renders the title, summary figures, warnings and table.
func PDF(p *report.Payload) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(pdfFont, "B", 16)
	pdf.CellFormat(0, 10, tr(p.Title), "", 1, "C", false, 0, "")
	pdf.SetFont(pdfFont, "", 10)
	pdf.CellFormat(0, 6, "Generated "+p.GeneratedAt.Format(time.RFC1123), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(p.Summary) > 0 {
		pdf.SetFont(pdfFont, "B", 12)
		pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
		pdf.SetFont(pdfFont, "", 10)
		for _, item := range p.Summary {
			pdf.CellFormat(70, 6, tr(item.Label), "", 0, "L", false, 0, "")
			pdf.CellFormat(0, 6, fmt.Sprintf("%.2f", item.Value), "", 1, "L", false, 0, "")
		}
		pdf.Ln(2)
	}

	if len(p.Warnings) > 0 {
		pdf.SetTextColor(200, 0, 0)
		for _, w := range p.Warnings {
			pdf.MultiCell(0, 6, tr("Warning: "+w), "", "L", false)
		}
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	if len(p.Table.Columns) > 0 {
		width := float64(pageWidthMM) / float64(len(p.Table.Columns))
		pdf.SetFont(pdfFont, "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for _, col := range p.Table.Columns {
			pdf.CellFormat(width, 7, tr(col), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont(pdfFont, "", 9)
		for _, row := range p.Table.Rows {
			for _, value := range row {
				pdf.CellFormat(width, 6, tr(truncate(pdf, value, width-2)), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// truncate shortens s until it fits in width millimetres.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
