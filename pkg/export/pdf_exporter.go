package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pageWidthPortrait  = 190.0
	pageWidthLandscape = 277.0
	// wideTable switches to landscape once a table has more columns than this.
	wideTable = 6
)

// PDFExporter renders datasets into a tabular PDF report.
type PDFExporter struct {
	headerFill [3]int
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{headerFill: [3]int{226, 232, 240}}
}

// Render creates a PDF document with the dataset title, an optional subtitle, the table body
// and a bold footer row.
func (e *PDFExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	orientation, usable := "P", pageWidthPortrait
	if len(data.Columns) > wideTable {
		orientation, usable = "L", pageWidthLandscape
	}
	pdf := gofpdf.New(orientation, "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	tr := pdf.UnicodeTranslatorFromDescriptor("cp1252")
	pdf.AddPage()

	if data.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(data.Title), "", 1, "C", false, 0, "")
	}
	if data.Subtitle != "" {
		pdf.SetFont("Arial", "", 9)
		pdf.SetTextColor(100, 116, 139)
		pdf.CellFormat(0, 6, tr(data.Subtitle), "", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(4)

	widths := columnWidths(data.Columns, usable)

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(e.headerFill[0], e.headerFill[1], e.headerFill[2])
	for i, col := range data.Columns {
		pdf.CellFormat(widths[i], 8, tr(col.Header), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		e.row(pdf, tr, data.Columns, widths, row)
	}
	if data.Footer != nil {
		pdf.SetFont("Arial", "B", 9)
		e.row(pdf, tr, data.Columns, widths, data.Footer)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) row(pdf *gofpdf.Fpdf, tr func(string) string, cols []Column, widths []float64, cells []string) {
	for i, col := range cols {
		align := string(col.Align)
		if align == "" {
			align = string(AlignLeft)
		}
		pdf.CellFormat(widths[i], 7, tr(cells[i]), "1", 0, align, false, 0, "")
	}
	pdf.Ln(-1)
}

func columnWidths(cols []Column, usable float64) []float64 {
	var total float64
	for _, col := range cols {
		total += weight(col)
	}
	widths := make([]float64, len(cols))
	for i, col := range cols {
		widths[i] = usable * weight(col) / total
	}
	return widths
}

func weight(c Column) float64 {
	if c.Width <= 0 {
		return 1
	}
	return c.Width
}
