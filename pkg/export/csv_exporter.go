package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Align controls how a column is laid out in the PDF rendition.
type Align string

const (
	AlignLeft  Align = "L"
	AlignRight Align = "R"
)

// Column describes one field of a tabular export.
type Column struct {
	Header string
	Align  Align
	// Width is relative to the other columns; zero means 1.
	Width float64
}

// Dataset defines tabular export content. Rows and Footer are positional and follow Columns.
type Dataset struct {
	Title    string
	Subtitle string
	Columns  []Column
	Rows     [][]string
	Footer   []string
}

// Headers returns the column headers in order.
func (d Dataset) Headers() []string {
	headers := make([]string, len(d.Columns))
	for i, col := range d.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (d Dataset) validate() error {
	if len(d.Columns) == 0 {
		return fmt.Errorf("export requires at least one column")
	}
	for i, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i+1, len(row), len(d.Columns))
		}
	}
	if d.Footer != nil && len(d.Footer) != len(d.Columns) {
		return fmt.Errorf("footer has %d cells, want %d", len(d.Footer), len(d.Columns))
	}
	return nil
}

// CSVExporter renders Dataset records into CSV bytes.
type CSVExporter struct{}

// NewCSVExporter builds a CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// Render produces CSV encoded bytes for the dataset. The footer, when present, is the last record.
func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if err := data.validate(); err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)
	if err := writer.Write(data.Headers()); err != nil {
		return nil, fmt.Errorf("write csv headers: %w", err)
	}
	if err := writer.WriteAll(data.Rows); err != nil {
		return nil, fmt.Errorf("write csv rows: %w", err)
	}
	if data.Footer != nil {
		if err := writer.Write(data.Footer); err != nil {
			return nil, fmt.Errorf("write csv footer: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
