package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	bomPrefix bool
}

// NewCSVWriter creates a CSV writer. bomPrefix adds a UTF-8 BOM so Excel detects the encoding.
func NewCSVWriter(bomPrefix bool) *CSVWriter {
	return &CSVWriter{bomPrefix: bomPrefix}
}

// Write writes the table with its header row
func (c *CSVWriter) Write(w io.Writer, table Table) error {
	if c.bomPrefix {
		if _, err := w.Write(utf8BOM); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(w)

	if len(table.Headers) > 0 {
		if err := writer.Write(table.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	record := make([]string, len(table.Headers))
	for i, row := range table.Rows {
		if len(row) != len(record) {
			record = make([]string, len(row))
		}
		for j, cell := range row {
			record[j] = formatCell(cell)
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}
