package exporter

import (
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	"bikepulse/pkg/contracts/domain"
)

// XLSXWriter writes a table to a single-sheet workbook
type XLSXWriter struct{}

// NewXLSXWriter creates an XLSX writer
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// Write streams the table into a sheet named after it and writes the workbook to w
func (x *XLSXWriter) Write(w io.Writer, table Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := table.Name
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("failed to name sheet: %w", err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open stream writer: %w", err)
	}

	header := make([]interface{}, len(table.Headers))
	for i, h := range table.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header, excelize.RowOpts{StyleID: headerStyle}); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = xlsxValue(v)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// xlsxValue keeps numbers numeric; dates and flags use the CSV text form
func xlsxValue(v any) interface{} {
	switch x := v.(type) {
	case int, float64, string:
		return x
	case time.Time:
		return x.Format(domain.DateLayout)
	default:
		return formatCell(v)
	}
}
