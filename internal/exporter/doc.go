// Package exporter writes rental tables and chart specs to downloadable formats.
//
// This package contains three main components:
//
// CSVWriter: writes a Table as CSV, with an optional UTF-8 BOM for Excel
// compatibility.
//
// XLSXWriter: writes a Table as a single-sheet workbook using typed cells.
//
// PNGRenderer: draws line and bar chart specs as PNG images. Box charts are
// not supported.
//
// Example usage:
//
//	table := exporter.DailyTable(filtered.Daily)
//	err := exporter.NewCSVWriter(true).Write(w, table)
//
//	err = exporter.NewPNGRenderer(800, 400).Render(w, spec)
package exporter
