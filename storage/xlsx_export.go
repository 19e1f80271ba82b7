package storage

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"car-dashboard/models"
)

const xlsxSheet = "coches"

// XLSXExporter writes the same header and rows as CSVExporter into a
// single-sheet workbook. Numeric columns are stored as numbers.
type XLSXExporter struct {
	Schema  *models.Schema
	Exclude map[string]struct{}
}

func (e *XLSXExporter) Export(w io.Writer, records []models.CarRecord) error {
	cols := e.Schema.Visible(e.Exclude)

	xl := excelize.NewFile()
	defer func() { _ = xl.Close() }()

	if err := xl.SetSheetName(xl.GetSheetName(0), xlsxSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := make([]any, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := xl.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i := range records {
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j] = cellValue(c, &records[i])
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := xl.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if _, err := xl.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write workbook: %w", err)
	}
	return nil
}

func (e *XLSXExporter) Extension() string { return "xlsx" }

func (e *XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func cellValue(c models.Column, r *models.CarRecord) any {
	v := c.Get(r)
	if !c.Numeric {
		return v
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
