package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"car-dashboard/models"
)

// DefaultPrefix is the file name stem suggested for exports.
const DefaultPrefix = "coches_filtrados"

// SerializeCSV writes a header row in the schema's natural column order,
// minus excluded columns, followed by one row per record. Fields containing
// the delimiter, quotes or line breaks are quoted per RFC 4180.
func SerializeCSV(w io.Writer, records []models.CarRecord, schema *models.Schema, exclude map[string]struct{}) error {
	cols := schema.Visible(exclude)
	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = c.Name
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	row := make([]string, len(cols))
	for i := range records {
		for j, c := range cols {
			row[j] = c.Get(&records[i])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("csv: flush: %w", err)
	}
	return nil
}

// Serialize is SerializeCSV into memory.
func Serialize(records []models.CarRecord, schema *models.Schema, exclude map[string]struct{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := SerializeCSV(&buf, records, schema, exclude); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SuggestFileName returns "{prefix}_{YYYYMMDD}" for the calendar day of t.
// Two exports on the same day get the same name.
func SuggestFileName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format("20060102")
}

// ExportFileName is SuggestFileName plus an extension, e.g.
// "coches_filtrados_20240315.csv".
func ExportFileName(prefix, ext string, t time.Time) string {
	return SuggestFileName(prefix, t) + "." + ext
}

// CSVExporter serializes records as comma-separated text.
type CSVExporter struct {
	Schema  *models.Schema
	Exclude map[string]struct{}
}

func (e *CSVExporter) Export(w io.Writer, records []models.CarRecord) error {
	return SerializeCSV(w, records, e.Schema, e.Exclude)
}

func (e *CSVExporter) Extension() string { return "csv" }

func (e *CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }
