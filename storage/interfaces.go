package storage

import (
	"fmt"
	"io"

	"car-dashboard/models"
)

// Exporter is the interface any export format must satisfy.
type Exporter interface {
	Export(w io.Writer, records []models.CarRecord) error
	Extension() string
	ContentType() string
}

// NewExporter returns the exporter for a format ("csv" or "xlsx"). The
// schema's hidden columns are always excluded.
func NewExporter(format string, schema *models.Schema) (Exporter, error) {
	exclude := schema.HiddenColumns()
	switch format {
	case "", "csv":
		return &CSVExporter{Schema: schema, Exclude: exclude}, nil
	case "xlsx":
		return &XLSXExporter{Schema: schema, Exclude: exclude}, nil
	default:
		return nil, fmt.Errorf("export: unsupported format %q", format)
	}
}
