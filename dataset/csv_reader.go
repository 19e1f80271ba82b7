package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/utils"
)

var (
	// ErrEmptyDataset is returned when a source yields no rows at all.
	ErrEmptyDataset = errors.New("dataset is empty")
	// ErrMissingColumn is returned when a header lacks a required column.
	ErrMissingColumn = errors.New("missing required column")
)

// FileProvider reads a prepared CSV file in either layout.
type FileProvider struct {
	Path   string
	Schema *models.Schema
	Logger *utils.Logger
}

// Load opens and parses the file. A missing file is reported with its path.
func (p *FileProvider) Load(context.Context) ([]models.CarRecord, error) {
	f, err := os.Open(p.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset: input file %q does not exist: %w", p.Path, err)
		}
		return nil, fmt.Errorf("dataset: open %q: %w", p.Path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f, p.Schema, p.Logger)
	if err != nil {
		return nil, fmt.Errorf("dataset: %s: %w", p.Path, err)
	}
	p.Logger.Info("[dataset] Read %d rows from %s", len(records), p.Path)
	return records, nil
}

// ReadCSV parses a header row plus data rows into validated records. Columns
// are matched by name, so their order and any unknown extras do not matter.
func ReadCSV(r io.Reader, schema *models.Schema, logger *utils.Logger) ([]models.CarRecord, error) {
	raw, err := ReadRaw(r, schema)
	if err != nil {
		return nil, err
	}
	return services.NewCleaner(schema, logger).Clean(raw)
}

// ReadRaw returns the unparsed rows keyed by column name.
func ReadRaw(r io.Reader, schema *models.Schema) ([]*models.RawCar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}
	if err := checkHeader(header, schema); err != nil {
		return nil, err
	}

	var rows []*models.RawCar
	for line := 2; ; line++ {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: read line %d: %w", line, err)
		}
		if len(fields) != len(header) {
			return nil, fmt.Errorf("csv: line %d has %d fields, header has %d", line, len(fields), len(header))
		}

		row := &models.RawCar{Line: line, Fields: make(map[string]string, len(header))}
		for i, name := range header {
			row.Fields[name] = fields[i]
		}
		rows = append(rows, row)
	}

	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return rows, nil
}

func checkHeader(header []string, schema *models.Schema) error {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	var missing []string
	for _, col := range schema.Columns {
		if col.Hidden {
			continue
		}
		if _, ok := present[col.Name]; !ok {
			missing = append(missing, col.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}
