package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// ErrInvalidRecord marks a row that does not conform to the dataset schema.
var ErrInvalidRecord = errors.New("invalid record")

// Cleaner transforms RawCars into validated CarRecords for one schema.
type Cleaner struct {
	schema   *models.Schema
	logger   *utils.Logger
	validate *validator.Validate
}

// NewCleaner creates a Cleaner for the given schema.
func NewCleaner(schema *models.Schema, logger *utils.Logger) *Cleaner {
	return &Cleaner{
		schema:   schema,
		logger:   logger,
		validate: validator.New(),
	}
}

// Clean parses every raw row. A dataset is all-or-nothing: the first
// malformed row aborts the load.
func (c *Cleaner) Clean(raw []*models.RawCar) ([]models.CarRecord, error) {
	result := make([]models.CarRecord, 0, len(raw))

	for _, r := range raw {
		rec, err := c.CleanRow(r)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}

	c.logger.Debug("[cleaner] Cleaned %d %s rows", len(result), c.schema.Variant)
	return result, nil
}

// CleanRow parses and validates a single row. Hidden columns may be absent;
// every visible column must be present.
func (c *Cleaner) CleanRow(r *models.RawCar) (models.CarRecord, error) {
	var rec models.CarRecord

	for _, col := range c.schema.Columns {
		raw, ok := r.Fields[col.Name]
		if !ok {
			if col.Hidden {
				continue
			}
			return rec, fmt.Errorf("line %d: missing column %q: %w", r.Line, col.Name, ErrInvalidRecord)
		}

		if col.Numeric {
			raw = normaliseNumber(raw)
		} else {
			raw = normaliseText(raw)
		}

		if err := col.Set(&rec, raw); err != nil {
			return rec, fmt.Errorf("line %d: %v: %w", r.Line, err, ErrInvalidRecord)
		}
	}

	if err := c.check(&rec); err != nil {
		return rec, fmt.Errorf("line %d: %v: %w", r.Line, err, ErrInvalidRecord)
	}
	return rec, nil
}

// Validate checks records that did not come through CleanRow, such as rows
// scanned from a database or produced by a generator.
func (c *Cleaner) Validate(records []models.CarRecord) error {
	for i := range records {
		if err := c.check(&records[i]); err != nil {
			return fmt.Errorf("record %d: %v: %w", i+1, err, ErrInvalidRecord)
		}
	}
	return nil
}

// check adds the per-layout rules to the struct tags. A search row needs a
// year; predictor rows carry an age instead.
func (c *Cleaner) check(rec *models.CarRecord) error {
	if err := c.validate.Struct(rec); err != nil {
		return err
	}
	if c.schema.PeriodColumn == "year" && rec.Year == 0 {
		return fmt.Errorf("column year: a year is required")
	}
	return nil
}

// normaliseText strips leading/trailing whitespace. Inner spacing and line
// breaks are kept so exported files read back unchanged.
func normaliseText(s string) string {
	return strings.TrimSpace(s)
}

// normaliseNumber drops whitespace and thousands separators: "12,500 " → "12500".
func normaliseNumber(s string) string {
	s = strings.TrimSpace(s)
	return strings.ReplaceAll(s, ",", "")
}
