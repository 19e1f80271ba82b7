package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Variant identifies which of the two dataset layouts a session works with.
type Variant string

const (
	VariantSearch    Variant = "search"
	VariantPredictor Variant = "predictor"
)

// Column describes one column of a dataset layout: how to print it from a
// record and how to parse it back into one.
type Column struct {
	Name    string
	Hidden  bool
	Numeric bool
	Get     func(r *CarRecord) string
	Set     func(r *CarRecord, raw string) error
}

// Schema is the descriptor that parameterizes the whole pipeline.
type Schema struct {
	Variant Variant
	Columns []Column

	// PriceColumn and PeriodColumn name the columns the price and year/age
	// facets read from.
	PriceColumn  string
	PeriodColumn string

	Price  func(r *CarRecord) float64
	Period func(r *CarRecord) int
}

// SearchSchema describes the synthetic / search dataset.
func SearchSchema() *Schema {
	return &Schema{
		Variant: VariantSearch,
		Columns: []Column{
			textColumn("brand", func(r *CarRecord) *string { return &r.Brand }),
			textColumn("model", func(r *CarRecord) *string { return &r.Model }),
			intColumn("year", func(r *CarRecord) *int { return &r.Year }),
			floatColumn("price", func(r *CarRecord) *float64 { return &r.Price }),
			intColumn("mileage", func(r *CarRecord) *int { return &r.Mileage }),
			textColumn("fuel_type", func(r *CarRecord) *string { return &r.FuelType }),
			textColumn("transmission", func(r *CarRecord) *string { return &r.Transmission }),
		},
		PriceColumn:  "price",
		PeriodColumn: "year",
		Price:        func(r *CarRecord) float64 { return r.Price },
		Period:       func(r *CarRecord) int { return r.Year },
	}
}

// PredictorSchema describes the predicted-price dataset. The derived model
// features are loaded but hidden from display and export.
func PredictorSchema() *Schema {
	return &Schema{
		Variant: VariantPredictor,
		Columns: []Column{
			textColumn("brand", func(r *CarRecord) *string { return &r.Brand }),
			intColumn("age", func(r *CarRecord) *int { return &r.Age }),
			textColumn("fuel_type", func(r *CarRecord) *string { return &r.FuelType }),
			textColumn("transmission", func(r *CarRecord) *string { return &r.Transmission }),
			intColumn("mileage", func(r *CarRecord) *int { return &r.Mileage }),
			floatColumn("predicted_price", func(r *CarRecord) *float64 { return &r.PredictedPrice }),
			hidden(floatColumn("power_to_weight", func(r *CarRecord) *float64 { return &r.PowerToWeight })),
			hidden(boolColumn("luxury_brand", func(r *CarRecord) *bool { return &r.LuxuryBrand })),
			hidden(boolColumn("accident_impact", func(r *CarRecord) *bool { return &r.AccidentImpact })),
		},
		PriceColumn:  "predicted_price",
		PeriodColumn: "age",
		Price:        func(r *CarRecord) float64 { return r.PredictedPrice },
		Period:       func(r *CarRecord) int { return r.Age },
	}
}

// SchemaFor returns the descriptor for a variant.
func SchemaFor(v Variant) (*Schema, error) {
	switch v {
	case VariantSearch:
		return SearchSchema(), nil
	case VariantPredictor:
		return PredictorSchema(), nil
	default:
		return nil, fmt.Errorf("schema: unknown variant %q", v)
	}
}

// ColumnNames returns every column name in natural order.
func (s *Schema) ColumnNames() []string {
	names := make([]string, 0, len(s.Columns))
	for _, c := range s.Columns {
		names = append(names, c.Name)
	}
	return names
}

// HiddenColumns returns the set of columns excluded from display and export.
func (s *Schema) HiddenColumns() map[string]struct{} {
	hidden := make(map[string]struct{})
	for _, c := range s.Columns {
		if c.Hidden {
			hidden[c.Name] = struct{}{}
		}
	}
	return hidden
}

// Visible returns the columns left after removing the excluded names,
// keeping natural order.
func (s *Schema) Visible(exclude map[string]struct{}) []Column {
	cols := make([]Column, 0, len(s.Columns))
	for _, c := range s.Columns {
		if _, skip := exclude[c.Name]; skip {
			continue
		}
		cols = append(cols, c)
	}
	return cols
}

// Column looks a column up by name.
func (s *Schema) Column(name string) (Column, bool) {
	for _, c := range s.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

func hidden(c Column) Column {
	c.Hidden = true
	return c
}

func textColumn(name string, field func(r *CarRecord) *string) Column {
	return Column{
		Name: name,
		Get:  func(r *CarRecord) string { return *field(r) },
		Set: func(r *CarRecord, raw string) error {
			*field(r) = raw
			return nil
		},
	}
}

func intColumn(name string, field func(r *CarRecord) *int) Column {
	return Column{
		Name:    name,
		Numeric: true,
		Get:     func(r *CarRecord) string { return strconv.Itoa(*field(r)) },
		Set: func(r *CarRecord, raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				// Exported spreadsheets sometimes write whole numbers as "2019.0".
				f, ferr := strconv.ParseFloat(raw, 64)
				if ferr != nil || f != float64(int(f)) {
					return fmt.Errorf("column %s: %q is not an integer", name, raw)
				}
				n = int(f)
			}
			*field(r) = n
			return nil
		},
	}
}

func floatColumn(name string, field func(r *CarRecord) *float64) Column {
	return Column{
		Name:    name,
		Numeric: true,
		Get:     func(r *CarRecord) string { return strconv.FormatFloat(*field(r), 'f', -1, 64) },
		Set: func(r *CarRecord, raw string) error {
			f, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("column %s: %q is not a number", name, raw)
			}
			*field(r) = f
			return nil
		},
	}
}

func boolColumn(name string, field func(r *CarRecord) *bool) Column {
	return Column{
		Name: name,
		Get:  func(r *CarRecord) string { return strconv.FormatBool(*field(r)) },
		Set: func(r *CarRecord, raw string) error {
			switch strings.ToLower(raw) {
			case "1", "true", "yes":
				*field(r) = true
			case "0", "false", "no", "":
				*field(r) = false
			default:
				return fmt.Errorf("column %s: %q is not a boolean", name, raw)
			}
			return nil
		},
	}
}
