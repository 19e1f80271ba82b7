package models

import (
	"encoding/json"
	"fmt"
)

// AllValues is the sentinel a categorical facet uses for "no constraint".
// An empty string means the same.
const AllValues = "all"

// Range is an inclusive [Min, Max] bound. Min > Max matches nothing.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether v lies inside the bound, both ends included.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Inverted reports whether the bound can never be satisfied.
func (r Range) Inverted() bool {
	return r.Min > r.Max
}

// FilterSpec is the complete set of facet constraints for one query.
// Nil ranges and empty or "all" categorical values are unconstrained.
type FilterSpec struct {
	Brand        string `json:"brand,omitempty"`
	FuelType     string `json:"fuel_type,omitempty"`
	Transmission string `json:"transmission,omitempty"`

	// Period constrains year (search) or age (predictor).
	Period  *Range `json:"period,omitempty"`
	Price   *Range `json:"price,omitempty"`
	Mileage *Range `json:"mileage,omitempty"`

	// MaxMileage is an inclusive upper bound with an implicit lower bound of 0.
	MaxMileage *float64 `json:"max_mileage,omitempty"`
}

// IsAll reports whether a categorical facet value leaves the field unconstrained.
func IsAll(v string) bool {
	return v == "" || v == AllValues
}

// Active lists the facets that constrain the result, for logging.
func (s FilterSpec) Active() []string {
	var active []string
	if !IsAll(s.Brand) {
		active = append(active, "brand="+s.Brand)
	}
	if !IsAll(s.FuelType) {
		active = append(active, "fuel_type="+s.FuelType)
	}
	if !IsAll(s.Transmission) {
		active = append(active, "transmission="+s.Transmission)
	}
	if s.Period != nil {
		active = append(active, fmt.Sprintf("period=[%g,%g]", s.Period.Min, s.Period.Max))
	}
	if s.Price != nil {
		active = append(active, fmt.Sprintf("price=[%g,%g]", s.Price.Min, s.Price.Max))
	}
	if s.Mileage != nil {
		active = append(active, fmt.Sprintf("mileage=[%g,%g]", s.Mileage.Min, s.Mileage.Max))
	}
	if s.MaxMileage != nil {
		active = append(active, fmt.Sprintf("mileage<=%g", *s.MaxMileage))
	}
	return active
}

// Metric is an aggregate that is undefined over an empty set.
type Metric struct {
	Value   float64
	Defined bool
}

// DefinedMetric wraps a computed value.
func DefinedMetric(v float64) Metric { return Metric{Value: v, Defined: true} }

// MarshalJSON emits null for an undefined metric.
func (m Metric) MarshalJSON() ([]byte, error) {
	if !m.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// UnmarshalJSON accepts null as undefined.
func (m *Metric) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Metric{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*m = DefinedMetric(v)
	return nil
}

// Summary holds the headline metrics of a filtered result.
type Summary struct {
	Count       int    `json:"count"`
	MeanPrice   Metric `json:"mean_price"`
	MeanPeriod  Metric `json:"mean_period"`
	MeanMileage Metric `json:"mean_mileage"`
}

// ValueCount is one bar of a frequency chart.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// InsightReport holds the summary plus the chart and dataset panels.
type InsightReport struct {
	Summary Summary `json:"summary"`

	MinPrice Metric `json:"min_price"`
	MaxPrice Metric `json:"max_price"`

	TopBrands         []ValueCount `json:"top_brands"`
	PriceDistribution []ValueCount `json:"price_distribution"`
}

// DatasetInfo describes the unfiltered dataset.
type DatasetInfo struct {
	SessionID   string  `json:"session_id"`
	Variant     Variant `json:"variant"`
	TotalCars   int     `json:"total_cars"`
	BrandCount  int     `json:"brand_count"`
	PeriodRange Range   `json:"period_range"`
	PriceRange  Range   `json:"price_range"`
}

// FacetOptions lists what the filter controls can offer for a dataset.
type FacetOptions struct {
	Brands        []string `json:"brands"`
	FuelTypes     []string `json:"fuel_types"`
	Transmissions []string `json:"transmissions"`
	Period        Range    `json:"period"`
	Price         Range    `json:"price"`
	Mileage       Range    `json:"mileage"`
}
