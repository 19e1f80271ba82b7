package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaFor(t *testing.T) {
	s, err := SchemaFor(VariantSearch)
	require.NoError(t, err)
	assert.Equal(t, []string{"brand", "model", "year", "price", "mileage", "fuel_type", "transmission"}, s.ColumnNames())
	assert.Empty(t, s.HiddenColumns())

	p, err := SchemaFor(VariantPredictor)
	require.NoError(t, err)
	assert.Equal(t, "predicted_price", p.PriceColumn)
	assert.Equal(t, "age", p.PeriodColumn)
	assert.Equal(t, map[string]struct{}{
		"power_to_weight": {},
		"luxury_brand":    {},
		"accident_impact": {},
	}, p.HiddenColumns())

	_, err = SchemaFor("auction")
	assert.Error(t, err)
}

func TestSchemaVisibleKeepsOrder(t *testing.T) {
	s := PredictorSchema()
	var names []string
	for _, c := range s.Visible(map[string]struct{}{"age": {}, "luxury_brand": {}}) {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"brand", "fuel_type", "transmission", "mileage", "predicted_price", "power_to_weight", "accident_impact"}, names)
}

func TestColumnSetters(t *testing.T) {
	s := PredictorSchema()
	var r CarRecord

	tests := []struct {
		column string
		raw    string
		ok     bool
	}{
		{"age", "4", true},
		{"age", "4.0", true},
		{"age", "4.5", false},
		{"predicted_price", "18250.75", true},
		{"predicted_price", "abc", false},
		{"luxury_brand", "yes", true},
		{"accident_impact", "", true},
		{"accident_impact", "maybe", false},
	}

	for _, tt := range tests {
		t.Run(tt.column+"="+tt.raw, func(t *testing.T) {
			col, found := s.Column(tt.column)
			require.True(t, found)
			err := col.Set(&r, tt.raw)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

	assert.Equal(t, 4, r.Age)
	assert.Equal(t, 18250.75, r.PredictedPrice)
	assert.True(t, r.LuxuryBrand)
	assert.Equal(t, 18250.75, s.Price(&r))
	assert.Equal(t, 4, s.Period(&r))
}

func TestRange(t *testing.T) {
	r := Range{Min: 10000, Max: 25000}
	assert.True(t, r.Contains(10000))
	assert.True(t, r.Contains(25000))
	assert.False(t, r.Contains(25000.01))
	assert.False(t, r.Inverted())

	inv := Range{Min: 25000, Max: 10000}
	assert.True(t, inv.Inverted())
	assert.False(t, inv.Contains(15000))
}

func TestFilterSpecActive(t *testing.T) {
	assert.Empty(t, FilterSpec{Brand: AllValues, FuelType: ""}.Active())

	km := 100000.0
	spec := FilterSpec{
		Brand:      "Toyota",
		Price:      &Range{Min: 10000, Max: 25000},
		MaxMileage: &km,
	}
	assert.Equal(t, []string{"brand=Toyota", "price=[10000,25000]", "mileage<=100000"}, spec.Active())
}

func TestMetricJSON(t *testing.T) {
	out, err := json.Marshal(Summary{Count: 0})
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"mean_price":null,"mean_period":null,"mean_mileage":null}`, string(out))

	var s Summary
	require.NoError(t, json.Unmarshal([]byte(`{"count":2,"mean_price":20000.5,"mean_period":null}`), &s))
	assert.Equal(t, DefinedMetric(20000.5), s.MeanPrice)
	assert.False(t, s.MeanPeriod.Defined)
}
