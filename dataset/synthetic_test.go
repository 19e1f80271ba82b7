package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/utils"
)

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(200, 42)
	b := Generate(200, 42)
	c := Generate(200, 7)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestGenerateStaysInBounds(t *testing.T) {
	records := Generate(1000, 42)
	require.Len(t, records, 1000)

	for _, r := range records {
		assert.Contains(t, modelsByBrand[r.Brand], r.Model)
		assert.True(t, r.Year >= 2010 && r.Year <= 2023, "year %d", r.Year)
		assert.True(t, r.Price >= 5000 && r.Price < 35000, "price %v", r.Price)
		assert.True(t, r.Mileage >= 10000 && r.Mileage < 150000, "mileage %d", r.Mileage)
	}

	cleaner := services.NewCleaner(models.SearchSchema(), utils.NewNopLogger())
	assert.NoError(t, cleaner.Validate(records))
}

func TestSyntheticToyotaScenario(t *testing.T) {
	schema := models.SearchSchema()
	records, err := (&SyntheticProvider{Rows: 1000, Seed: 42}).Load(context.Background())
	require.NoError(t, err)

	maxKm := 100000.0
	spec := models.FilterSpec{
		Brand:      "Toyota",
		Period:     &models.Range{Min: 2018, Max: 2023},
		Price:      &models.Range{Min: 10000, Max: 25000},
		MaxMileage: &maxKm,
	}

	got := services.Filter(records, schema, spec)
	assert.LessOrEqual(t, len(got), 1000)
	for _, r := range got {
		assert.Equal(t, "Toyota", r.Brand)
		assert.True(t, r.Year >= 2018 && r.Year <= 2023)
		assert.True(t, r.Price >= 10000 && r.Price <= 25000)
		assert.LessOrEqual(t, r.Mileage, 100000)
	}

	summary := services.Summarize(got, schema)
	assert.Equal(t, len(got), summary.Count)
	assert.Equal(t, len(got) > 0, summary.MeanPrice.Defined)
}
