package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/models"
)

func TestSessionIsolatesDataset(t *testing.T) {
	cars := sampleCars()
	s := NewSession(models.SearchSchema(), cars, newTestLogger())

	cars[0].Brand = "Mutated"
	assert.Equal(t, "Toyota", s.Records()[0].Brand)

	copied := s.Records()
	copied[1].Brand = "Mutated"
	assert.Equal(t, "BMW", s.Records()[1].Brand)
}

func TestSessionQueryRecomputesFromBase(t *testing.T) {
	s := NewSession(models.SearchSchema(), sampleCars(), newTestLogger())

	first := s.Query(models.FilterSpec{Brand: "Toyota"})
	require.Len(t, first.Records, 3)
	assert.Equal(t, 3, first.Report.Summary.Count)

	second := s.Query(models.FilterSpec{Brand: "Kia"})
	require.Len(t, second.Records, 1)
	assert.Equal(t, 25000.0, second.Report.Summary.MeanPrice.Value)

	empty := s.Query(models.FilterSpec{Price: &models.Range{Min: 25000, Max: 10000}})
	assert.True(t, empty.Empty())
	assert.False(t, empty.Report.Summary.MeanPrice.Defined)
}

func TestSessionInfo(t *testing.T) {
	s := NewSession(models.SearchSchema(), sampleCars(), newTestLogger())

	_, err := uuid.Parse(s.ID)
	require.NoError(t, err)

	info := s.Info()
	assert.Equal(t, s.ID, info.SessionID)
	assert.Equal(t, 6, info.TotalCars)
	assert.Equal(t, 4, info.BrandCount)
	assert.Equal(t, models.VariantSearch, info.Variant)
}

func TestSessionDashboardSortsRowsByPrice(t *testing.T) {
	s := NewSession(models.SearchSchema(), sampleCars(), newTestLogger())
	result := s.Query(models.FilterSpec{Brand: "Toyota"})

	d := s.Dashboard(result)
	require.Len(t, d.Rows, 3)
	assert.Equal(t, "RAV4", d.Rows[0].Model)
	assert.Equal(t, "Corolla", result.Records[0].Model, "result keeps dataset order")
}
