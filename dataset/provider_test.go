package dataset

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/config"
	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/utils"
)

type staticProvider struct {
	records []models.CarRecord
	err     error
}

func (p staticProvider) Load(context.Context) ([]models.CarRecord, error) {
	return p.records, p.err
}

func TestNewPicksProvider(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewNopLogger()

	p, closeFn, err := New(ctx, &config.Config{DatasetSource: "synthetic", SyntheticRows: 10, SyntheticSeed: 1}, models.SearchSchema(), logger)
	require.NoError(t, err)
	require.NotNil(t, closeFn)
	assert.IsType(t, &SyntheticProvider{}, p)
	assert.NoError(t, closeFn())

	p, _, err = New(ctx, &config.Config{DatasetSource: "csv", DatasetPath: "predicted_cars.csv"}, models.PredictorSchema(), logger)
	require.NoError(t, err)
	fp, ok := p.(*FileProvider)
	require.True(t, ok)
	assert.Equal(t, "predicted_cars.csv", fp.Path)
}

func TestNewRejectsUnsupportedSources(t *testing.T) {
	ctx := context.Background()
	logger := utils.NewNopLogger()

	_, closeFn, err := New(ctx, &config.Config{DatasetSource: "synthetic"}, models.PredictorSchema(), logger)
	assert.Error(t, err)
	assert.NotNil(t, closeFn)

	_, _, err = New(ctx, &config.Config{DatasetSource: "mongo"}, models.SearchSchema(), logger)
	assert.ErrorContains(t, err, `unknown source "mongo"`)
}

func TestLoadRejectsEmptyDataset(t *testing.T) {
	_, err := Load(context.Background(), staticProvider{}, models.SearchSchema(), utils.NewNopLogger())
	assert.ErrorIs(t, err, ErrEmptyDataset)
}

func TestLoadValidatesRecords(t *testing.T) {
	p := staticProvider{records: []models.CarRecord{
		{Brand: "Kia", Model: "Niro", Year: 2020, Price: 20000, Mileage: 1, FuelType: "Hybrid", Transmission: "Manual"},
		{Brand: "Kia", Model: "Niro", Year: 2020, Price: -1, Mileage: 1, FuelType: "Hybrid", Transmission: "Manual"},
	}}

	_, err := Load(context.Background(), p, models.SearchSchema(), utils.NewNopLogger())
	assert.ErrorIs(t, err, services.ErrInvalidRecord)
}

func TestLoadSynthetic(t *testing.T) {
	records, err := Load(context.Background(), &SyntheticProvider{Rows: 50, Seed: 42}, models.SearchSchema(), utils.NewNopLogger())
	require.NoError(t, err)
	assert.Len(t, records, 50)
}
