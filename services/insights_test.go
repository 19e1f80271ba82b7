package services

import (
	"bytes"
	"encoding/json"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"car-dashboard/models"
	"car-dashboard/utils"
)

func TestSummarizeMeans(t *testing.T) {
	cars := []models.CarRecord{
		{Brand: "A", Year: 2018, Price: 10000, Mileage: 30000},
		{Brand: "B", Year: 2019, Price: 20000, Mileage: 60000},
		{Brand: "C", Year: 2021, Price: 30000, Mileage: 100000},
	}

	s := Summarize(cars, models.SearchSchema())
	assert.Equal(t, 3, s.Count)
	require.True(t, s.MeanPrice.Defined)
	assert.Equal(t, 20000.0, s.MeanPrice.Value)
	assert.InDelta(t, 2019.333, s.MeanPeriod.Value, 0.001, "means are not rounded")
	assert.InDelta(t, 63333.333, s.MeanMileage.Value, 0.001)
}

func TestSummarizeEmpty(t *testing.T) {
	for _, records := range [][]models.CarRecord{nil, {}} {
		s := Summarize(records, models.SearchSchema())
		assert.Equal(t, 0, s.Count)
		assert.False(t, s.MeanPrice.Defined)
		assert.False(t, s.MeanPeriod.Defined)
		assert.False(t, s.MeanMileage.Defined)
	}
}

func TestSummarizePredictor(t *testing.T) {
	cars := []models.CarRecord{
		{Brand: "A", Age: 2, PredictedPrice: 18000, Price: 1, Mileage: 10000},
		{Brand: "B", Age: 4, PredictedPrice: 12000, Price: 1, Mileage: 30000},
	}
	s := Summarize(cars, models.PredictorSchema())
	assert.Equal(t, 15000.0, s.MeanPrice.Value)
	assert.Equal(t, 3.0, s.MeanPeriod.Value)
}

func TestSummaryJSONMarksUndefined(t *testing.T) {
	data, err := json.Marshal(Summarize(nil, models.SearchSchema()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"count":0,"mean_price":null,"mean_period":null,"mean_mileage":null}`, string(data))

	var back models.Summary
	require.NoError(t, json.Unmarshal([]byte(`{"count":1,"mean_price":5,"mean_period":null,"mean_mileage":7}`), &back))
	assert.Equal(t, models.DefinedMetric(5), back.MeanPrice)
	assert.False(t, back.MeanPeriod.Defined)
}

func TestInsightTopBrandsAndDistribution(t *testing.T) {
	svc := NewInsightService(models.SearchSchema(), utils.NewNopLogger())
	cars := []models.CarRecord{
		{Brand: "Kia", Price: 9000},
		{Brand: "Audi", Price: 9000},
		{Brand: "Kia", Price: 12000},
		{Brand: "BMW", Price: 30000},
		{Brand: "Kia", Price: 9000},
		{Brand: "Audi", Price: 15000},
		{Brand: "Ford", Price: 15000},
		{Brand: "Honda", Price: 11000},
		{Brand: "Seat", Price: 11000},
	}

	r := svc.Generate(cars)
	require.Len(t, r.TopBrands, 5)
	assert.Equal(t, models.ValueCount{Value: "Kia", Count: 3}, r.TopBrands[0])
	assert.Equal(t, models.ValueCount{Value: "Audi", Count: 2}, r.TopBrands[1])
	assert.Equal(t, "BMW", r.TopBrands[2].Value, "ties are ordered by name")

	require.NotEmpty(t, r.PriceDistribution)
	assert.Equal(t, models.ValueCount{Value: "9000", Count: 3}, r.PriceDistribution[0])

	assert.Equal(t, 9000.0, r.MinPrice.Value)
	assert.Equal(t, 30000.0, r.MaxPrice.Value)
}

func TestInsightEmptyInput(t *testing.T) {
	svc := NewInsightService(models.SearchSchema(), utils.NewNopLogger())
	r := svc.Generate(nil)
	assert.Equal(t, 0, r.Summary.Count)
	assert.False(t, r.MinPrice.Defined)
	assert.Empty(t, r.TopBrands)
	assert.NotNil(t, r.PriceDistribution)
}

func TestFormatting(t *testing.T) {
	assert.Equal(t, "€20,000", FormatPrice(models.DefinedMetric(20000)))
	assert.Equal(t, "€12,346", FormatPrice(models.DefinedMetric(12345.7)))
	assert.Equal(t, "N/A", FormatPrice(models.Metric{}))
	assert.Equal(t, "75,000 km", FormatMileage(models.DefinedMetric(75000)))
	assert.Equal(t, "N/A", FormatMileage(models.Metric{}))

	search := NewInsightService(models.SearchSchema(), utils.NewNopLogger())
	assert.Equal(t, "2019", search.FormatPeriod(models.DefinedMetric(2019.3)))
	predictor := NewInsightService(models.PredictorSchema(), utils.NewNopLogger())
	assert.Equal(t, "4 years", predictor.FormatPeriod(models.DefinedMetric(3.8)))
	assert.Equal(t, "N/A", predictor.FormatPeriod(models.Metric{}))
}

func TestPrintEmptyResult(t *testing.T) {
	schema := models.SearchSchema()
	svc := NewInsightService(schema, utils.NewNopLogger())

	var buf bytes.Buffer
	svc.Print(&buf, Dashboard{
		Info:   svc.DatasetInfo(sampleCars()),
		Spec:   models.FilterSpec{Brand: "Tesla"},
		Report: svc.Generate(nil),
	})

	out := buf.String()
	assert.Contains(t, out, "N/A")
	assert.Contains(t, out, EmptyResultMessage)
	assert.Contains(t, out, "brand=Tesla")
	assert.Contains(t, out, "Total cars  : 6")
}

func TestPrintResultHidesDerivedColumns(t *testing.T) {
	schema := models.PredictorSchema()
	svc := NewInsightService(schema, utils.NewNopLogger())
	cars := []models.CarRecord{
		{Brand: "Audi", Age: 3, PredictedPrice: 21000, Mileage: 40000, FuelType: "Diesel", Transmission: "Automatic", PowerToWeight: 0.12},
	}

	var buf bytes.Buffer
	svc.Print(&buf, Dashboard{Info: svc.DatasetInfo(cars), Report: svc.Generate(cars), Rows: cars})

	out := buf.String()
	assert.Contains(t, out, "predicted_price")
	assert.Contains(t, out, "€21,000")
	assert.NotContains(t, out, "power_to_weight")
	assert.NotContains(t, out, EmptyResultMessage)
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	got := truncate("Citroën Grand C4 Picasso", 9)
	assert.Equal(t, "Citroë...", got)
	assert.True(t, utf8.ValidString(got))

	assert.Equal(t, "Škoda", truncate("Škoda", 5))
}
