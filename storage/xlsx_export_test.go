package storage

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"car-dashboard/models"
)

func TestXLSXExporterWritesSheet(t *testing.T) {
	schema := models.PredictorSchema()
	exp, err := NewExporter("xlsx", schema)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, exp.Export(&buf, predictorCars()))

	xl, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer xl.Close()

	assert.Equal(t, []string{xlsxSheet}, xl.GetSheetList())

	rows, err := xl.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"brand", "age", "fuel_type", "transmission", "mileage", "predicted_price"}, rows[0])
	assert.Equal(t, "Audi", rows[1][0])

	typ, err := xl.GetCellType(xlsxSheet, "F2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)
	assert.NotEqual(t, excelize.CellTypeInlineString, typ)

	v, err := xl.GetCellValue(xlsxSheet, "F2")
	require.NoError(t, err)
	assert.Equal(t, "21000.5", v)
}

func TestXLSXExporterEmptyResult(t *testing.T) {
	exp := &XLSXExporter{Schema: models.SearchSchema()}

	var buf bytes.Buffer
	require.NoError(t, exp.Export(&buf, nil))

	xl, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer xl.Close()

	rows, err := xl.GetRows(xlsxSheet)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], 7)
}
