package models

// Fuel types accepted in a dataset.
const (
	FuelGasoline = "Gasoline"
	FuelDiesel   = "Diesel"
	FuelHybrid   = "Hybrid"
	FuelElectric = "Electric"
)

// Transmission types accepted in a dataset.
const (
	TransmissionManual    = "Manual"
	TransmissionAutomatic = "Automatic"
)

// RawCar holds one unparsed row exactly as it was read from the source,
// keyed by column name. The cleaner turns it into a CarRecord.
type RawCar struct {
	Line   int
	Fields map[string]string
}

// CarRecord is a single, validated row of the dataset.
// Search datasets fill Model, Year and Price; predictor datasets fill Age,
// PredictedPrice and the derived columns.
type CarRecord struct {
	Brand        string  `json:"brand" validate:"required"`
	Model        string  `json:"model,omitempty"`
	Year         int     `json:"year,omitempty" validate:"omitempty,min=1900,max=2100"`
	Age          int     `json:"age,omitempty" validate:"min=0"`
	Price        float64 `json:"price,omitempty" validate:"min=0"`
	Mileage      int     `json:"mileage" validate:"min=0"`
	FuelType     string  `json:"fuel_type" validate:"oneof=Gasoline Diesel Hybrid Electric"`
	Transmission string  `json:"transmission" validate:"oneof=Manual Automatic"`

	PredictedPrice float64 `json:"predicted_price,omitempty" validate:"min=0"`
	PowerToWeight  float64 `json:"-"`
	LuxuryBrand    bool    `json:"-"`
	AccidentImpact bool    `json:"-"`
}
