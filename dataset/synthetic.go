package dataset

import (
	"context"
	"math/rand"

	"car-dashboard/models"
)

var (
	brands = []string{"Toyota", "Honda", "Ford", "BMW", "Mercedes", "Audi", "Volkswagen", "Nissan", "Hyundai", "Kia"}

	modelsByBrand = map[string][]string{
		"Toyota":     {"Corolla", "Camry", "RAV4", "Prius", "Highlander"},
		"Honda":      {"Civic", "Accord", "CR-V", "Pilot", "HR-V"},
		"Ford":       {"Focus", "Fiesta", "Mustang", "Explorer", "Escape"},
		"BMW":        {"Serie 3", "Serie 5", "X3", "X5", "Serie 1"},
		"Mercedes":   {"Clase A", "Clase C", "Clase E", "GLC", "GLE"},
		"Audi":       {"A3", "A4", "A6", "Q3", "Q5"},
		"Volkswagen": {"Golf", "Passat", "Tiguan", "Polo", "T-Roc"},
		"Nissan":     {"Qashqai", "Juke", "Leaf", "X-Trail", "Micra"},
		"Hyundai":    {"Tucson", "i30", "Kona", "Santa Fe", "i20"},
		"Kia":        {"Sportage", "Ceed", "Niro", "Sorento", "Picanto"},
	}

	fuelTypes     = []string{models.FuelGasoline, models.FuelDiesel, models.FuelHybrid, models.FuelElectric}
	transmissions = []string{models.TransmissionManual, models.TransmissionAutomatic}
)

// Bounds of the generated columns. Upper bounds are exclusive.
const (
	minYear, maxYear       = 2010, 2024
	minPrice, maxPrice     = 5000, 35000
	minMileage, maxMileage = 10000, 150000
)

// SyntheticProvider generates a deterministic sample dataset in the search layout.
type SyntheticProvider struct {
	Rows int
	Seed int64
}

// Load generates the rows. The same seed always yields the same dataset.
func (p *SyntheticProvider) Load(context.Context) ([]models.CarRecord, error) {
	return Generate(p.Rows, p.Seed), nil
}

// Generate builds n random search records from seed.
func Generate(n int, seed int64) []models.CarRecord {
	rng := rand.New(rand.NewSource(seed))
	records := make([]models.CarRecord, 0, n)

	for i := 0; i < n; i++ {
		brand := brands[rng.Intn(len(brands))]
		choices := modelsByBrand[brand]

		records = append(records, models.CarRecord{
			Brand:        brand,
			Model:        choices[rng.Intn(len(choices))],
			Year:         minYear + rng.Intn(maxYear-minYear),
			Price:        float64(minPrice + rng.Intn(maxPrice-minPrice)),
			Mileage:      minMileage + rng.Intn(maxMileage-minMileage),
			FuelType:     fuelTypes[rng.Intn(len(fuelTypes))],
			Transmission: transmissions[rng.Intn(len(transmissions))],
		})
	}
	return records
}
