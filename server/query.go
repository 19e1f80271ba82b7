package server

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v3"

	"car-dashboard/models"
)

// displayQuery holds the non-filter parameters of a request.
type displayQuery struct {
	Sort   string `validate:"omitempty,oneof=price none"`
	Format string `validate:"omitempty,oneof=csv xlsx"`
}

// parseSpec builds a FilterSpec from query parameters. A range needs only one
// side; the other is left open. Inverted ranges are accepted as given.
func parseSpec(c fiber.Ctx) (models.FilterSpec, error) {
	spec := models.FilterSpec{
		Brand:        strings.TrimSpace(c.Query("brand")),
		FuelType:     strings.TrimSpace(c.Query("fuel_type")),
		Transmission: strings.TrimSpace(c.Query("transmission")),
	}

	var err error
	if spec.Period, err = parseRange(c, "period"); err != nil {
		return spec, err
	}
	if spec.Price, err = parseRange(c, "price"); err != nil {
		return spec, err
	}
	if spec.Mileage, err = parseRange(c, "mileage"); err != nil {
		return spec, err
	}

	if raw := c.Query("max_mileage"); raw != "" {
		v, err := parseNumber("max_mileage", raw)
		if err != nil {
			return spec, err
		}
		spec.MaxMileage = &v
	}
	return spec, nil
}

func parseRange(c fiber.Ctx, name string) (*models.Range, error) {
	rawMin, rawMax := c.Query(name+"_min"), c.Query(name+"_max")
	if rawMin == "" && rawMax == "" {
		return nil, nil
	}

	rng := &models.Range{Min: -math.MaxFloat64, Max: math.MaxFloat64}
	if rawMin != "" {
		v, err := parseNumber(name+"_min", rawMin)
		if err != nil {
			return nil, err
		}
		rng.Min = v
	}
	if rawMax != "" {
		v, err := parseNumber(name+"_max", rawMax)
		if err != nil {
			return nil, err
		}
		rng.Max = v
	}
	return rng, nil
}

func parseNumber(param, raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("query parameter %s: %q is not a number", param, raw)
	}
	return v, nil
}
