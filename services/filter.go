package services

import (
	"sort"

	"car-dashboard/models"
)

type predicate func(r *models.CarRecord) bool

// Filter returns the records satisfying every active constraint of spec, in
// their original order. The input is never modified.
func Filter(records []models.CarRecord, schema *models.Schema, spec models.FilterSpec) []models.CarRecord {
	preds := buildPredicates(schema, spec)
	result := make([]models.CarRecord, 0, len(records))

	if preds == nil {
		return append(result, records...)
	}

	for i := range records {
		if matchesAll(&records[i], preds) {
			result = append(result, records[i])
		}
	}
	return result
}

// Matches reports whether a single record satisfies spec.
func Matches(r *models.CarRecord, schema *models.Schema, spec models.FilterSpec) bool {
	return matchesAll(r, buildPredicates(schema, spec))
}

func matchesAll(r *models.CarRecord, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// buildPredicates returns nil when nothing constrains the result. Categorical
// checks come first since they are cheapest and most selective.
func buildPredicates(schema *models.Schema, spec models.FilterSpec) []predicate {
	var preds []predicate

	if !models.IsAll(spec.Brand) {
		brand := spec.Brand
		preds = append(preds, func(r *models.CarRecord) bool { return r.Brand == brand })
	}
	if !models.IsAll(spec.FuelType) {
		fuel := spec.FuelType
		preds = append(preds, func(r *models.CarRecord) bool { return r.FuelType == fuel })
	}
	if !models.IsAll(spec.Transmission) {
		tr := spec.Transmission
		preds = append(preds, func(r *models.CarRecord) bool { return r.Transmission == tr })
	}

	if spec.Period != nil {
		rng := *spec.Period
		period := schema.Period
		preds = append(preds, func(r *models.CarRecord) bool { return rng.Contains(float64(period(r))) })
	}
	if spec.Price != nil {
		rng := *spec.Price
		price := schema.Price
		preds = append(preds, func(r *models.CarRecord) bool { return rng.Contains(price(r)) })
	}
	if spec.Mileage != nil {
		rng := *spec.Mileage
		preds = append(preds, func(r *models.CarRecord) bool { return rng.Contains(float64(r.Mileage)) })
	}
	if spec.MaxMileage != nil {
		bound := *spec.MaxMileage
		preds = append(preds, func(r *models.CarRecord) bool { return float64(r.Mileage) <= bound })
	}

	return preds
}

// SortByPrice returns a copy ordered by ascending price. Ties keep their
// filtered order. Display only; the filtered set itself is never reordered.
func SortByPrice(records []models.CarRecord, schema *models.Schema) []models.CarRecord {
	sorted := append([]models.CarRecord(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return schema.Price(&sorted[i]) < schema.Price(&sorted[j])
	})
	return sorted
}

// Facets collects the values the filter controls can offer for a dataset:
// sorted distinct categorical values and the numeric bounds.
func Facets(records []models.CarRecord, schema *models.Schema) models.FacetOptions {
	opts := models.FacetOptions{
		Brands:        []string{},
		FuelTypes:     []string{},
		Transmissions: []string{},
	}
	if len(records) == 0 {
		return opts
	}

	brands := map[string]struct{}{}
	fuels := map[string]struct{}{}
	trans := map[string]struct{}{}

	first := &records[0]
	opts.Period = models.Range{Min: float64(schema.Period(first)), Max: float64(schema.Period(first))}
	opts.Price = models.Range{Min: schema.Price(first), Max: schema.Price(first)}
	opts.Mileage = models.Range{Min: float64(first.Mileage), Max: float64(first.Mileage)}

	for i := range records {
		r := &records[i]
		brands[r.Brand] = struct{}{}
		fuels[r.FuelType] = struct{}{}
		trans[r.Transmission] = struct{}{}
		widen(&opts.Period, float64(schema.Period(r)))
		widen(&opts.Price, schema.Price(r))
		widen(&opts.Mileage, float64(r.Mileage))
	}

	opts.Brands = sortedKeys(brands)
	opts.FuelTypes = sortedKeys(fuels)
	opts.Transmissions = sortedKeys(trans)
	return opts
}

func widen(r *models.Range, v float64) {
	r.Min = min(r.Min, v)
	r.Max = max(r.Max, v)
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
