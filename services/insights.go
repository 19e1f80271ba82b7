package services

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"car-dashboard/models"
	"car-dashboard/utils"
)

const (
	topBrands      = 5
	topPriceValues = 10
	previewRows    = 20
)

// EmptyResultMessage and EmptyResultHint are shown when no record matches.
const (
	EmptyResultMessage = "No cars match the selected filters."
	EmptyResultHint    = "Try widening the price or year range."
)

// Summarize computes the headline metrics. Means are unrounded; over an
// empty set they are undefined rather than zero.
func Summarize(records []models.CarRecord, schema *models.Schema) models.Summary {
	s := models.Summary{Count: len(records)}
	if s.Count == 0 {
		return s
	}

	var price, period, mileage float64
	for i := range records {
		r := &records[i]
		price += schema.Price(r)
		period += float64(schema.Period(r))
		mileage += float64(r.Mileage)
	}

	n := float64(s.Count)
	s.MeanPrice = models.DefinedMetric(price / n)
	s.MeanPeriod = models.DefinedMetric(period / n)
	s.MeanMileage = models.DefinedMetric(mileage / n)
	return s
}

// InsightService builds and prints the dashboard panels.
type InsightService struct {
	schema *models.Schema
	logger *utils.Logger
}

func NewInsightService(schema *models.Schema, logger *utils.Logger) *InsightService {
	return &InsightService{schema: schema, logger: logger}
}

// Generate computes the summary plus the chart data for a filtered result.
func (s *InsightService) Generate(records []models.CarRecord) *models.InsightReport {
	report := &models.InsightReport{
		Summary:           Summarize(records, s.schema),
		TopBrands:         []models.ValueCount{},
		PriceDistribution: []models.ValueCount{},
	}

	if len(records) == 0 {
		return report
	}

	minPrice := s.schema.Price(&records[0])
	maxPrice := minPrice
	brands := make(map[string]int)
	prices := make(map[float64]int)

	for i := range records {
		r := &records[i]
		p := s.schema.Price(r)
		minPrice = min(minPrice, p)
		maxPrice = max(maxPrice, p)
		brands[r.Brand]++
		prices[p]++
	}

	report.MinPrice = models.DefinedMetric(minPrice)
	report.MaxPrice = models.DefinedMetric(maxPrice)

	for brand, cnt := range brands {
		report.TopBrands = append(report.TopBrands, models.ValueCount{Value: brand, Count: cnt})
	}
	sort.Slice(report.TopBrands, func(i, j int) bool {
		a, b := report.TopBrands[i], report.TopBrands[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Value < b.Value
	})
	if len(report.TopBrands) > topBrands {
		report.TopBrands = report.TopBrands[:topBrands]
	}

	type priceCount struct {
		price float64
		count int
	}
	pcs := make([]priceCount, 0, len(prices))
	for p, cnt := range prices {
		pcs = append(pcs, priceCount{p, cnt})
	}
	sort.Slice(pcs, func(i, j int) bool {
		if pcs[i].count != pcs[j].count {
			return pcs[i].count > pcs[j].count
		}
		return pcs[i].price < pcs[j].price
	})
	if len(pcs) > topPriceValues {
		pcs = pcs[:topPriceValues]
	}
	for _, pc := range pcs {
		report.PriceDistribution = append(report.PriceDistribution, models.ValueCount{
			Value: strconv.FormatFloat(pc.price, 'f', -1, 64),
			Count: pc.count,
		})
	}

	return report
}

// DatasetInfo describes the unfiltered dataset (the developer panel).
func (s *InsightService) DatasetInfo(records []models.CarRecord) models.DatasetInfo {
	facets := Facets(records, s.schema)
	return models.DatasetInfo{
		Variant:     s.schema.Variant,
		TotalCars:   len(records),
		BrandCount:  len(facets.Brands),
		PeriodRange: facets.Period,
		PriceRange:  facets.Price,
	}
}

// Dashboard is everything one text rendering needs.
type Dashboard struct {
	Info   models.DatasetInfo
	Spec   models.FilterSpec
	Report *models.InsightReport
	// Rows are already in display order.
	Rows []models.CarRecord
}

// Print renders the dashboard as coloured text.
func (s *InsightService) Print(w io.Writer, d Dashboard) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)
	sum := d.Report.Summary

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  🚗 USED CAR SEARCH (%s)\033[0m\n", s.schema.Variant)
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	fmt.Fprintf(w, "\033[1;33m  Filters\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if active := d.Spec.Active(); len(active) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(active, " | "))
	} else {
		fmt.Fprintf(w, "  none\n")
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Summary\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Cars found    : \033[1m%d\033[0m\n", sum.Count)
	fmt.Fprintf(w, "  Average price : \033[1;32m%s\033[0m\n", FormatPrice(sum.MeanPrice))
	fmt.Fprintf(w, "  Average %-5s : \033[1m%s\033[0m\n", s.periodLabel(), s.FormatPeriod(sum.MeanPeriod))
	fmt.Fprintf(w, "  Average km    : \033[1m%s\033[0m\n", FormatMileage(sum.MeanMileage))
	fmt.Fprintln(w)

	if sum.Count == 0 {
		fmt.Fprintf(w, "  \033[1;33m⚠ %s\033[0m\n", EmptyResultMessage)
		fmt.Fprintf(w, "  💡 %s\n", EmptyResultHint)
		fmt.Fprintln(w)
	} else {
		s.printRows(w, d.Rows, thin)
		s.printCharts(w, d.Report, thin)
	}

	fmt.Fprintf(w, "\033[1;33m  Dataset\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total cars  : %d\n", d.Info.TotalCars)
	fmt.Fprintf(w, "  Brands      : %d\n", d.Info.BrandCount)
	fmt.Fprintf(w, "  %-11s : %.0f - %.0f\n", s.periodLabel()+" range", d.Info.PeriodRange.Min, d.Info.PeriodRange.Max)
	fmt.Fprintf(w, "  Price range : %s - %s\n",
		FormatPrice(models.DefinedMetric(d.Info.PriceRange.Min)),
		FormatPrice(models.DefinedMetric(d.Info.PriceRange.Max)))

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func (s *InsightService) printRows(w io.Writer, rows []models.CarRecord, thin string) {
	cols := s.schema.Visible(s.schema.HiddenColumns())

	fmt.Fprintf(w, "\033[1;33m  🎯 %d cars found\033[0m\n", len(rows))
	fmt.Fprintf(w, "  %s\n", thin)

	var header strings.Builder
	for _, c := range cols {
		fmt.Fprintf(&header, "%-16s", truncate(c.Name, 15))
	}
	fmt.Fprintf(w, "  \033[1m%s\033[0m\n", strings.TrimRight(header.String(), " "))

	shown := rows
	if len(shown) > previewRows {
		shown = shown[:previewRows]
	}
	for i := range shown {
		var line strings.Builder
		for _, c := range cols {
			fmt.Fprintf(&line, "%-16s", truncate(c.Get(&shown[i]), 15))
		}
		fmt.Fprintf(w, "  %s\n", strings.TrimRight(line.String(), " "))
	}
	if len(rows) > len(shown) {
		fmt.Fprintf(w, "  … %d more (export to see all)\n", len(rows)-len(shown))
	}
	fmt.Fprintln(w)
}

func (s *InsightService) printCharts(w io.Writer, r *models.InsightReport, thin string) {
	fmt.Fprintf(w, "\033[1;33m  Most common brands\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, vc := range r.TopBrands {
		fmt.Fprintf(w, "  %-14s %s (%d)\n", truncate(vc.Value, 13), bar(vc.Count), vc.Count)
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "\033[1;33m  Price distribution\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	for _, vc := range r.PriceDistribution {
		fmt.Fprintf(w, "  %-14s %s (%d)\n", vc.Value, bar(vc.Count), vc.Count)
	}
	fmt.Fprintln(w)
}

func (s *InsightService) periodLabel() string {
	if s.schema.Variant == models.VariantPredictor {
		return "age"
	}
	return "year"
}

// FormatPeriod renders a mean year or age rounded to the nearest unit.
func (s *InsightService) FormatPeriod(m models.Metric) string {
	if !m.Defined {
		return "N/A"
	}
	if s.schema.Variant == models.VariantPredictor {
		return fmt.Sprintf("%.0f years", m.Value)
	}
	return fmt.Sprintf("%.0f", m.Value)
}

var printer = message.NewPrinter(language.English)

// FormatPrice renders a price as "€20,000", rounded to the nearest euro.
func FormatPrice(m models.Metric) string {
	if !m.Defined {
		return "N/A"
	}
	return printer.Sprintf("€%.0f", m.Value)
}

// FormatMileage renders a distance as "75,000 km".
func FormatMileage(m models.Metric) string {
	if !m.Defined {
		return "N/A"
	}
	return printer.Sprintf("%.0f km", m.Value)
}

func bar(n int) string {
	return strings.Repeat("█", min(n, 40))
}

// truncate shortens s to at most max runes, marking the cut with "...".
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
