package services

import (
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"car-dashboard/models"
	"car-dashboard/utils"
)

var (
	queriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_queries_total",
			Help: "Filter queries evaluated, partitioned by variant",
		},
		[]string{"variant"},
	)

	emptyResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_empty_results_total",
			Help: "Filter queries that matched no record",
		},
		[]string{"variant"},
	)

	resultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_result_size",
			Help:    "Number of records returned per query",
			Buckets: prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"variant"},
	)
)

// Session binds one immutable dataset to the filter pipeline. It is safe to
// share between goroutines because nothing writes to the dataset after
// NewSession returns.
type Session struct {
	ID string

	schema   *models.Schema
	records  []models.CarRecord
	insights *InsightService
	logger   *utils.Logger
}

// Result is the outcome of one query: the filtered records in dataset order
// plus the report computed over them.
type Result struct {
	Spec    models.FilterSpec
	Records []models.CarRecord
	Report  *models.InsightReport
}

// Empty reports whether nothing matched.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// NewSession copies records so later changes by the caller cannot leak in.
func NewSession(schema *models.Schema, records []models.CarRecord, logger *utils.Logger) *Session {
	id := uuid.NewString()
	logger = logger.With("session", id)
	logger.Info("[session] Loaded %d %s records", len(records), schema.Variant)

	return &Session{
		ID:       id,
		schema:   schema,
		records:  append([]models.CarRecord(nil), records...),
		insights: NewInsightService(schema, logger),
		logger:   logger,
	}
}

func (s *Session) Schema() *models.Schema { return s.schema }

func (s *Session) Insights() *InsightService { return s.insights }

// Records returns a copy of the full dataset.
func (s *Session) Records() []models.CarRecord {
	return append([]models.CarRecord(nil), s.records...)
}

// Info describes the unfiltered dataset.
func (s *Session) Info() models.DatasetInfo {
	info := s.insights.DatasetInfo(s.records)
	info.SessionID = s.ID
	return info
}

// Facets lists the options the filter controls can offer.
func (s *Session) Facets() models.FacetOptions {
	return Facets(s.records, s.schema)
}

// Query recomputes the filtered result and its report from scratch.
func (s *Session) Query(spec models.FilterSpec) *Result {
	filtered := Filter(s.records, s.schema, spec)
	variant := string(s.schema.Variant)

	queriesTotal.WithLabelValues(variant).Inc()
	resultSize.WithLabelValues(variant).Observe(float64(len(filtered)))
	if len(filtered) == 0 {
		emptyResultsTotal.WithLabelValues(variant).Inc()
	}

	s.logger.Debug("[session] %v matched %d/%d records", spec.Active(), len(filtered), len(s.records))

	return &Result{
		Spec:    spec,
		Records: filtered,
		Report:  s.insights.Generate(filtered),
	}
}

// Dashboard assembles the text rendering of a result with rows sorted by price.
func (s *Session) Dashboard(r *Result) Dashboard {
	return Dashboard{
		Info:   s.Info(),
		Spec:   r.Spec,
		Report: r.Report,
		Rows:   SortByPrice(r.Records, s.schema),
	}
}
