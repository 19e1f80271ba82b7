package dataset

import (
	"context"
	"fmt"
	"time"

	"car-dashboard/config"
	"car-dashboard/models"
	"car-dashboard/services"
	"car-dashboard/utils"
)

// Provider supplies the rows of one dataset.
type Provider interface {
	Load(ctx context.Context) ([]models.CarRecord, error)
}

// New picks the provider configured by DATASET_SOURCE. The returned close
// function releases any connection and is never nil.
func New(ctx context.Context, cfg *config.Config, schema *models.Schema, logger *utils.Logger) (Provider, func() error, error) {
	noop := func() error { return nil }

	switch cfg.DatasetSource {
	case "synthetic":
		if schema.Variant != models.VariantSearch {
			return nil, noop, fmt.Errorf("dataset: synthetic data is only available for the %s variant", models.VariantSearch)
		}
		return &SyntheticProvider{Rows: cfg.SyntheticRows, Seed: cfg.SyntheticSeed}, noop, nil

	case "csv":
		return &FileProvider{Path: cfg.DatasetPath, Schema: schema, Logger: logger}, noop, nil

	case "postgres", "sqlite":
		driver, dsn := DriverPostgres, cfg.DSN()
		if cfg.DatasetSource == "sqlite" {
			driver, dsn = DriverSQLite, cfg.SQLitePath
		}
		retry := &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		}
		store, err := OpenSQLStore(ctx, driver, dsn, schema, retry)
		if err != nil {
			return nil, noop, err
		}
		return store, store.Close, nil

	default:
		return nil, noop, fmt.Errorf("dataset: unknown source %q", cfg.DatasetSource)
	}
}

// Load runs a provider and rejects an empty or non-conforming dataset. Any
// error here is fatal for the session.
func Load(ctx context.Context, p Provider, schema *models.Schema, logger *utils.Logger) ([]models.CarRecord, error) {
	records, err := p.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset: %w", ErrEmptyDataset)
	}
	if err := services.NewCleaner(schema, logger).Validate(records); err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	return records, nil
}
