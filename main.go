package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"car-dashboard/config"
	"car-dashboard/dataset"
	"car-dashboard/models"
	"car-dashboard/server"
	"car-dashboard/services"
	"car-dashboard/storage"
	"car-dashboard/utils"
)

const usage = `usage: car-dashboard [report|serve|seed] [flags]

  report  filter the dataset, print the dashboard and optionally export it (default)
  serve   expose the dashboard over HTTP
  seed    copy a dataset into the configured SQL table`

func main() {
	cfg := config.Load()
	logger := utils.NewLoggerWithOptions(utils.LoggerOptions{Level: cfg.LogLevel, File: cfg.LogFile})
	defer logger.Sync()

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration: %v", err)
		os.Exit(1)
	}

	cmd, args := "report", os.Args[1:]
	if len(args) > 0 && args[0] != "" && args[0][0] != '-' {
		cmd, args = args[0], args[1:]
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd {
	case "report":
		err = runReport(ctx, cfg, logger, args)
	case "serve":
		err = runServe(ctx, cfg, logger)
	case "seed":
		err = runSeed(ctx, cfg, logger, args)
	default:
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("%s failed: %v", cmd, err)
		logger.Sync()
		os.Exit(1)
	}
}

// openSession loads the configured dataset. Any failure here is fatal.
func openSession(ctx context.Context, cfg *config.Config, logger *utils.Logger) (*services.Session, error) {
	schema, err := models.SchemaFor(models.Variant(cfg.Variant))
	if err != nil {
		return nil, err
	}

	provider, closeProvider, err := dataset.New(ctx, cfg, schema, logger)
	if err != nil {
		return nil, err
	}
	defer closeProvider()

	records, err := dataset.Load(ctx, provider, schema, logger)
	if err != nil {
		return nil, err
	}
	return services.NewSession(schema, records, logger), nil
}

func runReport(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	f := newFilterFlags(fs, models.Variant(cfg.Variant))
	export := fs.Bool("export", false, "write the filtered rows to EXPORT_DIR")
	format := fs.String("format", cfg.ExportFormat, "export format: csv or xlsx")
	if err := fs.Parse(args); err != nil {
		return err
	}

	spec, err := f.spec()
	if err != nil {
		return err
	}

	session, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	result := session.Query(spec)
	session.Insights().Print(os.Stdout, session.Dashboard(result))

	if !*export {
		return nil
	}
	if result.Empty() {
		logger.Warn("Nothing to export: %s", services.EmptyResultMessage)
		return nil
	}

	exp, err := storage.NewExporter(*format, session.Schema())
	if err != nil {
		return err
	}
	path, err := storage.NewFileWriter(cfg.ExportDir, cfg.ExportPrefix).Write(exp, result.Records)
	if err != nil {
		return err
	}
	logger.Info("Exported %d rows to %s", len(result.Records), path)
	return nil
}

func runServe(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	session, err := openSession(ctx, cfg, logger)
	if err != nil {
		return err
	}

	srv := server.New(session, logger, server.Options{ExportPrefix: cfg.ExportPrefix})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(cfg.HTTPAddr) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("Shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func runSeed(ctx context.Context, cfg *config.Config, logger *utils.Logger, args []string) error {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	target := fs.String("target", "sqlite", "destination database: postgres or sqlite")
	from := fs.String("from", "", "CSV file to copy; the synthetic generator is used when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	schema, err := models.SchemaFor(models.Variant(cfg.Variant))
	if err != nil {
		return err
	}

	var source dataset.Provider = &dataset.SyntheticProvider{Rows: cfg.SyntheticRows, Seed: cfg.SyntheticSeed}
	if *from != "" {
		source = &dataset.FileProvider{Path: *from, Schema: schema, Logger: logger}
	} else if schema.Variant != models.VariantSearch {
		return fmt.Errorf("seed: -from is required for the %s variant", schema.Variant)
	}

	records, err := dataset.Load(ctx, source, schema, logger)
	if err != nil {
		return err
	}

	driver, dsn := dataset.DriverSQLite, cfg.SQLitePath
	switch *target {
	case "postgres":
		driver, dsn = dataset.DriverPostgres, cfg.DSN()
	case "sqlite":
		if dsn == "" {
			return fmt.Errorf("seed: SQLITE_PATH is not set")
		}
	default:
		return fmt.Errorf("seed: unknown target %q", *target)
	}

	store, err := dataset.OpenSQLStore(ctx, driver, dsn, schema, &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	})
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Write(ctx, records)
}

// filterFlags holds the raw facet flags; empty numeric flags are unconstrained.
type filterFlags struct {
	brand, fuel, transmission *string
	periodMin, periodMax      *string
	priceMin, priceMax        *string
	maxMileage                *string
}

// newFilterFlags registers the facet flags. For the search variant the
// defaults match the dashboard's initial state: years 2018–2023, prices
// 10000–25000 and at most 100000 km.
func newFilterFlags(fs *flag.FlagSet, variant models.Variant) *filterFlags {
	periodMin, periodMax, priceMin, priceMax, maxKm := "", "", "", "", ""
	if variant == models.VariantSearch {
		periodMin, periodMax, priceMin, priceMax, maxKm = "2018", "2023", "10000", "25000", "100000"
	}

	return &filterFlags{
		brand:        fs.String("brand", models.AllValues, "brand to keep, or all"),
		fuel:         fs.String("fuel", models.AllValues, "fuel type to keep, or all"),
		transmission: fs.String("transmission", models.AllValues, "transmission to keep, or all"),
		periodMin:    fs.String("period-min", periodMin, "lowest year (search) or age (predictor)"),
		periodMax:    fs.String("period-max", periodMax, "highest year (search) or age (predictor)"),
		priceMin:     fs.String("price-min", priceMin, "lowest price"),
		priceMax:     fs.String("price-max", priceMax, "highest price"),
		maxMileage:   fs.String("max-mileage", maxKm, "highest mileage"),
	}
}

func (f *filterFlags) spec() (models.FilterSpec, error) {
	spec := models.FilterSpec{
		Brand:        *f.brand,
		FuelType:     *f.fuel,
		Transmission: *f.transmission,
	}

	var err error
	if spec.Period, err = flagRange("period", *f.periodMin, *f.periodMax); err != nil {
		return spec, err
	}
	if spec.Price, err = flagRange("price", *f.priceMin, *f.priceMax); err != nil {
		return spec, err
	}
	if *f.maxMileage != "" {
		v, err := strconv.ParseFloat(*f.maxMileage, 64)
		if err != nil {
			return spec, fmt.Errorf("-max-mileage: %q is not a number", *f.maxMileage)
		}
		spec.MaxMileage = &v
	}
	return spec, nil
}

func flagRange(name, rawMin, rawMax string) (*models.Range, error) {
	if rawMin == "" && rawMax == "" {
		return nil, nil
	}
	rng := &models.Range{Min: -1 << 53, Max: 1 << 53}
	if rawMin != "" {
		v, err := strconv.ParseFloat(rawMin, 64)
		if err != nil {
			return nil, fmt.Errorf("-%s-min: %q is not a number", name, rawMin)
		}
		rng.Min = v
	}
	if rawMax != "" {
		v, err := strconv.ParseFloat(rawMax, 64)
		if err != nil {
			return nil, fmt.Errorf("-%s-max: %q is not a number", name, rawMax)
		}
		rng.Max = v
	}
	return rng, nil
}
