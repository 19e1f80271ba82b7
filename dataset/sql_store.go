package dataset

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"car-dashboard/models"
	"car-dashboard/utils"
)

// Supported database/sql driver names.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

const carColumns = 13

// SQLStore reads (and, for seeding, writes) cars from a relational table.
// One table holds both layouts, told apart by the variant column.
type SQLStore struct {
	db     *sql.DB
	driver string
	schema *models.Schema
	logger *utils.Logger
}

// OpenSQLStore connects with retries, runs the schema migration and returns a
// ready-to-use store.
func OpenSQLStore(ctx context.Context, driver, dsn string, schema *models.Schema, retry *utils.RetryConfig) (*SQLStore, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s: open: %w", driver, err)
	}

	if err := retry.Do(ctx, driver+" ping", func(ctx context.Context) error {
		return db.PingContext(ctx)
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", driver, err)
	}

	logger := retry.Logger
	if logger == nil {
		logger = utils.NewNopLogger()
	}
	store := &SQLStore{db: db, driver: driver, schema: schema, logger: logger}
	if err := store.migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: migrate: %w", driver, err)
	}
	return store, nil
}

func (s *SQLStore) migrate(ctx context.Context) error {
	idColumn := "id SERIAL PRIMARY KEY"
	if s.driver == DriverSQLite {
		idColumn = "id INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmts := []string{
		`CREATE TABLE IF NOT EXISTS cars (
			` + idColumn + `,
			variant          VARCHAR(20)      NOT NULL,
			brand            TEXT             NOT NULL,
			model            TEXT             NOT NULL DEFAULT '',
			year             INTEGER          NOT NULL DEFAULT 0,
			age              INTEGER          NOT NULL DEFAULT 0,
			price            DOUBLE PRECISION NOT NULL DEFAULT 0,
			predicted_price  DOUBLE PRECISION NOT NULL DEFAULT 0,
			mileage          INTEGER          NOT NULL DEFAULT 0,
			fuel_type        VARCHAR(20)      NOT NULL,
			transmission     VARCHAR(20)      NOT NULL,
			power_to_weight  DOUBLE PRECISION NOT NULL DEFAULT 0,
			luxury_brand     INTEGER          NOT NULL DEFAULT 0,
			accident_impact  INTEGER          NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_cars_variant ON cars(variant)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Write replaces the variant's rows with records inside one transaction.
func (s *SQLStore) Write(ctx context.Context, records []models.CarRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin: %w", s.driver, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM cars WHERE variant = "+s.placeholder(1), string(s.schema.Variant)); err != nil {
		return fmt.Errorf("%s: clear: %w", s.driver, err)
	}

	const batchSize = 50
	for i := 0; i < len(records); i += batchSize {
		end := min(i+batchSize, len(records))
		if err := s.insertBatch(ctx, tx, records[i:end]); err != nil {
			return fmt.Errorf("%s: insert batch at %d: %w", s.driver, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit: %w", s.driver, err)
	}
	s.logger.Info("[dataset] Stored %d %s records in table cars", len(records), s.schema.Variant)
	return nil
}

func (s *SQLStore) insertBatch(ctx context.Context, tx *sql.Tx, batch []models.CarRecord) error {
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]any, 0, len(batch)*carColumns)

	for idx := range batch {
		r := &batch[idx]
		base := idx * carColumns
		ph := make([]string, carColumns)
		for j := range ph {
			ph[j] = s.placeholder(base + j + 1)
		}
		valueStrings = append(valueStrings, "("+strings.Join(ph, ",")+")")
		valueArgs = append(valueArgs,
			string(s.schema.Variant), r.Brand, r.Model, r.Year, r.Age, r.Price, r.PredictedPrice,
			r.Mileage, r.FuelType, r.Transmission, r.PowerToWeight,
			boolToInt(r.LuxuryBrand), boolToInt(r.AccidentImpact))
	}

	query := fmt.Sprintf(`
		INSERT INTO cars (variant, brand, model, year, age, price, predicted_price,
			mileage, fuel_type, transmission, power_to_weight, luxury_brand, accident_impact)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := tx.ExecContext(ctx, query, valueArgs...)
	return err
}

// Load implements Provider by fetching the variant's rows in insertion order.
func (s *SQLStore) Load(ctx context.Context) ([]models.CarRecord, error) {
	start := time.Now()
	rows, err := s.db.QueryContext(ctx, `
		SELECT brand, model, year, age, price, predicted_price, mileage,
			fuel_type, transmission, power_to_weight, luxury_brand, accident_impact
		FROM cars
		WHERE variant = `+s.placeholder(1)+`
		ORDER BY id
	`, string(s.schema.Variant))
	if err != nil {
		return nil, fmt.Errorf("%s: fetch all: %w", s.driver, err)
	}
	defer rows.Close()

	var records []models.CarRecord
	for rows.Next() {
		var r models.CarRecord
		var luxury, accident int
		if err := rows.Scan(
			&r.Brand, &r.Model, &r.Year, &r.Age, &r.Price, &r.PredictedPrice, &r.Mileage,
			&r.FuelType, &r.Transmission, &r.PowerToWeight, &luxury, &accident,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", s.driver, err)
		}
		r.LuxuryBrand = luxury != 0
		r.AccidentImpact = accident != 0
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: iterate rows: %w", s.driver, err)
	}

	s.logger.Debug("[dataset] Fetched %d rows in %v", len(records), time.Since(start))
	return records, nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) placeholder(n int) string {
	if s.driver == DriverSQLite {
		return "?"
	}
	return fmt.Sprintf("$%d", n)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
