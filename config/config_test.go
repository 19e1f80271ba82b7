package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_VARIANT", "")
	t.Setenv("DATASET_SOURCE", "")
	t.Setenv("EXPORT_PREFIX", "")
	t.Setenv("SYNTHETIC_ROWS", "")

	cfg := Load()
	assert.Equal(t, "search", cfg.Variant)
	assert.Equal(t, "synthetic", cfg.DatasetSource)
	assert.Equal(t, 1000, cfg.SyntheticRows)
	assert.Equal(t, "coches_filtrados", cfg.ExportPrefix)
	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("APP_VARIANT", "predictor")
	t.Setenv("DATASET_SOURCE", "csv")
	t.Setenv("DATASET_PATH", "data/predicted.csv")
	t.Setenv("SYNTHETIC_ROWS", "not-a-number")

	cfg := Load()
	assert.Equal(t, "predictor", cfg.Variant)
	assert.Equal(t, "data/predicted.csv", cfg.DatasetPath)
	assert.Equal(t, 1000, cfg.SyntheticRows, "invalid ints fall back to the default")
	require.NoError(t, cfg.Validate())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown variant", func(c *Config) { c.Variant = "auction" }},
		{"unknown source", func(c *Config) { c.DatasetSource = "s3" }},
		{"csv without path", func(c *Config) { c.DatasetSource = "csv"; c.DatasetPath = "" }},
		{"sqlite without path", func(c *Config) { c.DatasetSource = "sqlite"; c.SQLitePath = "" }},
		{"unknown export format", func(c *Config) { c.ExportFormat = "pdf" }},
		{"empty prefix", func(c *Config) { c.ExportPrefix = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Load()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "cars", PostgresSSLMode: "disable",
	}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=cars sslmode=disable", cfg.DSN())
}
