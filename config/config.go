package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Variant       string `validate:"oneof=search predictor"`
	DatasetSource string `validate:"oneof=synthetic csv postgres sqlite"`
	DatasetPath   string `validate:"required_if=DatasetSource csv"`
	SyntheticRows int    `validate:"min=0"`
	SyntheticSeed int64

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string
	SQLitePath       string `validate:"required_if=DatasetSource sqlite"`
	MaxRetries       int    `validate:"min=1"`

	ExportDir    string
	ExportPrefix string `validate:"required"`
	ExportFormat string `validate:"oneof=csv xlsx"`

	HTTPAddr string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	LogFile  string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		Variant:       getEnv("APP_VARIANT", "search"),
		DatasetSource: getEnv("DATASET_SOURCE", "synthetic"),
		DatasetPath:   getEnv("DATASET_PATH", ""),
		SyntheticRows: getEnvInt("SYNTHETIC_ROWS", 1000),
		SyntheticSeed: int64(getEnvInt("SYNTHETIC_SEED", 42)),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard123"),
		PostgresDB:       getEnv("POSTGRES_DB", "cars_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		SQLitePath:       getEnv("SQLITE_PATH", ""),
		MaxRetries:       getEnvInt("MAX_RETRIES", 3),

		ExportDir:    getEnv("EXPORT_DIR", "./output"),
		ExportPrefix: getEnv("EXPORT_PREFIX", "coches_filtrados"),
		ExportFormat: getEnv("EXPORT_FORMAT", "csv"),

		HTTPAddr: getEnv("HTTP_ADDR", ":8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}
}

// Validate checks the loaded values against their allowed sets.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
