package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPAddr            string
	MetricsAddr         string
	JWTSecret           string
	TokenTTL            time.Duration
	RequestTimeout      time.Duration
	BankRate            decimal.Decimal
	StorageDriver       string
	DBHost              string
	DBPort              string
	DBUser              string
	DBPassword          string
	DBName              string
	NotificationWorkers int
	SeedDemo            bool
}

// Load reads an optional .env file and then the process environment.
func Load(logger *slog.Logger, files ...string) (*Config, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := godotenv.Load(files...); err != nil {
		logger.Info("No .env file found, using environment variables")
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		HTTPAddr:      getenvOrDefault("HTTP_ADDR", ":8080"),
		MetricsAddr:   getenvOrDefault("METRICS_ADDR", ":9090"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		StorageDriver: getenvOrDefault("STORAGE_DRIVER", StorageMemory),
		DBHost:        getenvOrDefault("DB_HOST", "localhost"),
		DBPort:        getenvOrDefault("DB_PORT", "5432"),
		DBUser:        os.Getenv("DB_USER"),
		DBPassword:    os.Getenv("DB_PASSWORD"),
		DBName:        os.Getenv("DB_NAME"),
	}

	var err error
	if cfg.TokenTTL, err = time.ParseDuration(getenvOrDefault("TOKEN_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if cfg.RequestTimeout, err = time.ParseDuration(getenvOrDefault("REQUEST_TIMEOUT", "30s")); err != nil {
		return nil, fmt.Errorf("invalid REQUEST_TIMEOUT: %w", err)
	}
	if cfg.BankRate, err = decimal.NewFromString(getenvOrDefault("BANK_RATE", "5")); err != nil {
		return nil, fmt.Errorf("invalid BANK_RATE: %w", err)
	}
	if cfg.BankRate.IsNegative() {
		return nil, fmt.Errorf("invalid BANK_RATE: must not be negative, got %s", cfg.BankRate)
	}
	if cfg.NotificationWorkers, err = strconv.Atoi(getenvOrDefault("NOTIFICATION_WORKERS", "3")); err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_WORKERS: %w", err)
	}
	if cfg.SeedDemo, err = strconv.ParseBool(getenvOrDefault("SEED_DEMO", "false")); err != nil {
		return nil, fmt.Errorf("invalid SEED_DEMO: %w", err)
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	switch cfg.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if cfg.DBUser == "" || cfg.DBName == "" {
			return nil, fmt.Errorf("DB_USER and DB_NAME are required for the postgres storage driver")
		}
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	return cfg, nil
}

// getenvOrDefault returns the environment variable value if set, otherwise returns def
func getenvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
