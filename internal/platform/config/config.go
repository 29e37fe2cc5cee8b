// Package config loads process configuration from the environment.
// A .env file in the working directory, when present, is loaded first and
// never overrides variables that are already set.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/rai/clean-bookstore-go/internal/platform/httpserver"
	"github.com/rai/clean-bookstore-go/internal/platform/spanner"
)

// Storage drivers.
const (
	DriverSQLite  = "sqlite"
	DriverSpanner = "spanner"
)

// Config is the full process configuration.
type Config struct {
	LogLevel string
	Currency string

	StoreDriver string
	SQLitePath  string
	Spanner     spanner.Config

	HTTP        httpserver.Config
	CORSOrigins []string

	RabbitURL      string
	RabbitExchange string

	// CartRejectOutOfStock enables the stricter add-to-cart policy that
	// refuses books whose stock is already zero.
	CartRejectOutOfStock bool
}

// Load reads the configuration. It fails on malformed values rather than
// silently falling back to defaults.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}

	httpCfg := httpserver.DefaultConfig()
	port, err := strconv.Atoi(getEnv("HTTP_PORT", strconv.Itoa(httpCfg.Port)))
	if err != nil {
		return Config{}, fmt.Errorf("HTTP_PORT: %w", err)
	}
	httpCfg.Host = getEnv("HTTP_HOST", httpCfg.Host)
	httpCfg.Port = port
	if httpCfg.ReadTimeout, err = getDuration("HTTP_READ_TIMEOUT", httpCfg.ReadTimeout); err != nil {
		return Config{}, err
	}
	if httpCfg.WriteTimeout, err = getDuration("HTTP_WRITE_TIMEOUT", httpCfg.WriteTimeout); err != nil {
		return Config{}, err
	}

	rejectOutOfStock, err := strconv.ParseBool(getEnv("CART_REJECT_OUT_OF_STOCK", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("CART_REJECT_OUT_OF_STOCK: %w", err)
	}

	cfg := Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		Currency:    strings.ToUpper(getEnv("CURRENCY", "USD")),
		StoreDriver: strings.ToLower(getEnv("STORE_DRIVER", DriverSQLite)),
		SQLitePath:  getEnv("SQLITE_PATH", "./data/bookstore.db"),
		Spanner: spanner.Config{
			ProjectID:  getEnv("SPANNER_PROJECT_ID", "local-project"),
			InstanceID: getEnv("SPANNER_INSTANCE_ID", "local-instance"),
			DatabaseID: getEnv("SPANNER_DATABASE_ID", "bookstore"),
		},
		HTTP:                 httpCfg,
		CORSOrigins:          splitCSV(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		RabbitURL:            os.Getenv("RABBITMQ_URL"),
		RabbitExchange:       getEnv("RABBITMQ_EXCHANGE", "bookstore.events"),
		CartRejectOutOfStock: rejectOutOfStock,
	}

	switch cfg.StoreDriver {
	case DriverSQLite:
	case DriverSpanner:
		if err := cfg.Spanner.Validate(); err != nil {
			return Config{}, err
		}
	default:
		return Config{}, fmt.Errorf("STORE_DRIVER: unknown driver %q", cfg.StoreDriver)
	}
	if len(cfg.Currency) != 3 {
		return Config{}, fmt.Errorf("CURRENCY: %q is not a 3-letter ISO code", cfg.Currency)
	}

	return cfg, nil
}

// getEnv returns the value of an environment variable or a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
