package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/clean-bookstore-go/internal/platform/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.False(t, cfg.CartRejectOutOfStock)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.Equal(t, "projects/local-project/instances/local-instance/databases/bookstore", cfg.Spanner.DSN())
}

func TestLoad_Overrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORE_DRIVER", "Spanner")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("HTTP_READ_TIMEOUT", "3s")
	t.Setenv("CART_REJECT_OUT_OF_STOCK", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("CURRENCY", "eur")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, config.DriverSpanner, cfg.StoreDriver)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ReadTimeout)
	assert.True(t, cfg.CartRejectOutOfStock)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "STORE_DRIVER", "mysql"},
		{"bad port", "HTTP_PORT", "eighty"},
		{"bad bool", "CART_REJECT_OUT_OF_STOCK", "sometimes"},
		{"bad duration", "HTTP_WRITE_TIMEOUT", "soon"},
		{"bad currency", "CURRENCY", "DOLLARS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.value)

			_, err := config.Load()

			assert.Error(t, err)
		})
	}
}
