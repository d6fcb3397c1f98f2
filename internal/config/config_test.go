package config_test

import (
	"testing"
	"time"

	"tienda/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "PEN", cfg.CulqiCurrency)
	assert.False(t, cfg.StrictOrderTotal)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("REQUEST_TIMEOUT", "3s")
	t.Setenv("STRICT_ORDER_TOTAL", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.StrictOrderTotal)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cr3t-for-tests")
	t.Setenv("DB_DRIVER", "oracle")

	_, err := config.Load()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported DB_DRIVER")
}

func TestLoad_RejectsMissingOrPlaceholderJWTSecret(t *testing.T) {
	for _, secret := range []string{"", "change_me"} {
		t.Run("secret="+secret, func(t *testing.T) {
			t.Setenv("JWT_SECRET", secret)

			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "JWT_SECRET")
		})
	}
}
