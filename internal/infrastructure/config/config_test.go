package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	originalEnv := map[string]string{
		"FURNISH_APP_NAME":                     os.Getenv("FURNISH_APP_NAME"),
		"FURNISH_APP_ENV":                      os.Getenv("FURNISH_APP_ENV"),
		"FURNISH_APP_PORT":                     os.Getenv("FURNISH_APP_PORT"),
		"FURNISH_DATABASE_HOST":                os.Getenv("FURNISH_DATABASE_HOST"),
		"FURNISH_DATABASE_PASSWORD":            os.Getenv("FURNISH_DATABASE_PASSWORD"),
		"FURNISH_DATABASE_SSLMODE":             os.Getenv("FURNISH_DATABASE_SSLMODE"),
		"FURNISH_FINANCE_CAS_RETRIES":          os.Getenv("FURNISH_FINANCE_CAS_RETRIES"),
		"FURNISH_FINANCE_DEFAULT_AR_TOLERANCE": os.Getenv("FURNISH_FINANCE_DEFAULT_AR_TOLERANCE"),
		"FURNISH_APPROVAL_BASE_URL":            os.Getenv("FURNISH_APPROVAL_BASE_URL"),
		"FURNISH_APPROVAL_CALLBACK_KEY":        os.Getenv("FURNISH_APPROVAL_CALLBACK_KEY"),
	}

	defer func() {
		for k, v := range originalEnv {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}()

	clearEnv := func() {
		for k := range originalEnv {
			os.Unsetenv(k)
		}
	}

	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv()

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "furnish-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "furnish", cfg.Database.DBName)
		assert.Equal(t, 3, cfg.Finance.CASRetries)
		assert.Equal(t, 5*time.Minute, cfg.Finance.SettingsCacheTTL)
		assert.True(t, cfg.Finance.DefaultARTolerance.IsZero())
		assert.Equal(t, 10*time.Second, cfg.Approval.Timeout)
	})

	t.Run("environment variables override defaults", func(t *testing.T) {
		clearEnv()
		os.Setenv("FURNISH_APP_NAME", "settlement-test")
		os.Setenv("FURNISH_APP_PORT", "9000")
		os.Setenv("FURNISH_DATABASE_HOST", "testdb.local")
		os.Setenv("FURNISH_FINANCE_CAS_RETRIES", "5")
		os.Setenv("FURNISH_FINANCE_DEFAULT_AR_TOLERANCE", "0.05")
		os.Setenv("FURNISH_APPROVAL_BASE_URL", "http://approval.local")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "settlement-test", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5, cfg.Finance.CASRetries)
		assert.True(t, cfg.Finance.DefaultARTolerance.Equal(decimal.NewFromFloat(0.05)))
		assert.Equal(t, "http://approval.local", cfg.Approval.BaseURL)
	})

	t.Run("rejects malformed tolerance", func(t *testing.T) {
		clearEnv()
		os.Setenv("FURNISH_FINANCE_DEFAULT_AR_TOLERANCE", "not-a-number")

		_, err := Load()
		require.Error(t, err)
	})

	t.Run("production requires database password and ssl", func(t *testing.T) {
		clearEnv()
		os.Setenv("FURNISH_APP_ENV", "production")
		os.Setenv("FURNISH_APPROVAL_CALLBACK_KEY", "secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password")

		os.Setenv("FURNISH_DATABASE_PASSWORD", "s3cret")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sslmode")

		os.Setenv("FURNISH_DATABASE_SSLMODE", "require")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "furnish",
		Password: "p@ss/word",
		DBName:   "furnish",
		SSLMode:  "require",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	// Special characters must be escaped, not passed through raw
	assert.NotContains(t, dsn, "p@ss/word")
}
