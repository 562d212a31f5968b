package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks every variable the tests touch; t.Setenv restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SHOP_APP_NAME", "SHOP_APP_ENV", "SHOP_APP_PORT",
		"SHOP_BACKEND_BASE_URL", "SHOP_BACKEND_TIMEOUT",
		"SHOP_DATABASE_DRIVER", "SHOP_DATABASE_PASSWORD", "SHOP_DATABASE_SSLMODE",
		"SHOP_DATABASE_MAX_OPEN_CONNS", "SHOP_DATABASE_MAX_IDLE_CONNS",
		"SHOP_JWT_SECRET", "SHOP_SESSION_STORE", "SHOP_SESSION_TTL",
		"SHOP_COOKIE_SECURE", "SHOP_COOKIE_SAME_SITE",
		"SHOP_PAGINATION_PAGE_SIZE", "SHOP_STORAGE_ENABLED", "SHOP_STORAGE_BUCKET",
		"SHOP_TELEMETRY_SAMPLING_RATIO",
		"SHOP_JANITOR_ENABLED", "SHOP_JANITOR_GUEST_MAX_AGE",
		"SHOP_SWAGGER_ENABLED", "SHOP_SWAGGER_REQUIRE_AUTH", "SHOP_SWAGGER_ALLOWED_IPS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "storefront-bff", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "http://localhost:9090/api", cfg.Backend.BaseURL)
		assert.Equal(t, 10*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, "sqlite", cfg.Database.Driver)
		assert.Equal(t, "redis", cfg.Session.Store)
		assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
		assert.Equal(t, "sf_session", cfg.Cookie.Name)
		assert.Equal(t, 6, cfg.Pagination.PageSize)
		assert.Equal(t, "storefront-bff", cfg.Telemetry.ServiceName)
	})

	t.Run("loads values from environment variables with SHOP prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_APP_NAME", "shop-test")
		t.Setenv("SHOP_BACKEND_BASE_URL", "https://api.example.com")
		t.Setenv("SHOP_BACKEND_TIMEOUT", "3s")
		t.Setenv("SHOP_DATABASE_DRIVER", "postgres")
		t.Setenv("SHOP_SESSION_STORE", "memory")
		t.Setenv("SHOP_SESSION_TTL", "30m")
		t.Setenv("SHOP_PAGINATION_PAGE_SIZE", "10")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "shop-test", cfg.App.Name)
		assert.Equal(t, "https://api.example.com", cfg.Backend.BaseURL)
		assert.Equal(t, 3*time.Second, cfg.Backend.Timeout)
		assert.Equal(t, "postgres", cfg.Database.Driver)
		assert.Equal(t, "memory", cfg.Session.Store)
		assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
		assert.Equal(t, 10, cfg.Pagination.PageSize)
	})

	t.Run("rejects unknown drivers and stores", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_DATABASE_DRIVER", "mysql")
		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.driver")

		clearEnv(t)
		t.Setenv("SHOP_SESSION_STORE", "file")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.store")
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("SHOP_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("requires a bucket when storage is enabled", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("rejects a janitor max age shorter than a session", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_JANITOR_ENABLED", "true")
		t.Setenv("SHOP_JANITOR_GUEST_MAX_AGE", "1h")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "janitor.guest_max_age")

		t.Setenv("SHOP_JANITOR_GUEST_MAX_AGE", "48h")
		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, 48*time.Hour, cfg.Janitor.GuestMaxAge)
		assert.Equal(t, time.Hour, cfg.Janitor.Interval)
	})

	t.Run("rejects SameSite none without secure", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_COOKIE_SAME_SITE", "none")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "same_site=none")
	})

	t.Run("rejects sampling ratio out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_TELEMETRY_SAMPLING_RATIO", "1.5")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "sampling_ratio")
	})
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("SHOP_APP_ENV", "production")
		t.Setenv("SHOP_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("SHOP_COOKIE_SECURE", "true")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.App.IsProduction())
	})

	t.Run("requires jwt.secret in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SHOP_JWT_SECRET", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret is required in production")
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SHOP_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "at least 32 characters")
	})

	t.Run("requires secure cookies in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SHOP_COOKIE_SECURE", "false")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cookie.secure")
	})

	t.Run("rejects memory session store in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SHOP_SESSION_STORE", "memory")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "session.store cannot be 'memory'")
	})

	t.Run("requires postgres password and SSL in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SHOP_DATABASE_DRIVER", "postgres")
		t.Setenv("SHOP_DATABASE_SSLMODE", "require")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required")

		t.Setenv("SHOP_DATABASE_PASSWORD", "secure-password")
		t.Setenv("SHOP_DATABASE_SSLMODE", "disable")
		_, err = Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable'")
	})

	t.Run("rejects open swagger in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("SHOP_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "swagger endpoint must be disabled")

		t.Setenv("SHOP_SWAGGER_REQUIRE_AUTH", "true")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.RequireAuth)

		t.Setenv("SHOP_SWAGGER_REQUIRE_AUTH", "false")
		t.Setenv("SHOP_SWAGGER_ALLOWED_IPS", "10.0.0.5")
		cfg, err = Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"10.0.0.5"}, cfg.Swagger.AllowedIPs)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	t.Run("generates valid DSN", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "testuser",
			Password: "testpass",
			DBName:   "testdb",
			SSLMode:  "disable",
		}

		dsn := cfg.DSN()
		assert.Contains(t, dsn, "localhost:5432")
		assert.Contains(t, dsn, "testuser")
		assert.Contains(t, dsn, "testdb")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("escapes special characters in password", func(t *testing.T) {
		cfg := DatabaseConfig{Host: "localhost", Port: 5432, User: "user", Password: "pass@word#123", DBName: "db", SSLMode: "disable"}
		assert.Contains(t, cfg.DSN(), "pass%40word%23123")
	})
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", cfg.Addr())
}
