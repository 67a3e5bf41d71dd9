package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedEnv = []string{
	"ECCLESIA_APP_NAME",
	"ECCLESIA_APP_ENV",
	"ECCLESIA_APP_PORT",
	"ECCLESIA_APP_TIMEZONE",
	"ECCLESIA_DATABASE_HOST",
	"ECCLESIA_DATABASE_PORT",
	"ECCLESIA_DATABASE_PASSWORD",
	"ECCLESIA_DATABASE_SSLMODE",
	"ECCLESIA_DATABASE_MAX_OPEN_CONNS",
	"ECCLESIA_DATABASE_MAX_IDLE_CONNS",
	"ECCLESIA_JWT_SECRET",
	"ECCLESIA_STORE_ORIGIN_STATE",
	"ECCLESIA_STORE_FREE_SHIPPING_ABOVE",
	"ECCLESIA_STORAGE_ENABLED",
	"ECCLESIA_STORAGE_BUCKET",
	"ECCLESIA_EMAIL_ENABLED",
	"ECCLESIA_SWAGGER_ENABLED",
	"ECCLESIA_SWAGGER_ALLOWED_IPS",
	"ECCLESIA_HTTP_ALLOW_CHURCH_HEADER",
	"ECCLESIA_SCHEDULER_BILL_REMINDER_HOUR",
}

// clearEnv blanks every managed variable for the duration of the test
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range managedEnv {
		t.Setenv(k, "")
	}
}

func TestLoad(t *testing.T) {
	t.Run("loads default values when env vars not set", func(t *testing.T) {
		clearEnv(t)

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "ecclesia-backend", cfg.App.Name)
		assert.Equal(t, "development", cfg.App.Env)
		assert.Equal(t, "8080", cfg.App.Port)
		assert.Equal(t, "America/Sao_Paulo", cfg.App.Timezone)
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "ecclesia", cfg.Database.DBName)
		assert.Equal(t, 25, cfg.Database.MaxOpenConns)
		assert.Equal(t, 10*time.Minute, cfg.Redis.ReportTTL)
		assert.Equal(t, "SP", cfg.Store.OriginState)
		assert.Equal(t, 30*time.Minute, cfg.Store.PixExpiry)
		assert.Equal(t, 3, cfg.Scheduler.BillReminderDays)
		assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "X-Church-ID")
		assert.True(t, cfg.IsDevelopment())
	})

	t.Run("loads values from environment variables with ECCLESIA prefix", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_APP_NAME", "test-app")
		t.Setenv("ECCLESIA_APP_PORT", "9000")
		t.Setenv("ECCLESIA_DATABASE_HOST", "testdb.local")
		t.Setenv("ECCLESIA_DATABASE_PORT", "5433")
		t.Setenv("ECCLESIA_STORE_ORIGIN_STATE", "MG")
		t.Setenv("ECCLESIA_STORE_FREE_SHIPPING_ABOVE", "250.5")

		cfg, err := Load()
		require.NoError(t, err)

		assert.Equal(t, "test-app", cfg.App.Name)
		assert.Equal(t, "9000", cfg.App.Port)
		assert.Equal(t, "testdb.local", cfg.Database.Host)
		assert.Equal(t, 5433, cfg.Database.Port)
		assert.Equal(t, "MG", cfg.Store.OriginState)
		assert.InDelta(t, 250.5, cfg.Store.FreeShippingAbove, 0.0001)
	})

	t.Run("validates MaxIdleConns cannot exceed MaxOpenConns", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_DATABASE_MAX_OPEN_CONNS", "10")
		t.Setenv("ECCLESIA_DATABASE_MAX_IDLE_CONNS", "20")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot exceed")
	})

	t.Run("rejects unknown timezone", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_APP_TIMEZONE", "Mars/Olympus")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "app.timezone")
	})

	t.Run("storage needs a bucket", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_STORAGE_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "storage.bucket")
	})

	t.Run("email needs credentials", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_EMAIL_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "email.api_key")
	})

	t.Run("reminder hour out of range", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_SCHEDULER_BILL_REMINDER_HOUR", "24")

		_, err := Load()
		require.Error(t, err)
	})
}

func TestLoad_DotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("ECCLESIA_APP_PORT=7070\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		_ = os.Chdir(wd)
		os.Unsetenv("ECCLESIA_APP_PORT")
	})
	os.Unsetenv("ECCLESIA_APP_PORT")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.Port)
}

func TestLoad_ProductionValidation(t *testing.T) {
	setValidProductionBase := func(t *testing.T) {
		clearEnv(t)
		t.Setenv("ECCLESIA_APP_ENV", "production")
		t.Setenv("ECCLESIA_JWT_SECRET", "this-is-a-very-secure-jwt-secret-key-32chars")
		t.Setenv("ECCLESIA_DATABASE_PASSWORD", "secure-password")
		t.Setenv("ECCLESIA_DATABASE_SSLMODE", "require")
		t.Setenv("ECCLESIA_SWAGGER_ENABLED", "false")
	}

	t.Run("passes validation with valid production config", func(t *testing.T) {
		setValidProductionBase(t)

		cfg, err := Load()
		require.NoError(t, err)
		assert.Equal(t, "production", cfg.App.Env)
	})

	t.Run("requires jwt.secret at least 32 characters in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ECCLESIA_JWT_SECRET", "short-secret")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "jwt.secret must be at least 32 characters")
	})

	t.Run("requires database.password in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ECCLESIA_DATABASE_PASSWORD", "")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.password is required in production")
	})

	t.Run("requires SSL enabled in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ECCLESIA_DATABASE_SSLMODE", "disable")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "database.sslmode cannot be 'disable'")
	})

	t.Run("church header fallback is development only", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ECCLESIA_HTTP_ALLOW_CHURCH_HEADER", "true")

		_, err := Load()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "allow_church_header")
	})

	t.Run("swagger must be IP restricted in production", func(t *testing.T) {
		setValidProductionBase(t)
		t.Setenv("ECCLESIA_SWAGGER_ENABLED", "true")

		_, err := Load()
		require.Error(t, err)

		t.Setenv("ECCLESIA_SWAGGER_ALLOWED_IPS", "10.0.0.1")
		cfg, err := Load()
		require.NoError(t, err)
		assert.True(t, cfg.Swagger.Enabled)
	})
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "user",
		Password: "pass@word#123",
		DBName:   "ecclesia",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "localhost:5432")
	assert.Contains(t, dsn, "/ecclesia")
	assert.Contains(t, dsn, "sslmode=disable")
	assert.Contains(t, dsn, "pass%40word%23123")
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
