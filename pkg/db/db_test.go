package db

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestConnect_RequiresURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Connect(Config{})
	assert.EqualError(t, err, "DATABASE_URL environment variable is required")
}

func TestURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://bguard@localhost/bguard")
	assert.Equal(t, "postgres://bguard@localhost/bguard", URL())
}

func TestLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want logger.LogLevel
	}{
		{"debug", logger.Info},
		{" DEBUG ", logger.Info},
		{"warn", logger.Warn},
		{"error", logger.Error},
		{"info", logger.Silent},
		{"", logger.Silent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, LogLevel(tt.in))
		})
	}
}

func TestConfigWithEnv(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("DATABASE_URL", "postgres://bguard@localhost/bguard")
		t.Setenv("BGUARD_LOG_LEVEL", "warn")
		t.Setenv("BGUARD_DB_MAX_OPEN_CONNS", "")
		t.Setenv("BGUARD_DB_MAX_IDLE_CONNS", "")
		t.Setenv("BGUARD_DB_CONN_MAX_LIFETIME", "")

		cfg, err := Config{}.withEnv()
		require.NoError(t, err)
		assert.Equal(t, "postgres://bguard@localhost/bguard", cfg.URL)
		assert.Equal(t, "warn", cfg.LogLevel)
		assert.Equal(t, defaultMaxOpenConns, cfg.MaxOpenConns)
		assert.Equal(t, defaultMaxIdleConns, cfg.MaxIdleConns)
		assert.Equal(t, defaultConnMaxLifetime, cfg.ConnMaxLifetime)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv("BGUARD_DB_MAX_OPEN_CONNS", "4")
		t.Setenv("BGUARD_DB_MAX_IDLE_CONNS", "10")
		t.Setenv("BGUARD_DB_CONN_MAX_LIFETIME", "5m")

		cfg, err := Config{}.withEnv()
		require.NoError(t, err)
		assert.Equal(t, 4, cfg.MaxOpenConns)
		assert.Equal(t, 4, cfg.MaxIdleConns, "idle connections are capped by the pool size")
		assert.Equal(t, 5*time.Minute, cfg.ConnMaxLifetime)
	})

	t.Run("explicit values win", func(t *testing.T) {
		t.Setenv("BGUARD_DB_MAX_OPEN_CONNS", "4")

		cfg, err := Config{MaxOpenConns: 50, LogLevel: "debug"}.withEnv()
		require.NoError(t, err)
		assert.Equal(t, 50, cfg.MaxOpenConns)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("bad values", func(t *testing.T) {
		t.Setenv("BGUARD_DB_MAX_OPEN_CONNS", "lots")
		_, err := Config{}.withEnv()
		assert.EqualError(t, err, `BGUARD_DB_MAX_OPEN_CONNS must be a positive integer, got "lots"`)

		t.Setenv("BGUARD_DB_MAX_OPEN_CONNS", "")
		t.Setenv("BGUARD_DB_CONN_MAX_LIFETIME", "forever")
		_, err = Config{}.withEnv()
		assert.ErrorContains(t, err, "bad BGUARD_DB_CONN_MAX_LIFETIME")
	})
}

func TestConfigurePool(t *testing.T) {
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	configurePool(sqlDB, Config{MaxOpenConns: 12, MaxIdleConns: 3, ConnMaxLifetime: time.Minute})
	assert.Equal(t, 12, sqlDB.Stats().MaxOpenConnections)
}
