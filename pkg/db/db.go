package db

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	defaultMaxOpenConns    = 25
	defaultMaxIdleConns    = 5
	defaultConnMaxLifetime = 30 * time.Minute
	slowQueryThreshold     = 500 * time.Millisecond
)

// Config holds database connection configuration. Zero fields are read
// from the environment, then fall back to defaults.
type Config struct {
	// URL is the database connection URL (defaults to DATABASE_URL)
	URL string

	// LogLevel is one of debug, warn, error or silent (defaults to
	// BGUARD_LOG_LEVEL). Anything else keeps GORM silent.
	LogLevel string

	// MaxOpenConns caps the pool (BGUARD_DB_MAX_OPEN_CONNS)
	MaxOpenConns int
	// MaxIdleConns is the number of idle connections kept (BGUARD_DB_MAX_IDLE_CONNS)
	MaxIdleConns int
	// ConnMaxLifetime recycles connections, e.g. "15m" (BGUARD_DB_CONN_MAX_LIFETIME)
	ConnMaxLifetime time.Duration
}

// Connect establishes a database connection and sizes its pool.
func Connect(cfg Config) (*gorm.DB, error) {
	cfg, err := cfg.withEnv()
	if err != nil {
		return nil, err
	}
	if cfg.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{
			DSN:                  cfg.URL,
			PreferSimpleProtocol: true, // disables implicit prepared statement usage
		}),
		&gorm.Config{
			Logger: logger.New(log.New(os.Stderr, "", log.LstdFlags), logger.Config{
				SlowThreshold:             slowQueryThreshold,
				LogLevel:                  LogLevel(cfg.LogLevel),
				IgnoreRecordNotFoundError: true,
			}),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	configurePool(sqlDB, cfg)
	return db, nil
}

// LogLevel maps a BGUARD_LOG_LEVEL value to the GORM logger level. Only
// debug logs every statement; warn adds slow queries to errors.
func LogLevel(level string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return logger.Info
	case "warn", "warning":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}

func configurePool(sqlDB *sql.DB, cfg Config) {
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
}

func (cfg Config) withEnv() (Config, error) {
	if cfg.URL == "" {
		cfg.URL = os.Getenv("DATABASE_URL")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = os.Getenv("BGUARD_LOG_LEVEL")
	}

	var err error
	if cfg.MaxOpenConns == 0 {
		if cfg.MaxOpenConns, err = envInt("BGUARD_DB_MAX_OPEN_CONNS", defaultMaxOpenConns); err != nil {
			return cfg, err
		}
	}
	if cfg.MaxIdleConns == 0 {
		if cfg.MaxIdleConns, err = envInt("BGUARD_DB_MAX_IDLE_CONNS", defaultMaxIdleConns); err != nil {
			return cfg, err
		}
	}
	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		cfg.MaxIdleConns = cfg.MaxOpenConns
	}
	if cfg.ConnMaxLifetime == 0 {
		cfg.ConnMaxLifetime = defaultConnMaxLifetime
		if v := os.Getenv("BGUARD_DB_CONN_MAX_LIFETIME"); v != "" {
			if cfg.ConnMaxLifetime, err = time.ParseDuration(v); err != nil {
				return cfg, fmt.Errorf("bad BGUARD_DB_CONN_MAX_LIFETIME: %w", err)
			}
		}
	}
	return cfg, nil
}

func envInt(name string, fallback int) (int, error) {
	v := os.Getenv(name)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer, got %q", name, v)
	}
	return n, nil
}

// URL returns the database URL from environment.
// Returns empty string if DATABASE_URL is not set.
func URL() string {
	return os.Getenv("DATABASE_URL")
}
