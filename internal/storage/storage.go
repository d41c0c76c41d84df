package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "github.com/uptrace/bun/driver/sqliteshim"

	"rsvp-service/internal/config"
	"rsvp-service/internal/logger"
)

// Open resolves the storage backend once for the process lifetime:
// postgres when a DSN is configured, the embedded sqlite file otherwise.
func Open(cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	if cfg.UsePostgres() {
		return openPostgres(cfg, log)
	}
	return openSQLite(cfg, log)
}

func openPostgres(cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		log.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.PostgresDSN)
		if err == nil {
			err = sqldb.Ping()
			if err == nil {
				break
			}
		}
		log.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("postgres connection failed after %d attempts: %w", maxRetries, err)
	}

	sqldb.SetMaxOpenConns(cfg.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.MaxLifetime)

	log.Info("DATABASE", "✅ PostgreSQL connection successful")
	return bun.NewDB(sqldb, pgdialect.New()), nil
}

func openSQLite(cfg config.DatabaseConfig, log *logger.Logger) (*bun.DB, error) {
	sqldb, err := sql.Open("sqlite", cfg.SQLitePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database %q: %w", cfg.SQLitePath, err)
	}
	if err := sqldb.Ping(); err != nil {
		return nil, fmt.Errorf("sqlite connection failed: %w", err)
	}

	log.Info("DATABASE", fmt.Sprintf("✅ SQLite connection successful (%s)", cfg.SQLitePath))
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}
