package app

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/newrelic/go-agent/v3/integrations/nrpq" // Registers "nrpostgres" driver
	"github.com/newrelic/go-agent/v3/newrelic"

	"carrental/internal/config"
)

// NewDatabase opens the PostgreSQL pool described by cfg and verifies it.
// If nrApp is provided, the New Relic instrumented driver is used so every
// query is traced.
func NewDatabase(ctx context.Context, cfg config.DatabaseConfig, nrApp *newrelic.Application) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	driver := "postgres"
	if nrApp != nil {
		driver = "nrpostgres"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database with %s: %w", driver, err)
	}

	configurePool(db, cfg)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// configurePool applies the pool limits. The booking and return workflows
// hold a connection for a whole transaction, so MaxOpenConns bounds the
// number of concurrent mutations.
func configurePool(db *sql.DB, cfg config.DatabaseConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
}

// PrepareDatabase applies the schema and seeds the sample fleet according
// to cfg.
func PrepareDatabase(ctx context.Context, db *sql.DB, cfg config.DatabaseConfig) error {
	if cfg.AutoMigrate {
		if err := Migrate(ctx, db); err != nil {
			return err
		}
	}
	if cfg.SeedSampleData {
		if err := SeedSampleData(ctx, db); err != nil {
			return err
		}
	}
	return nil
}
