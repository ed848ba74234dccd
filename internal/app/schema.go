package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// schemaStatements create the tables and indexes. Every statement is
// idempotent so the schema can be applied on each start. License plates are
// unique among cars that are not deleted, so a retired car frees its plate.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS cars (
		id             BIGSERIAL PRIMARY KEY,
		model          VARCHAR(100) NOT NULL,
		type           VARCHAR(20) NOT NULL CHECK (type IN ('economy', 'compact', 'suv', 'luxury')),
		price_per_day  NUMERIC(10, 2) NOT NULL CHECK (price_per_day > 0),
		available      BOOLEAN NOT NULL DEFAULT TRUE,
		image          TEXT NOT NULL DEFAULT '🚗',
		features       TEXT[] NOT NULL DEFAULT '{}',
		year           INT,
		color          VARCHAR(50),
		fuel_type      VARCHAR(50),
		license_plate  VARCHAR(20),
		deleted_at     TIMESTAMPTZ,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`ALTER TABLE cars DROP CONSTRAINT IF EXISTS cars_license_plate_key`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_cars_license_plate_live ON cars (license_plate) WHERE deleted_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS customers (
		id              BIGSERIAL PRIMARY KEY,
		name            VARCHAR(100) NOT NULL,
		email           VARCHAR(100) NOT NULL,
		phone           VARCHAR(20) NOT NULL,
		license_number  VARCHAR(50) NOT NULL,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_customers_email ON customers (email)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id                  BIGSERIAL PRIMARY KEY,
		car_id              BIGINT NOT NULL REFERENCES cars (id),
		customer_id         BIGINT NOT NULL REFERENCES customers (id),
		pickup_date         DATE NOT NULL,
		return_date         DATE NOT NULL,
		days                INT NOT NULL,
		total_cost          NUMERIC(10, 2) NOT NULL,
		status              VARCHAR(20) NOT NULL DEFAULT 'active' CHECK (status IN ('active', 'completed', 'cancelled')),
		booking_date        DATE NOT NULL,
		additional_charges  NUMERIC(10, 2) NOT NULL DEFAULT 0,
		return_condition    VARCHAR(20) CHECK (return_condition IN ('excellent', 'good', 'fair', 'poor')),
		return_notes        TEXT,
		actual_return_date  DATE,
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		CHECK (return_date > pickup_date)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings (status)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_dates ON bookings (pickup_date, return_date)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_car_id ON bookings (car_id)`,
	`CREATE TABLE IF NOT EXISTS returns (
		id                  BIGSERIAL PRIMARY KEY,
		booking_id          BIGINT NOT NULL REFERENCES bookings (id),
		return_date         DATE NOT NULL,
		return_time         TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		condition_rating    VARCHAR(20) NOT NULL CHECK (condition_rating IN ('excellent', 'good', 'fair', 'poor')),
		notes               TEXT NOT NULL DEFAULT '',
		mileage             INT,
		fuel_level          INT CHECK (fuel_level BETWEEN 0 AND 100),
		damages             JSONB NOT NULL DEFAULT '[]',
		additional_charges  NUMERIC(10, 2) NOT NULL DEFAULT 0,
		total_amount        NUMERIC(10, 2) NOT NULL,
		processed_by        VARCHAR(100) NOT NULL DEFAULT 'System',
		created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_returns_return_date ON returns (return_date)`,
	`CREATE INDEX IF NOT EXISTS idx_returns_booking_id ON returns (booking_id)`,
}

// Migrate applies the schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}

	zerolog.Ctx(ctx).Info().Int("statements", len(schemaStatements)).Msg("database schema applied")
	return nil
}
