package service

import (
	"bytes"
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	carCols = []string{"id", "model", "type", "price_per_day", "available", "image", "features", "year", "color", "fuel_type", "license_plate", "created_at"}

	bookingCols = []string{
		"id", "car_id", "customer_id", "pickup_date", "return_date", "days",
		"total_cost", "status", "booking_date", "additional_charges",
		"return_condition", "return_notes", "actual_return_date", "created_at",
		"model", "name", "email", "phone", "license_number",
	}

	returnCols = []string{
		"id", "booking_id", "return_date", "return_time", "condition_rating", "notes",
		"mileage", "fuel_level", "damages", "additional_charges", "total_amount",
		"processed_by", "model", "name",
	}
)

// fixedNow is the clock used by the workflow tests.
var fixedNow = time.Date(2025, 6, 20, 14, 30, 0, 0, time.UTC)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

// logContext returns a context carrying a logger that writes to the returned buffer.
func logContext() (context.Context, *bytes.Buffer) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	return logger.WithContext(context.Background()), &buf
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func carRow(id int64, model string, price float64) *sqlmock.Rows {
	return sqlmock.NewRows(carCols).
		AddRow(id, model, "economy", price, true, "🚗", "{}", nil, nil, nil, nil, time.Now())
}

func bookingRow(id int64, status string, totalCost float64) *sqlmock.Rows {
	return sqlmock.NewRows(bookingCols).
		AddRow(id, 1, 2, date(2025, 6, 15), date(2025, 6, 20), 5, totalCost, status, date(2025, 6, 1), 0.0,
			nil, nil, nil, time.Now(), "Toyota Camry", "Jane Doe", "jane@example.com", "555-0100", "D1234567")
}
