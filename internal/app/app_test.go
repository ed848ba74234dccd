package app

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental/internal/config"
	"carrental/internal/handler"
	"carrental/internal/repository/postgres"
	"carrental/internal/service"
)

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

func TestLoadSeedCars(t *testing.T) {
	cars, err := loadSeedCars(seedCarsYAML)
	require.NoError(t, err)
	require.Len(t, cars, 6)

	unavailable := 0
	for _, car := range cars {
		assert.True(t, car.Type.Valid(), car.Model)
		assert.Greater(t, car.PricePerDay, 0.0)
		assert.NotEmpty(t, car.Features)
		require.NotNil(t, car.LicensePlate)
		if !car.Available {
			unavailable++
			assert.Equal(t, "Ford Explorer", car.Model)
		}
	}
	assert.Equal(t, 1, unavailable)
}

func TestLoadSeedCars_Invalid(t *testing.T) {
	_, err := loadSeedCars([]byte("cars:\n  - model: Kart\n    type: go-kart\n    price_per_day: 5\n"))
	assert.Error(t, err)

	_, err = loadSeedCars([]byte("cars: ["))
	assert.Error(t, err)
}

func TestSeedSampleData(t *testing.T) {
	ctx := context.Background()

	t.Run("existing fleet is left alone", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cars`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

		require.NoError(t, SeedSampleData(ctx, db))
	})

	t.Run("empty table is seeded in one transaction", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM cars`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
		mock.ExpectBegin()
		for i := 1; i <= 6; i++ {
			mock.ExpectQuery("INSERT INTO cars").
				WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(i, time.Now()))
		}
		mock.ExpectCommit()

		require.NoError(t, SeedSampleData(ctx, db))
	})
}

func TestMigrate(t *testing.T) {
	db, mock := newMockDB(t)
	for range schemaStatements {
		mock.ExpectExec("^(CREATE|ALTER) ").
			WillReturnResult(sqlmock.NewResult(0, 0))
	}

	require.NoError(t, Migrate(context.Background(), db))
}

func TestSchema_LicensePlateUniqueAmongLiveCars(t *testing.T) {
	var partial bool
	for _, stmt := range schemaStatements {
		if strings.Contains(stmt, "CREATE TABLE IF NOT EXISTS cars") {
			assert.NotContains(t, stmt, "UNIQUE", "a plain unique constraint would keep deleted plates reserved")
		}
		if strings.Contains(stmt, "UNIQUE INDEX") && strings.Contains(stmt, "cars (license_plate)") {
			assert.Contains(t, stmt, "WHERE deleted_at IS NULL")
			partial = true
		}
	}
	assert.True(t, partial)
}

func TestPrepareDatabase_Disabled(t *testing.T) {
	db, _ := newMockDB(t)
	assert.NoError(t, PrepareDatabase(context.Background(), db, config.DatabaseConfig{}))
}

type fakePinger struct {
	err error
}

func (p fakePinger) PingContext(context.Context) error {
	return p.err
}

func newTestRouter(t *testing.T, pingErr error) (*gin.Engine, sqlmock.Sqlmock) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock := newMockDB(t)

	carRepo := postgres.NewCarRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	notifications := service.NewNotificationService()

	router := NewRouter(RouterDeps{
		CarHandler: handler.NewCarHandler(service.NewCarService(db, carRepo, nil)),
		BookingHandler: handler.NewBookingHandler(
			service.NewBookingService(db, carRepo, bookingRepo, nil, nil, notifications),
		),
		ReturnHandler: handler.NewReturnHandler(
			service.NewReturnService(db, bookingRepo, postgres.NewReturnRepository(db), nil, notifications, service.NewReceiptService()),
		),
		HealthHandler: handler.NewHealthHandler(fakePinger{err: pingErr}),
	})
	return router, mock
}

func TestRouter(t *testing.T) {
	router, mock := newTestRouter(t, nil)

	get := func(path string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		return w
	}

	w := get("/api/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"OK"`)
	assert.Contains(t, w.Body.String(), "Car Rental System API is running")
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	mock.ExpectQuery("FROM cars").
		WillReturnRows(sqlmock.NewRows([]string{"id", "model", "type", "price_per_day", "available", "image", "features", "year", "color", "fuel_type", "license_plate", "created_at"}).
			AddRow(1, "Toyota Camry", "economy", 45.0, true, "🚗", "{AC}", 2023, "Silver", "Gasoline", "ABC-123", time.Now()))
	w = get("/api/cars?type=economy")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"model":"Toyota Camry"`)

	w = get("/api/nowhere")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())

	w = get("/api/cars/abc")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = get("/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_HealthDatabaseDown(t *testing.T) {
	router, _ := newTestRouter(t, sql.ErrConnDone)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ERROR"`)
}
