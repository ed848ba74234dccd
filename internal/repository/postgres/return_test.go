package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental/internal/domain"
	"carrental/internal/repository"
	"carrental/internal/repository/postgres"
)

var returnColumns = []string{
	"id", "booking_id", "return_date", "return_time", "condition_rating", "notes",
	"mileage", "fuel_level", "damages", "additional_charges", "total_amount",
	"processed_by", "model", "name",
}

func newReturnRepo(t *testing.T) (sqlmock.Sqlmock, *postgres.ReturnRepository) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return mock, postgres.NewReturnRepository(db)
}

func TestReturnRepository_Create(t *testing.T) {
	mock, repo := newReturnRepo(t)
	fuel := 10

	ret := &domain.Return{
		BookingID:         5,
		ReturnDate:        day(2025, 6, 20),
		ReturnTime:        time.Now(),
		Condition:         domain.ConditionGood,
		FuelLevel:         &fuel,
		Damages:           []domain.Damage{{Description: "scratch", Severity: domain.SeverityMinor}},
		AdditionalCharges: 105,
		TotalAmount:       330,
		ProcessedBy:       domain.ProcessedBySystem,
	}

	mock.ExpectQuery("INSERT INTO returns").
		WithArgs(int64(5), "2025-06-20", sqlmock.AnyArg(), "good", "", nil, int64(10),
			[]byte(`[{"description":"scratch","severity":"minor"}]`), 105.0, 330.0, "System").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	require.NoError(t, repo.Create(context.Background(), ret))
	assert.Equal(t, int64(3), ret.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepository_GetByID(t *testing.T) {
	mock, repo := newReturnRepo(t)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		mock.ExpectQuery(`FROM returns r (.+) WHERE r.id = \$1`).
			WithArgs(int64(3)).
			WillReturnRows(sqlmock.NewRows(returnColumns).
				AddRow(3, 5, day(2025, 6, 20), time.Now(), "poor", nil, 12000, nil,
					[]byte(`[{"description":"bumper","severity":"major"}]`), 500.0, 725.0, "System", "Ford Explorer", "Sam"))

		ret, err := repo.GetByID(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, domain.ConditionPoor, ret.Condition)
		assert.Equal(t, "", ret.Notes)
		require.NotNil(t, ret.Mileage)
		assert.Equal(t, 12000, *ret.Mileage)
		assert.Nil(t, ret.FuelLevel)
		require.Len(t, ret.Damages, 1)
		assert.Equal(t, domain.SeverityMajor, ret.Damages[0].Severity)
		assert.Equal(t, "Ford Explorer", ret.CarModel)
	})

	t.Run("not found", func(t *testing.T) {
		mock.ExpectQuery(`FROM returns r (.+) WHERE r.id = \$1`).
			WithArgs(int64(4)).
			WillReturnRows(sqlmock.NewRows(returnColumns))

		_, err := repo.GetByID(ctx, 4)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepository_List(t *testing.T) {
	mock, repo := newReturnRepo(t)

	mock.ExpectQuery(`WHERE r.booking_id = \$1 ORDER BY r.return_date DESC`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(returnColumns).
			AddRow(3, 5, day(2025, 6, 20), time.Now(), "excellent", "clean", nil, 80, nil, 0.0, 225.0, "System", "Toyota Camry", "Jane"))

	returns, err := repo.List(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, returns, 1)
	assert.Empty(t, returns[0].Damages)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepository_Update(t *testing.T) {
	mock, repo := newReturnRepo(t)
	ctx := context.Background()
	condition := domain.ConditionFair
	charges := 120.0

	mock.ExpectExec(`UPDATE returns SET condition_rating = \$1, additional_charges = \$2 WHERE id = \$3`).
		WithArgs("fair", 120.0, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	assert.NoError(t, repo.Update(ctx, 3, domain.ReturnUpdate{Condition: &condition, AdditionalCharges: &charges}))

	mock.ExpectExec(`UPDATE returns SET notes = \$1 WHERE id = \$2`).
		WithArgs("late", int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	notes := "late"
	assert.ErrorIs(t, repo.Update(ctx, 9, domain.ReturnUpdate{Notes: &notes}), repository.ErrNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReturnRepository_Stats(t *testing.T) {
	mock, repo := newReturnRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM returns`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "avg", "charges", "excellent", "good", "fair", "poor", "damaged"}).
			AddRow(4, 2.75, 325.0, 1, 2, 0, 1, 2))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalReturns)
	assert.InDelta(t, 2.75, stats.AverageCondition, 1e-9)
	assert.Equal(t, 2, stats.ConditionBreakdown[domain.ConditionGood])
	assert.Equal(t, 0, stats.ConditionBreakdown[domain.ConditionFair])
	assert.Equal(t, 2, stats.DamageReports)
	assert.NoError(t, mock.ExpectationsWereMet())
}
