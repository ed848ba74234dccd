package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"carrental/internal/domain"
	"carrental/internal/repository/postgres"
)

func newReturnService(t *testing.T) (*ReturnService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockDB(t)
	s := NewReturnService(db, postgres.NewBookingRepository(db), postgres.NewReturnRepository(db), nil, NewNotificationService(), NewReceiptService())
	s.now = func() time.Time { return fixedNow }
	return s, mock
}

func TestProcessReturn_Validation(t *testing.T) {
	s, _ := newReturnService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		req     ProcessReturnRequest
		wantErr error
	}{
		{"missing booking", ProcessReturnRequest{Condition: "good"}, ErrReturnFieldsRequired},
		{"missing condition", ProcessReturnRequest{BookingID: 1}, ErrReturnFieldsRequired},
		{"unknown condition", ProcessReturnRequest{BookingID: 1, Condition: "mint"}, ErrInvalidCondition},
		{"fuel over 100", ProcessReturnRequest{BookingID: 1, Condition: "good", FuelLevel: intPtr(101)}, ErrInvalidFuelLevel},
		{"negative fuel", ProcessReturnRequest{BookingID: 1, Condition: "good", FuelLevel: intPtr(-1)}, ErrInvalidFuelLevel},
		{"negative mileage", ProcessReturnRequest{BookingID: 1, Condition: "good", Mileage: intPtr(-5)}, ErrInvalidMileage},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ProcessReturn(ctx, tc.req)
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestProcessReturn_Success(t *testing.T) {
	s, mock := newReturnService(t)
	ctx, logs := logContext()

	mock.ExpectBegin()
	mock.ExpectQuery(`WHERE b.id = \$1 AND b.status = 'active' FOR UPDATE OF b`).
		WithArgs(int64(3)).
		WillReturnRows(bookingRow(3, "active", 225))
	mock.ExpectQuery("INSERT INTO returns").
		WithArgs(int64(3), "2025-06-20", sqlmock.AnyArg(), "fair", "", nil, int64(20), []byte("[]"), 130.0, 355.0, "System").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE bookings SET status = 'completed'").
		WithArgs(130.0, "fair", "", "2025-06-20", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE cars SET available = NOT EXISTS`).
		WithArgs(int64(1), "2025-06-20").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := s.ProcessReturn(ctx, ProcessReturnRequest{BookingID: 3, Condition: "fair", FuelLevel: intPtr(20)})
	require.NoError(t, err)

	assert.Equal(t, 225.0, result.OriginalCost)
	assert.Equal(t, 130.0, result.AdditionalCharges)
	assert.Equal(t, 355.0, result.TotalAmount)
	assert.Equal(t, domain.ConditionFair, result.Condition)
	assert.Equal(t, "20/06/2025", domain.FormatDate(result.ReturnDate))
	assert.Equal(t, int64(1), result.Return.ID)
	assert.Equal(t, "System", result.Return.ProcessedBy)
	assert.Equal(t, "Toyota Camry", result.Return.CarModel)
	assert.Contains(t, logs.String(), "RETURN_PROCESSED")
}

func TestProcessReturn_NotActive(t *testing.T) {
	s, mock := newReturnService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(bookingCols))
	mock.ExpectRollback()

	_, err := s.ProcessReturn(context.Background(), ProcessReturnRequest{BookingID: 3, Condition: "good"})
	assert.ErrorIs(t, err, ErrActiveBookingNotFound)
}

func TestProcessReturn_CompleteFailureRollsBack(t *testing.T) {
	s, mock := newReturnService(t)

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE OF b`).
		WillReturnRows(bookingRow(3, "active", 225))
	mock.ExpectQuery("INSERT INTO returns").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectExec("UPDATE bookings SET status = 'completed'").
		WillReturnError(errors.New("deadlock detected"))
	mock.ExpectRollback()

	_, err := s.ProcessReturn(context.Background(), ProcessReturnRequest{BookingID: 3, Condition: "good"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete booking")
}

func TestValidateForReturn(t *testing.T) {
	s, mock := newReturnService(t)
	ctx := context.Background()

	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(bookingRow(3, "active", 225))
	booking, err := s.ValidateForReturn(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", booking.CustomerName)

	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs(int64(4)).
		WillReturnRows(bookingRow(4, "completed", 225))
	_, err = s.ValidateForReturn(ctx, 4)
	assert.ErrorIs(t, err, ErrBookingNotReturnable)

	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingCols))
	_, err = s.ValidateForReturn(ctx, 5)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestUpdateReturn(t *testing.T) {
	s, mock := newReturnService(t)
	ctx := context.Background()

	_, err := s.UpdateReturn(ctx, 1, domain.ReturnUpdate{})
	assert.ErrorIs(t, err, ErrNoFieldsToUpdate)

	bad := domain.Condition("mint")
	_, err = s.UpdateReturn(ctx, 1, domain.ReturnUpdate{Condition: &bad})
	assert.ErrorIs(t, err, ErrInvalidCondition)

	negative := -5.0
	_, err = s.UpdateReturn(ctx, 1, domain.ReturnUpdate{AdditionalCharges: &negative})
	assert.ErrorIs(t, err, ErrInvalidAdditionalCharges)

	notes := "recheck"
	mock.ExpectExec(`UPDATE returns SET notes = \$1 WHERE id = \$2`).
		WithArgs("recheck", int64(8)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	_, err = s.UpdateReturn(ctx, 8, domain.ReturnUpdate{Notes: &notes})
	assert.ErrorIs(t, err, ErrReturnNotFound)

	condition := domain.Condition("Poor")
	mock.ExpectExec(`UPDATE returns SET condition_rating = \$1 WHERE id = \$2`).
		WithArgs("poor", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`WHERE r.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(returnCols).
			AddRow(1, 3, date(2025, 6, 20), fixedNow, "poor", "", nil, nil, []byte("[]"), 130.0, 355.0, "System", "Toyota Camry", "Jane Doe"))

	ret, err := s.UpdateReturn(ctx, 1, domain.ReturnUpdate{Condition: &condition})
	require.NoError(t, err)
	assert.Equal(t, domain.ConditionPoor, ret.Condition)
	assert.Equal(t, 355.0, ret.TotalAmount, "the total is not recomputed")
}

func TestReturnStats(t *testing.T) {
	s, mock := newReturnService(t)

	mock.ExpectQuery(`FROM returns`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "avg", "charges", "excellent", "good", "fair", "poor", "damaged"}).
			AddRow(3, 2.6666666, 455.0, 1, 0, 1, 1, 1))

	stats, err := s.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2.67, stats.AverageCondition)
	assert.Equal(t, 455.0, stats.TotalAdditionalCharges)
	assert.Equal(t, 1, stats.ConditionBreakdown[domain.ConditionPoor])
}

func TestReceipt(t *testing.T) {
	s, mock := newReturnService(t)

	mock.ExpectQuery(`WHERE r.id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(returnCols).
			AddRow(1, 3, date(2025, 6, 20), fixedNow, "fair", "small dent", 12000, 20,
				[]byte(`[{"description":"door","severity":"moderate"}]`), 300.0, 525.0, "System", "Toyota Camry", "Jane Doe"))
	mock.ExpectQuery(`WHERE b.id = \$1`).
		WithArgs(int64(3)).
		WillReturnRows(bookingRow(3, "completed", 225))

	receipt, err := s.Receipt(context.Background(), 1)
	require.NoError(t, err)

	assert.Contains(t, receipt, "Return #1   Booking #3")
	assert.Contains(t, receipt, "Customer:  Jane Doe")
	assert.Contains(t, receipt, "Period:    15/06/2025 - 20/06/2025 (5 days)")
	assert.Contains(t, receipt, "Damage:    door (moderate)")
	assert.Contains(t, receipt, "Condition:         $100.00")
	assert.Contains(t, receipt, "Damages:           $150.00")
	assert.Contains(t, receipt, "Refuelling:        $30.00")
	assert.Contains(t, receipt, "Adjustment:        $20.00")
	assert.Contains(t, receipt, "TOTAL:             $525.00")
}
