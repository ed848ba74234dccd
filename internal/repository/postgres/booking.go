package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"carrental/internal/domain"
	"carrental/internal/repository"
)

const bookingDetailsQuery = `
	SELECT b.id, b.car_id, b.customer_id, b.pickup_date, b.return_date, b.days,
		b.total_cost, b.status, b.booking_date, b.additional_charges,
		b.return_condition, b.return_notes, b.actual_return_date, b.created_at,
		c.model, cu.name, cu.email, cu.phone, cu.license_number
	FROM bookings b
	JOIN cars c ON c.id = b.car_id
	JOIN customers cu ON cu.id = b.customer_id
`

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

func scanBookingDetails(row rowScanner) (*domain.BookingDetails, error) {
	var b domain.BookingDetails
	var returnCondition, returnNotes sql.NullString
	var actualReturnDate sql.NullTime

	err := row.Scan(
		&b.ID,
		&b.CarID,
		&b.CustomerID,
		&b.PickupDate,
		&b.ReturnDate,
		&b.Days,
		&b.TotalCost,
		&b.Status,
		&b.BookingDate,
		&b.AdditionalCharges,
		&returnCondition,
		&returnNotes,
		&actualReturnDate,
		&b.CreatedAt,
		&b.CarModel,
		&b.CustomerName,
		&b.CustomerEmail,
		&b.CustomerPhone,
		&b.LicenseNumber,
	)
	if err != nil {
		return nil, err
	}

	b.PickupDate = calendarDate(b.PickupDate)
	b.ReturnDate = calendarDate(b.ReturnDate)
	b.BookingDate = calendarDate(b.BookingDate)
	if returnCondition.Valid {
		c := domain.Condition(returnCondition.String)
		b.ReturnCondition = &c
	}
	if returnNotes.Valid {
		b.ReturnNotes = &returnNotes.String
	}
	if actualReturnDate.Valid {
		d := calendarDate(actualReturnDate.Time)
		b.ActualReturnDate = &d
	}

	return &b, nil
}

// List retrieves bookings matching filter, most recently created first.
func (r *BookingRepository) List(ctx context.Context, filter domain.BookingFilter) ([]*domain.BookingDetails, error) {
	var sb strings.Builder
	sb.WriteString(bookingDetailsQuery)
	sb.WriteString(" WHERE 1=1")
	args := []any{}

	if filter.Email != "" {
		args = append(args, filter.Email)
		fmt.Fprintf(&sb, " AND cu.email = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		fmt.Fprintf(&sb, " AND b.status = $%d", len(args))
	}
	sb.WriteString(" ORDER BY b.created_at DESC, b.id DESC")

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := []*domain.BookingDetails{}
	for rows.Next() {
		b, err := scanBookingDetails(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

// GetByID retrieves a booking with its car and customer.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.id = $1`
	return r.getOne(ctx, query, id)
}

// GetActiveForUpdate retrieves an active booking and locks its row.
func (r *BookingRepository) GetActiveForUpdate(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	query := bookingDetailsQuery + ` WHERE b.id = $1 AND b.status = 'active' FOR UPDATE OF b`
	return r.getOne(ctx, query, id)
}

func (r *BookingRepository) getOne(ctx context.Context, query string, id int64) (*domain.BookingDetails, error) {
	b, err := scanBookingDetails(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return b, nil
}

// Create persists a new booking and sets its ID.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (car_id, customer_id, pickup_date, return_date, days, total_cost, status, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	return r.q.QueryRowContext(ctx, query,
		booking.CarID,
		booking.CustomerID,
		dateArg(booking.PickupDate),
		dateArg(booking.ReturnDate),
		booking.Days,
		booking.TotalCost,
		booking.Status,
		dateArg(booking.BookingDate),
	).Scan(&booking.ID, &booking.CreatedAt)
}

// CountOverlapping counts active bookings of carID overlapping [pickup, ret].
// Bounds are inclusive, so a booking returned on the day another is picked
// up counts as overlapping.
func (r *BookingRepository) CountOverlapping(ctx context.Context, carID int64, pickup, ret time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM bookings
		WHERE car_id = $1 AND status = 'active'
			AND pickup_date <= $3 AND return_date >= $2
	`

	var count int
	err := r.q.QueryRowContext(ctx, query, carID, dateArg(pickup), dateArg(ret)).Scan(&count)
	return count, err
}

// CountActiveByCar counts active bookings of carID.
func (r *BookingRepository) CountActiveByCar(ctx context.Context, carID int64) (int, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE car_id = $1 AND status = 'active'`

	var count int
	err := r.q.QueryRowContext(ctx, query, carID).Scan(&count)
	return count, err
}

// UpdateStatus overwrites the status of a booking.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE id = $2`

	result, err := r.q.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

// CancelIfActive moves an active booking to cancelled.
func (r *BookingRepository) CancelIfActive(ctx context.Context, id int64) (bool, error) {
	query := `UPDATE bookings SET status = 'cancelled', updated_at = NOW() WHERE id = $1 AND status = 'active'`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rowsAffected > 0 {
		return true, nil
	}

	var exists bool
	err = r.q.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, repository.ErrNotFound
	}
	return false, nil
}

// Complete closes a booking with the outcome of its return.
func (r *BookingRepository) Complete(ctx context.Context, id int64, condition domain.Condition, notes string, additionalCharges float64, returnedOn time.Time) error {
	query := `
		UPDATE bookings
		SET status = 'completed', additional_charges = $1, return_condition = $2,
			return_notes = $3, actual_return_date = $4, updated_at = NOW()
		WHERE id = $5
	`

	result, err := r.q.ExecContext(ctx, query, additionalCharges, condition, notes, dateArg(returnedOn), id)
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

// Stats aggregates bookings by status.
func (r *BookingRepository) Stats(ctx context.Context) (*domain.BookingStats, error) {
	query := `
		SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status = 'active'),
			COUNT(*) FILTER (WHERE status = 'completed'),
			COUNT(*) FILTER (WHERE status = 'cancelled'),
			COALESCE(SUM(total_cost + additional_charges) FILTER (WHERE status = 'completed'), 0)
		FROM bookings
	`

	var stats domain.BookingStats
	err := r.q.QueryRowContext(ctx, query).Scan(
		&stats.Total,
		&stats.Active,
		&stats.Completed,
		&stats.Cancelled,
		&stats.TotalRevenue,
	)
	if err != nil {
		return nil, err
	}

	return &stats, nil
}

// Ensure BookingRepository implements repository.BookingRepository.
var _ repository.BookingRepository = (*BookingRepository)(nil)
