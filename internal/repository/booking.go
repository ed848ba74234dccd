package repository

import (
	"context"
	"time"

	"carrental/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// List retrieves bookings matching filter, most recently created first.
	List(ctx context.Context, filter domain.BookingFilter) ([]*domain.BookingDetails, error)

	// GetByID retrieves a booking with its car and customer.
	GetByID(ctx context.Context, id int64) (*domain.BookingDetails, error)

	// GetActiveForUpdate retrieves an active booking and locks its row until
	// the surrounding transaction ends. Returns ErrNotFound if the booking
	// does not exist or is not active.
	GetActiveForUpdate(ctx context.Context, id int64) (*domain.BookingDetails, error)

	// Create persists a new booking and sets its ID.
	Create(ctx context.Context, booking *domain.Booking) error

	// CountOverlapping counts active bookings of carID whose date range
	// overlaps [pickup, ret] with inclusive bounds.
	CountOverlapping(ctx context.Context, carID int64, pickup, ret time.Time) (int, error)

	// CountActiveByCar counts active bookings of carID.
	CountActiveByCar(ctx context.Context, carID int64) (int, error)

	// UpdateStatus overwrites the status of a booking.
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) error

	// CancelIfActive moves an active booking to cancelled. Reports false if
	// the booking exists but is not active; ErrNotFound if it does not exist.
	CancelIfActive(ctx context.Context, id int64) (bool, error)

	// Complete closes a booking with the outcome of its return.
	Complete(ctx context.Context, id int64, condition domain.Condition, notes string, additionalCharges float64, returnedOn time.Time) error

	// Stats aggregates bookings by status.
	Stats(ctx context.Context) (*domain.BookingStats, error)
}
