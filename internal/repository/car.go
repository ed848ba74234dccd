package repository

import (
	"context"
	"time"

	"carrental/internal/domain"
)

// CarRepository defines the persistence operations for the fleet.
type CarRepository interface {
	// List retrieves the cars matching filter, ordered by ID.
	List(ctx context.Context, filter domain.CarFilter) ([]*domain.Car, error)

	// GetByID retrieves a car by ID.
	GetByID(ctx context.Context, id int64) (*domain.Car, error)

	// GetForUpdate retrieves a car by ID and locks its row until the
	// surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*domain.Car, error)

	// Create persists a new car and sets its ID.
	// Returns ErrDuplicate if the license plate is taken.
	Create(ctx context.Context, car *domain.Car) error

	// UpdateAvailability sets the available flag of a car.
	UpdateAvailability(ctx context.Context, id int64, available bool) error

	// RefreshAvailability marks a car unavailable while an active booking
	// covers day, and available otherwise.
	RefreshAvailability(ctx context.Context, id int64, day time.Time) error

	// Delete removes a car from the catalog.
	Delete(ctx context.Context, id int64) error
}
