package repository

import (
	"context"

	"carrental/internal/domain"
)

// ReturnRepository defines the persistence operations for return records.
type ReturnRepository interface {
	// List retrieves return records, newest first. A zero bookingID lists all.
	List(ctx context.Context, bookingID int64) ([]*domain.ReturnDetails, error)

	// GetByID retrieves a return record with its car and customer.
	GetByID(ctx context.Context, id int64) (*domain.ReturnDetails, error)

	// Create persists a new return record and sets its ID.
	Create(ctx context.Context, ret *domain.Return) error

	// Update applies a partial correction to a return record.
	Update(ctx context.Context, id int64, update domain.ReturnUpdate) error

	// Stats aggregates all return records.
	Stats(ctx context.Context) (*domain.ReturnStats, error)
}
