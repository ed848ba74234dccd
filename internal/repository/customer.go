package repository

import (
	"context"

	"carrental/internal/domain"
)

// CustomerRepository defines the persistence operations for customers.
type CustomerRepository interface {
	// GetByEmail retrieves a customer by email.
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)

	// Create persists a new customer and sets its ID.
	Create(ctx context.Context, customer *domain.Customer) error

	// Update overwrites the name, phone and license number of a customer.
	Update(ctx context.Context, customer *domain.Customer) error
}
