package postgres

import (
	"context"
	"database/sql"
	"errors"

	"carrental/internal/domain"
	"carrental/internal/repository"
)

// CustomerRepository is a PostgreSQL implementation of repository.CustomerRepository.
type CustomerRepository struct {
	q Querier
}

// NewCustomerRepository creates a new PostgreSQL customer repository.
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{q: db}
}

// NewCustomerRepositoryWithTx creates a customer repository using a transaction.
func NewCustomerRepositoryWithTx(tx *sql.Tx) *CustomerRepository {
	return &CustomerRepository{q: tx}
}

// GetByEmail retrieves a customer by email.
func (r *CustomerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT id, name, email, phone, license_number, created_at
		FROM customers WHERE email = $1
		ORDER BY id LIMIT 1
	`

	var customer domain.Customer
	err := r.q.QueryRowContext(ctx, query, email).Scan(
		&customer.ID,
		&customer.Name,
		&customer.Email,
		&customer.Phone,
		&customer.LicenseNumber,
		&customer.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &customer, nil
}

// Create persists a new customer and sets its ID.
func (r *CustomerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (name, email, phone, license_number)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return r.q.QueryRowContext(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.LicenseNumber,
	).Scan(&customer.ID, &customer.CreatedAt)
}

// Update overwrites the name, phone and license number of a customer.
func (r *CustomerRepository) Update(ctx context.Context, customer *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, license_number = $3, updated_at = NOW()
		WHERE id = $4
	`

	result, err := r.q.ExecContext(ctx, query,
		customer.Name,
		customer.Phone,
		customer.LicenseNumber,
		customer.ID,
	)
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

// Ensure CustomerRepository implements repository.CustomerRepository.
var _ repository.CustomerRepository = (*CustomerRepository)(nil)
