package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"

	"carrental/internal/domain"
	"carrental/internal/repository"
)

const carColumns = `id, model, type, price_per_day, available, image, features, year, color, fuel_type, license_plate, created_at`

// CarRepository is a PostgreSQL implementation of repository.CarRepository.
type CarRepository struct {
	q Querier
}

// NewCarRepository creates a new PostgreSQL car repository.
func NewCarRepository(db *sql.DB) *CarRepository {
	return &CarRepository{q: db}
}

// NewCarRepositoryWithTx creates a car repository using a transaction.
func NewCarRepositoryWithTx(tx *sql.Tx) *CarRepository {
	return &CarRepository{q: tx}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCar(row rowScanner) (*domain.Car, error) {
	var car domain.Car
	var features []string
	var year sql.NullInt64
	var color, fuelType, licensePlate sql.NullString

	err := row.Scan(
		&car.ID,
		&car.Model,
		&car.Type,
		&car.PricePerDay,
		&car.Available,
		&car.Image,
		pq.Array(&features),
		&year,
		&color,
		&fuelType,
		&licensePlate,
		&car.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	car.Features = features
	if car.Features == nil {
		car.Features = []string{}
	}
	if year.Valid {
		y := int(year.Int64)
		car.Year = &y
	}
	if color.Valid {
		car.Color = &color.String
	}
	if fuelType.Valid {
		car.FuelType = &fuelType.String
	}
	if licensePlate.Valid {
		car.LicensePlate = &licensePlate.String
	}

	return &car, nil
}

// List retrieves the cars matching filter, ordered by ID.
func (r *CarRepository) List(ctx context.Context, filter domain.CarFilter) ([]*domain.Car, error) {
	var sb strings.Builder
	sb.WriteString(`SELECT ` + carColumns + ` FROM cars WHERE deleted_at IS NULL`)
	args := []any{}

	if filter.Type != "" {
		args = append(args, filter.Type)
		fmt.Fprintf(&sb, " AND type = $%d", len(args))
	}
	if filter.Available != nil {
		args = append(args, *filter.Available)
		fmt.Fprintf(&sb, " AND available = $%d", len(args))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		fmt.Fprintf(&sb, " AND price_per_day >= $%d", len(args))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		fmt.Fprintf(&sb, " AND price_per_day <= $%d", len(args))
	}
	sb.WriteString(" ORDER BY id")

	rows, err := r.q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cars := []*domain.Car{}
	for rows.Next() {
		car, err := scanCar(rows)
		if err != nil {
			return nil, err
		}
		cars = append(cars, car)
	}
	return cars, rows.Err()
}

// GetByID retrieves a car by ID.
func (r *CarRepository) GetByID(ctx context.Context, id int64) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND deleted_at IS NULL`
	return r.getOne(ctx, query, id)
}

// GetForUpdate retrieves a car by ID and locks its row.
func (r *CarRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Car, error) {
	query := `SELECT ` + carColumns + ` FROM cars WHERE id = $1 AND deleted_at IS NULL FOR UPDATE`
	return r.getOne(ctx, query, id)
}

func (r *CarRepository) getOne(ctx context.Context, query string, id int64) (*domain.Car, error) {
	car, err := scanCar(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return car, nil
}

// Create persists a new car and sets its ID.
func (r *CarRepository) Create(ctx context.Context, car *domain.Car) error {
	query := `
		INSERT INTO cars (model, type, price_per_day, available, image, features, year, color, fuel_type, license_plate)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	var year sql.NullInt64
	if car.Year != nil {
		year = sql.NullInt64{Int64: int64(*car.Year), Valid: true}
	}

	features := car.Features
	if features == nil {
		features = []string{}
	}

	err := r.q.QueryRowContext(ctx, query,
		car.Model,
		car.Type,
		car.PricePerDay,
		car.Available,
		car.Image,
		pq.Array(features),
		year,
		nullString(car.Color),
		nullString(car.FuelType),
		nullString(car.LicensePlate),
	).Scan(&car.ID, &car.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return err
	}

	car.Features = features
	return nil
}

// UpdateAvailability sets the available flag of a car.
func (r *CarRepository) UpdateAvailability(ctx context.Context, id int64, available bool) error {
	query := `UPDATE cars SET available = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, available, id)
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

// RefreshAvailability derives the available flag from the active bookings
// covering day.
func (r *CarRepository) RefreshAvailability(ctx context.Context, id int64, day time.Time) error {
	query := `
		UPDATE cars SET available = NOT EXISTS (
			SELECT 1 FROM bookings
			WHERE car_id = $1 AND status = 'active' AND pickup_date <= $2 AND return_date >= $2
		), updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.q.ExecContext(ctx, query, id, dateArg(day))
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

// Delete retires a car. The row is kept so bookings referencing it retain
// their history.
func (r *CarRepository) Delete(ctx context.Context, id int64) error {
	query := `UPDATE cars SET deleted_at = NOW(), available = FALSE WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.q.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Ensure CarRepository implements repository.CarRepository.
var _ repository.CarRepository = (*CarRepository)(nil)
