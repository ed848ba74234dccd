package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"carrental/internal/domain"
	"carrental/internal/repository"
)

const returnDetailsQuery = `
	SELECT r.id, r.booking_id, r.return_date, r.return_time, r.condition_rating,
		r.notes, r.mileage, r.fuel_level, r.damages, r.additional_charges,
		r.total_amount, r.processed_by, c.model, cu.name
	FROM returns r
	JOIN bookings b ON b.id = r.booking_id
	JOIN cars c ON c.id = b.car_id
	JOIN customers cu ON cu.id = b.customer_id
`

// ReturnRepository is a PostgreSQL implementation of repository.ReturnRepository.
type ReturnRepository struct {
	q Querier
}

// NewReturnRepository creates a new PostgreSQL return repository.
func NewReturnRepository(db *sql.DB) *ReturnRepository {
	return &ReturnRepository{q: db}
}

// NewReturnRepositoryWithTx creates a return repository using a transaction.
func NewReturnRepositoryWithTx(tx *sql.Tx) *ReturnRepository {
	return &ReturnRepository{q: tx}
}

func scanReturnDetails(row rowScanner) (*domain.ReturnDetails, error) {
	var ret domain.ReturnDetails
	var notes sql.NullString
	var mileage, fuelLevel sql.NullInt64
	var damages []byte

	err := row.Scan(
		&ret.ID,
		&ret.BookingID,
		&ret.ReturnDate,
		&ret.ReturnTime,
		&ret.Condition,
		&notes,
		&mileage,
		&fuelLevel,
		&damages,
		&ret.AdditionalCharges,
		&ret.TotalAmount,
		&ret.ProcessedBy,
		&ret.CarModel,
		&ret.CustomerName,
	)
	if err != nil {
		return nil, err
	}

	ret.ReturnDate = calendarDate(ret.ReturnDate)
	ret.Notes = notes.String
	if mileage.Valid {
		m := int(mileage.Int64)
		ret.Mileage = &m
	}
	if fuelLevel.Valid {
		f := int(fuelLevel.Int64)
		ret.FuelLevel = &f
	}
	ret.Damages = []domain.Damage{}
	if len(damages) > 0 {
		if err := json.Unmarshal(damages, &ret.Damages); err != nil {
			return nil, fmt.Errorf("decode damages of return %d: %w", ret.ID, err)
		}
	}

	return &ret, nil
}

// List retrieves return records, newest first. A zero bookingID lists all.
func (r *ReturnRepository) List(ctx context.Context, bookingID int64) ([]*domain.ReturnDetails, error) {
	query := returnDetailsQuery
	args := []any{}
	if bookingID != 0 {
		query += ` WHERE r.booking_id = $1`
		args = append(args, bookingID)
	}
	query += ` ORDER BY r.return_date DESC, r.id DESC`

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	returns := []*domain.ReturnDetails{}
	for rows.Next() {
		ret, err := scanReturnDetails(rows)
		if err != nil {
			return nil, err
		}
		returns = append(returns, ret)
	}
	return returns, rows.Err()
}

// GetByID retrieves a return record with its car and customer.
func (r *ReturnRepository) GetByID(ctx context.Context, id int64) (*domain.ReturnDetails, error) {
	ret, err := scanReturnDetails(r.q.QueryRowContext(ctx, returnDetailsQuery+` WHERE r.id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ret, nil
}

// Create persists a new return record and sets its ID.
func (r *ReturnRepository) Create(ctx context.Context, ret *domain.Return) error {
	query := `
		INSERT INTO returns (booking_id, return_date, return_time, condition_rating, notes,
			mileage, fuel_level, damages, additional_charges, total_amount, processed_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	damages := ret.Damages
	if damages == nil {
		damages = []domain.Damage{}
	}
	damagesJSON, err := json.Marshal(damages)
	if err != nil {
		return fmt.Errorf("encode damages: %w", err)
	}

	return r.q.QueryRowContext(ctx, query,
		ret.BookingID,
		dateArg(ret.ReturnDate),
		ret.ReturnTime,
		ret.Condition,
		ret.Notes,
		nullInt(ret.Mileage),
		nullInt(ret.FuelLevel),
		damagesJSON,
		ret.AdditionalCharges,
		ret.TotalAmount,
		ret.ProcessedBy,
	).Scan(&ret.ID)
}

// Update applies a partial correction to a return record.
func (r *ReturnRepository) Update(ctx context.Context, id int64, update domain.ReturnUpdate) error {
	sets := []string{}
	args := []any{}

	if update.Condition != nil {
		args = append(args, *update.Condition)
		sets = append(sets, fmt.Sprintf("condition_rating = $%d", len(args)))
	}
	if update.Notes != nil {
		args = append(args, *update.Notes)
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)))
	}
	if update.AdditionalCharges != nil {
		args = append(args, *update.AdditionalCharges)
		sets = append(sets, fmt.Sprintf("additional_charges = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	query := fmt.Sprintf("UPDATE returns SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args))

	result, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	return requireAffected(result, repository.ErrNotFound)
}

// Stats aggregates all return records.
func (r *ReturnRepository) Stats(ctx context.Context) (*domain.ReturnStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(AVG(CASE condition_rating
				WHEN 'excellent' THEN 4
				WHEN 'good' THEN 3
				WHEN 'fair' THEN 2
				WHEN 'poor' THEN 1
			END), 0),
			COALESCE(SUM(additional_charges), 0),
			COUNT(*) FILTER (WHERE condition_rating = 'excellent'),
			COUNT(*) FILTER (WHERE condition_rating = 'good'),
			COUNT(*) FILTER (WHERE condition_rating = 'fair'),
			COUNT(*) FILTER (WHERE condition_rating = 'poor'),
			COUNT(*) FILTER (WHERE damages IS NOT NULL AND jsonb_array_length(damages) > 0)
		FROM returns
	`

	var stats domain.ReturnStats
	var excellent, good, fair, poor int
	err := r.q.QueryRowContext(ctx, query).Scan(
		&stats.TotalReturns,
		&stats.AverageCondition,
		&stats.TotalAdditionalCharges,
		&excellent,
		&good,
		&fair,
		&poor,
		&stats.DamageReports,
	)
	if err != nil {
		return nil, err
	}

	stats.ConditionBreakdown = map[domain.Condition]int{
		domain.ConditionExcellent: excellent,
		domain.ConditionGood:      good,
		domain.ConditionFair:      fair,
		domain.ConditionPoor:      poor,
	}

	return &stats, nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

// Ensure ReturnRepository implements repository.ReturnRepository.
var _ repository.ReturnRepository = (*ReturnRepository)(nil)
