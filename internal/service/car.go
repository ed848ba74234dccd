package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"carrental/internal/domain"
	internalRedis "carrental/internal/redis"
	"carrental/internal/repository"
	"carrental/internal/repository/postgres"
)

// CarService handles fleet catalog operations.
type CarService struct {
	db      *sql.DB
	carRepo repository.CarRepository
	cache   internalRedis.CarCacheInterface
}

// NewCarService creates a new CarService. cache may be nil.
func NewCarService(db *sql.DB, carRepo repository.CarRepository, cache internalRedis.CarCacheInterface) *CarService {
	return &CarService{
		db:      db,
		carRepo: carRepo,
		cache:   cache,
	}
}

// ListCars returns the cars matching filter, ordered by ID.
func (s *CarService) ListCars(ctx context.Context, filter domain.CarFilter) ([]*domain.Car, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, ErrInvalidCarType
	}
	if (filter.MinPrice != nil && *filter.MinPrice < 0) || (filter.MaxPrice != nil && *filter.MaxPrice < 0) {
		return nil, ErrInvalidCarFilter
	}

	cars, err := s.carRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list cars: %w", err)
	}
	return cars, nil
}

// GetCar returns a single car.
func (s *CarService) GetCar(ctx context.Context, id int64) (*domain.Car, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	if s.cache != nil {
		car, err := s.cache.GetCar(ctx, id)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("car_id", id).Msg("car cache read failed")
		} else if car != nil {
			return car, nil
		}
	}

	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("get car: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetCar(ctx, car); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Int64("car_id", id).Msg("car cache write failed")
		}
	}

	return car, nil
}

// AddCarRequest contains the parameters for adding a car to the fleet.
type AddCarRequest struct {
	Model        string
	Type         string
	PricePerDay  *float64
	Available    *bool
	Image        string
	Features     []string
	Year         *int
	Color        *string
	FuelType     *string
	LicensePlate *string
}

// Column limits of the cars table.
const (
	maxModelLen        = 100
	maxColorLen        = 50
	maxFuelTypeLen     = 50
	maxLicensePlateLen = 20
	maxPricePerDay     = 99999999.99
	minCarYear         = 1900
	maxCarYear         = 2100
)

// validateCarLimits rejects values the cars table cannot store.
func validateCarLimits(car *domain.Car) error {
	tooLong := func(field string, v *string, limit int) error {
		if v != nil && utf8.RuneCountInString(*v) > limit {
			return fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidCarField, field, limit)
		}
		return nil
	}

	if err := tooLong("model", &car.Model, maxModelLen); err != nil {
		return err
	}
	if err := tooLong("color", car.Color, maxColorLen); err != nil {
		return err
	}
	if err := tooLong("fuelType", car.FuelType, maxFuelTypeLen); err != nil {
		return err
	}
	if err := tooLong("licensePlate", car.LicensePlate, maxLicensePlateLen); err != nil {
		return err
	}
	if car.PricePerDay > maxPricePerDay {
		return fmt.Errorf("%w: pricePerDay exceeds %.2f", ErrInvalidCarField, maxPricePerDay)
	}
	if car.Year != nil && (*car.Year < minCarYear || *car.Year > maxCarYear) {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidCarField, minCarYear, maxCarYear)
	}
	return nil
}

// AddCar adds a car to the fleet.
func (s *CarService) AddCar(ctx context.Context, req AddCarRequest) (*domain.Car, error) {
	model := strings.TrimSpace(req.Model)
	carType := domain.CarType(strings.ToLower(strings.TrimSpace(req.Type)))

	if model == "" || carType == "" || req.PricePerDay == nil {
		return nil, ErrCarFieldsRequired
	}
	if !carType.Valid() {
		return nil, ErrInvalidCarType
	}
	if *req.PricePerDay <= 0 {
		return nil, ErrInvalidPrice
	}

	car := &domain.Car{
		Model:        model,
		Type:         carType,
		PricePerDay:  domain.RoundMoney(*req.PricePerDay),
		Available:    true,
		Image:        req.Image,
		Features:     req.Features,
		Year:         req.Year,
		Color:        trimOptional(req.Color),
		FuelType:     trimOptional(req.FuelType),
		LicensePlate: trimOptional(req.LicensePlate),
	}
	if req.Available != nil {
		car.Available = *req.Available
	}
	if car.Image == "" {
		car.Image = domain.DefaultCarImage
	}
	if car.Features == nil {
		car.Features = []string{}
	}
	if err := validateCarLimits(car); err != nil {
		return nil, err
	}

	if err := s.carRepo.Create(ctx, car); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateLicensePlate
		}
		return nil, fmt.Errorf("create car: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int64("car_id", car.ID).Str("model", car.Model).Msg("car added")
	return car, nil
}

// SetAvailability overrides the availability flag of a car.
func (s *CarService) SetAvailability(ctx context.Context, id int64, available bool) (*domain.Car, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	if err := s.carRepo.UpdateAvailability(ctx, id, available); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("update availability: %w", err)
	}
	s.invalidate(ctx, id)

	car, err := s.carRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCarNotFound
		}
		return nil, fmt.Errorf("get car: %w", err)
	}
	return car, nil
}

// DeleteCar retires a car that has no active bookings. The car row is
// locked so a booking cannot be created for it concurrently.
func (s *CarService) DeleteCar(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		txCarRepo := postgres.NewCarRepositoryWithTx(tx)
		txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

		if _, err := txCarRepo.GetForUpdate(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCarNotFound
			}
			return fmt.Errorf("lock car: %w", err)
		}

		active, err := txBookingRepo.CountActiveByCar(ctx, id)
		if err != nil {
			return fmt.Errorf("count active bookings: %w", err)
		}
		if active > 0 {
			return ErrCarHasActiveBookings
		}

		if err := txCarRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("delete car: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.invalidate(ctx, id)
	zerolog.Ctx(ctx).Info().Int64("car_id", id).Msg("car deleted")
	return nil
}

func (s *CarService) invalidate(ctx context.Context, id int64) {
	invalidateCar(ctx, s.cache, id)
}

func invalidateCar(ctx context.Context, cache internalRedis.CarCacheInterface, id int64) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateCar(ctx, id); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("car_id", id).Msg("car cache invalidation failed")
	}
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
