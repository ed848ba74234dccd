package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"carrental/internal/domain"
	"carrental/internal/metrics"
	internalRedis "carrental/internal/redis"
	"carrental/internal/repository"
	"carrental/internal/repository/postgres"
)

// BookingService handles the booking workflow.
type BookingService struct {
	db                  *sql.DB
	carRepo             repository.CarRepository
	bookingRepo         repository.BookingRepository
	lockStore           internalRedis.LockStoreInterface
	cache               internalRedis.CarCacheInterface
	notificationService *NotificationService
	now                 func() time.Time
	lockWait            time.Duration
}

// carLockPollInterval is how often a held car lock is retried.
const carLockPollInterval = 50 * time.Millisecond

// NewBookingService creates a new BookingService. lockStore and cache may be nil.
func NewBookingService(
	db *sql.DB,
	carRepo repository.CarRepository,
	bookingRepo repository.BookingRepository,
	lockStore internalRedis.LockStoreInterface,
	cache internalRedis.CarCacheInterface,
	notificationService *NotificationService,
) *BookingService {
	return &BookingService{
		db:                  db,
		carRepo:             carRepo,
		bookingRepo:         bookingRepo,
		lockStore:           lockStore,
		cache:               cache,
		notificationService: notificationService,
		now:                 time.Now,
		lockWait:            internalRedis.CarLockTTL,
	}
}

func (s *BookingService) today() time.Time {
	return domain.DateOf(s.now())
}

// ListBookings returns bookings matching filter, most recent first.
func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*domain.BookingDetails, error) {
	filter.Email = domain.NormalizeEmail(filter.Email)
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	bookings, err := s.bookingRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// GetBooking returns a single booking with its car and customer.
func (s *BookingService) GetBooking(ctx context.Context, id int64) (*domain.BookingDetails, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	return booking, nil
}

// CreateBookingRequest contains the parameters for booking a car.
type CreateBookingRequest struct {
	CarID         int64
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	LicenseNumber string
	PickupDate    string
	ReturnDate    string
	TotalCost     float64
}

// CreateBooking reserves a car for a date range. The overlap check, the
// customer upsert and the insert run in one transaction holding the car row
// lock, so two requests for the same car cannot both pass the check.
func (s *BookingService) CreateBooking(ctx context.Context, req CreateBookingRequest) (*domain.BookingDetails, error) {
	name := strings.TrimSpace(req.CustomerName)
	email := domain.NormalizeEmail(req.CustomerEmail)
	phone := strings.TrimSpace(req.CustomerPhone)
	license := strings.TrimSpace(req.LicenseNumber)

	if req.CarID == 0 || name == "" || email == "" || phone == "" || license == "" ||
		strings.TrimSpace(req.PickupDate) == "" || strings.TrimSpace(req.ReturnDate) == "" || req.TotalCost == 0 {
		return nil, ErrBookingFieldsRequired
	}
	if req.CarID < 0 {
		return nil, ErrInvalidID
	}
	if req.TotalCost < 0 {
		return nil, ErrInvalidTotalCost
	}

	pickup, err := domain.ParseDate(req.PickupDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	ret, err := domain.ParseDate(req.ReturnDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if !ret.After(pickup) {
		return nil, ErrInvalidDateRange
	}

	if release := s.lockCar(ctx, req.CarID); release != nil {
		defer release()
	}

	today := s.today()
	booking := &domain.BookingDetails{
		Booking: domain.Booking{
			CarID:       req.CarID,
			PickupDate:  pickup,
			ReturnDate:  ret,
			Days:        domain.DaysBetween(pickup, ret),
			TotalCost:   domain.RoundMoney(req.TotalCost),
			Status:      domain.BookingStatusActive,
			BookingDate: today,
		},
		CustomerName:  name,
		CustomerEmail: email,
		CustomerPhone: phone,
		LicenseNumber: license,
	}
	var pricePerDay float64

	err = withTx(ctx, s.db, func(tx *sql.Tx) error {
		txCarRepo := postgres.NewCarRepositoryWithTx(tx)
		txCustomerRepo := postgres.NewCustomerRepositoryWithTx(tx)
		txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)

		car, err := txCarRepo.GetForUpdate(ctx, req.CarID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCarNotFound
			}
			return fmt.Errorf("lock car: %w", err)
		}
		booking.CarModel = car.Model
		pricePerDay = car.PricePerDay

		overlapping, err := txBookingRepo.CountOverlapping(ctx, req.CarID, pickup, ret)
		if err != nil {
			return fmt.Errorf("check overlapping bookings: %w", err)
		}
		if overlapping > 0 {
			return ErrCarNotAvailable
		}

		customerID, err := upsertCustomer(ctx, txCustomerRepo, &domain.Customer{
			Name:          name,
			Email:         email,
			Phone:         phone,
			LicenseNumber: license,
		})
		if err != nil {
			return err
		}
		booking.CustomerID = customerID

		if err := txBookingRepo.Create(ctx, &booking.Booking); err != nil {
			return fmt.Errorf("create booking: %w", err)
		}

		if err := txCarRepo.RefreshAvailability(ctx, req.CarID, today); err != nil {
			return fmt.Errorf("refresh availability: %w", err)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrCarNotAvailable) {
			metrics.IncBookingConflict()
		}
		return nil, err
	}

	invalidateCar(ctx, s.cache, req.CarID)
	metrics.IncBookingCreated()

	logger := zerolog.Ctx(ctx)
	logger.Info().
		Int64("booking_id", booking.ID).
		Int64("car_id", booking.CarID).
		Int64("customer_id", booking.CustomerID).
		Msg("booking created")

	if expected := domain.RoundMoney(pricePerDay * float64(booking.Days)); math.Abs(expected-booking.TotalCost) >= 0.01 {
		logger.Warn().
			Int64("booking_id", booking.ID).
			Float64("total_cost", booking.TotalCost).
			Float64("expected_cost", expected).
			Msg("booking total differs from daily rate")
	}

	if s.notificationService != nil {
		s.notificationService.NotifyBookingConfirmed(ctx, booking)
	}

	return booking, nil
}

// lockCar takes the Redis booking lock for carID, retrying while another
// request holds it for up to lockWait. It returns the release func, or nil
// when the lock was not taken; the car row lock in the booking transaction
// still serializes bookings of the car either way.
func (s *BookingService) lockCar(ctx context.Context, carID int64) func() {
	if s.lockStore == nil {
		return nil
	}
	logger := zerolog.Ctx(ctx)

	deadline := time.NewTimer(s.lockWait)
	defer deadline.Stop()
	ticker := time.NewTicker(carLockPollInterval)
	defer ticker.Stop()

	for {
		token, err := s.lockStore.AcquireCarLock(ctx, carID, internalRedis.CarLockTTL)
		if err != nil {
			logger.Warn().Err(err).Int64("car_id", carID).Msg("car lock unavailable")
			return nil
		}
		if token != "" {
			return func() {
				if err := s.lockStore.ReleaseCarLock(context.WithoutCancel(ctx), carID, token); err != nil {
					logger.Warn().Err(err).Int64("car_id", carID).Msg("car lock release failed")
				}
			}
		}

		select {
		case <-ticker.C:
		case <-deadline.C:
			logger.Warn().Int64("car_id", carID).Msg("car lock still held, continuing on row lock")
			return nil
		case <-ctx.Done():
			return nil
		}
	}
}

// upsertCustomer overwrites the customer registered under the same email,
// or creates one, and returns its ID.
func upsertCustomer(ctx context.Context, repo repository.CustomerRepository, customer *domain.Customer) (int64, error) {
	existing, err := repo.GetByEmail(ctx, customer.Email)
	switch {
	case err == nil:
		customer.ID = existing.ID
		if err := repo.Update(ctx, customer); err != nil {
			return 0, fmt.Errorf("update customer: %w", err)
		}
		return existing.ID, nil
	case errors.Is(err, repository.ErrNotFound):
		if err := repo.Create(ctx, customer); err != nil {
			return 0, fmt.Errorf("create customer: %w", err)
		}
		return customer.ID, nil
	default:
		return 0, fmt.Errorf("find customer: %w", err)
	}
}

// UpdateStatus overwrites the status of a booking. No transition rules are
// enforced here.
func (s *BookingService) UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingDetails, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.bookingRepo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	s.refreshCar(ctx, booking.CarID)

	zerolog.Ctx(ctx).Info().Int64("booking_id", id).Str("status", string(status)).Msg("booking status updated")
	return booking, nil
}

// CancelBooking cancels an active booking.
func (s *BookingService) CancelBooking(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidID
	}

	cancelled, err := s.bookingRepo.CancelIfActive(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrBookingNotFound
		}
		return fmt.Errorf("cancel booking: %w", err)
	}
	if !cancelled {
		return ErrBookingNotCancellable
	}
	metrics.IncBookingCancelled()

	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return err
	}
	s.refreshCar(ctx, booking.CarID)

	zerolog.Ctx(ctx).Info().Int64("booking_id", id).Msg("booking cancelled")
	if s.notificationService != nil {
		s.notificationService.NotifyBookingCancelled(ctx, booking)
	}
	return nil
}

// refreshCar re-derives a car's availability after a status change outside
// the create and return transactions. Failures only leave the flag stale.
func (s *BookingService) refreshCar(ctx context.Context, carID int64) {
	if err := s.carRepo.RefreshAvailability(ctx, carID, s.today()); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("car_id", carID).Msg("refresh availability failed")
	}
	invalidateCar(ctx, s.cache, carID)
}

// Stats aggregates bookings by status.
func (s *BookingService) Stats(ctx context.Context) (*domain.BookingStats, error) {
	stats, err := s.bookingRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking stats: %w", err)
	}
	stats.TotalRevenue = domain.RoundMoney(stats.TotalRevenue)
	return stats, nil
}
