package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"carrental/internal/domain"
	"carrental/internal/metrics"
	internalRedis "carrental/internal/redis"
	"carrental/internal/repository"
	"carrental/internal/repository/postgres"
)

// ReturnService handles the vehicle return workflow.
type ReturnService struct {
	db                  *sql.DB
	bookingRepo         repository.BookingRepository
	returnRepo          repository.ReturnRepository
	cache               internalRedis.CarCacheInterface
	notificationService *NotificationService
	receiptService      *ReceiptService
	now                 func() time.Time
}

// NewReturnService creates a new ReturnService. cache may be nil.
func NewReturnService(
	db *sql.DB,
	bookingRepo repository.BookingRepository,
	returnRepo repository.ReturnRepository,
	cache internalRedis.CarCacheInterface,
	notificationService *NotificationService,
	receiptService *ReceiptService,
) *ReturnService {
	return &ReturnService{
		db:                  db,
		bookingRepo:         bookingRepo,
		returnRepo:          returnRepo,
		cache:               cache,
		notificationService: notificationService,
		receiptService:      receiptService,
		now:                 time.Now,
	}
}

// ValidateForReturn checks that a booking exists and is still active.
func (s *ReturnService) ValidateForReturn(ctx context.Context, bookingID int64) (*domain.BookingDetails, error) {
	if bookingID <= 0 {
		return nil, ErrInvalidID
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if booking.Status != domain.BookingStatusActive {
		return nil, ErrBookingNotReturnable
	}
	return booking, nil
}

// ProcessReturnRequest contains the inspection results of a returned vehicle.
type ProcessReturnRequest struct {
	BookingID int64
	Condition string
	Notes     string
	Mileage   *int
	FuelLevel *int
	Damages   []domain.Damage
}

// ProcessReturnResult is the created return with its cost summary.
type ProcessReturnResult struct {
	Return            *domain.ReturnDetails
	OriginalCost      float64
	AdditionalCharges float64
	TotalAmount       float64
	Condition         domain.Condition
	ReturnDate        time.Time
}

// ProcessReturn closes an active booking. The return record, the booking
// completion and the availability refresh commit together or not at all.
func (s *ReturnService) ProcessReturn(ctx context.Context, req ProcessReturnRequest) (*ProcessReturnResult, error) {
	condition := domain.Condition(strings.ToLower(strings.TrimSpace(req.Condition)))

	if req.BookingID == 0 || condition == "" {
		return nil, ErrReturnFieldsRequired
	}
	if req.BookingID < 0 {
		return nil, ErrInvalidID
	}
	if !condition.Valid() {
		return nil, ErrInvalidCondition
	}
	if req.FuelLevel != nil && (*req.FuelLevel < 0 || *req.FuelLevel > 100) {
		return nil, ErrInvalidFuelLevel
	}
	if req.Mileage != nil && *req.Mileage < 0 {
		return nil, ErrInvalidMileage
	}

	damages := req.Damages
	if damages == nil {
		damages = []domain.Damage{}
	}

	now := s.now()
	today := domain.DateOf(now)
	var booking *domain.BookingDetails
	ret := &domain.Return{
		BookingID:   req.BookingID,
		ReturnDate:  today,
		ReturnTime:  now,
		Condition:   condition,
		Notes:       strings.TrimSpace(req.Notes),
		Mileage:     req.Mileage,
		FuelLevel:   req.FuelLevel,
		Damages:     damages,
		ProcessedBy: domain.ProcessedBySystem,
	}

	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		txBookingRepo := postgres.NewBookingRepositoryWithTx(tx)
		txReturnRepo := postgres.NewReturnRepositoryWithTx(tx)
		txCarRepo := postgres.NewCarRepositoryWithTx(tx)

		var err error
		booking, err = txBookingRepo.GetActiveForUpdate(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrActiveBookingNotFound
			}
			return fmt.Errorf("lock booking: %w", err)
		}

		ret.AdditionalCharges = CalculateCharges(condition, damages, req.FuelLevel).Total()
		ret.TotalAmount = domain.RoundMoney(booking.TotalCost + ret.AdditionalCharges)

		if err := txReturnRepo.Create(ctx, ret); err != nil {
			return fmt.Errorf("create return: %w", err)
		}

		if err := txBookingRepo.Complete(ctx, booking.ID, condition, ret.Notes, ret.AdditionalCharges, today); err != nil {
			return fmt.Errorf("complete booking: %w", err)
		}

		if err := txCarRepo.RefreshAvailability(ctx, booking.CarID, today); err != nil {
			return fmt.Errorf("refresh availability: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	invalidateCar(ctx, s.cache, booking.CarID)
	metrics.ObserveReturn(string(condition), ret.AdditionalCharges)

	zerolog.Ctx(ctx).Info().
		Int64("return_id", ret.ID).
		Int64("booking_id", booking.ID).
		Str("condition", string(condition)).
		Float64("additional_charges", ret.AdditionalCharges).
		Msg("return processed")

	if s.notificationService != nil {
		s.notificationService.NotifyReturnProcessed(ctx, ret, booking)
	}

	return &ProcessReturnResult{
		Return: &domain.ReturnDetails{
			Return:       *ret,
			CarModel:     booking.CarModel,
			CustomerName: booking.CustomerName,
		},
		OriginalCost:      booking.TotalCost,
		AdditionalCharges: ret.AdditionalCharges,
		TotalAmount:       ret.TotalAmount,
		Condition:         condition,
		ReturnDate:        today,
	}, nil
}

// UpdateReturn corrects fields of a return record. The booking and the
// return total are left untouched.
func (s *ReturnService) UpdateReturn(ctx context.Context, id int64, update domain.ReturnUpdate) (*domain.ReturnDetails, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}
	if update.Empty() {
		return nil, ErrNoFieldsToUpdate
	}
	if update.Condition != nil {
		c := domain.Condition(strings.ToLower(strings.TrimSpace(string(*update.Condition))))
		if !c.Valid() {
			return nil, ErrInvalidCondition
		}
		update.Condition = &c
	}
	if update.AdditionalCharges != nil {
		if *update.AdditionalCharges < 0 {
			return nil, ErrInvalidAdditionalCharges
		}
		charges := domain.RoundMoney(*update.AdditionalCharges)
		update.AdditionalCharges = &charges
	}

	if err := s.returnRepo.Update(ctx, id, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReturnNotFound
		}
		return nil, fmt.Errorf("update return: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int64("return_id", id).Msg("return record updated")
	return s.GetReturn(ctx, id)
}

// ListReturns returns return records, newest first. A zero bookingID lists all.
func (s *ReturnService) ListReturns(ctx context.Context, bookingID int64) ([]*domain.ReturnDetails, error) {
	if bookingID < 0 {
		return nil, ErrInvalidID
	}

	returns, err := s.returnRepo.List(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	return returns, nil
}

// GetReturn returns a single return record.
func (s *ReturnService) GetReturn(ctx context.Context, id int64) (*domain.ReturnDetails, error) {
	if id <= 0 {
		return nil, ErrInvalidID
	}

	ret, err := s.returnRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrReturnNotFound
		}
		return nil, fmt.Errorf("get return: %w", err)
	}
	return ret, nil
}

// Receipt renders the receipt of a return record.
func (s *ReturnService) Receipt(ctx context.Context, id int64) (string, error) {
	ret, err := s.GetReturn(ctx, id)
	if err != nil {
		return "", err
	}

	booking, err := s.bookingRepo.GetByID(ctx, ret.BookingID)
	if err != nil {
		return "", fmt.Errorf("get booking %d: %w", ret.BookingID, err)
	}

	return s.receiptService.FormatReturnReceipt(ret, booking), nil
}

// Stats aggregates all return records.
func (s *ReturnService) Stats(ctx context.Context) (*domain.ReturnStats, error) {
	stats, err := s.returnRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("return stats: %w", err)
	}
	stats.AverageCondition = domain.RoundMoney(stats.AverageCondition)
	stats.TotalAdditionalCharges = domain.RoundMoney(stats.TotalAdditionalCharges)
	return stats, nil
}
