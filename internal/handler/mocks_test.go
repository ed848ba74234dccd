package handler

import (
	"context"

	"carrental/internal/domain"
	"carrental/internal/service"
)

// ──────────────────────────────────────────────
// Fake services. Each method delegates to an optional func field and
// falls back to a zero result.
// ──────────────────────────────────────────────

type fakeCarCatalog struct {
	listFn   func(domain.CarFilter) ([]*domain.Car, error)
	getFn    func(int64) (*domain.Car, error)
	addFn    func(service.AddCarRequest) (*domain.Car, error)
	setFn    func(int64, bool) (*domain.Car, error)
	deleteFn func(int64) error
}

func (f *fakeCarCatalog) ListCars(_ context.Context, filter domain.CarFilter) ([]*domain.Car, error) {
	if f.listFn == nil {
		return nil, nil
	}
	return f.listFn(filter)
}

func (f *fakeCarCatalog) GetCar(_ context.Context, id int64) (*domain.Car, error) {
	if f.getFn == nil {
		return nil, service.ErrCarNotFound
	}
	return f.getFn(id)
}

func (f *fakeCarCatalog) AddCar(_ context.Context, req service.AddCarRequest) (*domain.Car, error) {
	return f.addFn(req)
}

func (f *fakeCarCatalog) SetAvailability(_ context.Context, id int64, available bool) (*domain.Car, error) {
	return f.setFn(id, available)
}

func (f *fakeCarCatalog) DeleteCar(_ context.Context, id int64) error {
	if f.deleteFn == nil {
		return nil
	}
	return f.deleteFn(id)
}

type fakeBookingWorkflow struct {
	listFn   func(domain.BookingFilter) ([]*domain.BookingDetails, error)
	getFn    func(int64) (*domain.BookingDetails, error)
	createFn func(service.CreateBookingRequest) (*domain.BookingDetails, error)
	statusFn func(int64, domain.BookingStatus) (*domain.BookingDetails, error)
	cancelFn func(int64) error
	stats    *domain.BookingStats
}

func (f *fakeBookingWorkflow) ListBookings(_ context.Context, filter domain.BookingFilter) ([]*domain.BookingDetails, error) {
	return f.listFn(filter)
}

func (f *fakeBookingWorkflow) GetBooking(_ context.Context, id int64) (*domain.BookingDetails, error) {
	return f.getFn(id)
}

func (f *fakeBookingWorkflow) CreateBooking(_ context.Context, req service.CreateBookingRequest) (*domain.BookingDetails, error) {
	return f.createFn(req)
}

func (f *fakeBookingWorkflow) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus) (*domain.BookingDetails, error) {
	return f.statusFn(id, status)
}

func (f *fakeBookingWorkflow) CancelBooking(_ context.Context, id int64) error {
	return f.cancelFn(id)
}

func (f *fakeBookingWorkflow) Stats(context.Context) (*domain.BookingStats, error) {
	return f.stats, nil
}

type fakeReturnWorkflow struct {
	listFn     func(int64) ([]*domain.ReturnDetails, error)
	getFn      func(int64) (*domain.ReturnDetails, error)
	validateFn func(int64) (*domain.BookingDetails, error)
	processFn  func(service.ProcessReturnRequest) (*service.ProcessReturnResult, error)
	updateFn   func(int64, domain.ReturnUpdate) (*domain.ReturnDetails, error)
	receipt    string
	stats      *domain.ReturnStats
}

func (f *fakeReturnWorkflow) ListReturns(_ context.Context, bookingID int64) ([]*domain.ReturnDetails, error) {
	return f.listFn(bookingID)
}

func (f *fakeReturnWorkflow) GetReturn(_ context.Context, id int64) (*domain.ReturnDetails, error) {
	return f.getFn(id)
}

func (f *fakeReturnWorkflow) ValidateForReturn(_ context.Context, bookingID int64) (*domain.BookingDetails, error) {
	return f.validateFn(bookingID)
}

func (f *fakeReturnWorkflow) ProcessReturn(_ context.Context, req service.ProcessReturnRequest) (*service.ProcessReturnResult, error) {
	return f.processFn(req)
}

func (f *fakeReturnWorkflow) UpdateReturn(_ context.Context, id int64, update domain.ReturnUpdate) (*domain.ReturnDetails, error) {
	return f.updateFn(id, update)
}

func (f *fakeReturnWorkflow) Receipt(context.Context, int64) (string, error) {
	return f.receipt, nil
}

func (f *fakeReturnWorkflow) Stats(context.Context) (*domain.ReturnStats, error) {
	return f.stats, nil
}

var (
	_ CarCatalog      = (*fakeCarCatalog)(nil)
	_ BookingWorkflow = (*fakeBookingWorkflow)(nil)
	_ ReturnWorkflow  = (*fakeReturnWorkflow)(nil)

	_ CarCatalog      = (*service.CarService)(nil)
	_ BookingWorkflow = (*service.BookingService)(nil)
	_ ReturnWorkflow  = (*service.ReturnService)(nil)
)
