package service

import "errors"

// Validation errors.
var (
	// ErrInvalidID is returned when a path or body id is not a positive integer.
	ErrInvalidID = errors.New("invalid id")

	// ErrCarFieldsRequired is returned when model, type or price is missing.
	ErrCarFieldsRequired = errors.New("model, type, and price per day are required")

	// ErrInvalidCarType is returned for a type outside economy, compact, suv, luxury.
	ErrInvalidCarType = errors.New("invalid car type")

	// ErrInvalidPrice is returned when the daily price is not positive.
	ErrInvalidPrice = errors.New("price per day must be greater than zero")

	// ErrInvalidCarField is returned when a car field does not fit the fleet
	// table, such as an overlong license plate.
	ErrInvalidCarField = errors.New("invalid car field")

	// ErrInvalidCarFilter is returned for a malformed catalog query.
	ErrInvalidCarFilter = errors.New("invalid car filter")

	// ErrAvailabilityRequired is returned when the availability flag is missing.
	ErrAvailabilityRequired = errors.New("available flag is required")

	// ErrCarHasActiveBookings is returned when deleting a car that is still booked.
	ErrCarHasActiveBookings = errors.New("cannot delete car with active bookings")

	// ErrBookingFieldsRequired is returned when a booking request is incomplete.
	ErrBookingFieldsRequired = errors.New("missing required fields")

	// ErrInvalidDate is returned when a date is not dd/mm/yyyy.
	ErrInvalidDate = errors.New("invalid date format, expected dd/mm/yyyy")

	// ErrInvalidDateRange is returned when the return date is not after pickup.
	ErrInvalidDateRange = errors.New("return date must be after pickup date")

	// ErrInvalidTotalCost is returned when the booking total is not positive.
	ErrInvalidTotalCost = errors.New("total cost must be greater than zero")

	// ErrInvalidStatus is returned for an unknown booking status.
	ErrInvalidStatus = errors.New("invalid status")

	// ErrBookingNotCancellable is returned when cancelling a non-active booking.
	ErrBookingNotCancellable = errors.New("only active bookings can be cancelled")

	// ErrReturnFieldsRequired is returned when bookingId or condition is missing.
	ErrReturnFieldsRequired = errors.New("booking id and condition are required")

	// ErrInvalidCondition is returned for an unknown vehicle condition.
	ErrInvalidCondition = errors.New("invalid condition value")

	// ErrInvalidFuelLevel is returned when the fuel level is outside 0-100.
	ErrInvalidFuelLevel = errors.New("fuel level must be between 0 and 100")

	// ErrInvalidMileage is returned for a negative mileage.
	ErrInvalidMileage = errors.New("mileage cannot be negative")

	// ErrInvalidAdditionalCharges is returned for negative additional charges.
	ErrInvalidAdditionalCharges = errors.New("additional charges cannot be negative")

	// ErrNoFieldsToUpdate is returned by a partial update with nothing to change.
	ErrNoFieldsToUpdate = errors.New("no valid fields to update")

	// ErrBookingNotReturnable is returned when validating a booking that is
	// not active.
	ErrBookingNotReturnable = errors.New("booking is not active or has already been returned")
)

// Not found errors.
var (
	ErrCarNotFound           = errors.New("car not found")
	ErrBookingNotFound       = errors.New("booking not found")
	ErrActiveBookingNotFound = errors.New("active booking not found")
	ErrReturnNotFound        = errors.New("return record not found")
)

// Conflict errors.
var (
	// ErrCarNotAvailable is returned when the dates overlap an active booking.
	ErrCarNotAvailable = errors.New("car is not available for the selected dates")

	// ErrDuplicateLicensePlate is returned when the plate is already registered.
	ErrDuplicateLicensePlate = errors.New("license plate already exists")
)
