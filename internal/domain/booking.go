package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusActive    BookingStatus = "active"
	BookingStatusCompleted BookingStatus = "completed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Valid reports whether s is a known booking status.
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusActive, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is allowed from s.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

// Booking represents a reservation of a car by a customer.
type Booking struct {
	ID                int64
	CarID             int64
	CustomerID        int64
	PickupDate        time.Time
	ReturnDate        time.Time
	Days              int
	TotalCost         float64
	Status            BookingStatus
	BookingDate       time.Time
	AdditionalCharges float64
	ReturnCondition   *Condition
	ReturnNotes       *string
	ActualReturnDate  *time.Time
	CreatedAt         time.Time
}

// BookingDetails is a booking joined with its car and customer.
type BookingDetails struct {
	Booking
	CarModel      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	LicenseNumber string
}

// BookingFilter narrows a booking listing. Empty fields are not applied.
type BookingFilter struct {
	Email  string
	Status BookingStatus
}

// BookingStats aggregates bookings by status.
type BookingStats struct {
	Total        int
	Active       int
	Completed    int
	Cancelled    int
	TotalRevenue float64 // totalCost + additionalCharges over completed bookings
}
