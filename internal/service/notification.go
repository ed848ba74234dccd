package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"carrental/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationReturnProcessed  NotificationType = "RETURN_PROCESSED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string // customer email
	Title     string
	Message   string
	Data      map[string]any
	CreatedAt time.Time
}

// NotificationService delivers customer notifications. Delivery is the
// structured log; there is no outbound channel.
type NotificationService struct{}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingConfirmed tells the customer their booking is confirmed.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.BookingDetails) {
	s.send(ctx, Notification{
		Type:      NotificationBookingConfirmed,
		Recipient: booking.CustomerEmail,
		Title:     "Booking Confirmed",
		Message: fmt.Sprintf("Your %s is booked from %s to %s. Total: $%.2f",
			booking.CarModel, domain.FormatDate(booking.PickupDate), domain.FormatDate(booking.ReturnDate), booking.TotalCost),
		Data: map[string]any{
			"booking_id": booking.ID,
			"car_id":     booking.CarID,
			"days":       booking.Days,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled tells the customer their booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.BookingDetails) {
	s.send(ctx, Notification{
		Type:      NotificationBookingCancelled,
		Recipient: booking.CustomerEmail,
		Title:     "Booking Cancelled",
		Message:   fmt.Sprintf("Your booking #%d for the %s has been cancelled", booking.ID, booking.CarModel),
		Data: map[string]any{
			"booking_id": booking.ID,
			"car_id":     booking.CarID,
		},
		CreatedAt: time.Now(),
	})
}

// NotifyReturnProcessed sends the customer the final amount of a returned booking.
func (s *NotificationService) NotifyReturnProcessed(ctx context.Context, ret *domain.Return, booking *domain.BookingDetails) {
	s.send(ctx, Notification{
		Type:      NotificationReturnProcessed,
		Recipient: booking.CustomerEmail,
		Title:     "Vehicle Returned",
		Message: fmt.Sprintf("Thanks for returning the %s. Additional charges: $%.2f, total: $%.2f",
			booking.CarModel, ret.AdditionalCharges, ret.TotalAmount),
		Data: map[string]any{
			"booking_id": booking.ID,
			"return_id":  ret.ID,
			"condition":  string(ret.Condition),
		},
		CreatedAt: time.Now(),
	})
}

func (s *NotificationService) send(ctx context.Context, n Notification) {
	zerolog.Ctx(ctx).Info().
		Str("notification", string(n.Type)).
		Str("recipient", n.Recipient).
		Str("title", n.Title).
		Fields(n.Data).
		Time("created_at", n.CreatedAt).
		Msg(n.Message)
}
