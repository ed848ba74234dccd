package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"carrental/internal/domain"
	"carrental/internal/service"
)

// BookingWorkflow is the booking service used by BookingHandler.
type BookingWorkflow interface {
	ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*domain.BookingDetails, error)
	GetBooking(ctx context.Context, id int64) (*domain.BookingDetails, error)
	CreateBooking(ctx context.Context, req service.CreateBookingRequest) (*domain.BookingDetails, error)
	UpdateStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.BookingDetails, error)
	CancelBooking(ctx context.Context, id int64) error
	Stats(ctx context.Context) (*domain.BookingStats, error)
}

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookings BookingWorkflow
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookings BookingWorkflow) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	CarID         int64   `json:"carId"`
	CustomerName  string  `json:"customerName"`
	CustomerEmail string  `json:"customerEmail"`
	CustomerPhone string  `json:"customerPhone"`
	LicenseNumber string  `json:"licenseNumber"`
	PickupDate    string  `json:"pickupDate"`
	ReturnDate    string  `json:"returnDate"`
	TotalCost     float64 `json:"totalCost"`
}

// UpdateStatusRequest is the HTTP request body for overwriting a status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// BookingMutationResponse wraps a booking returned by a mutation.
type BookingMutationResponse struct {
	Message string          `json:"message"`
	Booking BookingResponse `json:"booking"`
}

// BookingStatsResponse is the body of GET /api/bookings/stats/summary.
type BookingStatsResponse struct {
	Total        int     `json:"total"`
	Active       int     `json:"active"`
	Completed    int     `json:"completed"`
	Cancelled    int     `json:"cancelled"`
	TotalRevenue float64 `json:"totalRevenue"`
}

// ListBookings handles GET /api/bookings
func (h *BookingHandler) ListBookings(c *gin.Context) {
	filter := domain.BookingFilter{
		Email:  c.Query("email"),
		Status: domain.BookingStatus(c.Query("status")),
	}

	bookings, err := h.bookings.ListBookings(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newBookingResponses(bookings))
}

// GetBooking handles GET /api/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	booking, err := h.bookings.GetBooking(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newBookingResponse(booking))
}

// CreateBooking handles POST /api/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	booking, err := h.bookings.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CarID:         req.CarID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		LicenseNumber: req.LicenseNumber,
		PickupDate:    req.PickupDate,
		ReturnDate:    req.ReturnDate,
		TotalCost:     req.TotalCost,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, BookingMutationResponse{
		Message: "Booking created successfully",
		Booking: newBookingResponse(booking),
	})
}

// UpdateStatus handles PUT /api/bookings/:id/status
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	booking, err := h.bookings.UpdateStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BookingMutationResponse{
		Message: "Booking status updated successfully",
		Booking: newBookingResponse(booking),
	})
}

// CancelBooking handles DELETE /api/bookings/:id
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.bookings.CancelBooking(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MessageResponse{Message: "Booking cancelled successfully"})
}

// Stats handles GET /api/bookings/stats/summary
func (h *BookingHandler) Stats(c *gin.Context) {
	stats, err := h.bookings.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, BookingStatsResponse{
		Total:        stats.Total,
		Active:       stats.Active,
		Completed:    stats.Completed,
		Cancelled:    stats.Cancelled,
		TotalRevenue: domain.RoundMoney(stats.TotalRevenue),
	})
}
