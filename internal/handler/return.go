package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carrental/internal/domain"
	"carrental/internal/service"
)

// ReturnWorkflow is the return service used by ReturnHandler.
type ReturnWorkflow interface {
	ListReturns(ctx context.Context, bookingID int64) ([]*domain.ReturnDetails, error)
	GetReturn(ctx context.Context, id int64) (*domain.ReturnDetails, error)
	ValidateForReturn(ctx context.Context, bookingID int64) (*domain.BookingDetails, error)
	ProcessReturn(ctx context.Context, req service.ProcessReturnRequest) (*service.ProcessReturnResult, error)
	UpdateReturn(ctx context.Context, id int64, update domain.ReturnUpdate) (*domain.ReturnDetails, error)
	Receipt(ctx context.Context, id int64) (string, error)
	Stats(ctx context.Context) (*domain.ReturnStats, error)
}

// ReturnHandler handles HTTP requests for vehicle returns.
type ReturnHandler struct {
	returns ReturnWorkflow
}

// NewReturnHandler creates a new ReturnHandler.
func NewReturnHandler(returns ReturnWorkflow) *ReturnHandler {
	return &ReturnHandler{returns: returns}
}

// ProcessReturnRequest is the HTTP request body for processing a return.
type ProcessReturnRequest struct {
	BookingID int64       `json:"bookingId"`
	Condition string      `json:"condition"`
	Notes     string      `json:"notes"`
	Mileage   *int        `json:"mileage"`
	FuelLevel *int        `json:"fuelLevel"`
	Damages   []DamageDTO `json:"damages"`
}

// UpdateReturnRequest is the HTTP request body for correcting a return.
type UpdateReturnRequest struct {
	Condition         *string  `json:"condition"`
	Notes             *string  `json:"notes"`
	AdditionalCharges *float64 `json:"additionalCharges"`
}

// ValidateReturnRequest is the HTTP request body for the pre-return check.
type ValidateReturnRequest struct {
	BookingID int64 `json:"bookingId"`
}

// ReturnSummary is the cost summary of a processed return.
type ReturnSummary struct {
	OriginalCost      float64 `json:"originalCost"`
	AdditionalCharges float64 `json:"additionalCharges"`
	TotalAmount       float64 `json:"totalAmount"`
	Condition         string  `json:"condition"`
	ReturnDate        string  `json:"returnDate"`
}

// ProcessReturnResponse is the body of POST /api/returns.
type ProcessReturnResponse struct {
	Message string         `json:"message"`
	Return  ReturnResponse `json:"return"`
	Summary ReturnSummary  `json:"summary"`
}

// ReturnMutationResponse wraps a return record returned by an update.
type ReturnMutationResponse struct {
	Message string         `json:"message"`
	Return  ReturnResponse `json:"return"`
}

// ValidBooking is the booking projection of a successful pre-return check.
type ValidBooking struct {
	ID           int64  `json:"id"`
	CarModel     string `json:"carModel"`
	CustomerName string `json:"customerName"`
	PickupDate   string `json:"pickupDate"`
	ReturnDate   string `json:"returnDate"`
	Status       string `json:"status"`
}

// ValidateReturnResponse is the body of POST /api/returns/validate.
type ValidateReturnResponse struct {
	Valid   bool         `json:"valid"`
	Booking ValidBooking `json:"booking"`
	Message string       `json:"message"`
}

// ReturnStatsResponse is the body of GET /api/returns/stats/summary.
type ReturnStatsResponse struct {
	TotalReturns           int            `json:"totalReturns"`
	AverageCondition       float64        `json:"averageCondition"`
	TotalAdditionalCharges float64        `json:"totalAdditionalCharges"`
	ConditionBreakdown     map[string]int `json:"conditionBreakdown"`
	DamageReports          int            `json:"damageReports"`
}

// ListReturns handles GET /api/returns
func (h *ReturnHandler) ListReturns(c *gin.Context) {
	var bookingID int64
	if v := c.Query("bookingId"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			respondError(c, service.ErrInvalidID)
			return
		}
		bookingID = id
	}

	returns, err := h.returns.ListReturns(c.Request.Context(), bookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newReturnResponses(returns))
}

// GetReturn handles GET /api/returns/:id
func (h *ReturnHandler) GetReturn(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	ret, err := h.returns.GetReturn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newReturnResponse(ret))
}

// ProcessReturn handles POST /api/returns
func (h *ReturnHandler) ProcessReturn(c *gin.Context) {
	var req ProcessReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	damages := make([]domain.Damage, 0, len(req.Damages))
	for _, d := range req.Damages {
		damages = append(damages, domain.Damage{Description: d.Description, Severity: domain.DamageSeverity(d.Severity)})
	}

	result, err := h.returns.ProcessReturn(c.Request.Context(), service.ProcessReturnRequest{
		BookingID: req.BookingID,
		Condition: req.Condition,
		Notes:     req.Notes,
		Mileage:   req.Mileage,
		FuelLevel: req.FuelLevel,
		Damages:   damages,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, ProcessReturnResponse{
		Message: "Vehicle return processed successfully",
		Return:  newReturnResponse(result.Return),
		Summary: ReturnSummary{
			OriginalCost:      domain.RoundMoney(result.OriginalCost),
			AdditionalCharges: domain.RoundMoney(result.AdditionalCharges),
			TotalAmount:       domain.RoundMoney(result.TotalAmount),
			Condition:         string(result.Condition),
			ReturnDate:        domain.FormatDate(result.ReturnDate),
		},
	})
}

// UpdateReturn handles PUT /api/returns/:id
func (h *ReturnHandler) UpdateReturn(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req UpdateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	update := domain.ReturnUpdate{
		Notes:             req.Notes,
		AdditionalCharges: req.AdditionalCharges,
	}
	if req.Condition != nil {
		condition := domain.Condition(*req.Condition)
		update.Condition = &condition
	}

	ret, err := h.returns.UpdateReturn(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ReturnMutationResponse{
		Message: "Return record updated successfully",
		Return:  newReturnResponse(ret),
	})
}

// ValidateBooking handles POST /api/returns/validate
func (h *ReturnHandler) ValidateBooking(c *gin.Context) {
	var req ValidateReturnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	booking, err := h.returns.ValidateForReturn(c.Request.Context(), req.BookingID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, ValidateReturnResponse{
		Valid: true,
		Booking: ValidBooking{
			ID:           booking.ID,
			CarModel:     booking.CarModel,
			CustomerName: booking.CustomerName,
			PickupDate:   domain.FormatDate(booking.PickupDate),
			ReturnDate:   domain.FormatDate(booking.ReturnDate),
			Status:       string(booking.Status),
		},
		Message: "Booking is valid for return",
	})
}

// Receipt handles GET /api/returns/:id/receipt
func (h *ReturnHandler) Receipt(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	receipt, err := h.returns.Receipt(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.String(http.StatusOK, receipt)
}

// Stats handles GET /api/returns/stats/summary
func (h *ReturnHandler) Stats(c *gin.Context) {
	stats, err := h.returns.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	breakdown := make(map[string]int, len(domain.Conditions))
	for _, condition := range domain.Conditions {
		breakdown[string(condition)] = stats.ConditionBreakdown[condition]
	}

	respondJSON(c, http.StatusOK, ReturnStatsResponse{
		TotalReturns:           stats.TotalReturns,
		AverageCondition:       stats.AverageCondition,
		TotalAdditionalCharges: domain.RoundMoney(stats.TotalAdditionalCharges),
		ConditionBreakdown:     breakdown,
		DamageReports:          stats.DamageReports,
	})
}
