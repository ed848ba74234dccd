package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"carrental/internal/service"
)

// internalErrorMessage is shown to clients instead of internal error text
// outside development.
const internalErrorMessage = "Internal server error"

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MessageResponse is the body of mutations that return no entity.
type MessageResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code < http.StatusInternalServerError {
		c.JSON(code, ErrorResponse{Error: err.Error()})
		return
	}

	zerolog.Ctx(c.Request.Context()).Error().
		Err(err).
		Int("status", code).
		Str("route", c.FullPath()).
		Msg("request failed")
	_ = c.Error(err)

	resp := ErrorResponse{Error: internalErrorMessage}
	if gin.Mode() == gin.DebugMode {
		resp.Message = err.Error()
	}
	c.JSON(code, resp)
}

// respondBadRequest sends a 400 for a body or query that could not be decoded.
func respondBadRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, service.ErrCarNotFound),
		errors.Is(err, service.ErrBookingNotFound),
		errors.Is(err, service.ErrActiveBookingNotFound),
		errors.Is(err, service.ErrReturnNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrCarFieldsRequired),
		errors.Is(err, service.ErrInvalidCarType),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidCarField),
		errors.Is(err, service.ErrInvalidCarFilter),
		errors.Is(err, service.ErrAvailabilityRequired),
		errors.Is(err, service.ErrCarHasActiveBookings),
		errors.Is(err, service.ErrBookingFieldsRequired),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrInvalidTotalCost),
		errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrBookingNotCancellable),
		errors.Is(err, service.ErrReturnFieldsRequired),
		errors.Is(err, service.ErrInvalidCondition),
		errors.Is(err, service.ErrInvalidFuelLevel),
		errors.Is(err, service.ErrInvalidMileage),
		errors.Is(err, service.ErrInvalidAdditionalCharges),
		errors.Is(err, service.ErrNoFieldsToUpdate),
		errors.Is(err, service.ErrBookingNotReturnable):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrCarNotAvailable),
		errors.Is(err, service.ErrDuplicateLicensePlate):
		return http.StatusConflict

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.ErrInvalidID
	}
	return id, nil
}
