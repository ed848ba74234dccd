package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"carrental/internal/domain"
	"carrental/internal/service"
)

// CarCatalog is the fleet catalog used by CarHandler.
type CarCatalog interface {
	ListCars(ctx context.Context, filter domain.CarFilter) ([]*domain.Car, error)
	GetCar(ctx context.Context, id int64) (*domain.Car, error)
	AddCar(ctx context.Context, req service.AddCarRequest) (*domain.Car, error)
	SetAvailability(ctx context.Context, id int64, available bool) (*domain.Car, error)
	DeleteCar(ctx context.Context, id int64) error
}

// CarHandler handles HTTP requests for the fleet catalog.
type CarHandler struct {
	cars CarCatalog
}

// NewCarHandler creates a new CarHandler.
func NewCarHandler(cars CarCatalog) *CarHandler {
	return &CarHandler{cars: cars}
}

// AddCarRequest is the HTTP request body for adding a car.
type AddCarRequest struct {
	Model        string   `json:"model"`
	Type         string   `json:"type"`
	PricePerDay  *float64 `json:"pricePerDay"`
	Available    *bool    `json:"available"`
	Image        string   `json:"image"`
	Features     []string `json:"features"`
	Year         *int     `json:"year"`
	Color        *string  `json:"color"`
	FuelType     *string  `json:"fuelType"`
	LicensePlate *string  `json:"licensePlate"`
}

// SetAvailabilityRequest is the HTTP request body for toggling availability.
type SetAvailabilityRequest struct {
	Available *bool `json:"available"`
}

// CarMutationResponse wraps a car returned by a mutation.
type CarMutationResponse struct {
	Message string      `json:"message"`
	Car     CarResponse `json:"car"`
}

// ListCars handles GET /api/cars
func (h *CarHandler) ListCars(c *gin.Context) {
	filter, err := parseCarFilter(c)
	if err != nil {
		respondError(c, err)
		return
	}

	cars, err := h.cars.ListCars(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]CarResponse, 0, len(cars))
	for _, car := range cars {
		resp = append(resp, newCarResponse(car))
	}
	respondJSON(c, http.StatusOK, resp)
}

func parseCarFilter(c *gin.Context) (domain.CarFilter, error) {
	var filter domain.CarFilter

	filter.Type = domain.CarType(c.Query("type"))

	if v := c.Query("available"); v != "" {
		available, err := strconv.ParseBool(v)
		if err != nil {
			return filter, service.ErrInvalidCarFilter
		}
		filter.Available = &available
	}

	if v := c.Query("minPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, service.ErrInvalidCarFilter
		}
		filter.MinPrice = &price
	}

	if v := c.Query("maxPrice"); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return filter, service.ErrInvalidCarFilter
		}
		filter.MaxPrice = &price
	}

	return filter, nil
}

// GetCar handles GET /api/cars/:id
func (h *CarHandler) GetCar(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	car, err := h.cars.GetCar(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, newCarResponse(car))
}

// AddCar handles POST /api/cars
func (h *CarHandler) AddCar(c *gin.Context) {
	var req AddCarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	car, err := h.cars.AddCar(c.Request.Context(), service.AddCarRequest{
		Model:        req.Model,
		Type:         req.Type,
		PricePerDay:  req.PricePerDay,
		Available:    req.Available,
		Image:        req.Image,
		Features:     req.Features,
		Year:         req.Year,
		Color:        req.Color,
		FuelType:     req.FuelType,
		LicensePlate: req.LicensePlate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, CarMutationResponse{
		Message: "Car added successfully",
		Car:     newCarResponse(car),
	})
}

// SetAvailability handles PUT /api/cars/:id/availability
func (h *CarHandler) SetAvailability(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Available == nil {
		respondError(c, service.ErrAvailabilityRequired)
		return
	}

	car, err := h.cars.SetAvailability(c.Request.Context(), id, *req.Available)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, CarMutationResponse{
		Message: "Car availability updated",
		Car:     newCarResponse(car),
	})
}

// DeleteCar handles DELETE /api/cars/:id
func (h *CarHandler) DeleteCar(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.cars.DeleteCar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, MessageResponse{Message: "Car deleted successfully"})
}
