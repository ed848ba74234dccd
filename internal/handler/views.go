package handler

import (
	"time"

	"carrental/internal/domain"
)

// CarResponse is the JSON shape of a car.
type CarResponse struct {
	ID           int64     `json:"id"`
	Model        string    `json:"model"`
	Type         string    `json:"type"`
	PricePerDay  float64   `json:"pricePerDay"`
	Available    bool      `json:"available"`
	Image        string    `json:"image"`
	Features     []string  `json:"features"`
	Year         *int      `json:"year"`
	Color        *string   `json:"color"`
	FuelType     *string   `json:"fuelType"`
	LicensePlate *string   `json:"licensePlate"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newCarResponse(car *domain.Car) CarResponse {
	features := car.Features
	if features == nil {
		features = []string{}
	}
	return CarResponse{
		ID:           car.ID,
		Model:        car.Model,
		Type:         string(car.Type),
		PricePerDay:  domain.RoundMoney(car.PricePerDay),
		Available:    car.Available,
		Image:        car.Image,
		Features:     features,
		Year:         car.Year,
		Color:        car.Color,
		FuelType:     car.FuelType,
		LicensePlate: car.LicensePlate,
		CreatedAt:    car.CreatedAt,
	}
}

// BookingResponse is the JSON shape of a booking joined with its car and
// customer. Dates are dd/mm/yyyy.
type BookingResponse struct {
	ID                int64   `json:"id"`
	CarID             int64   `json:"carId"`
	CustomerID        int64   `json:"customerId"`
	CarModel          string  `json:"carModel"`
	CustomerName      string  `json:"customerName"`
	CustomerEmail     string  `json:"customerEmail"`
	CustomerPhone     string  `json:"customerPhone"`
	LicenseNumber     string  `json:"licenseNumber"`
	PickupDate        string  `json:"pickupDate"`
	ReturnDate        string  `json:"returnDate"`
	Days              int     `json:"days"`
	TotalCost         float64 `json:"totalCost"`
	Status            string  `json:"status"`
	BookingDate       string  `json:"bookingDate"`
	AdditionalCharges float64 `json:"additionalCharges"`
	ReturnCondition   *string `json:"returnCondition"`
	ReturnNotes       *string `json:"returnNotes"`
	ActualReturnDate  *string `json:"actualReturnDate"`
}

func newBookingResponse(b *domain.BookingDetails) BookingResponse {
	resp := BookingResponse{
		ID:                b.ID,
		CarID:             b.CarID,
		CustomerID:        b.CustomerID,
		CarModel:          b.CarModel,
		CustomerName:      b.CustomerName,
		CustomerEmail:     b.CustomerEmail,
		CustomerPhone:     b.CustomerPhone,
		LicenseNumber:     b.LicenseNumber,
		PickupDate:        domain.FormatDate(b.PickupDate),
		ReturnDate:        domain.FormatDate(b.ReturnDate),
		Days:              b.Days,
		TotalCost:         domain.RoundMoney(b.TotalCost),
		Status:            string(b.Status),
		BookingDate:       domain.FormatDate(b.BookingDate),
		AdditionalCharges: domain.RoundMoney(b.AdditionalCharges),
		ReturnNotes:       b.ReturnNotes,
	}
	if b.ReturnCondition != nil {
		c := string(*b.ReturnCondition)
		resp.ReturnCondition = &c
	}
	if b.ActualReturnDate != nil {
		d := domain.FormatDate(*b.ActualReturnDate)
		resp.ActualReturnDate = &d
	}
	return resp
}

func newBookingResponses(bookings []*domain.BookingDetails) []BookingResponse {
	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, newBookingResponse(b))
	}
	return out
}

// DamageDTO is a damage entry on a return.
type DamageDTO struct {
	Description string `json:"description"`
	Severity    string `json:"severity"`
}

// ReturnResponse is the JSON shape of a return record.
type ReturnResponse struct {
	ID                int64       `json:"id"`
	BookingID         int64       `json:"bookingId"`
	CarModel          string      `json:"carModel"`
	CustomerName      string      `json:"customerName"`
	ReturnDate        string      `json:"returnDate"`
	ReturnTime        string      `json:"returnTime"`
	Condition         string      `json:"condition"`
	Notes             string      `json:"notes"`
	Mileage           *int        `json:"mileage"`
	FuelLevel         *int        `json:"fuelLevel"`
	Damages           []DamageDTO `json:"damages"`
	AdditionalCharges float64     `json:"additionalCharges"`
	TotalAmount       float64     `json:"totalAmount"`
	ProcessedBy       string      `json:"processedBy"`
	Status            string      `json:"status"`
}

// returnStatusCompleted is reported for every stored return.
const returnStatusCompleted = "completed"

func newReturnResponse(r *domain.ReturnDetails) ReturnResponse {
	damages := make([]DamageDTO, 0, len(r.Damages))
	for _, d := range r.Damages {
		damages = append(damages, DamageDTO{Description: d.Description, Severity: string(d.Severity)})
	}
	return ReturnResponse{
		ID:                r.ID,
		BookingID:         r.BookingID,
		CarModel:          r.CarModel,
		CustomerName:      r.CustomerName,
		ReturnDate:        domain.FormatDate(r.ReturnDate),
		ReturnTime:        r.ReturnTime.Format(time.TimeOnly),
		Condition:         string(r.Condition),
		Notes:             r.Notes,
		Mileage:           r.Mileage,
		FuelLevel:         r.FuelLevel,
		Damages:           damages,
		AdditionalCharges: domain.RoundMoney(r.AdditionalCharges),
		TotalAmount:       domain.RoundMoney(r.TotalAmount),
		ProcessedBy:       r.ProcessedBy,
		Status:            returnStatusCompleted,
	}
}

func newReturnResponses(returns []*domain.ReturnDetails) []ReturnResponse {
	out := make([]ReturnResponse, 0, len(returns))
	for _, r := range returns {
		out = append(out, newReturnResponse(r))
	}
	return out
}
