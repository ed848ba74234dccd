package domain

import "time"

// CarType represents the rental class of a car.
type CarType string

const (
	CarTypeEconomy CarType = "economy"
	CarTypeCompact CarType = "compact"
	CarTypeSUV     CarType = "suv"
	CarTypeLuxury  CarType = "luxury"
)

// Valid reports whether t is one of the known car types.
func (t CarType) Valid() bool {
	switch t {
	case CarTypeEconomy, CarTypeCompact, CarTypeSUV, CarTypeLuxury:
		return true
	}
	return false
}

// DefaultCarImage is used when a car is added without an image.
const DefaultCarImage = "🚗"

// Car represents a vehicle in the rental fleet.
type Car struct {
	ID           int64
	Model        string
	Type         CarType
	PricePerDay  float64
	Available    bool
	Image        string
	Features     []string
	Year         *int
	Color        *string
	FuelType     *string
	LicensePlate *string
	CreatedAt    time.Time
}

// CarFilter narrows a catalog listing. Nil/zero fields are not applied.
type CarFilter struct {
	Type      CarType
	Available *bool
	MinPrice  *float64
	MaxPrice  *float64
}
