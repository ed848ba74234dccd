package domain

import "time"

// Condition is the vehicle condition recorded at return.
type Condition string

const (
	ConditionExcellent Condition = "excellent"
	ConditionGood      Condition = "good"
	ConditionFair      Condition = "fair"
	ConditionPoor      Condition = "poor"
)

// Conditions lists every condition from best to worst.
var Conditions = []Condition{ConditionExcellent, ConditionGood, ConditionFair, ConditionPoor}

// Valid reports whether c is a known condition.
func (c Condition) Valid() bool {
	return c.Score() > 0
}

// Score maps a condition onto 4 (excellent) … 1 (poor); unknown is 0.
func (c Condition) Score() int {
	switch c {
	case ConditionExcellent:
		return 4
	case ConditionGood:
		return 3
	case ConditionFair:
		return 2
	case ConditionPoor:
		return 1
	}
	return 0
}

// DamageSeverity grades a reported damage.
type DamageSeverity string

const (
	SeverityMinor    DamageSeverity = "minor"
	SeverityModerate DamageSeverity = "moderate"
	SeverityMajor    DamageSeverity = "major"
)

// Damage is a single damage entry on a return.
type Damage struct {
	Description string         `json:"description"`
	Severity    DamageSeverity `json:"severity"`
}

// ProcessedBySystem is recorded when no operator name is given.
const ProcessedBySystem = "System"

// Return represents the closing record of a booking.
type Return struct {
	ID                int64
	BookingID         int64
	ReturnDate        time.Time
	ReturnTime        time.Time
	Condition         Condition
	Notes             string
	Mileage           *int
	FuelLevel         *int
	Damages           []Damage
	AdditionalCharges float64
	TotalAmount       float64
	ProcessedBy       string
}

// ReturnDetails is a return joined with the booking's car and customer.
type ReturnDetails struct {
	Return
	CarModel     string
	CustomerName string
}

// ReturnUpdate holds the fields of a partial return correction.
type ReturnUpdate struct {
	Condition         *Condition
	Notes             *string
	AdditionalCharges *float64
}

// Empty reports whether no field is set.
func (u ReturnUpdate) Empty() bool {
	return u.Condition == nil && u.Notes == nil && u.AdditionalCharges == nil
}

// ReturnStats aggregates return records.
type ReturnStats struct {
	TotalReturns           int
	AverageCondition       float64
	TotalAdditionalCharges float64
	ConditionBreakdown     map[Condition]int
	DamageReports          int
}
