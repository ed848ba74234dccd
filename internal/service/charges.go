package service

import "carrental/internal/domain"

const (
	// lowFuelThreshold is the fuel percentage under which refuelling is charged.
	lowFuelThreshold = 25
	lowFuelCharge    = 30.0
)

var conditionCharges = map[domain.Condition]float64{
	domain.ConditionExcellent: 0,
	domain.ConditionGood:      25,
	domain.ConditionFair:      100,
	domain.ConditionPoor:      200,
}

// Unknown severities are absent and charge nothing.
var damageCharges = map[domain.DamageSeverity]float64{
	domain.SeverityMinor:    50,
	domain.SeverityModerate: 150,
	domain.SeverityMajor:    300,
}

// ChargeBreakdown itemizes the surcharges applied at return.
type ChargeBreakdown struct {
	Condition float64
	Damages   float64
	Fuel      float64
}

// Total is the sum of all surcharges.
func (b ChargeBreakdown) Total() float64 {
	return domain.RoundMoney(b.Condition + b.Damages + b.Fuel)
}

// CalculateCharges computes the additional charges for a returned vehicle.
// A nil fuelLevel means the level was not recorded and is never charged.
func CalculateCharges(condition domain.Condition, damages []domain.Damage, fuelLevel *int) ChargeBreakdown {
	var b ChargeBreakdown
	b.Condition = conditionCharges[condition]
	for _, d := range damages {
		b.Damages += damageCharges[d.Severity]
	}
	if fuelLevel != nil && *fuelLevel < lowFuelThreshold {
		b.Fuel = lowFuelCharge
	}
	return b
}
