package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"carrental/internal/domain"
)

func intPtr(v int) *int { return &v }

func TestCalculateCharges(t *testing.T) {
	tests := []struct {
		name      string
		condition domain.Condition
		damages   []domain.Damage
		fuelLevel *int
		want      float64
	}{
		{name: "fair with low fuel", condition: domain.ConditionFair, fuelLevel: intPtr(20), want: 130},
		{name: "excellent with major damage", condition: domain.ConditionExcellent, damages: []domain.Damage{{Severity: domain.SeverityMajor}}, fuelLevel: intPtr(50), want: 300},
		{name: "good, no fuel reading", condition: domain.ConditionGood, want: 25},
		{name: "empty tank", condition: domain.ConditionExcellent, fuelLevel: intPtr(0), want: 30},
		{name: "fuel at threshold", condition: domain.ConditionExcellent, fuelLevel: intPtr(25), want: 0},
		{
			name:      "poor with every severity",
			condition: domain.ConditionPoor,
			damages: []domain.Damage{
				{Description: "scratch", Severity: domain.SeverityMinor},
				{Description: "dent", Severity: domain.SeverityModerate},
				{Description: "bumper", Severity: domain.SeverityMajor},
			},
			fuelLevel: intPtr(10),
			want:      200 + 50 + 150 + 300 + 30,
		},
		{name: "unknown severity is free", condition: domain.ConditionGood, damages: []domain.Damage{{Severity: "catastrophic"}}, want: 25},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CalculateCharges(tc.condition, tc.damages, tc.fuelLevel).Total())
		})
	}
}

func TestCalculateCharges_OrderIndependent(t *testing.T) {
	a := []domain.Damage{{Severity: domain.SeverityMinor}, {Severity: domain.SeverityMajor}}
	b := []domain.Damage{{Severity: domain.SeverityMajor}, {Severity: domain.SeverityMinor}}

	assert.Equal(t,
		CalculateCharges(domain.ConditionFair, a, nil),
		CalculateCharges(domain.ConditionFair, b, nil),
	)
}
