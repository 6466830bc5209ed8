// Package savings implements the baseline savings model: a bill's cost
// breakdown measured against a theoretical aggressive low-cost market offer.
package savings

import (
	"github.com/shopspring/decimal"

	"elbyte/core/types"
)

// Default reference plan constants, representing an aggressive low-cost offer
var (
	// DefaultReferenceEnergyRate is SEK per kWh
	DefaultReferenceEnergyRate = decimal.NewFromFloat(0.50)

	// DefaultMinimalMonthlyFee is SEK per month
	DefaultMinimalMonthlyFee = decimal.NewFromInt(29)
)

// Calculator computes savings estimates. It is pure: no I/O, no shared state,
// deterministic for identical input.
type Calculator struct {
	referenceEnergyRate decimal.Decimal
	minimalMonthlyFee   decimal.Decimal
}

// NewCalculator creates a calculator with the default reference plan
func NewCalculator() *Calculator {
	return NewCalculatorWithReference(DefaultReferenceEnergyRate, DefaultMinimalMonthlyFee)
}

// NewCalculatorWithReference creates a calculator with explicit reference constants
func NewCalculatorWithReference(energyRate, monthlyFee decimal.Decimal) *Calculator {
	return &Calculator{
		referenceEnergyRate: energyRate,
		minimalMonthlyFee:   monthlyFee,
	}
}

// Compute derives the savings estimate for a bill.
//
// The grid charge (elnat) is invariant across suppliers and is carried into
// the alternative unchanged. It must never be discounted.
func (c *Calculator) Compute(bill *types.BillData) (*types.SavingsCalculation, error) {
	if err := bill.Validate(); err != nil {
		return nil, err
	}

	currentCost := bill.ElnatCost.Add(bill.ElhandelCost).Add(bill.ExtraFeesTotal)

	cheapestEnergyCost := bill.TotalKWh.Mul(c.referenceEnergyRate).Add(c.minimalMonthlyFee)
	cheapestAlternative := bill.ElnatCost.Add(cheapestEnergyCost)

	currentCost = types.RoundCurrency(currentCost)
	cheapestAlternative = types.RoundCurrency(cheapestAlternative)

	potentialSavings := currentCost.Sub(cheapestAlternative)
	if potentialSavings.IsNegative() {
		potentialSavings = decimal.Zero
	}

	percentage := decimal.Zero
	if currentCost.IsPositive() {
		percentage = potentialSavings.Div(currentCost).Mul(decimal.NewFromInt(100))
	}

	return &types.SavingsCalculation{
		CurrentCost:         currentCost,
		CheapestAlternative: cheapestAlternative,
		PotentialSavings:    types.RoundCurrency(potentialSavings),
		SavingsPercentage:   types.RoundPercent(percentage),
	}, nil
}
