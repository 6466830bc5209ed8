package types

import "github.com/shopspring/decimal"

// SavingsCalculation is the baseline savings estimate for a bill, measured
// against a theoretical aggressive low-cost market offer
type SavingsCalculation struct {
	// CurrentCost is the bill-derived monthly cost (grid + energy + fees)
	CurrentCost decimal.Decimal `json:"currentCost"`

	// CheapestAlternative is what the reference plan would cost, grid charge included
	CheapestAlternative decimal.Decimal `json:"cheapestAlternative"`

	// PotentialSavings is the clamped difference, never negative
	PotentialSavings decimal.Decimal `json:"potentialSavings"`

	// SavingsPercentage is PotentialSavings relative to CurrentCost, one decimal
	SavingsPercentage decimal.Decimal `json:"savingsPercentage"`
}

// RoundCurrency rounds a monetary amount to whole currency units
func RoundCurrency(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// RoundPercent rounds a percentage to one decimal
func RoundPercent(d decimal.Decimal) decimal.Decimal {
	return d.Round(1)
}
