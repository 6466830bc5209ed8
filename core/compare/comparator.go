// Package compare ranks catalog suppliers against a specific bill.
package compare

import (
	"sort"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

// Result is the full comparison output for one bill
type Result struct {
	// CurrentCost is the bill-derived monthly cost (grid + energy + fees)
	CurrentCost decimal.Decimal `json:"currentCost"`

	// Comparisons lists active providers, best savings first
	Comparisons []types.ProviderComparison `json:"comparisons"`

	// TotalProviders is the number of providers compared
	TotalProviders int `json:"totalProviders"`

	// RecommendedCount is the number of providers with positive savings
	RecommendedCount int `json:"recommendedCount"`
}

// Comparator estimates per-supplier costs against a bill. Pure and reentrant.
type Comparator struct{}

// NewComparator creates a comparator
func NewComparator() *Comparator {
	return &Comparator{}
}

// Compare estimates each active provider's monthly cost for the bill and ranks
// them by estimated savings, descending. Ties keep catalog order.
//
// Savings here are measured against the bill's own declared total, not the
// recomputed current cost used by the savings model. The two bases are
// intentionally different: one is a market-reference estimate, the other a
// per-supplier quote against what the customer actually paid.
func (c *Comparator) Compare(bill *types.BillData, providers []types.ElectricityProvider) (*Result, error) {
	if bill == nil {
		return nil, errors.Validation("bill data is required")
	}
	if err := bill.Validate(); err != nil {
		return nil, err
	}

	comparisons := make([]types.ProviderComparison, 0, len(providers))
	recommended := 0

	for _, provider := range providers {
		if !provider.IsActive {
			continue
		}

		monthlyFee := provider.MonthlyFee
		if provider.FreeMonths > 0 {
			// Static per-provider attribute: the fee is waived at comparison
			// time, no per-customer countdown is tracked.
			monthlyFee = decimal.Zero
		}

		estimatedCost := bill.ElnatCost.
			Add(bill.TotalKWh.Mul(provider.EnergyPrice)).
			Add(monthlyFee)
		estimatedCost = types.RoundCurrency(estimatedCost)

		estimatedSavings := types.RoundCurrency(bill.TotalAmount.Sub(estimatedCost))
		isRecommended := estimatedSavings.IsPositive()
		if isRecommended {
			recommended++
		}

		comparisons = append(comparisons, types.ProviderComparison{
			Provider:             provider,
			EstimatedMonthlyCost: estimatedCost,
			EstimatedSavings:     estimatedSavings,
			IsRecommended:        isRecommended,
		})
	}

	sort.SliceStable(comparisons, func(i, j int) bool {
		return comparisons[i].EstimatedSavings.GreaterThan(comparisons[j].EstimatedSavings)
	})

	currentCost := types.RoundCurrency(bill.ElnatCost.Add(bill.ElhandelCost).Add(bill.ExtraFeesTotal))

	return &Result{
		CurrentCost:      currentCost,
		Comparisons:      comparisons,
		TotalProviders:   len(comparisons),
		RecommendedCount: recommended,
	}, nil
}
