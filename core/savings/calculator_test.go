package savings

import (
	"testing"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

func bill(elnat, elhandel, fees, kwh float64) *types.BillData {
	return &types.BillData{
		ElnatCost:      decimal.NewFromFloat(elnat),
		ElhandelCost:   decimal.NewFromFloat(elhandel),
		ExtraFeesTotal: decimal.NewFromFloat(fees),
		TotalAmount:    decimal.NewFromFloat(elnat + elhandel + fees),
		TotalKWh:       decimal.NewFromFloat(kwh),
		Confidence:     0.9,
	}
}

// TestComputeKnownBills checks the model end to end on hand-computed bills
func TestComputeKnownBills(t *testing.T) {
	tests := []struct {
		name        string
		bill        *types.BillData
		currentCost string
		cheapest    string
		savings     string
		percentage  string
	}{
		{
			name:        "typical household",
			bill:        bill(500, 700, 100, 500),
			currentCost: "1300",
			cheapest:    "779",
			savings:     "521",
			percentage:  "40.1",
		},
		{
			name:        "grid-dominated bill",
			bill:        bill(1000, 200, 0, 100),
			currentCost: "1200",
			cheapest:    "1079",
			savings:     "121",
			percentage:  "10.1",
		},
		{
			name:        "already cheap plan clamps to zero",
			bill:        bill(500, 50, 0, 50),
			currentCost: "550",
			cheapest:    "554",
			savings:     "0",
			percentage:  "0",
		},
		{
			name:        "zero bill",
			bill:        bill(0, 0, 0, 0),
			currentCost: "0",
			cheapest:    "29",
			savings:     "0",
			percentage:  "0",
		},
	}

	calc := NewCalculator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := calc.Compute(tt.bill)
			if err != nil {
				t.Fatalf("Compute failed: %v", err)
			}
			if got := result.CurrentCost.String(); got != tt.currentCost {
				t.Errorf("CurrentCost = %s, want %s", got, tt.currentCost)
			}
			if got := result.CheapestAlternative.String(); got != tt.cheapest {
				t.Errorf("CheapestAlternative = %s, want %s", got, tt.cheapest)
			}
			if got := result.PotentialSavings.String(); got != tt.savings {
				t.Errorf("PotentialSavings = %s, want %s", got, tt.savings)
			}
			if got := result.SavingsPercentage.String(); got != tt.percentage {
				t.Errorf("SavingsPercentage = %s, want %s", got, tt.percentage)
			}
		})
	}
}

// TestComputeCarriesGridChargeUnchanged proves the grid charge is never
// discounted in the alternative
func TestComputeCarriesGridChargeUnchanged(t *testing.T) {
	calc := NewCalculator()

	low, err := calc.Compute(bill(100, 700, 0, 500))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	high, err := calc.Compute(bill(900, 700, 0, 500))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}

	// Same energy profile, grid charge 800 higher: the alternative must move
	// by exactly the grid delta.
	delta := high.CheapestAlternative.Sub(low.CheapestAlternative)
	if !delta.Equal(decimal.NewFromInt(800)) {
		t.Errorf("grid charge delta = %s, want 800", delta)
	}
}

// TestComputeIsDeterministic proves identical input yields identical output
func TestComputeIsDeterministic(t *testing.T) {
	calc := NewCalculator()
	b := bill(512.34, 698.77, 49.5, 432)

	first, err := calc.Compute(b)
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	for i := 0; i < 10; i++ {
		again, err := calc.Compute(b)
		if err != nil {
			t.Fatalf("Compute failed on run %d: %v", i, err)
		}
		if !again.PotentialSavings.Equal(first.PotentialSavings) ||
			!again.SavingsPercentage.Equal(first.SavingsPercentage) {
			t.Fatalf("run %d diverged: %+v vs %+v", i, again, first)
		}
	}
}

// TestComputeNeverNegative sweeps a grid of bills and asserts savings and
// percentage never go below zero
func TestComputeNeverNegative(t *testing.T) {
	calc := NewCalculator()
	values := []float64{0, 1, 29, 100, 499.99, 1000, 25000}

	for _, elnat := range values {
		for _, elhandel := range values {
			for _, kwh := range values {
				result, err := calc.Compute(bill(elnat, elhandel, 0, kwh))
				if err != nil {
					t.Fatalf("Compute(%v, %v, %v) failed: %v", elnat, elhandel, kwh, err)
				}
				if result.PotentialSavings.IsNegative() {
					t.Errorf("Compute(%v, %v, %v): negative savings %s", elnat, elhandel, kwh, result.PotentialSavings)
				}
				if result.SavingsPercentage.IsNegative() {
					t.Errorf("Compute(%v, %v, %v): negative percentage %s", elnat, elhandel, kwh, result.SavingsPercentage)
				}
			}
		}
	}
}

// TestComputeRounding verifies currency rounds to whole SEK and the
// percentage keeps one decimal
func TestComputeRounding(t *testing.T) {
	calc := NewCalculator()
	result, err := calc.Compute(bill(500.4, 700.3, 100.2, 500))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	if result.CurrentCost.Exponent() < 0 {
		t.Errorf("CurrentCost %s not rounded to whole SEK", result.CurrentCost)
	}
	if got := result.CurrentCost.String(); got != "1301" {
		t.Errorf("CurrentCost = %s, want 1301", got)
	}
}

func TestComputeRejectsInvalidBills(t *testing.T) {
	calc := NewCalculator()

	tests := []struct {
		name string
		bill *types.BillData
	}{
		{"nil bill", nil},
		{"negative elnat", &types.BillData{ElnatCost: decimal.NewFromInt(-1)}},
		{"negative kwh", &types.BillData{TotalKWh: decimal.NewFromInt(-10)}},
		{"confidence out of range", &types.BillData{Confidence: 1.5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Compute(tt.bill)
			if err == nil {
				t.Fatal("expected validation error, got nil")
			}
			if !errors.IsType(err, errors.TypeValidation) {
				t.Errorf("error type = %v, want VALIDATION_ERROR", err)
			}
		})
	}
}

// TestCustomReference checks the configurable reference plan
func TestCustomReference(t *testing.T) {
	calc := NewCalculatorWithReference(decimal.NewFromFloat(1.0), decimal.NewFromInt(0))
	result, err := calc.Compute(bill(500, 700, 100, 500))
	if err != nil {
		t.Fatalf("Compute failed: %v", err)
	}
	// 500 + 500*1.0 + 0 = 1000
	if got := result.CheapestAlternative.String(); got != "1000" {
		t.Errorf("CheapestAlternative = %s, want 1000", got)
	}
}
