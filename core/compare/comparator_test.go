package compare

import (
	"testing"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

func testBill() *types.BillData {
	return &types.BillData{
		ElnatCost:      decimal.NewFromInt(500),
		ElhandelCost:   decimal.NewFromInt(700),
		ExtraFeesTotal: decimal.NewFromInt(100),
		TotalAmount:    decimal.NewFromInt(1300),
		TotalKWh:       decimal.NewFromInt(500),
		Confidence:     0.9,
	}
}

func provider(id string, energyPrice, monthlyFee float64, active bool) types.ElectricityProvider {
	return types.ElectricityProvider{
		ID:          id,
		Name:        id,
		EnergyPrice: decimal.NewFromFloat(energyPrice),
		MonthlyFee:  decimal.NewFromFloat(monthlyFee),
		IsActive:    active,
	}
}

func TestCompareRanksBySavingsDescending(t *testing.T) {
	providers := []types.ElectricityProvider{
		provider("pricey", 2.0, 99, true),   // 500 + 1000 + 99 = 1599, savings -299
		provider("cheap", 0.6, 19, true),    // 500 + 300 + 19 = 819, savings 481
		provider("moderate", 1.0, 49, true), // 500 + 500 + 49 = 1049, savings 251
	}

	result, err := NewComparator().Compare(testBill(), providers)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}

	if result.TotalProviders != 3 {
		t.Errorf("TotalProviders = %d, want 3", result.TotalProviders)
	}
	if result.RecommendedCount != 2 {
		t.Errorf("RecommendedCount = %d, want 2", result.RecommendedCount)
	}

	wantOrder := []string{"cheap", "moderate", "pricey"}
	for i, want := range wantOrder {
		if got := result.Comparisons[i].Provider.ID; got != want {
			t.Errorf("rank %d = %s, want %s", i, got, want)
		}
	}

	best := result.Comparisons[0]
	if got := best.EstimatedMonthlyCost.String(); got != "819" {
		t.Errorf("best EstimatedMonthlyCost = %s, want 819", got)
	}
	if got := best.EstimatedSavings.String(); got != "481" {
		t.Errorf("best EstimatedSavings = %s, want 481", got)
	}
	if !best.IsRecommended {
		t.Error("best provider should be recommended")
	}

	worst := result.Comparisons[2]
	if got := worst.EstimatedSavings.String(); got != "-299" {
		t.Errorf("worst EstimatedSavings = %s, want -299", got)
	}
	if worst.IsRecommended {
		t.Error("negative-savings provider must not be recommended")
	}
}

func TestCompareExcludesInactiveProviders(t *testing.T) {
	providers := []types.ElectricityProvider{
		provider("active", 1.0, 49, true),
		provider("defunct", 0.1, 0, false),
	}

	result, err := NewComparator().Compare(testBill(), providers)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.TotalProviders != 1 {
		t.Fatalf("TotalProviders = %d, want 1", result.TotalProviders)
	}
	if result.Comparisons[0].Provider.ID != "active" {
		t.Errorf("kept %s, want active", result.Comparisons[0].Provider.ID)
	}
}

// TestCompareFreeMonthsWaivesFee proves a freeMonths offer is compared with a
// zero monthly fee
func TestCompareFreeMonthsWaivesFee(t *testing.T) {
	promo := provider("promo", 1.0, 99, true)
	promo.FreeMonths = 3

	result, err := NewComparator().Compare(testBill(), []types.ElectricityProvider{promo})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	// 500 + 500 without the 99 fee
	if got := result.Comparisons[0].EstimatedMonthlyCost.String(); got != "1000" {
		t.Errorf("EstimatedMonthlyCost = %s, want 1000", got)
	}
}

// TestCompareSavingsBaseIsDeclaredTotal proves the comparison measures against
// the bill's own total, while CurrentCost stays the recomputed breakdown sum
func TestCompareSavingsBaseIsDeclaredTotal(t *testing.T) {
	b := testBill()
	b.TotalAmount = decimal.NewFromInt(1500) // declared total above the breakdown sum

	result, err := NewComparator().Compare(b, []types.ElectricityProvider{provider("p", 1.0, 49, true)})
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	// cost 1049, against declared 1500
	if got := result.Comparisons[0].EstimatedSavings.String(); got != "451" {
		t.Errorf("EstimatedSavings = %s, want 451", got)
	}
	if got := result.CurrentCost.String(); got != "1300" {
		t.Errorf("CurrentCost = %s, want 1300", got)
	}
}

func TestCompareStableOrderOnTies(t *testing.T) {
	providers := []types.ElectricityProvider{
		provider("first", 1.0, 49, true),
		provider("second", 1.0, 49, true),
	}

	result, err := NewComparator().Compare(testBill(), providers)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.Comparisons[0].Provider.ID != "first" || result.Comparisons[1].Provider.ID != "second" {
		t.Errorf("tie broke catalog order: %s, %s",
			result.Comparisons[0].Provider.ID, result.Comparisons[1].Provider.ID)
	}
}

func TestCompareEmptyCatalog(t *testing.T) {
	result, err := NewComparator().Compare(testBill(), nil)
	if err != nil {
		t.Fatalf("Compare failed: %v", err)
	}
	if result.TotalProviders != 0 || len(result.Comparisons) != 0 {
		t.Errorf("expected empty result, got %+v", result)
	}
}

func TestCompareNilBill(t *testing.T) {
	_, err := NewComparator().Compare(nil, nil)
	if err == nil {
		t.Fatal("expected error for nil bill")
	}
	if !errors.IsType(err, errors.TypeValidation) {
		t.Errorf("error type = %v, want VALIDATION_ERROR", err)
	}
}
