package tariff

import (
	"testing"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

func pricing(total float64) *Pricing {
	return &Pricing{
		EnergyPrice: decimal.NewFromFloat(total),
		Total:       decimal.NewFromFloat(total),
	}
}

func twoBucketDoc() Document {
	return Document{
		"SE3": []Bucket{
			{
				MinConsumption: decimal.Zero,
				MaxConsumption: decimal.NewFromInt(100),
				Standard:       pricing(1.10),
			},
			{
				MinConsumption: decimal.NewFromInt(101),
				MaxConsumption: decimal.NewFromInt(300),
				Standard:       pricing(0.95),
			},
		},
	}
}

// TestResolveBucketBoundaries checks that both bucket bounds are inclusive
func TestResolveBucketBoundaries(t *testing.T) {
	doc := twoBucketDoc()

	tests := []struct {
		consumption int64
		wantMax     int64
	}{
		{0, 100},
		{100, 100}, // upper bound of the first bucket
		{101, 300}, // lower bound of the second bucket
		{300, 300},
	}
	for _, tt := range tests {
		tariff := Resolve(doc, types.AreaSE3, decimal.NewFromInt(tt.consumption))
		if !tariff.Matched() {
			t.Fatalf("consumption %d: no bucket matched", tt.consumption)
		}
		if !tariff.Range.Max.Equal(decimal.NewFromInt(tt.wantMax)) {
			t.Errorf("consumption %d matched bucket with max %s, want %d",
				tt.consumption, tariff.Range.Max, tt.wantMax)
		}
	}
}

// TestResolveNoBucketMatches proves an out-of-range consumption yields a nil
// range, not an error
func TestResolveNoBucketMatches(t *testing.T) {
	tariff := Resolve(twoBucketDoc(), types.AreaSE3, decimal.NewFromInt(5000))
	if tariff == nil {
		t.Fatal("Resolve returned nil")
	}
	if tariff.Matched() {
		t.Errorf("expected no match, got range %+v", tariff.Range)
	}
	if tariff.Provenance != types.ProvenanceLive {
		t.Errorf("Provenance = %s, want live", tariff.Provenance)
	}
}

func TestResolveMissingArea(t *testing.T) {
	tariff := Resolve(twoBucketDoc(), types.AreaSE1, decimal.NewFromInt(50))
	if tariff.Matched() {
		t.Errorf("expected no match for absent area, got %+v", tariff.Range)
	}
}

// TestResolveNoCommitmentWins proves the no-commitment tier is preferred when
// both tiers are present
func TestResolveNoCommitmentWins(t *testing.T) {
	doc := Document{
		"SE3": []Bucket{
			{
				MinConsumption: decimal.Zero,
				MaxConsumption: decimal.NewFromInt(1000),
				NoCommitment:   pricing(0.80),
				Standard:       pricing(1.20),
			},
		},
	}

	tariff := Resolve(doc, types.AreaSE3, decimal.NewFromInt(500))
	if !tariff.Matched() {
		t.Fatal("no bucket matched")
	}
	if !tariff.Total.Equal(decimal.NewFromFloat(0.80)) {
		t.Errorf("Total = %s, want the no-commitment 0.8", tariff.Total)
	}
}

// TestResolveSkipsEmptyBuckets proves a bucket with neither tier is passed over
func TestResolveSkipsEmptyBuckets(t *testing.T) {
	doc := Document{
		"SE3": []Bucket{
			{
				MinConsumption: decimal.Zero,
				MaxConsumption: decimal.NewFromInt(1000),
			},
		},
	}
	tariff := Resolve(doc, types.AreaSE3, decimal.NewFromInt(500))
	if tariff.Matched() {
		t.Errorf("bucket without pricing should not match, got %+v", tariff.Range)
	}
}

func TestResolveFirstMatchWins(t *testing.T) {
	doc := Document{
		"SE3": []Bucket{
			{
				MinConsumption: decimal.Zero,
				MaxConsumption: decimal.NewFromInt(500),
				Standard:       pricing(1.00),
			},
			{
				MinConsumption: decimal.Zero,
				MaxConsumption: decimal.NewFromInt(500),
				Standard:       pricing(2.00),
			},
		},
	}
	tariff := Resolve(doc, types.AreaSE3, decimal.NewFromInt(250))
	if !tariff.Total.Equal(decimal.NewFromInt(1)) {
		t.Errorf("Total = %s, want the first bucket's 1", tariff.Total)
	}
}

func TestParseDocument(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		wantErr bool
	}{
		{"valid document", `{"SE3":[{"minConsumption":"0","maxConsumption":"100","standard":{"total":"1.1"}}]}`, false},
		{"empty object", `{}`, false},
		{"bucket list not an array", `{"SE3":{"minConsumption":"0"}}`, true},
		{"top level not an object", `[1,2,3]`, true},
		{"truncated JSON", `{"SE3":[`, true},
		{"not JSON at all", `<html>offline</html>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocument([]byte(tt.payload))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected parse error, got nil")
				}
				if !errors.IsType(err, errors.TypeLookup) {
					t.Errorf("error type = %v, want LOOKUP_ERROR", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDocument failed: %v", err)
			}
		})
	}
}
