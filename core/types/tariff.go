package types

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// PriceArea is one of the four regional electricity pricing zones
type PriceArea string

const (
	// AreaSE1 is northern Sweden
	AreaSE1 PriceArea = "SE1"

	// AreaSE2 is central-north Sweden
	AreaSE2 PriceArea = "SE2"

	// AreaSE3 is central-south Sweden
	AreaSE3 PriceArea = "SE3"

	// AreaSE4 is southern Sweden
	AreaSE4 PriceArea = "SE4"

	// DefaultArea is the fallback when input is absent or invalid
	DefaultArea = AreaSE3
)

// AllAreas lists the canonical price areas in order
func AllAreas() []PriceArea {
	return []PriceArea{AreaSE1, AreaSE2, AreaSE3, AreaSE4}
}

// CanonicalArea coerces any input to a canonical price area code.
// Anything that is not exactly SE1-SE4 (case-insensitive) becomes DefaultArea.
func CanonicalArea(input string) PriceArea {
	switch PriceArea(strings.ToUpper(strings.TrimSpace(input))) {
	case AreaSE1:
		return AreaSE1
	case AreaSE2:
		return AreaSE2
	case AreaSE3:
		return AreaSE3
	case AreaSE4:
		return AreaSE4
	default:
		return DefaultArea
	}
}

// Provenance tags where a returned tariff came from
type Provenance string

const (
	// ProvenanceLive marks a tariff from a live fetch
	ProvenanceLive Provenance = "live"

	// ProvenanceCache marks a tariff served from the persisted cache
	ProvenanceCache Provenance = "cache"
)

// ConsumptionRange is the consumption bucket a tariff was matched against
type ConsumptionRange struct {
	// Min is the inclusive lower bound in kWh/year
	Min decimal.Decimal `json:"min"`

	// Max is the inclusive upper bound in kWh/year
	Max decimal.Decimal `json:"max"`
}

// NormalizedTariff is the canonical tariff record produced by bucket resolution.
// A nil Range means no applicable bucket was found; callers must treat that as
// "no applicable tariff", not as an error.
type NormalizedTariff struct {
	// Supplier is the canonical supplier key
	Supplier string `json:"supplier"`

	// Area is the canonical price area the tariff applies to
	Area PriceArea `json:"area"`

	// Range is the matched consumption bucket, nil when nothing matched
	Range *ConsumptionRange `json:"range"`

	// Surcharge is the supplier margin per kWh
	Surcharge decimal.Decimal `json:"surcharge"`

	// CertificateFee is the electricity certificate fee per kWh
	CertificateFee decimal.Decimal `json:"certificateFee"`

	// Discount is any per-kWh discount applied
	Discount decimal.Decimal `json:"discount"`

	// EnergyPrice is the base energy price per kWh
	EnergyPrice decimal.Decimal `json:"energyPrice"`

	// MonthlyFee is the fixed monthly fee
	MonthlyFee decimal.Decimal `json:"monthlyFee"`

	// Total is the per-kWh total excluding VAT
	Total decimal.Decimal `json:"total"`

	// TotalWithVat is the per-kWh total including VAT
	TotalWithVat decimal.Decimal `json:"totalWithVat"`

	// Vat is the VAT portion per kWh
	Vat decimal.Decimal `json:"vat"`

	// Provenance tags live versus cached data
	Provenance Provenance `json:"provenance"`

	// CachedAt is the cache write time, set only when served from cache
	CachedAt *time.Time `json:"cachedAt,omitempty"`
}

// Matched reports whether a consumption bucket was found
func (t *NormalizedTariff) Matched() bool {
	return t.Range != nil
}
