// Package tariff normalizes raw supplier pricing documents into canonical
// tariff records by matching a consumption bucket.
package tariff

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

// Pricing is one pricing payload inside a bucket
type Pricing struct {
	// Surcharge is the supplier margin per kWh
	Surcharge decimal.Decimal `json:"surcharge"`

	// CertificateFee is the electricity certificate fee per kWh
	CertificateFee decimal.Decimal `json:"certificateFee"`

	// Discount is any per-kWh discount
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
}

// Bucket is one consumption-bound rate tier. Either pricing variant may be
// absent; the no-commitment variant wins when both are present.
type Bucket struct {
	// MinConsumption is the inclusive lower bound in kWh/year
	MinConsumption decimal.Decimal `json:"minConsumption"`

	// MaxConsumption is the inclusive upper bound in kWh/year
	MaxConsumption decimal.Decimal `json:"maxConsumption"`

	// NoCommitment is the no-binding-period tier, preferred when present
	NoCommitment *Pricing `json:"noCommitment,omitempty"`

	// Standard is the standard tier
	Standard *Pricing `json:"standard,omitempty"`
}

// Document is a supplier's raw tariff schedule keyed by canonical area code
type Document map[string][]Bucket

// ParseDocument decodes and structurally validates a raw tariff document.
// A non-array bucket list or non-object top level fails here.
func ParseDocument(data []byte) (Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Lookup("malformed tariff document", err)
	}
	return doc, nil
}

// Resolve selects the pricing bucket covering consumption in the given area
// and normalizes it. A lookup that matches no bucket, or an area missing from
// the document, yields a tariff with a nil Range rather than an error; callers
// must treat a nil range as "no applicable tariff found".
//
// Provenance is always "live" here; the cache layer overwrites it when serving
// a stored record.
func Resolve(doc Document, area types.PriceArea, consumption decimal.Decimal) *types.NormalizedTariff {
	out := &types.NormalizedTariff{
		Area:       area,
		Provenance: types.ProvenanceLive,
	}

	buckets, ok := doc[string(area)]
	if !ok {
		return out
	}

	for _, bucket := range buckets {
		if consumption.LessThan(bucket.MinConsumption) || consumption.GreaterThan(bucket.MaxConsumption) {
			continue
		}

		pricing := bucket.Standard
		if bucket.NoCommitment != nil {
			pricing = bucket.NoCommitment
		}
		if pricing == nil {
			continue
		}

		out.Range = &types.ConsumptionRange{
			Min: bucket.MinConsumption,
			Max: bucket.MaxConsumption,
		}
		out.Surcharge = pricing.Surcharge
		out.CertificateFee = pricing.CertificateFee
		out.Discount = pricing.Discount
		out.EnergyPrice = pricing.EnergyPrice
		out.MonthlyFee = pricing.MonthlyFee
		out.Total = pricing.Total
		out.TotalWithVat = pricing.TotalWithVat
		out.Vat = pricing.Vat
		return out
	}

	return out
}
