// Package types defines the domain records shared by the savings model and the
// tariff lookup path.
package types

import (
	"github.com/shopspring/decimal"

	"elbyte/internal/errors"
)

// ContractType identifies the pricing model of the customer's current contract
type ContractType string

const (
	// ContractFixed is a fixed-price contract
	ContractFixed ContractType = "fixed"

	// ContractVariable is a variable-price contract
	ContractVariable ContractType = "variable"
)

// FeeSumTolerance is the maximum accepted gap between the itemized fee sum and
// the stated fee total before the total is recomputed from the items
var FeeSumTolerance = decimal.NewFromFloat(0.01)

// ExtraFee is one itemized surcharge extracted from the bill
type ExtraFee struct {
	// Label is the fee description as printed on the bill
	Label string `json:"label"`

	// Amount is the fee amount in SEK
	Amount decimal.Decimal `json:"amount"`

	// Confidence is the parser's confidence in this item, in [0,1]
	Confidence float64 `json:"confidence"`
}

// BillData is a parsed electricity bill as delivered by the external parser.
// It is read-only within this core once validated.
type BillData struct {
	// ElnatCost is the regulated grid charge, supplier-independent
	ElnatCost decimal.Decimal `json:"elnatCost"`

	// ElhandelCost is the competitive energy charge
	ElhandelCost decimal.Decimal `json:"elhandelCost"`

	// ExtraFeesTotal is the stated sum of surcharges
	ExtraFeesTotal decimal.Decimal `json:"extraFeesTotal"`

	// ExtraFeesDetailed is the ordered list of itemized surcharges
	ExtraFeesDetailed []ExtraFee `json:"extraFeesDetailed,omitempty"`

	// TotalAmount is the bill's own declared total
	TotalAmount decimal.Decimal `json:"totalAmount"`

	// TotalKWh is the billed consumption
	TotalKWh decimal.Decimal `json:"totalKWh"`

	// Period is the billing period as free text
	Period string `json:"period,omitempty"`

	// ContractType is the current contract's pricing model
	ContractType ContractType `json:"contractType,omitempty"`

	// Confidence is the parser's overall confidence, in [0,1]
	Confidence float64 `json:"confidence"`

	// Warnings carries parser warnings, if any
	Warnings []string `json:"warnings,omitempty"`
}

// Validate checks that the bill is structurally usable for cost computations
func (b *BillData) Validate() error {
	if b == nil {
		return errors.Validation("bill data is required")
	}
	if b.ElnatCost.IsNegative() {
		return errors.Validation("elnatCost must not be negative")
	}
	if b.ElhandelCost.IsNegative() {
		return errors.Validation("elhandelCost must not be negative")
	}
	if b.ExtraFeesTotal.IsNegative() {
		return errors.Validation("extraFeesTotal must not be negative")
	}
	if b.TotalKWh.IsNegative() {
		return errors.Validation("totalKWh must not be negative")
	}
	if b.Confidence < 0 || b.Confidence > 1 {
		return errors.Validation("confidence must be in [0,1]")
	}
	if b.ContractType != "" && b.ContractType != ContractFixed && b.ContractType != ContractVariable {
		return errors.Newf(errors.TypeValidation, "unknown contract type %q", b.ContractType)
	}
	for _, fee := range b.ExtraFeesDetailed {
		if fee.Confidence < 0 || fee.Confidence > 1 {
			return errors.Newf(errors.TypeValidation, "fee %q confidence must be in [0,1]", fee.Label)
		}
	}
	return nil
}

// ReconcileFees enforces the fee-sum invariant: when the itemized fees disagree
// with the stated total by more than FeeSumTolerance, the total is recomputed
// from the items. The bill is adjusted, never rejected.
func (b *BillData) ReconcileFees() {
	if len(b.ExtraFeesDetailed) == 0 {
		return
	}
	sum := decimal.Zero
	for _, fee := range b.ExtraFeesDetailed {
		sum = sum.Add(fee.Amount)
	}
	if sum.Sub(b.ExtraFeesTotal).Abs().GreaterThan(FeeSumTolerance) {
		b.ExtraFeesTotal = sum
	}
}
