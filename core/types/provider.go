package types

import (
	"github.com/shopspring/decimal"

	"elbyte/internal/errors"
)

// ElectricityProvider is one supplier from the catalog
type ElectricityProvider struct {
	// ID uniquely identifies the provider
	ID string `json:"id"`

	// Name is the display name
	Name string `json:"name"`

	// MonthlyFee is the fixed monthly fee in SEK
	MonthlyFee decimal.Decimal `json:"monthlyFee"`

	// EnergyPrice is the price per kWh in SEK
	EnergyPrice decimal.Decimal `json:"energyPrice"`

	// FreeMonths is the number of months with waived monthly fee
	FreeMonths int `json:"freeMonths"`

	// ContractLength is the binding period in months, 0 for none
	ContractLength int `json:"contractLength"`

	// IsActive marks whether the provider participates in comparisons
	IsActive bool `json:"isActive"`

	// Features lists marketing features
	Features []string `json:"features,omitempty"`

	// LogoURL points to the provider logo
	LogoURL string `json:"logoUrl,omitempty"`

	// WebsiteURL points to the provider site
	WebsiteURL string `json:"websiteUrl,omitempty"`

	// Phone is the customer service number
	Phone string `json:"phone,omitempty"`
}

// Validate checks catalog row sanity
func (p *ElectricityProvider) Validate() error {
	if p.Name == "" {
		return errors.Validation("provider name is required")
	}
	if p.MonthlyFee.IsNegative() {
		return errors.Newf(errors.TypeValidation, "provider %s: monthlyFee must not be negative", p.Name)
	}
	if p.EnergyPrice.IsNegative() {
		return errors.Newf(errors.TypeValidation, "provider %s: energyPrice must not be negative", p.Name)
	}
	if p.FreeMonths < 0 {
		return errors.Newf(errors.TypeValidation, "provider %s: freeMonths must not be negative", p.Name)
	}
	return nil
}

// ProviderComparison is one provider's estimate against a specific bill
type ProviderComparison struct {
	// Provider is the compared supplier
	Provider ElectricityProvider `json:"provider"`

	// EstimatedMonthlyCost is the supplier's estimated monthly cost for this bill
	EstimatedMonthlyCost decimal.Decimal `json:"estimatedMonthlyCost"`

	// EstimatedSavings is the bill's declared total minus the estimate
	EstimatedSavings decimal.Decimal `json:"estimatedSavings"`

	// IsRecommended is true when switching would save money
	IsRecommended bool `json:"isRecommended"`
}
