package db

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

// providerMetadata is the JSON blob holding descriptive catalog fields
type providerMetadata struct {
	Features   []string `json:"features,omitempty"`
	LogoURL    string   `json:"logoUrl,omitempty"`
	WebsiteURL string   `json:"websiteUrl,omitempty"`
	Phone      string   `json:"phone,omitempty"`
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (types.ElectricityProvider, error) {
	var provider types.ElectricityProvider
	var monthlyFee, energyPrice string
	var rawMeta []byte

	err := row.Scan(&provider.ID, &provider.Name, &monthlyFee, &energyPrice,
		&provider.FreeMonths, &provider.ContractLength, &provider.IsActive, &rawMeta)
	if err != nil {
		return provider, errors.Storage("scan provider row", err)
	}

	if provider.MonthlyFee, err = decimal.NewFromString(monthlyFee); err != nil {
		return provider, errors.Storage("decode monthly fee", err)
	}
	if provider.EnergyPrice, err = decimal.NewFromString(energyPrice); err != nil {
		return provider, errors.Storage("decode energy price", err)
	}

	var meta providerMetadata
	if len(rawMeta) > 0 {
		if err := json.Unmarshal(rawMeta, &meta); err != nil {
			return provider, errors.Storage("decode provider metadata", err)
		}
	}
	provider.Features = meta.Features
	provider.LogoURL = meta.LogoURL
	provider.WebsiteURL = meta.WebsiteURL
	provider.Phone = meta.Phone

	return provider, nil
}
