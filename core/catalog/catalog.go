// Package catalog loads and serves the electricity provider catalog. The
// admin surface that maintains it lives elsewhere; this side only reads,
// validates and imports rows.
package catalog

import (
	"context"
	"encoding/json"
	"os"

	"elbyte/core/types"
	"elbyte/db"
	"elbyte/internal/errors"
)

// LoadFile reads a JSON array of providers from disk and validates each row
func LoadFile(path string) ([]types.ElectricityProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.TypeConfig, "read provider catalog", err)
	}

	var providers []types.ElectricityProvider
	if err := json.Unmarshal(data, &providers); err != nil {
		return nil, errors.Wrap(errors.TypeValidation, "malformed provider catalog", err)
	}

	for i := range providers {
		if err := providers[i].Validate(); err != nil {
			return nil, err
		}
	}
	return providers, nil
}

// Active filters the catalog to providers participating in comparisons
func Active(providers []types.ElectricityProvider) []types.ElectricityProvider {
	out := make([]types.ElectricityProvider, 0, len(providers))
	for _, provider := range providers {
		if provider.IsActive {
			out = append(out, provider)
		}
	}
	return out
}

// Import upserts a provider list into the store. Used when seeding the server
// catalog from a file.
func Import(ctx context.Context, store db.Store, providers []types.ElectricityProvider) (int, error) {
	count := 0
	for _, provider := range providers {
		if err := store.UpsertProvider(ctx, provider); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
