// Package db provides persistent storage for tariff cache entries and the
// provider catalog. One row per (supplier key, price area); writes replace.
package db

import (
	"context"
	"time"

	"elbyte/core/types"
)

// CachedTariff is one persisted cache row
type CachedTariff struct {
	// SupplierKey is the canonical supplier key
	SupplierKey string `json:"supplierKey"`

	// Area is the canonical price area
	Area types.PriceArea `json:"area"`

	// Tariff is the stored normalized tariff
	Tariff types.NormalizedTariff `json:"tariff"`

	// UpdatedAt is the last successful write time
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store persists tariff cache entries and catalog rows.
//
// Concurrent writers to the same key may race; last writer wins. A stale but
// valid cached tariff is an acceptable outcome, so no locking is required.
type Store interface {
	// GetTariff returns the cached tariff and its write time for a key.
	// Returns a CACHE_MISS error when absent.
	GetTariff(ctx context.Context, supplierKey string, area types.PriceArea) (*types.NormalizedTariff, time.Time, error)

	// PutTariff upserts the tariff for a key and returns the write time
	PutTariff(ctx context.Context, supplierKey string, area types.PriceArea, tariff *types.NormalizedTariff) (time.Time, error)

	// ListTariffs returns all cache rows
	ListTariffs(ctx context.Context) ([]CachedTariff, error)

	// ListProviders returns the provider catalog
	ListProviders(ctx context.Context) ([]types.ElectricityProvider, error)

	// UpsertProvider creates or replaces a catalog row by id
	UpsertProvider(ctx context.Context, provider types.ElectricityProvider) error

	// Close releases resources
	Close() error
}
