package db

import (
	"context"
	"sort"
	"sync"
	"time"

	"elbyte/core/types"
	"elbyte/internal/errors"
)

// MemoryStore is an in-process Store for tests and the memory driver.
// Last writer wins, matching the persistent backends.
type MemoryStore struct {
	mu        sync.RWMutex
	tariffs   map[string]CachedTariff
	providers map[string]types.ElectricityProvider

	// Now is injectable for tests; defaults to time.Now
	Now func() time.Time
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		tariffs:   make(map[string]CachedTariff),
		providers: make(map[string]types.ElectricityProvider),
		Now:       time.Now,
	}
}

func cacheKey(supplierKey string, area types.PriceArea) string {
	return supplierKey + "/" + string(area)
}

// GetTariff returns the cached tariff for a key
func (s *MemoryStore) GetTariff(_ context.Context, supplierKey string, area types.PriceArea) (*types.NormalizedTariff, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.tariffs[cacheKey(supplierKey, area)]
	if !ok {
		return nil, time.Time{}, errors.CacheMiss(supplierKey, string(area))
	}
	tariff := entry.Tariff
	return &tariff, entry.UpdatedAt, nil
}

// PutTariff upserts the tariff for a key
func (s *MemoryStore) PutTariff(_ context.Context, supplierKey string, area types.PriceArea, tariff *types.NormalizedTariff) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.Now().UTC()
	s.tariffs[cacheKey(supplierKey, area)] = CachedTariff{
		SupplierKey: supplierKey,
		Area:        area,
		Tariff:      *tariff,
		UpdatedAt:   now,
	}
	return now, nil
}

// ListTariffs returns all cache rows
func (s *MemoryStore) ListTariffs(_ context.Context) ([]CachedTariff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]CachedTariff, 0, len(s.tariffs))
	for _, entry := range s.tariffs {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SupplierKey != entries[j].SupplierKey {
			return entries[i].SupplierKey < entries[j].SupplierKey
		}
		return entries[i].Area < entries[j].Area
	})
	return entries, nil
}

// ListProviders returns the provider catalog
func (s *MemoryStore) ListProviders(_ context.Context) ([]types.ElectricityProvider, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	providers := make([]types.ElectricityProvider, 0, len(s.providers))
	for _, provider := range s.providers {
		providers = append(providers, provider)
	}
	sort.Slice(providers, func(i, j int) bool {
		return providers[i].Name < providers[j].Name
	})
	return providers, nil
}

// UpsertProvider creates or replaces a catalog row
func (s *MemoryStore) UpsertProvider(_ context.Context, provider types.ElectricityProvider) error {
	if err := provider.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.providers[provider.ID] = provider
	return nil
}

// Close is a no-op
func (s *MemoryStore) Close() error {
	return nil
}
