// Package lookup composes the live tariff fetcher with the persisted cache:
// try live, fall back to the last good cached tariff, fail only when both are
// unavailable.
package lookup

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"elbyte/adapters/suppliers"
	"elbyte/core/types"
	"elbyte/db"
	"elbyte/internal/logging"
	"elbyte/internal/metrics"
)

// LiveFetcher is the live-fetch side of the orchestration
type LiveFetcher interface {
	// Fetch retrieves and resolves the supplier's live tariff
	Fetch(ctx context.Context, supplier *suppliers.Supplier, area types.PriceArea, consumption decimal.Decimal) (*types.NormalizedTariff, error)
}

// Service answers tariff lookups with cache fallback
type Service struct {
	registry *suppliers.Registry
	fetcher  LiveFetcher
	store    db.Store
	log      *zap.Logger
}

// NewService creates a lookup service
func NewService(registry *suppliers.Registry, fetcher LiveFetcher, store db.Store) *Service {
	return &Service{
		registry: registry,
		fetcher:  fetcher,
		store:    store,
		log:      logging.Named("lookup"),
	}
}

// Registry exposes the supplier table
func (s *Service) Registry() *suppliers.Registry {
	return s.registry
}

// Lookup resolves a tariff for a fuzzy supplier name, price area and yearly
// consumption. Unknown suppliers fail before any I/O and never fall back.
// Live failures fall back to the cache for the same key; when the cache is
// also empty the original fetch failure is propagated.
func (s *Service) Lookup(ctx context.Context, supplierName, areaInput string, consumption decimal.Decimal) (*types.NormalizedTariff, error) {
	supplier, err := s.registry.Canonicalize(supplierName)
	if err != nil {
		return nil, err
	}
	area := types.CanonicalArea(areaInput)

	tariff, err := fetchWithFallback(ctx,
		func(ctx context.Context) (*types.NormalizedTariff, error) {
			return s.fetcher.Fetch(ctx, supplier, area, consumption)
		},
		func(ctx context.Context) (*types.NormalizedTariff, time.Time, error) {
			return s.store.GetTariff(ctx, supplier.Key, area)
		},
	)
	if err != nil {
		metrics.TariffLookups.WithLabelValues(supplier.Key, "error").Inc()
		metrics.FetchFailures.WithLabelValues(supplier.Key).Inc()
		return nil, err
	}

	switch tariff.Provenance {
	case types.ProvenanceCache:
		metrics.TariffLookups.WithLabelValues(supplier.Key, "cache").Inc()
		metrics.CacheFallbacks.Inc()
		s.log.Info("tariff served from cache",
			zap.String("supplier", supplier.Key),
			zap.String("area", string(area)),
			zap.Timep("cachedAt", tariff.CachedAt))
	default:
		metrics.TariffLookups.WithLabelValues(supplier.Key, "live").Inc()
	}
	return tariff, nil
}

// ListCached returns all persisted cache rows
func (s *Service) ListCached(ctx context.Context) ([]db.CachedTariff, error) {
	return s.store.ListTariffs(ctx)
}

// fetchWithFallback is the single generic fetch-then-cache orchestration,
// parameterized by its two suppliers of data. On live failure the cache is
// consulted; a hit comes back with provenance forced to "cache" and the
// stored timestamp attached, a miss propagates the original live error.
func fetchWithFallback(
	ctx context.Context,
	fetch func(context.Context) (*types.NormalizedTariff, error),
	fromCache func(context.Context) (*types.NormalizedTariff, time.Time, error),
) (*types.NormalizedTariff, error) {
	live, fetchErr := fetch(ctx)
	if fetchErr == nil {
		return live, nil
	}

	cached, updatedAt, cacheErr := fromCache(ctx)
	if cacheErr != nil {
		return nil, fetchErr
	}

	cached.Provenance = types.ProvenanceCache
	at := updatedAt
	cached.CachedAt = &at
	return cached, nil
}
