// Package spot caches hourly spot prices per price area in process memory,
// with an explicit freshness check at read time. The cache is constructed
// state, not an ambient global, so tests can inject fetcher and clock.
package spot

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/internal/errors"
	"elbyte/internal/metrics"
)

// DefaultTTL is how long a fetched spot price stays fresh
const DefaultTTL = time.Hour

// PricePoint is one area's spot price at a moment in time
type PricePoint struct {
	// Area is the price area
	Area types.PriceArea `json:"area"`

	// PricePerKWh is the spot price in SEK per kWh
	PricePerKWh decimal.Decimal `json:"pricePerKWh"`

	// At is when the price was fetched
	At time.Time `json:"at"`
}

// Fetcher retrieves the current spot price for an area
type Fetcher interface {
	// FetchPrice returns the current spot price for the area
	FetchPrice(ctx context.Context, area types.PriceArea) (PricePoint, error)
}

type cacheEntry struct {
	point     PricePoint
	expiresAt time.Time
}

// Service serves spot prices from a TTL-bounded in-process cache
type Service struct {
	fetcher Fetcher
	ttl     time.Duration
	now     func() time.Time

	mu      sync.Mutex
	entries map[types.PriceArea]cacheEntry
}

// ServiceOption configures the service
type ServiceOption func(*Service)

// WithTTL overrides the cache TTL
func WithTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

// WithClock injects a clock for tests
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a spot price service over a fetcher
func NewService(fetcher Fetcher, opts ...ServiceOption) *Service {
	s := &Service{
		fetcher: fetcher,
		ttl:     DefaultTTL,
		now:     time.Now,
		entries: make(map[types.PriceArea]cacheEntry),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Price returns the cached spot price when still fresh, otherwise fetches and
// caches a new one. The TTL check happens at read time.
func (s *Service) Price(ctx context.Context, areaInput string) (PricePoint, error) {
	area := types.CanonicalArea(areaInput)

	s.mu.Lock()
	entry, ok := s.entries[area]
	s.mu.Unlock()
	if ok && s.now().Before(entry.expiresAt) {
		return entry.point, nil
	}

	point, err := s.fetcher.FetchPrice(ctx, area)
	if err != nil {
		return PricePoint{}, err
	}
	metrics.SpotRefreshes.WithLabelValues(string(area)).Inc()

	s.mu.Lock()
	s.entries[area] = cacheEntry{point: point, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()
	return point, nil
}

// HTTPFetcher fetches spot prices from a public per-area price API that
// serves one JSON document of hourly prices per day and area.
type HTTPFetcher struct {
	endpoint string
	client   *http.Client
	now      func() time.Time
}

// NewHTTPFetcher creates a fetcher against the given API base URL
func NewHTTPFetcher(endpoint string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPFetcher{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		now:      time.Now,
	}
}

// hourlyPrice is one row of the upstream day document
type hourlyPrice struct {
	SEKPerKWh decimal.Decimal `json:"SEK_per_kWh"`
	TimeStart time.Time       `json:"time_start"`
	TimeEnd   time.Time       `json:"time_end"`
}

// FetchPrice fetches today's hourly prices and picks the hour covering now
func (f *HTTPFetcher) FetchPrice(ctx context.Context, area types.PriceArea) (PricePoint, error) {
	now := f.now()
	url := fmt.Sprintf("%s/%d/%02d-%02d_%s.json",
		f.endpoint, now.Year(), int(now.Month()), now.Day(), area)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PricePoint{}, errors.Lookup("build spot price request", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return PricePoint{}, errors.Lookup("fetch spot prices", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return PricePoint{}, errors.Newf(errors.TypeLookup, "spot price API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return PricePoint{}, errors.Lookup("read spot price response", err)
	}

	var hours []hourlyPrice
	if err := json.Unmarshal(body, &hours); err != nil {
		return PricePoint{}, errors.Lookup("malformed spot price document", err)
	}

	for _, hour := range hours {
		if !now.Before(hour.TimeStart) && now.Before(hour.TimeEnd) {
			return PricePoint{Area: area, PricePerKWh: hour.SEKPerKWh, At: now}, nil
		}
	}
	return PricePoint{}, errors.Newf(errors.TypeLookup, "no spot price covers the current hour for %s", area)
}
