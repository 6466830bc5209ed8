package suppliers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"elbyte/core/tariff"
	"elbyte/core/types"
	"elbyte/db"
	"elbyte/internal/errors"
	"elbyte/internal/logging"
)

// DefaultTimeout bounds each live fetch. An unresponsive upstream is treated
// the same as a non-2xx response.
const DefaultTimeout = 10 * time.Second

// maxBodySize limits tariff document size
const maxBodySize = 2 << 20

// Fetcher performs live tariff fetches against supplier endpoints.
// Every successful fetch is written through to the cache store before it is
// returned; failures are the caller's concern.
type Fetcher struct {
	registry *Registry
	store    db.Store
	client   *http.Client
	log      *zap.Logger
}

// FetcherOption configures the fetcher
type FetcherOption func(*Fetcher)

// WithHTTPClient overrides the HTTP client
func WithHTTPClient(client *http.Client) FetcherOption {
	return func(f *Fetcher) {
		if client != nil {
			f.client = client
		}
	}
}

// WithTimeout overrides the fetch timeout
func WithTimeout(timeout time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if timeout > 0 {
			f.client.Timeout = timeout
		}
	}
}

// NewFetcher creates a fetcher over the given registry and cache store
func NewFetcher(registry *Registry, store db.Store, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		registry: registry,
		store:    store,
		client:   &http.Client{Timeout: DefaultTimeout},
		log:      logging.Named("suppliers"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Registry returns the supplier table backing this fetcher
func (f *Fetcher) Registry() *Registry {
	return f.registry
}

// Fetch retrieves the supplier's live tariff document and resolves the bucket
// for the given area and consumption. Network failures, non-2xx responses and
// structurally invalid documents yield LOOKUP_ERROR; the caller decides about
// cache fallback.
func (f *Fetcher) Fetch(ctx context.Context, supplier *Supplier, area types.PriceArea, consumption decimal.Decimal) (*types.NormalizedTariff, error) {
	doc, err := f.fetchDocument(ctx, supplier)
	if err != nil {
		return nil, err
	}

	if _, ok := doc[string(area)]; !ok {
		return nil, errors.Newf(errors.TypeLookup, "supplier %s document has no area %s", supplier.Key, area)
	}

	resolved := tariff.Resolve(doc, area, consumption)
	resolved.Supplier = supplier.Key

	if f.store != nil {
		if _, err := f.store.PutTariff(ctx, supplier.Key, area, resolved); err != nil {
			// A failed cache write must not discard a good live result
			f.log.Warn("tariff cache write failed",
				zap.String("supplier", supplier.Key),
				zap.String("area", string(area)),
				zap.Error(err))
		}
	}
	return resolved, nil
}

func (f *Fetcher) fetchDocument(ctx context.Context, supplier *Supplier) (tariff.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, supplier.Endpoint, nil)
	if err != nil {
		return nil, errors.Lookup("build tariff request", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(errors.TypeLookup, err, "fetch %s prices", supplier.Key)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.Lookup(fmt.Sprintf("supplier %s returned status %d", supplier.Key, resp.StatusCode), nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, errors.Lookup("read tariff response", err)
	}

	doc, err := tariff.ParseDocument(body)
	if err != nil {
		return nil, err
	}

	f.log.Debug("fetched tariff document",
		zap.String("supplier", supplier.Key),
		zap.Duration("elapsed", time.Since(start)))
	return doc, nil
}
