package suppliers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"elbyte/core/types"
	"elbyte/db"
	"elbyte/internal/errors"
)

const sampleDocument = `{
	"SE3": [
		{"minConsumption": 0, "maxConsumption": 2000,
		 "standard": {"energyPrice": 0.85, "monthlyFee": 39, "total": 0.92, "totalWithVat": 1.15, "vat": 0.23}},
		{"minConsumption": 2001, "maxConsumption": 20000,
		 "noCommitment": {"energyPrice": 0.79, "monthlyFee": 29, "total": 0.86, "totalWithVat": 1.08, "vat": 0.22}}
	]
}`

func testFetcher(t *testing.T, handler http.HandlerFunc) (*Fetcher, *Supplier, *db.MemoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	registry := NewRegistry()
	registry.ApplyEndpointOverrides(map[string]string{"telge": server.URL})

	supplier, err := registry.Canonicalize("telge")
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}

	store := db.NewMemoryStore()
	return NewFetcher(registry, store), supplier, store
}

func TestFetchResolvesAndCaches(t *testing.T) {
	fetcher, supplier, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDocument))
	})

	tariff, err := fetcher.Fetch(context.Background(), supplier, types.AreaSE3, decimal.NewFromInt(5000))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if tariff.Supplier != "telge" {
		t.Errorf("Supplier = %s, want telge", tariff.Supplier)
	}
	if tariff.Provenance != types.ProvenanceLive {
		t.Errorf("Provenance = %s, want live", tariff.Provenance)
	}
	if !tariff.Matched() {
		t.Fatal("expected a bucket match for 5000 kWh")
	}
	if !tariff.EnergyPrice.Equal(decimal.NewFromFloat(0.79)) {
		t.Errorf("EnergyPrice = %s, want the no-commitment 0.79", tariff.EnergyPrice)
	}

	// The successful fetch must have been written through to the cache
	cached, _, err := store.GetTariff(context.Background(), "telge", types.AreaSE3)
	if err != nil {
		t.Fatalf("cache read after fetch failed: %v", err)
	}
	if !cached.EnergyPrice.Equal(tariff.EnergyPrice) {
		t.Errorf("cached EnergyPrice = %s, want %s", cached.EnergyPrice, tariff.EnergyPrice)
	}
}

// TestFetchCachesUnmatchedResult proves even a no-bucket-match result is
// cached, since the fetch itself succeeded
func TestFetchCachesUnmatchedResult(t *testing.T) {
	fetcher, supplier, store := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleDocument))
	})

	tariff, err := fetcher.Fetch(context.Background(), supplier, types.AreaSE3, decimal.NewFromInt(99999))
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if tariff.Matched() {
		t.Fatal("expected no bucket match for 99999 kWh")
	}
	if _, _, err := store.GetTariff(context.Background(), "telge", types.AreaSE3); err != nil {
		t.Errorf("unmatched result was not cached: %v", err)
	}
}

func TestFetchUpstreamErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"malformed body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}},
		{"missing area", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"SE1": []}`))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher, supplier, store := testFetcher(t, tt.handler)

			_, err := fetcher.Fetch(context.Background(), supplier, types.AreaSE3, decimal.NewFromInt(500))
			if err == nil {
				t.Fatal("expected fetch error, got nil")
			}
			if !errors.IsType(err, errors.TypeLookup) {
				t.Errorf("error type = %v, want LOOKUP_ERROR", err)
			}

			// Nothing may reach the cache on failure
			if _, _, err := store.GetTariff(context.Background(), "telge", types.AreaSE3); err == nil {
				t.Error("failed fetch must not write to the cache")
			}
		})
	}
}

func TestFetchTimeout(t *testing.T) {
	fetcher, supplier, _ := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(sampleDocument))
	})
	WithTimeout(20 * time.Millisecond)(fetcher)

	_, err := fetcher.Fetch(context.Background(), supplier, types.AreaSE3, decimal.NewFromInt(500))
	if err == nil {
		t.Fatal("expected timeout error, got nil")
	}
	if !errors.IsType(err, errors.TypeLookup) {
		t.Errorf("error type = %v, want LOOKUP_ERROR", err)
	}
}

func TestFetchContextCancellation(t *testing.T) {
	fetcher, supplier, _ := testFetcher(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := fetcher.Fetch(ctx, supplier, types.AreaSE3, decimal.NewFromInt(500))
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
}
