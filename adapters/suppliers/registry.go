// Package suppliers maps human supplier names to canonical keys and price
// endpoints, and fetches live tariff documents from those endpoints.
package suppliers

import (
	"strings"

	"elbyte/internal/errors"
)

// Supplier is one known electricity supplier with a live price endpoint
type Supplier struct {
	// Key is the canonical supplier key used for cache rows
	Key string

	// Name is the display name
	Name string

	// Fragments are lowercase name fragments that identify this supplier
	Fragments []string

	// Endpoint is the URL of the supplier's consumer price document
	Endpoint string
}

// Registry holds the fixed supplier table. New suppliers are additive rows
// here, not new conditional logic.
type Registry struct {
	suppliers []Supplier
}

// NewRegistry creates the registry with the known supplier table
func NewRegistry() *Registry {
	return &Registry{
		suppliers: []Supplier{
			{
				Key:       "cheapenergy",
				Name:      "Cheap Energy",
				Fragments: []string{"cheap energy", "cheapenergy"},
				Endpoint:  "https://www.cheapenergy.se/api/consumer_prices.json",
			},
			{
				Key:       "svealands",
				Name:      "Svealands Elbolag",
				Fragments: []string{"svealand"},
				Endpoint:  "https://www.svealandselbolag.se/api/consumer_prices.json",
			},
			{
				Key:       "stockholms",
				Name:      "Stockholms Elbolag",
				Fragments: []string{"stockholms el", "stockholms-el"},
				Endpoint:  "https://www.stockholmselbolag.se/api/consumer_prices.json",
			},
			{
				Key:       "telge",
				Name:      "Telge Energi",
				Fragments: []string{"telge"},
				Endpoint:  "https://www.telge.se/api/el/consumer_prices.json",
			},
			{
				Key:       "vattenfall",
				Name:      "Vattenfall",
				Fragments: []string{"vattenfall"},
				Endpoint:  "https://www.vattenfall.se/api/consumer_prices.json",
			},
		},
	}
}

// ApplyEndpointOverrides replaces endpoints by canonical key
func (r *Registry) ApplyEndpointOverrides(overrides map[string]string) {
	if len(overrides) == 0 {
		return
	}
	for i := range r.suppliers {
		if endpoint, ok := overrides[r.suppliers[i].Key]; ok && endpoint != "" {
			r.suppliers[i].Endpoint = endpoint
		}
	}
}

// Canonicalize resolves a fuzzy supplier name to its registry entry using
// case-insensitive substring matching. No match yields UNKNOWN_SUPPLIER and
// no network call is ever attempted for such names.
func (r *Registry) Canonicalize(name string) (*Supplier, error) {
	needle := strings.ToLower(strings.TrimSpace(name))
	if needle == "" {
		return nil, errors.UnknownSupplier(name)
	}
	for i := range r.suppliers {
		for _, fragment := range r.suppliers[i].Fragments {
			if strings.Contains(needle, fragment) {
				return &r.suppliers[i], nil
			}
		}
	}
	return nil, errors.UnknownSupplier(name)
}

// All returns the supplier table in registry order
func (r *Registry) All() []Supplier {
	out := make([]Supplier, len(r.suppliers))
	copy(out, r.suppliers)
	return out
}
