package suppliers

import (
	"testing"

	"elbyte/internal/errors"
)

func TestCanonicalize(t *testing.T) {
	registry := NewRegistry()

	tests := []struct {
		input   string
		wantKey string
	}{
		{"vattenfall", "vattenfall"},
		{"Vattenfall AB", "vattenfall"},
		{"VATTENFALL", "vattenfall"},
		{"  Telge Energi  ", "telge"},
		{"Svealands Elbolag AB", "svealands"},
		{"cheap energy sverige", "cheapenergy"},
		{"Stockholms Elbolag", "stockholms"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			supplier, err := registry.Canonicalize(tt.input)
			if err != nil {
				t.Fatalf("Canonicalize(%q) failed: %v", tt.input, err)
			}
			if supplier.Key != tt.wantKey {
				t.Errorf("Canonicalize(%q) = %s, want %s", tt.input, supplier.Key, tt.wantKey)
			}
		})
	}
}

func TestCanonicalizeUnknown(t *testing.T) {
	registry := NewRegistry()

	for _, input := range []string{"", "   ", "Fortum", "okänd leverantör"} {
		_, err := registry.Canonicalize(input)
		if err == nil {
			t.Errorf("Canonicalize(%q) should fail", input)
			continue
		}
		if !errors.IsType(err, errors.TypeUnknownSupplier) {
			t.Errorf("Canonicalize(%q) error type = %v, want UNKNOWN_SUPPLIER", input, err)
		}
	}
}

func TestApplyEndpointOverrides(t *testing.T) {
	registry := NewRegistry()
	registry.ApplyEndpointOverrides(map[string]string{
		"telge":      "http://localhost:9999/prices.json",
		"unknown":    "http://localhost:9999/ignored.json",
		"vattenfall": "",
	})

	supplier, err := registry.Canonicalize("telge")
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if supplier.Endpoint != "http://localhost:9999/prices.json" {
		t.Errorf("Endpoint = %s, override not applied", supplier.Endpoint)
	}

	vattenfall, err := registry.Canonicalize("vattenfall")
	if err != nil {
		t.Fatalf("Canonicalize failed: %v", err)
	}
	if vattenfall.Endpoint == "" {
		t.Error("empty override must not clear the endpoint")
	}
}

func TestAllReturnsCopy(t *testing.T) {
	registry := NewRegistry()
	all := registry.All()
	if len(all) == 0 {
		t.Fatal("registry is empty")
	}
	all[0].Endpoint = "mutated"

	fresh := registry.All()
	if fresh[0].Endpoint == "mutated" {
		t.Error("All must return a copy of the supplier table")
	}
}
