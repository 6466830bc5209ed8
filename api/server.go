// Package api is the thin JSON layer over the savings and tariff services.
// It only ingests input, orchestrates the core packages and serializes
// output; it never performs cost logic itself.
package api

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"

	"elbyte/core/catalog"
	"elbyte/core/compare"
	"elbyte/core/lookup"
	"elbyte/core/savings"
	"elbyte/core/spot"
	"elbyte/db"
	"elbyte/internal/errors"
)

// maxBodySize limits request body size
const maxBodySize = 1 << 20

// Server is the API server
type Server struct {
	calculator *savings.Calculator
	comparator *compare.Comparator
	lookup     *lookup.Service
	spot       *spot.Service
	store      db.Store
	version    string
	metrics    bool
	mux        *http.ServeMux
}

// Config wires the server's collaborators
type Config struct {
	// Calculator computes the baseline savings model
	Calculator *savings.Calculator

	// Comparator ranks catalog providers
	Comparator *compare.Comparator

	// Lookup answers tariff lookups with cache fallback
	Lookup *lookup.Service

	// Spot serves cached spot prices; optional
	Spot *spot.Service

	// Store backs the provider catalog and cache listing
	Store db.Store

	// Version is reported by /version
	Version string

	// EnableMetrics exposes Prometheus metrics on /metrics
	EnableMetrics bool
}

// NewServer creates the API server and registers its routes
func NewServer(cfg Config) *Server {
	s := &Server{
		calculator: cfg.Calculator,
		comparator: cfg.Comparator,
		lookup:     cfg.Lookup,
		spot:       cfg.Spot,
		store:      cfg.Store,
		version:    cfg.Version,
		metrics:    cfg.EnableMetrics,
		mux:        http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /api/v1/savings", s.handleSavings)
	s.mux.HandleFunc("POST /api/v1/compare", s.handleCompare)
	s.mux.HandleFunc("GET /api/v1/tariff", s.handleTariff)

	// Supporting endpoints
	s.mux.HandleFunc("GET /api/v1/tariff-cache", s.handleTariffCache)
	s.mux.HandleFunc("GET /api/v1/providers", s.handleProviders)
	s.mux.HandleFunc("GET /api/v1/spot", s.handleSpot)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)

	if s.metrics {
		s.mux.Handle("GET /metrics", promhttp.Handler())
	}
}

// handleSavings handles POST /api/v1/savings
func (s *Server) handleSavings(w http.ResponseWriter, r *http.Request) {
	var req SavingsRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, errors.Validation("invalid JSON body"))
		return
	}
	if req.Bill == nil {
		s.writeError(w, errors.Validation("bill is required"))
		return
	}
	req.Bill.ReconcileFees()

	result, err := s.calculator.Compute(req.Bill)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleCompare handles POST /api/v1/compare
func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req CompareRequest
	if err := s.parseJSON(r, &req); err != nil {
		s.writeError(w, errors.Validation("invalid JSON body"))
		return
	}
	if req.Bill == nil {
		s.writeError(w, errors.Validation("bill is required"))
		return
	}
	req.Bill.ReconcileFees()

	providers := req.Providers
	if providers == nil {
		stored, err := s.store.ListProviders(r.Context())
		if err != nil {
			s.writeError(w, err)
			return
		}
		providers = stored
	}

	result, err := s.comparator.Compare(req.Bill, providers)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, result, http.StatusOK)
}

// handleTariff handles GET /api/v1/tariff
func (s *Server) handleTariff(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	supplier := query.Get("supplier")
	if supplier == "" {
		s.writeError(w, errors.Validation("supplier query parameter is required"))
		return
	}

	consumption := decimal.Zero
	if raw := query.Get("consumption"); raw != "" {
		parsed, err := decimal.NewFromString(raw)
		if err != nil || parsed.IsNegative() {
			s.writeError(w, errors.Validation("consumption must be a non-negative number"))
			return
		}
		consumption = parsed
	}

	tariff, err := s.lookup.Lookup(r.Context(), supplier, query.Get("area"), consumption)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, tariff, http.StatusOK)
}

// handleTariffCache handles GET /api/v1/tariff-cache
func (s *Server) handleTariffCache(w http.ResponseWriter, r *http.Request) {
	entries, err := s.lookup.ListCached(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	if entries == nil {
		entries = []db.CachedTariff{}
	}
	s.writeJSON(w, map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	}, http.StatusOK)
}

// handleProviders handles GET /api/v1/providers
func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	providers, err := s.store.ListProviders(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	active := catalog.Active(providers)
	s.writeJSON(w, map[string]interface{}{
		"providers": active,
		"count":     len(active),
	}, http.StatusOK)
}

// handleSpot handles GET /api/v1/spot
func (s *Server) handleSpot(w http.ResponseWriter, r *http.Request) {
	if s.spot == nil {
		s.writeError(w, errors.Config("spot price service is not configured"))
		return
	}
	point, err := s.spot.Price(r.Context(), r.URL.Query().Get("area"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, point, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "elbyte",
		"api_version": "v1",
	}, http.StatusOK)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	handler := s.recoveryMiddleware(s.corsMiddleware(s.loggingMiddleware(s.mux)))
	handler.ServeHTTP(w, r)
}

// Helpers

func (s *Server) parseJSON(r *http.Request, v interface{}) error {
	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := string(errors.TypeInternal)
	status := http.StatusInternalServerError
	message := err.Error()

	if domainErr, ok := errors.AsError(err); ok {
		code = string(domainErr.Type)
		message = domainErr.Message
		switch domainErr.Type {
		case errors.TypeValidation:
			status = http.StatusBadRequest
		case errors.TypeUnknownSupplier:
			status = http.StatusNotFound
		case errors.TypeLookup, errors.TypeCacheMiss:
			status = http.StatusBadGateway
		case errors.TypeConfig:
			status = http.StatusServiceUnavailable
		}
	}

	s.writeJSON(w, ErrorResponse{Error: ErrorBody{Code: code, Message: message}}, status)
}
