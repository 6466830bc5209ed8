// Package main - Entry point for the elbyte tariff and savings server
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"elbyte/adapters/suppliers"
	"elbyte/api"
	"elbyte/core/compare"
	"elbyte/core/lookup"
	"elbyte/core/savings"
	"elbyte/core/spot"
	"elbyte/db"
	"elbyte/internal/config"
	"elbyte/internal/logging"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	addr := flag.String("addr", "", "Listen address, overrides configuration")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	config.Set(cfg)

	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	if *addr != "" {
		cfg.Server.Address = *addr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		logging.Logger.Fatal("open tariff store", zap.Error(err))
	}
	defer store.Close()

	registry := suppliers.NewRegistry()
	registry.ApplyEndpointOverrides(cfg.Suppliers.Endpoints)

	fetchTimeout := time.Duration(cfg.Suppliers.TimeoutSeconds) * time.Second
	fetcher := suppliers.NewFetcher(registry, store, suppliers.WithTimeout(fetchTimeout))
	lookupSvc := lookup.NewService(registry, fetcher, store)

	spotFetcher := spot.NewHTTPFetcher(cfg.Spot.Endpoint, fetchTimeout)
	spotSvc := spot.NewService(spotFetcher, spot.WithTTL(time.Duration(cfg.Spot.TTLSeconds)*time.Second))

	calculator, err := buildCalculator(cfg.Savings)
	if err != nil {
		logging.Logger.Fatal("invalid savings configuration", zap.Error(err))
	}

	server := api.NewServer(api.Config{
		Calculator:    calculator,
		Comparator:    compare.NewComparator(),
		Lookup:        lookupSvc,
		Spot:          spotSvc,
		Store:         store,
		Version:       version,
		EnableMetrics: cfg.Server.EnableMetrics,
	})

	httpServer := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      server,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logging.Logger.Warn("shutdown", zap.Error(err))
		}
	}()

	logging.Logger.Info("server listening",
		zap.String("address", cfg.Server.Address),
		zap.String("version", version),
		zap.String("store", cfg.Store.Driver),
	)

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logging.Logger.Fatal("server failed", zap.Error(err))
	}
}

func buildCalculator(cfg config.SavingsConfig) (*savings.Calculator, error) {
	if cfg.ReferenceEnergyRate == "" && cfg.MinimalMonthlyFee == "" {
		return savings.NewCalculator(), nil
	}
	rate, err := decimal.NewFromString(cfg.ReferenceEnergyRate)
	if err != nil {
		return nil, fmt.Errorf("reference energy rate: %w", err)
	}
	fee, err := decimal.NewFromString(cfg.MinimalMonthlyFee)
	if err != nil {
		return nil, fmt.Errorf("minimal monthly fee: %w", err)
	}
	return savings.NewCalculatorWithReference(rate, fee), nil
}
