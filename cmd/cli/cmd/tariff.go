package cmd

import (
	"context"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"elbyte/adapters/suppliers"
	"elbyte/core/lookup"
	"elbyte/core/output"
	"elbyte/db"
	"elbyte/internal/config"
	"elbyte/internal/errors"
)

var (
	tariffArea        string
	tariffConsumption string
)

var tariffCmd = &cobra.Command{
	Use:   "tariff <supplier>",
	Short: "Look up a supplier tariff",
	Long: `Look up the current tariff for a supplier, resolved to the household's
price area and monthly consumption.

The supplier name is matched case-insensitively against known name
fragments, so "vattenfall", "Vattenfall AB" and "VATTENFALL" all work.
When the live fetch fails the last cached tariff is returned instead,
marked with its provenance.`,
	Args: cobra.ExactArgs(1),
	RunE: runTariff,
}

var tariffCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "List cached tariffs",
	RunE:  runTariffCache,
}

func init() {
	rootCmd.AddCommand(tariffCmd)
	tariffCmd.AddCommand(tariffCacheCmd)

	tariffCmd.Flags().StringVarP(&tariffArea, "area", "a", "", "price area (SE1-SE4, default SE3)")
	tariffCmd.Flags().StringVarP(&tariffConsumption, "consumption", "c", "0", "monthly consumption in kWh")
}

func runTariff(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	consumption, err := decimal.NewFromString(tariffConsumption)
	if err != nil || consumption.IsNegative() {
		return errors.Validation("consumption must be a non-negative number")
	}

	ctx := context.Background()
	service, store, err := buildLookupService(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	tariff, err := service.Lookup(ctx, args[0], tariffArea, consumption)
	if err != nil {
		return err
	}
	return output.RenderTariff(os.Stdout, format, tariff)
}

func runTariffCache(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(outputFormat)
	if err != nil {
		return err
	}

	ctx := context.Background()
	service, store, err := buildLookupService(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	entries, err := service.ListCached(ctx)
	if err != nil {
		return err
	}
	return output.RenderCache(os.Stdout, format, entries)
}

func buildLookupService(ctx context.Context) (*lookup.Service, db.Store, error) {
	cfg := config.Get()
	store, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return nil, nil, err
	}

	registry := suppliers.NewRegistry()
	registry.ApplyEndpointOverrides(cfg.Suppliers.Endpoints)

	timeout := time.Duration(cfg.Suppliers.TimeoutSeconds) * time.Second
	fetcher := suppliers.NewFetcher(registry, store, suppliers.WithTimeout(timeout))
	return lookup.NewService(registry, fetcher, store), store, nil
}
